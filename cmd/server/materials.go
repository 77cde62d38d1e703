package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/sillones/internal/store"
)

func (s *server) handleMaterialsList(w http.ResponseWriter, r *http.Request) {
	materials, err := s.store.ListMaterials(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

func (s *server) handleMaterialGet(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetMaterial(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *server) handleMaterialsCreate(w http.ResponseWriter, r *http.Request) {
	var in store.MaterialInput
	if !decodeJSON(w, r, &in) {
		return
	}

	m, err := s.store.CreateMaterial(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, m)
}

func (s *server) handleMaterialUpdate(w http.ResponseWriter, r *http.Request) {
	var in store.MaterialInput
	if !decodeJSON(w, r, &in) {
		return
	}

	m, err := s.store.UpdateMaterial(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, m)
}

func (s *server) handleMaterialDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMaterial(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
