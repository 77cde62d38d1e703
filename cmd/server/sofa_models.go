package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/sillones/internal/store"
)

func (s *server) handleSofaModelsList(w http.ResponseWriter, r *http.Request) {
	models, err := s.store.ListSofaModels(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

func (s *server) handleSofaModelGet(w http.ResponseWriter, r *http.Request) {
	m, err := s.store.GetSofaModel(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// handleSofaModelMaterials lists the materials a customer may pick as surcharges for this model.
func (s *server) handleSofaModelMaterials(w http.ResponseWriter, r *http.Request) {
	materials, err := s.store.SofaModelMaterials(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, materials)
}

func (s *server) handleSofaModelsCreate(w http.ResponseWriter, r *http.Request) {
	var in store.SofaModelInput
	if !decodeJSON(w, r, &in) {
		return
	}

	m, err := s.store.CreateSofaModel(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.SofaModelPriced()
	s.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusCreated, m)
}

func (s *server) handleSofaModelUpdate(w http.ResponseWriter, r *http.Request) {
	var in store.SofaModelInput
	if !decodeJSON(w, r, &in) {
		return
	}

	m, err := s.store.UpdateSofaModel(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.metrics.SofaModelPriced()
	s.reports.Invalidate(r.Context())
	writeJSON(w, http.StatusOK, m)
}

func (s *server) handleSofaModelDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteSofaModel(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, r, err)
		return
	}
	s.reports.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}
