package main

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/Simplici0/sillones/internal/logger"
	"github.com/Simplici0/sillones/internal/metrics"
	"github.com/Simplici0/sillones/internal/reports"
	"github.com/Simplici0/sillones/internal/store"
)

const maxBodyBytes = 1 << 20

type server struct {
	store   *store.Store
	reports *reports.Service
	metrics *metrics.Metrics
	log     *zap.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(logger.Middleware(s.log))
	r.Use(s.metrics.Middleware)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/dashboard", s.handleDashboard)
		r.Get("/reports", s.handleReports)

		r.Post("/pricing/sofa-model", s.handlePriceSofaModel)
		r.Post("/pricing/order", s.handlePriceOrder)

		r.Route("/materials", func(r chi.Router) {
			r.Get("/", s.handleMaterialsList)
			r.Post("/", s.handleMaterialsCreate)
			r.Get("/{id}", s.handleMaterialGet)
			r.Put("/{id}", s.handleMaterialUpdate)
			r.Delete("/{id}", s.handleMaterialDelete)
		})

		r.Route("/sofa-models", func(r chi.Router) {
			r.Get("/", s.handleSofaModelsList)
			r.Post("/", s.handleSofaModelsCreate)
			r.Get("/{id}", s.handleSofaModelGet)
			r.Put("/{id}", s.handleSofaModelUpdate)
			r.Delete("/{id}", s.handleSofaModelDelete)
			r.Get("/{id}/materials", s.handleSofaModelMaterials)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", s.handleOrdersList)
			r.Post("/", s.handleOrdersCreate)
			r.Get("/{id}", s.handleOrderGet)
			r.Put("/{id}", s.handleOrderUpdate)
			r.Delete("/{id}", s.handleOrderDelete)
			r.Get("/{id}/text", s.handleOrderText)
		})
	})

	return r
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		logger.FromContext(r.Context()).Error("database ping failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps store errors to status codes. Unexpected errors are logged and hidden.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, store.ErrInvalid):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.Is(err, store.ErrInUse):
		writeJSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		logger.FromContext(r.Context()).Error("request failed", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "error interno del servidor"})
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "JSON inválido: " + err.Error()})
		return false
	}
	return true
}
