package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/api/orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "missing" {
			http.NotFound(w, r)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"a", "b", "missing"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/orders/"+id, nil))
	}

	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/orders/{id}", "200")); got != 2 {
		t.Fatalf("expected 2 ok requests, got %v", got)
	}
	if got := testutil.ToFloat64(m.requestsTotal.WithLabelValues("GET", "/api/orders/{id}", "404")); got != 1 {
		t.Fatalf("expected 1 not found request, got %v", got)
	}
	if got := testutil.CollectAndCount(m.requestDuration); got != 2 {
		t.Fatalf("expected 2 duration series, got %d", got)
	}
}

func TestDomainCounters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.OrderCreated("pending", decimal.RequireFromString("795"))
	m.OrderCreated("completed", decimal.RequireFromString("204.5"))
	m.SofaModelPriced()
	m.ReportBuilt()

	if got := testutil.ToFloat64(m.ordersCreated.WithLabelValues("pending")); got != 1 {
		t.Fatalf("expected 1 pending order, got %v", got)
	}
	if got := testutil.ToFloat64(m.orderAmount); got != 999.5 {
		t.Fatalf("expected order amount 999.5, got %v", got)
	}
	if got := testutil.ToFloat64(m.sofaModelsPriced); got != 1 {
		t.Fatalf("expected 1 priced model, got %v", got)
	}
}

func TestHandlerExposesRegistry(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.SofaModelPriced()

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body, _ := io.ReadAll(rr.Body)
	if !strings.Contains(string(body), "sillones_sofa_models_priced_total 1") {
		t.Fatalf("expected counter in exposition, got:\n%s", body)
	}
}
