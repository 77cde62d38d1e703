package main

import (
	"net/http"
	"testing"

	"github.com/Simplici0/sillones/internal/reports"
)

func TestReportsAPI(t *testing.T) {
	srv := newTestServer(t)
	f := seedCatalog(t, srv)
	h := srv.routes()

	payload := orderPayload(f)
	payload["status"] = "completed"
	expectStatus(t, doJSON(t, h, http.MethodPost, "/api/orders", payload), http.StatusCreated)
	expectStatus(t, doJSON(t, h, http.MethodPost, "/api/orders", orderPayload(f)), http.StatusCreated)

	rr := doJSON(t, h, http.MethodGet, "/api/reports", nil)
	expectStatus(t, rr, http.StatusOK)

	var report reports.Report
	decodeBody(t, rr, &report)
	if report.Summary.TotalSales.String() != "795" || report.Summary.TotalOrders != 2 || report.Summary.CompletedPercent != 50 {
		t.Fatalf("unexpected summary: %+v", report.Summary)
	}
	if len(report.SalesByMonth) != 12 {
		t.Fatalf("expected 12 months, got %d", len(report.SalesByMonth))
	}
	if len(report.TopSofas) != 1 || report.TopSofas[0].Name != "Chesterfield" || report.TopSofas[0].Quantity != 3 {
		t.Fatalf("unexpected top sofas: %+v", report.TopSofas)
	}
	if len(report.MaterialUsage) != 2 {
		t.Fatalf("unexpected material usage: %+v", report.MaterialUsage)
	}

	expectStatus(t, doJSON(t, h, http.MethodGet, "/api/reports?year=2024", nil), http.StatusOK)
	expectStatus(t, doJSON(t, h, http.MethodGet, "/api/reports?year=dos-mil", nil), http.StatusBadRequest)
}

func TestDashboardAPI(t *testing.T) {
	srv := newTestServer(t)
	f := seedCatalog(t, srv)
	h := srv.routes()

	for i := 0; i < 6; i++ {
		expectStatus(t, doJSON(t, h, http.MethodPost, "/api/orders", orderPayload(f)), http.StatusCreated)
	}

	rr := doJSON(t, h, http.MethodGet, "/api/dashboard", nil)
	expectStatus(t, rr, http.StatusOK)

	var dash reports.Dashboard
	decodeBody(t, rr, &dash)
	if dash.Counts.Materials != 3 || dash.Counts.SofaModels != 1 || dash.Counts.Orders != 6 {
		t.Fatalf("unexpected counts: %+v", dash.Counts)
	}
	if len(dash.RecentOrders) != 5 {
		t.Fatalf("expected 5 recent orders, got %d", len(dash.RecentOrders))
	}
}
