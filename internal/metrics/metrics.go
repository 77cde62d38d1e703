// Package metrics exposes Prometheus collectors for HTTP traffic and sales activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
)

const namespace = "sillones"

type Metrics struct {
	gatherer prometheus.Gatherer

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	ordersCreated    *prometheus.CounterVec
	orderAmount      prometheus.Counter
	sofaModelsPriced prometheus.Counter
	reportBuilds     prometheus.Counter
}

// New registers every collector on reg. Passing a fresh registry keeps tests isolated from
// the global default registry.
func New(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		gatherer: reg,
		requestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		ordersCreated: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "orders_created_total",
				Help:      "Orders created, by initial status",
			},
			[]string{"status"},
		),
		orderAmount: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_amount_total",
			Help:      "Sum of total_amount over created orders",
		}),
		sofaModelsPriced: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sofa_models_priced_total",
			Help:      "Sofa model prices computed and stored on create or update",
		}),
		reportBuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_builds_total",
			Help:      "Reports computed from the database",
		}),
	}
}

// Middleware records request count and latency labelled by chi route pattern, so
// /api/orders/{id} stays one series no matter the id.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		labels := []string{r.Method, route, strconv.Itoa(status)}
		m.requestsTotal.WithLabelValues(labels...).Inc()
		m.requestDuration.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) OrderCreated(status string, total decimal.Decimal) {
	m.ordersCreated.WithLabelValues(status).Inc()
	m.orderAmount.Add(total.InexactFloat64())
}

func (m *Metrics) SofaModelPriced() {
	m.sofaModelsPriced.Inc()
}

func (m *Metrics) ReportBuilt() {
	m.reportBuilds.Inc()
}
