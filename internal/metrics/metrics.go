// Package metrics exposes Prometheus collectors for HTTP traffic and writes.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Booking outcomes.
const (
	BookingBooked      = "booked"
	BookingUnavailable = "unavailable"
	BookingFailed      = "failed"
)

// Write outcomes.
const (
	OutcomeOK       = "ok"
	OutcomeNotFound = "not_found"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the application collectors.
type Metrics struct {
	gatherer prometheus.Gatherer

	requestDuration *prometheus.HistogramVec
	writes          *prometheus.CounterVec
	bookings        *prometheus.CounterVec
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		gatherer: gatherer,
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gigbook_http_request_duration_seconds",
			Help:    "Latency of HTTP requests by route pattern, method and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		writes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gigbook_writes_total",
			Help: "Write transactions by entity, operation and outcome",
		}, []string{"entity", "operation", "outcome"}),
		bookings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gigbook_bookings_total",
			Help: "Show booking attempts by outcome",
		}, []string{"outcome"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveWrite counts one write transaction.
func (m *Metrics) ObserveWrite(entity, operation, outcome string) {
	m.writes.WithLabelValues(entity, operation, outcome).Inc()
}

// ObserveBooking counts one booking attempt.
func (m *Metrics) ObserveBooking(outcome string) {
	m.bookings.WithLabelValues(outcome).Inc()
}

// Middleware records request latency labelled by the matched chi route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requestDuration.
			WithLabelValues(route, r.Method, strconv.Itoa(status)).
			Observe(time.Since(start).Seconds())
	})
}
