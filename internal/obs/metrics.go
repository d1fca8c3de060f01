package obs

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics tracks client-side metrics in a private Prometheus registry.
type Metrics struct {
	registry        *prometheus.Registry
	requests        *prometheus.CounterVec
	upstreamErrors  *prometheus.CounterVec
	upstreamLatency *prometheus.HistogramVec
	cacheHits       *prometheus.CounterVec
	staleResponses  prometheus.Counter
	logger          *slog.Logger
}

// NewMetrics creates a new Metrics instance.
func NewMetrics(logger *slog.Logger) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "getaway_upstream_requests_total",
			Help: "Total number of booking API requests by endpoint and status code.",
		}, []string{"endpoint", "code"}),
		upstreamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "getaway_upstream_errors_total",
			Help: "Total number of failed booking API requests by endpoint.",
		}, []string{"endpoint"}),
		upstreamLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "getaway_upstream_request_duration_seconds",
			Help:    "Booking API request latency by endpoint.",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "getaway_cache_hits_total",
			Help: "Total number of session cache hits by store.",
		}, []string{"store"}),
		staleResponses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "getaway_stale_responses_total",
			Help: "Total number of responses discarded because a newer search superseded them.",
		}),
		logger: logger,
	}

	m.registry.MustRegister(m.requests, m.upstreamErrors, m.upstreamLatency, m.cacheHits, m.staleResponses)
	return m
}

// Registry returns the registry holding all metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records a completed booking API request. A zero code means the
// request failed before a response was received.
func (m *Metrics) ObserveRequest(endpoint string, code int, seconds float64) {
	m.requests.WithLabelValues(endpoint, strconv.Itoa(code)).Inc()
	m.upstreamLatency.WithLabelValues(endpoint).Observe(seconds)
}

// IncUpstreamErrors increments the upstream error counter for an endpoint.
func (m *Metrics) IncUpstreamErrors(endpoint string) {
	m.upstreamErrors.WithLabelValues(endpoint).Inc()
}

// IncCacheHits increments the cache hits counter for a store.
func (m *Metrics) IncCacheHits(store string) {
	m.cacheHits.WithLabelValues(store).Inc()
}

// IncStaleResponses increments the discarded stale response counter.
func (m *Metrics) IncStaleResponses() {
	m.staleResponses.Inc()
}

// HealthHandler returns a handler for /healthz requests.
func HealthHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			logger.Error("failed to write health response", "error", err)
		}
	}
}

// MetricsHandler returns a handler for /metrics requests in Prometheus format.
func (m *Metrics) MetricsHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		ErrorLog: slog.NewLogLogger(m.logger.Handler(), slog.LevelError),
	})
}
