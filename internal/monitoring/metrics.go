package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the service. A single instance
// is created at startup and shared by every middleware and handler.
type Metrics struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Predictions     *prometheus.CounterVec
	CacheHits       prometheus.Counter
	CacheMisses     prometheus.Counter
	ContextReloads  prometheus.Counter
}

// NewMetrics registers the service collectors on a fresh registry and
// returns both. Handing the registry back keeps tests isolated from the
// global default registry.
func NewMetrics() (*Metrics, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forecaster_http_requests_total",
			Help: "HTTP requests by method, path and status code.",
		}, []string{"method", "path", "status"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "forecaster_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),

		Predictions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "forecaster_predictions_total",
			Help: "Predictions by outcome (served, invalid_date, unknown_group, failed).",
		}, []string{"outcome"}),

		CacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecaster_cache_hits_total",
			Help: "Responses served from the prediction cache.",
		}),

		CacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecaster_cache_misses_total",
			Help: "Requests that missed the prediction cache.",
		}),

		ContextReloads: factory.NewCounter(prometheus.CounterOpts{
			Name: "forecaster_context_reloads_total",
			Help: "Successful artifact reloads swapped into the engine.",
		}),
	}

	return m, reg
}

// Prediction outcome labels.
const (
	OutcomeServed       = "served"
	OutcomeInvalidDate  = "invalid_date"
	OutcomeUnknownGroup = "unknown_group"
	OutcomeFailed       = "failed"
)

// CountPrediction records one prediction attempt by outcome.
func (m *Metrics) CountPrediction(outcome string) {
	m.Predictions.WithLabelValues(outcome).Inc()
}
