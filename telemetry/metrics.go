// Package telemetry holds the Prometheus metrics published by the
// guard. It lives outside internal/ so embedding applications can
// construct and expose the metrics themselves.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome label values recorded per guard decision.
const (
	OutcomeOK            = "ok"
	OutcomeAnonymous     = "anonymous"
	OutcomeMissingConfig = "missing_config"
	OutcomeMissingHeader = "missing_header"
	OutcomeInvalidToken  = "invalid_token"
)

// Metrics holds all Prometheus metrics for guard decisions.
type Metrics struct {
	AuthTotal      *prometheus.CounterVec
	AuthDurationMs *prometheus.HistogramVec
}

// NewMetrics creates and registers the metrics on the default
// registerer. Call once per process.
func NewMetrics() *Metrics {
	return &Metrics{
		AuthTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "supaguard_auth_total",
			Help: "Total guard decisions, by policy and outcome.",
		}, []string{"mode", "outcome"}),

		AuthDurationMs: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "supaguard_auth_duration_ms",
			Help:    "Guard decision latency in milliseconds, including the backend identity lookup.",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 500, 1000, 2500},
		}, []string{"mode"}),
	}
}

// RecordAuth records one guard decision.
func (m *Metrics) RecordAuth(mode, outcome string, durationMs float64) {
	m.AuthTotal.WithLabelValues(mode, outcome).Inc()
	m.AuthDurationMs.WithLabelValues(mode).Observe(durationMs)
}
