package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func TestNewMetrics(t *testing.T) {
	m := NewMetrics()

	if m.AuthTotal == nil {
		t.Error("AuthTotal should not be nil")
	}
	if m.AuthDurationMs == nil {
		t.Error("AuthDurationMs should not be nil")
	}
}

func TestRecordAuth(t *testing.T) {
	// Use a fresh registry to avoid polluting the default one
	reg := prometheus.NewRegistry()

	authTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "test_supaguard_auth_total",
		Help: "Test counter",
	}, []string{"mode", "outcome"})

	durationMs := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "test_supaguard_auth_duration_ms",
		Help:    "Test histogram",
		Buckets: []float64{10, 100, 1000},
	}, []string{"mode"})

	reg.MustRegister(authTotal, durationMs)

	m := &Metrics{AuthTotal: authTotal, AuthDurationMs: durationMs}

	m.RecordAuth("require", OutcomeOK, 42)
	m.RecordAuth("require", OutcomeOK, 58)
	m.RecordAuth("optional", OutcomeAnonymous, 3)

	counter, err := authTotal.GetMetricWithLabelValues("require", OutcomeOK)
	if err != nil {
		t.Fatalf("failed to get metric: %v", err)
	}
	var metric dto.Metric
	counter.Write(&metric)
	if *metric.Counter.Value != 2 {
		t.Errorf("expected auth count 2, got %v", *metric.Counter.Value)
	}

	anonCounter, _ := authTotal.GetMetricWithLabelValues("optional", OutcomeAnonymous)
	anonCounter.Write(&metric)
	if *metric.Counter.Value != 1 {
		t.Errorf("expected anonymous count 1, got %v", *metric.Counter.Value)
	}

	hist, err := durationMs.GetMetricWithLabelValues("require")
	if err != nil {
		t.Fatalf("failed to get histogram: %v", err)
	}
	var histMetric dto.Metric
	hist.(prometheus.Histogram).Write(&histMetric)
	if *histMetric.Histogram.SampleCount != 2 {
		t.Errorf("expected 2 samples, got %v", *histMetric.Histogram.SampleCount)
	}
	if *histMetric.Histogram.SampleSum != 100 {
		t.Errorf("expected sum 100, got %v", *histMetric.Histogram.SampleSum)
	}
}
