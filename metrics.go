package swtmiddleware

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Validation outcomes reported to Metrics.
const (
	outcomeAccepted  = "accepted"
	outcomeRejected  = "rejected"
	outcomeAnonymous = "anonymous"
)

// Metrics records the outcome of every validation.
type Metrics interface {
	ObserveValidation(outcome, code string, elapsed time.Duration)
}

// NoopMetrics is a default metrics implementation that does nothing.
type NoopMetrics struct{}

// ObserveValidation does nothing.
func (NoopMetrics) ObserveValidation(string, string, time.Duration) {}

// PrometheusMetrics counts validations by outcome and error code and
// observes their latency.
type PrometheusMetrics struct {
	validations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the swt_validations_total counter and the
// swt_validation_duration_seconds histogram with reg.
func NewPrometheusMetrics(reg prometheus.Registerer) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "swt_validations_total",
			Help: "SWT validations by outcome and error code.",
		}, []string{"outcome", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "swt_validation_duration_seconds",
			Help:    "Time spent validating SWTs.",
			Buckets: prometheus.ExponentialBuckets(0.00005, 4, 8),
		}, []string{"outcome"}),
	}
	for _, c := range []prometheus.Collector{m.validations, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// ObserveValidation implements Metrics.
func (m *PrometheusMetrics) ObserveValidation(outcome, code string, elapsed time.Duration) {
	m.validations.WithLabelValues(outcome, code).Inc()
	m.duration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}
