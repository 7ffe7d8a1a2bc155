package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// OperationMetrics records outcomes for remote cart operations.
type OperationMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
}

// NewOperationMetrics registers the cart operation metrics on the provided registerer.
func NewOperationMetrics(reg prometheus.Registerer) *OperationMetrics {
	if reg == nil {
		return &OperationMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "cart_operation_duration_seconds",
		Help:    "Duration of remote cart operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operation_success",
		Help: "Successful remote cart operations.",
	}, []string{"operation"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operation_failure",
		Help: "Failed remote cart operations.",
	}, []string{"operation"})
	reg.MustRegister(duration, success, failure)
	return &OperationMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
	}
}

// ObserveDuration records the duration for the named operation.
func (m *OperationMetrics) ObserveDuration(operation string, duration time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncSuccess increments the success counter for the named operation.
func (m *OperationMetrics) IncSuccess(operation string) {
	if m == nil || m.success == nil {
		return
	}
	m.success.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncFailure increments the failure counter for the named operation.
func (m *OperationMetrics) IncFailure(operation string) {
	if m == nil || m.failure == nil {
		return
	}
	m.failure.WithLabelValues(normalizeLabel(operation)).Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
