// SPDX-License-Identifier: MIT
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OperationDuration tracks wall-clock time of a single merge or mix, staging to promotion.
	OperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "audiobench_operation_duration_seconds",
		Help:    "Duration of audio operations including staging and promotion",
		Buckets: prometheus.ExponentialBuckets(0.01, 2.0, 14), // 10ms to ~80s
	}, []string{"op"})

	// OperationOutputBytes tracks the size of promoted artifacts.
	OperationOutputBytes = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "audiobench_operation_output_bytes",
		Help:    "Size of artifacts produced by audio operations",
		Buckets: prometheus.ExponentialBuckets(16*1024, 4, 10), // 16KiB to ~4GiB
	}, []string{"op"})

	// OperationErrors tracks failed operations by stage.
	OperationErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiobench_operation_errors_total",
		Help: "Total failed audio operations",
	}, []string{"op", "reason"}) // reason=staging|process|no_output|promote|cancelled
)

// ObserveOperation records a successful operation.
func ObserveOperation(op string, elapsed time.Duration, outputBytes int64) {
	OperationDuration.WithLabelValues(op).Observe(elapsed.Seconds())
	OperationOutputBytes.WithLabelValues(op).Observe(float64(outputBytes))
}

// IncOperationError records a failed operation.
func IncOperationError(op, reason string) {
	OperationErrors.WithLabelValues(op, reason).Inc()
}
