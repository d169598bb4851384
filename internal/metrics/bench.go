// SPDX-License-Identifier: MIT
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	patternRunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiobench_pattern_runs_total",
		Help: "Benchmark pattern runs by outcome",
	}, []string{"pattern", "outcome"}) // outcome=success|failure

	patternDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "audiobench_pattern_duration_seconds",
		Help:    "Wall-clock duration of successful benchmark pattern runs",
		Buckets: prometheus.ExponentialBuckets(0.5, 2.0, 12), // 0.5s to ~17min
	}, []string{"pattern"})

	patternOutputBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "audiobench_pattern_output_bytes",
		Help: "Size of the final artifact of the last successful run",
	}, []string{"pattern"})
)

// RecordPatternRun records the outcome of one pattern run.
func RecordPatternRun(pattern string, elapsed time.Duration, outputBytes int64, err error) {
	if err != nil {
		patternRunsTotal.WithLabelValues(pattern, "failure").Inc()
		return
	}
	patternRunsTotal.WithLabelValues(pattern, "success").Inc()
	patternDuration.WithLabelValues(pattern).Observe(elapsed.Seconds())
	patternOutputBytes.WithLabelValues(pattern).Set(float64(outputBytes))
}
