// SPDX-License-Identifier: MIT
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	procSpawnTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiobench_proc_spawn_total",
		Help: "External tool processes started by outcome",
	}, []string{"outcome"}) // outcome=started|start_failed

	procExitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiobench_proc_exit_total",
		Help: "External tool process exits by outcome",
	}, []string{"outcome"}) // outcome=exit0|exit_nonzero

	procTerminateTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiobench_proc_terminate_total",
		Help: "Signals sent to external tool process groups",
	}, []string{"signal", "result"})

	procWaitTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "audiobench_proc_wait_total",
		Help: "Outcome of waiting on terminated process groups",
	}, []string{"outcome"})
)

// IncProcSpawn records a process start attempt.
func IncProcSpawn(outcome string) {
	procSpawnTotal.WithLabelValues(outcome).Inc()
}

// IncProcExit records how a process that ran to completion exited.
func IncProcExit(outcome string) {
	procExitTotal.WithLabelValues(outcome).Inc()
}

// IncProcTerminate records a termination signal and its delivery result.
func IncProcTerminate(signal, result string) {
	procTerminateTotal.WithLabelValues(signal, result).Inc()
}

// IncProcWait records the wait outcome after termination.
func IncProcWait(outcome string) {
	procWaitTotal.WithLabelValues(outcome).Inc()
}
