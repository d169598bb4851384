// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package procgroup

import (
	"os/exec"
	"strings"
	"time"

	"github.com/ManuGH/audiobench/internal/metrics"
)

// Terminate stops a process group: SIGTERM, wait up to grace on waitCh, then SIGKILL.
// It consumes and returns the error from waitCh. Safe to call on nil commands.
func Terminate(cmd *exec.Cmd, waitCh <-chan error, grace time.Duration) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}

	metrics.IncProcTerminate("SIGTERM", signalResult(Kill(cmd, sigTerm)))

	select {
	case err := <-waitCh:
		if err == nil {
			metrics.IncProcWait("exit0")
		} else {
			metrics.IncProcWait("exit_nonzero")
		}
		return err
	case <-time.After(grace):
		metrics.IncProcTerminate("SIGKILL", signalResult(Kill(cmd, sigKill)))

		// Always drain waitCh; SIGKILL frees a blocked process.
		err := <-waitCh
		if err == nil {
			metrics.IncProcWait("forced_exit0")
		} else {
			metrics.IncProcWait("forced_error")
		}
		return err
	}
}

func signalResult(err error) string {
	switch {
	case err == nil:
		return "sent"
	case strings.Contains(err.Error(), "process already finished"),
		strings.Contains(err.Error(), "no such process"):
		return "esrch"
	default:
		return "error"
	}
}
