// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

//go:build !unix

package procgroup

import (
	"os"
	"os/exec"
	"syscall"
)

var (
	sigTerm = syscall.Signal(0x0f)
	sigKill = syscall.Signal(0x09)
)

func set(_ *exec.Cmd) {}

// Kill falls back to signalling the root process only; there is no portable
// process-group primitive outside unix.
func Kill(cmd *exec.Cmd, sig syscall.Signal) error {
	if cmd == nil || cmd.Process == nil {
		return nil
	}
	if sig == sigKill {
		return cmd.Process.Kill()
	}
	return cmd.Process.Signal(os.Interrupt)
}
