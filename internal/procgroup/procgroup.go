// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package procgroup starts external tools in their own process group so that a
// cancelled operation can reap the whole tree, not only the direct child.
package procgroup

import (
	"os/exec"
)

// Set configures the command to start in a new process group.
// Mandatory for Kill and Terminate to reach grandchildren.
func Set(cmd *exec.Cmd) {
	set(cmd)
}
