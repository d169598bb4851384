// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"fmt"
	"strings"
)

// ProcessError reports a non-zero exit of the external tool.
type ProcessError struct {
	Op       string
	ExitCode int
	// Tail holds the last lines of combined output for diagnostics.
	Tail []string
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("ffmpeg %s failed: exit code %d", e.Op, e.ExitCode)
}

// Diagnostics joins the captured output tail.
func (e *ProcessError) Diagnostics() string {
	return strings.Join(e.Tail, "\n")
}
