// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package bench

import (
	"fmt"
	"strings"
	"time"
)

// Report summarizes one pattern or bare operation run.
type Report struct {
	Pattern     string
	Description string
	RunID       string
	Output      string
	Elapsed     time.Duration
	Size        int64
	// Duration is zero when the output could not be measured.
	Duration   time.Duration
	Operations int
}

// String renders the plain-text summary returned to callers.
func (r Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s): %s, elapsed: %d ms, size: %d bytes",
		r.Pattern, r.Description, r.Output, r.Elapsed.Milliseconds(), r.Size)
	if r.Duration > 0 {
		fmt.Fprintf(&b, ", duration: %.2f s", r.Duration.Seconds())
	}
	fmt.Fprintf(&b, ", operations: %d", r.Operations)
	return b.String()
}
