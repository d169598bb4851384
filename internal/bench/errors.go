// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package bench

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownPattern = errors.New("unknown pattern")
	ErrInvalidPattern = errors.New("invalid pattern")
)

// StepError locates the failing step of a pattern run.
type StepError struct {
	Pattern string
	Step    string
	// Iteration is 1-based; 0 means outside the loop.
	Iteration int
	Err       error
}

func (e *StepError) Error() string {
	if e.Iteration > 0 {
		return fmt.Sprintf("%s: %s (iteration %d): %v", e.Pattern, e.Step, e.Iteration, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Pattern, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
