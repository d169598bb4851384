// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package audio

import "errors"

var (
	// ErrStaging covers filesystem failures before the tool runs.
	ErrStaging = errors.New("staging failed")
	// ErrNoOutput means the tool exited 0 without producing an artifact.
	ErrNoOutput = errors.New("tool produced no output")
	// ErrPromote means the artifact could not be copied to its destination.
	ErrPromote = errors.New("promote output failed")
)
