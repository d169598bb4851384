// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldService   = "service"
	FieldVersion   = "version"
	FieldRequestID = "request_id"
	FieldRunID     = "run_id"

	// Process / pipeline fields
	FieldEvent     = "event"
	FieldComponent = "component"
	FieldOp        = "op"
	FieldPattern   = "pattern"
	FieldStep      = "step"
	FieldExitCode  = "exit_code"

	// Artifact fields
	FieldPath      = "path"
	FieldFinalPath = "final_path"
	FieldWorkDir   = "work_dir"
	FieldBytes     = "bytes"

	// Timing
	FieldElapsedMS = "elapsed_ms"
)
