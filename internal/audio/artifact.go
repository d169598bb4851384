// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package audio

import (
	"io"
	"os"
	"path/filepath"
)

// Artifact is an opaque audio input. Each Open yields a fresh reader.
type Artifact interface {
	// Name is the original file name, used to keep the extension when staging.
	Name() string
	Open() (io.ReadCloser, error)
}

// FileArtifact is an artifact backed by a path on disk.
type FileArtifact string

// Name returns the base name of the file.
func (f FileArtifact) Name() string { return filepath.Base(string(f)) }

// Open opens the file for reading.
func (f FileArtifact) Open() (io.ReadCloser, error) {
	// #nosec G304 -- artifact paths come from the caller
	return os.Open(string(f))
}
