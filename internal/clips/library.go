// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package clips serves the packaged sample clips the benchmark reads.
package clips

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/ManuGH/audiobench/internal/audio"
)

// ErrClipNotFound is returned for names missing from the library.
var ErrClipNotFound = errors.New("clip not found")

// Library resolves clip names against a read-only filesystem.
type Library struct {
	fsys fs.FS
}

// New wraps fsys, typically os.DirFS of the configured clips directory.
func New(fsys fs.FS) *Library {
	return &Library{fsys: fsys}
}

// Clip returns an artifact for name. Every Open reads the clip afresh.
func (l *Library) Clip(name string) (audio.Artifact, error) {
	if !fs.ValidPath(name) || strings.Contains(name, "/") {
		return nil, fmt.Errorf("%w: invalid name %q", ErrClipNotFound, name)
	}
	info, err := fs.Stat(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrClipNotFound, name)
		}
		return nil, fmt.Errorf("stat clip %s: %w", name, err)
	}
	if !info.Mode().IsRegular() {
		return nil, fmt.Errorf("%w: %s is not a regular file", ErrClipNotFound, name)
	}
	return clip{fsys: l.fsys, name: name}, nil
}

// Verify reports every name that cannot be resolved.
func (l *Library) Verify(names ...string) error {
	var errs []error
	for _, n := range names {
		if _, err := l.Clip(n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type clip struct {
	fsys fs.FS
	name string
}

func (c clip) Name() string { return path.Base(c.name) }

func (c clip) Open() (io.ReadCloser, error) {
	return c.fsys.Open(c.name)
}
