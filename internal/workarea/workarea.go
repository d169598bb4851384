// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package workarea provides the ephemeral, exclusively owned directory one
// audio operation stages its inputs and raw output in.
package workarea

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
)

var (
	// ErrInvalidName classifies file names that would escape the area.
	ErrInvalidName = errors.New("invalid work area file name")
	// ErrReleased is returned when the area is used after Release.
	ErrReleased = errors.New("work area released")
)

// Area is a temporary directory owned by exactly one operation.
// Always pair Acquire with a deferred Release.
type Area struct {
	dir string

	mu       sync.Mutex
	released bool
}

// Acquire creates a fresh directory below root (os.TempDir() when empty).
func Acquire(root, prefix string) (*Area, error) {
	if root != "" {
		if err := os.MkdirAll(root, 0o750); err != nil {
			return nil, fmt.Errorf("create work root: %w", err)
		}
	}
	dir, err := os.MkdirTemp(root, prefix)
	if err != nil {
		return nil, fmt.Errorf("create work area: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		_ = os.RemoveAll(dir)
		return nil, fmt.Errorf("resolve work area: %w", err)
	}
	return &Area{dir: abs}, nil
}

// Dir returns the absolute directory path.
func (a *Area) Dir() string {
	return a.dir
}

// Path returns the absolute path of name inside the area.
func (a *Area) Path(name string) (string, error) {
	clean, err := confineName(name)
	if err != nil {
		return "", err
	}
	return filepath.Join(a.dir, clean), nil
}

// Stage copies r into the area as "<slot>-<base name of name>". The slot
// keeps two inputs with the same original name apart; the original extension
// survives because the external tool sniffs formats by it.
func (a *Area) Stage(slot int, name string, r io.Reader) (string, error) {
	a.mu.Lock()
	released := a.released
	a.mu.Unlock()
	if released {
		return "", ErrReleased
	}

	dst, err := a.Path(strconv.Itoa(slot) + "-" + filepath.Base(name))
	if err != nil {
		return "", err
	}

	// #nosec G304 -- dst is confined to the work area
	f, err := os.OpenFile(dst, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return "", fmt.Errorf("create staged file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		return "", fmt.Errorf("copy staged file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close staged file: %w", err)
	}
	return dst, nil
}

// Release deletes the area and everything in it. Safe to call more than once.
func (a *Area) Release() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.released {
		return nil
	}
	a.released = true
	if err := os.RemoveAll(a.dir); err != nil {
		return fmt.Errorf("remove work area: %w", err)
	}
	return nil
}

// confineName accepts a single path element only. Separators, traversal and
// backslashes are rejected rather than cleaned.
func confineName(name string) (string, error) {
	switch {
	case name == "", name == ".", name == "..":
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsAny(name, `/\`):
		return "", fmt.Errorf("%w: %q contains a separator", ErrInvalidName, name)
	case strings.ContainsRune(name, 0):
		return "", fmt.Errorf("%w: %q contains NUL", ErrInvalidName, name)
	}
	return name, nil
}
