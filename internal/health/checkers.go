// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"
)

// CheckerFunc adapts a function to Checker.
type CheckerFunc struct {
	CheckName string
	Fn        func(ctx context.Context) CheckResult
}

func (c CheckerFunc) Name() string                          { return c.CheckName }
func (c CheckerFunc) Check(ctx context.Context) CheckResult { return c.Fn(ctx) }

// BinaryChecker verifies an external binary resolves via PATH or as a path.
type BinaryChecker struct {
	name string
	bin  string
}

func NewBinaryChecker(name, bin string) *BinaryChecker {
	return &BinaryChecker{name: name, bin: bin}
}

func (c *BinaryChecker) Name() string { return c.name }

func (c *BinaryChecker) Check(context.Context) CheckResult {
	path, err := exec.LookPath(c.bin)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error(), Message: c.bin}
	}
	return CheckResult{Status: StatusHealthy, Message: path}
}

// ClipVerifier is implemented by the clip library.
type ClipVerifier interface {
	Verify(names ...string) error
}

// ClipsChecker verifies every configured clip is present.
type ClipsChecker struct {
	lib   ClipVerifier
	names []string
}

func NewClipsChecker(lib ClipVerifier, names ...string) *ClipsChecker {
	return &ClipsChecker{lib: lib, names: names}
}

func (c *ClipsChecker) Name() string { return "clips" }

func (c *ClipsChecker) Check(context.Context) CheckResult {
	if err := c.lib.Verify(c.names...); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: fmt.Sprintf("%d clips available", len(c.names))}
}

// WritableDirChecker verifies a directory exists and accepts new files.
type WritableDirChecker struct {
	name string
	dir  string
}

func NewWritableDirChecker(name, dir string) *WritableDirChecker {
	return &WritableDirChecker{name: name, dir: dir}
}

func (c *WritableDirChecker) Name() string { return c.name }

func (c *WritableDirChecker) Check(context.Context) CheckResult {
	if err := CheckWritableDir(c.dir); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error(), Message: c.dir}
	}
	return CheckResult{Status: StatusHealthy, Message: c.dir}
}

// CheckWritableDir probes dir by creating and removing a temp file.
func CheckWritableDir(dir string) error {
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	f, err := os.CreateTemp(dir, ".audiobench-probe-*")
	if err != nil {
		return fmt.Errorf("not writable: %w", err)
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}

// LastRunChecker tracks the outcome of the most recent benchmark run. A failed
// last run degrades health without failing readiness.
type LastRunChecker struct {
	mu      sync.RWMutex
	at      time.Time
	pattern string
	err     error
}

func NewLastRunChecker() *LastRunChecker { return &LastRunChecker{} }

func (c *LastRunChecker) Name() string { return "last_run" }

// Record stores the result of a run.
func (c *LastRunChecker) Record(pattern string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.at = time.Now()
	c.pattern = pattern
	c.err = err
}

func (c *LastRunChecker) Check(context.Context) CheckResult {
	c.mu.RLock()
	defer c.mu.RUnlock()
	switch {
	case c.at.IsZero():
		return CheckResult{Status: StatusHealthy, Message: "no runs yet"}
	case c.err != nil:
		return CheckResult{Status: StatusDegraded, Error: c.err.Error(), Message: c.pattern + " failed"}
	}
	return CheckResult{Status: StatusHealthy, Message: c.pattern + " succeeded"}
}
