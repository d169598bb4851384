// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"

	xglog "github.com/ManuGH/audiobench/internal/log"
	"github.com/ManuGH/audiobench/internal/metrics"
	"github.com/ManuGH/audiobench/internal/procgroup"
	"github.com/rs/zerolog"
)

const (
	defaultKillGrace = 5 * time.Second
	tailLines        = 64
)

// Runner executes one external-tool invocation and blocks until it exits.
// A nil error means exit code 0.
type Runner interface {
	Run(ctx context.Context, op string, args []string) error
}

// ExecRunner runs the real binary as a subprocess.
type ExecRunner struct {
	Bin       string
	KillGrace time.Duration
	// Timeout bounds a single invocation; zero leaves it to ctx.
	Timeout time.Duration
	Logger  zerolog.Logger
}

// Ensure ExecRunner implements Runner
var _ Runner = (*ExecRunner)(nil)

// NewExecRunner returns a runner for bin, resolving "ffmpeg" from PATH when empty.
func NewExecRunner(bin string, killGrace time.Duration, logger zerolog.Logger) *ExecRunner {
	if bin == "" {
		bin = "ffmpeg"
	}
	if killGrace <= 0 {
		killGrace = defaultKillGrace
	}
	return &ExecRunner{
		Bin:       bin,
		KillGrace: killGrace,
		Logger:    logger,
	}
}

// Run starts the binary with args, logs its combined stdout/stderr line by
// line and waits for it. Cancelling ctx terminates the whole process group.
func (r *ExecRunner) Run(ctx context.Context, op string, args []string) error {
	logger := xglog.WithContext(ctx, r.Logger).With().Str(xglog.FieldOp, op).Logger()

	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	// #nosec G204 -- Bin is trusted from config; args come from Build
	cmd := exec.Command(r.Bin, args...)
	procgroup.Set(cmd)

	out, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("pipe output: %w", err)
	}
	cmd.Stderr = cmd.Stdout

	logger.Debug().
		Str(xglog.FieldEvent, "ffmpeg.start").
		Strs("args", args).
		Msg("starting ffmpeg")

	if err := cmd.Start(); err != nil {
		metrics.IncProcSpawn("start_failed")
		return fmt.Errorf("start %s: %w", r.Bin, err)
	}
	metrics.IncProcSpawn("started")

	ring := NewRingBuffer(tailLines)
	waitCh := make(chan error, 1)
	go func() {
		// The pipe must be drained before Wait closes it.
		scanLines(out, logger, ring)
		waitCh <- cmd.Wait()
	}()

	var waitErr error
	select {
	case waitErr = <-waitCh:
	case <-ctx.Done():
		logger.Warn().
			Str(xglog.FieldEvent, "ffmpeg.cancel").
			Int("pid", cmd.Process.Pid).
			Msg("context cancelled, terminating ffmpeg process group")
		_ = procgroup.Terminate(cmd, waitCh, r.KillGrace)
		return fmt.Errorf("ffmpeg %s: %w", op, ctx.Err())
	}

	if waitErr == nil {
		metrics.IncProcExit("exit0")
		return nil
	}

	metrics.IncProcExit("exit_nonzero")
	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return fmt.Errorf("wait %s: %w", r.Bin, waitErr)
	}

	perr := &ProcessError{Op: op, ExitCode: exitErr.ExitCode(), Tail: ring.GetAll()}
	logger.Error().
		Str(xglog.FieldEvent, "ffmpeg.failed").
		Int(xglog.FieldExitCode, perr.ExitCode).
		Str("tail", perr.Diagnostics()).
		Msg("ffmpeg exited with non-zero status")
	return perr
}

func scanLines(r io.Reader, logger zerolog.Logger, ring *RingBuffer) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		ring.Add(line)
		logger.Debug().Str(xglog.FieldEvent, "ffmpeg.output").Msg(line)
	}
	if err := scanner.Err(); err != nil {
		logger.Debug().Err(err).Msg("ffmpeg output scan stopped")
		// Keep draining so the child never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
	}
}
