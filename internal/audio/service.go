// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package audio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/renameio/v2"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	xglog "github.com/ManuGH/audiobench/internal/log"
	"github.com/ManuGH/audiobench/internal/media/ffmpeg"
	"github.com/ManuGH/audiobench/internal/metrics"
	"github.com/ManuGH/audiobench/internal/telemetry"
	"github.com/ManuGH/audiobench/internal/workarea"
)

// Operation names, used as log op, metric label and work area prefix.
const (
	OpMerge = "merge"
	OpMix   = "mix"
)

const (
	mergedOutput = "merged_output"
	mixedOutput  = "mixed_output"
	manifestName = "concat_list.txt"
)

// Output describes a promoted artifact.
type Output struct {
	Path string
	Size int64
}

// Service runs concat and mix operations through an ffmpeg.Runner.
type Service struct {
	Runner ffmpeg.Runner
	// WorkRoot is where work areas are created; empty means os.TempDir().
	WorkRoot string
	Logger   zerolog.Logger
	Tracer   trace.Tracer
}

// NewService returns a Service with the global tracer.
func NewService(runner ffmpeg.Runner, workRoot string, logger zerolog.Logger) *Service {
	return &Service{
		Runner:   runner,
		WorkRoot: workRoot,
		Logger:   logger,
		Tracer:   telemetry.Tracer("audiobench/audio"),
	}
}

// Concatenate writes a followed by b to dest without re-encoding.
func (s *Service) Concatenate(ctx context.Context, a, b Artifact, dest string) (*Output, error) {
	return s.run(ctx, OpMerge, a, b, dest, func(area *workarea.Area, staged []string) (ffmpeg.Spec, error) {
		manifest, err := area.Path(manifestName)
		if err != nil {
			return ffmpeg.Spec{}, err
		}
		if err := writeManifest(manifest, staged); err != nil {
			return ffmpeg.Spec{}, err
		}
		raw, err := area.Path(mergedOutput + outputExt(dest, a))
		if err != nil {
			return ffmpeg.Spec{}, err
		}
		return ffmpeg.ConcatSpec(manifest, raw), nil
	})
}

// Superimpose overlays a and b, both starting at zero, into dest. The result
// lasts as long as the longer input.
func (s *Service) Superimpose(ctx context.Context, a, b Artifact, dest string) (*Output, error) {
	return s.run(ctx, OpMix, a, b, dest, func(area *workarea.Area, staged []string) (ffmpeg.Spec, error) {
		raw, err := area.Path(mixedOutput + outputExt(dest, a))
		if err != nil {
			return ffmpeg.Spec{}, err
		}
		return ffmpeg.MixSpec(staged[0], staged[1], raw), nil
	})
}

type specFunc func(area *workarea.Area, staged []string) (ffmpeg.Spec, error)

func (s *Service) run(ctx context.Context, op string, a, b Artifact, dest string, plan specFunc) (out *Output, err error) {
	start := time.Now()
	logger := xglog.WithContext(ctx, s.Logger).With().
		Str(xglog.FieldOp, op).
		Str(xglog.FieldFinalPath, dest).
		Logger()

	tracer := s.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer("audiobench/audio")
	}
	ctx, span := tracer.Start(ctx, "audio."+op,
		trace.WithAttributes(telemetry.OperationAttributes(op, []string{a.Name(), b.Name()}, dest)...))
	defer func() { telemetry.EndSpan(span, err) }()

	area, err := workarea.Acquire(s.WorkRoot, "audio-"+op+"-")
	if err != nil {
		metrics.IncOperationError(op, "staging")
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStaging, err)
	}
	defer func() {
		if rerr := area.Release(); rerr != nil {
			logger.Warn().Err(rerr).Str(xglog.FieldWorkDir, area.Dir()).Msg("work area cleanup failed")
		}
	}()

	staged := make([]string, 0, 2)
	for slot, in := range []Artifact{a, b} {
		p, err := stage(area, slot, in)
		if err != nil {
			metrics.IncOperationError(op, "staging")
			return nil, fmt.Errorf("%s: %w: %w", op, ErrStaging, err)
		}
		staged = append(staged, p)
	}

	spec, err := plan(area, staged)
	if err != nil {
		metrics.IncOperationError(op, "staging")
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStaging, err)
	}
	args, err := ffmpeg.Build(spec)
	if err != nil {
		metrics.IncOperationError(op, "staging")
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	logger.Info().
		Str(xglog.FieldEvent, "audio.start").
		Str(xglog.FieldWorkDir, area.Dir()).
		Msg("running " + op)

	if err := s.Runner.Run(ctx, op, args); err != nil {
		reason := "process"
		if ctx.Err() != nil {
			reason = "cancelled"
		}
		metrics.IncOperationError(op, reason)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	raw := spec.Output.Path
	info, err := os.Stat(raw)
	if err != nil || !info.Mode().IsRegular() {
		metrics.IncOperationError(op, "no_output")
		return nil, fmt.Errorf("%s: %w", op, ErrNoOutput)
	}

	size, err := promote(raw, dest)
	if err != nil {
		metrics.IncOperationError(op, "promote")
		return nil, fmt.Errorf("%s: %w: %w", op, ErrPromote, err)
	}

	elapsed := time.Since(start)
	metrics.ObserveOperation(op, elapsed, size)
	logger.Info().
		Str(xglog.FieldEvent, "audio.done").
		Int64(xglog.FieldBytes, size).
		Int64(xglog.FieldElapsedMS, elapsed.Milliseconds()).
		Msg(op + " complete")

	return &Output{Path: dest, Size: size}, nil
}

func stage(area *workarea.Area, slot int, in Artifact) (string, error) {
	rc, err := in.Open()
	if err != nil {
		return "", fmt.Errorf("open %s: %w", in.Name(), err)
	}
	defer rc.Close()
	return area.Stage(slot, in.Name(), rc)
}

func writeManifest(path string, entries []string) error {
	// #nosec G304 -- path is inside the work area
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create manifest: %w", err)
	}
	if err := ffmpeg.WriteConcatManifest(f, entries); err != nil {
		_ = f.Close()
		return fmt.Errorf("write manifest: %w", err)
	}
	return f.Close()
}

// promote copies raw over dest atomically: readers of dest see either the
// previous content or the complete new artifact.
func promote(raw, dest string) (int64, error) {
	if dir := filepath.Dir(dest); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return 0, fmt.Errorf("create destination dir: %w", err)
		}
	}

	// #nosec G304 -- raw is inside the work area
	src, err := os.Open(raw)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	pending, err := renameio.NewPendingFile(dest,
		renameio.WithPermissions(0o644),
		renameio.WithExistingPermissions(),
	)
	if err != nil {
		return 0, fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	n, err := io.Copy(pending, src)
	if err != nil {
		return 0, fmt.Errorf("copy output: %w", err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return 0, fmt.Errorf("replace destination: %w", err)
	}
	return n, nil
}

// outputExt picks the raw output extension: the destination's, else input A's.
func outputExt(dest string, a Artifact) string {
	if ext := filepath.Ext(dest); ext != "" {
		return ext
	}
	return filepath.Ext(a.Name())
}

// IsProcessFailure reports whether err came from a non-zero tool exit and
// returns its exit code.
func IsProcessFailure(err error) (int, bool) {
	var perr *ffmpeg.ProcessError
	if errors.As(err, &perr) {
		return perr.ExitCode, true
	}
	return 0, false
}
