// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package bench drives the leaf audio operations in fixed, strictly
// sequential patterns and reports wall-clock time and output size.
package bench

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"

	"github.com/ManuGH/audiobench/internal/audio"
	xglog "github.com/ManuGH/audiobench/internal/log"
	"github.com/ManuGH/audiobench/internal/metrics"
	"github.com/ManuGH/audiobench/internal/telemetry"
)

// Operations are the two leaf operations; *audio.Service implements them.
type Operations interface {
	Concatenate(ctx context.Context, a, b audio.Artifact, dest string) (*audio.Output, error)
	Superimpose(ctx context.Context, a, b audio.Artifact, dest string) (*audio.Output, error)
}

// ClipSource resolves clip names; *clips.Library implements it.
type ClipSource interface {
	Clip(name string) (audio.Artifact, error)
}

// DurationProber measures an artifact; *probe.Prober implements it.
type DurationProber interface {
	Duration(ctx context.Context, path string) (time.Duration, error)
}

// Driver runs patterns. Fields are read-only after construction.
type Driver struct {
	Ops   Operations
	Clips ClipSource
	// Prober is optional; without it reports carry no duration.
	Prober    DurationProber
	OutputDir string
	// LongA and LongB feed the bare Merge and Mix runs.
	LongA, LongB string
	Logger       zerolog.Logger
	Tracer       trace.Tracer
}

// Run executes p and reports on its final artifact. Any failing step aborts
// the run.
func (d *Driver) Run(ctx context.Context, p Pattern) (Report, error) {
	if err := p.Validate(); err != nil {
		return Report{}, err
	}
	return d.measure(ctx, p.Name, p.Description, string(p.Order), p.Repetitions, func(ctx context.Context, s *session) (*audio.Output, error) {
		switch p.Order {
		case MergeThenMix:
			return s.mergeThenMix(ctx, p)
		default:
			return s.mixThenMerge(ctx, p)
		}
	})
}

// Merge concatenates the long clips once into merged_output<ext>.
func (d *Driver) Merge(ctx context.Context) (Report, error) {
	dest := "merged_output" + filepath.Ext(d.LongA)
	return d.measure(ctx, "merge", "single merge (long clips)", "", 1, func(ctx context.Context, s *session) (*audio.Output, error) {
		a, b, err := s.pair("merge", 0, d.LongA, d.LongB)
		if err != nil {
			return nil, err
		}
		return s.concat(ctx, "merge", 0, a, b, dest)
	})
}

// Mix superimposes the long clips once into mixed_output<ext>.
func (d *Driver) Mix(ctx context.Context) (Report, error) {
	dest := "mixed_output" + filepath.Ext(d.LongA)
	return d.measure(ctx, "mix", "single mix (long clips)", "", 1, func(ctx context.Context, s *session) (*audio.Output, error) {
		a, b, err := s.pair("mix", 0, d.LongA, d.LongB)
		if err != nil {
			return nil, err
		}
		return s.mix(ctx, "mix", 0, a, b, dest)
	})
}

type body func(ctx context.Context, s *session) (*audio.Output, error)

func (d *Driver) measure(ctx context.Context, name, desc, order string, reps int, run body) (rep Report, err error) {
	runID := uuid.NewString()
	ctx = xglog.ContextWithRunID(ctx, runID)
	logger := xglog.WithContext(ctx, d.Logger).With().Str(xglog.FieldPattern, name).Logger()

	tracer := d.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer("audiobench/bench")
	}
	ctx, span := tracer.Start(ctx, "bench."+name,
		trace.WithAttributes(telemetry.PatternAttributes(name, order, reps, runID)...))
	defer func() { telemetry.EndSpan(span, err) }()

	logger.Info().
		Str(xglog.FieldEvent, "bench.start").
		Int("repetitions", reps).
		Msg("pattern started")

	s := &session{driver: d, pattern: name}
	start := time.Now()
	out, err := run(ctx, s)
	elapsed := time.Since(start)
	if err != nil {
		metrics.RecordPatternRun(name, elapsed, 0, err)
		logger.Error().
			Err(err).
			Str(xglog.FieldEvent, "bench.failed").
			Int("operations", s.ops).
			Int64(xglog.FieldElapsedMS, elapsed.Milliseconds()).
			Msg("pattern failed")
		return Report{}, err
	}

	rep = Report{
		Pattern:     name,
		Description: desc,
		RunID:       runID,
		Output:      out.Path,
		Elapsed:     elapsed,
		Size:        out.Size,
		Operations:  s.ops,
	}
	if d.Prober != nil {
		if dur, perr := d.Prober.Duration(ctx, out.Path); perr == nil {
			rep.Duration = dur
		} else {
			logger.Debug().Err(perr).Msg("duration unavailable")
		}
	}
	metrics.RecordPatternRun(name, elapsed, out.Size, nil)

	logger.Info().
		Str(xglog.FieldEvent, "bench.done").
		Str(xglog.FieldFinalPath, rep.Output).
		Int64(xglog.FieldBytes, rep.Size).
		Int64(xglog.FieldElapsedMS, elapsed.Milliseconds()).
		Int("operations", rep.Operations).
		Msg("pattern complete")
	return rep, nil
}
