// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package bench

import (
	"context"
	"path/filepath"

	"github.com/ManuGH/audiobench/internal/audio"
)

// session carries one run's state: the driver and the operation count.
type session struct {
	driver  *Driver
	pattern string
	ops     int
}

// step advances an accumulator by one iteration (1-based).
type step func(ctx context.Context, i int, acc audio.Artifact) (audio.Artifact, error)

// fold threads acc through n applications of f, in order. The loop is
// inherently sequential: each step reads the previous step's output.
func fold(ctx context.Context, n int, seed audio.Artifact, f step) (audio.Artifact, error) {
	acc := seed
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		next, err := f(ctx, i, acc)
		if err != nil {
			return nil, err
		}
		acc = next
	}
	return acc, nil
}

func (s *session) path(name string) string {
	return filepath.Join(s.driver.OutputDir, name)
}

func (s *session) clip(stepName string, i int, name string) (audio.Artifact, error) {
	a, err := s.driver.Clips.Clip(name)
	if err != nil {
		return nil, &StepError{Pattern: s.pattern, Step: stepName, Iteration: i, Err: err}
	}
	return a, nil
}

func (s *session) pair(stepName string, i int, a, b string) (audio.Artifact, audio.Artifact, error) {
	ca, err := s.clip(stepName, i, a)
	if err != nil {
		return nil, nil, err
	}
	cb, err := s.clip(stepName, i, b)
	if err != nil {
		return nil, nil, err
	}
	return ca, cb, nil
}

func (s *session) concat(ctx context.Context, stepName string, i int, a, b audio.Artifact, dest string) (*audio.Output, error) {
	s.ops++
	out, err := s.driver.Ops.Concatenate(ctx, a, b, s.path(dest))
	if err != nil {
		return nil, &StepError{Pattern: s.pattern, Step: stepName, Iteration: i, Err: err}
	}
	return out, nil
}

func (s *session) mix(ctx context.Context, stepName string, i int, a, b audio.Artifact, dest string) (*audio.Output, error) {
	s.ops++
	out, err := s.driver.Ops.Superimpose(ctx, a, b, s.path(dest))
	if err != nil {
		return nil, &StepError{Pattern: s.pattern, Step: stepName, Iteration: i, Err: err}
	}
	return out, nil
}

// channel folds clip onto itself Repetitions-1 times into dest, reading a
// fresh copy of the clip each iteration.
func (s *session) channel(ctx context.Context, p Pattern, stepName, clip, dest string) (audio.Artifact, error) {
	seed, err := s.clip(stepName, 0, clip)
	if err != nil {
		return nil, err
	}
	return fold(ctx, p.Repetitions-1, seed, func(ctx context.Context, i int, acc audio.Artifact) (audio.Artifact, error) {
		fresh, err := s.clip(stepName, i, clip)
		if err != nil {
			return nil, err
		}
		out, err := s.concat(ctx, stepName, i, acc, fresh, dest)
		if err != nil {
			return nil, err
		}
		return audio.FileArtifact(out.Path), nil
	})
}

func (s *session) mergeThenMix(ctx context.Context, p Pattern) (*audio.Output, error) {
	chA, err := s.channel(ctx, p, "merge channel A", p.ClipA, p.Files.ChannelA)
	if err != nil {
		return nil, err
	}
	chB, err := s.channel(ctx, p, "merge channel B", p.ClipB, p.Files.ChannelB)
	if err != nil {
		return nil, err
	}
	return s.mix(ctx, "mix channels", 0, chA, chB, p.Files.Final)
}

// mixThenMerge seeds Final with one mix, then per iteration mixes a fresh
// pair into Segment and concatenates it onto Final. Only Final survives as
// the folded result; Segment holds the last iteration's mix.
func (s *session) mixThenMerge(ctx context.Context, p Pattern) (*audio.Output, error) {
	a, b, err := s.pair("mix seed", 0, p.ClipA, p.ClipB)
	if err != nil {
		return nil, err
	}
	seed, err := s.mix(ctx, "mix seed", 0, a, b, p.Files.Final)
	if err != nil {
		return nil, err
	}

	last := seed
	_, err = fold(ctx, p.Repetitions-1, audio.FileArtifact(seed.Path), func(ctx context.Context, i int, acc audio.Artifact) (audio.Artifact, error) {
		a, b, err := s.pair("mix segment", i, p.ClipA, p.ClipB)
		if err != nil {
			return nil, err
		}
		seg, err := s.mix(ctx, "mix segment", i, a, b, p.Files.Segment)
		if err != nil {
			return nil, err
		}
		out, err := s.concat(ctx, "merge segment", i, acc, audio.FileArtifact(seg.Path), p.Files.Final)
		if err != nil {
			return nil, err
		}
		last = out
		return audio.FileArtifact(out.Path), nil
	})
	if err != nil {
		return nil, err
	}
	return last, nil
}
