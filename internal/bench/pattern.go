// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package bench

import (
	"fmt"
	"path/filepath"
)

// Order is the sequencing of leaf operations within a pattern.
type Order string

const (
	// MergeThenMix folds each channel by concatenation, then mixes the two
	// channels once.
	MergeThenMix Order = "merge-then-mix"
	// MixThenMerge mixes a fresh pair every iteration and concatenates the
	// new segment onto the running result.
	MixThenMerge Order = "mix-then-merge"
)

// Files are the fixed per-pattern filenames, relative to the output directory.
type Files struct {
	ChannelA string
	ChannelB string
	Segment  string
	Final    string
}

// Pattern is one benchmark workload.
type Pattern struct {
	Name        string
	Description string
	Order       Order
	ClipA       string
	ClipB       string
	Repetitions int
	Files       Files
}

// Settings are the knobs DefaultPatterns reads.
type Settings struct {
	ShortRepetitions int
	MidRepetitions   int
	ShortA, ShortB   string
	MidA, MidB       string
}

// DefaultSettings match the stock clip set.
func DefaultSettings() Settings {
	return Settings{
		ShortRepetitions: 60,
		MidRepetitions:   20,
		ShortA:           "short_a.mp3",
		ShortB:           "short_b.mp3",
		MidA:             "mid_a.mp3",
		MidB:             "mid_b.mp3",
	}
}

// DefaultPatterns returns flow1..flow4.
func DefaultPatterns(s Settings) []Pattern {
	return []Pattern{
		newPattern("flow1", "merge per channel, then mix (short clips)", MergeThenMix, s.ShortA, s.ShortB, s.ShortRepetitions),
		newPattern("flow2", "mix each pair, then merge (short clips)", MixThenMerge, s.ShortA, s.ShortB, s.ShortRepetitions),
		newPattern("flow3", "merge per channel, then mix (mid clips)", MergeThenMix, s.MidA, s.MidB, s.MidRepetitions),
		newPattern("flow4", "mix each pair, then merge (mid clips)", MixThenMerge, s.MidA, s.MidB, s.MidRepetitions),
	}
}

func newPattern(name, desc string, order Order, a, b string, n int) Pattern {
	ext := filepath.Ext(a)
	final := name + "_final_mix" + ext
	if order == MixThenMerge {
		final = name + "_final_merge" + ext
	}
	return Pattern{
		Name:        name,
		Description: desc,
		Order:       order,
		ClipA:       a,
		ClipB:       b,
		Repetitions: n,
		Files: Files{
			ChannelA: name + "_channelA" + ext,
			ChannelB: name + "_channelB" + ext,
			Segment:  name + "_segment" + ext,
			Final:    final,
		},
	}
}

// Find returns the pattern called name.
func Find(patterns []Pattern, name string) (Pattern, error) {
	for _, p := range patterns {
		if p.Name == name {
			return p, nil
		}
	}
	return Pattern{}, fmt.Errorf("%w: %q", ErrUnknownPattern, name)
}

// Validate rejects patterns the driver cannot run.
func (p Pattern) Validate() error {
	switch {
	case p.Name == "":
		return fmt.Errorf("%w: empty name", ErrInvalidPattern)
	case p.Repetitions < 1:
		return fmt.Errorf("%w: %s: repetitions must be >= 1, got %d", ErrInvalidPattern, p.Name, p.Repetitions)
	case p.ClipA == "" || p.ClipB == "":
		return fmt.Errorf("%w: %s: both clips are required", ErrInvalidPattern, p.Name)
	case p.Files.Final == "":
		return fmt.Errorf("%w: %s: final file name is required", ErrInvalidPattern, p.Name)
	}
	switch p.Order {
	case MergeThenMix:
		if p.Files.ChannelA == "" || p.Files.ChannelB == "" {
			return fmt.Errorf("%w: %s: channel file names are required", ErrInvalidPattern, p.Name)
		}
	case MixThenMerge:
		if p.Files.Segment == "" {
			return fmt.Errorf("%w: %s: segment file name is required", ErrInvalidPattern, p.Name)
		}
	default:
		return fmt.Errorf("%w: %s: unknown order %q", ErrInvalidPattern, p.Name, p.Order)
	}
	return nil
}
