// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"fmt"
	"strconv"
)

// Kind identifies the operation an invocation performs.
type Kind string

const (
	KindConcat Kind = "concat"
	KindMix    Kind = "mix"
)

// DurationPolicy is the amix "duration" option.
type DurationPolicy string

const (
	DurationLongest  DurationPolicy = "longest"
	DurationShortest DurationPolicy = "shortest"
	DurationFirst    DurationPolicy = "first"
)

// Input is one ordered "-i" argument.
type Input struct {
	Path string
	// Format forces a demuxer ("-f"), e.g. "concat" for manifest inputs.
	Format string
	// Unsafe emits "-safe 0" so the manifest may reference absolute paths.
	Unsafe bool
}

// Output describes the artifact the tool writes.
type Output struct {
	Path string
	// StreamCopy keeps the input encoding ("-c copy").
	StreamCopy bool
}

// MixFilter configures the amix filter graph.
type MixFilter struct {
	Inputs            int
	Duration          DurationPolicy
	DropoutTransition float64
}

// String renders the filter graph expression.
func (f MixFilter) String() string {
	return fmt.Sprintf("amix=inputs=%d:duration=%s:dropout_transition=%s",
		f.Inputs, f.Duration, strconv.FormatFloat(f.DropoutTransition, 'f', -1, 64))
}

// Spec is the complete description of one external-tool invocation.
type Spec struct {
	Kind   Kind
	Inputs []Input
	Filter *MixFilter
	Output Output
}

// ConcatSpec joins the files listed in manifest end to end without re-encoding.
func ConcatSpec(manifest, output string) Spec {
	return Spec{
		Kind:   KindConcat,
		Inputs: []Input{{Path: manifest, Format: "concat", Unsafe: true}},
		Output: Output{Path: output, StreamCopy: true},
	}
}

// MixSpec overlays a and b aligned at zero. The output lasts as long as the
// longer input and the shorter one drops out without a fade.
func MixSpec(a, b, output string) Spec {
	return Spec{
		Kind:   KindMix,
		Inputs: []Input{{Path: a}, {Path: b}},
		Filter: &MixFilter{Inputs: 2, Duration: DurationLongest, DropoutTransition: 0},
		Output: Output{Path: output},
	}
}
