// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSpec classifies specs the builder refuses to render.
	ErrInvalidSpec = errors.New("invalid ffmpeg spec")
)

// Build renders spec into the argument list passed to the binary (the binary
// itself is not included).
func Build(spec Spec) ([]string, error) {
	if err := validate(spec); err != nil {
		return nil, err
	}

	args := make([]string, 0, 16)

	// --- Preamble ---
	args = append(args, "-hide_banner", "-nostdin", "-y")

	// --- Inputs ---
	for _, in := range spec.Inputs {
		if in.Format != "" {
			args = append(args, "-f", in.Format)
		}
		if in.Unsafe {
			args = append(args, "-safe", "0")
		}
		args = append(args, "-i", in.Path)
	}

	// --- Filter graph ---
	if spec.Filter != nil {
		args = append(args, "-filter_complex", spec.Filter.String())
	}

	// --- Codec ---
	if spec.Output.StreamCopy {
		args = append(args, "-c", "copy")
	}

	// --- Output ---
	args = append(args, spec.Output.Path)

	return args, nil
}

func validate(spec Spec) error {
	if len(spec.Inputs) == 0 {
		return fmt.Errorf("%w: no inputs", ErrInvalidSpec)
	}
	for i, in := range spec.Inputs {
		if in.Path == "" {
			return fmt.Errorf("%w: input %d has empty path", ErrInvalidSpec, i)
		}
	}
	if spec.Output.Path == "" {
		return fmt.Errorf("%w: empty output path", ErrInvalidSpec)
	}

	switch spec.Kind {
	case KindConcat:
		if len(spec.Inputs) != 1 || spec.Inputs[0].Format != "concat" {
			return fmt.Errorf("%w: concat expects exactly one manifest input", ErrInvalidSpec)
		}
		if spec.Filter != nil {
			return fmt.Errorf("%w: concat takes no filter graph", ErrInvalidSpec)
		}
	case KindMix:
		if spec.Filter == nil {
			return fmt.Errorf("%w: mix requires a filter", ErrInvalidSpec)
		}
		if spec.Filter.Inputs != len(spec.Inputs) {
			return fmt.Errorf("%w: amix inputs=%d but %d inputs given", ErrInvalidSpec, spec.Filter.Inputs, len(spec.Inputs))
		}
		if spec.Output.StreamCopy {
			return fmt.Errorf("%w: filtered output cannot be stream copied", ErrInvalidSpec)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrInvalidSpec, spec.Kind)
	}
	return nil
}
