// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package ffmpeg

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestBuild_Concat(t *testing.T) {
	args, err := Build(ConcatSpec("/work/concat_list.txt", "/work/merged_output.mp3"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{
		"-hide_banner", "-nostdin", "-y",
		"-f", "concat", "-safe", "0",
		"-i", "/work/concat_list.txt",
		"-c", "copy",
		"/work/merged_output.mp3",
	}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("concat args mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Mix(t *testing.T) {
	args, err := Build(MixSpec("/work/0-a.mp3", "/work/1-b.mp3", "/work/mixed_output.mp3"))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := []string{
		"-hide_banner", "-nostdin", "-y",
		"-i", "/work/0-a.mp3",
		"-i", "/work/1-b.mp3",
		"-filter_complex", "amix=inputs=2:duration=longest:dropout_transition=0",
		"/work/mixed_output.mp3",
	}
	if diff := cmp.Diff(want, args); diff != "" {
		t.Errorf("mix args mismatch (-want +got):\n%s", diff)
	}
}

func TestMixFilter_String(t *testing.T) {
	f := MixFilter{Inputs: 3, Duration: DurationShortest, DropoutTransition: 0.5}
	if got, want := f.String(), "amix=inputs=3:duration=shortest:dropout_transition=0.5"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBuild_RejectsInvalidSpecs(t *testing.T) {
	mixWithCopy := MixSpec("a", "b", "out")
	mixWithCopy.Output.StreamCopy = true

	mixWrongCount := MixSpec("a", "b", "out")
	mixWrongCount.Inputs = mixWrongCount.Inputs[:1]

	concatTwoInputs := ConcatSpec("list", "out")
	concatTwoInputs.Inputs = append(concatTwoInputs.Inputs, Input{Path: "x"})

	tests := []struct {
		name string
		spec Spec
	}{
		{"no inputs", Spec{Kind: KindMix, Output: Output{Path: "out"}}},
		{"empty input path", MixSpec("", "b", "out")},
		{"empty output", ConcatSpec("list", "")},
		{"concat with two inputs", concatTwoInputs},
		{"mix stream copy", mixWithCopy},
		{"mix input count mismatch", mixWrongCount},
		{"unknown kind", Spec{Kind: "reverse", Inputs: []Input{{Path: "a"}}, Output: Output{Path: "o"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.spec)
			if !errors.Is(err, ErrInvalidSpec) {
				t.Fatalf("Build() error = %v, want ErrInvalidSpec", err)
			}
		})
	}
}
