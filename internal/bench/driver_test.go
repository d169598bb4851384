// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package bench

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/audiobench/internal/audio"
	"github.com/ManuGH/audiobench/internal/clips"
	"github.com/ManuGH/audiobench/internal/media/ffmpeg"
	"github.com/ManuGH/audiobench/internal/testutil"
)

func newTestDriver(t *testing.T) (*Driver, *testutil.FakeRunner) {
	t.Helper()
	runner := &testutil.FakeRunner{}
	lib := clips.New(fstest.MapFS{
		"short_a.mp3": {Data: []byte("a")},
		"short_b.mp3": {Data: []byte("b")},
		"mid_a.mp3":   {Data: []byte("A")},
		"mid_b.mp3":   {Data: []byte("B")},
		"long_a.mp3":  {Data: []byte("LA")},
		"long_b.mp3":  {Data: []byte("LB")},
	})
	return &Driver{
		Ops:       audio.NewService(runner, t.TempDir(), zerolog.Nop()),
		Clips:     lib,
		OutputDir: t.TempDir(),
		LongA:     "long_a.mp3",
		LongB:     "long_b.mp3",
		Logger:    zerolog.Nop(),
	}, runner
}

func readOutput(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestDefaultPatterns(t *testing.T) {
	ps := DefaultPatterns(DefaultSettings())
	require.Len(t, ps, 4)

	want := []struct {
		name  string
		order Order
		clipA string
		reps  int
		final string
	}{
		{"flow1", MergeThenMix, "short_a.mp3", 60, "flow1_final_mix.mp3"},
		{"flow2", MixThenMerge, "short_a.mp3", 60, "flow2_final_merge.mp3"},
		{"flow3", MergeThenMix, "mid_a.mp3", 20, "flow3_final_mix.mp3"},
		{"flow4", MixThenMerge, "mid_a.mp3", 20, "flow4_final_merge.mp3"},
	}
	for i, w := range want {
		assert.Equal(t, w.name, ps[i].Name)
		assert.Equal(t, w.order, ps[i].Order)
		assert.Equal(t, w.clipA, ps[i].ClipA)
		assert.Equal(t, w.reps, ps[i].Repetitions)
		assert.Equal(t, w.final, ps[i].Files.Final)
		assert.NoError(t, ps[i].Validate())
	}
	assert.Equal(t, "flow1_channelA.mp3", ps[0].Files.ChannelA)
	assert.Equal(t, "flow2_segment.mp3", ps[1].Files.Segment)
}

func TestRun_MergeThenMix(t *testing.T) {
	d, runner := newTestDriver(t)
	p, err := Find(DefaultPatterns(DefaultSettings()), "flow1")
	require.NoError(t, err)

	rep, err := d.Run(context.Background(), p)
	require.NoError(t, err)

	// 59 concatenations per channel, then one mix.
	ops := runner.Ops()
	require.Len(t, ops, 2*59+1)
	assert.Equal(t, 118, strings.Count(strings.Join(ops, ","), audio.OpMerge))
	assert.Equal(t, audio.OpMix, ops[len(ops)-1])
	assert.Equal(t, 119, rep.Operations)

	want := "mix(" + strings.Repeat("a", 60) + "|" + strings.Repeat("b", 60) + ")"
	assert.Equal(t, want, readOutput(t, rep.Output))
	assert.Equal(t, filepath.Join(d.OutputDir, "flow1_final_mix.mp3"), rep.Output)
	assert.Equal(t, int64(len(want)), rep.Size)
	assert.Equal(t, strings.Repeat("a", 60), readOutput(t, filepath.Join(d.OutputDir, "flow1_channelA.mp3")))
	assert.NotEmpty(t, rep.RunID)
}

func TestRun_MixThenMerge(t *testing.T) {
	d, runner := newTestDriver(t)
	p, err := Find(DefaultPatterns(DefaultSettings()), "flow4")
	require.NoError(t, err)

	rep, err := d.Run(context.Background(), p)
	require.NoError(t, err)

	// Seed mix, then mix+merge for each of the remaining 19 iterations.
	wantOps := []string{audio.OpMix}
	for i := 1; i < 20; i++ {
		wantOps = append(wantOps, audio.OpMix, audio.OpMerge)
	}
	if diff := cmp.Diff(wantOps, runner.Ops()); diff != "" {
		t.Errorf("ops mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, strings.Repeat("mix(A|B)", 20), readOutput(t, rep.Output))
	assert.Equal(t, filepath.Join(d.OutputDir, "flow4_final_merge.mp3"), rep.Output)
	assert.Equal(t, "mix(A|B)", readOutput(t, filepath.Join(d.OutputDir, "flow4_segment.mp3")))
}

func TestRun_SingleRepetition(t *testing.T) {
	d, runner := newTestDriver(t)
	s := DefaultSettings()
	s.ShortRepetitions = 1
	ps := DefaultPatterns(s)

	rep, err := d.Run(context.Background(), ps[0])
	require.NoError(t, err)
	assert.Equal(t, "mix(a|b)", readOutput(t, rep.Output))

	rep, err = d.Run(context.Background(), ps[1])
	require.NoError(t, err)
	assert.Equal(t, "mix(a|b)", readOutput(t, rep.Output))
	assert.Equal(t, []string{audio.OpMix, audio.OpMix}, runner.Ops())
}

func TestRun_AbortsOnFirstFailure(t *testing.T) {
	d, runner := newTestDriver(t)
	runner.Fail = &ffmpeg.ProcessError{Op: audio.OpMerge, ExitCode: 1}

	p, err := Find(DefaultPatterns(DefaultSettings()), "flow3")
	require.NoError(t, err)

	_, err = d.Run(context.Background(), p)
	require.Error(t, err)

	var stepErr *StepError
	require.ErrorAs(t, err, &stepErr)
	assert.Equal(t, "flow3", stepErr.Pattern)
	assert.Equal(t, "merge channel A", stepErr.Step)
	assert.Equal(t, 1, stepErr.Iteration)

	code, ok := audio.IsProcessFailure(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.Len(t, runner.Calls, 1, "no further operations after a failure")
	assert.Contains(t, err.Error(), "flow3: merge channel A (iteration 1)")
}

func TestRun_MissingClip(t *testing.T) {
	d, runner := newTestDriver(t)
	p := newPattern("custom", "custom", MixThenMerge, "short_a.mp3", "nope.mp3", 3)

	_, err := d.Run(context.Background(), p)
	assert.ErrorIs(t, err, clips.ErrClipNotFound)
	assert.Empty(t, runner.Calls)
}

func TestRun_InvalidPattern(t *testing.T) {
	d, _ := newTestDriver(t)
	p := newPattern("custom", "custom", MergeThenMix, "short_a.mp3", "short_b.mp3", 0)

	_, err := d.Run(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidPattern)

	p = newPattern("custom", "custom", Order("sideways"), "short_a.mp3", "short_b.mp3", 2)
	_, err = d.Run(context.Background(), p)
	assert.ErrorIs(t, err, ErrInvalidPattern)
}

func TestRun_Cancelled(t *testing.T) {
	d, _ := newTestDriver(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := d.Run(ctx, DefaultPatterns(DefaultSettings())[0])
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMergeAndMix(t *testing.T) {
	d, _ := newTestDriver(t)

	rep, err := d.Merge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.OutputDir, "merged_output.mp3"), rep.Output)
	assert.Equal(t, "LALB", readOutput(t, rep.Output))
	assert.Equal(t, 1, rep.Operations)

	rep, err = d.Mix(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(d.OutputDir, "mixed_output.mp3"), rep.Output)
	assert.Equal(t, "mix(LA|LB)", readOutput(t, rep.Output))
}

func TestFind_Unknown(t *testing.T) {
	_, err := Find(DefaultPatterns(DefaultSettings()), "flow9")
	assert.ErrorIs(t, err, ErrUnknownPattern)
}

type fixedProber struct {
	d   time.Duration
	err error
}

func (f fixedProber) Duration(context.Context, string) (time.Duration, error) { return f.d, f.err }

func TestReport_Duration(t *testing.T) {
	d, _ := newTestDriver(t)

	d.Prober = fixedProber{d: 1500 * time.Millisecond}
	rep, err := d.Mix(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, rep.Duration)
	assert.Contains(t, rep.String(), "duration: 1.50 s")

	d.Prober = fixedProber{err: errors.New("no decoder")}
	rep, err = d.Mix(context.Background())
	require.NoError(t, err)
	assert.Zero(t, rep.Duration)
	assert.NotContains(t, rep.String(), "duration")
}

func TestReport_String(t *testing.T) {
	r := Report{
		Pattern:     "flow1",
		Description: "merge per channel, then mix (short clips)",
		Output:      "out/flow1_final_mix.mp3",
		Elapsed:     1234 * time.Millisecond,
		Size:        4096,
		Operations:  119,
	}
	assert.Equal(t,
		"flow1 (merge per channel, then mix (short clips)): out/flow1_final_mix.mp3, elapsed: 1234 ms, size: 4096 bytes, operations: 119",
		r.String())
}

func TestFold(t *testing.T) {
	var seen []int
	got, err := fold(context.Background(), 3, audio.FileArtifact("seed"), func(_ context.Context, i int, acc audio.Artifact) (audio.Artifact, error) {
		seen = append(seen, i)
		return audio.FileArtifact(acc.Name() + "+"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, "seed+++", got.Name())

	got, err = fold(context.Background(), 0, audio.FileArtifact("seed"), nil)
	require.NoError(t, err)
	assert.Equal(t, "seed", got.Name())
}
