// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package audio

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuGH/audiobench/internal/media/ffmpeg"
	"github.com/ManuGH/audiobench/internal/testutil"
)

type fixture struct {
	runner   *testutil.FakeRunner
	svc      *Service
	workRoot string
	outDir   string
	clipDir  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	base := t.TempDir()
	f := &fixture{
		runner:   &testutil.FakeRunner{},
		workRoot: filepath.Join(base, "work"),
		outDir:   filepath.Join(base, "out"),
		clipDir:  filepath.Join(base, "clips"),
	}
	require.NoError(t, os.MkdirAll(f.clipDir, 0o750))
	f.svc = NewService(f.runner, f.workRoot, zerolog.Nop())
	return f
}

func (f *fixture) clip(t *testing.T, name, content string) FileArtifact {
	t.Helper()
	p := filepath.Join(f.clipDir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))
	return FileArtifact(p)
}

func (f *fixture) assertNoWorkAreas(t *testing.T) {
	t.Helper()
	entries, err := os.ReadDir(f.workRoot)
	if errors.Is(err, os.ErrNotExist) {
		return
	}
	require.NoError(t, err)
	assert.Empty(t, entries, "work areas must be removed")
}

func TestConcatenate_WritesAThenB(t *testing.T) {
	f := newFixture(t)
	a := f.clip(t, "short_a.mp3", "AAAA")
	b := f.clip(t, "short_b.mp3", "BB")
	dest := filepath.Join(f.outDir, "merged.mp3")

	out, err := f.svc.Concatenate(context.Background(), a, b, dest)
	require.NoError(t, err)
	assert.Equal(t, dest, out.Path)
	assert.Equal(t, int64(6), out.Size)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "AAAABB", string(got))

	require.Len(t, f.runner.Calls, 1)
	call := f.runner.Calls[0]
	assert.Equal(t, OpMerge, call.Op)
	assert.Contains(t, strings.Join(call.Args, " "), "-f concat -safe 0 -i")
	assert.Equal(t, "merged_output.mp3", filepath.Base(call.Args[len(call.Args)-1]))

	f.assertNoWorkAreas(t)
}

func TestSuperimpose_MixesBothInputs(t *testing.T) {
	f := newFixture(t)
	a := f.clip(t, "a.wav", "A")
	b := f.clip(t, "b.wav", "B")
	dest := filepath.Join(f.outDir, "mixed.wav")

	out, err := f.svc.Superimpose(context.Background(), a, b, dest)
	require.NoError(t, err)

	got, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "mix(A|B)", string(got))

	args := f.runner.Calls[0].Args
	assert.Contains(t, args, "amix=inputs=2:duration=longest:dropout_transition=0")
	assert.Equal(t, "mixed_output.wav", filepath.Base(args[len(args)-1]))
	f.assertNoWorkAreas(t)
}

func TestConcatenate_SameNameInputsDoNotCollide(t *testing.T) {
	f := newFixture(t)
	a := f.clip(t, "clip.mp3", "XY")

	out, err := f.svc.Concatenate(context.Background(), a, a, filepath.Join(f.outDir, "twice.mp3"))
	require.NoError(t, err)
	got, err := os.ReadFile(out.Path)
	require.NoError(t, err)
	assert.Equal(t, "XYXY", string(got))
}

func TestConcatenate_DestinationMayBeAnInput(t *testing.T) {
	f := newFixture(t)
	dest := filepath.Join(f.outDir, "acc.mp3")
	require.NoError(t, os.MkdirAll(f.outDir, 0o750))
	require.NoError(t, os.WriteFile(dest, []byte("123"), 0o600))
	seg := f.clip(t, "seg.mp3", "45")

	_, err := f.svc.Concatenate(context.Background(), FileArtifact(dest), seg, dest)
	require.NoError(t, err)

	got, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(got))
}

func TestOverwrite_LeavesExactlyOneFile(t *testing.T) {
	f := newFixture(t)
	a := f.clip(t, "a.mp3", "A")
	b := f.clip(t, "b.mp3", "B")
	dest := filepath.Join(f.outDir, "final.mp3")

	for i := 0; i < 3; i++ {
		_, err := f.svc.Superimpose(context.Background(), a, b, dest)
		require.NoError(t, err)
	}

	entries, err := os.ReadDir(f.outDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "final.mp3", entries[0].Name())
}

func TestToolFailure_DestinationUntouched(t *testing.T) {
	f := newFixture(t)
	f.runner.Fail = &ffmpeg.ProcessError{Op: OpMerge, ExitCode: 1}
	a := f.clip(t, "a.mp3", "A")
	b := f.clip(t, "b.mp3", "B")

	fresh := filepath.Join(f.outDir, "fresh.mp3")
	_, err := f.svc.Concatenate(context.Background(), a, b, fresh)
	require.Error(t, err)
	code, ok := IsProcessFailure(err)
	assert.True(t, ok)
	assert.Equal(t, 1, code)
	assert.NoFileExists(t, fresh)

	existing := filepath.Join(f.outDir, "existing.mp3")
	require.NoError(t, os.MkdirAll(f.outDir, 0o750))
	require.NoError(t, os.WriteFile(existing, []byte("previous"), 0o600))
	_, err = f.svc.Superimpose(context.Background(), a, b, existing)
	require.Error(t, err)
	got, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.Equal(t, "previous", string(got))

	f.assertNoWorkAreas(t)
}

func TestNoOutput(t *testing.T) {
	f := newFixture(t)
	f.runner.SkipOutput = true
	a := f.clip(t, "a.mp3", "A")
	b := f.clip(t, "b.mp3", "B")
	dest := filepath.Join(f.outDir, "x.mp3")

	_, err := f.svc.Concatenate(context.Background(), a, b, dest)
	assert.ErrorIs(t, err, ErrNoOutput)
	assert.NoFileExists(t, dest)
	f.assertNoWorkAreas(t)
}

type brokenArtifact struct{}

func (brokenArtifact) Name() string                 { return "broken.mp3" }
func (brokenArtifact) Open() (io.ReadCloser, error) { return nil, os.ErrPermission }

func TestStagingFailure(t *testing.T) {
	f := newFixture(t)
	a := f.clip(t, "a.mp3", "A")

	_, err := f.svc.Superimpose(context.Background(), a, brokenArtifact{}, filepath.Join(f.outDir, "x.mp3"))
	assert.ErrorIs(t, err, ErrStaging)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Empty(t, f.runner.Calls, "tool must not run when staging fails")
	f.assertNoWorkAreas(t)
}

func TestCancelledContext(t *testing.T) {
	f := newFixture(t)
	a := f.clip(t, "a.mp3", "A")
	b := f.clip(t, "b.mp3", "B")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.svc.Concatenate(ctx, a, b, filepath.Join(f.outDir, "x.mp3"))
	assert.ErrorIs(t, err, context.Canceled)
	f.assertNoWorkAreas(t)
}

func TestOutputExt(t *testing.T) {
	assert.Equal(t, ".wav", outputExt("/out/x.wav", FileArtifact("a.mp3")))
	assert.Equal(t, ".mp3", outputExt("/out/x", FileArtifact("/clips/a.mp3")))
	assert.Equal(t, "", outputExt("/out/x", FileArtifact("/clips/a")))
}

func TestFileArtifact(t *testing.T) {
	p := filepath.Join(t.TempDir(), "long_a.mp3")
	require.NoError(t, os.WriteFile(p, []byte("data"), 0o600))

	art := FileArtifact(p)
	assert.Equal(t, "long_a.mp3", art.Name())
	rc, err := art.Open()
	require.NoError(t, err)
	defer rc.Close()
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "data", string(b))
}
