// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package probe

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ManuGH/audiobench/internal/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_WAV(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteTone(t, dir, "tone.wav", 2*time.Second, 440)

	p := &Prober{Logger: zerolog.Nop()}
	d, err := p.Duration(context.Background(), path)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d.Seconds(), 0.01)
}

func TestDuration_UnknownExtensionWithoutFallback(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS"), 0o600))

	p := &Prober{Logger: zerolog.Nop()}
	_, err := p.Duration(context.Background(), path)
	assert.ErrorIs(t, err, ErrUnknownDuration)
}

func TestDuration_CorruptWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.wav")
	require.NoError(t, os.WriteFile(path, []byte("not a riff file"), 0o600))

	p := &Prober{Logger: zerolog.Nop()}
	_, err := p.Duration(context.Background(), path)
	assert.Error(t, err)
}

func TestDuration_MissingFile(t *testing.T) {
	p := &Prober{Logger: zerolog.Nop()}
	_, err := p.Duration(context.Background(), filepath.Join(t.TempDir(), "nope.mp3"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDuration_FFprobeFallback(t *testing.T) {
	dir := t.TempDir()
	fake := filepath.Join(dir, "ffprobe")
	script := "#!/bin/sh\necho '{\"format\":{\"duration\":\"3.500000\"}}'\n"
	require.NoError(t, os.WriteFile(fake, []byte(script), 0o755)) // #nosec G306

	path := filepath.Join(dir, "clip.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS"), 0o600))

	p := &Prober{FFprobeBin: fake, Logger: zerolog.Nop()}
	d, err := p.Duration(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, 3500*time.Millisecond, d)
}

func TestDuration_FFprobeFailure(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.ogg")
	require.NoError(t, os.WriteFile(path, []byte("OggS"), 0o600))

	p := &Prober{FFprobeBin: testutil.WriteFailingTool(t, dir, 1), Logger: zerolog.Nop()}
	_, err := p.Duration(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ffprobe failed")
}
