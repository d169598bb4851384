// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"math"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ToneRate is the sample rate of generated tone clips.
const ToneRate = 8000

// WriteTone writes a mono 16-bit PCM sine tone of length d to dir/name and
// returns its path.
func WriteTone(t testing.TB, dir, name string, d time.Duration, freq float64) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create tone: %v", err)
	}
	defer f.Close()

	frames := int(d.Seconds() * ToneRate)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: 1, SampleRate: ToneRate},
		SourceBitDepth: 16,
		Data:           make([]int, frames),
	}
	for i := range buf.Data {
		buf.Data[i] = int(8000 * math.Sin(2*math.Pi*freq*float64(i)/ToneRate))
	}

	enc := wav.NewEncoder(f, ToneRate, 16, 1, 1)
	if err := enc.Write(buf); err != nil {
		t.Fatalf("encode tone: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("finalize tone: %v", err)
	}
	return path
}

// RequireFFmpeg skips the test unless ffmpeg is on PATH and returns its path.
func RequireFFmpeg(t testing.TB) string {
	t.Helper()
	bin, err := exec.LookPath("ffmpeg")
	if err != nil {
		t.Skip("ffmpeg not found in PATH")
	}
	return bin
}

// WriteFailingTool writes an executable shell script that prints one line of
// output and exits with code.
func WriteFailingTool(t testing.TB, dir string, code int) string {
	t.Helper()
	path := filepath.Join(dir, "fake-ffmpeg")
	script := "#!/bin/sh\necho \"fake ffmpeg: refusing $*\" >&2\nexit " + strconv.Itoa(code) + "\n"
	// #nosec G306 -- test fixture must be executable
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write failing tool: %v", err)
	}
	return path
}
