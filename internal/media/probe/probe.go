// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package probe measures the playback duration of audio artifacts.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/rs/zerolog"
)

// ErrUnknownDuration is returned when no decoder could determine a duration.
var ErrUnknownDuration = errors.New("unknown duration")

// Prober decodes mp3 and wav natively and falls back to ffprobe for
// everything else.
type Prober struct {
	// FFprobeBin is the fallback binary. Empty disables the fallback.
	FFprobeBin string
	Logger     zerolog.Logger
}

// Duration returns the playback duration of the file at path.
func (p *Prober) Duration(ctx context.Context, path string) (time.Duration, error) {
	var (
		d   time.Duration
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		d, err = mp3Duration(path)
	case ".wav":
		d, err = wavDuration(path)
	default:
		err = ErrUnknownDuration
	}
	if err == nil {
		return d, nil
	}
	if p.FFprobeBin == "" {
		return 0, err
	}

	p.Logger.Debug().Err(err).Str("path", path).Msg("native decode failed, falling back to ffprobe")
	return p.ffprobe(ctx, path)
}

func mp3Duration(path string) (time.Duration, error) {
	// #nosec G304 -- path is an artifact produced or staged by this process
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec, err := gomp3.NewDecoder(f)
	if err != nil {
		return 0, fmt.Errorf("decode mp3: %w", err)
	}
	// Length is the decoded size in bytes of 16-bit stereo PCM.
	n := dec.Length()
	if n <= 0 || dec.SampleRate() <= 0 {
		return 0, ErrUnknownDuration
	}
	frames := n / 4
	return time.Duration(float64(frames) / float64(dec.SampleRate()) * float64(time.Second)), nil
}

func wavDuration(path string) (time.Duration, error) {
	// #nosec G304 -- path is an artifact produced or staged by this process
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	dec := wav.NewDecoder(f)
	if !dec.IsValidFile() {
		return 0, fmt.Errorf("decode wav: %w", ErrUnknownDuration)
	}
	if err := dec.FwdToPCM(); err != nil {
		return 0, fmt.Errorf("decode wav: %w", err)
	}
	bytesPerSec := int64(dec.SampleRate) * int64(dec.NumChans) * int64(dec.BitDepth/8)
	if bytesPerSec <= 0 || dec.PCMLen() <= 0 {
		return 0, ErrUnknownDuration
	}
	return time.Duration(float64(dec.PCMLen()) / float64(bytesPerSec) * float64(time.Second)), nil
}

type ffprobeFormat struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func (p *Prober) ffprobe(ctx context.Context, path string) (time.Duration, error) {
	// #nosec G204 -- binary comes from config, args are fixed
	cmd := exec.CommandContext(ctx, p.FFprobeBin,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "json",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		msg := stderr.String()
		if len(msg) > 1024 {
			msg = msg[:1024] + "..."
		}
		return 0, fmt.Errorf("ffprobe failed: %w (stderr: %s)", err, msg)
	}

	var data ffprobeFormat
	if err := json.Unmarshal(out, &data); err != nil {
		return 0, fmt.Errorf("json decode: %w", err)
	}
	secs, err := strconv.ParseFloat(data.Format.Duration, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownDuration, data.Format.Duration)
	}
	return time.Duration(secs * float64(time.Second)), nil
}
