// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/ManuGH/audiobench/internal/audio"
	"github.com/ManuGH/audiobench/internal/bench"
	"github.com/ManuGH/audiobench/internal/clips"
	"github.com/ManuGH/audiobench/internal/config"
	xglog "github.com/ManuGH/audiobench/internal/log"
	"github.com/ManuGH/audiobench/internal/media/ffmpeg"
	"github.com/ManuGH/audiobench/internal/media/probe"
	"github.com/ManuGH/audiobench/internal/telemetry"
	"github.com/ManuGH/audiobench/internal/version"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg     config.AppConfig
	loader  *config.Loader
	logger  zerolog.Logger
	service *audio.Service
	library *clips.Library
	driver  *bench.Driver
}

// newApp loads the configuration and wires the components. The logger
// starts with safe defaults and switches to the loaded settings.
func newApp(configPath string) (*app, error) {
	xglog.Configure(xglog.Config{
		Level:   "info",
		Output:  os.Stderr,
		Service: "audiobench",
		Version: version.Version,
	})

	loader := config.NewLoader(configPath, version.Version)
	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	xglog.Configure(xglog.Config{
		Level:   cfg.LogLevel,
		Output:  os.Stderr,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	if err := os.MkdirAll(cfg.Paths.OutputDir, 0o750); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	runner := ffmpeg.NewExecRunner(cfg.FFmpeg.Bin, cfg.FFmpeg.KillGrace, xglog.WithComponent("ffmpeg"))
	runner.Timeout = cfg.FFmpeg.Timeout

	service := audio.NewService(runner, cfg.Paths.WorkDir, xglog.WithComponent("audio"))
	library := clips.New(os.DirFS(cfg.Paths.ClipsDir))

	return &app{
		cfg:     cfg,
		loader:  loader,
		logger:  xglog.WithComponent("cli"),
		service: service,
		library: library,
		driver: &bench.Driver{
			Ops:   service,
			Clips: library,
			Prober: &probe.Prober{
				FFprobeBin: cfg.FFmpeg.FFprobeBin,
				Logger:     xglog.WithComponent("probe"),
			},
			OutputDir: cfg.Paths.OutputDir,
			LongA:     cfg.Bench.LongA,
			LongB:     cfg.Bench.LongB,
			Logger:    xglog.WithComponent("bench"),
			Tracer:    telemetry.Tracer("audiobench/bench"),
		},
	}, nil
}

func (a *app) patterns() []bench.Pattern {
	return bench.DefaultPatterns(a.cfg.Bench.Settings())
}

func (a *app) telemetryConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:        a.cfg.Telemetry.Enabled,
		ServiceName:    a.cfg.LogService,
		ServiceVersion: a.cfg.Version,
		ExporterType:   a.cfg.Telemetry.Exporter,
		Endpoint:       a.cfg.Telemetry.Endpoint,
		SamplingRate:   a.cfg.Telemetry.SamplingRate,
	}
}
