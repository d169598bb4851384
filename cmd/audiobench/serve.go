// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ManuGH/audiobench/internal/api"
	"github.com/ManuGH/audiobench/internal/api/middleware"
	"github.com/ManuGH/audiobench/internal/bench"
	"github.com/ManuGH/audiobench/internal/config"
	"github.com/ManuGH/audiobench/internal/health"
	xglog "github.com/ManuGH/audiobench/internal/log"
	"github.com/ManuGH/audiobench/internal/telemetry"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the benchmark patterns over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, err := newApp(opts.configPath)
			if err != nil {
				return err
			}
			return a.serve(ctx)
		},
	}
}

func (a *app) healthManager(lastRun *health.LastRunChecker) *health.Manager {
	m := health.NewManager(a.cfg.Version)
	m.RegisterChecker(health.NewBinaryChecker("ffmpeg", a.cfg.FFmpeg.Bin))
	m.RegisterChecker(health.NewClipsChecker(a.library, a.cfg.Bench.Clips()...))
	m.RegisterChecker(health.NewWritableDirChecker("output_dir", a.cfg.Paths.OutputDir))
	m.RegisterChecker(lastRun)
	return m
}

func (a *app) apiConfig() api.Config {
	cfg := a.cfg
	stack := middleware.StackConfig{
		EnableMetrics:   cfg.Metrics.Enabled,
		EnableLogging:   true,
		EnableRateLimit: cfg.RateLimit.Enabled,
		RateLimit:       cfg.RateLimit.Requests,
		RateLimitWindow: cfg.RateLimit.Window,
	}
	if cfg.Telemetry.Enabled {
		stack.TracingService = cfg.LogService
	}
	return api.Config{
		ListenAddr:      cfg.Server.ListenAddr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
		MetricsEnabled:  cfg.Metrics.Enabled,
		Stack:           stack,
	}
}

// serve runs the HTTP server until ctx is cancelled or the listener fails.
func (a *app) serve(ctx context.Context) error {
	tp, err := telemetry.NewProvider(ctx, a.telemetryConfig())
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			a.logger.Error().Err(err).Msg("telemetry shutdown error")
		}
	}()

	lastRun := health.NewLastRunChecker()
	server := api.New(a.apiConfig(), a.driver, a.patterns(),
		api.WithHealth(a.healthManager(lastRun)),
		api.WithRunRecorder(lastRun),
	)

	holder := config.NewHolder(a.cfg, a.loader)
	updates := make(chan config.AppConfig, 1)
	holder.RegisterListener(updates)
	if err := holder.StartWatcher(ctx); err != nil {
		a.logger.Warn().Err(err).Msg("config watcher unavailable, hot reload disabled")
	}
	go a.applyReloads(ctx, updates, server)

	errCh, err := server.Start()
	if err != nil {
		return err
	}

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
		a.logger.Info().Str(xglog.FieldEvent, "shutdown.signal").Msg("shutdown signal received")
	}
	return server.Shutdown(context.Background())
}

// applyReloads re-applies the settings that can change without a restart:
// the log level and the pattern set.
func (a *app) applyReloads(ctx context.Context, updates <-chan config.AppConfig, server *api.Server) {
	for {
		select {
		case <-ctx.Done():
			return
		case cfg := <-updates:
			if err := xglog.SetLevel(cfg.LogLevel); err != nil {
				a.logger.Warn().Err(err).Str("level", cfg.LogLevel).Msg("ignoring invalid log level")
			}
			server.SetPatterns(bench.DefaultPatterns(cfg.Bench.Settings()))
		}
	}
}
