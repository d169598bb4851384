// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ManuGH/audiobench/internal/validate"
)

// Loader handles configuration loading with precedence
type Loader struct {
	configPath string
	version    string
	// ConsumedEnvKeys records every environment key the last Load read.
	ConsumedEnvKeys map[string]struct{}
}

// NewLoader creates a new configuration loader
func NewLoader(configPath, version string) *Loader {
	return &Loader{
		configPath:      configPath,
		version:         version,
		ConsumedEnvKeys: make(map[string]struct{}),
	}
}

// Path returns the config file path, empty for ENV-only configuration.
func (l *Loader) Path() string {
	return l.configPath
}

// Load loads configuration with precedence: ENV > File > Defaults, then validates it.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.configPath != "" {
		fileCfg, err := l.loadFile(l.configPath)
		if err != nil {
			return cfg, fmt.Errorf("load config file: %w", err)
		}
		if err := mergeFileConfig(&cfg, fileCfg); err != nil {
			return cfg, fmt.Errorf("merge file config: %w", err)
		}
	}

	l.mergeEnvConfig(&cfg)
	cfg.Version = l.version

	if err := Validate(cfg); err != nil {
		return cfg, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Defaults returns the built-in configuration.
func Defaults() AppConfig {
	return AppConfig{
		LogLevel:   "info",
		LogService: "audiobench",
		Server: ServerConfig{
			ListenAddr:      ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    0,
			ShutdownTimeout: 30 * time.Second,
		},
		FFmpeg: FFmpegConfig{
			Bin:        "ffmpeg",
			FFprobeBin: "ffprobe",
			KillGrace:  5 * time.Second,
		},
		Paths: PathsConfig{
			OutputDir: ".",
			ClipsDir:  "audio",
		},
		Bench: BenchConfig{
			ShortRepetitions: 60,
			MidRepetitions:   20,
			ShortA:           "short_a.mp3",
			ShortB:           "short_b.mp3",
			MidA:             "mid_a.mp3",
			MidB:             "mid_b.mp3",
			LongA:            "long_a.mp3",
			LongB:            "long_b.mp3",
		},
		Metrics: MetricsConfig{Enabled: true},
		RateLimit: RateLimitConfig{
			Requests: 10,
			Window:   time.Minute,
		},
		Telemetry: TelemetryConfig{
			Exporter:     "grpc",
			Endpoint:     "localhost:4317",
			SamplingRate: 1.0,
		},
	}
}

// loadFile loads configuration from a YAML file with STRICT parsing.
// Unknown fields will cause a fatal error to prevent misconfiguration.
func (l *Loader) loadFile(path string) (*FileConfig, error) {
	path = filepath.Clean(path)

	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".yaml" && ext != ".yml" {
		return nil, fmt.Errorf("%w: %s (only YAML supported)", ErrUnsupportedFormat, ext)
	}

	// #nosec G304 -- configuration file paths are provided by the operator via CLI/ENV
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return parseFile(data)
}

func parseFile(data []byte) (*FileConfig, error) {
	var fileCfg FileConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	if err := dec.Decode(&fileCfg); err != nil {
		if errors.Is(err, io.EOF) {
			return &FileConfig{}, nil
		}
		if strings.Contains(err.Error(), "field") && strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("strict config parse error: %w: %w", ErrUnknownConfigField, err)
		}
		return nil, fmt.Errorf("strict config parse error: %w", err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config file contains multiple documents or trailing content")
	}
	return &fileCfg, nil
}

func mergeFileConfig(cfg *AppConfig, f *FileConfig) error {
	setString(&cfg.LogLevel, f.LogLevel)
	setString(&cfg.LogService, f.LogService)

	if s := f.Server; s != nil {
		setString(&cfg.Server.ListenAddr, s.ListenAddr)
		if err := setDuration(&cfg.Server.ReadTimeout, "server.readTimeout", s.ReadTimeout); err != nil {
			return err
		}
		if err := setDuration(&cfg.Server.WriteTimeout, "server.writeTimeout", s.WriteTimeout); err != nil {
			return err
		}
		if err := setDuration(&cfg.Server.ShutdownTimeout, "server.shutdownTimeout", s.ShutdownTimeout); err != nil {
			return err
		}
	}

	if ff := f.FFmpeg; ff != nil {
		setString(&cfg.FFmpeg.Bin, ff.Bin)
		setString(&cfg.FFmpeg.FFprobeBin, ff.FFprobeBin)
		if err := setDuration(&cfg.FFmpeg.Timeout, "ffmpeg.timeout", ff.Timeout); err != nil {
			return err
		}
		if err := setDuration(&cfg.FFmpeg.KillGrace, "ffmpeg.killGrace", ff.KillGrace); err != nil {
			return err
		}
	}

	if p := f.Paths; p != nil {
		setString(&cfg.Paths.WorkDir, p.WorkDir)
		setString(&cfg.Paths.OutputDir, p.OutputDir)
		setString(&cfg.Paths.ClipsDir, p.ClipsDir)
	}

	if b := f.Bench; b != nil {
		setPtr(&cfg.Bench.ShortRepetitions, b.ShortRepetitions)
		setPtr(&cfg.Bench.MidRepetitions, b.MidRepetitions)
		setString(&cfg.Bench.ShortA, b.ShortA)
		setString(&cfg.Bench.ShortB, b.ShortB)
		setString(&cfg.Bench.MidA, b.MidA)
		setString(&cfg.Bench.MidB, b.MidB)
		setString(&cfg.Bench.LongA, b.LongA)
		setString(&cfg.Bench.LongB, b.LongB)
	}

	if m := f.Metrics; m != nil {
		setPtr(&cfg.Metrics.Enabled, m.Enabled)
	}

	if r := f.RateLimit; r != nil {
		setPtr(&cfg.RateLimit.Enabled, r.Enabled)
		setPtr(&cfg.RateLimit.Requests, r.Requests)
		if err := setDuration(&cfg.RateLimit.Window, "rateLimit.window", r.Window); err != nil {
			return err
		}
	}

	if t := f.Telemetry; t != nil {
		setPtr(&cfg.Telemetry.Enabled, t.Enabled)
		setString(&cfg.Telemetry.Exporter, t.Exporter)
		setString(&cfg.Telemetry.Endpoint, t.Endpoint)
		setPtr(&cfg.Telemetry.SamplingRate, t.SamplingRate)
	}
	return nil
}

// mergeEnvConfig applies AUDIOBENCH_* overrides on top of cfg.
func (l *Loader) mergeEnvConfig(cfg *AppConfig) {
	cfg.LogLevel = l.envString("LOG_LEVEL", cfg.LogLevel)
	cfg.LogService = l.envString("LOG_SERVICE", cfg.LogService)

	cfg.Server.ListenAddr = l.envString("LISTEN", cfg.Server.ListenAddr)
	cfg.Server.ReadTimeout = l.envDuration("SERVER_READ_TIMEOUT", cfg.Server.ReadTimeout)
	cfg.Server.WriteTimeout = l.envDuration("SERVER_WRITE_TIMEOUT", cfg.Server.WriteTimeout)
	cfg.Server.ShutdownTimeout = l.envDuration("SERVER_SHUTDOWN_TIMEOUT", cfg.Server.ShutdownTimeout)

	cfg.FFmpeg.Bin = l.envString("FFMPEG_BIN", cfg.FFmpeg.Bin)
	cfg.FFmpeg.FFprobeBin = l.envString("FFPROBE_BIN", cfg.FFmpeg.FFprobeBin)
	cfg.FFmpeg.Timeout = l.envDuration("FFMPEG_TIMEOUT", cfg.FFmpeg.Timeout)
	cfg.FFmpeg.KillGrace = l.envDuration("FFMPEG_KILL_GRACE", cfg.FFmpeg.KillGrace)

	cfg.Paths.WorkDir = l.envString("WORK_DIR", cfg.Paths.WorkDir)
	cfg.Paths.OutputDir = l.envString("OUTPUT_DIR", cfg.Paths.OutputDir)
	cfg.Paths.ClipsDir = l.envString("CLIPS_DIR", cfg.Paths.ClipsDir)

	cfg.Bench.ShortRepetitions = l.envInt("SHORT_REPETITIONS", cfg.Bench.ShortRepetitions)
	cfg.Bench.MidRepetitions = l.envInt("MID_REPETITIONS", cfg.Bench.MidRepetitions)

	cfg.Metrics.Enabled = l.envBool("METRICS_ENABLED", cfg.Metrics.Enabled)

	cfg.RateLimit.Enabled = l.envBool("RATELIMIT_ENABLED", cfg.RateLimit.Enabled)
	cfg.RateLimit.Requests = l.envInt("RATELIMIT_REQUESTS", cfg.RateLimit.Requests)
	cfg.RateLimit.Window = l.envDuration("RATELIMIT_WINDOW", cfg.RateLimit.Window)

	cfg.Telemetry.Enabled = l.envBool("TELEMETRY_ENABLED", cfg.Telemetry.Enabled)
	cfg.Telemetry.Exporter = l.envString("TELEMETRY_EXPORTER", cfg.Telemetry.Exporter)
	cfg.Telemetry.Endpoint = l.envString("TELEMETRY_ENDPOINT", cfg.Telemetry.Endpoint)
	cfg.Telemetry.SamplingRate = l.envFloat("TELEMETRY_SAMPLING_RATE", cfg.Telemetry.SamplingRate)
}

func (l *Loader) consume(key string) string {
	full := EnvPrefix + key
	l.ConsumedEnvKeys[full] = struct{}{}
	return full
}

func (l *Loader) envString(key, def string) string {
	return ParseString(l.consume(key), def)
}

func (l *Loader) envBool(key string, def bool) bool {
	return ParseBool(l.consume(key), def)
}

func (l *Loader) envInt(key string, def int) int {
	return ParseInt(l.consume(key), def)
}

func (l *Loader) envDuration(key string, def time.Duration) time.Duration {
	return ParseDuration(l.consume(key), def)
}

func (l *Loader) envFloat(key string, def float64) float64 {
	return ParseFloat(l.consume(key), def)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setPtr[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, field, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("%s: invalid duration %q: %w", field, v, err)
	}
	*dst = d
	return nil
}

// Validate checks the effective configuration.
func Validate(cfg AppConfig) error {
	v := validate.New()

	v.LogLevel("logLevel", cfg.LogLevel)
	v.ListenAddr("server.listenAddr", cfg.Server.ListenAddr)
	v.NonNegativeDuration("server.readTimeout", cfg.Server.ReadTimeout)
	v.NonNegativeDuration("server.writeTimeout", cfg.Server.WriteTimeout)
	v.NonNegativeDuration("server.shutdownTimeout", cfg.Server.ShutdownTimeout)

	v.NotEmpty("ffmpeg.bin", cfg.FFmpeg.Bin)
	v.NonNegativeDuration("ffmpeg.timeout", cfg.FFmpeg.Timeout)
	v.NonNegativeDuration("ffmpeg.killGrace", cfg.FFmpeg.KillGrace)

	v.NotEmpty("paths.outputDir", cfg.Paths.OutputDir)
	v.NotEmpty("paths.clipsDir", cfg.Paths.ClipsDir)

	v.Positive("bench.shortRepetitions", cfg.Bench.ShortRepetitions)
	v.Positive("bench.midRepetitions", cfg.Bench.MidRepetitions)
	for _, c := range []struct{ field, name string }{
		{"bench.shortA", cfg.Bench.ShortA},
		{"bench.shortB", cfg.Bench.ShortB},
		{"bench.midA", cfg.Bench.MidA},
		{"bench.midB", cfg.Bench.MidB},
		{"bench.longA", cfg.Bench.LongA},
		{"bench.longB", cfg.Bench.LongB},
	} {
		v.FileName(c.field, c.name)
	}

	if cfg.RateLimit.Enabled {
		v.Positive("rateLimit.requests", cfg.RateLimit.Requests)
		if cfg.RateLimit.Window <= 0 {
			v.AddError("rateLimit.window", "window must be positive", cfg.RateLimit.Window)
		}
	}

	if cfg.Telemetry.Enabled {
		v.OneOf("telemetry.exporter", cfg.Telemetry.Exporter, []string{"grpc", "http"})
		v.NotEmpty("telemetry.endpoint", cfg.Telemetry.Endpoint)
		v.Fraction("telemetry.samplingRate", cfg.Telemetry.SamplingRate)
	}

	return v.Err()
}
