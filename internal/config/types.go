// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"time"

	"github.com/ManuGH/audiobench/internal/bench"
)

// AppConfig is the effective runtime configuration.
type AppConfig struct {
	Version    string
	LogLevel   string
	LogService string

	Server    ServerConfig
	FFmpeg    FFmpegConfig
	Paths     PathsConfig
	Bench     BenchConfig
	Metrics   MetricsConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type FFmpegConfig struct {
	Bin        string
	FFprobeBin string
	// Timeout bounds one tool invocation; zero waits indefinitely.
	Timeout   time.Duration
	KillGrace time.Duration
}

type PathsConfig struct {
	// WorkDir is the parent of per-operation work areas; empty means os.TempDir().
	WorkDir   string
	OutputDir string
	ClipsDir  string
}

type BenchConfig struct {
	ShortRepetitions int
	MidRepetitions   int
	ShortA, ShortB   string
	MidA, MidB       string
	LongA, LongB     string
}

// Settings converts to the pattern settings of the bench package.
func (b BenchConfig) Settings() bench.Settings {
	return bench.Settings{
		ShortRepetitions: b.ShortRepetitions,
		MidRepetitions:   b.MidRepetitions,
		ShortA:           b.ShortA,
		ShortB:           b.ShortB,
		MidA:             b.MidA,
		MidB:             b.MidB,
	}
}

// Clips lists every clip name the configuration references.
func (b BenchConfig) Clips() []string {
	return []string{b.ShortA, b.ShortB, b.MidA, b.MidB, b.LongA, b.LongB}
}

type MetricsConfig struct {
	Enabled bool
}

type RateLimitConfig struct {
	Enabled  bool
	Requests int
	Window   time.Duration
}

type TelemetryConfig struct {
	Enabled      bool
	Exporter     string
	Endpoint     string
	SamplingRate float64
}

// FileConfig mirrors the YAML file. Pointers distinguish "unset" from zero.
type FileConfig struct {
	LogLevel   string `yaml:"logLevel,omitempty"`
	LogService string `yaml:"logService,omitempty"`

	Server    *ServerFileConfig    `yaml:"server,omitempty"`
	FFmpeg    *FFmpegFileConfig    `yaml:"ffmpeg,omitempty"`
	Paths     *PathsFileConfig     `yaml:"paths,omitempty"`
	Bench     *BenchFileConfig     `yaml:"bench,omitempty"`
	Metrics   *MetricsFileConfig   `yaml:"metrics,omitempty"`
	RateLimit *RateLimitFileConfig `yaml:"rateLimit,omitempty"`
	Telemetry *TelemetryFileConfig `yaml:"telemetry,omitempty"`
}

type ServerFileConfig struct {
	ListenAddr      string `yaml:"listenAddr,omitempty"`
	ReadTimeout     string `yaml:"readTimeout,omitempty"`
	WriteTimeout    string `yaml:"writeTimeout,omitempty"`
	ShutdownTimeout string `yaml:"shutdownTimeout,omitempty"`
}

type FFmpegFileConfig struct {
	Bin        string `yaml:"bin,omitempty"`
	FFprobeBin string `yaml:"ffprobeBin,omitempty"`
	Timeout    string `yaml:"timeout,omitempty"`
	KillGrace  string `yaml:"killGrace,omitempty"`
}

type PathsFileConfig struct {
	WorkDir   string `yaml:"workDir,omitempty"`
	OutputDir string `yaml:"outputDir,omitempty"`
	ClipsDir  string `yaml:"clipsDir,omitempty"`
}

type BenchFileConfig struct {
	ShortRepetitions *int   `yaml:"shortRepetitions,omitempty"`
	MidRepetitions   *int   `yaml:"midRepetitions,omitempty"`
	ShortA           string `yaml:"shortA,omitempty"`
	ShortB           string `yaml:"shortB,omitempty"`
	MidA             string `yaml:"midA,omitempty"`
	MidB             string `yaml:"midB,omitempty"`
	LongA            string `yaml:"longA,omitempty"`
	LongB            string `yaml:"longB,omitempty"`
}

type MetricsFileConfig struct {
	Enabled *bool `yaml:"enabled,omitempty"`
}

type RateLimitFileConfig struct {
	Enabled  *bool  `yaml:"enabled,omitempty"`
	Requests *int   `yaml:"requests,omitempty"`
	Window   string `yaml:"window,omitempty"`
}

type TelemetryFileConfig struct {
	Enabled      *bool    `yaml:"enabled,omitempty"`
	Exporter     string   `yaml:"exporter,omitempty"`
	Endpoint     string   `yaml:"endpoint,omitempty"`
	SamplingRate *float64 `yaml:"samplingRate,omitempty"`
}
