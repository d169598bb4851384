// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"time"

	"github.com/go-chi/chi/v5"

	xglog "github.com/ManuGH/audiobench/internal/log"
)

// StackConfig configures the HTTP ingress middleware stack.
type StackConfig struct {
	EnableMetrics  bool
	TracingService string // empty disables tracing
	EnableLogging  bool

	EnableRateLimit bool
	RateLimit       int
	RateLimitWindow time.Duration
}

// NewRouter constructs a chi router with the middleware stack applied.
func NewRouter(cfg StackConfig) *chi.Mux {
	r := chi.NewRouter()
	ApplyStack(r, cfg)
	return r
}

// ApplyStack applies the middleware stack to r, outermost first.
func ApplyStack(r chi.Router, cfg StackConfig) {
	r.Use(Recoverer)
	r.Use(RequestID)
	if cfg.EnableMetrics {
		r.Use(Metrics())
	}
	if cfg.TracingService != "" {
		r.Use(Tracing(cfg.TracingService))
	}
	if cfg.EnableLogging {
		r.Use(xglog.Middleware())
	}
	if cfg.EnableRateLimit && cfg.RateLimit > 0 && cfg.RateLimitWindow > 0 {
		r.Use(RateLimit(RateLimitConfig{
			RequestLimit: cfg.RateLimit,
			WindowSize:   cfg.RateLimitWindow,
		}))
	}
}
