// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package api exposes the benchmark patterns and the bare operations as
// plain-text HTTP endpoints.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/singleflight"

	"github.com/ManuGH/audiobench/internal/api/middleware"
	"github.com/ManuGH/audiobench/internal/bench"
	"github.com/ManuGH/audiobench/internal/health"
	xglog "github.com/ManuGH/audiobench/internal/log"
)

const (
	routeMerge = "merge"
	routeMix   = "mix"
)

// ErrAlreadyStarted is returned when Start is called twice.
var ErrAlreadyStarted = errors.New("api: server already started")

// Driver runs benchmark patterns and the bare operations; *bench.Driver
// implements it.
type Driver interface {
	Run(ctx context.Context, p bench.Pattern) (bench.Report, error)
	Merge(ctx context.Context) (bench.Report, error)
	Mix(ctx context.Context) (bench.Report, error)
}

// RunRecorder observes finished runs; *health.LastRunChecker implements it.
type RunRecorder interface {
	Record(pattern string, err error)
}

// Config holds the HTTP server settings.
type Config struct {
	ListenAddr      string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	// MetricsEnabled mounts /metrics.
	MetricsEnabled bool
	Stack          middleware.StackConfig
}

// Server serves the audio test endpoints.
type Server struct {
	cfg      Config
	driver   Driver
	health   *health.Manager
	recorder RunRecorder
	logger   zerolog.Logger

	mu       sync.RWMutex
	patterns []bench.Pattern

	// Runs write fixed file names, so concurrent requests for the same
	// pattern share one run.
	runs singleflight.Group

	router http.Handler

	lifecycleMu sync.Mutex
	srv         *http.Server
	addr        string
	rootCtx     context.Context
	cancelRuns  context.CancelFunc
}

// Option customizes a Server.
type Option func(*Server)

// WithHealth mounts /healthz and /readyz backed by m.
func WithHealth(m *health.Manager) Option {
	return func(s *Server) { s.health = m }
}

// WithRunRecorder reports every finished run to r.
func WithRunRecorder(r RunRecorder) Option {
	return func(s *Server) { s.recorder = r }
}

// WithLogger overrides the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// New builds a server for the given patterns. The server is not listening
// until Start is called.
func New(cfg Config, driver Driver, patterns []bench.Pattern, opts ...Option) *Server {
	rootCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:        cfg,
		driver:     driver,
		logger:     xglog.WithComponent("api"),
		patterns:   append([]bench.Pattern(nil), patterns...),
		rootCtx:    rootCtx,
		cancelRuns: cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() http.Handler {
	r := middleware.NewRouter(s.cfg.Stack)

	r.Route("/audio/test", func(r chi.Router) {
		r.Get("/"+routeMerge, s.handleRun(routeMerge, s.driver.Merge))
		r.Get("/"+routeMix, s.handleRun(routeMix, s.driver.Mix))
		r.Get("/{pattern}", s.handlePattern)
	})

	if s.health != nil {
		r.Get("/healthz", s.health.ServeHealth)
		r.Get("/readyz", s.health.ServeReady)
	}
	if s.cfg.MetricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}
	return r
}

// Handler returns the routed handler with the middleware stack applied.
func (s *Server) Handler() http.Handler { return s.router }

// SetPatterns replaces the served pattern set, e.g. after a config reload.
// Runs already in flight keep the pattern they started with.
func (s *Server) SetPatterns(patterns []bench.Pattern) {
	s.mu.Lock()
	s.patterns = append([]bench.Pattern(nil), patterns...)
	s.mu.Unlock()
}

func (s *Server) pattern(name string) (bench.Pattern, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return bench.Find(s.patterns, name)
}

func (s *Server) handlePattern(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "pattern")
	p, err := s.pattern(name)
	if err != nil {
		writeText(w, http.StatusNotFound, fmt.Sprintf("unknown pattern %q", name))
		return
	}
	s.handleRun(p.Name, func(ctx context.Context) (bench.Report, error) {
		return s.driver.Run(ctx, p)
	})(w, r)
}

func (s *Server) handleRun(name string, run func(context.Context) (bench.Report, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ch := s.runs.DoChan(name, func() (any, error) {
			rep, err := run(s.runContext(r.Context()))
			if s.recorder != nil {
				s.recorder.Record(name, err)
			}
			return rep, err
		})

		var res singleflight.Result
		select {
		case res = <-ch:
		case <-r.Context().Done():
			// The run continues for any other waiters; this client is gone.
			return
		}

		logger := xglog.WithContext(r.Context(), s.logger)
		if res.Err != nil {
			logger.Error().
				Err(res.Err).
				Str(xglog.FieldEvent, "run.failed").
				Str(xglog.FieldPattern, name).
				Bool("shared", res.Shared).
				Msg("run failed")
			writeText(w, http.StatusInternalServerError, fmt.Sprintf("%s failed: %v", name, res.Err))
			return
		}

		rep := res.Val.(bench.Report)
		logger.Info().
			Str(xglog.FieldEvent, "run.completed").
			Str(xglog.FieldPattern, name).
			Str(xglog.FieldRunID, rep.RunID).
			Bool("shared", res.Shared).
			Msg("run completed")
		writeText(w, http.StatusOK, rep.String())
	}
}

// runContext detaches a run from the request that triggered it. Runs are
// bound to the server lifetime instead, keeping the request ID and span for
// correlation.
func (s *Server) runContext(req context.Context) context.Context {
	ctx := trace.ContextWithSpan(s.rootCtx, trace.SpanFromContext(req))
	if id := xglog.RequestIDFromContext(req); id != "" {
		ctx = xglog.ContextWithRequestID(ctx, id)
	}
	return ctx
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body + "\n"))
}

// Start listens on the configured address and serves in the background.
// Serve errors other than a clean shutdown are delivered on the returned
// channel.
func (s *Server) Start() (<-chan error, error) {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	if s.srv != nil {
		return nil, ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.cfg.ListenAddr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.cfg.ListenAddr, err)
	}

	s.srv = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		s.logger.Info().
			Str(xglog.FieldEvent, "server.listening").
			Str("addr", ln.Addr().String()).
			Msg("HTTP server listening")
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server error: %w", err)
		}
	}()
	s.addr = ln.Addr().String()
	return errCh, nil
}

// Addr reports the bound listen address once started.
func (s *Server) Addr() string {
	s.lifecycleMu.Lock()
	defer s.lifecycleMu.Unlock()
	return s.addr
}

// Shutdown stops accepting requests and waits for in-flight runs up to the
// shutdown timeout. Runs still going after that are cancelled, which stops
// their external processes.
func (s *Server) Shutdown(ctx context.Context) error {
	s.lifecycleMu.Lock()
	srv := s.srv
	s.lifecycleMu.Unlock()
	defer s.cancelRuns()

	if srv == nil {
		return nil
	}
	if s.cfg.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.ShutdownTimeout)
		defer cancel()
	}

	s.logger.Info().Str(xglog.FieldEvent, "server.shutdown").Msg("shutting down HTTP server")
	if err := srv.Shutdown(ctx); err != nil {
		s.cancelRuns()
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
