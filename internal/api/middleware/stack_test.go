// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	xglog "github.com/ManuGH/audiobench/internal/log"
	"github.com/ManuGH/audiobench/internal/telemetry"
)

func TestRecoverer_PanicBecomes500(t *testing.T) {
	r := NewRouter(StackConfig{})
	r.Get("/boom", func(http.ResponseWriter, *http.Request) { panic("kaboom") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal server error")
	assert.NotEmpty(t, rec.Header().Get(HeaderRequestID))
}

func TestRequestID_GeneratedAndPropagated(t *testing.T) {
	var seen string
	r := NewRouter(StackConfig{})
	r.Get("/id", func(w http.ResponseWriter, r *http.Request) {
		seen = xglog.RequestIDFromContext(r.Context())
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/id", nil))
	require.NotEmpty(t, seen)
	assert.Equal(t, seen, rec.Header().Get(HeaderRequestID))

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(HeaderRequestID, "caller-supplied")
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, "caller-supplied", seen)
	assert.Equal(t, "caller-supplied", rec.Header().Get(HeaderRequestID))
}

func TestRateLimit_Returns429WithRetryAfter(t *testing.T) {
	r := NewRouter(StackConfig{EnableRateLimit: true, RateLimit: 2, RateLimitWindow: time.Minute})
	r.Get("/x", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	got := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.RemoteAddr = "192.0.2.10:1234"
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		got = append(got, rec.Code)
		if rec.Code == http.StatusTooManyRequests {
			assert.Equal(t, "60", rec.Header().Get("Retry-After"))
		}
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, got)
}

func TestRateLimit_DisabledWithoutWindow(t *testing.T) {
	r := NewRouter(StackConfig{EnableRateLimit: true, RateLimit: 1})
	r.Get("/x", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestTracing_SpanNamedByRoute(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := chi.NewRouter()
	r.Use(Tracing("audiobench-test"))
	r.Get("/audio/test/{name}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/audio/test/flow1", nil))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /audio/test/{name}", spans[0].Name())
	assert.Equal(t, codes.Error, spans[0].Status().Code)

	var status int64
	for _, kv := range spans[0].Attributes() {
		if string(kv.Key) == telemetry.HTTPStatusCodeKey {
			status = kv.Value.AsInt64()
		}
	}
	assert.Equal(t, int64(http.StatusInternalServerError), status)
}

func TestMetrics_UnmatchedRouteLabel(t *testing.T) {
	r := NewRouter(StackConfig{EnableMetrics: true})
	r.Get("/known", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/unknown/path", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
