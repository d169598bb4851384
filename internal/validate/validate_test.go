// SPDX-License-Identifier: MIT
package validate

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_Accumulates(t *testing.T) {
	v := New()
	v.Positive("bench.shortRepetitions", 0)
	v.NotEmpty("ffmpeg.bin", "  ")
	v.OneOf("telemetry.exporter", "zipkin", []string{"grpc", "http"})

	require.False(t, v.IsValid())
	require.Len(t, v.Errors(), 3)

	err := v.Err()
	var verr ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Errors(), 3)
	assert.Contains(t, err.Error(), "bench.shortRepetitions")
	assert.Contains(t, err.Error(), "; ")
}

func TestValidator_NoErrors(t *testing.T) {
	v := New()
	v.Positive("n", 1)
	v.NotEmpty("s", "x")
	assert.True(t, v.IsValid())
	assert.NoError(t, v.Err())
}

func TestFileName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"short_a.mp3", true},
		{"clip with spaces.wav", true},
		{"", false},
		{"..", false},
		{".", false},
		{"../x.mp3", false},
		{"dir/x.mp3", false},
		{`dir\x.mp3`, false},
		{"/abs.mp3", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := New()
			v.FileName("clip", tt.name)
			assert.Equal(t, tt.valid, v.IsValid())
		})
	}
}

func TestListenAddr(t *testing.T) {
	for addr, valid := range map[string]bool{
		":8080":          true,
		"127.0.0.1:0":    true,
		"[::1]:9000":     true,
		"8080":           false,
		"localhost:http": false,
		":70000":         false,
	} {
		v := New()
		v.ListenAddr("server.listenAddr", addr)
		assert.Equal(t, valid, v.IsValid(), addr)
	}
}

func TestNumericChecks(t *testing.T) {
	v := New()
	v.NonNegativeDuration("ffmpeg.timeout", 0)
	v.Fraction("telemetry.samplingRate", 0.5)
	assert.True(t, v.IsValid())

	v.NonNegativeDuration("ffmpeg.killGrace", -time.Second)
	v.Fraction("telemetry.samplingRate", 1.5)
	assert.Len(t, v.Errors(), 2)
}

func TestLogLevel(t *testing.T) {
	v := New()
	v.LogLevel("logLevel", "debug")
	assert.True(t, v.IsValid())
	v.LogLevel("logLevel", "verbose")
	assert.False(t, v.IsValid())
}
