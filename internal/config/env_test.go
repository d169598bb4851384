// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseEnv(t *testing.T) {
	t.Setenv("AUDIOBENCH_T_STR", "value")
	t.Setenv("AUDIOBENCH_T_EMPTY", "")
	t.Setenv("AUDIOBENCH_T_INT", "42")
	t.Setenv("AUDIOBENCH_T_BADINT", "forty")
	t.Setenv("AUDIOBENCH_T_DUR", "1m30s")
	t.Setenv("AUDIOBENCH_T_BOOL", "YES")
	t.Setenv("AUDIOBENCH_T_BADBOOL", "maybe")
	t.Setenv("AUDIOBENCH_T_FLOAT", "0.25")

	assert.Equal(t, "value", ParseString("AUDIOBENCH_T_STR", "d"))
	assert.Equal(t, "d", ParseString("AUDIOBENCH_T_EMPTY", "d"))
	assert.Equal(t, "d", ParseString("AUDIOBENCH_T_UNSET", "d"))
	assert.Equal(t, 42, ParseInt("AUDIOBENCH_T_INT", 1))
	assert.Equal(t, 1, ParseInt("AUDIOBENCH_T_BADINT", 1))
	assert.Equal(t, 90*time.Second, ParseDuration("AUDIOBENCH_T_DUR", time.Second))
	assert.True(t, ParseBool("AUDIOBENCH_T_BOOL", false))
	assert.True(t, ParseBool("AUDIOBENCH_T_BADBOOL", true))
	assert.InDelta(t, 0.25, ParseFloat("AUDIOBENCH_T_FLOAT", 1), 1e-9)
}
