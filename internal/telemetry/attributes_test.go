// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestOperationAttributes(t *testing.T) {
	attrs := OperationAttributes("concat", []string{"a.mp3", "b.mp3"}, "/out/x.mp3")
	set := attribute.NewSet(attrs...)

	v, ok := set.Value(OperationKey)
	assert.True(t, ok)
	assert.Equal(t, "concat", v.AsString())

	v, ok = set.Value(OperationInputsKey)
	assert.True(t, ok)
	assert.Equal(t, []string{"a.mp3", "b.mp3"}, v.AsStringSlice())
}

func TestPatternAttributes_OmitsEmpty(t *testing.T) {
	assert.Len(t, PatternAttributes("merge", "", 1, ""), 2)
	assert.Len(t, PatternAttributes("flow1", "merge-then-mix", 60, "run-1"), 4)
}

func TestHTTPAttributes(t *testing.T) {
	set := attribute.NewSet(HTTPAttributes("GET", "/audio/test/flow1", 200)...)
	v, ok := set.Value(HTTPStatusCodeKey)
	assert.True(t, ok)
	assert.Equal(t, int64(200), v.AsInt64())
}
