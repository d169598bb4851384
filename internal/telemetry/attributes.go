// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by spans across the application.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"

	OperationKey       = "audio.operation"
	OperationInputsKey = "audio.inputs"
	OutputPathKey      = "audio.output_path"
	OutputBytesKey     = "audio.output_bytes"

	PatternKey     = "bench.pattern"
	OrderKey       = "bench.order"
	RepetitionsKey = "bench.repetitions"
	RunIDKey       = "bench.run_id"

	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// OperationAttributes describes one concat or mix invocation.
func OperationAttributes(op string, inputs []string, dest string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(OperationKey, op),
		attribute.StringSlice(OperationInputsKey, inputs),
		attribute.String(OutputPathKey, dest),
	}
}

// PatternAttributes describes one benchmark pattern run.
func PatternAttributes(pattern, order string, repetitions int, runID string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(PatternKey, pattern),
		attribute.Int(RepetitionsKey, repetitions),
	}
	if order != "" {
		attrs = append(attrs, attribute.String(OrderKey, order))
	}
	if runID != "" {
		attrs = append(attrs, attribute.String(RunIDKey, runID))
	}
	return attrs
}
