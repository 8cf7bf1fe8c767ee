// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Sendlater Contributors

package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestSetup(t *testing.T) {
	t.Run("json output carries service and version", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("sendlater", "1.2.3", "json", &buf)

		logger.Info("hello", "key", "value")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "hello", record["msg"])
		assert.Equal(t, "value", record["key"])
		assert.Equal(t, "sendlater", record["service"])
		assert.Equal(t, "1.2.3", record["version"])
	})

	t.Run("text format produces non-JSON output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("sendlater", "dev", "text", &buf)

		logger.Info("hello")

		assert.Contains(t, buf.String(), "msg=hello")
	})

	t.Run("trace context is attached when present", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("sendlater", "dev", "json", &buf)

		traceID, err := trace.TraceIDFromHex("0123456789abcdef0123456789abcdef")
		require.NoError(t, err)
		spanID, err := trace.SpanIDFromHex("0123456789abcdef")
		require.NoError(t, err)
		spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		})
		ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)

		logger.InfoContext(ctx, "traced")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, traceID.String(), record["trace_id"])
		assert.Equal(t, spanID.String(), record["span_id"])
	})

	t.Run("no trace attrs without span context", func(t *testing.T) {
		var buf bytes.Buffer
		logger := Setup("sendlater", "dev", "json", &buf)

		logger.Info("untraced")

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.NotContains(t, record, "trace_id")
		assert.NotContains(t, record, "span_id")
	})
}
