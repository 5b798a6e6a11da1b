package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name     string
		level    string
		format   string
		expected logrus.Level
	}{
		{"debug text", "debug", FormatText, logrus.DebugLevel},
		{"warn json", "warn", FormatJSON, logrus.WarnLevel},
		{"unknown level", "verbose", FormatText, logrus.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := NewLogger(tt.level, tt.format, &bytes.Buffer{})
			assert.Equal(t, tt.expected, logger.GetLevel())
		})
	}
}

func TestFromContext_PassID(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("info", FormatJSON, &buf)

	ctx := WithPassID(context.Background(), "pass-1")
	assert.Equal(t, "pass-1", GetPassID(ctx))
	assert.Empty(t, GetPassID(context.Background()))

	FromContext(ctx, logger).Info("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "pass-1", entry["pass_id"])
	assert.Equal(t, "hello", entry["msg"])
	assert.NotContains(t, entry, "trace_id")
}

func TestWithTraceContext(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	ctx, span := provider.Tracer(TracerName).Start(context.Background(), "render")

	var buf bytes.Buffer
	logger := NewLogger("info", FormatJSON, &buf)
	WithTraceContext(ctx, logrus.NewEntry(logger)).Info("inside span")
	span.End()

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, span.SpanContext().TraceID().String(), entry["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), entry["span_id"])
	assert.Len(t, recorder.Ended(), 1)
}
