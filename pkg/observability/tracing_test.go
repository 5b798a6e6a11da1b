package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestStartSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	previous := otel.GetTracerProvider()
	otel.SetTracerProvider(provider)
	defer otel.SetTracerProvider(previous)

	_, ok := StartSpan(context.Background(), "compile", attribute.Int("sources", 2))
	EndSpan(ok, nil)

	_, failed := StartSpan(context.Background(), "render")
	EndSpan(failed, errors.New("boom"))

	spans := recorder.Ended()
	require.Len(t, spans, 2)

	assert.Equal(t, "compile", spans[0].Name())
	assert.Contains(t, spans[0].Attributes(), attribute.Int("sources", 2))
	assert.Equal(t, codes.Unset, spans[0].Status().Code)

	assert.Equal(t, "render", spans[1].Name())
	assert.Equal(t, codes.Error, spans[1].Status().Code)
	assert.Equal(t, "boom", spans[1].Status().Description)
}

func TestInitTracing_Disabled(t *testing.T) {
	previous := otel.GetTracerProvider()

	shutdown, err := InitTracing(context.Background(), TracingConfig{}, nil)
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Equal(t, previous, otel.GetTracerProvider())
}

func TestInitTracing_Enabled(t *testing.T) {
	previous := otel.GetTracerProvider()
	defer otel.SetTracerProvider(previous)

	// the exporter dials lazily, so no collector is needed
	shutdown, err := InitTracing(context.Background(), TracingConfig{
		Enabled:     true,
		Endpoint:    "localhost:4317",
		ServiceName: "protoweave-test",
		Insecure:    true,
	}, nil)
	require.NoError(t, err)

	_, ok := otel.GetTracerProvider().(*sdktrace.TracerProvider)
	assert.True(t, ok)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = shutdown(ctx)
}
