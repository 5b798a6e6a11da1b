// Package observability provides logging, Prometheus metrics and OpenTelemetry tracing
// for protoweave passes.
//
// # Logging
//
// Create a logger from configuration:
//
//	log := observability.NewLogger("debug", "json", os.Stderr)
//	log.WithField("pass_id", id).Info("Pass complete")
//
// # Prometheus Metrics
//
// Register pass metrics on a registry:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.ObserveInsertions("uuid", stats)
//
// Expose them while watching:
//
//	mux := http.NewServeMux()
//	observability.RegisterMetricsEndpoint(mux, registry)
//
// # OpenTelemetry
//
// Spans are created through the global tracer provider and are no-ops unless the
// host installs one:
//
//	ctx, span := observability.StartSpan(ctx, "render")
//	defer span.End()
//
// InitTracing installs a provider exporting spans to an OTLP/gRPC collector:
//
//	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
//		Enabled:  true,
//		Endpoint: "localhost:4317",
//		Insecure: true,
//	}, log)
//	defer shutdown(context.Background())
package observability
