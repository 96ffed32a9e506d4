// Package telemetry wires OpenTelemetry tracing for the binaries. Spans are
// always recorded through the global tracer; they are only exported when an
// OTLP endpoint is configured.
package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// Config selects an OTLP collector. At most one endpoint is used; gRPC wins
// when both are set.
type Config struct {
	GrpcEndpoint string
	HttpEndpoint string
	Headers      map[string]string
}

// Enabled reports whether any exporter endpoint is configured.
func (c Config) Enabled() bool {
	return c.GrpcEndpoint != "" || c.HttpEndpoint != ""
}

// Telemetry owns the installed tracer provider.
type Telemetry struct {
	TracerProvider *trace.TracerProvider
}

// Shutdown flushes pending spans. It is a no-op when tracing was not set up.
func (t Telemetry) Shutdown(ctx context.Context) error {
	if t.TracerProvider == nil {
		return nil
	}
	return t.TracerProvider.Shutdown(ctx)
}

// Setup installs a batching tracer provider as the global provider. With no
// endpoint configured it returns an empty Telemetry and leaves the no-op
// global provider in place.
func Setup(ctx context.Context, serviceName string, cfg Config) (Telemetry, error) {
	if !cfg.Enabled() {
		return Telemetry{}, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return Telemetry{}, err
	}

	exporter, err := newExporter(ctx, cfg)
	if err != nil {
		return Telemetry{}, err
	}

	tp := trace.NewTracerProvider(
		trace.WithBatcher(exporter),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return Telemetry{TracerProvider: tp}, nil
}

func newExporter(ctx context.Context, cfg Config) (trace.SpanExporter, error) {
	if cfg.GrpcEndpoint != "" {
		return otlptracegrpc.New(
			ctx,
			otlptracegrpc.WithEndpointURL(cfg.GrpcEndpoint),
			otlptracegrpc.WithHeaders(cfg.Headers),
		)
	}
	return otlptracehttp.New(
		ctx,
		otlptracehttp.WithEndpointURL(cfg.HttpEndpoint),
		otlptracehttp.WithHeaders(cfg.Headers),
	)
}
