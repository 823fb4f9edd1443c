package telemetry

import (
	"context"
	"os"

	"github.com/heraldbot/herald/core/logger"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
)

// TracingEndpointEnv names the environment variable holding the OTLP HTTP
// collector endpoint. Unset means tracing stays a no-op.
const TracingEndpointEnv = "HERALD_TRACING_ENDPOINT"

// InstallTraceProvider installs the global trace provider backed by an OTLP
// HTTP exporter. An empty endpoint installs a no-op provider.
func InstallTraceProvider(endpoint, serviceName string) {
	var tracerProvider trace.TracerProvider

	defer func() {
		otel.SetTracerProvider(tracerProvider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))
	}()

	tracerProvider = trace.NewNoopTracerProvider()
	if endpoint == "" {
		return
	}

	client := otlptracehttp.NewClient(
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)

	exporter, err := otlptrace.New(context.Background(), client)
	if err != nil {
		logger.Logger().WithError(err).Error("creating OTLP trace exporter")
		return
	}

	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName)))
	if err != nil {
		logger.Logger().WithError(err).Error("creating resource")
		return
	}

	tracerProvider = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(r))
}

// InstallTraceProviderFromEnv reads the collector endpoint from
// HERALD_TRACING_ENDPOINT and installs the provider.
func InstallTraceProviderFromEnv(serviceName string) {
	InstallTraceProvider(os.Getenv(TracingEndpointEnv), serviceName)
}
