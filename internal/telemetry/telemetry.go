// Package telemetry provides OpenTelemetry instrumentation for Honeycomb.
package telemetry

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const (
	serviceName    = "sewerband"
	serviceVersion = "0.1.0"
	tracerPrefix   = serviceName + "/"

	honeycombEndpoint = "https://api.honeycomb.io"
)

// Config selects where spans go and what describes the run.
type Config struct {
	// Exporter replaces the OTLP/HTTP exporter when set.
	Exporter sdktrace.SpanExporter
	// Attributes are added to the resource of every span.
	Attributes []attribute.KeyValue
}

// SeedAttribute tags a span or resource with the generator seed.
func SeedAttribute(seed int64) attribute.KeyValue {
	return attribute.Int64("sewer.seed", seed)
}

// Enabled reports whether an OTLP endpoint is configured.
func Enabled() bool {
	return os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != "" ||
		os.Getenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT") != ""
}

// ApplyHoneycombEnv fills the standard OTEL_* variables from
// HONEYCOMB_SEWERBAND_API_KEY and HONEYCOMB_SEWERBAND_DATASET. An explicit
// endpoint is left alone; headers are only set when an API key is present.
func ApplyHoneycombEnv() {
	if os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") == "" {
		os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", honeycombEndpoint)
	}

	// The .env file may carry an unexpanded variable reference, so the
	// header is built here.
	apiKey := os.Getenv("HONEYCOMB_SEWERBAND_API_KEY")
	if apiKey == "" {
		return
	}
	dataset := os.Getenv("HONEYCOMB_SEWERBAND_DATASET")
	if dataset == "" {
		dataset = serviceName
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}

// Setup installs a global tracer provider. Without cfg.Exporter it exports
// over OTLP/HTTP using the standard OTEL_* environment variables:
//   - OTEL_EXPORTER_OTLP_ENDPOINT: Honeycomb endpoint (https://api.honeycomb.io)
//   - OTEL_EXPORTER_OTLP_HEADERS: Headers including x-honeycomb-team=<api-key>
//
// Returns a shutdown function that flushes pending spans.
func Setup(ctx context.Context, cfg Config) (shutdown func(context.Context) error, err error) {
	exporter := cfg.Exporter
	if exporter == nil {
		exporter, err = otlptracehttp.New(ctx)
		if err != nil {
			return nil, err
		}
	}

	// Own resource without merging Default() to avoid schema URL conflicts
	attrs := append([]attribute.KeyValue{
		attribute.String("service.name", serviceName),
		attribute.String("service.version", serviceVersion),
		attribute.String("telemetry.sdk.language", "go"),
		attribute.String("telemetry.sdk.name", "opentelemetry"),
		attribute.String("host.name", getHostname()),
		attribute.String("os.type", runtime.GOOS),
		attribute.String("process.runtime.name", "go"),
		attribute.String("process.runtime.version", runtime.Version()),
	}, cfg.Attributes...)
	res, err := resource.New(ctx, resource.WithAttributes(attrs...))
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}

// Tracer returns a named tracer for one component, e.g. "world" or "game".
func Tracer(name string) trace.Tracer {
	return otel.GetTracerProvider().Tracer(tracerPrefix + name)
}

// NoopTracer returns a no-op tracer for use when telemetry is disabled.
func NoopTracer() trace.Tracer {
	return noop.NewTracerProvider().Tracer(tracerPrefix + "noop")
}

func getHostname() string {
	hostname, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return hostname
}
