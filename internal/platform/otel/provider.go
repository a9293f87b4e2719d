// Package otel configures OpenTelemetry tracing for PopCity binaries.
package otel

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/popcity/popcity/internal/platform/config"
)

const (
	endpointEnv = "POPCITY_OTEL_ENDPOINT"
	enabledEnv  = "POPCITY_OTEL_ENABLED"
)

// InstrumentationName is the tracer name shared by PopCity packages.
const InstrumentationName = "github.com/popcity/popcity"

type settings struct {
	Endpoint    string `env:"POPCITY_OTEL_ENDPOINT"`
	Enabled     string `env:"POPCITY_OTEL_ENABLED"`
	SampleRatio string `env:"POPCITY_OTEL_SAMPLE_RATIO"`
}

func (s settings) active() bool {
	return strings.TrimSpace(s.Endpoint) != "" && !strings.EqualFold(strings.TrimSpace(s.Enabled), "false")
}

func (s settings) sampler() sdktrace.Sampler {
	if ratio, ok := parseRatio(s.SampleRatio); ok {
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
	return sdktrace.AlwaysSample()
}

// Setup installs a global OTLP/HTTP tracer provider for serviceName and
// returns its shutdown. Tracing stays off, with a no-op shutdown, unless
// POPCITY_OTEL_ENDPOINT is set and POPCITY_OTEL_ENABLED is not "false".
func Setup(ctx context.Context, serviceName string) (func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }

	var s settings
	if err := config.ParseEnv(&s); err != nil {
		return noop, fmt.Errorf("otel settings: %w", err)
	}
	if !s.active() {
		return noop, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(s.Endpoint))
	if err != nil {
		return noop, fmt.Errorf("otlp exporter: %w", err)
	}
	res, err := resource.New(ctx, resource.WithAttributes(
		semconv.ServiceName(serviceName),
		semconv.ServiceNamespace("popcity"),
	))
	if err != nil {
		return noop, fmt.Errorf("otel resource: %w", err)
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(s.sampler()),
	)
	otel.SetTracerProvider(provider)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	return provider.Shutdown, nil
}

// Tracer returns the PopCity tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(InstrumentationName)
}

// parseRatio accepts a sampling ratio in [0, 1].
func parseRatio(raw string) (float64, bool) {
	ratio, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || ratio < 0 || ratio > 1 {
		return 0, false
	}
	return ratio, true
}
