package otel

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/louisbranch/pccdata/internal/platform/config"
)

type setupEnv struct {
	Enabled     string  `env:"PCCDATA_OTEL_ENABLED"`
	Endpoint    string  `env:"PCCDATA_OTEL_ENDPOINT"`
	SampleRatio float64 `env:"PCCDATA_OTEL_SAMPLE_RATIO" envDefault:"1"`
}

func sampler(ratio float64) (sdktrace.Sampler, error) {
	switch {
	case ratio < 0 || ratio > 1:
		return nil, fmt.Errorf("otel sample ratio must be within [0, 1], got %v", ratio)
	case ratio == 1:
		return sdktrace.AlwaysSample(), nil
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio)), nil
	}
}

// Setup initialises OpenTelemetry tracing for the given service.
//
// Tracing is opt-in: when PCCDATA_OTEL_ENDPOINT is empty or
// PCCDATA_OTEL_ENABLED is "false", Setup returns a no-op shutdown
// function and no global provider is registered.
//
// PCCDATA_OTEL_SAMPLE_RATIO (default 1) keeps a fraction of load traces.
//
// The returned shutdown function flushes pending spans and should be deferred
// by the caller.
func Setup(ctx context.Context, serviceName string) (shutdown func(context.Context) error, err error) {
	noop := func(context.Context) error { return nil }

	var env setupEnv
	if err := config.ParseEnv(&env); err != nil {
		return noop, err
	}
	if strings.EqualFold(env.Enabled, "false") {
		return noop, nil
	}
	if env.Endpoint == "" {
		return noop, nil
	}
	traceSampler, err := sampler(env.SampleRatio)
	if err != nil {
		return noop, err
	}

	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpointURL(env.Endpoint),
	)
	if err != nil {
		return noop, err
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
		),
	)
	if err != nil {
		return noop, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(traceSampler),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return tp.Shutdown, nil
}
