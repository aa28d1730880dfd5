package tracer

import (
	"context"
	"fmt"
	"log"

	"field-survey-bot/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
)

const ServiceName = "field-survey-bot"

type ShutdownFunc func(context.Context) error

func noop(context.Context) error { return nil }

// InitTracer installs the global tracer provider used by the otelfiber
// middleware. Webhook spans are sampled at OtelSampleRatio unless the
// caller already decided.
func InitTracer(cfg config.AppConfig) ShutdownFunc {
	if !cfg.OtelEnabled {
		return noop
	}

	tp, err := newProvider(context.Background(), cfg)
	if err != nil {
		log.Printf("[WARN] Tracing disabled: %v", err)
		return noop
	}

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	log.Printf("✅ Tracing %s to %s (ratio %.2f)", ServiceName, cfg.OtelEndpoint, cfg.OtelSampleRatio)

	return tp.Shutdown
}

func newProvider(ctx context.Context, cfg config.AppConfig) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(cfg.OtelEndpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, fmt.Errorf("otlp exporter: %w", err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.OtelSampleRatio))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
			semconv.DeploymentEnvironment(cfg.Environment),
		)),
	), nil
}
