package tracing

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/scttfrdmn/labstop/pkg/observability"
	"github.com/scttfrdmn/labstop/pkg/observability/tracing/exporters"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "labstop"

// Tracer wraps OpenTelemetry tracer
type Tracer struct {
	provider *sdktrace.TracerProvider
	tracer   trace.Tracer
}

// NewTracer creates a new tracer. With tracing disabled the global (no-op)
// provider is used and nothing is exported.
func NewTracer(ctx context.Context, config observability.TracingConfig, awsCfg aws.Config, serviceName, version string) (*Tracer, error) {
	if !config.Enabled {
		return &Tracer{
			tracer: otel.GetTracerProvider().Tracer(instrumentationName),
		}, nil
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(version),
			attribute.String("cloud.provider", "aws"),
			attribute.String("cloud.region", awsCfg.Region),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	var exporter sdktrace.SpanExporter
	switch config.Exporter {
	case "xray":
		exporter = exporters.NewXRayExporter(awsCfg, serviceName)
	case "stdout":
		exporter = exporters.NewStdoutExporter(nil)
	default:
		return nil, fmt.Errorf("unsupported exporter: %s", config.Exporter)
	}

	// Lambda freezes between invocations; export synchronously.
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithSyncer(exporter),
		sdktrace.WithSampler(sdktrace.TraceIDRatioBased(config.SamplingRate)),
	)

	otel.SetTracerProvider(provider)

	log.Printf("Tracing enabled: exporter=%s, sampling=%.2f", config.Exporter, config.SamplingRate)

	return &Tracer{
		provider: provider,
		tracer:   provider.Tracer(instrumentationName),
	}, nil
}

// Shutdown flushes and shuts down the tracer
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || t.provider == nil {
		return nil
	}
	return t.provider.Shutdown(ctx)
}

// Tracer returns the OpenTelemetry tracer
func (t *Tracer) Tracer() trace.Tracer {
	return t.tracer
}

// StartSpan starts a span named name. The returned function ends it,
// recording err as the span status when non-nil. A nil Tracer is a no-op.
func (t *Tracer) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, func(err error)) {
	if t == nil || t.tracer == nil {
		return ctx, func(error) {}
	}

	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, func(err error) {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}
}
