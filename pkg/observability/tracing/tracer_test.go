package tracing

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/xray"
	"github.com/scttfrdmn/labstop/pkg/observability"
	"github.com/scttfrdmn/labstop/pkg/observability/tracing/exporters"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewTracerDisabled(t *testing.T) {
	tracer, err := NewTracer(context.Background(), observability.TracingConfig{Enabled: false}, aws.Config{}, "labstop", "test")
	if err != nil {
		t.Fatalf("NewTracer() error = %v", err)
	}
	if tracer.provider != nil {
		t.Error("Expected no provider when tracing is disabled")
	}

	_, end := tracer.StartSpan(context.Background(), "noop")
	end(nil)

	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() error = %v", err)
	}
}

func TestNewTracerUnsupportedExporter(t *testing.T) {
	cfg := observability.TracingConfig{Enabled: true, Exporter: "jaeger", SamplingRate: 1}
	if _, err := NewTracer(context.Background(), cfg, aws.Config{Region: "us-east-1"}, "labstop", "test"); err == nil {
		t.Error("Expected error for unsupported exporter")
	}
}

func TestNilTracerStartSpan(t *testing.T) {
	var tracer *Tracer
	ctx := context.Background()
	got, end := tracer.StartSpan(ctx, "noop")
	if got != ctx {
		t.Error("Expected context to be returned unchanged")
	}
	end(errors.New("ignored"))
}

func TestStdoutExporterWritesSpans(t *testing.T) {
	buf := &bytes.Buffer{}
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporters.NewStdoutExporter(buf)))
	tracer := &Tracer{provider: provider, tracer: provider.Tracer(instrumentationName)}

	ctx, endSweep := tracer.StartSpan(context.Background(), "sweep")
	_, endRegion := tracer.StartSpan(ctx, "region", attribute.String("region", "us-east-1"))
	endRegion(errors.New("AuthFailure"))
	endSweep(nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected 2 spans, got %d:\n%s", len(lines), buf.String())
	}

	var region map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimPrefix(lines[0], "[TRACE] ")), &region); err != nil {
		t.Fatalf("Failed to decode span: %v", err)
	}
	if region["name"] != "region" {
		t.Errorf("Expected span region first, got %v", region["name"])
	}
	if region["status"] != "Error" {
		t.Errorf("Expected status Error, got %v", region["status"])
	}
	if _, ok := region["parent_id"]; !ok {
		t.Error("Expected region span to have a parent")
	}
}

type fakeXRay struct {
	documents []string
	err       error
}

func (f *fakeXRay) PutTraceSegments(ctx context.Context, params *xray.PutTraceSegmentsInput, optFns ...func(*xray.Options)) (*xray.PutTraceSegmentsOutput, error) {
	f.documents = append(f.documents, params.TraceSegmentDocuments...)
	return &xray.PutTraceSegmentsOutput{}, f.err
}

func TestXRayExporter(t *testing.T) {
	fake := &fakeXRay{}
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporters.NewXRayExporterWithClient(fake, "labstop")))

	_, span := provider.Tracer("test").Start(context.Background(), "stop-instances")
	span.SetAttributes(attribute.Int("instances", 2))
	span.End()

	if len(fake.documents) != 1 {
		t.Fatalf("Expected 1 segment, got %d", len(fake.documents))
	}

	var segment map[string]interface{}
	if err := json.Unmarshal([]byte(fake.documents[0]), &segment); err != nil {
		t.Fatalf("Failed to decode segment: %v", err)
	}
	if !strings.HasPrefix(segment["trace_id"].(string), "1-") {
		t.Errorf("Unexpected trace_id %v", segment["trace_id"])
	}
	metadata := segment["metadata"].(map[string]interface{})["labstop"].(map[string]interface{})
	if metadata["instances"] != float64(2) {
		t.Errorf("Expected instances metadata 2, got %v", metadata["instances"])
	}
}
