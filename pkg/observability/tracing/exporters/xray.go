package exporters

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/xray"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// XRayAPI is the X-Ray call the exporter needs
type XRayAPI interface {
	PutTraceSegments(ctx context.Context, params *xray.PutTraceSegmentsInput, optFns ...func(*xray.Options)) (*xray.PutTraceSegmentsOutput, error)
}

// XRayExporter exports traces to AWS X-Ray
type XRayExporter struct {
	client  XRayAPI
	service string
}

// NewXRayExporter creates a new X-Ray exporter in the config's region
func NewXRayExporter(cfg aws.Config, service string) *XRayExporter {
	return NewXRayExporterWithClient(xray.NewFromConfig(cfg), service)
}

// NewXRayExporterWithClient creates an exporter around an existing client
func NewXRayExporterWithClient(client XRayAPI, service string) *XRayExporter {
	return &XRayExporter{client: client, service: service}
}

// ExportSpans exports spans to X-Ray
func (e *XRayExporter) ExportSpans(ctx context.Context, spans []sdktrace.ReadOnlySpan) error {
	if len(spans) == 0 {
		return nil
	}

	documents := make([]string, 0, len(spans))
	for _, span := range spans {
		doc, err := e.segmentDocument(span)
		if err != nil {
			log.Printf("Warning: Failed to convert span to X-Ray document: %v", err)
			continue
		}
		documents = append(documents, doc)
	}

	if len(documents) == 0 {
		return nil
	}

	_, err := e.client.PutTraceSegments(ctx, &xray.PutTraceSegmentsInput{
		TraceSegmentDocuments: documents,
	})
	if err != nil {
		return fmt.Errorf("failed to put trace segments: %w", err)
	}

	return nil
}

// Shutdown shuts down the exporter
func (e *XRayExporter) Shutdown(ctx context.Context) error {
	return nil
}

// segmentDocument converts an OpenTelemetry span to an X-Ray segment
func (e *XRayExporter) segmentDocument(span sdktrace.ReadOnlySpan) (string, error) {
	traceID := span.SpanContext().TraceID().String()

	segment := map[string]interface{}{
		"trace_id":   fmt.Sprintf("1-%s-%s", traceID[:8], traceID[8:]),
		"id":         span.SpanContext().SpanID().String(),
		"name":       span.Name(),
		"start_time": float64(span.StartTime().UnixNano()) / 1e9,
		"end_time":   float64(span.EndTime().UnixNano()) / 1e9,
		"service": map[string]string{
			"name": e.service,
		},
	}
	if span.Parent().IsValid() {
		segment["parent_id"] = span.Parent().SpanID().String()
	}

	if attrs := span.Attributes(); len(attrs) > 0 {
		metadata := make(map[string]interface{})
		for _, attr := range attrs {
			metadata[string(attr.Key)] = attr.Value.AsInterface()
		}
		segment["metadata"] = map[string]interface{}{
			e.service: metadata,
		}
	}

	data, err := json.Marshal(segment)
	if err != nil {
		return "", err
	}

	return string(data), nil
}
