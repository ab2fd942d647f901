package tracing

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
)

// InstrumentAWSConfig adds OpenTelemetry instrumentation to AWS SDK config so
// every DescribeInstances, StopInstances and Publish call gets a span
func InstrumentAWSConfig(cfg *aws.Config) {
	otelaws.AppendMiddlewares(&cfg.APIOptions)
}
