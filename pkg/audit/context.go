package audit

import (
	"context"
	"io"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
)

type contextKey string

const loggerKey contextKey = "audit_logger"

// CorrelationIDFromContext returns the Lambda request ID when ctx carries a
// Lambda invocation, otherwise a fresh random ID.
func CorrelationIDFromContext(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		return lc.AwsRequestID
	}
	return uuid.New().String()
}

// InvokerFromContext names who started the sweep: the Lambda function ARN
// when available, "cli" otherwise.
func InvokerFromContext(ctx context.Context) string {
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.InvokedFunctionArn != "" {
		return lc.InvokedFunctionArn
	}
	return "cli"
}

// NewLoggerFromContext creates a logger stamped with the invocation's
// identity. An existing logger in ctx is returned as is.
func NewLoggerFromContext(ctx context.Context, w io.Writer) *AuditLogger {
	if logger := GetLoggerFromContext(ctx); logger != nil {
		return logger
	}
	return NewLogger(w, InvokerFromContext(ctx), CorrelationIDFromContext(ctx))
}

// GetLoggerFromContext retrieves an audit logger from the context.
func GetLoggerFromContext(ctx context.Context) *AuditLogger {
	if v := ctx.Value(loggerKey); v != nil {
		if logger, ok := v.(*AuditLogger); ok {
			return logger
		}
	}
	return nil
}

// SetLoggerInContext stores an audit logger in the context.
func SetLoggerInContext(ctx context.Context, logger *AuditLogger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}
