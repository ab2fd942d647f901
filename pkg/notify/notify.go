package notify

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/scttfrdmn/labstop/pkg/audit"
	"github.com/scttfrdmn/labstop/pkg/observability/metrics"
	"github.com/scttfrdmn/labstop/pkg/sweep"
)

const (
	SuccessSubject = "EC2 Auto Stop Notification - Success"
	FailureSubject = "EC2 Auto Stop Notification - Failure"

	successHeader = "Successfully stopped EC2 instances:"
	failureHeader = "Failed to stop EC2 instances:"
)

// Kind distinguishes the two notifications a sweep can send
type Kind string

const (
	KindSuccess Kind = "success"
	KindFailure Kind = "failure"
)

// SNSAPI is the SNS call the notifier needs
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Result is the outcome of one publish attempt
type Result struct {
	Kind      Kind
	Lines     int
	MessageID string
	Err       error
}

// Notifier publishes sweep summaries to an SNS topic
type Notifier struct {
	client   SNSAPI
	topicArn string
	audit    *audit.AuditLogger
	metrics  *metrics.SweepMetrics
	logger   *log.Logger
}

// Option configures a Notifier
type Option func(*Notifier)

func WithAudit(a *audit.AuditLogger) Option {
	return func(n *Notifier) { n.audit = a }
}

func WithMetrics(m *metrics.SweepMetrics) Option {
	return func(n *Notifier) { n.metrics = m }
}

func WithLogger(l *log.Logger) Option {
	return func(n *Notifier) { n.logger = l }
}

// New creates a Notifier for topicArn. An empty topicArn yields a notifier
// that never publishes.
func New(client SNSAPI, topicArn string, opts ...Option) *Notifier {
	n := &Notifier{
		client:   client,
		topicArn: topicArn,
		audit:    audit.NewLogger(nil, "", ""),
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Enabled reports whether a topic is configured
func (n *Notifier) Enabled() bool {
	return n.topicArn != ""
}

// Send publishes the success summary and the failure summary of report,
// each only when it has lines and a topic is configured. A failed publish is
// logged and returned in its Result; it never prevents the other one.
func (n *Notifier) Send(ctx context.Context, report *sweep.Report) []Result {
	var results []Result

	if stopped := report.StoppedMessages(); len(stopped) > 0 && n.Enabled() {
		results = append(results, n.publish(ctx, KindSuccess, SuccessSubject, successHeader, stopped))
	}

	if failed := report.FailedMessages(); len(failed) > 0 && n.Enabled() {
		results = append(results, n.publish(ctx, KindFailure, FailureSubject, failureHeader, failed))
	}

	if report.Empty() {
		n.logger.Printf("No instances stopped or SNS topic not configured.")
	}

	return results
}

// FormatMessage renders a notification body: header then one line per
// instance
func FormatMessage(header string, lines []string) string {
	return header + "\n" + strings.Join(lines, "\n")
}

func (n *Notifier) publish(ctx context.Context, kind Kind, subject, header string, lines []string) Result {
	result := Result{Kind: kind, Lines: len(lines)}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicArn),
		Subject:  aws.String(subject),
		Message:  aws.String(FormatMessage(header, lines)),
	})
	if err != nil {
		result.Err = fmt.Errorf("publish %s notification: %w", kind, err)
		n.logger.Printf("Error sending SNS notification for %s: %v", kind, err)
	} else {
		if out.MessageId != nil {
			result.MessageID = *out.MessageId
		}
		n.logger.Printf("Sent SNS notification with %d %s.", len(lines), describe(kind))
	}

	auditResult := audit.ResultSuccess
	if err != nil {
		auditResult = audit.ResultFailed
	}
	n.audit.LogOperationWithData(audit.OperationNotify, auditResult, map[string]interface{}{
		"kind":       string(kind),
		"subject":    subject,
		"lines":      len(lines),
		"message_id": result.MessageID,
	}, err)

	if n.metrics != nil {
		n.metrics.Notification(string(kind), err)
	}

	return result
}

func describe(kind Kind) string {
	if kind == KindFailure {
		return "failed instances"
	}
	return "successfully stopped instances"
}
