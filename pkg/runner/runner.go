// Package runner wires configuration, the sweep and notification into one
// invocation shared by the Lambda handler and the CLI.
package runner

import (
	"context"
	"io"
	"log"
	"os"

	"github.com/scttfrdmn/labstop/pkg/audit"
	"github.com/scttfrdmn/labstop/pkg/config"
	"github.com/scttfrdmn/labstop/pkg/notify"
	"github.com/scttfrdmn/labstop/pkg/observability"
	"github.com/scttfrdmn/labstop/pkg/observability/metrics"
	"github.com/scttfrdmn/labstop/pkg/observability/tracing"
	"github.com/scttfrdmn/labstop/pkg/sweep"
)

// Runner holds the collaborators of one invocation
type Runner struct {
	API    sweep.InstanceAPI
	SNS    notify.SNSAPI
	Config *config.Config
	Obs    observability.Config
	Tracer *tracing.Tracer
	DryRun bool

	// AuditOut receives JSON audit events (stdout when nil)
	AuditOut io.Writer
	Logger   *log.Logger
}

// Result is what one invocation did
type Result struct {
	Report        *sweep.Report
	Notifications []notify.Result
	// RegionsErr is set when the region list could not be fetched
	RegionsErr error
}

// Run performs the sweep and sends notifications. It never fails: every
// error is logged and carried in the Result.
func (r *Runner) Run(ctx context.Context) *Result {
	logger := r.Logger
	if logger == nil {
		logger = log.Default()
	}
	auditOut := r.AuditOut
	if auditOut == nil {
		auditOut = os.Stdout
	}

	auditLog := audit.NewLoggerFromContext(ctx, auditOut)
	ctx = audit.SetLoggerInContext(ctx, auditLog)

	reg := metrics.NewRegistry()
	sm, err := metrics.NewSweepMetrics(reg)
	if err != nil {
		logger.Printf("Warning: metrics disabled: %v", err)
		sm = nil
	}

	sweeper := sweep.New(r.API, sweep.Options{
		Regions: r.Config.Regions,
		DryRun:  r.DryRun,
		Audit:   auditLog,
		Metrics: sm,
		Tracer:  r.Tracer,
		Logger:  logger,
	})

	report, err := sweeper.Run(ctx)
	result := &Result{Report: report, RegionsErr: err}
	if err != nil {
		logger.Printf("Error listing regions: %v", err)
	}

	if r.DryRun {
		logger.Printf("Dry run: %d matching instances, no notification sent.", len(report.Matched()))
	} else {
		notifier := notify.New(r.SNS, r.Config.TopicArn,
			notify.WithAudit(auditLog),
			notify.WithMetrics(sm),
			notify.WithLogger(logger),
		)
		result.Notifications = notifier.Send(ctx, report)
	}

	if path := r.Obs.Metrics.TextfilePath; path != "" && sm != nil {
		if err := reg.WriteTextfile(path); err != nil {
			logger.Printf("Warning: failed to write metrics to %s: %v", path, err)
		}
	}

	return result
}
