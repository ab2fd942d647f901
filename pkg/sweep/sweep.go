package sweep

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/scttfrdmn/labstop/pkg/audit"
	"github.com/scttfrdmn/labstop/pkg/aws"
	"github.com/scttfrdmn/labstop/pkg/observability/metrics"
	"github.com/scttfrdmn/labstop/pkg/observability/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// InstanceAPI is what the sweep needs from the cloud provider
type InstanceAPI interface {
	GetRegions(ctx context.Context) ([]string, error)
	ListLabInstances(ctx context.Context, region string) ([]aws.Instance, error)
	StopInstances(ctx context.Context, region string, instanceIDs []string) error
}

// Options configures a Sweeper. Zero values are usable.
type Options struct {
	// Regions restricts the sweep to these regions, in this order, instead
	// of asking the provider
	Regions []string
	// DryRun lists matching instances without stopping them
	DryRun bool

	Audit   *audit.AuditLogger
	Metrics *metrics.SweepMetrics
	Tracer  *tracing.Tracer
	Logger  *log.Logger
}

// Sweeper stops running lab instances region by region
type Sweeper struct {
	api  InstanceAPI
	opts Options
	now  func() time.Time
}

// New creates a Sweeper
func New(api InstanceAPI, opts Options) *Sweeper {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Audit == nil {
		opts.Audit = audit.NewLogger(nil, "", "")
	}
	return &Sweeper{api: api, opts: opts, now: time.Now}
}

// Run visits every region once, in provider order, and returns what
// happened. Only a failure to enumerate regions is returned as an error;
// per-region failures are recorded in the report and the sweep continues.
func (s *Sweeper) Run(ctx context.Context) (*Report, error) {
	start := s.now()
	report := &Report{
		Stopped: []Record{},
		Failed:  []Record{},
		DryRun:  s.opts.DryRun,
	}

	ctx, end := s.opts.Tracer.StartSpan(ctx, "labstop.sweep",
		attribute.Bool("labstop.dry_run", s.opts.DryRun))

	regions, err := s.regions(ctx)
	if err != nil {
		s.finished(start)
		end(err)
		return report, err
	}

	for _, region := range regions {
		report.add(s.sweepRegion(ctx, region))
	}

	s.finished(start)
	end(nil)

	return report, nil
}

// finished stamps the run time even when the run failed early, so a stale
// timestamp always means no run
func (s *Sweeper) finished(start time.Time) {
	if s.opts.Metrics != nil {
		s.opts.Metrics.Finished(start, s.now())
	}
}

func (s *Sweeper) regions(ctx context.Context) ([]string, error) {
	if len(s.opts.Regions) > 0 {
		return append([]string(nil), s.opts.Regions...), nil
	}

	regions, err := s.api.GetRegions(ctx)
	if err != nil {
		return nil, fmt.Errorf("list regions: %w", err)
	}
	return regions, nil
}

func (s *Sweeper) sweepRegion(ctx context.Context, region string) RegionResult {
	s.opts.Logger.Printf("Checking region: %s", region)
	if s.opts.Metrics != nil {
		s.opts.Metrics.RegionScanned()
	}

	ctx, end := s.opts.Tracer.StartSpan(ctx, "labstop.region", attribute.String("cloud.region", region))

	instances, err := s.api.ListLabInstances(ctx, region)
	if err != nil {
		s.opts.Logger.Printf("Error checking instances in %s: %v", region, err)
		if s.opts.Metrics != nil {
			s.opts.Metrics.RegionError(region)
		}
		end(err)
		return RegionResult{Region: region, Outcome: OutcomeQueryFailed, Err: err}
	}

	if len(instances) == 0 {
		end(nil)
		return RegionResult{Region: region, Outcome: OutcomeNoInstances}
	}

	ids := aws.InstanceIDs(instances)

	if s.opts.DryRun {
		s.opts.Logger.Printf("Dry run: would stop instances in %s: %s", region, formatIDs(ids))
		for _, id := range ids {
			s.opts.Audit.LogInstance(audit.OperationStopInstance, id, region, audit.ResultSkipped, nil)
		}
		end(nil)
		return RegionResult{Region: region, Outcome: OutcomeDryRun, Instances: instances}
	}

	if err := s.api.StopInstances(ctx, region, ids); err != nil {
		s.opts.Logger.Printf("Failed to stop instances in %s: %v", region, err)
		for _, id := range ids {
			s.opts.Audit.LogInstance(audit.OperationStopInstance, id, region, audit.ResultFailed, err)
		}
		if s.opts.Metrics != nil {
			s.opts.Metrics.Failed(region, len(ids))
		}
		end(err)
		return RegionResult{Region: region, Outcome: OutcomeStopFailed, Instances: instances, Err: err}
	}

	s.opts.Logger.Printf("Successfully stopped instances in %s: %s", region, formatIDs(ids))
	for _, id := range ids {
		s.opts.Audit.LogInstance(audit.OperationStopInstance, id, region, audit.ResultSuccess, nil)
	}
	if s.opts.Metrics != nil {
		s.opts.Metrics.Stopped(region, len(ids))
	}
	end(nil)

	return RegionResult{Region: region, Outcome: OutcomeStopped, Instances: instances}
}

// formatIDs renders instance IDs as ['i-1', 'i-2'], the form existing log
// filters match on
func formatIDs(ids []string) string {
	quoted := make([]string, 0, len(ids))
	for _, id := range ids {
		quoted = append(quoted, "'"+id+"'")
	}
	return "[" + strings.Join(quoted, ", ") + "]"
}
