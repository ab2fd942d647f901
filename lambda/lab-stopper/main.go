package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/scttfrdmn/labstop/pkg/aws"
	"github.com/scttfrdmn/labstop/pkg/config"
	"github.com/scttfrdmn/labstop/pkg/notify"
	"github.com/scttfrdmn/labstop/pkg/observability"
	"github.com/scttfrdmn/labstop/pkg/observability/tracing"
	"github.com/scttfrdmn/labstop/pkg/runner"
	"github.com/scttfrdmn/labstop/pkg/sweep"
)

const (
	serviceName = "lab-stopper"
	version     = "0.1.0"
)

var (
	ec2API    sweep.InstanceAPI
	snsClient notify.SNSAPI
	tracer    *tracing.Tracer
	obsConfig observability.Config
	cfg       *config.Config
)

// setup runs once per cold start
func setup(ctx context.Context) error {
	cfg = config.FromEnv()
	obsConfig = observability.FromEnv()

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return err
	}

	// Tracing is optional: an unusable setting falls back to no tracing
	tracer, err = tracing.NewTracer(ctx, obsConfig.Tracing, awsCfg, serviceName, version)
	if err != nil {
		log.Printf("Warning: tracing disabled: %v", err)
		obsConfig.Tracing = observability.TracingConfig{}
		tracer, _ = tracing.NewTracer(ctx, obsConfig.Tracing, awsCfg, serviceName, version)
	}
	if obsConfig.Tracing.Enabled {
		tracing.InstrumentAWSConfig(&awsCfg)
	}

	ec2API = aws.NewClientFromConfig(awsCfg, aws.WithTag(cfg.TagKey, cfg.TagValue))
	snsClient = sns.NewFromConfig(awsCfg)

	log.Printf("Configuration: tag=%s=%s, notifications=%t", cfg.TagKey, cfg.TagValue, cfg.NotificationsEnabled())
	return nil
}

func handler(ctx context.Context, event events.CloudWatchEvent) error {
	log.Printf("Starting lab instance sweep (source=%s, id=%s)", event.Source, event.ID)

	r := &runner.Runner{
		API:    ec2API,
		SNS:    snsClient,
		Config: cfg,
		Obs:    obsConfig,
		Tracer: tracer,
	}
	result := r.Run(ctx)

	log.Printf("Sweep finished: %d regions, %d stopped, %d failed",
		len(result.Report.Regions), len(result.Report.Stopped), len(result.Report.Failed))

	return nil
}

func main() {
	if err := setup(context.Background()); err != nil {
		log.Fatalf("failed to initialize: %v", err)
	}
	lambda.Start(handler)
}
