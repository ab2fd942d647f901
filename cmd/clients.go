package cmd

import (
	"context"
	"fmt"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/scttfrdmn/labstop/pkg/aws"
	"github.com/scttfrdmn/labstop/pkg/config"
	"github.com/scttfrdmn/labstop/pkg/notify"
	"github.com/scttfrdmn/labstop/pkg/observability"
	"github.com/scttfrdmn/labstop/pkg/observability/tracing"
)

// clients are the AWS collaborators of a CLI run
type clients struct {
	ec2    *aws.Client
	sns    notify.SNSAPI
	tracer *tracing.Tracer
}

// newClients is replaced in tests
var newClients = func(ctx context.Context, cfg *config.Config, obs observability.Config) (*clients, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	if obs.Tracing.Enabled {
		tracing.InstrumentAWSConfig(&awsCfg)
	}

	tracer, err := tracing.NewTracer(ctx, obs.Tracing, awsCfg, "labstop", Version)
	if err != nil {
		return nil, err
	}

	return &clients{
		ec2:    aws.NewClientFromConfig(awsCfg, aws.WithTag(cfg.TagKey, cfg.TagValue)),
		sns:    sns.NewFromConfig(awsCfg),
		tracer: tracer,
	}, nil
}
