package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

const (
	DefaultTagKey   = "Type"
	DefaultTagValue = "Lab"
)

// EC2API is the subset of the EC2 API used by the sweep
type EC2API interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error)
}

// EC2Factory returns an EC2 client scoped to region. An empty region means
// the default region from the loaded configuration.
type EC2Factory func(region string) EC2API

type Client struct {
	cfg      aws.Config
	newEC2   EC2Factory
	tagKey   string
	tagValue string
}

// Instance is a running instance matched by the tag filter
type Instance struct {
	ID           string `json:"instance_id"`
	Name         string `json:"name,omitempty"`
	InstanceType string `json:"instance_type,omitempty"`
	Region       string `json:"region"`
}

// Option configures a Client
type Option func(*Client)

// WithTag overrides the tag key and value used to select lab instances
func WithTag(key, value string) Option {
	return func(c *Client) {
		if key != "" {
			c.tagKey = key
		}
		if value != "" {
			c.tagValue = value
		}
	}
}

// WithEC2Factory replaces the regional EC2 client constructor (used by tests)
func WithEC2Factory(f EC2Factory) Option {
	return func(c *Client) {
		c.newEC2 = f
	}
}

func NewClient(ctx context.Context, opts ...Option) (*Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewClientFromConfig(cfg, opts...), nil
}

// NewClientFromConfig builds a Client from an already loaded AWS config
func NewClientFromConfig(cfg aws.Config, opts ...Option) *Client {
	c := &Client{
		cfg:      cfg,
		tagKey:   DefaultTagKey,
		tagValue: DefaultTagValue,
	}
	c.newEC2 = c.regionalEC2

	for _, opt := range opts {
		opt(c)
	}

	return c
}

func (c *Client) regionalEC2(region string) EC2API {
	if region == "" {
		return ec2.NewFromConfig(c.cfg)
	}
	cfg := c.cfg.Copy()
	cfg.Region = region
	return ec2.NewFromConfig(cfg)
}

// Config returns the underlying AWS config
func (c *Client) Config() aws.Config {
	return c.cfg
}

// Tag returns the tag key and value used to select instances
func (c *Client) Tag() (string, string) {
	return c.tagKey, c.tagValue
}

// GetRegions returns the regions enabled for this account, in the order
// DescribeRegions returns them. The call uses the default region.
func (c *Client) GetRegions(ctx context.Context) ([]string, error) {
	result, err := c.newEC2("").DescribeRegions(ctx, &ec2.DescribeRegionsInput{})
	if err != nil {
		return nil, fmt.Errorf("failed to describe regions: %w", err)
	}

	regions := make([]string, 0, len(result.Regions))
	for _, region := range result.Regions {
		if region.RegionName != nil {
			regions = append(regions, *region.RegionName)
		}
	}

	return regions, nil
}

// LabFilters returns the DescribeInstances filters selecting running
// instances carrying the lab tag
func (c *Client) LabFilters() []types.Filter {
	return []types.Filter{
		{
			Name:   aws.String("tag:" + c.tagKey),
			Values: []string{c.tagValue},
		},
		{
			Name:   aws.String("instance-state-name"),
			Values: []string{string(types.InstanceStateNameRunning)},
		},
	}
}

// ListLabInstances returns running lab instances in region. A single
// DescribeInstances call is made; results are not paginated.
func (c *Client) ListLabInstances(ctx context.Context, region string) ([]Instance, error) {
	result, err := c.newEC2(region).DescribeInstances(ctx, &ec2.DescribeInstancesInput{
		Filters: c.LabFilters(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to describe instances: %w", err)
	}

	var instances []Instance
	for _, reservation := range result.Reservations {
		for _, instance := range reservation.Instances {
			if instance.InstanceId == nil {
				continue
			}
			instances = append(instances, Instance{
				ID:           *instance.InstanceId,
				Name:         tagValue(instance.Tags, "Name"),
				InstanceType: string(instance.InstanceType),
				Region:       region,
			})
		}
	}

	return instances, nil
}

// StopInstances stops all instanceIDs in region with one StopInstances call.
// The call succeeds or fails as a whole.
func (c *Client) StopInstances(ctx context.Context, region string, instanceIDs []string) error {
	if len(instanceIDs) == 0 {
		return nil
	}

	_, err := c.newEC2(region).StopInstances(ctx, &ec2.StopInstancesInput{
		InstanceIds: instanceIDs,
	})
	if err != nil {
		return fmt.Errorf("failed to stop instances: %w", err)
	}

	return nil
}

// InstanceIDs flattens instances into their identifiers, keeping order
func InstanceIDs(instances []Instance) []string {
	ids := make([]string, 0, len(instances))
	for _, inst := range instances {
		ids = append(ids, inst.ID)
	}
	return ids
}

func tagValue(tags []types.Tag, key string) string {
	for _, tag := range tags {
		if tag.Key != nil && *tag.Key == key && tag.Value != nil {
			return *tag.Value
		}
	}
	return ""
}
