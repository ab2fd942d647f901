package testutil

import (
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/scttfrdmn/labstop/pkg/aws"
	"github.com/scttfrdmn/labstop/pkg/aws/mock"
)

// TopicArn is a syntactically valid SNS topic for tests
const TopicArn = "arn:aws:sns:us-east-1:123456789012:lab-auto-stop"

// ErrSimulated is the stop failure injected by ExampleScenario
var ErrSimulated = errors.New("simulated provider error")

// NewClient returns an aws.Client whose regional EC2 clients are views of m
func NewClient(m *mock.MockEC2Client, opts ...aws.Option) *aws.Client {
	opts = append(opts, aws.WithEC2Factory(func(region string) aws.EC2API {
		return m.ForRegion(region)
	}))
	return aws.NewClientFromConfig(awssdk.Config{Region: "us-east-1"}, opts...)
}

// ExampleScenario returns two regions: us-east-1 with running lab instances
// i-1 and i-2, and us-west-2 with i-3 whose stop call fails
func ExampleScenario() *mock.MockEC2Client {
	m := mock.NewMockEC2Client()
	m.SetRegions("us-east-1", "us-west-2")
	m.AddLabInstance("us-east-1", "i-1")
	m.AddLabInstance("us-east-1", "i-2")
	m.AddLabInstance("us-west-2", "i-3")
	m.StopInstancesErr["us-west-2"] = ErrSimulated
	return m
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

// AssertContains checks that s contains every want
func AssertContains(t *testing.T, s string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(s, want) {
			t.Errorf("missing %q\nGot:\n%s", want, s)
		}
	}
}
