package aws

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/scttfrdmn/labstop/pkg/aws/mock"
)

func newTestClient(m *mock.MockEC2Client, opts ...Option) *Client {
	opts = append(opts, WithEC2Factory(func(region string) EC2API {
		return m.ForRegion(region)
	}))
	return NewClientFromConfig(aws.Config{Region: "us-east-1"}, opts...)
}

// TestGetRegions tests fetching enabled AWS regions
func TestGetRegions(t *testing.T) {
	tests := []struct {
		name    string
		regions []string
		err     error
		want    []string
		wantErr bool
	}{
		{
			name:    "standard regions",
			regions: []string{"us-east-1", "us-west-2", "eu-west-1"},
			want:    []string{"us-east-1", "us-west-2", "eu-west-1"},
		},
		{
			name:    "provider order is kept",
			regions: []string{"eu-west-1", "ap-south-1", "us-east-1"},
			want:    []string{"eu-west-1", "ap-south-1", "us-east-1"},
		},
		{
			name:    "empty regions",
			regions: []string{},
			want:    []string{},
		},
		{
			name:    "describe regions fails",
			err:     errors.New("UnauthorizedOperation"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mock.NewMockEC2Client()
			m.SetRegions(tt.regions...)
			m.DescribeRegionsErr = tt.err

			got, err := newTestClient(m).GetRegions(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetRegions() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d regions, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("region[%d] = %s, want %s", i, got[i], tt.want[i])
				}
			}
			if m.DescribeRegionsCalls != 1 {
				t.Errorf("DescribeRegions called %d times, want 1", m.DescribeRegionsCalls)
			}
			if m.DescribeRegionsScopes[0] != "" {
				t.Errorf("DescribeRegions used region %q, want default client", m.DescribeRegionsScopes[0])
			}
		})
	}
}

func TestLabFilters(t *testing.T) {
	tests := []struct {
		name      string
		opts      []Option
		wantName  string
		wantValue string
	}{
		{"defaults", nil, "tag:Type", "Lab"},
		{"custom tag", []Option{WithTag("Environment", "Sandbox")}, "tag:Environment", "Sandbox"},
		{"empty override keeps defaults", []Option{WithTag("", "")}, "tag:Type", "Lab"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(mock.NewMockEC2Client(), tt.opts...)
			filters := c.LabFilters()
			if len(filters) != 2 {
				t.Fatalf("got %d filters, want 2", len(filters))
			}
			if *filters[0].Name != tt.wantName || filters[0].Values[0] != tt.wantValue {
				t.Errorf("tag filter = %s=%v, want %s=%s", *filters[0].Name, filters[0].Values, tt.wantName, tt.wantValue)
			}
			if *filters[1].Name != "instance-state-name" || filters[1].Values[0] != "running" {
				t.Errorf("state filter = %s=%v, want instance-state-name=running", *filters[1].Name, filters[1].Values)
			}
		})
	}
}

func TestListLabInstances(t *testing.T) {
	m := mock.NewMockEC2Client()
	m.AddLabInstance("us-east-1", "i-1")
	m.AddLabInstance("us-east-1", "i-2")
	m.AddInstance("us-east-1", "i-stopped", types.InstanceStateNameStopped, map[string]string{"Type": "Lab"})
	m.AddInstance("us-east-1", "i-prod", types.InstanceStateNameRunning, map[string]string{"Type": "Prod"})
	m.AddInstance("us-east-1", "i-named", types.InstanceStateNameRunning, map[string]string{"Type": "Lab", "Name": "scratch"})
	m.AddLabInstance("us-west-2", "i-3")

	c := newTestClient(m)
	instances, err := c.ListLabInstances(context.Background(), "us-east-1")
	if err != nil {
		t.Fatalf("ListLabInstances() error = %v", err)
	}

	ids := InstanceIDs(instances)
	want := []string{"i-1", "i-2", "i-named"}
	if len(ids) != len(want) {
		t.Fatalf("got instances %v, want %v", ids, want)
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("instance[%d] = %s, want %s", i, ids[i], want[i])
		}
	}
	for _, inst := range instances {
		if inst.Region != "us-east-1" {
			t.Errorf("instance %s region = %s, want us-east-1", inst.ID, inst.Region)
		}
	}
	if instances[2].Name != "scratch" {
		t.Errorf("Name = %q, want scratch", instances[2].Name)
	}
	if got := m.DescribeInstancesRegions; len(got) != 1 || got[0] != "us-east-1" {
		t.Errorf("DescribeInstances regions = %v, want [us-east-1]", got)
	}
}

func TestListLabInstancesError(t *testing.T) {
	m := mock.NewMockEC2Client()
	m.DescribeInstancesErr["ap-east-1"] = errors.New("AuthFailure")

	_, err := newTestClient(m).ListLabInstances(context.Background(), "ap-east-1")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !errors.Is(err, m.DescribeInstancesErr["ap-east-1"]) {
		t.Errorf("error %v does not wrap the provider error", err)
	}
}

func TestStopInstances(t *testing.T) {
	t.Run("stops all in one call", func(t *testing.T) {
		m := mock.NewMockEC2Client()
		m.AddLabInstance("us-east-1", "i-1")
		m.AddLabInstance("us-east-1", "i-2")

		if err := newTestClient(m).StopInstances(context.Background(), "us-east-1", []string{"i-1", "i-2"}); err != nil {
			t.Fatalf("StopInstances() error = %v", err)
		}
		calls := m.StopCallsIn("us-east-1")
		if len(calls) != 1 || len(calls[0].InstanceIDs) != 2 {
			t.Fatalf("stop calls = %+v, want one call with 2 IDs", calls)
		}
		if s := m.State("us-east-1", "i-1"); s != types.InstanceStateNameStopping {
			t.Errorf("i-1 state = %s, want stopping", s)
		}
	})

	t.Run("empty list is never submitted", func(t *testing.T) {
		m := mock.NewMockEC2Client()
		if err := newTestClient(m).StopInstances(context.Background(), "us-east-1", nil); err != nil {
			t.Fatalf("StopInstances() error = %v", err)
		}
		if len(m.StopInstancesCalls) != 0 {
			t.Errorf("StopInstances called %d times, want 0", len(m.StopInstancesCalls))
		}
	})

	t.Run("provider error", func(t *testing.T) {
		m := mock.NewMockEC2Client()
		m.StopInstancesErr["us-west-2"] = errors.New("IncorrectInstanceState")
		err := newTestClient(m).StopInstances(context.Background(), "us-west-2", []string{"i-3"})
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})
}
