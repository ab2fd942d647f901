package mock

import (
	"context"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/ec2/types"
)

// StopCall records one StopInstances invocation
type StopCall struct {
	Region      string
	InstanceIDs []string
}

// MockEC2Client provides a multi-region mock of the EC2 operations used by
// the sweep. Use ForRegion to obtain a client bound to one region.
type MockEC2Client struct {
	mu sync.Mutex

	// Mock data storage
	Regions   []types.Region
	Instances map[string][]types.Instance // region -> instances

	// Errors to return for specific operations (for error testing)
	DescribeRegionsErr   error
	DescribeInstancesErr map[string]error // region -> error
	StopInstancesErr     map[string]error // region -> error

	// Call tracking
	DescribeRegionsCalls     int
	DescribeRegionsScopes    []string // region of the client each call used
	DescribeInstancesRegions []string
	StopInstancesCalls       []StopCall
}

// NewMockEC2Client creates a new mock EC2 client with default regions
func NewMockEC2Client() *MockEC2Client {
	return &MockEC2Client{
		Instances:            make(map[string][]types.Instance),
		DescribeInstancesErr: make(map[string]error),
		StopInstancesErr:     make(map[string]error),
		Regions: []types.Region{
			{RegionName: strPtr("us-east-1")},
			{RegionName: strPtr("us-west-2")},
			{RegionName: strPtr("eu-west-1")},
		},
	}
}

// SetRegions replaces the regions returned by DescribeRegions
func (m *MockEC2Client) SetRegions(names ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Regions = make([]types.Region, 0, len(names))
	for _, name := range names {
		m.Regions = append(m.Regions, types.Region{RegionName: strPtr(name)})
	}
}

// AddInstance registers an instance in region with the given state and tags
func (m *MockEC2Client) AddInstance(region, instanceID string, state types.InstanceStateName, tags map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inst := types.Instance{
		InstanceId:   strPtr(instanceID),
		InstanceType: types.InstanceTypeT3Micro,
		State:        &types.InstanceState{Name: state},
	}
	for k, v := range tags {
		inst.Tags = append(inst.Tags, types.Tag{Key: strPtr(k), Value: strPtr(v)})
	}

	m.Instances[region] = append(m.Instances[region], inst)
}

// AddLabInstance registers a running instance tagged Type=Lab
func (m *MockEC2Client) AddLabInstance(region, instanceID string) {
	m.AddInstance(region, instanceID, types.InstanceStateNameRunning, map[string]string{"Type": "Lab"})
}

// State returns the current state of an instance, or "" if unknown
func (m *MockEC2Client) State(region, instanceID string) types.InstanceStateName {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, inst := range m.Instances[region] {
		if *inst.InstanceId == instanceID {
			return inst.State.Name
		}
	}
	return ""
}

// StopCallsIn returns the StopInstances calls made against region
func (m *MockEC2Client) StopCallsIn(region string) []StopCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	var calls []StopCall
	for _, call := range m.StopInstancesCalls {
		if call.Region == region {
			calls = append(calls, call)
		}
	}
	return calls
}

// ForRegion returns a client bound to region. An empty region stands for
// the default-region client.
func (m *MockEC2Client) ForRegion(region string) *RegionalEC2Client {
	return &RegionalEC2Client{parent: m, region: region}
}

// RegionalEC2Client is a region-scoped view of MockEC2Client
type RegionalEC2Client struct {
	parent *MockEC2Client
	region string
}

func (r *RegionalEC2Client) DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	m := r.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DescribeRegionsCalls++
	m.DescribeRegionsScopes = append(m.DescribeRegionsScopes, r.region)

	if m.DescribeRegionsErr != nil {
		return nil, m.DescribeRegionsErr
	}

	return &ec2.DescribeRegionsOutput{
		Regions: append([]types.Region(nil), m.Regions...),
	}, nil
}

func (r *RegionalEC2Client) DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	m := r.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DescribeInstancesRegions = append(m.DescribeInstancesRegions, r.region)

	if err := m.DescribeInstancesErr[r.region]; err != nil {
		return nil, err
	}

	// One reservation per instance, like independent RunInstances calls
	var reservations []types.Reservation
	for _, inst := range m.Instances[r.region] {
		if matchesFilters(inst, params.Filters) {
			reservations = append(reservations, types.Reservation{
				Instances: []types.Instance{inst},
			})
		}
	}

	return &ec2.DescribeInstancesOutput{
		Reservations: reservations,
	}, nil
}

func (r *RegionalEC2Client) StopInstances(ctx context.Context, params *ec2.StopInstancesInput, optFns ...func(*ec2.Options)) (*ec2.StopInstancesOutput, error) {
	m := r.parent
	m.mu.Lock()
	defer m.mu.Unlock()
	m.StopInstancesCalls = append(m.StopInstancesCalls, StopCall{
		Region:      r.region,
		InstanceIDs: append([]string(nil), params.InstanceIds...),
	})

	if err := m.StopInstancesErr[r.region]; err != nil {
		return nil, err
	}

	var stateChanges []types.InstanceStateChange
	for _, id := range params.InstanceIds {
		for i := range m.Instances[r.region] {
			inst := &m.Instances[r.region][i]
			if *inst.InstanceId != id {
				continue
			}
			previous := inst.State
			inst.State = &types.InstanceState{Name: types.InstanceStateNameStopping}
			stateChanges = append(stateChanges, types.InstanceStateChange{
				InstanceId:    strPtr(id),
				CurrentState:  inst.State,
				PreviousState: previous,
			})
		}
	}

	return &ec2.StopInstancesOutput{
		StoppingInstances: stateChanges,
	}, nil
}

// matchesFilters supports the tag:<key> and instance-state-name filters
func matchesFilters(inst types.Instance, filters []types.Filter) bool {
	for _, f := range filters {
		if f.Name == nil {
			continue
		}
		name := *f.Name
		switch {
		case name == "instance-state-name":
			if inst.State == nil || !containsString(f.Values, string(inst.State.Name)) {
				return false
			}
		case strings.HasPrefix(name, "tag:"):
			key := strings.TrimPrefix(name, "tag:")
			found := false
			for _, tag := range inst.Tags {
				if tag.Key != nil && *tag.Key == key && tag.Value != nil && containsString(f.Values, *tag.Value) {
					found = true
					break
				}
			}
			if !found {
				return false
			}
		}
	}
	return true
}

func containsString(values []string, s string) bool {
	for _, v := range values {
		if v == s {
			return true
		}
	}
	return false
}

// Helper functions

func strPtr(s string) *string {
	return &s
}
