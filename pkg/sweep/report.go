package sweep

import (
	"fmt"

	"github.com/scttfrdmn/labstop/pkg/aws"
)

// Outcome is what happened in one region
type Outcome int

const (
	// OutcomeQueryFailed: listing instances failed, the region was skipped
	OutcomeQueryFailed Outcome = iota
	// OutcomeNoInstances: nothing matched, no stop call was made
	OutcomeNoInstances
	// OutcomeStopped: the stop call succeeded for every listed instance
	OutcomeStopped
	// OutcomeStopFailed: the stop call failed for every listed instance
	OutcomeStopFailed
	// OutcomeDryRun: instances matched but no stop call was made
	OutcomeDryRun
)

func (o Outcome) String() string {
	switch o {
	case OutcomeQueryFailed:
		return "query_failed"
	case OutcomeNoInstances:
		return "no_instances"
	case OutcomeStopped:
		return "stopped"
	case OutcomeStopFailed:
		return "stop_failed"
	case OutcomeDryRun:
		return "dry_run"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// MarshalText renders the outcome by name in JSON reports
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Record pairs an instance with the region it was found in
type Record struct {
	InstanceID string `json:"instance_id"`
	Region     string `json:"region"`
}

// StoppedMessage is the notification line for a stopped instance
func (r Record) StoppedMessage() string {
	return fmt.Sprintf("Successfully stopped EC2 instance %s in region %s", r.InstanceID, r.Region)
}

// FailedMessage is the notification line for an instance that failed to stop
func (r Record) FailedMessage() string {
	return fmt.Sprintf("Failed to stop EC2 instance %s in region %s", r.InstanceID, r.Region)
}

// RegionResult is the outcome of visiting one region
type RegionResult struct {
	Region    string         `json:"region"`
	Outcome   Outcome        `json:"outcome"`
	Instances []aws.Instance `json:"instances,omitempty"`
	Err       error          `json:"-"`
	Error     string         `json:"error,omitempty"`
}

// Report is everything one sweep did, in visiting order
type Report struct {
	Regions []RegionResult `json:"regions"`
	Stopped []Record       `json:"stopped"`
	Failed  []Record       `json:"failed"`
	DryRun  bool           `json:"dry_run,omitempty"`
}

// StoppedMessages returns one line per stopped instance
func (r *Report) StoppedMessages() []string {
	lines := make([]string, 0, len(r.Stopped))
	for _, rec := range r.Stopped {
		lines = append(lines, rec.StoppedMessage())
	}
	return lines
}

// FailedMessages returns one line per instance that failed to stop
func (r *Report) FailedMessages() []string {
	lines := make([]string, 0, len(r.Failed))
	for _, rec := range r.Failed {
		lines = append(lines, rec.FailedMessage())
	}
	return lines
}

// Empty reports whether nothing was stopped and nothing failed
func (r *Report) Empty() bool {
	return len(r.Stopped) == 0 && len(r.Failed) == 0
}

// Matched returns every instance the tag filter selected
func (r *Report) Matched() []aws.Instance {
	var all []aws.Instance
	for _, rr := range r.Regions {
		all = append(all, rr.Instances...)
	}
	return all
}

func (r *Report) add(result RegionResult) {
	if result.Err != nil {
		result.Error = result.Err.Error()
	}

	switch result.Outcome {
	case OutcomeStopped:
		for _, inst := range result.Instances {
			r.Stopped = append(r.Stopped, Record{InstanceID: inst.ID, Region: result.Region})
		}
	case OutcomeStopFailed:
		for _, inst := range result.Instances {
			r.Failed = append(r.Failed, Record{InstanceID: inst.ID, Region: result.Region})
		}
	}

	r.Regions = append(r.Regions, result)
}
