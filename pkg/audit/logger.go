package audit

import (
	"encoding/json"
	"io"
	"sync"
	"time"
)

const (
	OperationStopInstance = "stop_instance"
	OperationNotify       = "notify"

	ResultSuccess = "success"
	ResultFailed  = "failed"
	ResultSkipped = "skipped"
)

// AuditLogger writes one JSON line per state-changing operation so a sweep
// can be reconstructed from CloudWatch Logs.
type AuditLogger struct {
	mu            sync.Mutex
	writer        io.Writer
	invokedBy     string
	correlationID string
	now           func() time.Time
}

// AuditEvent represents a single audit log entry.
type AuditEvent struct {
	Timestamp      time.Time              `json:"timestamp"`
	Level          string                 `json:"level"`
	Operation      string                 `json:"operation"`
	InvokedBy      string                 `json:"invoked_by,omitempty"`
	InstanceID     string                 `json:"instance_id,omitempty"`
	Region         string                 `json:"region,omitempty"`
	CorrelationID  string                 `json:"correlation_id,omitempty"`
	Result         string                 `json:"result"`
	Error          string                 `json:"error,omitempty"`
	AdditionalData map[string]interface{} `json:"additional_data,omitempty"`
}

// NewLogger creates a new audit logger.
func NewLogger(writer io.Writer, invokedBy, correlationID string) *AuditLogger {
	if writer == nil {
		writer = io.Discard
	}

	return &AuditLogger{
		writer:        writer,
		invokedBy:     invokedBy,
		correlationID: correlationID,
		now:           time.Now,
	}
}

// LogInstance logs an operation on one instance in region.
func (l *AuditLogger) LogInstance(operation, instanceID, region, result string, err error) {
	l.write(AuditEvent{
		Operation:  operation,
		InstanceID: instanceID,
		Region:     region,
		Result:     result,
	}, err)
}

// LogOperationWithData logs an event that is not tied to a single instance.
func (l *AuditLogger) LogOperationWithData(operation, result string, data map[string]interface{}, err error) {
	l.write(AuditEvent{
		Operation:      operation,
		Result:         result,
		AdditionalData: data,
	}, err)
}

func (l *AuditLogger) write(event AuditEvent, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	event.Timestamp = l.now().UTC()
	event.Level = "info"
	event.InvokedBy = l.invokedBy
	event.CorrelationID = l.correlationID
	if err != nil {
		event.Level = "error"
		event.Error = err.Error()
	}

	_ = json.NewEncoder(l.writer).Encode(event)
}

// CorrelationID returns the correlation ID stamped on every event.
func (l *AuditLogger) CorrelationID() string {
	return l.correlationID
}
