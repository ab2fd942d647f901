package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// PublishCall records one Publish invocation
type PublishCall struct {
	TopicArn string
	Subject  string
	Message  string
}

// MockSNSClient provides a mock implementation of SNS Publish for testing
type MockSNSClient struct {
	mu sync.Mutex

	// PublishErr is returned for every call when set. PublishErrBySubject
	// takes precedence for matching subjects.
	PublishErr          error
	PublishErrBySubject map[string]error

	// Call tracking
	PublishCalls []PublishCall
}

// NewMockSNSClient creates a new mock SNS client
func NewMockSNSClient() *MockSNSClient {
	return &MockSNSClient{
		PublishErrBySubject: make(map[string]error),
	}
}

func (m *MockSNSClient) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	call := PublishCall{
		TopicArn: deref(params.TopicArn),
		Subject:  deref(params.Subject),
		Message:  deref(params.Message),
	}
	m.PublishCalls = append(m.PublishCalls, call)

	if err, ok := m.PublishErrBySubject[call.Subject]; ok && err != nil {
		return nil, err
	}
	if m.PublishErr != nil {
		return nil, m.PublishErr
	}

	return &sns.PublishOutput{
		MessageId: strPtr(fmt.Sprintf("msg-%d", len(m.PublishCalls))),
	}, nil
}

// Calls returns a copy of the recorded Publish calls
func (m *MockSNSClient) Calls() []PublishCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishCall(nil), m.PublishCalls...)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
