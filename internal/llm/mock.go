// internal/llm/mock.go
package llm

import (
	"context"
	"fmt"
	"sync"
)

// MockCall records one Chat invocation for assertions.
type MockCall struct {
	Messages []Message
	Opts     Options
}

// MockClient is a scripted test double. Each Chat call consumes the next
// queued response or error; when the script runs out the last entry repeats.
type MockClient struct {
	mu        sync.Mutex
	responses []*Response
	errors    []error
	calls     []MockCall
}

// NewMockClient scripts one response/error pair per expected call. Entries in
// errs may be nil; entries in responses are ignored when the matching error is
// non-nil.
func NewMockClient(responses []*Response, errs []error) *MockClient {
	return &MockClient{responses: responses, errors: errs}
}

// NewMockText is shorthand for a mock that always returns the given text.
func NewMockText(text string) *MockClient {
	return NewMockClient([]*Response{{Text: text, Usage: Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30}}}, []error{nil})
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) Chat(_ context.Context, messages []Message, opts Options) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx := len(m.calls)
	m.calls = append(m.calls, MockCall{Messages: messages, Opts: opts})

	ei := idx
	if ei >= len(m.errors) {
		ei = len(m.errors) - 1
	}
	if ei >= 0 && m.errors[ei] != nil {
		return nil, m.errors[ei]
	}

	ri := idx
	if ri >= len(m.responses) {
		ri = len(m.responses) - 1
	}
	if ri < 0 {
		return nil, fmt.Errorf("mock client has no scripted responses")
	}
	return m.responses[ri], nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
