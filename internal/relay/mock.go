package relay

import "sync"

// MockPublisher is a mock implementation of Publisher for testing.
// It is safe for concurrent use.
type MockPublisher struct {
	mu sync.Mutex

	SendMessageFunc func(topic string, data any) error

	SendMessageCalls []SendMessageCall
}

// SendMessageCall holds the arguments for a call to SendMessage.
type SendMessageCall struct {
	Topic string
	Data  any
}

// NewMockPublisher creates a new mock Publisher.
func NewMockPublisher() *MockPublisher {
	return &MockPublisher{}
}

func (m *MockPublisher) SendMessage(topic string, data any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendMessageCalls = append(m.SendMessageCalls, SendMessageCall{Topic: topic, Data: data})
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(topic, data)
	}
	return nil
}

func (m *MockPublisher) Close() {}

// Calls returns a copy of the recorded SendMessage calls.
func (m *MockPublisher) Calls() []SendMessageCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendMessageCall(nil), m.SendMessageCalls...)
}
