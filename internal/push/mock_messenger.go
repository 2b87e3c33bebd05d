package push

import (
	"context"
	"errors"
	"sync"

	"firebase.google.com/go/v4/messaging"
)

// MockMessenger is a hand-written, in-memory Messenger used in unit tests.
type MockMessenger struct {
	mu sync.Mutex

	// Multicasts records every SendEachForMulticast call in order.
	Multicasts []*messaging.MulticastMessage
	// Sent records every single-token Send call.
	Sent []*messaging.Message

	// FailBatchContaining makes a whole multicast call fail when its token
	// list contains the keyed token, simulating a provider outage for that
	// batch. Keyed by token because batches are sent concurrently and call
	// order is not deterministic.
	FailBatchContaining map[string]error
	// FailTokens makes individual tokens report failure in an otherwise
	// successful response.
	FailTokens map[string]error

	// SendErr, when set, fails every single-token Send.
	SendErr error

	calls int
}

func NewMockMessenger() *MockMessenger {
	return &MockMessenger{
		FailBatchContaining: make(map[string]error),
		FailTokens:          make(map[string]error),
	}
}

func (m *MockMessenger) SendEachForMulticast(_ context.Context, message *messaging.MulticastMessage) (*messaging.BatchResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.Multicasts = append(m.Multicasts, message)

	for _, token := range message.Tokens {
		if err, ok := m.FailBatchContaining[token]; ok {
			return nil, err
		}
	}

	resp := &messaging.BatchResponse{}
	for _, token := range message.Tokens {
		if err, ok := m.FailTokens[token]; ok {
			resp.FailureCount++
			resp.Responses = append(resp.Responses, &messaging.SendResponse{Success: false, Error: err})
			continue
		}
		resp.SuccessCount++
		resp.Responses = append(resp.Responses, &messaging.SendResponse{Success: true, MessageID: "msg-" + token})
	}
	return resp, nil
}

func (m *MockMessenger) Send(_ context.Context, message *messaging.Message) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.SendErr != nil {
		return "", m.SendErr
	}
	if message.Token == "" {
		return "", errors.New("message must contain a token")
	}
	m.Sent = append(m.Sent, message)
	return "msg-" + message.Token, nil
}

// MulticastCalls returns how many multicast sends were issued.
func (m *MockMessenger) MulticastCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// compile-time check that MockMessenger implements Messenger
var _ Messenger = (*MockMessenger)(nil)
