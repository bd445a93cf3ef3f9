package provider

import (
	"context"
	"sync"

	"github.com/soyeahso/advisor/internal/domain"
)

// MockClient is a test double for Client. It records every call it receives.
type MockClient struct {
	ProviderName string
	CompleteFunc func(ctx context.Context, system string, history []domain.Message) (string, error)

	mu    sync.Mutex
	calls []MockCall
}

// MockCall captures the arguments of one Complete invocation.
type MockCall struct {
	System  string
	History []domain.Message
}

func (m *MockClient) Name() string {
	if m.ProviderName != "" {
		return m.ProviderName
	}
	return "mock"
}

func (m *MockClient) Complete(ctx context.Context, system string, history []domain.Message) (string, error) {
	m.mu.Lock()
	hist := make([]domain.Message, len(history))
	copy(hist, history)
	m.calls = append(m.calls, MockCall{System: system, History: hist})
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, system, history)
	}
	return "mock response", nil
}

// Calls returns a copy of the recorded invocations.
func (m *MockClient) Calls() []MockCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]MockCall, len(m.calls))
	copy(out, m.calls)
	return out
}
