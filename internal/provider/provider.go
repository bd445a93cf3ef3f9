// Package provider adapts the upstream chat-completion services behind one
// Client interface. Mode selection (direct OpenAI vs Azure managed endpoint)
// happens once at startup in Resolve; nothing outside this package branches
// on provider configuration.
package provider

import (
	"context"
	"fmt"

	"github.com/soyeahso/advisor/internal/domain"
)

// Fixed sampling parameters sent on every completion request. These are not
// user-configurable per request.
const (
	Temperature = 0.7
	MaxTokens   = 1500
)

// Client is the uniform completion operation the gateway depends on.
type Client interface {
	// Complete sends the system prompt plus conversation history upstream
	// and returns the assistant reply text.
	Complete(ctx context.Context, system string, history []domain.Message) (string, error)

	// Name returns the human-readable provider name.
	Name() string
}

// UpstreamError is returned for any transport, authentication, or non-2xx
// failure from the completion provider. Status is 0 for transport errors
// that never produced an HTTP response.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("upstream: %d %s", e.Status, e.Message)
	}
	return fmt.Sprintf("upstream: %s", e.Message)
}

// Wire types shared by both modes. The managed-endpoint mode omits Model:
// the deployment path segment already selects the model upstream.

type chatRequest struct {
	Model       string        `json:"model,omitempty"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message wireMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// buildMessages prepends the synthetic system message to the history.
func buildMessages(system string, history []domain.Message) []wireMessage {
	msgs := make([]wireMessage, 0, len(history)+1)
	msgs = append(msgs, wireMessage{Role: domain.RoleSystem, Content: system})
	for _, m := range history {
		msgs = append(msgs, wireMessage{Role: m.Role, Content: m.Content})
	}
	return msgs
}
