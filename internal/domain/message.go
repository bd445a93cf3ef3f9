// Package domain holds the core conversation types shared across the server.
package domain

// Role constants for conversation messages.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single turn in a conversation. Messages are immutable once
// appended to a session; their order defines the context sent upstream.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// User builds a user-role message.
func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// Assistant builds an assistant-role message.
func Assistant(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
