// Package message defines the Message type used in LLM conversations.
package message

import (
	"fmt"

	"github.com/benswift/langchain/pkg/chats/role"
)

// Status marks how far along a message is. Providers set StatusComplete on
// replies that finished generating.
type Status string

const (
	StatusComplete   Status = "complete"
	StatusIncomplete Status = "incomplete"
)

// Message represents a single text message in a conversation.
// It is a value type that copies cheaply.
type Message struct {
	Role    role.Role
	Content string
	Status  Status
}

// New creates a message with the given role and text content.
func New(r role.Role, content string) Message {
	return Message{Role: r, Content: content}
}

// NewComplete creates a message marked StatusComplete.
func NewComplete(r role.Role, content string) Message {
	return Message{Role: r, Content: content, Status: StatusComplete}
}

// Validate checks that the message is structurally sound.
func (m Message) Validate() error {
	if !m.Role.Valid() {
		return fmt.Errorf("message: invalid role %q", m.Role)
	}
	if m.Status != "" && m.Status != StatusComplete && m.Status != StatusIncomplete {
		return fmt.Errorf("message: invalid status %q", m.Status)
	}
	return nil
}
