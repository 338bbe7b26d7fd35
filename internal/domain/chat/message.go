package chat

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Wire event names shared with the chat server.
const (
	EventMessage = "chat:message"
	EventTyping  = "chat:typing"
	EventError   = "chat:error"
)

// Metadata carries optional product-recommendation context attached to an
// assistant message.
type Metadata struct {
	Products  []int64 `json:"products,omitempty"`
	Intent    string  `json:"intent,omitempty"`
	Sentiment string  `json:"sentiment,omitempty"`
}

// Message is one chat message, either the user's own or the assistant's.
type Message struct {
	ID         string    `json:"id"`
	Content    string    `json:"content"`
	IsFromUser bool      `json:"isFromUser"`
	Timestamp  time.Time `json:"timestamp"`
	Metadata   *Metadata `json:"metadata,omitempty"`
}

// NewUserMessage builds a user-authored message with a fresh id. Returns
// false when the content is blank.
func NewUserMessage(content string) (Message, bool) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Message{}, false
	}
	return Message{
		ID:         uuid.NewString(),
		Content:    content,
		IsFromUser: true,
		Timestamp:  time.Now().UTC(),
	}, true
}

// HasRecommendations reports whether the message carries product ids.
func (m Message) HasRecommendations() bool {
	return m.Metadata != nil && len(m.Metadata.Products) > 0
}
