package domain

import (
	"time"
	"unicode/utf8"
)

const (
	// DefaultConversationTitle is shown until the first user message arrives
	DefaultConversationTitle = "New Chat"

	titleMaxRunes = 30
	titleEllipsis = "..."
)

// Conversation is an ordered thread of messages
type Conversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy so callers never share the message slice
func (c Conversation) Clone() Conversation {
	out := c
	if c.Messages != nil {
		out.Messages = make([]Message, len(c.Messages))
		copy(out.Messages, c.Messages)
	}
	return out
}

// LastMessage returns the most recent message, if any
func (c Conversation) LastMessage() (Message, bool) {
	if len(c.Messages) == 0 {
		return Message{}, false
	}
	return c.Messages[len(c.Messages)-1], true
}

// TitleFromContent derives a conversation title from the first user message.
// Content longer than 30 characters is cut and marked with an ellipsis.
func TitleFromContent(content string) string {
	if utf8.RuneCountInString(content) <= titleMaxRunes {
		return content
	}
	runes := []rune(content)
	return string(runes[:titleMaxRunes]) + titleEllipsis
}
