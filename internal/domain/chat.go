package domain

import "time"

// ChatRequest is the body of POST /chat
type ChatRequest struct {
	Message        string   `json:"message" validate:"required"`
	ConversationID string   `json:"conversation_id" validate:"required"`
	Context        []string `json:"context,omitempty"`
}

// ChatResponse is the body returned by POST /chat
type ChatResponse struct {
	Response       string `json:"response" validate:"required"`
	ConversationID string `json:"conversation_id"`
}

// NewChatResponse is the body returned by POST /new-chat
type NewChatResponse struct {
	ConversationID string `json:"conversation_id" validate:"required"`
}

// RemoteConversation is one entry of GET /conversations
type RemoteConversation struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
