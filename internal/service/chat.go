package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/Rrens/academic-chat/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	// SendErrorMessage is the diagnostic shown while the status is StateError after a failed send
	SendErrorMessage = "Failed to send message. Check the connection to the backend."

	// NewChatErrorMessage is the diagnostic shown when a remote conversation cannot be created
	NewChatErrorMessage = "Failed to create a new conversation."
)

// ConversationStore is the state the chat service mutates
type ConversationStore interface {
	Create() string
	CreateWithID(id string) string
	Select(id string) error
	Delete(id string)
	Append(conversationID string, msg domain.Message) error
	Restore(c domain.Conversation) bool
	Active() (domain.Conversation, bool)
	ActiveID() (string, bool)
	List() []domain.Conversation
}

// ChatClient is the subset of the backend used by the chat service
type ChatClient interface {
	SendChatMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error)
	CreateNewChat(ctx context.Context) (*domain.NewChatResponse, error)
	GetConversations(ctx context.Context) ([]domain.RemoteConversation, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}

// ChatOptions tunes the chat service
type ChatOptions struct {
	// BaseURL is quoted in the fallback message shown when the backend is down
	BaseURL string
	// RemoteSessions takes conversation ids from the backend and mirrors deletes
	RemoteSessions bool
	// ContextSource returns document ids attached to every chat request
	ContextSource func() []string
	// Now overrides the message clock
	Now func() time.Time
}

// ChatService coordinates sending messages between the store and the backend
type ChatService struct {
	store         ConversationStore
	client        ChatClient
	baseURL       string
	remote        bool
	contextSource func() []string
	now           func() time.Time

	mu     sync.RWMutex
	status domain.RequestStatus
}

// NewChatService creates a new chat service
func NewChatService(store ConversationStore, client ChatClient, opts ChatOptions) *ChatService {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &ChatService{
		store:         store,
		client:        client,
		baseURL:       opts.BaseURL,
		remote:        opts.RemoteSessions,
		contextSource: opts.ContextSource,
		now:           now,
		status:        domain.Idle(),
	}
}

// Status returns the current request status
func (s *ChatService) Status() domain.RequestStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

func (s *ChatService) setStatus(status domain.RequestStatus) {
	s.mu.Lock()
	s.status = status
	s.mu.Unlock()
}

// Conversations returns all conversations, newest first
func (s *ChatService) Conversations() []domain.Conversation {
	return s.store.List()
}

// ActiveConversation returns the conversation new messages go to
func (s *ChatService) ActiveConversation() (domain.Conversation, bool) {
	return s.store.Active()
}

// StartNewChat creates a conversation and makes it active
func (s *ChatService) StartNewChat(ctx context.Context) (string, error) {
	if !s.remote {
		id := s.store.Create()
		s.clearError()
		log.Debug().Str("conversation_id", id).Msg("conversation created")
		return id, nil
	}

	resp, err := s.client.CreateNewChat(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to create remote conversation")
		s.setStatus(domain.Failed(NewChatErrorMessage))
		return "", fmt.Errorf("failed to create conversation: %w", err)
	}

	id := s.store.CreateWithID(resp.ConversationID)
	s.clearError()
	log.Debug().Str("conversation_id", id).Msg("remote conversation created")
	return id, nil
}

// SyncConversations pulls the backend's conversation list into the store.
// Only titles and timestamps are known remotely; threads start empty.
func (s *ChatService) SyncConversations(ctx context.Context) (int, error) {
	if !s.remote {
		return 0, nil
	}

	remote, err := s.client.GetConversations(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list remote conversations")
		return 0, fmt.Errorf("failed to list conversations: %w", err)
	}

	added := 0
	for _, rc := range remote {
		if s.store.Restore(domain.Conversation{
			ID:        rc.ID,
			Title:     rc.Title,
			CreatedAt: rc.CreatedAt,
			UpdatedAt: rc.UpdatedAt,
		}) {
			added++
		}
	}
	log.Info().Int("remote", len(remote)).Int("added", added).Msg("conversations synced")
	return added, nil
}

// SelectConversation activates a conversation and clears a previous error
func (s *ChatService) SelectConversation(id string) error {
	if err := s.store.Select(id); err != nil {
		log.Warn().Err(err).Str("conversation_id", id).Msg("select ignored")
		return err
	}
	s.clearError()
	return nil
}

// DeleteConversation removes a conversation locally and, with remote sessions, on the backend
func (s *ChatService) DeleteConversation(ctx context.Context, id string) {
	s.store.Delete(id)

	if !s.remote {
		return
	}
	if err := s.client.DeleteConversation(ctx, id); err != nil {
		log.Warn().Err(err).Str("conversation_id", id).Msg("failed to delete remote conversation")
	}
}

// clearError resets an error status; a loading status is left alone
func (s *ChatService) clearError() {
	s.mu.Lock()
	if s.status.State() == domain.StateError {
		s.status = domain.Idle()
	}
	s.mu.Unlock()
}

// SendMessage appends the user's text to the active conversation, asks the
// backend for a reply and appends it. Backend failures never reach the
// caller: they set the error status and append a fallback assistant message,
// so every user message is followed by exactly one reply.
//
// With remote sessions and no active conversation, a failed /new-chat aborts
// the send before anything is stored: the text is dropped and the status is
// set to error with NewChatErrorMessage.
func (s *ChatService) SendMessage(ctx context.Context, text string) {
	content := strings.TrimSpace(text)
	if content == "" {
		return
	}

	conversationID, ok := s.store.ActiveID()
	if !ok {
		id, err := s.StartNewChat(ctx)
		if err != nil {
			return
		}
		conversationID = id
	}

	userMsg := domain.NewMessage(domain.RoleUser, content, s.now())
	if err := s.store.Append(conversationID, userMsg); err != nil {
		log.Error().Err(err).Str("conversation_id", conversationID).Msg("failed to append user message")
		return
	}

	s.setStatus(domain.Loading())

	req := domain.ChatRequest{
		Message:        text,
		ConversationID: conversationID,
	}
	if s.contextSource != nil {
		req.Context = s.contextSource()
	}

	start := s.now()
	resp, err := s.client.SendChatMessage(ctx, req)
	if err != nil {
		log.Error().
			Err(err).
			Str("conversation_id", conversationID).
			Bool("remote_unavailable", errors.Is(err, domain.ErrRemoteUnavailable)).
			Msg("failed to send message")

		s.setStatus(domain.Failed(SendErrorMessage))
		s.appendReply(conversationID, s.fallbackMessage())
		return
	}

	log.Debug().
		Str("conversation_id", conversationID).
		Dur("latency", s.now().Sub(start)).
		Int("reply_length", len(resp.Response)).
		Msg("reply received")

	s.appendReply(conversationID, resp.Response)
	s.setStatus(domain.Idle())
}

// appendReply targets the conversation captured at send time, which may no
// longer be active or may have been deleted in the meantime
func (s *ChatService) appendReply(conversationID, content string) {
	msg := domain.NewMessage(domain.RoleAssistant, content, s.now())
	if err := s.store.Append(conversationID, msg); err != nil {
		log.Warn().Err(err).Str("conversation_id", conversationID).Msg("reply dropped")
	}
}

func (s *ChatService) fallbackMessage() string {
	baseURL := s.baseURL
	if baseURL == "" {
		baseURL = "the configured address"
	}
	return fmt.Sprintf("⚠️ Could not connect to the backend. Make sure the server is running at `%s`.\n\n"+
		"**To try the interface**, the backend must expose these endpoints:\n\n"+
		"```\nPOST /chat\nPOST /upload-doc\nPOST /new-chat (optional)\n```", baseURL)
}
