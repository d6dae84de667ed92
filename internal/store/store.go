// Package store holds the in-memory conversation state of a chat session.
// It is the single source of truth rendered by the UI; state lives for the
// lifetime of the process and is never written to disk.
package store

import (
	"fmt"
	"sync"
	"time"

	"github.com/Rrens/academic-chat/internal/domain"
	"github.com/google/uuid"
)

// Store owns every conversation and the active pointer
type Store struct {
	mu            sync.RWMutex
	conversations map[string]*domain.Conversation
	order         []string // newest first
	activeID      string
	now           func() time.Time

	subMu       sync.Mutex
	subscribers []chan struct{}
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides the time source
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		conversations: make(map[string]*domain.Conversation),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create allocates a conversation with a local id and makes it active
func (s *Store) Create() string {
	return s.CreateWithID(uuid.NewString())
}

// CreateWithID allocates a conversation with an externally issued id and makes
// it active. An existing id is re-activated instead of duplicated.
func (s *Store) CreateWithID(id string) string {
	s.mu.Lock()
	if _, ok := s.conversations[id]; !ok {
		now := s.now()
		s.conversations[id] = &domain.Conversation{
			ID:        id,
			Title:     domain.DefaultConversationTitle,
			Messages:  []domain.Message{},
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.order = append([]string{id}, s.order...)
	}
	s.activeID = id
	s.mu.Unlock()

	s.notify()
	return id
}

// Restore inserts a conversation known from elsewhere, e.g. the backend's
// conversation list, without changing the active pointer. It is placed by
// CreatedAt so the list stays newest first. Existing ids are left untouched.
func (s *Store) Restore(c domain.Conversation) bool {
	s.mu.Lock()
	if _, ok := s.conversations[c.ID]; ok || c.ID == "" {
		s.mu.Unlock()
		return false
	}
	c = c.Clone()
	if c.Title == "" {
		c.Title = domain.DefaultConversationTitle
	}
	if c.Messages == nil {
		c.Messages = []domain.Message{}
	}
	s.conversations[c.ID] = &c

	pos := len(s.order)
	for i, id := range s.order {
		if s.conversations[id].CreatedAt.Before(c.CreatedAt) {
			pos = i
			break
		}
	}
	s.order = append(s.order, "")
	copy(s.order[pos+1:], s.order[pos:])
	s.order[pos] = c.ID
	s.mu.Unlock()

	s.notify()
	return true
}

// Select makes id the active conversation
func (s *Store) Select(id string) error {
	s.mu.Lock()
	if _, ok := s.conversations[id]; !ok {
		s.mu.Unlock()
		return fmt.Errorf("select %s: %w", id, domain.ErrNotFound)
	}
	changed := s.activeID != id
	s.activeID = id
	s.mu.Unlock()

	if changed {
		s.notify()
	}
	return nil
}

// Delete removes a conversation. Unknown ids are ignored.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	if _, ok := s.conversations[id]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.conversations, id)
	for i, cid := range s.order {
		if cid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.activeID == id {
		s.activeID = ""
	}
	s.mu.Unlock()

	s.notify()
}

// Append adds a message to a conversation and refreshes its UpdatedAt.
// The first user message of a conversation freezes its title.
func (s *Store) Append(conversationID string, msg domain.Message) error {
	s.mu.Lock()
	c, ok := s.conversations[conversationID]
	if !ok {
		s.mu.Unlock()
		return fmt.Errorf("append to %s: %w", conversationID, domain.ErrNotFound)
	}
	if len(c.Messages) == 0 && msg.Role == domain.RoleUser && c.Title == domain.DefaultConversationTitle {
		c.Title = domain.TitleFromContent(msg.Content)
	}
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = s.now()
	s.mu.Unlock()

	s.notify()
	return nil
}

// Active returns a copy of the active conversation
func (s *Store) Active() (domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[s.activeID]
	if !ok {
		return domain.Conversation{}, false
	}
	return c.Clone(), true
}

// ActiveID returns the active conversation id
func (s *Store) ActiveID() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeID, s.activeID != ""
}

// Get returns a copy of a conversation by id
func (s *Store) Get(id string) (domain.Conversation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, ok := s.conversations[id]
	if !ok {
		return domain.Conversation{}, false
	}
	return c.Clone(), true
}

// List returns copies of all conversations, newest-created first
func (s *Store) List() []domain.Conversation {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Conversation, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.conversations[id].Clone())
	}
	return out
}

// Len returns the number of conversations
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Subscribe returns a channel that receives a value after mutations.
// Notifications coalesce: a slow reader sees one pending signal, never a backlog.
func (s *Store) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, ch)
	s.subMu.Unlock()
	return ch
}

func (s *Store) notify() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
