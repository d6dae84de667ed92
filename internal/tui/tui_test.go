package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Rrens/academic-chat/internal/domain"
	"github.com/Rrens/academic-chat/internal/service"
	"github.com/Rrens/academic-chat/internal/store"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubClient struct {
	reply   string
	err     error
	release chan struct{}
}

func (c *stubClient) SendChatMessage(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if c.release != nil {
		<-c.release
	}
	if c.err != nil {
		return nil, c.err
	}
	return &domain.ChatResponse{Response: c.reply, ConversationID: req.ConversationID}, nil
}

func (c *stubClient) CreateNewChat(ctx context.Context) (*domain.NewChatResponse, error) {
	return nil, errors.New("not used")
}

func (c *stubClient) GetConversations(ctx context.Context) ([]domain.RemoteConversation, error) {
	return nil, nil
}

func (c *stubClient) DeleteConversation(ctx context.Context, conversationID string) error {
	return nil
}

func newTestModel(t *testing.T, client *stubClient) (Model, *service.ChatService, *store.Store) {
	t.Helper()
	st := store.New()
	svc := service.NewChatService(st, client, service.ChatOptions{BaseURL: "http://localhost:8000"})
	m := New(context.Background(), svc, nil, st.Subscribe(), Settings{
		BaseURL:       "http://localhost:8000",
		MaxUploadSize: 10 << 20,
		MarkdownStyle: "notty",
	})
	m.resize(120, 40)
	return m, svc, st
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		name  string
		arg   string
		ok    bool
	}{
		{"/new", "new", "", true},
		{"/upload notes/week 1.pdf", "upload", "notes/week 1.pdf", true},
		{"/HELP", "help", "", true},
		{"/", "", "", false},
		{"what is /new?", "", "", false},
		{"//usr/bin is what?", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			name, arg, ok := parseCommand(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.name, name)
			assert.Equal(t, tt.arg, arg)
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefgh", 5))
	assert.Equal(t, "ñññ…", truncate("ñññññ", 4))
}

func TestModel_ViewBeforeResize(t *testing.T) {
	st := store.New()
	svc := service.NewChatService(st, &stubClient{}, service.ChatOptions{})
	m := New(context.Background(), svc, nil, nil, Settings{MarkdownStyle: "notty"})

	assert.Equal(t, "Initializing...", m.View())
}

func TestModel_EmptyState(t *testing.T) {
	m, _, _ := newTestModel(t, &stubClient{})

	assert.Contains(t, m.renderSidebar(), noConversations)
	assert.Contains(t, m.renderThread(), emptyThreadText)
	assert.Contains(t, m.View(), appTitle)
}

func TestModel_SendMessage(t *testing.T) {
	m, _, st := newTestModel(t, &stubClient{reply: "42"})

	m.input.SetValue("  What is 6x7?  ")
	next, cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	assert.IsType(t, sendDoneMsg{}, cmd())

	m = next.(Model)
	assert.Empty(t, m.input.Value())

	active, ok := st.Active()
	require.True(t, ok)
	require.Len(t, active.Messages, 2)
	assert.Equal(t, "What is 6x7?", active.Messages[0].Content)
	assert.Equal(t, "42", active.Messages[1].Content)

	updated, _ := m.Update(sendDoneMsg{})
	m = updated.(Model)
	assert.Contains(t, m.renderThread(), "42")
	assert.Contains(t, m.renderSidebar(), "> What is 6x7?")
	assert.Contains(t, m.statusLine(), "idle")
}

func TestModel_SlashEscapeSendsMessage(t *testing.T) {
	m, _, st := newTestModel(t, &stubClient{reply: "a directory"})

	m.input.SetValue("//usr/bin is what?")
	_, cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	cmd()

	active, ok := st.Active()
	require.True(t, ok)
	require.Len(t, active.Messages, 2)
	assert.Equal(t, "/usr/bin is what?", active.Messages[0].Content)
}

func TestModel_SecondEnterBeforeSendStarts(t *testing.T) {
	m, _, st := newTestModel(t, &stubClient{reply: "ok"})

	m.input.SetValue("first")
	next, first := m.handleSubmit()
	require.NotNil(t, first)
	m = next.(Model)
	assert.Contains(t, m.statusLine(), thinkingText)

	// the send command has not run yet, so the service is still idle
	m.input.SetValue("second")
	next, second := m.handleSubmit()
	assert.Nil(t, second)
	m = next.(Model)
	assert.Equal(t, "second", m.input.Value())

	first()
	updated, _ := m.Update(sendDoneMsg{})
	m = updated.(Model)
	assert.False(t, m.sending)

	active, ok := st.Active()
	require.True(t, ok)
	assert.Len(t, active.Messages, 2)

	_, third := m.handleSubmit()
	assert.NotNil(t, third, "sending is allowed again once the reply is in")
}

func TestModel_SendFailureShowsBanner(t *testing.T) {
	m, svc, _ := newTestModel(t, &stubClient{err: errors.New("connection refused")})

	m.input.SetValue("hello")
	_, cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	cmd()

	msg, ok := svc.Status().ErrorMessage()
	require.True(t, ok)
	assert.Contains(t, m.statusLine(), msg)
	assert.Contains(t, m.renderThread(), "http://localhost:8000")
}

func TestModel_SubmitIgnoredWhileLoading(t *testing.T) {
	client := &stubClient{reply: "done", release: make(chan struct{})}
	m, svc, st := newTestModel(t, client)

	m.input.SetValue("first")
	next, cmd := m.handleSubmit()
	require.NotNil(t, cmd)
	m = next.(Model)

	done := make(chan tea.Msg, 1)
	go func() { done <- cmd() }()

	require.Eventually(t, func() bool { return svc.Status().IsLoading() }, time.Second, 5*time.Millisecond)
	assert.Contains(t, m.statusLine(), thinkingText)

	m.input.SetValue("second")
	_, cmd = m.handleSubmit()
	assert.Nil(t, cmd)

	close(client.release)
	<-done

	active, ok := st.Active()
	require.True(t, ok)
	require.Len(t, active.Messages, 2)
	assert.Equal(t, "first", active.Messages[0].Content)
}

func TestModel_SlashCommands(t *testing.T) {
	m, _, _ := newTestModel(t, &stubClient{})

	t.Run("help", func(t *testing.T) {
		m.input.SetValue("/help")
		next, cmd := m.handleSubmit()
		assert.Nil(t, cmd)
		assert.Contains(t, next.(Model).overlay, "/upload")
	})

	t.Run("settings", func(t *testing.T) {
		m.input.SetValue("/settings")
		next, _ := m.handleSubmit()
		assert.Contains(t, next.(Model).overlay, "http://localhost:8000")
		assert.Contains(t, next.(Model).overlay, "10 MiB")
	})

	t.Run("unknown", func(t *testing.T) {
		m.input.SetValue("/frobnicate")
		next, _ := m.handleSubmit()
		assert.Contains(t, next.(Model).notice, "unknown command")
	})

	t.Run("upload without path", func(t *testing.T) {
		m.input.SetValue("/upload")
		next, cmd := m.handleSubmit()
		assert.Nil(t, cmd)
		assert.Equal(t, "usage: /upload <path>", next.(Model).notice)
	})

	t.Run("upload unavailable", func(t *testing.T) {
		m.input.SetValue("/upload notes.pdf")
		_, cmd := m.handleSubmit()
		require.NotNil(t, cmd)
		assert.Equal(t, noticeMsg("uploads are not available"), cmd())
	})
}

func TestModel_NewChatAndDelete(t *testing.T) {
	m, _, st := newTestModel(t, &stubClient{})

	cmd := m.newChatCmd()
	require.NotNil(t, cmd)
	cmd()
	require.Equal(t, 1, st.Len())

	_, cmd = m.deleteActive()
	require.NotNil(t, cmd)
	cmd()
	assert.Equal(t, 0, st.Len())

	next, cmd := m.deleteActive()
	assert.Nil(t, cmd)
	assert.Equal(t, "no active conversation", next.(Model).notice)
}

func TestModel_SelectRelative(t *testing.T) {
	m, svc, _ := newTestModel(t, &stubClient{})

	var ids []string
	for i := 0; i < 3; i++ {
		id, err := svc.StartNewChat(context.Background())
		require.NoError(t, err)
		ids = append(ids, id)
	}
	// sidebar order is newest first: ids[2], ids[1], ids[0]

	activeID := func() string {
		c, ok := svc.ActiveConversation()
		require.True(t, ok)
		return c.ID
	}

	m.selectRelative(1)
	assert.Equal(t, ids[1], activeID())

	m.selectRelative(1)
	assert.Equal(t, ids[0], activeID())

	m.selectRelative(1)
	assert.Equal(t, ids[2], activeID(), "wraps to the top")

	m.selectRelative(-1)
	assert.Equal(t, ids[0], activeID(), "wraps to the bottom")
}

func TestModel_StoreChangeClearsOverlay(t *testing.T) {
	m, _, _ := newTestModel(t, &stubClient{})
	m.overlay = "# Help"

	updated, cmd := m.Update(storeChangedMsg{})
	assert.Empty(t, updated.(Model).overlay)
	assert.NotNil(t, cmd)
}
