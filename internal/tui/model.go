// Package tui is the interactive terminal front-end. It renders the state held
// by the conversation store and forwards user actions to the chat service.
package tui

import (
	"context"

	"github.com/Rrens/academic-chat/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

const inputPlaceholder = "Ask about your course... (Enter to send, /help for commands)"

// ChatController is the chat service surface used by the UI
type ChatController interface {
	SendMessage(ctx context.Context, text string)
	StartNewChat(ctx context.Context) (string, error)
	SelectConversation(id string) error
	DeleteConversation(ctx context.Context, id string)
	Status() domain.RequestStatus
	Conversations() []domain.Conversation
	ActiveConversation() (domain.Conversation, bool)
}

// DocumentUploads is the document service surface used by the UI
type DocumentUploads interface {
	Upload(ctx context.Context, path string) (domain.UploadedDocument, error)
	Documents() []domain.UploadedDocument
}

// Settings is shown by the /settings command
type Settings struct {
	BaseURL        string
	RemoteSessions bool
	MaxUploadSize  int64
	MarkdownStyle  string
	LogFile        string
}

// Model is the Bubble Tea model for the chat window
type Model struct {
	ctx      context.Context
	chat     ChatController
	docs     DocumentUploads
	changes  <-chan struct{}
	settings Settings

	input         textinput.Model
	viewport      viewport.Model
	spinner       spinner.Model
	renderer      *glamour.TermRenderer
	markdownStyle string
	styles        styles

	width   int
	height  int
	ready   bool
	notice  string
	overlay string
	sending bool
}

type (
	storeChangedMsg struct{}
	sendDoneMsg     struct{}
	noticeMsg       string
)

// New builds the model. changes is a store subscription that drives re-rendering.
func New(ctx context.Context, chat ChatController, docs DocumentUploads, changes <-chan struct{}, settings Settings) Model {
	ti := textinput.New()
	ti.Placeholder = inputPlaceholder
	ti.CharLimit = 4000
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := Model{
		ctx:      ctx,
		chat:     chat,
		docs:     docs,
		changes:  changes,
		settings: settings,
		input:    ti,
		viewport: viewport.New(80, 20),
		spinner:  sp,
		styles:   defaultStyles(),
	}
	m.markdownStyle = resolveStyle(settings.MarkdownStyle)
	m.renderer = newRenderer(m.markdownStyle, 80)
	return m
}

// resolveStyle picks dark or light for "auto" once, before the program owns
// the terminal and background queries would race with input
func resolveStyle(style string) string {
	if style != "" && style != "auto" {
		return style
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

// Run starts the program on the alternate screen and blocks until the user quits
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newRenderer(style string, width int) *glamour.TermRenderer {
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle(style), glamour.WithWordWrap(width))
	if err != nil {
		return nil
	}
	return r
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textinput.Blink,
		m.spinner.Tick,
		waitForChange(m.changes),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "enter":
			return m.handleSubmit()
		case "ctrl+n":
			return m, m.newChatCmd()
		case "ctrl+d":
			return m.deleteActive()
		case "ctrl+up", "alt+up":
			return m.selectRelative(-1)
		case "ctrl+down", "alt+down":
			return m.selectRelative(1)
		}

		if !m.busy() {
			m.input, tiCmd = m.input.Update(msg)
		}

	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.refresh()

	case storeChangedMsg:
		m.overlay = ""
		m.refresh()
		return m, waitForChange(m.changes)

	case sendDoneMsg:
		m.sending = false
		m.refresh()
		return m, nil

	case noticeMsg:
		m.notice = string(msg)
		m.refresh()
		return m, nil

	case spinner.TickMsg:
		var spCmd tea.Cmd
		m.spinner, spCmd = m.spinner.Update(msg)
		return m, spCmd
	}

	m.viewport, vpCmd = m.viewport.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd)
}

// busy is true from Enter until the send command reports back, which covers
// the gap before the service switches its status to loading
func (m Model) busy() bool {
	return m.sending || m.chat.Status().IsLoading()
}

func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	const (
		headerHeight = 1
		statusHeight = 1
		inputHeight  = 3
	)

	mainWidth := width - sidebarWidth - 3
	if mainWidth < 20 {
		mainWidth = 20
	}
	bodyHeight := height - headerHeight - statusHeight - inputHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	m.viewport.Width = mainWidth
	m.viewport.Height = bodyHeight
	m.input.Width = mainWidth - 4
	m.renderer = newRenderer(m.markdownStyle, mainWidth-2)
	m.ready = true
}

// refresh re-renders the thread from the store
func (m *Model) refresh() {
	if m.overlay != "" {
		m.viewport.SetContent(m.overlay)
		m.viewport.GotoTop()
		return
	}
	m.viewport.SetContent(m.renderThread())
	m.viewport.GotoBottom()
}

func waitForChange(changes <-chan struct{}) tea.Cmd {
	if changes == nil {
		return nil
	}
	return func() tea.Msg {
		<-changes
		return storeChangedMsg{}
	}
}
