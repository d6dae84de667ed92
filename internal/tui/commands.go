package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/Rrens/academic-chat/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

var helpText = strings.Join([]string{
	"# Commands",
	"",
	"| command | action |",
	"|---|---|",
	"| `/new` | start a new conversation (Ctrl+N) |",
	"| `/delete` | delete the active conversation (Ctrl+D) |",
	"| `/upload <path>` | upload a PDF, TXT or DOCX course document |",
	"| `/docs` | list uploaded documents |",
	"| `/settings` | show the current configuration |",
	"| `/help` | show this help |",
	"",
	"Start a message with `//` to send text that begins with a slash.",
	"",
	"Ctrl+↑/↓ or Alt+↑/↓ switch conversations, Esc or Ctrl+C quits.",
}, "\n")

// parseCommand splits "/upload notes.pdf" into ("upload", "notes.pdf").
// Input starting with "//" is a message, not a command.
func parseCommand(input string) (name, arg string, ok bool) {
	if !strings.HasPrefix(input, "/") || strings.HasPrefix(input, "//") {
		return "", "", false
	}
	fields := strings.SplitN(strings.TrimPrefix(input, "/"), " ", 2)
	name = strings.ToLower(fields[0])
	if len(fields) == 2 {
		arg = strings.TrimSpace(fields[1])
	}
	return name, arg, name != ""
}

func (m Model) handleSubmit() (tea.Model, tea.Cmd) {
	input := strings.TrimSpace(m.input.Value())
	if input == "" {
		return m, nil
	}

	if name, arg, ok := parseCommand(input); ok {
		m.input.Reset()
		return m.handleCommand(name, arg)
	}

	if m.busy() {
		return m, nil
	}

	text := m.input.Value()
	if strings.HasPrefix(input, "//") {
		text = strings.Replace(text, "//", "/", 1)
	}
	m.input.Reset()
	m.sending = true
	m.notice = ""
	m.overlay = ""

	return m, sendCmd(m.ctx, m.chat, text)
}

func (m Model) handleCommand(name, arg string) (tea.Model, tea.Cmd) {
	switch name {
	case "new":
		return m, m.newChatCmd()
	case "delete":
		return m.deleteActive()
	case "upload":
		if arg == "" {
			m.notice = "usage: /upload <path>"
			return m, nil
		}
		m.notice = "uploading " + arg + "..."
		return m, uploadCmd(m.ctx, m.docs, arg)
	case "docs":
		m.overlay = m.render(m.documentsMarkdown())
	case "settings":
		m.overlay = m.render(m.settingsMarkdown())
	case "help":
		m.overlay = m.render(helpText)
	default:
		m.notice = fmt.Sprintf("unknown command /%s, try /help", name)
	}
	m.refresh()
	return m, nil
}

func (m Model) newChatCmd() tea.Cmd {
	ctx, chat := m.ctx, m.chat
	return func() tea.Msg {
		if _, err := chat.StartNewChat(ctx); err != nil {
			return noticeMsg(err.Error())
		}
		return noticeMsg("")
	}
}

func (m Model) deleteActive() (tea.Model, tea.Cmd) {
	active, ok := m.chat.ActiveConversation()
	if !ok {
		m.notice = "no active conversation"
		return m, nil
	}
	ctx, chat, id := m.ctx, m.chat, active.ID
	return m, func() tea.Msg {
		chat.DeleteConversation(ctx, id)
		return noticeMsg(fmt.Sprintf("deleted %q", active.Title))
	}
}

// selectRelative moves the active pointer up or down the sidebar
func (m Model) selectRelative(delta int) (tea.Model, tea.Cmd) {
	list := m.chat.Conversations()
	if len(list) == 0 {
		return m, nil
	}

	idx := -1
	if active, ok := m.chat.ActiveConversation(); ok {
		for i, c := range list {
			if c.ID == active.ID {
				idx = i
				break
			}
		}
	}

	next := idx + delta
	switch {
	case idx == -1:
		next = 0
	case next < 0:
		next = len(list) - 1
	case next >= len(list):
		next = 0
	}

	if err := m.chat.SelectConversation(list[next].ID); err != nil {
		m.notice = err.Error()
	}
	m.overlay = ""
	m.refresh()
	return m, nil
}

func sendCmd(ctx context.Context, chat ChatController, text string) tea.Cmd {
	return func() tea.Msg {
		chat.SendMessage(ctx, text)
		return sendDoneMsg{}
	}
}

func uploadCmd(ctx context.Context, docs DocumentUploads, path string) tea.Cmd {
	return func() tea.Msg {
		if docs == nil {
			return noticeMsg("uploads are not available")
		}
		doc, err := docs.Upload(ctx, path)
		if err != nil {
			return noticeMsg("upload failed: " + err.Error())
		}
		return noticeMsg(fmt.Sprintf("%s uploaded (%s)", doc.Name, service.FormatSize(doc.Size)))
	}
}
