package tui

import (
	"fmt"
	"strings"

	"github.com/Rrens/academic-chat/internal/domain"
	"github.com/Rrens/academic-chat/internal/service"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const (
	appTitle         = "Academic Assistant"
	emptyThreadText  = "Start a conversation by asking about your course material."
	noConversations  = "No conversations yet"
	thinkingText     = "Thinking..."
	timestampLayout  = "15:04"
	sidebarItemWidth = sidebarWidth - 3
)

func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	header := m.styles.header.Width(m.width).Render(appTitle + "  " + m.settings.BaseURL)
	sidebar := m.styles.sidebar.Height(m.viewport.Height).Render(m.renderSidebar())
	body := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", m.viewport.View())
	input := m.styles.inputBox.Width(m.viewport.Width - 2).Render(m.input.View())

	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.statusLine(), input)
}

// renderSidebar lists conversation titles newest first and marks the active one
func (m Model) renderSidebar() string {
	list := m.chat.Conversations()
	if len(list) == 0 {
		return m.styles.emptyThread.Render(noConversations)
	}

	activeID := ""
	if active, ok := m.chat.ActiveConversation(); ok {
		activeID = active.ID
	}

	var b strings.Builder
	for _, c := range list {
		title := truncate(c.Title, sidebarItemWidth)
		if c.ID == activeID {
			b.WriteString(m.styles.activeItem.Render("> " + title))
		} else {
			b.WriteString(m.styles.item.Render("  " + title))
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func (m Model) statusLine() string {
	status := m.chat.Status()
	if m.busy() {
		return m.styles.status.Render(m.spinner.View() + " " + thinkingText)
	}
	if msg, ok := status.ErrorMessage(); ok {
		return m.styles.errorBanner.Render(msg)
	}
	if m.notice != "" {
		return m.styles.notice.Render(m.notice)
	}
	return m.styles.status.Render(status.State().String())
}

// renderThread renders the active conversation in chronological order
func (m Model) renderThread() string {
	active, ok := m.chat.ActiveConversation()
	if !ok || len(active.Messages) == 0 {
		return m.styles.emptyThread.Render(emptyThreadText)
	}

	var b strings.Builder
	for _, msg := range active.Messages {
		stamp := m.styles.timestamp.Render(msg.Timestamp.Format(timestampLayout))
		switch msg.Role {
		case domain.RoleUser:
			fmt.Fprintf(&b, "%s %s\n%s\n\n", m.styles.userLabel.Render("You"), stamp, msg.Content)
		default:
			fmt.Fprintf(&b, "%s %s\n%s\n", m.styles.assistantLabel.Render("Assistant"), stamp, m.render(msg.Content))
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

// render formats markdown, falling back to the raw text
func (m Model) render(markdown string) string {
	if m.renderer == nil {
		return markdown
	}
	out, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}

func (m Model) documentsMarkdown() string {
	if m.docs == nil {
		return "# Documents\n\nUploads are not available."
	}
	docs := m.docs.Documents()
	if len(docs) == 0 {
		return "# Documents\n\nNo documents uploaded. Use `/upload <path>`."
	}

	var b strings.Builder
	b.WriteString("# Documents\n\n| name | size | status | uploaded |\n|---|---|---|---|\n")
	for _, d := range docs {
		status := string(d.Status)
		if d.Status == domain.DocumentError && d.Error != "" {
			status += ": " + d.Error
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", d.Name, service.FormatSize(d.Size), status, humanize.Time(d.UploadedAt))
	}
	return b.String()
}

func (m Model) settingsMarkdown() string {
	logFile := m.settings.LogFile
	if logFile == "" {
		logFile = "stderr"
	}
	return fmt.Sprintf(`# Settings

| key | value |
|---|---|
| backend | %s |
| remote sessions | %t |
| max upload size | %s |
| markdown style | %s |
| log file | %s |
`, m.settings.BaseURL, m.settings.RemoteSessions, service.FormatSize(m.settings.MaxUploadSize), m.settings.MarkdownStyle, logFile)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width <= 1 {
		return string(r[:width])
	}
	return string(r[:width-1]) + "…"
}
