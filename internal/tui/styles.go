package tui

import "github.com/charmbracelet/lipgloss"

const sidebarWidth = 30

type styles struct {
	header         lipgloss.Style
	sidebar        lipgloss.Style
	item           lipgloss.Style
	activeItem     lipgloss.Style
	userLabel      lipgloss.Style
	assistantLabel lipgloss.Style
	timestamp      lipgloss.Style
	status         lipgloss.Style
	errorBanner    lipgloss.Style
	notice         lipgloss.Style
	inputBox       lipgloss.Style
	emptyThread    lipgloss.Style
}

func defaultStyles() styles {
	accent := lipgloss.Color("63")
	muted := lipgloss.Color("241")

	return styles{
		header:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(accent).Padding(0, 1),
		sidebar:        lipgloss.NewStyle().Width(sidebarWidth).BorderStyle(lipgloss.NormalBorder()).BorderRight(true).BorderForeground(muted).PaddingRight(1),
		item:           lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		activeItem:     lipgloss.NewStyle().Bold(true).Foreground(accent),
		userLabel:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		assistantLabel: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170")),
		timestamp:      lipgloss.NewStyle().Foreground(muted),
		status:         lipgloss.NewStyle().Foreground(muted),
		errorBanner:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		notice:         lipgloss.NewStyle().Foreground(lipgloss.Color("114")),
		inputBox:       lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(accent),
		emptyThread:    lipgloss.NewStyle().Foreground(muted).Italic(true),
	}
}
