package view

import "github.com/charmbracelet/lipgloss"

const (
	infoColor  = lipgloss.Color("#4cae4c")
	errorColor = lipgloss.Color("#d9534f")
)

type styles struct {
	title       lipgloss.Style
	header      lipgloss.Style
	info        lipgloss.Style
	error       lipgloss.Style
	pane        lipgloss.Style
	section     lipgloss.Style
	placeholder lipgloss.Style
	index       lipgloss.Style
	hint        lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:       lipgloss.NewStyle().Bold(true),
		header:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		info:        lipgloss.NewStyle().Foreground(infoColor),
		error:       lipgloss.NewStyle().Bold(true).Foreground(errorColor),
		pane:        lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("238")).Padding(0, 1),
		section:     lipgloss.NewStyle().MarginTop(1),
		placeholder: lipgloss.NewStyle().Faint(true),
		index:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		hint:        lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}
