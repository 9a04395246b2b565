// Package view draws application.View for the terminal.
package view

import (
	"fmt"
	"strings"

	"github.com/bnema/summ/internal/application"
	"github.com/charmbracelet/lipgloss"
)

const emptyPane = "(empty)"

// Render draws the whole view: the auth screen or the main screen,
// whichever is active.
func Render(v application.View) string {
	s := newStyles()

	lines := []string{s.title.Render(v.Title)}
	if v.Screen == application.ScreenAuth {
		lines = append(lines, renderAuth(v, s)...)
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	lines = append(lines, s.header.Render("logout: available"))
	if line := statusLine(v.Status, s); line != "" {
		lines = append(lines, line)
	}
	lines = append(lines,
		s.section.Render(renderPane("Input", v.Input, s)),
		s.section.Render(renderPane("Summary", v.Output, s)),
		s.section.Render(renderHistory(v.History, v.ClearVisible, s)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// RenderStatus draws a single status line in its level colour. An empty
// line renders as "".
func RenderStatus(line application.StatusLine) string {
	return statusLine(line, newStyles())
}

// RenderHistory draws the numbered history list used by "history list" and
// the shell.
func RenderHistory(items []application.HistoryItem, clearVisible bool) string {
	return renderHistory(items, clearVisible, newStyles())
}

func renderAuth(v application.View, s styles) []string {
	form := "Login"
	other := "signup"
	if v.Form == application.AuthFormSignup {
		form = "Sign up"
		other = "login"
	}

	lines := []string{s.header.Render(fmt.Sprintf("%s (or %s)", form, other))}
	if line := statusLine(v.AuthStatus, s); line != "" {
		lines = append(lines, line)
	}

	return lines
}

func renderPane(label, body string, s styles) string {
	if strings.TrimSpace(body) == "" {
		body = s.placeholder.Render(emptyPane)
	}

	return lipgloss.JoinVertical(lipgloss.Left, s.header.Render(label+":"), s.pane.Render(body))
}

func renderHistory(items []application.HistoryItem, clearVisible bool, s styles) string {
	lines := []string{s.header.Render("History:")}

	n := 0
	for _, item := range items {
		if item.Placeholder {
			lines = append(lines, s.placeholder.Render(item.Label))
			continue
		}
		n++
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, s.index.Render(fmt.Sprintf("%2d.", n)), " ", item.Label))
	}

	if clearVisible {
		lines = append(lines, s.hint.Render("clear history: available"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func statusLine(line application.StatusLine, s styles) string {
	if line.Empty() {
		return ""
	}
	if line.Level == application.StatusError {
		return s.error.Render(line.Message)
	}

	return s.info.Render(line.Message)
}
