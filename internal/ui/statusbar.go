package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rondo-mpd/rondo/internal/config"
)

// renderStatusBar draws the bottom line: command input when command
// mode is active, otherwise the current message or key hints, with the
// pending key buffer and connection dot on the right.
func (m Model) renderStatusBar() string {
	s := m.styles

	if m.mode == config.ModeCommand {
		return " " + m.cmdInput.View()
	}

	var left string
	switch {
	case m.message.active():
		left = s.Level(m.message.level).Render(m.message.text)
	case m.modal != nil:
		left = m.modal.hints(s)
	default:
		left = m.paneHints()
	}

	right := ""
	if len(m.pendingKeys) > 0 {
		right = s.Accent.Render(strings.Join(m.pendingKeys, " ")) + " "
	}
	if m.connected {
		right += s.StatusInfo.Render("●")
	} else {
		right += s.StatusError.Render("●")
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

// paneHints returns the short key help for the active pane.
func (m Model) paneHints() string {
	s := m.styles
	hint := func(key, desc string) string {
		return s.Key.Render(key) + s.Muted.Render(" "+desc)
	}

	common := []string{hint("?", "help"), hint(":", "command"), hint("q", "quit")}

	var pane []string
	switch m.currentTab() {
	case "queue":
		pane = []string{hint("enter", "play"), hint("d", "remove"), hint("J/K", "move")}
	case "browser":
		pane = []string{hint("l", "open"), hint("h", "up"), hint("a", "add")}
	case "search":
		pane = []string{hint("/", "edit query"), hint("enter", "add")}
	case "playlists":
		pane = []string{hint("enter", "load"), hint("D", "delete")}
	case "lyrics":
		pane = []string{hint("j/k", "scroll")}
	case "logs":
		pane = []string{hint("j/k", "scroll"), hint("enter", "follow")}
	}

	return strings.Join(append(pane, common...), s.Muted.Render(" · "))
}
