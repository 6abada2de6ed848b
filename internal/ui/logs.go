package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
)

// maxLogLines bounds the in-memory log pane; the file on disk keeps
// the full record.
const maxLogLines = 1000

type logsState struct {
	viewport viewport.Model
	lines    []string
	follow   bool
}

func (l *logsState) init(seed []string) {
	l.viewport = viewport.New(0, 0)
	l.lines = append(l.lines, seed...)
	l.follow = true
}

func (l *logsState) resize(width, height int) {
	l.viewport.Width = width
	l.viewport.Height = height
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	if l.follow {
		l.viewport.GotoBottom()
	}
}

// append adds one line, trimming the ring from the front once full.
func (l *logsState) append(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > maxLogLines {
		l.lines = l.lines[len(l.lines)-maxLogLines:]
	}
	l.viewport.SetContent(strings.Join(l.lines, "\n"))
	if l.follow {
		l.viewport.GotoBottom()
	}
}

// scroll moves the viewport; any manual movement stops following until
// the user returns to the bottom.
func (l *logsState) scroll(action string) {
	switch action {
	case "cursor.down":
		l.viewport.LineDown(1)
	case "cursor.up":
		l.viewport.LineUp(1)
		l.follow = false
	case "cursor.halfpage.down":
		l.viewport.HalfViewDown()
	case "cursor.halfpage.up":
		l.viewport.HalfViewUp()
		l.follow = false
	case "cursor.top":
		l.viewport.GotoTop()
		l.follow = false
	case "cursor.bottom":
		l.viewport.GotoBottom()
	}
	if l.viewport.AtBottom() {
		l.follow = true
	}
}

// renderLogs shows the tail of the program's own log file.
func (m Model) renderLogs() string {
	height := m.paneHeight()
	if len(m.logsPane.lines) == 0 {
		return m.padPane(m.styles.Muted.Render("  log is empty"), height)
	}
	return m.padPane(m.logsPane.viewport.View(), height)
}
