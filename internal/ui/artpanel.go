package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// artPanelWidth is the column reserved for the art panel beside the
// queue on wide terminals.
const artPanelWidth = 32

// renderArtPanel frames the current placement's description. The
// graphics backends draw into this region; the frame and metadata are
// what the UI itself contributes.
func (m Model) renderArtPanel(height int) string {
	s := m.styles

	var lines []string
	if info, ok := m.art.Current(); ok {
		lines = append(lines, s.Muted.Render(info.String()))
	} else {
		lines = append(lines, s.Muted.Render("no album art"))
	}
	if m.song.Album != "" {
		lines = append(lines, "", s.Text.Render(truncate(m.song.Album, artPanelWidth-6)))
	}
	if m.song.AlbumArtist != "" {
		lines = append(lines, s.Muted.Render(truncate(m.song.AlbumArtist, artPanelWidth-6)))
	} else if m.song.Artist != "" {
		lines = append(lines, s.Muted.Render(truncate(m.song.Artist, artPanelWidth-6)))
	}

	inner := height - 3
	for len(lines) < inner {
		lines = append(lines, "")
	}
	if inner > 0 && len(lines) > inner {
		lines = lines[:inner]
	}
	lines = append(lines, s.Muted.Render(truncate(m.queueTotal(), artPanelWidth-6)))

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.Border.GetForeground()).
		Width(artPanelWidth - 2).
		Render(strings.Join(lines, "\n"))
}

// padPane pads content to exactly height lines so the status bar stays
// put.
func (m Model) padPane(content string, height int) string {
	lines := strings.Split(content, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// joinColumns places two blocks side by side, top aligned.
func joinColumns(left, right string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
