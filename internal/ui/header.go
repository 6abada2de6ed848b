package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

// stateIcon maps the player state to the header glyph.
func stateIcon(state string) string {
	switch state {
	case "play":
		return "▶"
	case "pause":
		return "⏸"
	default:
		return "■"
	}
}

// renderHeader draws the two top lines: now playing and progress.
func (m Model) renderHeader() string {
	return m.renderNowPlaying() + "\n" + m.renderProgress()
}

func (m Model) renderNowPlaying() string {
	s := m.styles

	if !m.connected {
		text := "not connected"
		if m.connErr != nil {
			text = "not connected: " + truncate(m.connErr.Error(), m.width-20)
		}
		return padRight(" "+s.StatusError.Render(text), m.width)
	}

	left := s.Accent.Render(stateIcon(m.status.State))
	if m.status.Stopped() || m.song.URI == "" {
		left += " " + s.Muted.Render("stopped")
	} else {
		title := s.CurrentSong.Render(m.song.DisplayTitle())
		left += " " + title
		if m.song.Artist != "" {
			left += s.Muted.Render(" by ") + s.Text.Render(m.song.Artist)
		}
		if m.song.Album != "" {
			left += s.Muted.Render(" on ") + s.Text.Render(m.song.Album)
		}
	}

	right := m.renderHeaderFlags()

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return " " + left + strings.Repeat(" ", gap) + right
}

// renderHeaderFlags builds the right-hand cluster: mode flags, volume,
// bitrate, and the database update indicator.
func (m Model) renderHeaderFlags() string {
	s := m.styles

	flag := func(on bool, letter string) string {
		if on {
			return s.Accent.Render(letter)
		}
		return s.Muted.Render("-")
	}
	flags := flag(m.status.Repeat, "r") +
		flag(m.status.Random, "z") +
		flag(m.status.Single, "s") +
		flag(m.status.Consume, "c")

	parts := []string{"[" + flags + "]"}

	if m.status.Volume >= 0 {
		parts = append(parts, s.Text.Render(fmt.Sprintf("%3d%%", m.status.Volume)))
	}
	if m.status.Bitrate > 0 {
		parts = append(parts, s.Muted.Render(fmt.Sprintf("%dkbps", m.status.Bitrate)))
	}
	if m.status.UpdatingDB > 0 {
		parts = append(parts, s.StatusWarn.Render(fmt.Sprintf("updating #%d", m.status.UpdatingDB)))
	}

	return strings.Join(parts, " ")
}

// renderProgress draws the elapsed/total bar under the song line.
func (m Model) renderProgress() string {
	s := m.styles

	if !m.connected || m.status.Stopped() || m.status.Duration <= 0 {
		return " " + s.ProgressEmpty.Render(strings.Repeat("─", max(m.width-2, 0)))
	}

	elapsed := m.elapsed()
	times := fmt.Sprintf(" %s/%s ", formatDuration(elapsed), formatDuration(m.status.Duration))

	barWidth := m.width - len(times) - 2
	if barWidth < 4 {
		return " " + s.Text.Render(strings.TrimSpace(times))
	}

	filled := int(float64(barWidth) * float64(elapsed) / float64(m.status.Duration))
	if filled > barWidth {
		filled = barWidth
	}

	bar := s.ProgressFilled.Render(strings.Repeat("━", filled)) +
		s.ProgressEmpty.Render(strings.Repeat("─", barWidth-filled))
	return " " + bar + s.Muted.Render(times)
}

// renderTabBar draws the pane tabs in config order.
func (m Model) renderTabBar() string {
	s := m.styles
	cells := lo.Map(m.tabs, func(name string, i int) string {
		label := fmt.Sprintf("%d:%s", i+1, name)
		if i == m.activeTab {
			return s.TabActive.Render(label)
		}
		return s.TabInactive.Render(label)
	})
	return strings.Join(cells, "")
}
