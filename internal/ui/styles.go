package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/event"
)

// Styles holds the pre-built lipgloss styles for the active theme.
// They are rebuilt wholesale when a ThemeChanged event lands.
type Styles struct {
	Text   lipgloss.Style
	Muted  lipgloss.Style
	Accent lipgloss.Style

	Title       lipgloss.Style
	CurrentSong lipgloss.Style
	Selected    lipgloss.Style

	TabActive   lipgloss.Style
	TabInactive lipgloss.Style

	ProgressFilled lipgloss.Style
	ProgressEmpty  lipgloss.Style

	StatusInfo  lipgloss.Style
	StatusWarn  lipgloss.Style
	StatusError lipgloss.Style

	Border      lipgloss.Style
	BorderFocus lipgloss.Style

	Key lipgloss.Style
}

// newStyles builds the style set from a theme snapshot.
func newStyles(t *config.Theme) Styles {
	fg := func(c string) lipgloss.Style {
		s := lipgloss.NewStyle()
		if c != "" {
			s = s.Foreground(lipgloss.Color(c))
		}
		return s
	}

	return Styles{
		Text:   fg(t.Text),
		Muted:  fg(t.Muted),
		Accent: fg(t.Accent),

		Title:       fg(t.Accent).Bold(true),
		CurrentSong: fg(t.CurrentSong).Bold(true),
		Selected: lipgloss.NewStyle().
			Background(lipgloss.Color(t.SelectionBg)).
			Foreground(lipgloss.Color(t.SelectionText)),

		TabActive: lipgloss.NewStyle().
			Background(lipgloss.Color(t.TabActiveBg)).
			Foreground(lipgloss.Color(t.TabActiveFg)).
			Bold(true).
			Padding(0, 1),
		TabInactive: fg(t.TabInactiveFg).Padding(0, 1),

		ProgressFilled: fg(t.ProgressFilled),
		ProgressEmpty:  fg(t.ProgressEmpty),

		StatusInfo:  fg(t.StatusInfo),
		StatusWarn:  fg(t.StatusWarn),
		StatusError: fg(t.StatusError).Bold(true),

		Border:      fg(t.Border),
		BorderFocus: fg(t.BorderFocus),

		Key: fg(t.Accent).Bold(true),
	}
}

// Level returns the status bar style for a message level.
func (s Styles) Level(level event.Level) lipgloss.Style {
	switch level {
	case event.LevelWarn:
		return s.StatusWarn
	case event.LevelError:
		return s.StatusError
	default:
		return s.StatusInfo
	}
}
