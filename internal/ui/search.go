package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

type searchState struct {
	cursorList
	input   textinput.Model
	results []mpd.Song
	ran     bool // a query has completed since the input last changed
}

func (s *searchState) init() {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "search the database"
	ti.CharLimit = 256
	s.input = ti
}

// renderSearch draws the query line and the current result set. The
// result list lags the input by at most one in-flight query; anything
// older is dropped before it gets here.
func (m Model) renderSearch() string {
	s := m.styles
	height := m.paneHeight()

	head := " " + m.searchPane.input.View()

	var body string
	switch {
	case strings.TrimSpace(m.searchPane.input.Value()) == "":
		body = s.Muted.Render("  type to search, enter to keep results")
	case !m.searchPane.ran:
		body = s.Muted.Render("  searching…")
	case len(m.searchPane.results) == 0:
		body = s.Muted.Render("  no matches")
	default:
		start, end := m.searchPane.window(len(m.searchPane.results), height-2)
		rows := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			rows = append(rows, m.renderSearchRow(i))
		}
		body = strings.Join(rows, "\n")
	}

	count := ""
	if m.searchPane.ran {
		count = s.Muted.Render(fmt.Sprintf(" %d matches", len(m.searchPane.results)))
	}
	return m.padPane(head+count+"\n"+body, height)
}

func (m Model) renderSearchRow(i int) string {
	s := m.styles
	song := m.searchPane.results[i]

	dur := formatDuration(song.Duration)
	avail := m.width - len(dur) - 4
	titleWidth := avail / 2
	line := "  " + padRight(truncate(song.DisplayTitle(), titleWidth), titleWidth) +
		" " + padRight(truncate(song.Artist, avail-titleWidth-1), avail-titleWidth-1) + dur

	if i == m.searchPane.cursor && !m.searchPane.input.Focused() {
		return s.Selected.Render(line)
	}
	return s.Text.Render(line)
}

// searchStart focuses the query input, entering input mode.
func (m *Model) searchStart() tea.Cmd {
	m.mode = config.ModeInput
	return m.searchPane.input.Focus()
}

// searchInput feeds a key to the query field and reissues the search.
// Each submission replaces the previous one at the worker, so a fast
// typist costs one round trip, not one per keystroke.
func (m *Model) searchInput(msg tea.KeyMsg) tea.Cmd {
	before := m.searchPane.input.Value()
	var cmd tea.Cmd
	m.searchPane.input, cmd = m.searchPane.input.Update(msg)
	after := m.searchPane.input.Value()

	if after != before {
		m.searchPane.ran = false
		if strings.TrimSpace(after) == "" {
			m.searchPane.results = nil
			m.searchPane.clamp(0)
		} else {
			m.submit(mpd.SearchQuery(after))
		}
	}
	return cmd
}

// searchConfirm leaves input mode with the results kept for browsing.
func (m *Model) searchConfirm() {
	m.searchPane.input.Blur()
	m.mode = config.ModeNormal
}

// searchCancel clears the query and results.
func (m *Model) searchCancel() {
	m.searchPane.input.SetValue("")
	m.searchPane.input.Blur()
	m.searchPane.results = nil
	m.searchPane.ran = false
	m.searchPane.clamp(0)
	m.mode = config.ModeNormal
}

// selectedSearchSong returns the result under the cursor.
func (m Model) selectedSearchSong() (mpd.Song, bool) {
	i := m.searchPane.cursor
	if i < 0 || i >= len(m.searchPane.results) {
		return mpd.Song{}, false
	}
	return m.searchPane.results[i], true
}

// applySearch installs a result set, dropping answers to queries the
// user has already typed past.
func (m *Model) applySearch(res mpd.SearchResult) {
	if res.Query != m.searchPane.input.Value() {
		m.log.Debug().Str("query", res.Query).Msg("stale search result dropped")
		return
	}
	m.searchPane.ran = true
	m.searchPane.results = res.Songs
	m.searchPane.clamp(len(res.Songs))
}
