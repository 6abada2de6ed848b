package ui

import (
	"strings"

	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

type browserState struct {
	cursorList
	path    string
	entries []mpd.Entry
	loading bool
}

// renderBrowser draws one database directory level. The path line at
// the top doubles as the loading indicator while a listing is in
// flight.
func (m Model) renderBrowser() string {
	s := m.styles
	height := m.paneHeight()

	label := "/" + m.browserPane.path
	if m.browserPane.loading {
		label += "  …"
	}
	head := s.Title.Render(" " + truncateMiddle(label, m.width-2))

	if len(m.browserPane.entries) == 0 {
		body := s.Muted.Render("  empty directory")
		if m.browserPane.loading {
			body = s.Muted.Render("  loading…")
		}
		return m.padPane(head+"\n"+body, height)
	}

	start, end := m.browserPane.window(len(m.browserPane.entries), height-1)
	rows := make([]string, 0, height)
	rows = append(rows, head)
	for i := start; i < end; i++ {
		rows = append(rows, m.renderBrowserRow(i))
	}
	return m.padPane(strings.Join(rows, "\n"), height)
}

func (m Model) renderBrowserRow(i int) string {
	s := m.styles
	e := m.browserPane.entries[i]

	var line string
	switch e.Kind {
	case mpd.EntryDir:
		line = " ▸ " + e.Name() + "/"
	case mpd.EntryPlaylist:
		line = " ≡ " + e.Name()
	default:
		dur := formatDuration(e.Song.Duration)
		name := truncate(e.Song.DisplayTitle(), m.width-len(dur)-6)
		line = "   " + padRight(name, m.width-len(dur)-6) + " " + dur
	}
	line = padRight(truncate(line, m.width), m.width)

	if i == m.browserPane.cursor {
		return s.Selected.Render(line)
	}
	if e.Kind == mpd.EntryDir {
		return s.Accent.Render(line)
	}
	return s.Text.Render(line)
}

// selectedEntry returns the entry under the browser cursor.
func (m Model) selectedEntry() (mpd.Entry, bool) {
	i := m.browserPane.cursor
	if i < 0 || i >= len(m.browserPane.entries) {
		return mpd.Entry{}, false
	}
	return m.browserPane.entries[i], true
}

// browse requests a directory listing and remembers the path so stale
// results for other directories can be dropped on arrival.
func (m *Model) browse(path string) {
	m.browserPane.path = path
	m.browserPane.loading = true
	m.submit(mpd.BrowseQuery(path))
}

// browserOpen descends into a directory or acts on a leaf: songs are
// appended to the queue, stored playlists are loaded.
func (m *Model) browserOpen() {
	e, ok := m.selectedEntry()
	if !ok {
		return
	}
	switch e.Kind {
	case mpd.EntryDir:
		m.browse(e.URI)
	case mpd.EntryPlaylist:
		m.submit(mpd.PlaylistLoadCmd(e.Name()))
		m.say("loaded playlist "+e.Name(), event.LevelInfo, 0)
	default:
		m.addURI(e.URI, e.Song.DisplayTitle())
	}
}

// browserParent ascends one directory level.
func (m *Model) browserParent() {
	if m.browserPane.path == "" {
		return
	}
	parent := ""
	if i := strings.LastIndexByte(m.browserPane.path, '/'); i >= 0 {
		parent = m.browserPane.path[:i]
	}
	m.browse(parent)
}

// browserAdd appends the selected entry to the queue. Directories add
// recursively, which the daemon handles server side.
func (m *Model) browserAdd() {
	e, ok := m.selectedEntry()
	if !ok {
		return
	}
	switch e.Kind {
	case mpd.EntryDir:
		m.addURI(e.URI, e.Name()+"/")
	case mpd.EntryPlaylist:
		m.submit(mpd.PlaylistLoadCmd(e.Name()))
		m.say("loaded playlist "+e.Name(), event.LevelInfo, 0)
	default:
		m.addURI(e.URI, e.Song.DisplayTitle())
	}
}

// applyBrowse installs a directory listing, dropping results that
// raced a later navigation.
func (m *Model) applyBrowse(res mpd.BrowseResult) {
	if res.Path != m.browserPane.path {
		m.log.Debug().Str("path", res.Path).Msg("stale browse result dropped")
		return
	}
	m.browserPane.loading = false
	m.browserPane.entries = res.Entries
	m.browserPane.clamp(len(res.Entries))
}
