package ui

import (
	"fmt"
	"strings"

	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

type playlistsState struct {
	cursorList
	lists    []mpd.Playlist
	songs    []mpd.Song
	songsFor string // playlist the songs slice belongs to
}

// renderPlaylists draws the stored playlists with the selected one's
// contents beside them on wide terminals, below otherwise.
func (m Model) renderPlaylists() string {
	s := m.styles
	height := m.paneHeight()

	if len(m.playlistsPane.lists) == 0 {
		return m.padPane(s.Muted.Render("  no stored playlists"), height)
	}

	wide := m.width >= 80
	nameWidth := m.width
	if wide {
		nameWidth = m.width / 3
	}

	listHeight := height
	if !wide {
		listHeight = height / 2
	}
	start, end := m.playlistsPane.window(len(m.playlistsPane.lists), listHeight)
	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		pl := m.playlistsPane.lists[i]
		line := padRight(" "+truncate(pl.Name, nameWidth-2), nameWidth-1)
		if i == m.playlistsPane.cursor {
			line = s.Selected.Render(line)
		} else {
			line = s.Text.Render(line)
		}
		rows = append(rows, line)
	}
	names := strings.Join(rows, "\n")

	contents := m.renderPlaylistSongs(m.width - nameWidth)
	if wide {
		return m.padPane(joinColumns(m.padPane(names, height), contents), height)
	}
	return m.padPane(names+"\n"+contents, height)
}

func (m Model) renderPlaylistSongs(width int) string {
	s := m.styles

	sel, ok := m.selectedPlaylist()
	if !ok {
		return ""
	}
	if m.playlistsPane.songsFor != sel.Name {
		return s.Muted.Render(" loading…")
	}
	if len(m.playlistsPane.songs) == 0 {
		return s.Muted.Render(" empty playlist")
	}

	rows := make([]string, 0, len(m.playlistsPane.songs))
	rows = append(rows, s.Muted.Render(fmt.Sprintf(" %d songs", len(m.playlistsPane.songs))))
	for _, song := range m.playlistsPane.songs {
		rows = append(rows, s.Text.Render(" "+truncate(song.DisplayTitle(), width-2)))
	}
	return strings.Join(rows, "\n")
}

// selectedPlaylist returns the playlist under the cursor.
func (m Model) selectedPlaylist() (mpd.Playlist, bool) {
	i := m.playlistsPane.cursor
	if i < 0 || i >= len(m.playlistsPane.lists) {
		return mpd.Playlist{}, false
	}
	return m.playlistsPane.lists[i], true
}

// requestPlaylistSongs asks for the selection's contents unless they
// are already loaded.
func (m *Model) requestPlaylistSongs() {
	sel, ok := m.selectedPlaylist()
	if !ok || m.playlistsPane.songsFor == sel.Name {
		return
	}
	m.submit(mpd.PlaylistContentsQuery(sel.Name))
}

// playlistLoad appends the selected playlist to the queue.
func (m *Model) playlistLoad() {
	sel, ok := m.selectedPlaylist()
	if !ok {
		return
	}
	m.submit(mpd.PlaylistLoadCmd(sel.Name))
	m.say("loaded playlist "+sel.Name, event.LevelInfo, 0)
}

// playlistDelete removes the selected stored playlist from the daemon.
// Callers confirm first; this is not undoable. The listing refreshes
// immediately rather than waiting for the stored_playlist idle echo.
func (m *Model) playlistDelete() {
	sel, ok := m.selectedPlaylist()
	if !ok {
		return
	}
	m.submit(mpd.PlaylistRemoveCmd(sel.Name))
	m.submit(mpd.PlaylistsQuery())
	m.say("deleted playlist "+sel.Name, event.LevelInfo, 0)
}

// applyPlaylists installs the stored playlist index and refreshes the
// contents panel for whatever is now under the cursor.
func (m *Model) applyPlaylists(lists []mpd.Playlist) {
	m.playlistsPane.lists = lists
	m.playlistsPane.clamp(len(lists))
	if sel, ok := m.selectedPlaylist(); !ok || sel.Name != m.playlistsPane.songsFor {
		m.playlistsPane.songs = nil
		m.playlistsPane.songsFor = ""
		m.requestPlaylistSongs()
	}
}

// applyPlaylistSongs installs a contents panel, dropping results for
// playlists the cursor has moved away from.
func (m *Model) applyPlaylistSongs(ps mpd.PlaylistSongs) {
	sel, ok := m.selectedPlaylist()
	if !ok || ps.Name != sel.Name {
		m.log.Debug().Str("playlist", ps.Name).Msg("stale playlist contents dropped")
		return
	}
	m.playlistsPane.songs = ps.Songs
	m.playlistsPane.songsFor = ps.Name
}
