package ui

import (
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

// seekStep is the jump used by the seek actions.
const seekStep = 5 * time.Second

// dispatch runs a resolved normal-mode action. Most actions translate
// to one MPD query; pane-local ones mutate the model directly.
func (m *Model) dispatch(action string) tea.Cmd {
	switch action {
	case "quit":
		return tea.Quit
	case "help":
		m.openHelp()
		return nil

	case "playback.toggle":
		switch {
		case m.status.Playing():
			m.submit(mpd.PauseCmd(true))
		case m.status.State == mpd.StatePause:
			m.submit(mpd.PauseCmd(false))
		default:
			m.submit(mpd.PlayCmd(-1))
		}
		return nil
	case "playback.stop":
		m.submit(mpd.StopCmd())
		return nil
	case "playback.next":
		m.submit(mpd.NextCmd())
		return nil
	case "playback.prev":
		m.submit(mpd.PrevCmd())
		return nil

	case "volume.up":
		m.bumpVolume(m.config().VolumeStep)
		return nil
	case "volume.down":
		m.bumpVolume(-m.config().VolumeStep)
		return nil

	case "toggle.repeat":
		m.submit(mpd.RepeatCmd(!m.status.Repeat))
		return nil
	case "toggle.random":
		m.submit(mpd.RandomCmd(!m.status.Random))
		return nil
	case "toggle.single":
		m.submit(mpd.SingleCmd(!m.status.Single))
		return nil
	case "toggle.consume":
		m.submit(mpd.ConsumeCmd(!m.status.Consume))
		return nil

	case "seek.forward":
		m.submit(mpd.SeekCmd(seekStep, true))
		return nil
	case "seek.back":
		m.submit(mpd.SeekCmd(-seekStep, true))
		return nil

	case "tab.next":
		m.setTab((m.activeTab + 1) % len(m.tabs))
		return nil
	case "tab.prev":
		m.setTab((m.activeTab + len(m.tabs) - 1) % len(m.tabs))
		return nil

	case "cursor.down", "cursor.up", "cursor.top", "cursor.bottom",
		"cursor.halfpage.down", "cursor.halfpage.up":
		m.cursorAction(action)
		return nil

	case "select":
		m.selectAction()
		return nil
	case "add":
		m.addAction()
		return nil

	case "browser.parent":
		if m.modal == nil && m.currentTab() == "browser" {
			m.browserParent()
		}
		return nil
	case "browser.open":
		if m.modal == nil && m.currentTab() == "browser" {
			m.browserOpen()
		}
		return nil

	case "queue.delete":
		if m.modal == nil && m.currentTab() == "queue" {
			m.queueDelete()
		}
		return nil
	case "queue.move.down":
		if m.modal == nil && m.currentTab() == "queue" {
			m.queueMove(1)
		}
		return nil
	case "queue.move.up":
		if m.modal == nil && m.currentTab() == "queue" {
			m.queueMove(-1)
		}
		return nil
	case "queue.clear":
		if len(m.queue) == 0 {
			return nil
		}
		m.openConfirm("clear the queue?", func(m *Model) {
			m.submit(mpd.ClearCmd())
			m.say("queue cleared", event.LevelInfo, 0)
		})
		return nil
	case "queue.shuffle":
		m.submit(mpd.ShuffleCmd())
		return nil

	case "playlist.delete":
		if m.modal != nil || m.currentTab() != "playlists" {
			return nil
		}
		sel, ok := m.selectedPlaylist()
		if !ok {
			return nil
		}
		m.openConfirm("delete playlist "+sel.Name+"?", func(m *Model) {
			m.playlistDelete()
		})
		return nil

	case "song.info":
		if uri := m.selectedURI(); uri != "" {
			// Last-known detail opens instantly; the query refreshes it.
			if detail, ok := m.songInfo[uri]; ok {
				m.openSongInfo(detail)
			}
			m.pendingInfo = uri
			m.submit(mpd.SongDetailQuery(uri))
		}
		return nil

	case "database.update":
		m.submit(mpd.UpdateQuery(""))
		return nil

	case "outputs":
		m.submit(mpd.OutputsQuery())
		return nil

	case "search.start":
		m.switchToTab("search")
		return m.searchStart()
	case "command.start":
		return m.commandStart()
	}

	// tab.1 .. tab.9 jump straight to a tab slot.
	if n, ok := strings.CutPrefix(action, "tab."); ok {
		if i, err := strconv.Atoi(n); err == nil && i >= 1 && i <= len(m.tabs) {
			m.setTab(i - 1)
		}
		return nil
	}

	m.log.Debug().Str("action", action).Msg("unhandled action")
	return nil
}

// bumpVolume nudges the mixer, clamping in the UI so the daemon never
// sees an out-of-range value.
func (m *Model) bumpVolume(delta int) {
	if m.status.Volume < 0 {
		m.say("no mixer", event.LevelWarn, 0)
		return
	}
	vol := m.status.Volume + delta
	if vol < 0 {
		vol = 0
	}
	if vol > 100 {
		vol = 100
	}
	m.submit(mpd.SetVolumeCmd(vol))
}

// cursorAction moves whichever cursor is focused. The lyrics and logs
// panes scroll content rather than a selection, so they route
// separately.
func (m *Model) cursorAction(action string) {
	if m.modal == nil {
		switch m.currentTab() {
		case "lyrics":
			m.lyricsScroll(action)
			return
		case "logs":
			m.logsPane.scroll(action)
			return
		}
	}
	m.moveCursor(action)
	if m.modal == nil && m.currentTab() == "playlists" {
		m.requestPlaylistSongs()
	}
}

// selectAction is the enter key: modal first, then the pane default.
func (m *Model) selectAction() {
	if m.modal != nil {
		m.modalSelect()
		return
	}
	switch m.currentTab() {
	case "queue":
		m.queuePlaySelected()
	case "browser":
		m.browserOpen()
	case "search":
		if song, ok := m.selectedSearchSong(); ok {
			m.addURI(song.URI, song.DisplayTitle())
		}
	case "playlists":
		m.playlistLoad()
	case "logs":
		m.logsPane.scroll("cursor.bottom")
	}
}

// addAction appends the pane's selection to the queue.
func (m *Model) addAction() {
	if m.modal != nil {
		return
	}
	switch m.currentTab() {
	case "browser":
		m.browserAdd()
	case "search":
		if song, ok := m.selectedSearchSong(); ok {
			m.addURI(song.URI, song.DisplayTitle())
		}
	case "playlists":
		m.playlistLoad()
	case "queue":
		if song, ok := m.selectedQueueSong(); ok {
			m.addURI(song.URI, song.DisplayTitle())
		}
	}
}

// selectedURI is the database URI under the focused pane's cursor.
func (m Model) selectedURI() string {
	switch m.currentTab() {
	case "queue":
		if song, ok := m.selectedQueueSong(); ok {
			return song.URI
		}
	case "browser":
		if e, ok := m.selectedEntry(); ok && e.Kind == mpd.EntrySong {
			return e.URI
		}
	case "search":
		if song, ok := m.selectedSearchSong(); ok {
			return song.URI
		}
	}
	return ""
}

// setTab focuses a tab slot and lazily loads panes that have never
// been shown.
func (m *Model) setTab(i int) {
	if i < 0 || i >= len(m.tabs) {
		return
	}
	m.activeTab = i
	m.pendingInfo = ""

	switch m.currentTab() {
	case "browser":
		if m.browserPane.entries == nil && !m.browserPane.loading {
			m.browse(m.browserPane.path)
		}
	case "playlists":
		if m.playlistsPane.lists == nil {
			m.submit(mpd.PlaylistsQuery())
		}
		m.requestPlaylistSongs()
	case "lyrics":
		m.resolveLyrics()
	}
}

// switchToTab focuses the named tab if it is configured.
func (m *Model) switchToTab(name string) {
	for i, tab := range m.tabs {
		if tab == name {
			m.setTab(i)
			return
		}
	}
	m.say("tab "+name+" is not configured", event.LevelWarn, 0)
}
