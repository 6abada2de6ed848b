package ui

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/input"
	"github.com/rondo-mpd/rondo/internal/mpd"
	"github.com/rondo-mpd/rondo/internal/ui/art"
	"github.com/rondo-mpd/rondo/internal/work"
)

// handleKey routes one key press by input mode.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := input.Normalize(msg.String())

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case config.ModeInput:
		return m.handleInputKey(msg, key)
	case config.ModeCommand:
		return m.handleCommandKey(msg, key)
	}
	return m.handleNormalKey(key)
}

// handleInputKey feeds the search field, with cancel/confirm resolved
// through the input-mode trie so they stay rebindable.
func (m Model) handleInputKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	if action, kind := m.tries[config.ModeInput].Lookup([]string{key}); kind == input.Exact {
		switch action {
		case "input.cancel":
			m.searchCancel()
			return m, nil
		case "input.confirm":
			m.searchConfirm()
			return m, nil
		}
	}
	cmd := m.searchInput(msg)
	return m, cmd
}

func (m Model) handleCommandKey(msg tea.KeyMsg, key string) (tea.Model, tea.Cmd) {
	if action, kind := m.tries[config.ModeCommand].Lookup([]string{key}); kind == input.Exact {
		switch action {
		case "input.cancel":
			m.commandCancel()
			return m, nil
		case "input.confirm":
			return m, m.commandConfirm()
		}
	}
	cmd := m.commandInput(msg)
	return m, cmd
}

// handleNormalKey resolves a key against the normal-mode trie,
// buffering prefixes of multi-key sequences until they complete or
// time out.
func (m Model) handleNormalKey(key string) (tea.Model, tea.Cmd) {
	if m.modal != nil {
		return m.handleModalKey(key)
	}

	if key == "esc" {
		m.pendingKeys = nil
		m.keyGen++
		return m, nil
	}

	m.pendingKeys = append(m.pendingKeys, key)
	action, kind := m.tries[config.ModeNormal].Lookup(m.pendingKeys)

	switch kind {
	case input.Exact:
		m.pendingKeys = nil
		m.keyGen++
		cmd := m.dispatch(action)
		return m, cmd

	case input.Prefix:
		m.keyGen++
		return m, keyTimeoutCmd(m.keyGen)

	default:
		// A failed sequence may still start a new one with this key.
		if len(m.pendingKeys) > 1 {
			m.pendingKeys = nil
			return m.handleNormalKey(key)
		}
		m.log.Debug().Str("key", key).Msg("unbound key")
		m.pendingKeys = nil
		m.keyGen++
		return m, nil
	}
}

// handleModalKey interprets keys while an overlay is open. Only
// movement, selection, and dismissal reach the modal; everything else
// is swallowed so a stray playback key cannot act on a hidden pane.
func (m Model) handleModalKey(key string) (tea.Model, tea.Cmd) {
	if c, ok := m.modal.(*confirmModal); ok {
		switch key {
		case "y", "Y", "enter":
			apply := c.apply
			m.closeModal()
			apply(&m)
		case "n", "N", "esc", "q":
			m.closeModal()
		}
		return m, nil
	}

	switch key {
	case "esc", "q":
		m.closeModal()
		return m, nil
	case "enter":
		m.modalSelect()
		return m, nil
	}

	if action, kind := m.tries[config.ModeNormal].Lookup([]string{key}); kind == input.Exact {
		switch {
		case strings.HasPrefix(action, "cursor."):
			m.moveCursor(action)
		case action == "select":
			m.modalSelect()
		case action == "quit", action == "help":
			m.closeModal()
		}
	}
	return m, nil
}

// handleEvent applies one bus event. Every handler sets state from the
// payload it carries; none re-reads the daemon, so replays and stale
// deliveries stay harmless.
func (m Model) handleEvent(ev event.Event) (tea.Model, tea.Cmd) {
	switch ev := ev.(type) {
	case event.Idle:
		m.handleIdle(ev.Subsystem)
		return m, nil

	case event.QueryDone:
		return m.handleQueryDone(ev)

	case event.WorkDone:
		m.handleWorkDone(ev.Result)
		return m, nil

	case event.StatusMessage:
		m.say(ev.Text, ev.Level, ev.Timeout)
		return m, nil

	case event.InfoModal:
		m.openInfo(ev)
		return m, nil

	case event.LogLine:
		m.logsPane.append(ev.Line)
		return m, nil

	case event.RequestRender:
		return m, nil

	case event.ResizeDebounced:
		m.applySize(ev.Cols, ev.Rows)
		return m, nil

	case event.ConfigChanged:
		m.applyConfig(ev)
		return m, nil

	case event.ThemeChanged:
		m.store.SetTheme(ev.Theme)
		m.styles = newStyles(ev.Theme)
		return m, nil

	case event.LyricsChanged:
		m.reloadLyrics()
		return m, nil

	case event.TmuxHook:
		m.handleTmuxHook(ev.Hook)
		return m, nil

	case event.SwitchTab:
		m.switchToTab(ev.Name)
		return m, nil

	case event.Keybind:
		return m.injectKeys(ev.Keys)

	case event.IndexLrcRequested:
		m.work.Submit(work.IndexSingleLrc{Path: ev.Path})
		return m, nil

	case event.SetOption:
		m.applyOption(ev.Name, ev.Value)
		return m, nil

	case event.IpcQuery:
		m.answerIpcQuery(ev)
		return m, nil

	case event.LostConnection:
		m.connected = false
		m.connErr = ev.Err
		m.pauseStatusLoop()
		return m, nil

	case event.Reconnected:
		m.connected = true
		m.connErr = nil
		m.refreshAll()
		return m, nil

	case event.QuitRequested:
		return m, tea.Quit
	}

	m.log.Debug().Type("event", ev).Msg("unhandled event")
	return m, nil
}

// handleIdle refreshes whatever an idle notification invalidated. The
// refreshes are queries with stable replace ids, so bursts collapse at
// the worker.
func (m *Model) handleIdle(subsystem string) {
	switch subsystem {
	case "player", "mixer", "options":
		m.submit(mpd.StatusQuery())

	case "playlist":
		m.submit(mpd.QueueQuery())
		m.submit(mpd.StatusQuery())

	case "database":
		m.songInfo = nil
		m.submit(mpd.StatusQuery())
		m.browse(m.browserPane.path)
		if m.pendingAdd != "" {
			uri := m.pendingAdd
			m.pendingAdd = ""
			m.addURI(uri, uri)
		}

	case "update":
		m.submit(mpd.StatusQuery())

	case "sticker":
		m.songInfo = nil
		if open, ok := m.modal.(*rowsModal); ok && open.uri != "" {
			m.submit(mpd.SongDetailQuery(open.uri))
		}

	case "stored_playlist":
		m.submit(mpd.PlaylistsQuery())

	case "output":
		if _, open := m.modal.(*outputsModal); open {
			m.submit(mpd.OutputsQuery())
		}

	default:
		m.log.Debug().Str("subsystem", subsystem).Msg("idle for unwatched subsystem")
	}
}

// handleQueryDone applies one query result to the pane it was issued
// for, dropping payloads the user has navigated past.
func (m Model) handleQueryDone(ev event.QueryDone) (tea.Model, tea.Cmd) {
	if ev.Err != nil {
		m.handleQueryErr(ev)
		return m, nil
	}

	switch data := ev.Data.(type) {
	case mpd.StatusUpdate:
		m.applyStatus(data)

	case []mpd.Song:
		if ev.Target == mpd.TargetQueue {
			m.applyQueue(data)
		}

	case mpd.BrowseResult:
		m.applyBrowse(data)

	case mpd.SearchResult:
		m.applySearch(data)

	case []mpd.Playlist:
		m.applyPlaylists(data)

	case mpd.PlaylistSongs:
		m.applyPlaylistSongs(data)

	case []mpd.Output:
		if open, ok := m.modal.(*outputsModal); ok {
			open.outputs = data
			open.cur.clamp(len(data))
		} else {
			m.openOutputs(data)
		}

	case mpd.ArtData:
		m.applyArt(data)

	case mpd.SongDetail:
		m.applySongDetail(data)

	case mpd.CommandList:
		m.commands = make(map[string]bool, len(data))
		for _, name := range data {
			m.commands[name] = true
		}

	case mpd.UpdateStarted:
		m.say(fmt.Sprintf("database update started (job %d)", data.JobID), event.LevelInfo, 0)

	case nil:
		// Fire-and-forget command; idle notifications deliver the effect.

	default:
		m.log.Warn().Str("target", ev.Target).Msg("query payload of unexpected type")
	}
	return m, nil
}

func (m *Model) handleQueryErr(ev event.QueryDone) {
	switch ev.Target {
	case mpd.TargetArt:
		// Songs without art are normal; the pane shows its placeholder.
		m.log.Debug().Err(ev.Err).Msg("no album art")
		if m.art != nil {
			m.art.Hide()
		}
		return
	case mpd.TargetBrowser:
		m.browserPane.loading = false
		m.sayErr(ev.Err)
	default:
		m.sayErr(ev.Err)
	}
	m.log.Warn().Err(ev.Err).Str("target", ev.Target).Msg("query failed")
}

// applySongDetail caches the detail per file and shows it. A refresh
// for the open modal keeps the scroll position; otherwise the modal
// opens only while the user is still waiting for this URI, so a slow
// result after a dismissal or a tab switch just fills the cache.
func (m *Model) applySongDetail(detail mpd.SongDetail) {
	if m.songInfo == nil {
		m.songInfo = make(map[string]mpd.SongDetail)
	}
	m.songInfo[detail.Song.URI] = detail

	if open, ok := m.modal.(*rowsModal); ok && open.uri == detail.Song.URI {
		m.pendingInfo = ""
		cur := open.cur
		m.openSongInfo(detail)
		if refreshed, ok := m.modal.(*rowsModal); ok {
			refreshed.cur = cur
			refreshed.cur.clamp(len(refreshed.rows))
		}
		return
	}
	if m.pendingInfo == detail.Song.URI {
		m.pendingInfo = ""
		m.openSongInfo(detail)
	}
}

// applyStatus installs a status snapshot and reacts to song changes:
// lyrics re-resolve and album art refetches.
func (m *Model) applyStatus(up mpd.StatusUpdate) {
	songChanged := up.Song.URI != m.song.URI

	m.connected = true
	m.connErr = nil
	m.status = up.Status
	m.statusAt = time.Now()
	m.song = up.Song

	m.ensureStatusLoop()

	if !songChanged {
		return
	}
	m.resolveLyrics()

	if m.art == nil || m.art.Backend() == art.BackendNone {
		return
	}
	if m.song.URI == "" {
		m.art.Hide()
		return
	}
	m.submit(mpd.ArtQuery(m.song.URI))
}

// applyArt places fetched art bytes, unless the song moved on while
// the fetch was in flight.
func (m *Model) applyArt(ad mpd.ArtData) {
	if m.art == nil {
		return
	}
	if ad.URI != m.song.URI {
		m.log.Debug().Str("uri", ad.URI).Msg("stale album art dropped")
		return
	}
	if len(ad.Data) == 0 {
		m.art.Hide()
		return
	}

	region := art.Rect{
		X:      m.width - artPanelWidth + 2,
		Y:      3,
		Width:  artPanelWidth - 4,
		Height: m.paneHeight() - 2,
	}
	if err := m.art.Show(ad.Data, region); err != nil {
		m.log.Warn().Err(err).Msg("album art placement failed")
	}
}

// handleWorkDone applies a background job result.
func (m *Model) handleWorkDone(result event.WorkResult) {
	switch res := result.(type) {
	case event.LyricsIndexed:
		if res.Err != nil {
			m.sayErr(res.Err)
			return
		}
		m.lyricsIndex = res.Index
		m.reloadLyrics()
		text := fmt.Sprintf("indexed %d lyric files", res.Index.Len())
		if res.Skipped > 0 {
			text += fmt.Sprintf(" (%d skipped)", res.Skipped)
		}
		m.say(text, event.LevelInfo, 0)

	case event.LrcFileIndexed:
		if m.lyricsIndex == nil {
			return
		}
		switch {
		case res.Err != nil:
			m.log.Warn().Err(res.Err).Str("path", res.Path).Msg("lrc index failed")
		case res.Removed:
			m.lyricsIndex.RemovePath(res.Path)
			m.reloadLyrics()
		default:
			m.lyricsIndex.Add(res.Entry)
			m.reloadLyrics()
		}

	case event.ExternalDone:
		if res.Err != nil {
			m.sayErr(res.Err)
			return
		}
		if res.AddToQueue && res.File != "" {
			// Local files are addable over the unix socket as file:// URIs.
			m.submit(mpd.AddCmd("file://" + res.File))
			m.say("added "+res.Title, event.LevelInfo, 0)
			return
		}
		m.say(res.Note+" finished", event.LevelInfo, 0)
	}
}

// applyConfig swaps in a reloaded configuration.
func (m *Model) applyConfig(ev event.ConfigChanged) {
	m.store.SetConfig(ev.Config)
	m.tries = buildTries(ev.Config, m.log)
	m.tabs = ev.Config.Tabs
	if m.activeTab >= len(m.tabs) {
		m.activeTab = 0
	}
	m.restartStatusLoop()
	m.say("configuration reloaded", event.LevelInfo, 0)
}

// applyOption changes one whitelisted option at runtime. The config
// snapshot is immutable, so the change builds a fresh copy.
func (m *Model) applyOption(name, value string) {
	cfg := *m.config()

	switch name {
	case "volume_step":
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 || n > 100 {
			m.say("set volume_step: want 1..100", event.LevelError, 0)
			return
		}
		cfg.VolumeStep = n

	case "status_update_interval_ms":
		n, err := strconv.Atoi(value)
		if err != nil || n < 100 {
			m.say("set status_update_interval_ms: want >= 100", event.LevelError, 0)
			return
		}
		cfg.StatusUpdateIntervalMS = n

	case "album_art.backend":
		switch value {
		case "auto", "kitty", "iterm2", "block", "none":
			cfg.AlbumArt.Backend = value
		default:
			m.say("set album_art.backend: want auto|kitty|iterm2|block|none", event.LevelError, 0)
			return
		}

	default:
		m.say("set: unknown or read-only option "+name, event.LevelError, 0)
		return
	}

	m.store.SetConfig(&cfg)
	m.restartStatusLoop()
	m.say("set "+name+" = "+value, event.LevelInfo, 0)
}

// handleTmuxHook reacts to pane visibility changes: detaching hides
// art placements, attaching re-fetches them.
func (m *Model) handleTmuxHook(hook string) {
	m.log.Debug().Str("hook", hook).Msg("tmux hook")
	if m.art == nil {
		return
	}
	if strings.Contains(hook, "detach") {
		m.art.Hide()
		return
	}
	if m.song.URI != "" && m.art.Backend() != art.BackendNone {
		m.submit(mpd.ArtQuery(m.song.URI))
	}
}

// injectKeys replays an IPC key sequence through the normal-mode
// handler.
func (m Model) injectKeys(keys string) (tea.Model, tea.Cmd) {
	if m.mode != config.ModeNormal {
		m.log.Warn().Str("keys", keys).Msg("keybind ignored outside normal mode")
		return m, nil
	}

	var cmds []tea.Cmd
	model := m
	for _, key := range input.ParseSequence(keys) {
		next, cmd := model.handleNormalKey(key)
		model = next.(Model)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	return model, tea.Batch(cmds...)
}

// answerIpcQuery writes the requested state targets to the connection,
// one JSON object per line in request order, then closes it. Unknown
// targets answer with null rather than failing the ones before them.
func (m *Model) answerIpcQuery(ev event.IpcQuery) {
	defer ev.Conn.Close()

	enc := json.NewEncoder(ev.Conn)
	for _, target := range ev.Targets {
		var value any
		switch target {
		case "status":
			value = m.status
		case "song":
			value = m.song
		case "queue":
			value = m.queue
		case "tab":
			value = m.currentTab()
		case "version":
			value = m.version
		default:
			m.log.Debug().Str("target", target).Msg("unknown ipc query target")
		}
		if err := enc.Encode(map[string]any{target: value}); err != nil {
			m.log.Warn().Err(err).Msg("ipc query reply failed")
			return
		}
	}
}
