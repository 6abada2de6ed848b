package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/ident"
	"github.com/rondo-mpd/rondo/internal/mpd"
	"github.com/rondo-mpd/rondo/internal/sched"
	"github.com/rondo-mpd/rondo/internal/state"
	"github.com/rondo-mpd/rondo/internal/work"
)

// testModel builds a model against an unstarted worker, so submitted
// queries pile up where Pending can count them.
func testModel(t *testing.T) Model {
	t.Helper()

	log := zerolog.Nop()
	bus := event.NewBus(64)
	t.Cleanup(bus.Close)

	s := sched.New(log)
	t.Cleanup(s.Stop)

	worker := mpd.NewWorker("127.0.0.1:6600", "", bus, log)
	store := state.NewStore(config.Default(), config.DefaultTheme())

	m := New(Options{
		Bus:     bus,
		Worker:  worker,
		Work:    work.NewWorker(bus, log),
		Sched:   s,
		Store:   store,
		Log:     log,
		Version: "test",
	})
	m.applySize(100, 30)
	m.ready = true
	return m
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEscape}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func TestNew_BuildsTriesForEveryMode(t *testing.T) {
	m := testModel(t)
	for _, mode := range []string{config.ModeNormal, config.ModeInput, config.ModeCommand} {
		if m.tries[mode] == nil {
			t.Fatalf("no trie for mode %q", mode)
		}
	}
	if m.mode != config.ModeNormal {
		t.Fatalf("mode = %q, want %q", m.mode, config.ModeNormal)
	}
}

func TestHandleNormalKey_BuffersPrefix(t *testing.T) {
	m := testModel(t)

	next, cmd := m.handleNormalKey("g")
	m = next.(Model)
	if len(m.pendingKeys) != 1 || m.pendingKeys[0] != "g" {
		t.Fatalf("pendingKeys = %v, want [g]", m.pendingKeys)
	}
	if cmd == nil {
		t.Fatal("prefix should arm the timeout tick")
	}

	m.queue = []mpd.Song{{URI: "a"}, {URI: "b"}, {URI: "c"}}
	m.queuePane.cursor = 2

	next, _ = m.handleNormalKey("g")
	m = next.(Model)
	if len(m.pendingKeys) != 0 {
		t.Fatalf("pendingKeys = %v, want empty after exact match", m.pendingKeys)
	}
	if m.queuePane.cursor != 0 {
		t.Fatalf("cursor = %d, want 0 after cursor.top", m.queuePane.cursor)
	}
}

func TestHandleNormalKey_UnboundKeyClears(t *testing.T) {
	m := testModel(t)

	next, _ := m.handleNormalKey("g")
	m = next.(Model)

	// "g x" matches nothing; the x alone matches nothing either.
	next, _ = m.handleNormalKey("x")
	m = next.(Model)
	if len(m.pendingKeys) != 0 {
		t.Fatalf("pendingKeys = %v, want empty", m.pendingKeys)
	}
}

func TestUpdate_KeyTimeoutClearsMatchingGeneration(t *testing.T) {
	m := testModel(t)
	m.pendingKeys = []string{"g"}
	m.keyGen = 3

	next, _ := m.Update(keyTimeoutMsg{gen: 2})
	m = next.(Model)
	if len(m.pendingKeys) != 1 {
		t.Fatal("stale timeout should not clear the buffer")
	}

	next, _ = m.Update(keyTimeoutMsg{gen: 3})
	m = next.(Model)
	if len(m.pendingKeys) != 0 {
		t.Fatal("matching timeout should clear the buffer")
	}
}

func TestDispatch_TabCycle(t *testing.T) {
	m := testModel(t)
	if got := m.currentTab(); got != "queue" {
		t.Fatalf("initial tab = %q, want queue", got)
	}

	m.dispatch("tab.next")
	if got := m.currentTab(); got != "browser" {
		t.Fatalf("tab = %q, want browser", got)
	}
	if m.worker.Pending() == 0 {
		t.Fatal("first visit to browser should request a listing")
	}

	m.dispatch("tab.prev")
	if got := m.currentTab(); got != "queue" {
		t.Fatalf("tab = %q, want queue", got)
	}

	m.dispatch("tab.4")
	if got := m.currentTab(); got != "playlists" {
		t.Fatalf("tab = %q, want playlists", got)
	}

	m.dispatch("tab.9")
	if got := m.currentTab(); got != "playlists" {
		t.Fatalf("out-of-range tab slot moved focus to %q", got)
	}
}

func TestDispatch_VolumeWithoutMixer(t *testing.T) {
	m := testModel(t)
	m.status.Volume = -1

	m.dispatch("volume.up")
	if m.worker.Pending() != 0 {
		t.Fatal("no setvol should be sent without a mixer")
	}
	if !m.message.active() {
		t.Fatal("expected a warning on the status bar")
	}
}

func TestDispatch_PlaybackToggle(t *testing.T) {
	m := testModel(t)

	m.status.State = mpd.StatePlay
	m.dispatch("playback.toggle")
	if m.worker.Pending() != 1 {
		t.Fatalf("pending = %d, want 1", m.worker.Pending())
	}

	m.status.State = mpd.StateStop
	m.dispatch("playback.toggle")
	if m.worker.Pending() != 2 {
		t.Fatalf("pending = %d, want 2", m.worker.Pending())
	}
}

func TestSay_MessageExpires(t *testing.T) {
	m := testModel(t)

	m.say("hello", event.LevelInfo, 30*time.Millisecond)
	if !m.message.active() {
		t.Fatal("message should be active right after say")
	}

	time.Sleep(50 * time.Millisecond)
	if m.message.active() {
		t.Fatal("message should have expired")
	}
}

func TestElapsed_ExtrapolatesWhilePlaying(t *testing.T) {
	m := testModel(t)
	m.status = mpd.Status{
		State:    mpd.StatePlay,
		Elapsed:  10 * time.Second,
		Duration: 60 * time.Second,
	}
	m.statusAt = time.Now().Add(-2 * time.Second)

	got := m.elapsed()
	if got < 11900*time.Millisecond || got > 12500*time.Millisecond {
		t.Fatalf("elapsed = %v, want about 12s", got)
	}

	m.status.State = mpd.StatePause
	if got := m.elapsed(); got != 10*time.Second {
		t.Fatalf("paused elapsed = %v, want exactly 10s", got)
	}
}

func TestElapsed_CapsAtDuration(t *testing.T) {
	m := testModel(t)
	m.status = mpd.Status{
		State:    mpd.StatePlay,
		Elapsed:  59 * time.Second,
		Duration: 60 * time.Second,
	}
	m.statusAt = time.Now().Add(-10 * time.Second)

	if got := m.elapsed(); got != 60*time.Second {
		t.Fatalf("elapsed = %v, want capped at 60s", got)
	}
}

func TestApplyQueue_ClampsCursor(t *testing.T) {
	m := testModel(t)
	m.queue = make([]mpd.Song, 10)
	m.queuePane.cursor = 9

	m.applyQueue([]mpd.Song{{URI: "a"}, {URI: "b"}})
	if m.queuePane.cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.queuePane.cursor)
	}
}

func TestRenderQueueRow_FitsNarrowTerminal(t *testing.T) {
	m := testModel(t)
	m.applyQueue([]mpd.Song{{
		URI:      "x.flac",
		Title:    "a title long enough to overflow a tiny pane",
		Artist:   "an artist with a very long name",
		Duration: 3 * time.Minute,
	}})

	for _, width := range []int{4, 10, 18, 40, 100} {
		row := m.renderQueueRow(0, width)
		if got := lipgloss.Width(row); got > width {
			t.Fatalf("row spans %d cells at pane width %d: %q", got, width, row)
		}
	}
}

func TestQueueMove_FollowsSong(t *testing.T) {
	m := testModel(t)
	m.queue = []mpd.Song{{URI: "a"}, {URI: "b"}, {URI: "c"}}
	m.queuePane.cursor = 1

	m.queueMove(1)
	if m.queuePane.cursor != 2 {
		t.Fatalf("cursor = %d, want 2", m.queuePane.cursor)
	}
	if m.worker.Pending() != 1 {
		t.Fatal("move should submit one command")
	}

	// At the edge nothing happens.
	m.queueMove(1)
	if m.queuePane.cursor != 2 || m.worker.Pending() != 1 {
		t.Fatal("move past the end should be a no-op")
	}
}

func TestSession_ReportsTabAndPath(t *testing.T) {
	m := testModel(t)
	m.browserPane.path = "albums/2020"
	m.setTab(1)

	tab, path := m.Session()
	if tab != "browser" || path != "albums/2020" {
		t.Fatalf("Session() = %q %q, want browser albums/2020", tab, path)
	}
}

func TestNew_RestoresSessionTabAndPath(t *testing.T) {
	log := zerolog.Nop()
	bus := event.NewBus(64)
	t.Cleanup(bus.Close)

	s := sched.New(log)
	t.Cleanup(s.Stop)

	worker := mpd.NewWorker("127.0.0.1:6600", "", bus, log)
	m := New(Options{
		Bus:         bus,
		Worker:      worker,
		Work:        work.NewWorker(bus, log),
		Sched:       s,
		Store:       state.NewStore(config.Default(), config.DefaultTheme()),
		Log:         log,
		InitialTab:  "browser",
		BrowserPath: "albums/2020",
	})

	if got := m.currentTab(); got != "browser" {
		t.Fatalf("currentTab() = %q, want browser", got)
	}
	if m.browserPane.path != "albums/2020" {
		t.Fatalf("browser path = %q, want albums/2020", m.browserPane.path)
	}
	if worker.Pending() == 0 {
		t.Fatal("restoring the browser tab should queue its listing")
	}
}

func TestNew_UnknownInitialTabKeepsDefault(t *testing.T) {
	log := zerolog.Nop()
	bus := event.NewBus(64)
	t.Cleanup(bus.Close)

	s := sched.New(log)
	t.Cleanup(s.Stop)

	m := New(Options{
		Bus:        bus,
		Worker:     mpd.NewWorker("127.0.0.1:6600", "", bus, log),
		Work:       work.NewWorker(bus, log),
		Sched:      s,
		Store:      state.NewStore(config.Default(), config.DefaultTheme()),
		Log:        log,
		InitialTab: "gone",
	})

	if got := m.currentTab(); got != "queue" {
		t.Fatalf("currentTab() = %q, want queue", got)
	}
}

func TestEnsureStatusLoop_PausedWhileStopped(t *testing.T) {
	m := testModel(t)
	m.connected = true
	m.status.State = mpd.StateStop

	m.ensureStatusLoop()
	if m.statusJob != ident.None {
		t.Fatal("status loop should stay paused while stopped")
	}

	m.status.State = mpd.StatePlay
	m.ensureStatusLoop()
	if m.statusJob == ident.None {
		t.Fatal("status loop should start while playing")
	}

	m.status.State = mpd.StateStop
	m.ensureStatusLoop()
	if m.statusJob != ident.None {
		t.Fatal("status loop should pause again on stop")
	}
}
