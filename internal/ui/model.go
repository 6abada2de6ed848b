package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/ident"
	"github.com/rondo-mpd/rondo/internal/input"
	"github.com/rondo-mpd/rondo/internal/lrc"
	"github.com/rondo-mpd/rondo/internal/mpd"
	"github.com/rondo-mpd/rondo/internal/sched"
	"github.com/rondo-mpd/rondo/internal/state"
	"github.com/rondo-mpd/rondo/internal/ui/art"
	"github.com/rondo-mpd/rondo/internal/work"
)

// keySequenceTimeout clears a partially entered key sequence.
const keySequenceTimeout = time.Second

// resizeDebounce settles a burst of terminal resize reports before the
// panes re-layout.
const resizeDebounce = 100 * time.Millisecond

// Options wires the UI to the rest of the program.
type Options struct {
	Bus    *event.Bus
	Worker *mpd.Worker
	Work   *work.Worker
	Sched  *sched.Scheduler
	Store  *state.Store
	Art    *art.Renderer
	Log    zerolog.Logger

	// Session state restored from the previous run.
	InitialTab  string
	BrowserPath string

	SeedLog []string
	Version string
}

// Model is the root application state. It is the single consumer of
// the event bus: every background happening arrives here as a message
// and nothing else mutates what the panes render.
type Model struct {
	bus    *event.Bus
	worker *mpd.Worker
	work   *work.Worker
	sched  *sched.Scheduler
	store  *state.Store
	art    *art.Renderer
	log    zerolog.Logger

	version string

	// Layout.
	width  int
	height int
	ready  bool
	styles Styles

	resizeJob ident.ID

	// Connection.
	connected bool
	connErr   error

	// Daemon snapshots, replaced wholesale by query results.
	status   mpd.Status
	song     mpd.Song
	statusAt time.Time
	queue    []mpd.Song
	commands map[string]bool

	// Song detail (tags and stickers) per file, filled lazily as info
	// modals open and dropped when stickers or the database change.
	// pendingInfo is the URI whose detail the user is waiting to see;
	// it gates the deferred modal open so a slow result cannot pop up
	// after the user has moved on.
	songInfo    map[string]mpd.SongDetail
	pendingInfo string

	statusJob ident.ID

	// Input.
	mode        string
	tries       map[string]*input.Trie
	pendingKeys []string
	keyGen      int
	cmdInput    textinput.Model

	// Tabs and panes.
	tabs      []string
	activeTab int

	queuePane     queueState
	browserPane   browserState
	searchPane    searchState
	playlistsPane playlistsState
	lyricsPane    lyricsState
	logsPane      logsState

	lyricsIndex *lrc.Index

	// Modal overlay; nil when none is open.
	modal modal

	// Status bar message.
	message    statusMessage
	messageJob ident.ID

	// URI waiting to be added once the database picks it up.
	pendingAdd string
}

type statusMessage struct {
	text      string
	level     event.Level
	expiresAt time.Time
}

func (s statusMessage) active() bool {
	return s.text != "" && time.Now().Before(s.expiresAt)
}

// New builds the root model from the shared components.
func New(opts Options) Model {
	cfg := opts.Store.Config()

	m := Model{
		bus:       opts.Bus,
		worker:    opts.Worker,
		work:      opts.Work,
		sched:     opts.Sched,
		store:     opts.Store,
		art:       opts.Art,
		log:       opts.Log.With().Str("component", "ui").Logger(),
		version:   opts.Version,
		mode:      config.ModeNormal,
		tabs:      cfg.Tabs,
		statusJob: ident.None,
		resizeJob: ident.None,
	}

	m.styles = newStyles(opts.Store.Theme())
	m.tries = buildTries(cfg, m.log)

	ti := textinput.New()
	ti.Prompt = ":"
	ti.CharLimit = 256
	m.cmdInput = ti

	m.searchPane.init()
	m.logsPane.init(opts.SeedLog)

	// Restore the previous session. Unknown tab names (the config may
	// have changed between runs) leave the default tab focused.
	if opts.BrowserPath != "" {
		m.browserPane.path = opts.BrowserPath
	}
	for i, tab := range m.tabs {
		if tab == opts.InitialTab {
			m.setTab(i)
			break
		}
	}

	return m
}

// buildTries compiles the per-mode key tries from config. Conflicting
// user bindings are logged and skipped rather than failing startup.
func buildTries(cfg *config.Config, log zerolog.Logger) map[string]*input.Trie {
	tries := make(map[string]*input.Trie, len(cfg.Keybindings))
	for mode, bindings := range cfg.Keybindings {
		trie, errs := input.FromBindings(bindings)
		for _, err := range errs {
			log.Warn().Err(err).Str("mode", mode).Msg("keybinding skipped")
		}
		tries[mode] = trie
	}
	return tries
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.EnterAltScreen
}

// Update implements tea.Model. Bus events are forwarded here by the
// pump goroutine, so this is the single thread that touches UI state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case keyTimeoutMsg:
		if msg.gen == m.keyGen && len(m.pendingKeys) > 0 {
			m.pendingKeys = nil
		}
		return m, nil

	case event.Event:
		return m.handleEvent(msg)
	}

	return m, nil
}

// handleResize applies the first size immediately so the program has a
// layout to draw, then debounces the rest through the scheduler.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	if !m.ready {
		m.applySize(msg.Width, msg.Height)
		m.ready = true
		return m, nil
	}

	if m.resizeJob != ident.None {
		m.sched.Cancel(m.resizeJob)
	}
	cols, rows := msg.Width, msg.Height
	bus := m.bus
	m.resizeJob = m.sched.Once(resizeDebounce, func() {
		bus.TryEmit(event.ResizeDebounced{Cols: cols, Rows: rows})
	})
	return m, nil
}

func (m *Model) applySize(width, height int) {
	m.width = width
	m.height = height
	m.logsPane.resize(width, m.paneHeight())
	if m.modal != nil {
		m.modal.resize(width, height)
	}
}

// paneHeight is the number of rows left for the active pane: everything
// minus header, progress, tab bar, and status bar.
func (m Model) paneHeight() int {
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "loading..."
	}

	var view string
	if m.modal != nil {
		view = m.modal.view(m.styles, m.width, m.paneHeight())
	} else {
		view = m.renderPane()
	}

	return m.renderHeader() + "\n" +
		m.renderTabBar() + "\n" +
		view + "\n" +
		m.renderStatusBar()
}

func (m Model) renderPane() string {
	switch m.currentTab() {
	case "queue":
		return m.renderQueue()
	case "browser":
		return m.renderBrowser()
	case "search":
		return m.renderSearch()
	case "playlists":
		return m.renderPlaylists()
	case "lyrics":
		return m.renderLyrics()
	case "logs":
		return m.renderLogs()
	default:
		return ""
	}
}

func (m Model) currentTab() string {
	if m.activeTab < 0 || m.activeTab >= len(m.tabs) {
		return ""
	}
	return m.tabs[m.activeTab]
}

// config returns the active configuration snapshot.
func (m Model) config() *config.Config {
	return m.store.Config()
}

// elapsed extrapolates playback position between status updates so the
// progress bar advances smoothly.
func (m Model) elapsed() time.Duration {
	e := m.status.Elapsed
	if m.status.Playing() && !m.statusAt.IsZero() {
		e += time.Since(m.statusAt)
	}
	if m.status.Duration > 0 && e > m.status.Duration {
		e = m.status.Duration
	}
	return e
}

// submit hands a query to the MPD worker.
func (m *Model) submit(q mpd.Query) {
	m.worker.Submit(q)
}

// say puts a message on the status bar and schedules the render that
// clears it again.
func (m *Model) say(text string, level event.Level, timeout time.Duration) {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	m.message = statusMessage{
		text:      text,
		level:     level,
		expiresAt: time.Now().Add(timeout),
	}

	if m.messageJob != ident.None {
		m.sched.Cancel(m.messageJob)
	}
	bus := m.bus
	m.messageJob = m.sched.Once(timeout, func() {
		bus.TryEmit(event.RequestRender{})
	})
}

func (m *Model) sayErr(err error) {
	m.say(err.Error(), event.LevelError, 8*time.Second)
}

// ensureStatusLoop starts or retunes the periodic status poll. The
// loop idles while playback is stopped; idle notifications cover state
// changes there.
func (m *Model) ensureStatusLoop() {
	if !m.connected || m.status.Stopped() {
		m.pauseStatusLoop()
		return
	}
	if m.statusJob != ident.None {
		return
	}
	worker := m.worker
	m.statusJob = m.sched.Every(m.config().StatusUpdateInterval(), func() {
		worker.Submit(mpd.StatusQuery())
	})
}

func (m *Model) pauseStatusLoop() {
	if m.statusJob == ident.None {
		return
	}
	m.sched.Cancel(m.statusJob)
	m.statusJob = ident.None
}

// restartStatusLoop applies a new poll interval.
func (m *Model) restartStatusLoop() {
	m.pauseStatusLoop()
	m.ensureStatusLoop()
}

// refreshAll re-issues the full snapshot after (re)connecting.
func (m *Model) refreshAll() {
	m.submit(mpd.StatusQuery())
	m.submit(mpd.QueueQuery())
	m.submit(mpd.PlaylistsQuery())
	m.submit(mpd.BrowseQuery(m.browserPane.path))
	m.submit(mpd.CommandsQuery())
}

// can reports whether the daemon permits the named command. Until the
// command list arrives everything is assumed allowed; the daemon still
// rejects what it must.
func (m *Model) can(name string) bool {
	if len(m.commands) == 0 {
		return true
	}
	return m.commands[name]
}

// Session reports what the next run should restore.
func (m Model) Session() (lastTab, browserPath string) {
	return m.currentTab(), m.browserPane.path
}

// Messages local to the UI loop.

type keyTimeoutMsg struct{ gen int }

func keyTimeoutCmd(gen int) tea.Cmd {
	return tea.Tick(keySequenceTimeout, func(time.Time) tea.Msg {
		return keyTimeoutMsg{gen: gen}
	})
}
