package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/ipc"
	"github.com/rondo-mpd/rondo/internal/logtail"
	"github.com/rondo-mpd/rondo/internal/mpd"
	"github.com/rondo-mpd/rondo/internal/prefs"
	"github.com/rondo-mpd/rondo/internal/sched"
	"github.com/rondo-mpd/rondo/internal/state"
	"github.com/rondo-mpd/rondo/internal/ui"
	"github.com/rondo-mpd/rondo/internal/ui/art"
	"github.com/rondo-mpd/rondo/internal/work"
)

// Options configure one rondo run. The string fields mirror the root
// command's flags and override the loaded config when non-empty.
type Options struct {
	ConfigPath string
	Address    string
	Password   string
	Theme      string
	Debug      bool
	Version    string
}

const (
	// busCapacity bounds each producer burst; the pump drains
	// continuously so the bus only fills if the UI wedges.
	busCapacity = 256

	// seedLogLines is how much of the previous log the logs pane
	// shows at startup.
	seedLogLines = 200
)

// Run boots the full-screen client and blocks until the user quits or
// ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}
	opts.apply(cfg)

	bus := event.NewBus(busCapacity)

	log, logFile, err := openLogger(cfg, bus, opts.Debug)
	if err != nil {
		return err
	}
	defer logFile.Close()
	log.Info().Str("version", opts.Version).Str("address", cfg.Address).Msg("starting")

	theme, err := config.LoadTheme(cfg.Theme)
	if err != nil {
		log.Warn().Err(err).Str("theme", cfg.Theme).Msg("theme not loaded, using default")
		theme = config.DefaultTheme()
	}

	store := state.NewStore(cfg, theme)
	scheduler := sched.New(log)
	worker := mpd.NewWorker(cfg.Address, cfg.Password, bus, log)
	idle := mpd.NewIdleListener(cfg.Address, cfg.Password, bus, log)
	jobs := work.NewWorker(bus, log)

	server, err := ipc.NewServer(ipc.SocketPath(os.Getpid()), bus, log)
	if err != nil {
		return fmt.Errorf("ipc server: %w", err)
	}

	watchers := startWatchers(cfg, opts, store, bus, jobs, log)

	renderer := art.NewRenderer(art.Probe(cfg.AlbumArt.Backend), os.Stdout, log)

	session := prefs.Load("")
	seed, err := logtail.Read(cfg.LogPath(), seedLogLines)
	if err != nil {
		log.Debug().Err(err).Msg("no previous log to seed the logs pane")
	}

	model := ui.New(ui.Options{
		Bus:         bus,
		Worker:      worker,
		Work:        jobs,
		Sched:       scheduler,
		Store:       store,
		Art:         renderer,
		Log:         log,
		InitialTab:  session.LastTab,
		BrowserPath: session.BrowserPath,
		SeedLog:     seed,
		Version:     opts.Version,
	})

	// The initial snapshot queries queue before the worker starts, so
	// they run the moment the connection is up.
	worker.Submit(mpd.StatusQuery())
	worker.Submit(mpd.QueueQuery())
	worker.Submit(mpd.CommandsQuery())

	worker.Start()
	idle.Start()
	jobs.Start()
	if cfg.LyricsDir != "" {
		jobs.Submit(work.IndexLyrics{Dir: cfg.LyricsDir})
	}

	prog := tea.NewProgram(model, tea.WithAltScreen())

	// Pump bus events into the program. The bus never closes its event
	// channel, so the pump watches Done; Run waits for it so no Send
	// races teardown.
	pumped := make(chan struct{})
	go func() {
		defer close(pumped)
		for {
			select {
			case ev := <-bus.Events():
				prog.Send(ev)
			case <-bus.Done():
				return
			}
		}
	}()

	// A cancelled context asks the model to quit, so teardown runs in
	// the same order as a user quit.
	stopCtxWatch := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			prog.Send(event.QuitRequested{})
		case <-stopCtxWatch:
		}
	}()

	final, runErr := prog.Run()
	close(stopCtxWatch)

	server.Close()
	watchers.Close()
	idle.Close()
	worker.Close()
	jobs.Close()
	scheduler.Stop()
	bus.Close()
	<-pumped
	renderer.Cleanup()

	if m, ok := final.(ui.Model); ok {
		lastTab, browserPath := m.Session()
		if err := prefs.Save("", prefs.Prefs{LastTab: lastTab, BrowserPath: browserPath}); err != nil {
			log.Warn().Err(err).Msg("session not saved")
		}
	}

	log.Info().Msg("bye")
	if runErr != nil {
		return fmt.Errorf("ui: %w", runErr)
	}
	return nil
}

// apply layers the command-line overrides onto cfg.
func (o Options) apply(cfg *config.Config) {
	if o.Address != "" {
		cfg.Address = o.Address
	}
	if o.Password != "" {
		cfg.Password = o.Password
	}
	if o.Theme != "" {
		cfg.Theme = o.Theme
	}
}

// openLogger opens the log file under the cache dir and builds the
// logger that feeds both the file and the logs pane. The UI owns the
// terminal, so nothing logs to stderr here.
func openLogger(cfg *config.Config, bus *event.Bus, debug bool) (zerolog.Logger, *os.File, error) {
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return zerolog.Logger{}, nil, fmt.Errorf("open log: %w", err)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	writer := zerolog.ConsoleWriter{
		Out:        io.MultiWriter(file, logtail.NewWriter(bus)),
		TimeFormat: time.RFC3339,
		NoColor:    true,
	}
	return zerolog.New(writer).Level(level).With().Timestamp().Logger(), file, nil
}
