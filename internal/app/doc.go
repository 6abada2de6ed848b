// Package app provides the orchestration layer for the rondo application.
//
// # Overview
//
// This package wires together configuration, the MPD workers, the event bus,
// filesystem watchers, the IPC server, and the UI to create the complete
// rondo experience. It serves as the composition root where all dependencies
// are initialized and connected; nothing here implements behavior of its own.
//
// # Architecture
//
// The app package follows a strict bring-up order:
//
//  1. Load the config from ~/.config/rondo/config.toml and layer the
//     command-line overrides on top
//  2. Open the log file under the cache dir; log lines also feed the
//     logs pane through the event bus
//  3. Load the configured theme, falling back to the built-in default
//  4. Create the shared state store, scheduler, MPD worker, idle
//     listener, and work worker
//  5. Bind the per-pid IPC socket (fatal when it cannot be bound)
//  6. Start the filesystem watchers for hot reload
//  7. Restore the previous session (active tab, browser path) and
//     build the UI model
//  8. Queue the initial status and queue snapshot, then start the
//     workers and the program
//
// # Data Flow
//
//	┌──────────────┐
//	│   Run()      │ Initialize everything
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()      Read config, apply flag overrides
//	       ├─────> openLogger()       Log file + logs pane writer
//	       ├─────> state.NewStore()   Shared config/theme snapshots
//	       ├─────> mpd.NewWorker()    Command connection (queued queries)
//	       ├─────> mpd.NewIdleListener()  Idle connection (change events)
//	       ├─────> work.NewWorker()   Lyrics indexing, external commands
//	       ├─────> ipc.NewServer()    Per-pid unix socket
//	       ├─────> startWatchers()    Config/theme/lyrics hot reload
//	       └─────> prog.Run()         Start TUI (blocks)
//
//	Event pump:
//	┌─────────────────────────────────────────┐
//	│ bus.Events() ──> prog.Send(ev)          │
//	│   workers, watchers, IPC, scheduler     │
//	│   all produce; the model alone consumes │
//	└─────────────────────────────────────────┘
//
// Every background producer emits onto the event bus; a single pump
// goroutine forwards bus events into the bubbletea program, so the
// model's Update is the one place application state changes.
//
// # Hot Reload
//
// Three watchers run for the life of the program:
//
//   - The config file: a settled write loads a fresh snapshot, re-applies
//     the command-line overrides, and emits ConfigChanged. An invalid
//     file is rejected: the running config stays, the user is told via
//     the status bar.
//   - The themes directory: a write to the active theme's file reloads
//     it and emits ThemeChanged; other theme files are ignored.
//   - The lyrics directory: a changed .lrc file is reindexed in place.
//
// # Shutdown
//
// When prog.Run returns, Run closes components in producer-first order:
// IPC server, watchers, idle listener, MPD worker, work worker,
// scheduler, then the bus. Closing the bus ends the pump goroutine;
// Run waits for it before the art renderer writes its teardown
// sequence and the session is saved. A cancelled context funnels into
// the same path by sending the model a quit event.
//
// # Error Handling
//
// Fatal errors (returned from Run):
//
//   - Configuration file not found or invalid
//   - Log file cannot be opened
//   - IPC socket cannot be bound
//
// Recoverable conditions (logged, startup continues):
//
//   - Theme missing or invalid (default theme is used)
//   - A watcher cannot start (that reload path is disabled)
//   - No previous log to seed the logs pane
//
// Connection failures to MPD are not startup errors at all: the worker
// and idle listener reconnect with backoff and the UI shows the
// connection state.
package app
