// Package ui implements the terminal interface: a single bubbletea
// model that owns every piece of visible state and renders it into
// header, tab bar, pane, and status bar.
//
// # Overview
//
// Model is the root and only tea.Model. Update handles three message
// families: terminal input (tea.KeyMsg, tea.WindowSizeMsg), internal
// ticks (key sequence timeout), and bus events forwarded by the pump
// goroutine in internal/app. Because the pump serialises everything
// through Update, no pane state needs locking.
//
// # State ownership
//
// The model's snapshots of daemon state (status, song, queue, browse
// listings, search results, playlists) are replaced wholesale by query
// results and never mutated incrementally. Idle notifications do not
// carry data; they trigger the matching query, and the answer
// overwrites the snapshot. This makes every handler idempotent and
// makes stale deliveries harmless.
//
// # Staleness
//
// Hierarchical panes remember what their in-flight query was for: the
// browser keeps the requested path, search compares against the
// current input text, the playlists pane checks the selected name, and
// album art carries the song URI it was fetched for. A result that no
// longer matches is logged and dropped instead of applied.
//
// # Input
//
// Keys resolve through per-mode prefix tries built from config.
// Normal mode buffers multi-key sequences ("g g") and clears the
// buffer after a timeout tick; input and command modes forward
// everything except the cancel/confirm bindings to the focused
// textinput. Actions are plain strings ("playback.toggle"), so user
// rebinding never touches dispatch.
//
// # Blocking
//
// Nothing in this package blocks. MPD traffic goes through the worker,
// filesystem scans through the work worker, and timers through the
// scheduler; each reports back over the bus.
package ui
