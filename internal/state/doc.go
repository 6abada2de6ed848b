// Package state shares slow-changing runtime state between the UI
// loop and background goroutines.
//
// # Overview
//
// The Store holds the active configuration and theme. Fast-changing
// player state never passes through here: it lives in the UI model,
// which is only touched from the single Update loop. The Store exists
// for the handful of values that goroutines outside that loop need to
// read — the config-file watcher compares the old theme name against
// a freshly loaded config, and reload callbacks need the current
// lyrics directory and intervals.
//
// # Concurrency Model
//
// Single writer, several readers, coordinated by an RWMutex:
//
//	UI loop (writer):                 watcher callbacks (readers):
//	apply ConfigChanged               cfg := store.Config()
//	store.SetConfig(newCfg)  ──────→  compare, reload, emit event
//
// Values are immutable by convention. SetConfig and SetTheme replace
// the whole pointer; nothing ever mutates a published Config or Theme
// in place, so readers can hold the returned pointer without copying.
//
// # Update Semantics
//
// A reload that fails to parse never reaches the Store: the loader
// reports the error, the UI shows it in the status bar, and the last
// good snapshot stays active. Only validated snapshots are published.
package state
