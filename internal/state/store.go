package state

import (
	"sync"

	"github.com/rondo-mpd/rondo/internal/config"
)

// Store holds the active configuration and theme. The UI loop swaps
// whole snapshots in after a reload; watcher callbacks and other
// goroutines read the current pointers and must treat the values as
// read-only — mutation happens by replacement, never in place.
type Store struct {
	mu     sync.RWMutex
	config *config.Config
	theme  *config.Theme
}

// NewStore returns a store seeded with the startup snapshot.
func NewStore(cfg *config.Config, theme *config.Theme) *Store {
	return &Store{config: cfg, theme: theme}
}

// Config returns the active configuration. Never nil: a zero store
// yields the defaults.
func (s *Store) Config() *config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.config == nil {
		return config.Default()
	}
	return s.config
}

// Theme returns the active theme. Never nil: a zero store yields the
// built-in theme.
func (s *Store) Theme() *config.Theme {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.theme == nil {
		return config.DefaultTheme()
	}
	return s.theme
}

// SetConfig publishes a new configuration snapshot.
func (s *Store) SetConfig(cfg *config.Config) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.config = cfg
}

// SetTheme publishes a new theme snapshot.
func (s *Store) SetTheme(theme *config.Theme) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.theme = theme
}
