package app

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/state"
	"github.com/rondo-mpd/rondo/internal/watch"
	"github.com/rondo-mpd/rondo/internal/work"
)

// watchers bundles the filesystem watchers so Run can close them as
// one unit.
type watchers struct {
	all []*watch.Watcher
}

func (w *watchers) Close() {
	for _, watcher := range w.all {
		watcher.Close()
	}
}

// startWatchers wires hot reload: the config file, the themes
// directory, and the lyrics directory. A watcher that cannot start is
// logged and skipped; rondo runs without it.
func startWatchers(cfg *config.Config, opts Options, store *state.Store, bus *event.Bus, jobs *work.Worker, log zerolog.Logger) *watchers {
	ws := &watchers{}

	configPath := cfg.Path()
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	cw, err := watch.WatchFile(configPath, 0, func(removed bool) {
		if removed {
			return
		}
		reloadConfigFile(configPath, opts, store, bus, jobs, log)
	}, log)
	if err != nil {
		log.Warn().Err(err).Str("path", configPath).Msg("config not watched")
	} else {
		ws.all = append(ws.all, cw)
	}

	themesDir := filepath.Join(config.Dir(), "themes")
	tw, err := watch.New(themesDir, watch.Options{
		Match: func(path string) bool { return strings.HasSuffix(path, ".toml") },
		OnChange: func(path string, removed bool) {
			if removed {
				return
			}
			reloadThemeFile(path, store, bus, log)
		},
	}, log)
	if err != nil {
		log.Debug().Err(err).Str("dir", themesDir).Msg("themes not watched")
	} else {
		ws.all = append(ws.all, tw)
	}

	if cfg.LyricsDir != "" {
		dir := cfg.LyricsDir
		lw, err := watch.New(dir, watch.Options{
			Recursive: true,
			Match:     func(path string) bool { return strings.HasSuffix(path, ".lrc") },
			OnChange: func(path string, removed bool) {
				bus.Emit(event.LyricsChanged{})
				jobs.Submit(work.IndexSingleLrc{Path: path, Removed: removed})
			},
		}, log)
		if err != nil {
			log.Warn().Err(err).Str("dir", dir).Msg("lyrics not watched")
		} else {
			ws.all = append(ws.all, lw)
		}
	}

	return ws
}

// reloadConfigFile swaps in a fresh config snapshot after the file
// changed on disk. An invalid file keeps the running config and tells
// the user; a changed theme name loads and applies the new theme; a
// changed lyrics dir triggers a fresh index.
func reloadConfigFile(path string, opts Options, store *state.Store, bus *event.Bus, jobs *work.Worker, log zerolog.Logger) {
	cfg, err := config.Load(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("config reload rejected")
		bus.Emit(event.StatusMessage{Text: "config reload failed: " + err.Error(), Level: event.LevelWarn})
		return
	}
	opts.apply(cfg)

	old := store.Config()
	sameTheme := cfg.Theme == old.Theme

	var theme *config.Theme
	if !sameTheme {
		theme, err = config.LoadTheme(cfg.Theme)
		if err != nil {
			log.Warn().Err(err).Str("theme", cfg.Theme).Msg("new theme not loaded, keeping current")
			bus.Emit(event.StatusMessage{Text: "theme not loaded: " + err.Error(), Level: event.LevelWarn})
		}
	}

	bus.Emit(event.ConfigChanged{Config: cfg, KeepOldTheme: sameTheme || theme == nil})
	if theme != nil {
		bus.Emit(event.ThemeChanged{Theme: theme})
	}
	log.Info().Str("path", path).Msg("config reloaded")

	if cfg.LyricsDir != old.LyricsDir && cfg.LyricsDir != "" {
		jobs.Submit(work.IndexLyrics{Dir: cfg.LyricsDir})
	}
}

// reloadThemeFile applies a themes-directory write when the touched
// file is the active theme; edits to other themes are ignored.
func reloadThemeFile(path string, store *state.Store, bus *event.Bus, log zerolog.Logger) {
	name := strings.TrimSuffix(filepath.Base(path), ".toml")
	if name != store.Config().Theme {
		return
	}
	theme, err := config.LoadThemeFile(path, name)
	if err != nil {
		log.Warn().Err(err).Str("theme", name).Msg("theme reload rejected")
		bus.Emit(event.StatusMessage{Text: "theme reload failed: " + err.Error(), Level: event.LevelWarn})
		return
	}
	bus.Emit(event.ThemeChanged{Theme: theme})
	log.Info().Str("theme", name).Msg("theme reloaded")
}
