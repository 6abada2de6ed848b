package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is one immutable snapshot of rondo's settings. The running
// application never mutates a Config in place; hot reload builds a fresh
// snapshot and swaps the pointer.
type Config struct {
	// Address is "host:port" for TCP or an absolute path to MPD's unix
	// socket.
	Address  string `toml:"address"`
	Password string `toml:"password"`

	// Theme names a file under <config dir>/themes/<name>.toml. Empty uses
	// the built-in default theme.
	Theme string `toml:"theme"`

	LyricsDir string `toml:"lyrics_dir"`
	CacheDir  string `toml:"cache_dir"`

	// StatusUpdateIntervalMS is the cadence of the periodic status query
	// while something is playing.
	StatusUpdateIntervalMS int `toml:"status_update_interval_ms"`

	// VolumeStep is the increment used by the volume up/down actions.
	VolumeStep int `toml:"volume_step"`

	// Tabs is the ordered list of panes shown in the tab bar. Valid names:
	// queue, browser, search, playlists, lyrics, logs.
	Tabs []string `toml:"tabs"`

	AlbumArt AlbumArt `toml:"album_art"`

	// Downloader is the argv template run by the addyt command; every "%u"
	// is replaced by the URL and "%d" by the download directory.
	Downloader []string `toml:"downloader"`

	// Keybindings maps input mode -> key sequence -> action name. Sequences
	// are space-separated keys ("g g", "ctrl+d"). User entries are merged
	// over the defaults; binding a sequence to "" removes it.
	Keybindings map[string]map[string]string `toml:"keybindings"`

	// path the snapshot was loaded from; empty when built from defaults.
	path string
}

// AlbumArt configures the album art pane.
type AlbumArt struct {
	// Backend is one of auto, kitty, iterm2, block, none.
	Backend string `toml:"backend"`
	// MaxSizePx caps the decoded image's larger edge; zero keeps the
	// original size.
	MaxSizePx int `toml:"max_size_px"`
}

const (
	appDirName      = "rondo"
	configFileName  = "config.toml"
	defaultAddress  = "127.0.0.1:6600"
	defaultInterval = 1000
	defaultVolStep  = 5
	defaultCacheDir = "~/.cache/rondo"
)

var defaultTabs = []string{"queue", "browser", "search", "playlists", "lyrics"}

var validTabs = map[string]struct{}{
	"queue":     {},
	"browser":   {},
	"search":    {},
	"playlists": {},
	"lyrics":    {},
	"logs":      {},
}

var validArtBackends = map[string]struct{}{
	"auto":   {},
	"kitty":  {},
	"iterm2": {},
	"block":  {},
	"none":   {},
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Address:                defaultAddress,
		StatusUpdateIntervalMS: defaultInterval,
		VolumeStep:             defaultVolStep,
		Tabs:                   append([]string(nil), defaultTabs...),
		AlbumArt:               AlbumArt{Backend: "auto"},
		CacheDir:               mustExpand(defaultCacheDir),
		Keybindings:            DefaultKeybindings(),
	}
}

// Dir returns the rondo configuration directory, honouring XDG_CONFIG_HOME.
func Dir() string {
	if xdg := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); xdg != "" {
		return filepath.Join(xdg, appDirName)
	}
	return mustExpand("~/.config/" + appDirName)
}

// DefaultPath returns the default config file path.
func DefaultPath() string {
	return filepath.Join(Dir(), configFileName)
}

// ThemePath resolves the file a theme name refers to. A name that is
// already a path (has a separator or the .toml suffix) is used as-is,
// so --theme can point outside the themes directory.
func ThemePath(name string) string {
	if strings.ContainsRune(name, os.PathSeparator) || strings.HasSuffix(name, ".toml") {
		return name
	}
	return filepath.Join(Dir(), "themes", name+".toml")
}

// Load reads and validates the config at path. An empty path uses the
// default location; a missing file at the default location falls back to
// Default, while a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := strings.TrimSpace(path) != ""
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return Default(), nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := Default()
	if err := toml.Unmarshal(bytes, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.path = resolved

	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Path returns the file this snapshot was loaded from, or "" for defaults.
func (c *Config) Path() string { return c.path }

// StatusUpdateInterval returns the poll cadence as a duration.
func (c *Config) StatusUpdateInterval() time.Duration {
	return time.Duration(c.StatusUpdateIntervalMS) * time.Millisecond
}

// LogPath returns the log file location under the cache dir.
func (c *Config) LogPath() string {
	return filepath.Join(c.CacheDir, "rondo.log")
}

// DownloadDir is where the external downloader drops files.
func (c *Config) DownloadDir() string {
	return filepath.Join(c.CacheDir, "downloads")
}

// DownloaderArgv expands the downloader template for url: every "%u"
// in an argument becomes the url, every "%d" the download directory.
func (c *Config) DownloaderArgv(url, dir string) ([]string, error) {
	if len(c.Downloader) == 0 {
		return nil, fmt.Errorf("no downloader configured")
	}
	argv := make([]string, len(c.Downloader))
	for i, arg := range c.Downloader {
		arg = strings.ReplaceAll(arg, "%u", url)
		arg = strings.ReplaceAll(arg, "%d", dir)
		argv[i] = arg
	}
	return argv, nil
}

// normalize trims fields, applies defaults for empty values, and validates
// the rest.
func (c *Config) normalize() error {
	c.Address = strings.TrimSpace(c.Address)
	if c.Address == "" {
		c.Address = defaultAddress
	}

	c.Theme = strings.TrimSpace(c.Theme)

	c.LyricsDir = strings.TrimSpace(c.LyricsDir)
	if c.LyricsDir != "" {
		c.LyricsDir = mustExpand(c.LyricsDir)
	}

	c.CacheDir = strings.TrimSpace(c.CacheDir)
	if c.CacheDir == "" {
		c.CacheDir = defaultCacheDir
	}
	c.CacheDir = mustExpand(c.CacheDir)

	if c.StatusUpdateIntervalMS <= 0 {
		c.StatusUpdateIntervalMS = defaultInterval
	}
	if c.StatusUpdateIntervalMS < 100 {
		return fmt.Errorf("status_update_interval_ms %d is below the 100ms floor", c.StatusUpdateIntervalMS)
	}

	if c.VolumeStep <= 0 {
		c.VolumeStep = defaultVolStep
	}
	if c.VolumeStep > 100 {
		return fmt.Errorf("volume_step %d exceeds 100", c.VolumeStep)
	}

	if len(c.Tabs) == 0 {
		c.Tabs = append([]string(nil), defaultTabs...)
	}
	for i, tab := range c.Tabs {
		tab = strings.ToLower(strings.TrimSpace(tab))
		if _, ok := validTabs[tab]; !ok {
			return fmt.Errorf("unknown tab %q (valid: queue, browser, search, playlists, lyrics, logs)", c.Tabs[i])
		}
		c.Tabs[i] = tab
	}

	c.AlbumArt.Backend = strings.ToLower(strings.TrimSpace(c.AlbumArt.Backend))
	if c.AlbumArt.Backend == "" {
		c.AlbumArt.Backend = "auto"
	}
	if _, ok := validArtBackends[c.AlbumArt.Backend]; !ok {
		return fmt.Errorf("unknown album_art.backend %q (valid: auto, kitty, iterm2, block, none)", c.AlbumArt.Backend)
	}

	merged := DefaultKeybindings()
	for mode, seqs := range c.Keybindings {
		mode = strings.ToLower(strings.TrimSpace(mode))
		if mode != "normal" && mode != "input" && mode != "command" {
			return fmt.Errorf("unknown keybinding mode %q (valid: normal, input, command)", mode)
		}
		if merged[mode] == nil {
			merged[mode] = make(map[string]string)
		}
		for seq, action := range seqs {
			seq = strings.TrimSpace(seq)
			if seq == "" {
				return fmt.Errorf("keybindings.%s: empty key sequence", mode)
			}
			action = strings.TrimSpace(action)
			if action == "" {
				delete(merged[mode], seq)
				continue
			}
			merged[mode][seq] = action
		}
	}
	c.Keybindings = merged

	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return DefaultPath(), nil
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
