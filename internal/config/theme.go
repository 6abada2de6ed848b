package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Theme is a named set of colours. Values are either 24-bit hex ("#282a36"),
// an ANSI palette index ("4"), or one of the colour names accepted by
// normalizeColor. An empty value means the terminal default.
type Theme struct {
	Name string `toml:"name"`

	Background string `toml:"background"`
	Text       string `toml:"text"`
	Muted      string `toml:"muted"`
	Accent     string `toml:"accent"`

	Border      string `toml:"border"`
	BorderFocus string `toml:"border_focus"`

	SelectionBg   string `toml:"selection_bg"`
	SelectionText string `toml:"selection_text"`

	CurrentSong string `toml:"current_song"`

	ProgressFilled string `toml:"progress_filled"`
	ProgressEmpty  string `toml:"progress_empty"`

	TabActiveBg   string `toml:"tab_active_bg"`
	TabActiveFg   string `toml:"tab_active_fg"`
	TabInactiveFg string `toml:"tab_inactive_fg"`

	StatusInfo  string `toml:"status_info"`
	StatusWarn  string `toml:"status_warn"`
	StatusError string `toml:"status_error"`
}

// DefaultTheme returns the built-in theme used when no theme file is set.
func DefaultTheme() *Theme {
	return &Theme{
		Name:           "default",
		Background:     "",
		Text:           "7",
		Muted:          "8",
		Accent:         "6",
		Border:         "8",
		BorderFocus:    "6",
		SelectionBg:    "4",
		SelectionText:  "15",
		CurrentSong:    "3",
		ProgressFilled: "6",
		ProgressEmpty:  "8",
		TabActiveBg:    "4",
		TabActiveFg:    "15",
		TabInactiveFg:  "8",
		StatusInfo:     "7",
		StatusWarn:     "3",
		StatusError:    "1",
	}
}

// LoadTheme reads and validates the theme named name from the themes
// directory. An empty name returns the built-in default.
func LoadTheme(name string) (*Theme, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultTheme(), nil
	}
	return LoadThemeFile(ThemePath(name), name)
}

// LoadThemeFile reads and validates a theme from an explicit path.
func LoadThemeFile(path, name string) (*Theme, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("theme %q: no file at %s", name, path)
		}
		return nil, fmt.Errorf("read theme: %w", err)
	}

	theme := DefaultTheme()
	if err := toml.Unmarshal(bytes, theme); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}
	if strings.TrimSpace(theme.Name) == "" {
		theme.Name = name
	}

	if err := theme.normalize(); err != nil {
		return nil, fmt.Errorf("theme %q: %w", theme.Name, err)
	}
	return theme, nil
}

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
var ansiColor = regexp.MustCompile(`^([0-9]|[1-9][0-9]|1[0-9]{2}|2[0-4][0-9]|25[0-5])$`)

// namedColors maps the sixteen conventional colour names onto ANSI palette
// indices so the renderer resolves them against the user's terminal palette.
var namedColors = map[string]string{
	"black":         "0",
	"red":           "1",
	"green":         "2",
	"yellow":        "3",
	"blue":          "4",
	"magenta":       "5",
	"cyan":          "6",
	"white":         "7",
	"gray":          "8",
	"grey":          "8",
	"brightblack":   "8",
	"brightred":     "9",
	"brightgreen":   "10",
	"brightyellow":  "11",
	"brightblue":    "12",
	"brightmagenta": "13",
	"brightcyan":    "14",
	"brightwhite":   "15",
	"default":       "",
}

func (t *Theme) normalize() error {
	fields := []*string{
		&t.Background, &t.Text, &t.Muted, &t.Accent,
		&t.Border, &t.BorderFocus,
		&t.SelectionBg, &t.SelectionText,
		&t.CurrentSong,
		&t.ProgressFilled, &t.ProgressEmpty,
		&t.TabActiveBg, &t.TabActiveFg, &t.TabInactiveFg,
		&t.StatusInfo, &t.StatusWarn, &t.StatusError,
	}
	for _, f := range fields {
		normalized, err := normalizeColor(*f)
		if err != nil {
			return err
		}
		*f = normalized
	}
	return nil
}

// normalizeColor validates value and maps colour names to palette indices.
func normalizeColor(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", nil
	}
	if hexColor.MatchString(value) {
		return strings.ToLower(value), nil
	}
	if ansiColor.MatchString(value) {
		return value, nil
	}
	if mapped, ok := namedColors[strings.ToLower(value)]; ok {
		return mapped, nil
	}
	return "", fmt.Errorf("invalid colour %q (want #rrggbb, 0-255, or a colour name)", value)
}
