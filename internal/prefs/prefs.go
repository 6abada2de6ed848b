// Package prefs persists small session leftovers between runs: the
// tab that was focused and where the browser was. Losing them is
// harmless, so loading never fails — bad or missing files just mean
// defaults.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/rondo-mpd/rondo/internal/config"
)

// Prefs holds the remembered session state.
type Prefs struct {
	LastTab     string `toml:"last_tab"`
	BrowserPath string `toml:"browser_path"`
}

const defaultTab = "queue"

// DefaultPath returns the default preferences file path, next to the
// config file.
func DefaultPath() string {
	return filepath.Join(config.Dir(), "prefs.toml")
}

// Load reads preferences from path, falling back to defaults when the
// file is missing or unreadable.
func Load(path string) Prefs {
	prefs := Prefs{LastTab: defaultTab}

	resolved, err := resolvePath(path)
	if err != nil {
		return prefs
	}

	bytes, err := os.ReadFile(resolved)
	if err != nil {
		return prefs
	}
	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Prefs{LastTab: defaultTab}
	}

	if strings.TrimSpace(prefs.LastTab) == "" {
		prefs.LastTab = defaultTab
	}
	return prefs
}

// Save writes preferences to path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(DefaultPath())
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
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
