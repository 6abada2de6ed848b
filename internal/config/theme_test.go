package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadTheme_EmptyNameUsesBuiltin(t *testing.T) {
	theme, err := LoadTheme("")
	if err != nil {
		t.Fatalf("LoadTheme returned error: %v", err)
	}
	if theme.Name != "default" {
		t.Fatalf("Name = %q, want default", theme.Name)
	}
}

func TestLoadThemeFile_ParsesAndNormalizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nord.toml")
	if err := os.WriteFile(path, []byte(`
background = "#2E3440"
accent = "CYAN"
status_error = "brightred"
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	theme, err := LoadThemeFile(path, "nord")
	if err != nil {
		t.Fatalf("LoadThemeFile returned error: %v", err)
	}
	if theme.Name != "nord" {
		t.Fatalf("Name = %q, want nord", theme.Name)
	}
	if theme.Background != "#2e3440" {
		t.Fatalf("Background = %q, want #2e3440", theme.Background)
	}
	if theme.Accent != "6" {
		t.Fatalf("Accent = %q, want 6 (cyan)", theme.Accent)
	}
	if theme.StatusError != "9" {
		t.Fatalf("StatusError = %q, want 9 (brightred)", theme.StatusError)
	}
	// Fields the file does not set keep the built-in values.
	if theme.SelectionBg != DefaultTheme().SelectionBg {
		t.Fatalf("SelectionBg = %q, want default %q", theme.SelectionBg, DefaultTheme().SelectionBg)
	}
}

func TestLoadThemeFile_RejectsBadColour(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte(`accent = "#12345"`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadThemeFile(path, "bad"); err == nil {
		t.Fatalf("LoadThemeFile returned nil error, want colour error")
	}
}

func TestThemePath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/home/u/.config")

	if got := ThemePath("night"); got != "/home/u/.config/rondo/themes/night.toml" {
		t.Fatalf("ThemePath(night) = %q", got)
	}
	// Explicit paths pass through untouched.
	if got := ThemePath("/somewhere/else.toml"); got != "/somewhere/else.toml" {
		t.Fatalf("ThemePath(path) = %q", got)
	}
	if got := ThemePath("custom.toml"); got != "custom.toml" {
		t.Fatalf("ThemePath(custom.toml) = %q", got)
	}
}

func TestLoadTheme_MissingFileErrors(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if _, err := LoadTheme("ghost"); err == nil {
		t.Fatalf("LoadTheme returned nil error for missing theme file")
	}
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"empty passes", "", "", false},
		{"hex lowered", "#AABBCC", "#aabbcc", false},
		{"ansi index", "42", "42", false},
		{"ansi max", "255", "255", false},
		{"ansi out of range", "256", "", true},
		{"named", "magenta", "5", false},
		{"named default", "default", "", false},
		{"short hex rejected", "#abc", "", true},
		{"garbage rejected", "reddish", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := normalizeColor(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("normalizeColor(%q) = %q, want error", tt.in, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("normalizeColor(%q) returned error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("normalizeColor(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
