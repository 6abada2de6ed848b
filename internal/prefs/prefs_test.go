package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")

	p := Load("")
	if p.LastTab != defaultTab {
		t.Fatalf("LastTab = %q, want %q", p.LastTab, defaultTab)
	}
	if p.BrowserPath != "" {
		t.Fatalf("BrowserPath = %q, want empty", p.BrowserPath)
	}
}

func TestLoad_ReadsExistingFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", "")

	prefsDir := filepath.Join(home, ".config", "rondo")
	if err := os.MkdirAll(prefsDir, 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	prefsFile := filepath.Join(prefsDir, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("last_tab = \"lyrics\"\nbrowser_path = \"Albums/2020\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load("")
	if p.LastTab != "lyrics" {
		t.Fatalf("LastTab = %q, want lyrics", p.LastTab)
	}
	if p.BrowserPath != "Albums/2020" {
		t.Fatalf("BrowserPath = %q, want Albums/2020", p.BrowserPath)
	}
}

func TestLoad_ExplicitPath(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "custom.toml")
	if err := os.WriteFile(prefsFile, []byte("last_tab = \"search\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(prefsFile)
	if p.LastTab != "search" {
		t.Fatalf("LastTab = %q, want search", p.LastTab)
	}
}

func TestSave_CreatesFileAndDirs(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "subdir", "prefs.toml")

	p := Prefs{LastTab: "playlists", BrowserPath: "Singles"}
	if err := Save(prefsFile, p); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	loaded := Load(prefsFile)
	if loaded.LastTab != "playlists" {
		t.Fatalf("LastTab = %q, want playlists", loaded.LastTab)
	}
	if loaded.BrowserPath != "Singles" {
		t.Fatalf("BrowserPath = %q, want Singles", loaded.BrowserPath)
	}
}

func TestLoad_EmptyTabFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("last_tab = \"\"\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(prefsFile)
	if p.LastTab != defaultTab {
		t.Fatalf("LastTab = %q, want %q", p.LastTab, defaultTab)
	}
}

func TestLoad_InvalidTOMLFallsBackToDefault(t *testing.T) {
	tmp := t.TempDir()
	prefsFile := filepath.Join(tmp, "prefs.toml")
	if err := os.WriteFile(prefsFile, []byte("not valid toml {{{\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	p := Load(prefsFile)
	if p.LastTab != defaultTab {
		t.Fatalf("LastTab = %q, want %q", p.LastTab, defaultTab)
	}
}
