// Package art places album art in the terminal. A backend is probed
// once at startup; the Renderer routes Show/Hide/Cleanup over it and
// tracks the current placement. Escape output goes through a shared
// terminal-writer mutex so no two goroutines interleave sequences.
package art

import (
	"os"
	"strings"
)

// Backend identifies the terminal image protocol in use.
type Backend int

const (
	// BackendNone draws nothing.
	BackendNone Backend = iota
	// BackendKitty is the kitty graphics protocol (kitty, ghostty).
	BackendKitty
	// BackendITerm2 is the iTerm2 inline-image protocol (iTerm2, WezTerm).
	BackendITerm2
	// BackendBlock is the character-cell fallback that works everywhere.
	BackendBlock
)

func (b Backend) String() string {
	switch b {
	case BackendKitty:
		return "kitty"
	case BackendITerm2:
		return "iterm2"
	case BackendBlock:
		return "block"
	default:
		return "none"
	}
}

// ParseBackend maps a config override to a backend. "auto" and ""
// report false: the caller should probe.
func ParseBackend(s string) (Backend, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "kitty":
		return BackendKitty, true
	case "iterm2":
		return BackendITerm2, true
	case "block":
		return BackendBlock, true
	case "none":
		return BackendNone, true
	default:
		return BackendNone, false
	}
}

// Probe selects the backend for the current terminal. An explicit
// override wins; otherwise the emulator is identified from the
// environment. Unknown terminals get the block fallback, and so does a
// plain console session where graphics protocols cannot work.
func Probe(override string) Backend {
	if b, ok := ParseBackend(override); ok {
		return b
	}

	term := os.Getenv("TERM")
	if os.Getenv("KITTY_WINDOW_ID") != "" ||
		strings.Contains(term, "kitty") ||
		strings.Contains(term, "ghostty") {
		return BackendKitty
	}

	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm":
		return BackendITerm2
	case "vscode":
		return BackendBlock
	}
	if os.Getenv("WEZTERM_EXECUTABLE") != "" {
		return BackendITerm2
	}
	if os.Getenv("VSCODE_INJECTION") != "" || os.Getenv("TABBY_CONFIG_DIRECTORY") != "" {
		return BackendBlock
	}

	// A bare console (no display server, session type tty) cannot run
	// a graphics protocol even if TERM lies about it.
	if os.Getenv("DISPLAY") == "" && os.Getenv("WAYLAND_DISPLAY") == "" &&
		os.Getenv("XDG_SESSION_TYPE") == "tty" {
		return BackendBlock
	}

	return BackendBlock
}
