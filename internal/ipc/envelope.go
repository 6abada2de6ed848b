// Package ipc lets external processes poke a running instance over a
// per-pid unix socket: inject keys, switch tabs, show messages, set
// options, index a lyric file, or query player state.
package ipc

import (
	"fmt"
	"os"
	"path/filepath"
)

// Kind tags an IPC message.
type Kind string

const (
	// KindIndexLrc asks the instance to (re)index one .lrc file.
	KindIndexLrc Kind = "index-lrc"
	// KindStatusMessage shows a message in the status bar.
	KindStatusMessage Kind = "status-message"
	// KindTmuxHook runs the named tmux hook.
	KindTmuxHook Kind = "tmux-hook"
	// KindSet changes a whitelisted config option at runtime.
	KindSet Kind = "set"
	// KindKeybind injects a key sequence as if typed.
	KindKeybind Kind = "keybind"
	// KindSwitchTab focuses the named tab.
	KindSwitchTab Kind = "switch-tab"
	// KindQuery streams the requested state targets back as JSON.
	KindQuery Kind = "query"
)

// Envelope is one request. Fields beyond Kind are payload; which ones
// matter depends on the kind.
type Envelope struct {
	Kind Kind `json:"kind"`

	Path    string   `json:"path,omitempty"`    // index-lrc
	Text    string   `json:"text,omitempty"`    // status-message
	Level   string   `json:"level,omitempty"`   // status-message: info, warn, error
	Hook    string   `json:"hook,omitempty"`    // tmux-hook
	Name    string   `json:"name,omitempty"`    // set option, switch-tab tab
	Value   string   `json:"value,omitempty"`   // set
	Keys    string   `json:"keys,omitempty"`    // keybind
	Targets []string `json:"targets,omitempty"` // query
}

// Reply acknowledges a non-query envelope.
type Reply struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// Validate checks that the envelope carries what its kind needs.
func (e Envelope) Validate() error {
	switch e.Kind {
	case KindIndexLrc:
		if e.Path == "" {
			return fmt.Errorf("index-lrc: path required")
		}
	case KindStatusMessage:
		if e.Text == "" {
			return fmt.Errorf("status-message: text required")
		}
		switch e.Level {
		case "", "info", "warn", "error":
		default:
			return fmt.Errorf("status-message: unknown level %q", e.Level)
		}
	case KindTmuxHook:
		if e.Hook == "" {
			return fmt.Errorf("tmux-hook: hook required")
		}
	case KindSet:
		if e.Name == "" {
			return fmt.Errorf("set: name required")
		}
	case KindKeybind:
		if e.Keys == "" {
			return fmt.Errorf("keybind: keys required")
		}
	case KindSwitchTab:
		if e.Name == "" {
			return fmt.Errorf("switch-tab: name required")
		}
	case KindQuery:
		if len(e.Targets) == 0 {
			return fmt.Errorf("query: at least one target required")
		}
	case "":
		return fmt.Errorf("missing kind")
	default:
		return fmt.Errorf("unknown kind %q", e.Kind)
	}
	return nil
}

// SocketPath returns the socket path for the instance with the given
// pid.
func SocketPath(pid int) string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("rondo-%d.sock", pid))
}

// SocketGlob matches the sockets of every running instance.
func SocketGlob() string {
	return filepath.Join(os.TempDir(), "rondo-*.sock")
}
