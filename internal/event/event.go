// Package event defines the messages that flow from background workers
// into the UI loop, and the bounded bus that carries them.
package event

import (
	"net"
	"time"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/ident"
	"github.com/rondo-mpd/rondo/internal/lrc"
)

// Event is a message delivered to the UI loop. The set of variants is
// closed: only types in this package implement it.
type Event interface {
	isEvent()
}

// Idle reports that an MPD subsystem changed, as seen by the idle
// listener. Subsystem is the raw name from the protocol ("player",
// "mixer", "playlist", ...).
type Idle struct {
	Subsystem string
}

// QueryDone carries the result of one MPD query back to the loop.
// ID matches the ident returned by the worker's Submit; Target names
// the pane or component the query was issued for so stale results can
// be dropped. Data holds the decoded payload and is nil when Err is
// set.
type QueryDone struct {
	ID     ident.ID
	Target string
	Data   any
	Err    error
}

// WorkDone carries the result of a background job run by the work
// worker.
type WorkDone struct {
	Result WorkResult
}

// WorkResult is the payload of a WorkDone event. Like Event it is a
// closed set.
type WorkResult interface {
	isWorkResult()
}

// LyricsIndexed is the result of a full lyrics directory scan.
// Skipped counts files that failed to parse.
type LyricsIndexed struct {
	Dir     string
	Index   *lrc.Index
	Skipped int
	Err     error
}

// LrcFileIndexed is the result of indexing a single .lrc file after a
// filesystem notification. Removed is set when the file disappeared
// and its entry should be dropped instead.
type LrcFileIndexed struct {
	Path    string
	Entry   lrc.Entry
	Removed bool
	Err     error
}

// ExternalDone is the result of an external command run (downloader
// or user command). File is the path the command produced, when the
// job asked for one, and Title its human-readable name read from the
// file's tags; AddToQueue asks the loop to add File to the MPD queue
// on success.
type ExternalDone struct {
	Note       string
	File       string
	Title      string
	AddToQueue bool
	Err        error
}

func (LyricsIndexed) isWorkResult()  {}
func (LrcFileIndexed) isWorkResult() {}
func (ExternalDone) isWorkResult()   {}

// Level grades a status message.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// StatusMessage asks the status bar to show Text for Timeout. A zero
// Timeout uses the status bar's default.
type StatusMessage struct {
	Text    string
	Level   Level
	Timeout time.Duration
}

// InfoModal asks the UI to open the info modal with pre-rendered
// rows. Title is the modal heading.
type InfoModal struct {
	Title string
	Rows  [][2]string
}

// LogLine is one line appended to the application log, mirrored to
// the logs pane.
type LogLine struct {
	Line string
}

// RequestRender asks the loop to redraw without any state change.
type RequestRender struct{}

// ResizeDebounced is the settled terminal size after a burst of
// resize notifications.
type ResizeDebounced struct {
	Cols int
	Rows int
}

// ConfigChanged delivers a freshly loaded configuration after the
// config file changed on disk. KeepOldTheme is set when the theme
// name did not change, so the loop skips the theme reload.
type ConfigChanged struct {
	Config       *config.Config
	KeepOldTheme bool
}

// ThemeChanged delivers a freshly loaded theme after its file changed
// on disk or the config switched themes.
type ThemeChanged struct {
	Theme *config.Theme
}

// LyricsChanged reports that the lyrics index was refreshed and the
// lyrics pane should re-resolve the current song.
type LyricsChanged struct{}

// TmuxHook asks the loop to run the named tmux hook command.
type TmuxHook struct {
	Hook string
}

// SwitchTab asks the loop to focus the named tab.
type SwitchTab struct {
	Name string
}

// Keybind injects a key sequence as if typed, used by the IPC server.
type Keybind struct {
	Keys string
}

// IndexLrcRequested asks the loop to have one .lrc file (re)indexed,
// used by the IPC server.
type IndexLrcRequested struct {
	Path string
}

// SetOption asks the loop to change one whitelisted config option at
// runtime.
type SetOption struct {
	Name  string
	Value string
}

// IpcQuery asks the loop to write the requested state targets to Conn
// as JSON. The loop owns Conn from this point and closes it when the
// response is written.
type IpcQuery struct {
	Conn    net.Conn
	Targets []string
}

// LostConnection reports that an MPD connection dropped, command or
// idle. The owning worker keeps reconnecting in the background.
type LostConnection struct {
	Err error
}

// Reconnected reports that an MPD connection is live again after a
// LostConnection.
type Reconnected struct{}

// QuitRequested asks the loop to shut down cleanly.
type QuitRequested struct{}

func (Idle) isEvent()              {}
func (QueryDone) isEvent()         {}
func (WorkDone) isEvent()          {}
func (StatusMessage) isEvent()     {}
func (InfoModal) isEvent()         {}
func (LogLine) isEvent()           {}
func (RequestRender) isEvent()     {}
func (ResizeDebounced) isEvent()   {}
func (ConfigChanged) isEvent()     {}
func (ThemeChanged) isEvent()      {}
func (LyricsChanged) isEvent()     {}
func (TmuxHook) isEvent()          {}
func (SwitchTab) isEvent()         {}
func (Keybind) isEvent()           {}
func (IndexLrcRequested) isEvent() {}
func (SetOption) isEvent()         {}
func (IpcQuery) isEvent()          {}
func (LostConnection) isEvent()    {}
func (Reconnected) isEvent()       {}
func (QuitRequested) isEvent()     {}
