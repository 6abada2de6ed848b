package ui

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/mpd"
	"github.com/rondo-mpd/rondo/internal/work"
)

// commandStart opens the ex-style command line.
func (m *Model) commandStart() tea.Cmd {
	m.mode = config.ModeCommand
	m.cmdInput.SetValue("")
	return m.cmdInput.Focus()
}

// commandInput feeds a key to the command line.
func (m *Model) commandInput(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	m.cmdInput, cmd = m.cmdInput.Update(msg)
	return cmd
}

// commandCancel abandons the command line.
func (m *Model) commandCancel() {
	m.cmdInput.SetValue("")
	m.cmdInput.Blur()
	m.mode = config.ModeNormal
}

// commandConfirm runs the typed command and returns to normal mode.
func (m *Model) commandConfirm() tea.Cmd {
	line := strings.TrimSpace(m.cmdInput.Value())
	m.commandCancel()
	if line == "" {
		return nil
	}
	return m.runCommand(line)
}

// runCommand executes one ex command. The verb is the first word; the
// remainder is a single argument for commands naming files or
// playlists, fields for the rest.
func (m *Model) runCommand(line string) tea.Cmd {
	verb, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	// ":!cmd" arrives glued to the verb.
	if len(verb) > 1 && verb[0] == '!' {
		rest = strings.TrimSpace(verb[1:] + " " + rest)
		verb = "!"
	}

	switch verb {
	case "q", "quit":
		return tea.Quit

	case "add":
		if rest == "" {
			m.say("add: missing uri", event.LevelError, 0)
			return nil
		}
		m.addURI(rest, rest)

	case "clear":
		// Typing the command is the confirmation.
		m.submit(mpd.ClearCmd())
		m.say("queue cleared", event.LevelInfo, 0)

	case "save":
		if rest == "" {
			m.say("save: missing playlist name", event.LevelError, 0)
			return nil
		}
		m.submit(mpd.PlaylistSaveCmd(rest))
		m.submit(mpd.PlaylistsQuery())
		m.say("saved playlist "+rest, event.LevelInfo, 0)

	case "load":
		if rest == "" {
			m.say("load: missing playlist name", event.LevelError, 0)
			return nil
		}
		m.submit(mpd.PlaylistLoadCmd(rest))
		m.say("loaded playlist "+rest, event.LevelInfo, 0)

	case "rm":
		if rest == "" {
			m.say("rm: missing playlist name", event.LevelError, 0)
			return nil
		}
		m.submit(mpd.PlaylistRemoveCmd(rest))
		m.submit(mpd.PlaylistsQuery())
		m.say("deleted playlist "+rest, event.LevelInfo, 0)

	case "update":
		m.submit(mpd.UpdateQuery(rest))

	case "seek":
		d, relative, err := mpd.ParseSeek(rest)
		if err != nil {
			m.sayErr(err)
			return nil
		}
		m.submit(mpd.SeekCmd(d, relative))

	case "addyt":
		if rest == "" {
			m.say("addyt: missing url", event.LevelError, 0)
			return nil
		}
		m.startDownload(rest)

	case "exec", "!":
		if rest == "" {
			m.say("exec: missing command", event.LevelError, 0)
			return nil
		}
		argv := strings.Fields(rest)
		m.work.Submit(work.External{
			Note:       argv[0],
			Argv:       argv,
			ShowOutput: true,
		})
		m.say("running "+argv[0], event.LevelInfo, 0)

	case "volume", "vol":
		m.runVolume(rest)

	case "set":
		name, value, ok := strings.Cut(rest, " ")
		if !ok {
			m.say("set: usage: set <option> <value>", event.LevelError, 0)
			return nil
		}
		m.applyOption(name, strings.TrimSpace(value))

	case "outputs":
		m.submit(mpd.OutputsQuery())

	case "mount":
		if !m.can("mount") {
			m.say("mount: not supported by this daemon", event.LevelError, 0)
			return nil
		}
		path, storage, ok := strings.Cut(rest, " ")
		if !ok {
			m.say("mount: usage: mount <path> <storage>", event.LevelError, 0)
			return nil
		}
		m.submit(mpd.MountCmd(path, strings.TrimSpace(storage)))

	case "unmount":
		if !m.can("unmount") {
			m.say("unmount: not supported by this daemon", event.LevelError, 0)
			return nil
		}
		if rest == "" {
			m.say("unmount: missing path", event.LevelError, 0)
			return nil
		}
		m.submit(mpd.UnmountCmd(rest))

	default:
		m.say("unknown command: "+verb, event.LevelError, 0)
	}
	return nil
}

// runVolume handles ":volume [N|+N|-N]".
func (m *Model) runVolume(arg string) {
	if arg == "" {
		m.say(fmt.Sprintf("volume %d%%", m.status.Volume), event.LevelInfo, 0)
		return
	}
	relative := strings.HasPrefix(arg, "+") || strings.HasPrefix(arg, "-")
	n, err := strconv.Atoi(arg)
	if err != nil {
		m.say("volume: not a number: "+arg, event.LevelError, 0)
		return
	}
	if relative {
		m.bumpVolume(n)
		return
	}
	if n < 0 || n > 100 {
		m.say("volume: out of range 0..100", event.LevelError, 0)
		return
	}
	m.submit(mpd.SetVolumeCmd(n))
}

// startDownload queues the configured downloader for url. The work
// worker runs it off the UI loop; the completion handler adds the
// produced file to the play queue.
func (m *Model) startDownload(url string) {
	cfg := m.config()
	dir := cfg.DownloadDir()
	argv, err := cfg.DownloaderArgv(url, dir)
	if err != nil {
		m.sayErr(err)
		return
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.sayErr(fmt.Errorf("download dir: %w", err))
		return
	}

	m.work.Submit(work.External{
		Note:        "download",
		Argv:        argv,
		Dir:         dir,
		CaptureFile: true,
		AddToQueue:  true,
	})
	m.say("downloading "+url, event.LevelInfo, 0)
}
