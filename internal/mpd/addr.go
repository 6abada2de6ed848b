// Package mpd talks to the music player daemon. A single worker owns
// the command connection and runs queued queries in order; a separate
// idle listener watches for subsystem changes on its own connection.
package mpd

import (
	"os"
	"strings"
)

const defaultPort = "6600"

// SplitAddr turns a user-facing MPD address into the network and dial
// string gompd expects. Paths and "unix:" prefixes select a unix
// socket; anything else is TCP, with port 6600 appended when missing.
func SplitAddr(addr string) (network, dial string) {
	addr = strings.TrimSpace(addr)
	switch {
	case strings.HasPrefix(addr, "unix:"):
		return "unix", expandHome(strings.TrimPrefix(addr, "unix:"))
	case strings.HasPrefix(addr, "/"), strings.HasPrefix(addr, "~"):
		return "unix", expandHome(addr)
	case strings.HasPrefix(addr, "@"):
		// Abstract socket, as used by some MPD packagings.
		return "unix", addr
	}
	if addr == "" {
		addr = "127.0.0.1"
	}
	if !hasPort(addr) {
		addr += ":" + defaultPort
	}
	return "tcp", addr
}

// hasPort reports whether addr already carries a port. IPv6 literals
// must be bracketed for a port to be present.
func hasPort(addr string) bool {
	if strings.HasPrefix(addr, "[") {
		return strings.Contains(addr, "]:")
	}
	return strings.Count(addr, ":") == 1
}

// expandHome resolves a leading "~" so socket paths from the config or
// the command line dial without shell expansion.
func expandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return home + strings.TrimPrefix(path, "~")
}
