package config

// Input modes. Normal mode drives actions; input mode routes keys to the
// focused text field; command mode accepts an ex-style command line.
const (
	ModeNormal  = "normal"
	ModeInput   = "input"
	ModeCommand = "command"
)

// DefaultKeybindings returns the built-in bindings. Sequences are
// space-separated keys as produced by the input layer ("g g", "ctrl+d").
func DefaultKeybindings() map[string]map[string]string {
	return map[string]map[string]string{
		ModeNormal: {
			"q":      "quit",
			"?":      "help",
			"p":      "playback.toggle",
			"s":      "playback.stop",
			">":      "playback.next",
			"<":      "playback.prev",
			"+":      "volume.up",
			"-":      "volume.down",
			"r":      "toggle.repeat",
			"z":      "toggle.random",
			"c":      "toggle.consume",
			"v":      "toggle.single",
			"f":      "seek.forward",
			"b":      "seek.back",
			"tab":    "tab.next",
			"btab":   "tab.prev",
			"1":      "tab.1",
			"2":      "tab.2",
			"3":      "tab.3",
			"4":      "tab.4",
			"5":      "tab.5",
			"6":      "tab.6",
			"j":      "cursor.down",
			"down":   "cursor.down",
			"k":      "cursor.up",
			"up":     "cursor.up",
			"g g":    "cursor.top",
			"G":      "cursor.bottom",
			"ctrl+d": "cursor.halfpage.down",
			"ctrl+u": "cursor.halfpage.up",
			"enter":  "select",
			"h":      "browser.parent",
			"left":   "browser.parent",
			"l":      "browser.open",
			"right":  "browser.open",
			"a":      "add",
			"d":      "queue.delete",
			"J":      "queue.move.down",
			"K":      "queue.move.up",
			"C":      "queue.clear",
			"S":      "queue.shuffle",
			"D":      "playlist.delete",
			"i":      "song.info",
			"u":      "database.update",
			"o":      "outputs",
			"/":      "search.start",
			":":      "command.start",
		},
		ModeInput: {
			"esc":   "input.cancel",
			"enter": "input.confirm",
		},
		ModeCommand: {
			"esc":   "input.cancel",
			"enter": "input.confirm",
		},
	}
}
