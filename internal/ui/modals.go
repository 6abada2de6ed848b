package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rondo-mpd/rondo/internal/config"
	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

// modal is an overlay that takes over the pane area and the cursor
// until dismissed.
type modal interface {
	view(s Styles, width, height int) string
	hints(s Styles) string
	resize(width, height int)
	// list exposes the modal's cursor for the shared movement actions;
	// a nil cursor means the modal is not scrollable.
	list() (*cursorList, int)
}

// modalBox frames body in a centered bordered box.
func modalBox(s Styles, width, height int, title, body string) string {
	boxWidth := width - 8
	if boxWidth > 72 {
		boxWidth = 72
	}
	if boxWidth < 20 {
		boxWidth = width - 2
	}

	content := s.Title.Render(title) + "\n\n" + body
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(s.BorderFocus.GetForeground()).
		Padding(0, 1).
		Width(boxWidth).
		Render(content)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}

// rowsModal is a scrollable name/value listing: help, song info, and
// captured output from ":exec" commands. uri is set when the rows
// describe a song, so sticker changes can refresh the view in place.
type rowsModal struct {
	title string
	uri   string
	rows  [][2]string
	cur   cursorList
}

func (r *rowsModal) view(s Styles, width, height int) string {
	visible := height - 6
	if visible < 1 {
		visible = 1
	}
	start, end := r.cur.window(len(r.rows), visible)

	nameWidth := 0
	for _, row := range r.rows {
		if len(row[0]) > nameWidth {
			nameWidth = len(row[0])
		}
	}
	if nameWidth > 24 {
		nameWidth = 24
	}

	lines := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		row := r.rows[i]
		line := padRight(truncate(row[0], nameWidth), nameWidth) + "  " + row[1]
		if i == r.cur.cursor {
			lines = append(lines, s.Selected.Render(line))
		} else if row[1] == "" {
			lines = append(lines, s.Accent.Render(line))
		} else {
			lines = append(lines, s.Text.Render(line))
		}
	}
	if len(r.rows) > visible {
		lines = append(lines, s.Muted.Render(fmt.Sprintf("… %d/%d", r.cur.cursor+1, len(r.rows))))
	}
	return modalBox(s, width, height, r.title, strings.Join(lines, "\n"))
}

func (r *rowsModal) hints(s Styles) string {
	return s.Key.Render("j/k") + s.Muted.Render(" scroll · ") +
		s.Key.Render("esc") + s.Muted.Render(" close")
}

func (r *rowsModal) resize(int, int)          {}
func (r *rowsModal) list() (*cursorList, int) { return &r.cur, len(r.rows) }

// confirmModal guards a destructive action behind an explicit yes.
type confirmModal struct {
	prompt string
	apply  func(*Model)
}

func (c *confirmModal) view(s Styles, width, height int) string {
	body := s.Text.Render(c.prompt) + "\n\n" +
		s.Key.Render("y") + s.Muted.Render(" confirm   ") +
		s.Key.Render("n") + s.Muted.Render(" cancel")
	return modalBox(s, width, height, "confirm", body)
}

func (c *confirmModal) hints(s Styles) string {
	return s.Key.Render("y") + s.Muted.Render(" confirm · ") +
		s.Key.Render("n") + s.Muted.Render(" cancel")
}

func (c *confirmModal) resize(int, int)          {}
func (c *confirmModal) list() (*cursorList, int) { return nil, 0 }

// outputsModal lists the daemon's audio outputs for toggling.
type outputsModal struct {
	outputs []mpd.Output
	cur     cursorList
}

func (o *outputsModal) view(s Styles, width, height int) string {
	if len(o.outputs) == 0 {
		return modalBox(s, width, height, "outputs", s.Muted.Render("no outputs"))
	}

	lines := make([]string, 0, len(o.outputs))
	for i, out := range o.outputs {
		dot := "○"
		if out.Enabled {
			dot = "●"
		}
		line := fmt.Sprintf("%s %s", dot, out.Name)
		if out.Plugin != "" {
			line += " (" + out.Plugin + ")"
		}
		if i == o.cur.cursor {
			lines = append(lines, s.Selected.Render(line))
		} else if out.Enabled {
			lines = append(lines, s.Accent.Render(line))
		} else {
			lines = append(lines, s.Muted.Render(line))
		}
	}
	return modalBox(s, width, height, "outputs", strings.Join(lines, "\n"))
}

func (o *outputsModal) hints(s Styles) string {
	return s.Key.Render("enter") + s.Muted.Render(" toggle · ") +
		s.Key.Render("esc") + s.Muted.Render(" close")
}

func (o *outputsModal) resize(int, int)          {}
func (o *outputsModal) list() (*cursorList, int) { return &o.cur, len(o.outputs) }

// openHelp lists the active normal-mode bindings.
func (m *Model) openHelp() {
	trie := m.tries[config.ModeNormal]
	if trie == nil {
		return
	}
	bindings := trie.Bindings()

	rows := make([][2]string, 0, len(bindings))
	for seq, action := range bindings {
		rows = append(rows, [2]string{seq, action})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i][1] != rows[j][1] {
			return rows[i][1] < rows[j][1]
		}
		return rows[i][0] < rows[j][0]
	})
	m.modal = &rowsModal{title: "keys", rows: rows}
}

// openSongInfo shows everything a song detail query returned.
func (m *Model) openSongInfo(detail mpd.SongDetail) {
	rows := [][2]string{{"file", detail.Song.URI}}

	tags := make([]string, 0, len(detail.Tags))
	for name := range detail.Tags {
		if name == "file" {
			continue
		}
		tags = append(tags, name)
	}
	sort.Strings(tags)
	for _, name := range tags {
		rows = append(rows, [2]string{name, detail.Tags[name]})
	}

	if len(detail.Stickers) > 0 {
		rows = append(rows, [2]string{"", ""}, [2]string{"stickers", ""})
		for _, st := range detail.Stickers {
			rows = append(rows, [2]string{st.Name, st.Value})
		}
	}
	m.modal = &rowsModal{title: detail.Song.DisplayTitle(), uri: detail.Song.URI, rows: rows}
}

// openInfo shows pre-rendered rows sent over the bus.
func (m *Model) openInfo(ev event.InfoModal) {
	m.modal = &rowsModal{title: ev.Title, rows: ev.Rows}
}

// openConfirm arms a destructive action.
func (m *Model) openConfirm(prompt string, apply func(*Model)) {
	m.modal = &confirmModal{prompt: prompt, apply: apply}
}

// openOutputs shows the outputs returned by an outputs query.
func (m *Model) openOutputs(outputs []mpd.Output) {
	m.modal = &outputsModal{outputs: outputs}
}

func (m *Model) closeModal() {
	m.modal = nil
	m.pendingInfo = ""
}

// modalSelect is the select action while a modal is open.
func (m *Model) modalSelect() {
	switch mod := m.modal.(type) {
	case *confirmModal:
		apply := mod.apply
		m.closeModal()
		apply(m)
	case *outputsModal:
		if mod.cur.cursor < 0 || mod.cur.cursor >= len(mod.outputs) {
			return
		}
		out := &mod.outputs[mod.cur.cursor]
		m.submit(mpd.OutputCmd(out.ID, !out.Enabled))
		out.Enabled = !out.Enabled
	default:
		m.closeModal()
	}
}
