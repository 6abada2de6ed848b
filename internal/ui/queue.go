package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/mpd"
)

type queueState struct {
	cursorList
}

// renderQueue draws the play queue with the playing song marked and
// the art panel beside it when the terminal is wide enough.
func (m Model) renderQueue() string {
	s := m.styles
	height := m.paneHeight()

	listWidth := m.width
	showArt := m.width >= 100 && m.art != nil && m.art.Backend().String() != "none"
	if showArt {
		listWidth = m.width - artPanelWidth
	}

	if len(m.queue) == 0 {
		empty := s.Muted.Render("  queue is empty")
		return m.padPane(empty, height)
	}

	start, end := m.queuePane.window(len(m.queue), height)
	rows := make([]string, 0, height)
	for i := start; i < end; i++ {
		rows = append(rows, m.renderQueueRow(i, listWidth))
	}
	list := strings.Join(rows, "\n")

	if showArt {
		list = joinColumns(m.padPane(list, height), m.renderArtPanel(height))
	}
	return m.padPane(list, height)
}

func (m Model) renderQueueRow(i, width int) string {
	s := m.styles
	song := m.queue[i]

	durWidth := 6
	titleWidth := (width - durWidth - 6) / 2
	artistWidth := width - durWidth - titleWidth - 6
	if titleWidth < 8 {
		titleWidth = max(width-durWidth-6, 8)
		artistWidth = 0
	}

	title := padRight(truncate(song.DisplayTitle(), titleWidth), titleWidth)
	line := fmt.Sprintf("%4d ", i+1) + title
	if artistWidth > 0 {
		line += " " + padRight(truncate(song.Artist, artistWidth-1), artistWidth-1)
	}
	line += padRight(formatDuration(song.Duration), durWidth)
	line = clipRow(line, width)

	playing := song.ID >= 0 && song.ID == m.status.SongID
	switch {
	case i == m.queuePane.cursor:
		return s.Selected.Render(line)
	case playing:
		return s.CurrentSong.Render(line)
	default:
		return s.Text.Render(line)
	}
}

// queueTotal sums the queue's play time for the art panel footer.
func (m Model) queueTotal() string {
	total := lo.SumBy(m.queue, func(s mpd.Song) time.Duration { return s.Duration })
	return fmt.Sprintf("%d songs, %s", len(m.queue), formatDuration(total))
}

// selectedQueueSong returns the song under the queue cursor.
func (m Model) selectedQueueSong() (mpd.Song, bool) {
	if m.queuePane.cursor < 0 || m.queuePane.cursor >= len(m.queue) {
		return mpd.Song{}, false
	}
	return m.queue[m.queuePane.cursor], true
}

// queueMove swaps the selected song with its neighbour and follows it
// with the cursor.
func (m *Model) queueMove(delta int) {
	from := m.queuePane.cursor
	to := from + delta
	if from < 0 || from >= len(m.queue) || to < 0 || to >= len(m.queue) {
		return
	}
	m.submit(mpd.MoveCmd(from, to))
	m.queuePane.cursor = to
}

// queueDelete removes the selected song.
func (m *Model) queueDelete() {
	if _, ok := m.selectedQueueSong(); !ok {
		return
	}
	m.submit(mpd.DeleteCmd(m.queuePane.cursor))
}

// queuePlaySelected starts playback at the cursor.
func (m *Model) queuePlaySelected() {
	if _, ok := m.selectedQueueSong(); !ok {
		return
	}
	m.submit(mpd.PlayCmd(m.queuePane.cursor))
}

// applyQueue installs a fresh queue snapshot.
func (m *Model) applyQueue(songs []mpd.Song) {
	m.queue = songs
	m.queuePane.clamp(len(songs))
}

// addURI appends a database URI to the queue with a confirmation on
// the status bar.
func (m *Model) addURI(uri, label string) {
	if uri == "" {
		return
	}
	m.submit(mpd.AddCmd(uri))
	m.say("added "+label, event.LevelInfo, 0)
}
