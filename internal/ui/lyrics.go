package ui

import (
	"strings"

	"github.com/rondo-mpd/rondo/internal/lrc"
)

type lyricsState struct {
	lyrics *lrc.Lyrics
	path   string // resolved .lrc file, "" when none matched
	forURI string // song the lyrics were resolved for
	offset int    // manual scroll, lines relative to the active line
	follow bool
}

// renderLyrics draws timed lyrics centered on the line playback is at.
// Manual scrolling offsets the window until the song changes.
func (m Model) renderLyrics() string {
	s := m.styles
	height := m.paneHeight()

	ly := m.lyricsPane.lyrics
	switch {
	case m.song.URI == "":
		return m.padPane(s.Muted.Render("  nothing playing"), height)
	case ly == nil || len(ly.Lines) == 0:
		return m.padPane(s.Muted.Render("  no lyrics for "+truncate(m.song.DisplayTitle(), m.width-18)), height)
	}

	active := ly.LineAt(m.elapsed())
	center := active
	if !m.lyricsPane.follow {
		center = active + m.lyricsPane.offset
	}
	if center < 0 {
		center = 0
	}
	if center >= len(ly.Lines) {
		center = len(ly.Lines) - 1
	}

	start := center - height/2
	if start > len(ly.Lines)-height {
		start = len(ly.Lines) - height
	}
	if start < 0 {
		start = 0
	}
	end := start + height
	if end > len(ly.Lines) {
		end = len(ly.Lines)
	}

	rows := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		text := truncate(ly.Lines[i].Text, m.width-4)
		if i == active {
			rows = append(rows, s.CurrentSong.Render("  "+text))
		} else {
			rows = append(rows, s.Text.Render("  "+text))
		}
	}
	return m.padPane(strings.Join(rows, "\n"), height)
}

// lyricsScroll nudges the window off the playback line; top re-enables
// following.
func (m *Model) lyricsScroll(action string) {
	switch action {
	case "cursor.down":
		m.lyricsPane.follow = false
		m.lyricsPane.offset++
	case "cursor.up":
		m.lyricsPane.follow = false
		m.lyricsPane.offset--
	case "cursor.halfpage.down":
		m.lyricsPane.follow = false
		m.lyricsPane.offset += m.paneHeight() / 2
	case "cursor.halfpage.up":
		m.lyricsPane.follow = false
		m.lyricsPane.offset -= m.paneHeight() / 2
	case "cursor.top":
		m.lyricsPane.follow = true
		m.lyricsPane.offset = 0
	}
}

// resolveLyrics matches the current song against the lyrics index and
// parses the winning file. Called on song change and whenever the
// lyrics directory reindexes.
func (m *Model) resolveLyrics() {
	if m.lyricsIndex == nil || m.song.URI == "" {
		m.lyricsPane = lyricsState{follow: true}
		return
	}
	if m.lyricsPane.forURI == m.song.URI && m.lyricsPane.lyrics != nil {
		return
	}

	path, ok := m.lyricsIndex.Lookup(m.song.Artist, m.song.Title, m.status.Duration)
	if !ok {
		m.lyricsPane = lyricsState{forURI: m.song.URI, follow: true}
		return
	}

	ly, err := lrc.ParseFile(path)
	if err != nil {
		m.log.Warn().Err(err).Str("path", path).Msg("lyrics parse failed")
		m.lyricsPane = lyricsState{forURI: m.song.URI, follow: true}
		return
	}
	m.lyricsPane = lyricsState{
		lyrics: ly,
		path:   path,
		forURI: m.song.URI,
		follow: true,
	}
}

// reloadLyrics drops the cache so the next resolve re-reads the index,
// used after the watcher reports .lrc changes.
func (m *Model) reloadLyrics() {
	m.lyricsPane.forURI = ""
	m.lyricsPane.lyrics = nil
	m.resolveLyrics()
}
