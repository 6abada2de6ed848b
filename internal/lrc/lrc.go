// Package lrc parses synchronised lyric files (.lrc) and builds a lookup
// index from song metadata to lyric file paths.
//
// The format is line oriented: metadata tags like [ar:Artist] and [ti:Title]
// describe the song, and time tags like [01:23.45] prefix each lyric line.
// A line may carry several time tags, in which case the same text repeats at
// each timestamp. Timestamps in a parsed file are always non-decreasing;
// files that list lines out of order are sorted during parsing.
package lrc

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Line is a single timed lyric line.
type Line struct {
	At   time.Duration
	Text string
}

// Lyrics is a parsed .lrc file.
type Lyrics struct {
	Artist string
	Title  string
	Album  string
	Length time.Duration // from the [length:] tag; zero when absent
	Lines  []Line
}

// maxLineBytes guards against binary junk with an .lrc extension.
const maxLineBytes = 8 * 1024

// ParseFile reads and parses the .lrc file at path.
func ParseFile(path string) (*Lyrics, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open lrc: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads an .lrc document from r. Unrecognised lines are skipped, so a
// partially malformed file still yields the lines that did parse.
func Parse(r io.Reader) (*Lyrics, error) {
	lyr := &Lyrics{}
	var offset time.Duration

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024), maxLineBytes)

	for scanner.Scan() {
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" || !strings.HasPrefix(raw, "[") {
			continue
		}

		stamps, metas, text, ok := splitTags(raw)
		if !ok {
			continue
		}

		for _, meta := range metas {
			key, value, found := strings.Cut(meta, ":")
			if !found {
				continue
			}
			value = strings.TrimSpace(value)
			switch strings.ToLower(strings.TrimSpace(key)) {
			case "ar":
				lyr.Artist = value
			case "ti":
				lyr.Title = value
			case "al":
				lyr.Album = value
			case "length":
				if d, err := parseTimestamp(value); err == nil {
					lyr.Length = d
				}
			case "offset":
				if ms, err := strconv.Atoi(strings.TrimPrefix(value, "+")); err == nil {
					offset = time.Duration(ms) * time.Millisecond
				}
			}
		}

		for _, at := range stamps {
			lyr.Lines = append(lyr.Lines, Line{At: at, Text: text})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan lrc: %w", err)
	}

	// A positive offset plays lines earlier, per the de facto standard.
	if offset != 0 {
		for i := range lyr.Lines {
			at := lyr.Lines[i].At - offset
			if at < 0 {
				at = 0
			}
			lyr.Lines[i].At = at
		}
	}

	sort.SliceStable(lyr.Lines, func(i, j int) bool { return lyr.Lines[i].At < lyr.Lines[j].At })
	return lyr, nil
}

// LineAt returns the index into Lines of the line active at elapsed, or -1
// when elapsed precedes the first timestamp.
func (l *Lyrics) LineAt(elapsed time.Duration) int {
	n := sort.Search(len(l.Lines), func(i int) bool { return l.Lines[i].At > elapsed })
	return n - 1
}

// splitTags splits one raw lrc line into its leading [..] tags and the text
// remainder. Tags that parse as timestamps land in stamps; the rest are
// returned verbatim in metas.
func splitTags(raw string) (stamps []time.Duration, metas []string, text string, ok bool) {
	rest := raw
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			return nil, nil, "", false
		}
		tag := rest[1:end]
		rest = rest[end+1:]

		if at, err := parseTimestamp(tag); err == nil {
			stamps = append(stamps, at)
		} else {
			metas = append(metas, tag)
		}
	}
	return stamps, metas, strings.TrimSpace(rest), true
}

// parseTimestamp parses "mm:ss", "mm:ss.xx", or "mm:ss.xxx".
func parseTimestamp(tag string) (time.Duration, error) {
	colon := strings.IndexByte(tag, ':')
	if colon <= 0 {
		return 0, fmt.Errorf("not a timestamp: %q", tag)
	}
	min, err := strconv.Atoi(strings.TrimSpace(tag[:colon]))
	if err != nil || min < 0 {
		return 0, fmt.Errorf("bad minutes in %q", tag)
	}
	secPart := tag[colon+1:]
	var frac time.Duration
	if dot := strings.IndexByte(secPart, '.'); dot >= 0 {
		fracStr := secPart[dot+1:]
		secPart = secPart[:dot]
		switch len(fracStr) {
		case 2: // centiseconds
			cs, err := strconv.Atoi(fracStr)
			if err != nil {
				return 0, fmt.Errorf("bad fraction in %q", tag)
			}
			frac = time.Duration(cs) * 10 * time.Millisecond
		case 3: // milliseconds
			ms, err := strconv.Atoi(fracStr)
			if err != nil {
				return 0, fmt.Errorf("bad fraction in %q", tag)
			}
			frac = time.Duration(ms) * time.Millisecond
		default:
			return 0, fmt.Errorf("bad fraction in %q", tag)
		}
	}
	sec, err := strconv.Atoi(strings.TrimSpace(secPart))
	if err != nil || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("bad seconds in %q", tag)
	}
	return time.Duration(min)*time.Minute + time.Duration(sec)*time.Second + frac, nil
}
