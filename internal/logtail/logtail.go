package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rondo-mpd/rondo/internal/event"
)

// Read returns at most maxLines from the end of the file at path. A
// missing file yields no lines, since a fresh install has nothing to
// show yet.
func Read(path string, maxLines int) ([]string, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	lines := make([]string, count)
	if count == maxLines {
		for i := 0; i < count; i++ {
			lines[i] = ring[(idx+i)%maxLines]
		}
	} else {
		copy(lines, ring[:count])
	}
	return lines, nil
}

// Writer mirrors log output onto the event bus, one LogLine per line.
// It sits behind the logger's MultiWriter next to the log file, so it
// must never block: lines the bus has no room for are dropped, the
// file keeps the full record.
type Writer struct {
	bus *event.Bus
}

// NewWriter returns a bus-backed log writer.
func NewWriter(bus *event.Bus) *Writer {
	return &Writer{bus: bus}
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	for _, line := range strings.Split(string(p), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		w.bus.TryEmit(event.LogLine{Line: line})
	}
	return len(p), nil
}
