package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rondo-mpd/rondo/internal/event"
)

func writeLog(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rondo.log")
	data := strings.Join(lines, "\n")
	if len(lines) > 0 {
		data += "\n"
	}
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	return path
}

func TestRead_ReturnsTailInOrder(t *testing.T) {
	lines := make([]string, 10)
	for i := range lines {
		lines[i] = fmt.Sprintf("line %d", i)
	}
	path := writeLog(t, lines...)

	got, err := Read(path, 3)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	want := []string{"line 7", "line 8", "line 9"}
	if len(got) != len(want) {
		t.Fatalf("Read() returned %d lines, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRead_ShortFileReturnsAllLines(t *testing.T) {
	path := writeLog(t, "first", "second")

	got, err := Read(path, 400)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Read() returned %d lines, want 2", len(got))
	}
	if got[0] != "first" || got[1] != "second" {
		t.Errorf("Read() = %v, want [first second]", got)
	}
}

func TestRead_ExactlyMaxLines(t *testing.T) {
	path := writeLog(t, "a", "b", "c")

	got, err := Read(path, 3)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Read() returned %d lines, want 3", len(got))
	}
	if got[0] != "a" || got[2] != "c" {
		t.Errorf("Read() = %v, want [a b c]", got)
	}
}

func TestRead_MissingFileYieldsNoLines(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "absent.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v, want nil for missing file", err)
	}
	if got != nil {
		t.Errorf("Read() = %v, want nil", got)
	}
}

func TestRead_EmptyFile(t *testing.T) {
	path := writeLog(t)

	got, err := Read(path, 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Read() returned %d lines, want 0", len(got))
	}
}

func TestRead_NonPositiveMaxLines(t *testing.T) {
	path := writeLog(t, "one")

	for _, n := range []int{0, -1} {
		got, err := Read(path, n)
		if err != nil {
			t.Fatalf("Read(maxLines=%d) error = %v", n, err)
		}
		if got != nil {
			t.Errorf("Read(maxLines=%d) = %v, want nil", n, got)
		}
	}
}

func collectLines(t *testing.T, bus *event.Bus, n int) []string {
	t.Helper()
	var lines []string
	for len(lines) < n {
		select {
		case ev := <-bus.Events():
			if ll, ok := ev.(event.LogLine); ok {
				lines = append(lines, ll.Line)
			}
		case <-time.After(time.Second):
			t.Fatalf("got %d log lines, want %d", len(lines), n)
		}
	}
	return lines
}

func TestWriter_EmitsOneEventPerLine(t *testing.T) {
	bus := event.NewBus(16)
	defer bus.Close()
	w := NewWriter(bus)

	msg := "10:04AM INF connected to daemon\n10:04AM WRN slow response\n"
	n, err := w.Write([]byte(msg))
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(msg) {
		t.Fatalf("Write() = %d, want %d", n, len(msg))
	}

	lines := collectLines(t, bus, 2)
	if lines[0] != "10:04AM INF connected to daemon" {
		t.Errorf("first line = %q", lines[0])
	}
	if lines[1] != "10:04AM WRN slow response" {
		t.Errorf("second line = %q", lines[1])
	}
}

func TestWriter_SkipsBlankLinesAndTrimsCR(t *testing.T) {
	bus := event.NewBus(16)
	defer bus.Close()
	w := NewWriter(bus)

	if _, err := w.Write([]byte("one\r\n\n   \ntwo\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	lines := collectLines(t, bus, 2)
	if lines[0] != "one" {
		t.Errorf("first line = %q, want %q", lines[0], "one")
	}
	if lines[1] != "two" {
		t.Errorf("second line = %q, want %q", lines[1], "two")
	}
}

func TestWriter_DoesNotBlockOnFullBus(t *testing.T) {
	bus := event.NewBus(1)
	defer bus.Close()
	bus.TryEmit(event.RequestRender{})

	w := NewWriter(bus)
	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := w.Write([]byte("dropped line\n")); err != nil {
			t.Errorf("Write() error = %v", err)
		}
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Write blocked on a full bus")
	}
}
