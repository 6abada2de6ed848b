package work

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/event"
)

func newTestWorker(t *testing.T) (*Worker, *event.Bus) {
	t.Helper()
	bus := event.NewBus(16)
	w := NewWorker(bus, zerolog.Nop())
	w.Start()
	t.Cleanup(func() {
		w.Close()
		bus.Close()
	})
	return w, bus
}

func waitResult[T event.WorkResult](t *testing.T, bus *event.Bus) T {
	t.Helper()
	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-bus.Events():
			done, ok := ev.(event.WorkDone)
			if !ok {
				continue
			}
			if result, ok := done.Result.(T); ok {
				return result
			}
		case <-deadline:
			var zero T
			t.Fatalf("timed out waiting for %T", zero)
			return zero
		}
	}
}

func writeLrc(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestIndexLyrics_BuildsIndex(t *testing.T) {
	dir := t.TempDir()
	writeLrc(t, dir, "one.lrc", "[ar:Some Artist]\n[ti:Some Title]\n[00:01.00]line\n")
	writeLrc(t, dir, "broken.lrc", "[00:01.00]no artist or title\n")

	w, bus := newTestWorker(t)
	w.Submit(IndexLyrics{Dir: dir})

	result := waitResult[event.LyricsIndexed](t, bus)
	if result.Err != nil {
		t.Fatalf("scan failed: %v", result.Err)
	}
	if result.Dir != dir {
		t.Fatalf("Dir = %q, want %q", result.Dir, dir)
	}
	if result.Index.Len() != 1 {
		t.Fatalf("indexed %d files, want 1", result.Index.Len())
	}
	if result.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", result.Skipped)
	}
	if _, ok := result.Index.Lookup("Some Artist", "Some Title", 0); !ok {
		t.Fatalf("indexed song not found by lookup")
	}
}

func TestIndexSingleLrc_ParsesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeLrc(t, dir, "song.lrc", "[ar:A]\n[ti:T]\n[length:03:00]\n[00:05.00]hello\n")

	w, bus := newTestWorker(t)
	w.Submit(IndexSingleLrc{Path: path})

	result := waitResult[event.LrcFileIndexed](t, bus)
	if result.Err != nil {
		t.Fatalf("index failed: %v", result.Err)
	}
	if result.Removed {
		t.Fatalf("Removed = true for an existing file")
	}
	if result.Entry.Path != path {
		t.Fatalf("Entry.Path = %q, want %q", result.Entry.Path, path)
	}
	if result.Entry.Length != 3*time.Minute {
		t.Fatalf("Entry.Length = %v, want 3m", result.Entry.Length)
	}
}

func TestIndexSingleLrc_Removal(t *testing.T) {
	w, bus := newTestWorker(t)
	w.Submit(IndexSingleLrc{Path: "/gone/file.lrc", Removed: true})

	result := waitResult[event.LrcFileIndexed](t, bus)
	if !result.Removed {
		t.Fatalf("Removed = false")
	}
	if result.Path != "/gone/file.lrc" {
		t.Fatalf("Path = %q", result.Path)
	}
}

func TestExternal_CapturesLastStdoutLine(t *testing.T) {
	w, bus := newTestWorker(t)
	w.Submit(External{
		Note:        "download",
		Argv:        []string{"sh", "-c", "echo ignored; echo /music/incoming/track.opus"},
		CaptureFile: true,
		AddToQueue:  true,
	})

	result := waitResult[event.ExternalDone](t, bus)
	if result.Err != nil {
		t.Fatalf("command failed: %v", result.Err)
	}
	if result.File != "/music/incoming/track.opus" {
		t.Fatalf("File = %q", result.File)
	}
	if result.Title != "track.opus" {
		t.Fatalf("Title = %q, want base name fallback for untagged file", result.Title)
	}
	if !result.AddToQueue {
		t.Fatalf("AddToQueue not carried through")
	}
}

func TestExternal_FailureCarriesStderr(t *testing.T) {
	w, bus := newTestWorker(t)
	w.Submit(External{
		Note: "download",
		Argv: []string{"sh", "-c", "echo broken pipe >&2; exit 1"},
	})

	result := waitResult[event.ExternalDone](t, bus)
	if result.Err == nil {
		t.Fatalf("Err = nil for failing command")
	}
	if got := result.Err.Error(); got != "download: broken pipe" {
		t.Fatalf("Err = %q, want stderr text", got)
	}
}

func TestExternal_EmptyCommandErrors(t *testing.T) {
	w, bus := newTestWorker(t)
	w.Submit(External{Note: "noop"})

	result := waitResult[event.ExternalDone](t, bus)
	if result.Err == nil {
		t.Fatalf("Err = nil for empty argv")
	}
}

func TestSubmit_CoalescesPendingScans(t *testing.T) {
	bus := event.NewBus(4)
	defer bus.Close()
	w := NewWorker(bus, zerolog.Nop()) // not started, jobs stay queued

	if !w.Submit(IndexLyrics{Dir: "/lyrics"}) {
		t.Fatalf("first Submit returned false")
	}
	if w.Submit(IndexLyrics{Dir: "/lyrics"}) {
		t.Fatalf("duplicate scan not coalesced")
	}
	if !w.Submit(IndexLyrics{Dir: "/other"}) {
		t.Fatalf("scan of a different dir coalesced")
	}
	if got := w.Pending(); got != 2 {
		t.Fatalf("Pending = %d, want 2", got)
	}
}

func TestSubmit_AfterCloseReturnsFalse(t *testing.T) {
	bus := event.NewBus(4)
	defer bus.Close()
	w := NewWorker(bus, zerolog.Nop())
	w.Close()
	if w.Submit(IndexLyrics{Dir: "/x"}) {
		t.Fatalf("Submit returned true after Close")
	}
}

func TestExternal_ShowOutputEmitsModal(t *testing.T) {
	w, bus := newTestWorker(t)
	w.Submit(External{
		Note:       "mpc",
		Argv:       []string{"sh", "-c", "echo line one; echo line two"},
		ShowOutput: true,
	})

	deadline := time.After(5 * time.Second)
	for {
		select {
		case ev := <-bus.Events():
			modal, ok := ev.(event.InfoModal)
			if !ok {
				continue
			}
			if modal.Title != "mpc" {
				t.Fatalf("Title = %q, want %q", modal.Title, "mpc")
			}
			want := [][2]string{{"", "line one"}, {"", "line two"}}
			if len(modal.Rows) != len(want) {
				t.Fatalf("Rows = %v, want %v", modal.Rows, want)
			}
			for i := range want {
				if modal.Rows[i] != want[i] {
					t.Fatalf("Rows[%d] = %v, want %v", i, modal.Rows[i], want[i])
				}
			}
			return
		case <-deadline:
			t.Fatalf("timed out waiting for info modal")
		}
	}
}

func TestOutputRows(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want [][2]string
	}{
		{"lines", "a\nb\n", [][2]string{{"", "a"}, {"", "b"}}},
		{"crlf", "a\r\nb\r\n", [][2]string{{"", "a"}, {"", "b"}}},
		{"empty", "", [][2]string{{"", "(no output)"}}},
		{"blank", " \n\n", [][2]string{{"", "(no output)"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := outputRows(tt.in)
			if len(got) != len(tt.want) {
				t.Fatalf("outputRows(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("outputRows(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestLastLine(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single line", "/a/b.mp3\n", "/a/b.mp3"},
		{"multiple lines", "progress 1%\nprogress 99%\n/done.mp3\n", "/done.mp3"},
		{"trailing blanks", "/done.mp3\n\n  \n", "/done.mp3"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lastLine(tt.in); got != tt.want {
				t.Fatalf("lastLine(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
