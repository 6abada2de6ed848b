package watch

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type recorder struct {
	mu    sync.Mutex
	calls []call
	ch    chan call
}

type call struct {
	path    string
	removed bool
}

func newRecorder() *recorder {
	return &recorder{ch: make(chan call, 16)}
}

func (r *recorder) onChange(path string, removed bool) {
	c := call{path: path, removed: removed}
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
	r.ch <- c
}

func (r *recorder) wait(t *testing.T) call {
	t.Helper()
	select {
	case c := <-r.ch:
		return c
	case <-time.After(5 * time.Second):
		t.Fatalf("no callback arrived")
		return call{}
	}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func TestWatcher_ReportsSettledWrite(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w, err := New(dir, Options{Debounce: 50 * time.Millisecond, OnChange: rec.onChange}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(w.Close)

	path := filepath.Join(dir, "song.lrc")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := rec.wait(t)
	if c.path != path {
		t.Fatalf("path = %q, want %q", c.path, path)
	}
	if c.removed {
		t.Fatalf("removed = true for an existing file")
	}
}

func TestWatcher_CollapsesBursts(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w, err := New(dir, Options{Debounce: 150 * time.Millisecond, OnChange: rec.onChange}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(w.Close)

	path := filepath.Join(dir, "busy.lrc")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte(strings.Repeat("x", i+1)), 0o600); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	rec.wait(t)
	// Allow a straggler to show up before counting.
	time.Sleep(300 * time.Millisecond)
	if got := rec.count(); got != 1 {
		t.Fatalf("callbacks = %d, want 1 for a write burst", got)
	}
}

func TestWatcher_ReportsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "gone.lrc")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	rec := newRecorder()
	w, err := New(dir, Options{Debounce: 50 * time.Millisecond, OnChange: rec.onChange}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(w.Close)

	if err := os.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	c := rec.wait(t)
	if !c.removed {
		t.Fatalf("removed = false after delete")
	}
}

func TestWatcher_MatchFilters(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w, err := New(dir, Options{
		Debounce: 50 * time.Millisecond,
		Match:    func(p string) bool { return filepath.Ext(p) == ".lrc" },
		OnChange: rec.onChange,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(w.Close)

	if err := os.WriteFile(filepath.Join(dir, "cover.jpg"), []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "match.lrc"), []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := rec.wait(t)
	if filepath.Base(c.path) != "match.lrc" {
		t.Fatalf("callback for %q, want match.lrc", c.path)
	}
	time.Sleep(200 * time.Millisecond)
	if got := rec.count(); got != 1 {
		t.Fatalf("callbacks = %d, want 1", got)
	}
}

func TestWatcher_RecursivePicksUpNewSubdir(t *testing.T) {
	dir := t.TempDir()
	rec := newRecorder()

	w, err := New(dir, Options{
		Debounce:  50 * time.Millisecond,
		Recursive: true,
		OnChange:  rec.onChange,
	}, zerolog.Nop())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(w.Close)

	sub := filepath.Join(dir, "album")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	// Give the watcher a beat to register the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "nested.lrc")
	if err := os.WriteFile(path, []byte("x"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	c := rec.wait(t)
	if c.path != path {
		t.Fatalf("path = %q, want %q", c.path, path)
	}
}

func TestWatchFile_IgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(target, []byte("a = 1"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got := make(chan bool, 4)
	w, err := WatchFile(target, 50*time.Millisecond, func(removed bool) { got <- removed }, zerolog.Nop())
	if err != nil {
		t.Fatalf("WatchFile: %v", err)
	}
	t.Cleanup(w.Close)

	if err := os.WriteFile(filepath.Join(dir, "other.toml"), []byte("b = 2"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(target, []byte("a = 2"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	select {
	case removed := <-got:
		if removed {
			t.Fatalf("removed = true for rewritten file")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("no callback for target file")
	}

	select {
	case <-got:
		t.Fatalf("extra callback, sibling file not filtered")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNew_MissingRootFails(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "absent"), Options{
		OnChange: func(string, bool) {},
	}, zerolog.Nop())
	if err == nil {
		t.Fatalf("New succeeded on a missing root")
	}
}
