// Package watch wraps fsnotify with per-path debouncing. Editors and
// downloaders touch files in bursts; consumers want one callback per
// settled file, not one per syscall.
package watch

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is the settle time between the last filesystem
// event for a path and its callback.
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration

	// Recursive watches subdirectories of the root too, including
	// ones created later.
	Recursive bool

	// Match filters paths before debouncing. Nil matches all.
	Match func(path string) bool

	// OnChange runs after a path settles. removed reports whether
	// the path no longer exists at that point, so a burst of
	// delete-then-recreate collapses into its end state. OnChange
	// runs on a timer goroutine and must be safe to call
	// concurrently with itself.
	OnChange func(path string, removed bool)
}

// Watcher debounces filesystem events below one root.
type Watcher struct {
	fsw  *fsnotify.Watcher
	opts Options
	log  zerolog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool

	stopped chan struct{}
}

// New watches root with the given options. Root must exist.
func New(root string, opts Options, log zerolog.Logger) (*Watcher, error) {
	if opts.OnChange == nil {
		return nil, fmt.Errorf("watch %s: no OnChange callback", root)
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch %s: %w", root, err)
	}
	w := &Watcher{
		fsw:     fsw,
		opts:    opts,
		log:     log.With().Str("component", "watch").Str("root", root).Logger(),
		timers:  make(map[string]*time.Timer),
		stopped: make(chan struct{}),
	}

	if err := w.addTree(root); err != nil {
		fsw.Close()
		return nil, err
	}
	go w.run()
	return w, nil
}

// WatchFile watches a single file through its parent directory, which
// survives the rename-replace dance editors do on save.
func WatchFile(path string, debounce time.Duration, onChange func(removed bool), log zerolog.Logger) (*Watcher, error) {
	path = filepath.Clean(path)
	return New(filepath.Dir(path), Options{
		Debounce: debounce,
		Match:    func(p string) bool { return filepath.Clean(p) == path },
		OnChange: func(_ string, removed bool) { onChange(removed) },
	}, log)
}

// Close stops the watcher. Callbacks already debouncing are dropped.
func (w *Watcher) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		<-w.stopped
		return
	}
	w.closed = true
	for _, t := range w.timers {
		t.Stop()
	}
	w.timers = nil
	w.mu.Unlock()

	w.fsw.Close()
	<-w.stopped
}

func (w *Watcher) addTree(root string) error {
	if !w.opts.Recursive {
		if err := w.fsw.Add(root); err != nil {
			return fmt.Errorf("watch %s: %w", root, err)
		}
		return nil
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	return nil
}

func (w *Watcher) run() {
	defer close(w.stopped)
	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn().Err(err).Msg("watcher error")
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if ev.Op == fsnotify.Chmod {
		return
	}
	if w.opts.Recursive && ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.fsw.Add(ev.Name); err != nil {
				w.log.Warn().Err(err).Str("dir", ev.Name).Msg("cannot watch new directory")
			}
			return
		}
	}
	if w.opts.Match != nil && !w.opts.Match(ev.Name) {
		return
	}
	w.schedule(ev.Name)
}

func (w *Watcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if t, ok := w.timers[path]; ok {
		t.Reset(w.opts.Debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.opts.Debounce, func() { w.fire(path) })
}

func (w *Watcher) fire(path string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	delete(w.timers, path)
	w.mu.Unlock()

	_, err := os.Stat(path)
	w.opts.OnChange(path, err != nil)
}
