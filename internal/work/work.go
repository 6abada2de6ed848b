// Package work runs jobs too slow for the UI loop: lyrics indexing
// and external commands like the downloader. Jobs run one at a time
// on a single goroutine and report through WorkDone events.
package work

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/event"
)

// Job is one unit of background work. The set of variants is closed;
// see IndexLyrics, IndexSingleLrc, and External.
type Job interface {
	isJob()
}

// IndexLyrics scans Dir recursively and builds a fresh lyrics index.
// Consecutive pending scans coalesce: queueing one while another is
// already waiting is a no-op, since the later scan would see the same
// directory state.
type IndexLyrics struct {
	Dir string
}

// IndexSingleLrc re-parses one .lrc file after a filesystem change,
// or reports its removal.
type IndexSingleLrc struct {
	Path    string
	Removed bool
}

// External runs an external command. When CaptureFile is set, the
// last non-empty stdout line is taken as the path of the file the
// command produced, the convention of downloaders run with a print-
// filepath flag. AddToQueue asks the UI loop to add that file to the
// play queue on success. ShowOutput instead presents the captured
// stdout in the info modal, for ":exec"-style user commands.
type External struct {
	Note        string // short human description for status messages
	Argv        []string
	Dir         string // working directory; empty means inherit
	CaptureFile bool
	AddToQueue  bool
	ShowOutput  bool
}

func (IndexLyrics) isJob()    {}
func (IndexSingleLrc) isJob() {}
func (External) isJob()       {}

// Worker owns the background job queue.
type Worker struct {
	bus *event.Bus
	log zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.Mutex
	queue   []Job
	closed  bool
	started bool

	wake    chan struct{}
	stopped chan struct{}
}

// NewWorker prepares a worker publishing to bus. Start must be called
// before submitting jobs.
func NewWorker(bus *event.Bus, log zerolog.Logger) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:     bus,
		log:     log.With().Str("component", "work").Logger(),
		ctx:     ctx,
		cancel:  cancel,
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
	}
}

// Start launches the worker goroutine.
func (w *Worker) Start() {
	w.mu.Lock()
	if w.started || w.closed {
		w.mu.Unlock()
		return
	}
	w.started = true
	w.mu.Unlock()
	go w.run()
}

// Submit queues a job. It returns false after Close, or when the job
// coalesced into an already-pending equivalent.
func (w *Worker) Submit(job Job) bool {
	w.mu.Lock()
	defer func() {
		w.mu.Unlock()
		w.wakeWorker()
	}()
	if w.closed {
		return false
	}
	if scan, ok := job.(IndexLyrics); ok {
		for _, queued := range w.queue {
			if pending, ok := queued.(IndexLyrics); ok && pending.Dir == scan.Dir {
				return false
			}
		}
	}
	w.queue = append(w.queue, job)
	return true
}

// Pending returns the number of queued jobs.
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Close stops the worker, cancelling a running external command, and
// returns once the goroutine has exited. Queued jobs are dropped.
func (w *Worker) Close() {
	w.mu.Lock()
	started := w.started
	if w.closed {
		w.mu.Unlock()
		if started {
			<-w.stopped
		}
		return
	}
	w.closed = true
	w.queue = nil
	w.mu.Unlock()
	w.cancel()
	w.wakeWorker()
	if started {
		<-w.stopped
	}
}

func (w *Worker) wakeWorker() {
	select {
	case w.wake <- struct{}{}:
	default:
	}
}

func (w *Worker) pop() (Job, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed || len(w.queue) == 0 {
		return nil, w.closed
	}
	job := w.queue[0]
	copy(w.queue, w.queue[1:])
	w.queue[len(w.queue)-1] = nil
	w.queue = w.queue[:len(w.queue)-1]
	return job, false
}

func (w *Worker) run() {
	defer close(w.stopped)
	for {
		job, closed := w.pop()
		if closed {
			return
		}
		if job == nil {
			select {
			case <-w.ctx.Done():
				return
			case <-w.wake:
			}
			continue
		}
		w.runJob(job)
	}
}

func (w *Worker) runJob(job Job) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error().Interface("panic", r).Msgf("job %T panicked", job)
		}
	}()

	switch j := job.(type) {
	case IndexLyrics:
		w.indexLyrics(j)
	case IndexSingleLrc:
		w.indexSingle(j)
	case External:
		w.runExternal(j)
	}
}
