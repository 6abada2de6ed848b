// Package sched runs timed jobs for the UI loop: one-shot timers and
// repeating ticks like the status update poll. Jobs fire on a single
// driver goroutine; anything that must touch UI state publishes an
// event instead of mutating state directly.
package sched

import (
	"container/heap"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/ident"
)

type job struct {
	id       ident.ID
	at       time.Time
	interval time.Duration // 0 for one-shot jobs
	seq      uint64
	fn       func()

	cancelled bool
	index     int // heap index, maintained by the heap methods
}

type jobHeap []*job

func (h jobHeap) Len() int { return len(h) }

func (h jobHeap) Less(i, j int) bool {
	if !h[i].at.Equal(h[j].at) {
		return h[i].at.Before(h[j].at)
	}
	// Equal deadlines fire in insertion order.
	return h[i].seq < h[j].seq
}

func (h jobHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *jobHeap) Push(x any) {
	j := x.(*job)
	j.index = len(*h)
	*h = append(*h, j)
}

func (h *jobHeap) Pop() any {
	old := *h
	n := len(old)
	j := old[n-1]
	old[n-1] = nil
	j.index = -1
	*h = old[:n-1]
	return j
}

// Scheduler orders jobs by deadline and runs them on its own
// goroutine. All methods are safe for concurrent use.
type Scheduler struct {
	mu      sync.Mutex
	heap    jobHeap
	byID    map[ident.ID]*job
	nextSeq uint64
	stopped bool

	wake chan struct{}
	done chan struct{}
	log  zerolog.Logger
}

// New starts a scheduler. Stop must be called to release its
// goroutine.
func New(log zerolog.Logger) *Scheduler {
	s := &Scheduler{
		byID: make(map[ident.ID]*job),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
		log:  log.With().Str("component", "sched").Logger(),
	}
	go s.run()
	return s
}

// Once schedules fn to run once after delay and returns a handle for
// Cancel. A non-positive delay fires as soon as the driver gets to it.
func (s *Scheduler) Once(delay time.Duration, fn func()) ident.ID {
	return s.add(time.Now().Add(delay), 0, fn)
}

// At schedules fn to run once at the given time.
func (s *Scheduler) At(at time.Time, fn func()) ident.ID {
	return s.add(at, 0, fn)
}

// Every schedules fn to run repeatedly. The first run happens after
// interval; later runs are spaced from the end of the previous run,
// so a slow fn delays the next tick rather than stacking runs.
func (s *Scheduler) Every(interval time.Duration, fn func()) ident.ID {
	if interval <= 0 {
		interval = time.Millisecond
	}
	return s.add(time.Now().Add(interval), interval, fn)
}

func (s *Scheduler) add(at time.Time, interval time.Duration, fn func()) ident.ID {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return ident.None
	}
	j := &job{
		id:       ident.Next(),
		at:       at,
		interval: interval,
		seq:      s.nextSeq,
		fn:       fn,
	}
	s.nextSeq++
	heap.Push(&s.heap, j)
	s.byID[j.id] = j
	s.wakeDriver()
	return j.id
}

// Cancel removes the job with the given handle. It returns false when
// the handle is unknown, already fired (one-shot), or already
// cancelled. Cancelling a repeating job stops future runs; a run in
// progress finishes.
func (s *Scheduler) Cancel(id ident.ID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.byID[id]
	if !ok {
		return false
	}
	j.cancelled = true
	delete(s.byID, id)
	if j.index >= 0 {
		heap.Remove(&s.heap, j.index)
	}
	return true
}

// Stop shuts the scheduler down. Pending jobs never fire; a job in
// progress finishes. Stop is idempotent and returns after the driver
// goroutine has exited.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		<-s.done
		return
	}
	s.stopped = true
	s.heap = nil
	s.byID = nil
	s.mu.Unlock()
	s.wakeDriver()
	<-s.done
}

func (s *Scheduler) wakeDriver() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run() {
	defer close(s.done)
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}

		now := time.Now()
		var due *job
		var wait time.Duration = -1
		if len(s.heap) > 0 {
			next := s.heap[0]
			if d := next.at.Sub(now); d <= 0 {
				due = heap.Pop(&s.heap).(*job)
				if due.interval == 0 {
					delete(s.byID, due.id)
				}
			} else {
				wait = d
			}
		}
		s.mu.Unlock()

		if due != nil {
			s.fire(due)
			continue
		}

		if wait < 0 {
			// Empty heap: sleep until something is added.
			select {
			case <-s.wake:
			}
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)
		select {
		case <-timer.C:
		case <-s.wake:
		}
	}
}

func (s *Scheduler) fire(j *job) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Interface("panic", r).Msg("scheduled job panicked")
		}
		if j.interval > 0 {
			s.reschedule(j)
		}
	}()
	j.fn()
}

// reschedule puts a repeating job back on the heap with its deadline
// measured from now, after the run completed.
func (s *Scheduler) reschedule(j *job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || j.cancelled {
		return
	}
	j.at = time.Now().Add(j.interval)
	j.seq = s.nextSeq
	s.nextSeq++
	heap.Push(&s.heap, j)
	s.wakeDriver()
}
