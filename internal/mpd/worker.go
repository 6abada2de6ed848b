package mpd

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/event"
	"github.com/rondo-mpd/rondo/internal/ident"
)

const (
	minBackoff   = 250 * time.Millisecond
	maxBackoff   = 10 * time.Second
	pingInterval = 30 * time.Second
)

// Query is one unit of work for the worker: a function run against
// the shared client, with the result published as a QueryDone event.
//
// A non-empty ReplaceID makes the query supersede any queued query
// with the same ReplaceID and Target that has not started yet: the
// newcomer takes the old query's place in line and the old one is
// dropped without a result. Rapid cursor movement in the browser, for
// example, leaves only the newest listing request in the queue.
type Query struct {
	ID        ident.ID
	Target    string
	ReplaceID string
	Do        func(c *gompd.Client) (any, error)
}

// Worker owns the MPD command connection. Queries run one at a time
// in submission order; when the connection drops the worker
// reconnects with backoff and the queue carries over.
type Worker struct {
	network  string
	addr     string
	password string
	bus      *event.Bus
	log      zerolog.Logger

	mu      sync.Mutex
	queue   []*Query
	closed  bool
	started bool

	wake    chan struct{}
	done    chan struct{}
	stopped chan struct{}
}

// NewWorker prepares a worker for the given MPD address. Start must
// be called before submitting queries.
func NewWorker(address, password string, bus *event.Bus, log zerolog.Logger) *Worker {
	network, dial := SplitAddr(address)
	return &Worker{
		network:  network,
		addr:     dial,
		password: password,
		bus:      bus,
		log:      log.With().Str("component", "mpd").Logger(),
		wake:     make(chan struct{}, 1),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
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

// Submit queues q and returns its id, assigning one when the caller
// left it zero. Returns ident.None after Close.
func (w *Worker) Submit(q Query) ident.ID {
	if q.ID == ident.None {
		q.ID = ident.Next()
	}
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return ident.None
	}
	if q.ReplaceID != "" {
		for i, queued := range w.queue {
			if queued.ReplaceID == q.ReplaceID && queued.Target == q.Target {
				w.queue[i] = &q
				w.mu.Unlock()
				w.wakeWorker()
				return q.ID
			}
		}
	}
	w.queue = append(w.queue, &q)
	w.mu.Unlock()
	w.wakeWorker()
	return q.ID
}

// Pending returns the number of queued queries, for tests and the
// shutdown drain.
func (w *Worker) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.queue)
}

// Close stops the worker. The query in flight finishes; queued
// queries are dropped. Close is idempotent and returns once the
// worker goroutine has exited.
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
	close(w.done)
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

func (w *Worker) pop() *Query {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.queue) == 0 {
		return nil
	}
	q := w.queue[0]
	copy(w.queue, w.queue[1:])
	w.queue[len(w.queue)-1] = nil
	w.queue = w.queue[:len(w.queue)-1]
	return q
}

func (w *Worker) run() {
	defer close(w.stopped)

	lostReported := false
	for {
		client := w.connect(lostReported)
		if client == nil {
			return
		}
		err := w.serve(client)
		client.Close()
		if err == nil {
			return
		}
		w.log.Warn().Err(err).Msg("connection lost")
		w.bus.Emit(event.LostConnection{Err: err})
		lostReported = true
	}
}

// connect dials until it succeeds or the worker closes. The first
// failed attempt publishes a LostConnection so the UI shows the
// outage; later attempts only log. A success publishes Reconnected
// only when a LostConnection went out before it, so a clean startup
// connect stays silent and the pair always matches up.
func (w *Worker) connect(lostReported bool) *gompd.Client {
	for attempt := 1; ; attempt++ {
		client, err := w.dial()
		if err == nil {
			w.log.Info().Str("addr", w.addr).Msg("connected")
			if lostReported {
				w.bus.Emit(event.Reconnected{})
			}
			return client
		}
		if !lostReported {
			w.bus.Emit(event.LostConnection{Err: err})
			lostReported = true
		}
		delay := withJitter(calculateBackoff(attempt))
		w.log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("connect failed")
		select {
		case <-w.done:
			return nil
		case <-time.After(delay):
		}
	}
}

func (w *Worker) dial() (*gompd.Client, error) {
	if w.password != "" {
		return gompd.DialAuthenticated(w.network, w.addr, w.password)
	}
	return gompd.Dial(w.network, w.addr)
}

// serve runs queries against client until the connection fails or the
// worker closes. A nil return means Close was requested.
func (w *Worker) serve(client *gompd.Client) error {
	idle := time.NewTimer(pingInterval)
	defer idle.Stop()

	for {
		q := w.pop()
		if q == nil {
			if !idle.Stop() {
				select {
				case <-idle.C:
				default:
				}
			}
			idle.Reset(pingInterval)
			select {
			case <-w.done:
				return nil
			case <-w.wake:
			case <-idle.C:
				if err := client.Ping(); err != nil {
					return fmt.Errorf("ping: %w", err)
				}
			}
			continue
		}

		data, err := runQuery(client, q)
		if err != nil {
			if pe, ok := ParseAck(err); ok {
				// The daemon rejected the command; the
				// connection itself is fine.
				w.bus.Emit(event.QueryDone{ID: q.ID, Target: q.Target, Err: pe})
				continue
			}
			w.bus.Emit(event.QueryDone{ID: q.ID, Target: q.Target, Err: err})
			return err
		}
		w.bus.Emit(event.QueryDone{ID: q.ID, Target: q.Target, Data: data})
	}
}

func runQuery(client *gompd.Client, q *Query) (data any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query %s panicked: %v", q.Target, r)
		}
	}()
	return q.Do(client)
}

// calculateBackoff returns the base delay before reconnect attempt n,
// doubling from minBackoff and capped at maxBackoff.
func calculateBackoff(attempt int) time.Duration {
	d := minBackoff
	for i := 1; i < attempt && d < maxBackoff; i++ {
		d *= 2
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	return d
}

// withJitter spreads d by up to a quarter either way so retries from
// several clients do not land in lockstep.
func withJitter(d time.Duration) time.Duration {
	f := 0.75 + rand.Float64()*0.5
	return time.Duration(float64(d) * f)
}
