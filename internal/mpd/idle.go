package mpd

import (
	"errors"
	"sync"
	"time"

	gompd "github.com/fhs/gompd/v2/mpd"
	"github.com/rs/zerolog"

	"github.com/rondo-mpd/rondo/internal/event"
)

// Subsystems the idle listener subscribes to. Anything the UI renders
// can change through one of these.
var idleSubsystems = []string{
	"player",
	"playlist",
	"mixer",
	"options",
	"database",
	"update",
	"sticker",
	"stored_playlist",
	"output",
}

var errIdleFeedClosed = errors.New("idle feed closed")

// IdleListener watches MPD's idle feed on its own connection and
// publishes an Idle event per changed subsystem. Outages are bracketed
// by LostConnection/Reconnected the same way the command worker brackets
// its own; a broken feed redials with the shared backoff.
type IdleListener struct {
	network  string
	addr     string
	password string
	bus      *event.Bus
	log      zerolog.Logger

	done      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewIdleListener prepares an idle listener for the given MPD
// address.
func NewIdleListener(address, password string, bus *event.Bus, log zerolog.Logger) *IdleListener {
	network, dial := SplitAddr(address)
	return &IdleListener{
		network:  network,
		addr:     dial,
		password: password,
		bus:      bus,
		log:      log.With().Str("component", "idle").Logger(),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start launches the listener goroutine.
func (l *IdleListener) Start() {
	go l.run()
}

// Close stops the listener and returns once its goroutine has exited.
func (l *IdleListener) Close() {
	l.closeOnce.Do(func() { close(l.done) })
	<-l.stopped
}

func (l *IdleListener) run() {
	defer close(l.stopped)

	lostReported := false
	for {
		watcher := l.connect(lostReported)
		if watcher == nil {
			return
		}
		err := l.consume(watcher)
		watcher.Close()
		if err == nil {
			return
		}
		l.log.Warn().Err(err).Msg("idle feed broke")
		l.bus.Emit(event.LostConnection{Err: err})
		lostReported = true

		// Breathe before redialing so a daemon that accepts
		// connects but keeps failing idle does not spin us.
		select {
		case <-l.done:
			return
		case <-time.After(withJitter(minBackoff)):
		}
	}
}

// connect dials the idle connection until it succeeds or the listener
// closes. The first failed attempt publishes a LostConnection so the
// UI shows the outage; later attempts only log. As in the command
// worker, Reconnected is published only after a LostConnection, so a
// clean startup connect stays silent.
func (l *IdleListener) connect(lostReported bool) *gompd.Watcher {
	for attempt := 1; ; attempt++ {
		watcher, err := gompd.NewWatcher(l.network, l.addr, l.password, idleSubsystems...)
		if err == nil {
			l.log.Info().Str("addr", l.addr).Msg("idle connected")
			if lostReported {
				l.bus.Emit(event.Reconnected{})
			}
			return watcher
		}
		if !lostReported {
			l.bus.Emit(event.LostConnection{Err: err})
			lostReported = true
		}
		delay := withJitter(calculateBackoff(attempt))
		l.log.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", delay).Msg("idle connect failed")
		select {
		case <-l.done:
			return nil
		case <-time.After(delay):
		}
	}
}

// consume forwards events from one watcher until the feed breaks or the
// listener closes. A nil return means Close was requested.
func (l *IdleListener) consume(watcher *gompd.Watcher) error {
	for {
		select {
		case <-l.done:
			return nil
		case subsystem, ok := <-watcher.Event:
			if !ok {
				return errIdleFeedClosed
			}
			l.log.Debug().Str("subsystem", subsystem).Msg("idle")
			if !l.bus.Emit(event.Idle{Subsystem: subsystem}) {
				return nil
			}
		case err, ok := <-watcher.Error:
			if !ok {
				return errIdleFeedClosed
			}
			return err
		}
	}
}
