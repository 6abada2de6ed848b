package event

import "sync"

// DefaultCapacity is the bus buffer used by the app. Producers block
// once the buffer fills, which applies natural backpressure to noisy
// workers without dropping events.
const DefaultCapacity = 256

// Bus is the single channel all background producers publish to. The
// UI loop is the only consumer.
type Bus struct {
	ch   chan Event
	done chan struct{}

	closeOnce sync.Once
}

// NewBus returns a bus with the given buffer capacity. Capacities
// below one are raised to one.
func NewBus(capacity int) *Bus {
	if capacity < 1 {
		capacity = 1
	}
	return &Bus{
		ch:   make(chan Event, capacity),
		done: make(chan struct{}),
	}
}

// Emit publishes ev, blocking while the buffer is full. It returns
// false if the bus closed before the event could be queued; producers
// use that as their signal to stop.
func (b *Bus) Emit(ev Event) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.ch <- ev:
		return true
	case <-b.done:
		return false
	}
}

// TryEmit publishes ev only if the buffer has room. Used for events
// that are safe to drop under load, like render requests.
func (b *Bus) TryEmit(ev Event) bool {
	select {
	case <-b.done:
		return false
	default:
	}
	select {
	case b.ch <- ev:
		return true
	default:
		return false
	}
}

// Events returns the receive side of the bus.
func (b *Bus) Events() <-chan Event {
	return b.ch
}

// Close stops the bus. Emit calls in flight return false; events
// already buffered remain readable from Events. Close is idempotent.
func (b *Bus) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

// Done returns a channel closed when the bus is closed, for producers
// that select on it directly.
func (b *Bus) Done() <-chan struct{} {
	return b.done
}
