// Package ident mints process-wide unique identifiers.
//
// Identifiers are monotonically increasing integers handed out atomically.
// They identify scheduler jobs, pane buffers, and anything else that needs
// a cheap process-local identity. Zero is never minted, so it can serve as
// the "no id" sentinel.
package ident

import "sync/atomic"

// ID is a process-wide unique identifier.
type ID uint64

// None is the zero ID, never returned by Next.
const None ID = 0

var counter atomic.Uint64

// Next returns the next identifier. Safe for concurrent use.
func Next() ID {
	return ID(counter.Add(1))
}
