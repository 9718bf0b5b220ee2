// File: reactor/reactor.go
// Author: momentics <momentics@gmail.com>
//
// Platform-neutral readiness multiplexer interface.

package reactor

import (
	"strings"
	"time"
)

// DefaultMaxEvents bounds the batch delivered by one Wait.
const DefaultMaxEvents = 1024

// Interest is the set of readiness conditions a registration asks for.
type Interest uint8

const (
	Readable Interest = 1 << iota
	Writable
	// EdgeTriggered reports transitions only, not persisting conditions.
	EdgeTriggered
)

func (i Interest) String() string {
	if i == 0 {
		return "none"
	}
	var parts []string
	if i&Readable != 0 {
		parts = append(parts, "read")
	}
	if i&Writable != 0 {
		parts = append(parts, "write")
	}
	if i&EdgeTriggered != 0 {
		parts = append(parts, "et")
	}
	return strings.Join(parts, "|")
}

// Event is one ready descriptor from a Wait batch.
type Event struct {
	Fd       int
	Readable bool
	Writable bool
	// Hangup is set for error and hang-up conditions. A read or write on the
	// descriptor will surface the actual cause.
	Hangup bool
}

// Reactor registers descriptors and blocks until some of them are ready.
// A Reactor is driven by a single goroutine.
type Reactor interface {
	// Register adds fd with the given interest.
	Register(fd int, interest Interest) error

	// Modify replaces the interest of an already registered fd.
	Modify(fd int, interest Interest) error

	// Deregister removes fd. It must be called before fd is closed.
	Deregister(fd int) error

	// Wait blocks up to timeout (negative blocks indefinitely) and returns the ready batch.
	// Timeout and signal interruption both yield an empty batch and a nil error.
	// The returned slice is reused by the next call.
	Wait(timeout time.Duration) ([]Event, error)

	// Close releases the multiplexer.
	Close() error
}
