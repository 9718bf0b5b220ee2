// Package session
// Author: momentics <momentics@gmail.com>
//
// Connection registry for the echo reactor.
// Each Conn maps to one accepted client socket and owns its per-connection
// state: lifecycle, byte counters and output that is waiting for the socket
// to become writable again.
//
// The registry is owned by the event loop goroutine and is not safe for
// concurrent use.

package session
