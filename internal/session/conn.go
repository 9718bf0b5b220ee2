// File: internal/session/conn.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package session

import (
	"fmt"
	"time"

	"github.com/eapache/queue"

	"github.com/momentics/hioload-echo/pool"
)

// State is the lifecycle position of a connection.
type State int

const (
	// StateOpen is registered with the reactor and serviced by the echo loop.
	StateOpen State = iota
	// StateClosing is deregistered and its descriptor released. Terminal.
	StateClosing
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateClosing:
		return "closing"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Conn is one accepted client.
type Conn struct {
	FD       int
	Peer     string
	Accepted time.Time

	state    State
	bytesIn  uint64
	bytesOut uint64

	// pending holds *pool.Chunk values in write order.
	pending      *queue.Queue
	pendingBytes int
}

// NewConn builds an open connection record.
func NewConn(fd int, peer string, accepted time.Time) *Conn {
	return &Conn{
		FD:       fd,
		Peer:     peer,
		Accepted: accepted,
		state:    StateOpen,
	}
}

func (c *Conn) String() string {
	return fmt.Sprintf("fd=%d peer=%s state=%s", c.FD, c.Peer, c.state)
}

func (c *Conn) State() State { return c.state }

// BytesIn is the number of bytes read from the peer.
func (c *Conn) BytesIn() uint64 { return c.bytesIn }

// BytesOut is the number of bytes written back to the peer.
func (c *Conn) BytesOut() uint64 { return c.bytesOut }

// AddIn accounts n received bytes.
func (c *Conn) AddIn(n int) { c.bytesIn += uint64(n) }

// AddOut accounts n sent bytes.
func (c *Conn) AddOut(n int) { c.bytesOut += uint64(n) }

// PendingBytes is the amount of output waiting for a writable socket.
func (c *Conn) PendingBytes() int { return c.pendingBytes }

// HasPending reports whether any output is queued.
func (c *Conn) HasPending() bool { return c.pendingBytes > 0 }

// QueueOutput copies p behind any output already pending.
func (c *Conn) QueueOutput(p []byte, chunks *pool.ChunkPool) {
	if c.pending == nil {
		c.pending = queue.New()
	}
	for len(p) > 0 {
		ch, n := chunks.Fill(p)
		c.pending.Add(ch)
		c.pendingBytes += n
		p = p[n:]
	}
}

// PeekOutput returns the oldest unsent bytes, or nil when nothing is pending.
func (c *Conn) PeekOutput() []byte {
	if c.pending == nil || c.pending.Length() == 0 {
		return nil
	}
	return c.pending.Peek().(*pool.Chunk).Data
}

// ConsumeOutput marks n bytes at the head of the queue as written.
func (c *Conn) ConsumeOutput(n int, chunks *pool.ChunkPool) {
	for n > 0 && c.pending != nil && c.pending.Length() > 0 {
		ch := c.pending.Peek().(*pool.Chunk)
		if n < len(ch.Data) {
			ch.Data = ch.Data[n:]
			c.pendingBytes -= n
			return
		}
		n -= len(ch.Data)
		c.pendingBytes -= len(ch.Data)
		c.pending.Remove()
		chunks.Put(ch)
	}
}

// release drops pending output and moves the connection to StateClosing.
func (c *Conn) release(chunks *pool.ChunkPool) {
	if c.pending != nil {
		for c.pending.Length() > 0 {
			ch := c.pending.Remove().(*pool.Chunk)
			if chunks != nil {
				chunks.Put(ch)
			}
		}
	}
	c.pendingBytes = 0
	c.state = StateClosing
}
