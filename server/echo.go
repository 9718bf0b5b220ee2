// File: server/echo.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-connection echo servicing. Every read is drained until would-block and
// every chunk read is written back completely before the next read.

package server

import (
	"github.com/momentics/hioload-echo/internal/session"
	"github.com/momentics/hioload-echo/internal/transport"
	"github.com/momentics/hioload-echo/reactor"
)

// serviceConn handles one ready event for a client descriptor.
func (s *Server) serviceConn(ev reactor.Event) {
	c, ok := s.conns.Get(ev.Fd)
	if !ok {
		return
	}
	if c.HasPending() {
		if !ev.Writable && !ev.Hangup {
			return
		}
		if !s.flushPending(c) || c.HasPending() {
			return
		}
		if err := s.reactor.Modify(c.FD, connInterest); err != nil {
			s.closeConn(c, "rearm read interest", err)
			return
		}
		// Input that arrived while reads were paused produced no edge we can still see.
	}
	s.drainConn(c)
}

// drainConn reads until the socket reports would-block, echoing each chunk.
func (s *Server) drainConn(c *session.Conn) {
	for {
		n, err := transport.Read(c.FD, s.buf)
		if err != nil {
			if transport.IsWouldBlock(err) {
				return
			}
			s.closeConn(c, "read", err)
			return
		}
		if n == 0 {
			s.closeConn(c, "", nil)
			return
		}
		c.AddIn(n)
		if !s.echo(c, s.buf[:n]) {
			return
		}
		if s.stats.RecordEcho(n) {
			s.logger.Print("first message received, performance tracking started")
		}
		if c.HasPending() {
			// parked until the socket is writable again
			return
		}
	}
}

// echo writes p back to c. It reports false if the connection was torn down.
func (s *Server) echo(c *session.Conn, p []byte) bool {
	if s.cfg.WriteStrategy == WriteDeferred {
		return s.writeDeferred(c, p)
	}
	return s.writeSpin(c, p)
}

// writeSpin retries would-block writes in place until p is fully sent.
func (s *Server) writeSpin(c *session.Conn, p []byte) bool {
	for len(p) > 0 {
		n, err := transport.Write(c.FD, p)
		if err != nil {
			if transport.IsWouldBlock(err) {
				continue
			}
			s.closeConn(c, "write", err)
			return false
		}
		c.AddOut(n)
		p = p[n:]
	}
	return true
}

// writeDeferred writes what the socket takes and queues the rest behind a
// write-readiness registration.
func (s *Server) writeDeferred(c *session.Conn, p []byte) bool {
	for len(p) > 0 {
		n, err := transport.Write(c.FD, p)
		if err != nil {
			if !transport.IsWouldBlock(err) {
				s.closeConn(c, "write", err)
				return false
			}
			c.QueueOutput(p, s.chunks)
			if err := s.reactor.Modify(c.FD, backlogInterest); err != nil {
				s.closeConn(c, "arm write interest", err)
				return false
			}
			return true
		}
		c.AddOut(n)
		p = p[n:]
	}
	return true
}

// flushPending writes queued output until it is empty or the socket pushes back.
func (s *Server) flushPending(c *session.Conn) bool {
	for c.HasPending() {
		n, err := transport.Write(c.FD, c.PeekOutput())
		if err != nil {
			if transport.IsWouldBlock(err) {
				return true
			}
			s.closeConn(c, "write", err)
			return false
		}
		c.AddOut(n)
		c.ConsumeOutput(n, s.chunks)
	}
	return true
}

// closeConn deregisters, forgets and closes c. An empty op with a nil cause is an orderly peer close.
func (s *Server) closeConn(c *session.Conn, op string, cause error) {
	fd := c.FD
	if err := s.reactor.Deregister(fd); err != nil {
		s.logger.Printf("%v", err)
	}
	s.conns.Remove(fd)
	if err := transport.Close(fd); err != nil {
		s.logger.Printf("%v", err)
	}
	s.stats.RecordClose()

	in, out := c.BytesIn(), c.BytesOut()
	switch {
	case cause != nil:
		s.logger.Printf("connection %s (fd=%d, in=%d, out=%d) %s: %v", c.Peer, fd, in, out, op, cause)
	case op != "":
		s.logger.Printf("connection %s (fd=%d, in=%d, out=%d) closed: %s", c.Peer, fd, in, out, op)
	default:
		s.logger.Printf("client disconnected (fd=%d, in=%d, out=%d)", fd, in, out)
	}
}
