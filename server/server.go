// File: server/server.go
// Package server provides the single-threaded, edge-triggered TCP echo server.
// One goroutine owns the listener, the reactor, the connection registry and the
// statistics; everything else talks to it through Shutdown and Stats.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"errors"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"github.com/momentics/hioload-echo/affinity"
	"github.com/momentics/hioload-echo/api"
	"github.com/momentics/hioload-echo/control"
	"github.com/momentics/hioload-echo/internal/session"
	"github.com/momentics/hioload-echo/internal/transport"
	"github.com/momentics/hioload-echo/pool"
	"github.com/momentics/hioload-echo/reactor"
)

var (
	ErrAlreadyRunning = errors.New("server already running")
	ErrServerClosed   = errors.New("server closed")
)

const (
	listenerInterest = reactor.Readable // level-triggered: an accept stopped by EMFILE is retried next Wait
	connInterest     = reactor.Readable | reactor.EdgeTriggered
	backlogInterest  = reactor.Readable | reactor.Writable | reactor.EdgeTriggered
)

type serverState int

const (
	stateIdle serverState = iota
	stateServing
	stateClosed
)

// Server is the echo server context.
type Server struct {
	cfg      *Config
	logger   *log.Logger
	statsOut io.Writer
	clock    control.Clock

	listenFD int
	port     int
	wakeFD   int
	reactor  reactor.Reactor
	conns    *session.Registry
	chunks   *pool.ChunkPool
	stats    *control.Stats
	reporter *control.Reporter
	buf      []byte

	mu    sync.Mutex
	state serverState
	done  chan struct{}
}

// NewServer binds the listener and prepares the reactor. Nothing is served until Serve.
// Startup failures are *api.Error values with code api.ErrCodeStartup.
func NewServer(cfg *Config, opts ...ServerOption) (*Server, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	c := *cfg
	s := &Server{
		cfg:      &c,
		listenFD: -1,
		wakeFD:   -1,
		done:     make(chan struct{}),
	}
	for _, o := range opts {
		o(s)
	}
	if err := s.cfg.Validate(); err != nil {
		return nil, err
	}
	if s.logger == nil {
		s.logger = log.New(os.Stdout, "", log.LstdFlags)
	}
	if s.statsOut == nil {
		s.statsOut = os.Stdout
	}
	if s.clock == nil {
		s.clock = time.Now
	}

	if err := s.open(); err != nil {
		s.closeResources()
		return nil, api.Wrap(api.ErrCodeStartup, "echo server startup", err).WithContext("port", s.cfg.Port)
	}

	s.stats = control.NewStats(s.clock)
	s.reporter = control.NewReporter(s.stats, s.statsOut, s.cfg.ReportInterval, s.stats.Start())
	s.conns = session.NewRegistry(s.chunks)
	s.buf = make([]byte, s.cfg.ReadBufferSize)
	return s, nil
}

func (s *Server) open() error {
	var err error
	if s.listenFD, err = transport.Listen(s.cfg.Port); err != nil {
		return err
	}
	if s.port, err = transport.LocalPort(s.listenFD); err != nil {
		return err
	}
	if s.reactor, err = reactor.New(s.cfg.MaxEvents); err != nil {
		return err
	}
	if err = s.reactor.Register(s.listenFD, listenerInterest); err != nil {
		return err
	}
	if s.wakeFD, err = transport.NewWaker(); err != nil {
		return err
	}
	if err = s.reactor.Register(s.wakeFD, reactor.Readable|reactor.EdgeTriggered); err != nil {
		return err
	}
	s.chunks = pool.NewChunkPool(s.cfg.ReadBufferSize)
	return nil
}

// Port is the bound TCP port, useful when Config.Port was 0.
func (s *Server) Port() int { return s.port }

// Config returns a copy of the effective configuration.
func (s *Server) Config() Config { return *s.cfg }

// Stats returns a snapshot of the counters. Safe from any goroutine.
func (s *Server) Stats() control.Snapshot { return s.stats.Snapshot() }

// Serve runs the event loop on the calling goroutine until Shutdown is called
// or the reactor fails. It returns nil after a Shutdown.
func (s *Server) Serve() error {
	s.mu.Lock()
	switch s.state {
	case stateServing:
		s.mu.Unlock()
		return ErrAlreadyRunning
	case stateClosed:
		s.mu.Unlock()
		return ErrServerClosed
	}
	s.state = stateServing
	s.mu.Unlock()

	if s.cfg.LoopCPU != affinity.NoCPU {
		pin, err := affinity.PinCurrentThread(s.cfg.LoopCPU)
		if err != nil {
			s.logger.Printf("event loop left unpinned: %v", err)
		} else {
			defer func() {
				if err := pin.Release(); err != nil {
					s.logger.Printf("event loop thread retired: %v", err)
				}
			}()
			s.logger.Printf("event loop pinned to cpu %d", pin.CPU())
		}
	}
	s.logger.Printf("echo server listening on port %d (write strategy: %s)", s.port, s.cfg.WriteStrategy)
	err := s.loop()

	s.mu.Lock()
	s.state = stateClosed
	s.mu.Unlock()
	s.teardown()
	close(s.done)
	return err
}

// loop is the wait/accept/echo/report cycle.
func (s *Server) loop() error {
	for {
		events, err := s.reactor.Wait(s.cfg.WaitTimeout)
		if err != nil {
			s.logger.Printf("reactor wait: %v", err)
			return err
		}
		stop := false
		for _, ev := range events {
			switch ev.Fd {
			case s.listenFD:
				s.acceptAll()
			case s.wakeFD:
				stop = true
			default:
				s.serviceConn(ev)
			}
		}
		if _, err := s.reporter.MaybeReport(s.clock()); err != nil {
			s.logger.Printf("stats report: %v", err)
		}
		if stop {
			return nil
		}
	}
}

// Shutdown stops the event loop, closes every connection and releases the
// listener and the reactor. It waits for Serve to finish. Repeated calls are no-ops.
func (s *Server) Shutdown() error {
	s.mu.Lock()
	switch s.state {
	case stateClosed:
		s.mu.Unlock()
		<-s.done
		return nil
	case stateIdle:
		s.state = stateClosed
		s.mu.Unlock()
		s.teardown()
		close(s.done)
		return nil
	}
	s.state = stateClosed
	// Woken under the lock: Serve marks itself closed under the same lock
	// before it releases the waker.
	err := transport.Wake(s.wakeFD)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	<-s.done
	return nil
}

// teardown closes all connections then the server descriptors. Runs once, on the loop goroutine
// or on the Shutdown caller when Serve never ran.
func (s *Server) teardown() {
	s.conns.Range(func(c *session.Conn) {
		s.closeConn(c, "server shutdown", nil)
	})
	s.closeResources()
	snap := s.stats.Snapshot()
	s.logger.Printf("echo server stopped: %d connections served, %d messages, %d bytes",
		snap.Accepted, snap.TotalMessages, snap.TotalBytes)
}

func (s *Server) closeResources() {
	if s.reactor != nil {
		if s.listenFD >= 0 {
			_ = s.reactor.Deregister(s.listenFD)
		}
		if s.wakeFD >= 0 {
			_ = s.reactor.Deregister(s.wakeFD)
		}
		if err := s.reactor.Close(); err != nil {
			s.logf("reactor close: %v", err)
		}
	}
	if s.listenFD >= 0 {
		if err := transport.Close(s.listenFD); err != nil {
			s.logf("listener close: %v", err)
		}
		s.listenFD = -1
	}
	if s.wakeFD >= 0 {
		_ = transport.Close(s.wakeFD)
		s.wakeFD = -1
	}
}

func (s *Server) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
