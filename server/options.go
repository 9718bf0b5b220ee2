// File: server/options.go
// Package server defines functional options for the Server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"io"
	"log"
	"time"

	"github.com/momentics/hioload-echo/control"
)

// ServerOption customizes server initialization.
type ServerOption func(*Server)

// WithLogger routes connection and error logs to l.
func WithLogger(l *log.Logger) ServerOption {
	return func(s *Server) {
		s.logger = l
	}
}

// WithStatsOutput sets where periodic statistics are printed.
func WithStatsOutput(w io.Writer) ServerOption {
	return func(s *Server) {
		s.statsOut = w
	}
}

// WithClock overrides the time source of statistics.
func WithClock(clock control.Clock) ServerOption {
	return func(s *Server) {
		s.clock = clock
	}
}

// WithWriteStrategy selects the back-pressure handling of the echo loop.
func WithWriteStrategy(ws WriteStrategy) ServerOption {
	return func(s *Server) {
		s.cfg.WriteStrategy = ws
	}
}

// WithWaitTimeout overrides the reactor wait bound.
func WithWaitTimeout(d time.Duration) ServerOption {
	return func(s *Server) {
		s.cfg.WaitTimeout = d
	}
}

// WithReportInterval overrides the statistics cadence.
func WithReportInterval(d time.Duration) ServerOption {
	return func(s *Server) {
		s.cfg.ReportInterval = d
	}
}

// WithMaxEvents overrides the reactor batch size.
func WithMaxEvents(n int) ServerOption {
	return func(s *Server) {
		s.cfg.MaxEvents = n
	}
}

// WithReadBufferSize overrides the read buffer size.
func WithReadBufferSize(n int) ServerOption {
	return func(s *Server) {
		s.cfg.ReadBufferSize = n
	}
}

// WithLoopCPU pins the goroutine running Serve to one logical CPU.
func WithLoopCPU(cpu int) ServerOption {
	return func(s *Server) {
		s.cfg.LoopCPU = cpu
	}
}
