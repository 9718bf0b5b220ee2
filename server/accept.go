// File: server/accept.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package server

import (
	"github.com/momentics/hioload-echo/internal/session"
	"github.com/momentics/hioload-echo/internal/transport"
)

// acceptAll drains the listener's accept queue. Stopping after one accept
// would leave later connections queued until some other client produced a wake-up.
func (s *Server) acceptAll() {
	for {
		fd, peer, err := transport.Accept(s.listenFD)
		if err != nil {
			if !transport.IsWouldBlock(err) {
				s.logger.Printf("accept: %v", err)
			}
			return
		}
		if err := transport.SetNonBlocking(fd); err != nil {
			s.logger.Printf("accept %s: %v", peer, err)
			_ = transport.Close(fd)
			continue
		}
		if err := s.reactor.Register(fd, connInterest); err != nil {
			s.logger.Printf("accept %s: %v", peer, err)
			_ = transport.Close(fd)
			continue
		}
		c := session.NewConn(fd, peer, s.clock())
		if err := s.conns.Add(c); err != nil {
			s.logger.Printf("accept %s: %v", peer, err)
			_ = s.reactor.Deregister(fd)
			_ = transport.Close(fd)
			continue
		}
		s.stats.RecordAccept()
		s.logger.Printf("new connection from %s (fd=%d)", peer, fd)
	}
}
