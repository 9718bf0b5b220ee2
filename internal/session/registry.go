// File: internal/session/registry.go
// Package session
// Author: momentics <momentics@gmail.com>
//
// Descriptor-keyed set of live client connections.

package session

import (
	"fmt"
	"sort"

	"github.com/momentics/hioload-echo/api"
	"github.com/momentics/hioload-echo/pool"
)

// Registry owns every open Conn known to the event loop.
type Registry struct {
	conns  map[int]*Conn
	chunks *pool.ChunkPool
}

// NewRegistry creates an empty registry. chunks recycles pending-output buffers
// of removed connections and may be nil.
func NewRegistry(chunks *pool.ChunkPool) *Registry {
	return &Registry{
		conns:  make(map[int]*Conn),
		chunks: chunks,
	}
}

// Add takes ownership of c.
func (r *Registry) Add(c *Conn) error {
	if _, ok := r.conns[c.FD]; ok {
		return fmt.Errorf("register fd=%d: %w", c.FD, api.ErrAlreadyExists)
	}
	r.conns[c.FD] = c
	return nil
}

// Get fetches the connection for fd if present.
func (r *Registry) Get(fd int) (*Conn, bool) {
	c, ok := r.conns[fd]
	return c, ok
}

// Remove drops fd from the registry and marks its connection closing.
// The caller is responsible for deregistering and closing the descriptor.
func (r *Registry) Remove(fd int) (*Conn, bool) {
	c, ok := r.conns[fd]
	if !ok {
		return nil, false
	}
	delete(r.conns, fd)
	c.release(r.chunks)
	return c, true
}

// Len is the number of open connections.
func (r *Registry) Len() int {
	return len(r.conns)
}

// Range applies fn to all connections in ascending descriptor order.
// fn may remove the connection it is given.
func (r *Registry) Range(fn func(*Conn)) {
	for _, fd := range r.FDs() {
		if c, ok := r.conns[fd]; ok {
			fn(c)
		}
	}
}

// FDs lists the open descriptors in ascending order.
func (r *Registry) FDs() []int {
	fds := make([]int, 0, len(r.conns))
	for fd := range r.conns {
		fds = append(fds, fd)
	}
	sort.Ints(fds)
	return fds
}
