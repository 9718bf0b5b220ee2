//go:build !linux
// +build !linux

// File: reactor/reactor_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package reactor

import (
	"fmt"

	"github.com/momentics/hioload-echo/api"
)

// New returns api.ErrNotSupported on unsupported platforms.
func New(maxEvents int) (Reactor, error) {
	return nil, fmt.Errorf("reactor: %w", api.ErrNotSupported)
}
