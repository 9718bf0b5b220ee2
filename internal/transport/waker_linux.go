//go:build linux
// +build linux

// File: internal/transport/waker_linux.go
// Author: momentics <momentics@gmail.com>
//
// eventfd-based wake-up descriptor used to interrupt a reactor Wait from another goroutine.

package transport

import (
	"encoding/binary"
	"fmt"

	"golang.org/x/sys/unix"
)

// NewWaker returns a non-blocking eventfd. It becomes readable after Wake.
func NewWaker() (int, error) {
	fd, err := unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC)
	if err != nil {
		return -1, fmt.Errorf("eventfd: %w", err)
	}
	return fd, nil
}

// Wake makes the waker readable. Safe to call from any goroutine.
func Wake(fd int) error {
	var b [8]byte
	binary.NativeEndian.PutUint64(b[:], 1)
	for {
		_, err := unix.Write(fd, b[:])
		switch {
		case err == nil:
			return nil
		case err == unix.EINTR:
			continue
		case IsWouldBlock(err):
			// counter saturated, already readable
			return nil
		default:
			return fmt.Errorf("eventfd write: %w", err)
		}
	}
}
