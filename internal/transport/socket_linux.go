// internal/transport/socket_linux.go
//go:build linux
// +build linux

//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Linux socket lifecycle: create, bind, listen, accept, read, write, close.

package transport

import (
	"errors"
	"fmt"
	"net"
	"strconv"

	"golang.org/x/sys/unix"
)

// Listen creates a non-blocking IPv4 TCP listener bound to 0.0.0.0:port.
// Port 0 picks an ephemeral port; see LocalPort.
func Listen(port int) (int, error) {
	if port < 0 || port > 65535 {
		return -1, fmt.Errorf("listen: port %d out of range", port)
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, unix.IPPROTO_TCP)
	if err != nil {
		return -1, fmt.Errorf("socket create: %w", err)
	}
	// Fast restart only. A second bind while this socket listens still fails.
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("setsockopt SO_REUSEADDR: %w", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("bind: %w", err)
	}
	if err := unix.Listen(fd, unix.SOMAXCONN); err != nil {
		_ = unix.Close(fd)
		return -1, fmt.Errorf("listen: %w", err)
	}
	if err := SetNonBlocking(fd); err != nil {
		_ = unix.Close(fd)
		return -1, err
	}
	return fd, nil
}

// LocalPort reports the port a socket is bound to.
func LocalPort(fd int) (int, error) {
	sa, err := unix.Getsockname(fd)
	if err != nil {
		return 0, fmt.Errorf("getsockname: %w", err)
	}
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return a.Port, nil
	case *unix.SockaddrInet6:
		return a.Port, nil
	default:
		return 0, fmt.Errorf("getsockname: unexpected address family %T", sa)
	}
}

// SetNonBlocking marks fd non-blocking. Calling it twice is harmless.
func SetNonBlocking(fd int) error {
	if err := unix.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("set nonblock fd=%d: %w", fd, err)
	}
	return nil
}

// IsNonBlocking reports whether O_NONBLOCK is set on fd.
func IsNonBlocking(fd int) (bool, error) {
	flags, err := unix.FcntlInt(uintptr(fd), unix.F_GETFL, 0)
	if err != nil {
		return false, fmt.Errorf("fcntl F_GETFL: %w", err)
	}
	return flags&unix.O_NONBLOCK != 0, nil
}

// Accept takes one pending connection off the listener.
// The returned descriptor is close-on-exec but still blocking; callers switch it with SetNonBlocking.
// When the queue is empty the error satisfies IsWouldBlock.
func Accept(fd int) (int, string, error) {
	for {
		nfd, sa, err := unix.Accept4(fd, unix.SOCK_CLOEXEC)
		if err == nil {
			return nfd, formatSockaddr(sa), nil
		}
		// The peer gave up before we got to it; the next queued connection is still valid.
		if err == unix.EINTR || err == unix.ECONNABORTED {
			continue
		}
		return -1, "", err
	}
}

// Read reads from fd once. A zero count with a nil error is an orderly peer close.
func Read(fd int, p []byte) (int, error) {
	for {
		n, err := unix.Read(fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}

// Write sends p once and may write fewer bytes than len(p).
// MSG_NOSIGNAL turns a write to a reset peer into EPIPE instead of SIGPIPE.
func Write(fd int, p []byte) (int, error) {
	for {
		n, err := unix.SendmsgN(fd, p, nil, nil, unix.MSG_NOSIGNAL)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return 0, err
		}
		return n, nil
	}
}

// Close releases fd.
func Close(fd int) error {
	if err := unix.Close(fd); err != nil {
		return fmt.Errorf("close fd=%d: %w", fd, err)
	}
	return nil
}

// IsWouldBlock reports whether err means "try again once the socket is ready".
func IsWouldBlock(err error) bool {
	return errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EWOULDBLOCK)
}

func formatSockaddr(sa unix.Sockaddr) string {
	switch a := sa.(type) {
	case *unix.SockaddrInet4:
		return net.JoinHostPort(net.IP(a.Addr[:]).String(), strconv.Itoa(a.Port))
	case *unix.SockaddrInet6:
		return net.JoinHostPort(net.IP(a.Addr[:]).String(), strconv.Itoa(a.Port))
	default:
		return "unknown"
	}
}
