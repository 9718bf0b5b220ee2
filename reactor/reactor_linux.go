//go:build linux
// +build linux

// File: reactor/reactor_linux.go
// Author: momentics <momentics@gmail.com>
//
// Linux epoll(7)-based reactor implementation and factory.

package reactor

import (
	"fmt"
	"time"

	"golang.org/x/sys/unix"
)

// linuxReactor is an epoll-based event reactor.
type linuxReactor struct {
	epfd   int
	raw    []unix.EpollEvent
	events []Event
}

// New constructs the epoll reactor. maxEvents <= 0 selects DefaultMaxEvents.
func New(maxEvents int) (Reactor, error) {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, fmt.Errorf("epoll create: %w", err)
	}
	return &linuxReactor{
		epfd:   epfd,
		raw:    make([]unix.EpollEvent, maxEvents),
		events: make([]Event, 0, maxEvents),
	}, nil
}

func epollMask(interest Interest) uint32 {
	var ev uint32
	if interest&Readable != 0 {
		ev |= unix.EPOLLIN | unix.EPOLLRDHUP
	}
	if interest&Writable != 0 {
		ev |= unix.EPOLLOUT
	}
	if interest&EdgeTriggered != 0 {
		ev |= unix.EPOLLET
	}
	return ev
}

// Register adds fd to the epoll interest list.
func (r *linuxReactor) Register(fd int, interest Interest) error {
	ev := unix.EpollEvent{Events: epollMask(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl add fd=%d: %w", fd, err)
	}
	return nil
}

// Modify rearms fd with a new interest set. Under EPOLLET the current state is
// re-evaluated, so a condition that is already true produces a fresh edge.
func (r *linuxReactor) Modify(fd int, interest Interest) error {
	ev := unix.EpollEvent{Events: epollMask(interest), Fd: int32(fd)}
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_MOD, fd, &ev); err != nil {
		return fmt.Errorf("epoll ctl mod fd=%d: %w", fd, err)
	}
	return nil
}

// Deregister removes fd from the epoll interest list.
func (r *linuxReactor) Deregister(fd int) error {
	if err := unix.EpollCtl(r.epfd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return fmt.Errorf("epoll ctl del fd=%d: %w", fd, err)
	}
	return nil
}

// Wait blocks in epoll_wait for at most timeout.
func (r *linuxReactor) Wait(timeout time.Duration) ([]Event, error) {
	ms := -1
	if timeout >= 0 {
		ms = int(timeout / time.Millisecond)
		if ms == 0 && timeout > 0 {
			ms = 1
		}
	}
	r.events = r.events[:0]
	n, err := unix.EpollWait(r.epfd, r.raw, ms)
	if err != nil {
		if err == unix.EINTR {
			return r.events, nil // interrupted by signal, spurious wake-up
		}
		return r.events, fmt.Errorf("epoll wait: %w", err)
	}
	for i := 0; i < n; i++ {
		raw := r.raw[i]
		r.events = append(r.events, Event{
			Fd:       int(raw.Fd),
			Readable: raw.Events&(unix.EPOLLIN|unix.EPOLLRDHUP) != 0,
			Writable: raw.Events&unix.EPOLLOUT != 0,
			Hangup:   raw.Events&(unix.EPOLLERR|unix.EPOLLHUP) != 0,
		})
	}
	return r.events, nil
}

// Close closes the epoll instance.
func (r *linuxReactor) Close() error {
	if r.epfd < 0 {
		return nil
	}
	err := unix.Close(r.epfd)
	r.epfd = -1
	if err != nil {
		return fmt.Errorf("epoll close: %w", err)
	}
	return nil
}
