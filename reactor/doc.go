// Copyright (c) 2025
// Author: momentics <momentics@gmail.com>

// Package reactor provides the readiness multiplexer driving the echo event loop.
//
// The Linux implementation is epoll(7). Registrations may be edge-triggered; a consumer
// of an edge-triggered event must drain the descriptor until it reports would-block
// before calling Wait again, otherwise the next edge never fires.
package reactor
