// File: internal/transport/doc.go
// Package transport
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Raw non-blocking socket primitives for the echo reactor.
// Descriptors are plain ints so they can be handed to the reactor directly.
// Linux only; other platforms get stubs returning api.ErrNotSupported.

package transport
