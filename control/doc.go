// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime statistics for the echo reactor.
//
// Provides:
//   - Stats: process-wide counters backed by a go-metrics registry
//   - Snapshot: point-in-time view with derived rates
//   - Reporter: interval-gated textual summary driven by the event loop
//
// Stats has a single writer (the event loop). Every field is atomic so that
// snapshots may be taken from any goroutine.
package control
