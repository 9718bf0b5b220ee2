// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Process-wide message, byte and connection counters.

package control

import (
	"sync/atomic"
	"time"

	metrics "github.com/rcrowley/go-metrics"
)

// Metric names registered by Stats.
const (
	MetricMessages = "echo.messages"
	MetricBytes    = "echo.bytes"
	MetricAccepted = "conn.accepted"
	MetricClosed   = "conn.closed"
	MetricActive   = "conn.active"
)

// Clock returns the current time.
type Clock func() time.Time

// Stats accumulates echo traffic since process start.
type Stats struct {
	registry metrics.Registry
	messages metrics.Counter
	bytes    metrics.Counter
	accepted metrics.Counter
	closed   metrics.Counter
	active   metrics.Gauge

	now   Clock
	start time.Time
	first atomic.Pointer[time.Time] // nil until the first echo
}

// NewStats creates counters in a private registry. A nil clock means time.Now.
func NewStats(clock Clock) *Stats {
	if clock == nil {
		clock = time.Now
	}
	r := metrics.NewRegistry()
	return &Stats{
		registry: r,
		messages: metrics.NewRegisteredCounter(MetricMessages, r),
		bytes:    metrics.NewRegisteredCounter(MetricBytes, r),
		accepted: metrics.NewRegisteredCounter(MetricAccepted, r),
		closed:   metrics.NewRegisteredCounter(MetricClosed, r),
		active:   metrics.NewRegisteredGauge(MetricActive, r),
		now:      clock,
		start:    clock(),
	}
}

// Start is the time the counters were created.
func (s *Stats) Start() time.Time { return s.start }

// RecordAccept counts a newly registered connection.
func (s *Stats) RecordAccept() {
	s.accepted.Inc(1)
	s.active.Update(s.active.Value() + 1)
}

// RecordClose counts a torn-down connection.
func (s *Stats) RecordClose() {
	s.closed.Inc(1)
	s.active.Update(s.active.Value() - 1)
}

// RecordEcho counts one echoed read of n bytes. It reports true for the first
// echo observed by the process.
func (s *Stats) RecordEcho(n int) bool {
	s.messages.Inc(1)
	s.bytes.Inc(int64(n))
	if s.first.Load() != nil {
		return false
	}
	t := s.now()
	s.first.Store(&t)
	return true
}

// HasTraffic reports whether anything has been echoed yet.
func (s *Stats) HasTraffic() bool {
	return s.first.Load() != nil
}

// Registry exposes the underlying go-metrics registry.
func (s *Stats) Registry() metrics.Registry { return s.registry }

// GetSnapshot returns the raw metric values keyed by name.
func (s *Stats) GetSnapshot() map[string]any {
	out := make(map[string]any)
	s.registry.Each(func(name string, m interface{}) {
		switch v := m.(type) {
		case metrics.Counter:
			out[name] = v.Count()
		case metrics.Gauge:
			out[name] = v.Value()
		}
	})
	return out
}

// Snapshot is a point-in-time view of Stats.
type Snapshot struct {
	Taken          time.Time
	Uptime         time.Duration
	ActiveTime     time.Duration // since the first echo; zero without traffic
	HasTraffic     bool
	TotalMessages  uint64
	TotalBytes     uint64
	MessagesPerSec float64
	BytesPerSec    float64
	ActiveConns    int64
	Accepted       uint64
	Closed         uint64
}

// Snapshot reads the counters at the current clock time.
func (s *Stats) Snapshot() Snapshot {
	return s.SnapshotAt(s.now())
}

// SnapshotAt reads the counters and derives rates as of now.
func (s *Stats) SnapshotAt(now time.Time) Snapshot {
	snap := Snapshot{
		Taken:         now,
		Uptime:        now.Sub(s.start),
		TotalMessages: uint64(s.messages.Count()),
		TotalBytes:    uint64(s.bytes.Count()),
		ActiveConns:   s.active.Value(),
		Accepted:      uint64(s.accepted.Count()),
		Closed:        uint64(s.closed.Count()),
	}
	first := s.first.Load()
	if first == nil {
		return snap
	}
	snap.HasTraffic = true
	snap.ActiveTime = now.Sub(*first)
	if secs := snap.ActiveTime.Seconds(); secs > 0 {
		snap.MessagesPerSec = float64(snap.TotalMessages) / secs
		snap.BytesPerSec = float64(snap.TotalBytes) / secs
	}
	return snap
}
