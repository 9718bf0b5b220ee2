// Copyright 2025 momentics@gmail.com
// Licensed under the Apache License, Version 2.0.

package control_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-echo/control"
)

// fakeClock is a manually advanced clock safe for concurrent reads.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestStatsWithoutTraffic(t *testing.T) {
	clk := newFakeClock()
	s := control.NewStats(clk.Now)
	clk.Advance(3 * time.Second)

	snap := s.Snapshot()
	assert.False(t, snap.HasTraffic)
	assert.Equal(t, 3*time.Second, snap.Uptime)
	assert.Zero(t, snap.ActiveTime)
	assert.Zero(t, snap.MessagesPerSec)
	assert.Zero(t, snap.BytesPerSec)
}

func TestStatsFirstTrafficAndRates(t *testing.T) {
	clk := newFakeClock()
	s := control.NewStats(clk.Now)

	clk.Advance(5 * time.Second)
	assert.True(t, s.RecordEcho(64), "first echo starts the active window")
	assert.False(t, s.RecordEcho(64))
	assert.True(t, s.HasTraffic())

	snap := s.Snapshot()
	assert.True(t, snap.HasTraffic)
	assert.Equal(t, uint64(2), snap.TotalMessages)
	assert.Zero(t, snap.MessagesPerSec, "no active time elapsed yet")

	clk.Advance(2 * time.Second)
	snap = s.Snapshot()
	assert.Equal(t, 7*time.Second, snap.Uptime)
	assert.Equal(t, 2*time.Second, snap.ActiveTime)
	assert.Equal(t, uint64(128), snap.TotalBytes)
	assert.InDelta(t, 1.0, snap.MessagesPerSec, 1e-9)
	assert.InDelta(t, 64.0, snap.BytesPerSec, 1e-9)
}

func TestStatsConnectionCounters(t *testing.T) {
	s := control.NewStats(nil)
	s.RecordAccept()
	s.RecordAccept()
	s.RecordClose()

	snap := s.Snapshot()
	assert.Equal(t, uint64(2), snap.Accepted)
	assert.Equal(t, uint64(1), snap.Closed)
	assert.Equal(t, int64(1), snap.ActiveConns)

	raw := s.GetSnapshot()
	assert.Equal(t, int64(2), raw[control.MetricAccepted])
	assert.Equal(t, int64(1), raw[control.MetricClosed])
	assert.Equal(t, int64(1), raw[control.MetricActive])
	assert.Equal(t, int64(0), raw[control.MetricMessages])
	require.NotNil(t, s.Registry().Get(control.MetricBytes))
}

func TestStatsConcurrentSnapshots(t *testing.T) {
	s := control.NewStats(nil)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 1000; i++ {
			s.RecordEcho(10)
		}
	}()
	for i := 0; i < 100; i++ {
		_ = s.Snapshot()
	}
	<-done
	assert.Equal(t, uint64(10000), s.Snapshot().TotalBytes)
}
