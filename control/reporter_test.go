package control_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-echo/control"
)

func TestReporterWaitingPlaceholder(t *testing.T) {
	clk := newFakeClock()
	s := control.NewStats(clk.Now)
	var out bytes.Buffer
	r := control.NewReporter(s, &out, time.Second, clk.Now())

	clk.Advance(time.Second)
	printed, err := r.MaybeReport(clk.Now())
	require.NoError(t, err)
	require.True(t, printed)
	assert.Contains(t, out.String(), "=== Server Statistics ===")
	assert.Contains(t, out.String(), "Waiting for traffic...")
	assert.NotContains(t, out.String(), "Messages/sec")
}

func TestReporterIntervalGating(t *testing.T) {
	clk := newFakeClock()
	s := control.NewStats(clk.Now)
	var out bytes.Buffer
	r := control.NewReporter(s, &out, time.Second, clk.Now())

	clk.Advance(999 * time.Millisecond)
	printed, err := r.MaybeReport(clk.Now())
	require.NoError(t, err)
	assert.False(t, printed)
	assert.Zero(t, out.Len())

	clk.Advance(time.Millisecond)
	printed, _ = r.MaybeReport(clk.Now())
	assert.True(t, printed)

	clk.Advance(500 * time.Millisecond)
	printed, _ = r.MaybeReport(clk.Now())
	assert.False(t, printed, "interval restarts from the last report")
}

func TestReporterTrafficSummary(t *testing.T) {
	clk := newFakeClock()
	s := control.NewStats(clk.Now)
	var out bytes.Buffer
	r := control.NewReporter(s, &out, time.Second, clk.Now())

	clk.Advance(2 * time.Second)
	s.RecordAccept()
	for i := 0; i < 100; i++ {
		s.RecordEcho(1024)
	}
	clk.Advance(10 * time.Second)
	require.NoError(t, r.Report(clk.Now()))

	text := out.String()
	assert.Contains(t, text, "Server uptime: 12.00 seconds\n")
	assert.Contains(t, text, "Active time: 10.00 seconds\n")
	assert.Contains(t, text, "Total messages: 100\n")
	assert.Contains(t, text, "Total bytes: 102400\n")
	assert.Contains(t, text, "Active connections: 1\n")
	assert.Contains(t, text, "Messages/sec: 10.00\n")
	assert.Contains(t, text, "Throughput: 10.00 KB/s\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed") }

func TestReporterPropagatesWriteError(t *testing.T) {
	s := control.NewStats(nil)
	r := control.NewReporter(s, failingWriter{}, time.Second, time.Now())
	assert.Error(t, r.Report(time.Now()))
}
