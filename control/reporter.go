// control/reporter.go
// Author: momentics <momentics@gmail.com>
//
// Periodic statistics summary. The report is built in memory and emitted
// with a single Write so the event loop never waits on partial output.

package control

import (
	"bytes"
	"fmt"
	"io"
	"time"
)

// DefaultReportInterval is the minimum spacing between two reports.
const DefaultReportInterval = time.Second

const (
	reportHeader = "\n=== Server Statistics ===\n"
	reportFooter = "========================\n\n"
)

// Reporter prints Stats summaries no more often than its interval.
type Reporter struct {
	stats    *Stats
	out      io.Writer
	interval time.Duration
	last     time.Time
	buf      bytes.Buffer
}

// NewReporter creates a reporter whose first report is due one interval after start.
func NewReporter(stats *Stats, out io.Writer, interval time.Duration, start time.Time) *Reporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	if out == nil {
		out = io.Discard
	}
	return &Reporter{
		stats:    stats,
		out:      out,
		interval: interval,
		last:     start,
	}
}

// MaybeReport prints a summary if at least one interval has passed since the last one.
func (r *Reporter) MaybeReport(now time.Time) (bool, error) {
	if now.Sub(r.last) < r.interval {
		return false, nil
	}
	r.last = now
	return true, r.Report(now)
}

// Report prints a summary unconditionally.
func (r *Reporter) Report(now time.Time) error {
	r.buf.Reset()
	FormatSnapshot(&r.buf, r.stats.SnapshotAt(now))
	_, err := r.out.Write(r.buf.Bytes())
	return err
}

// FormatSnapshot renders the report text for s.
func FormatSnapshot(b *bytes.Buffer, s Snapshot) {
	b.WriteString(reportHeader)
	if !s.HasTraffic {
		b.WriteString("Waiting for traffic...\n")
		b.WriteString(reportFooter)
		return
	}
	fmt.Fprintf(b, "Server uptime: %.2f seconds\n", s.Uptime.Seconds())
	fmt.Fprintf(b, "Active time: %.2f seconds\n", s.ActiveTime.Seconds())
	fmt.Fprintf(b, "Total messages: %d\n", s.TotalMessages)
	fmt.Fprintf(b, "Total bytes: %d\n", s.TotalBytes)
	fmt.Fprintf(b, "Active connections: %d\n", s.ActiveConns)
	fmt.Fprintf(b, "Messages/sec: %.2f\n", s.MessagesPerSec)
	fmt.Fprintf(b, "Throughput: %.2f KB/s\n", s.BytesPerSec/1024.0)
	b.WriteString(reportFooter)
}
