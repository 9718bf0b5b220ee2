// File: client/report.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Result is the outcome of one stress run.
type Result struct {
	Config        ClientConfig
	Successful    int
	Failed        int
	Latencies     []time.Duration // successful round trips, in send order
	BytesSent     uint64
	BytesReceived uint64
	Elapsed       time.Duration
}

// ExitCode is 0 when every message succeeded, 1 otherwise.
func (r *Result) ExitCode() int {
	if r.Failed == 0 {
		return 0
	}
	return 1
}

// LatencySummary holds round-trip statistics.
type LatencySummary struct {
	Min, Avg, P50, P95, P99, Max time.Duration
}

// Summary computes latency statistics; ok is false without successful messages.
// Percentiles use the element at index len*p/100 of the sorted latencies.
func (r *Result) Summary() (LatencySummary, bool) {
	if len(r.Latencies) == 0 {
		return LatencySummary{}, false
	}
	sorted := make([]time.Duration, len(r.Latencies))
	copy(sorted, r.Latencies)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	var sum time.Duration
	for _, l := range sorted {
		sum += l
	}
	n := len(sorted)
	return LatencySummary{
		Min: sorted[0],
		Avg: sum / time.Duration(n),
		P50: sorted[n*50/100],
		P95: sorted[n*95/100],
		P99: sorted[n*99/100],
		Max: sorted[n-1],
	}, true
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

// WriteReport prints the human-readable results.
func (r *Result) WriteReport(w io.Writer) {
	secs := r.Elapsed.Seconds()
	fmt.Fprintln(w, "\n========== Stress Test Results ==========")
	fmt.Fprintf(w, "Server: %s:%d\n", r.Config.Host, r.Config.Port)
	fmt.Fprintf(w, "Message size: %d bytes\n", r.Config.MessageSize)
	fmt.Fprintf(w, "Total messages: %d\n", r.Config.MessageCount)
	fmt.Fprintf(w, "Successful: %d\n", r.Successful)
	fmt.Fprintf(w, "Failed: %d\n", r.Failed)
	fmt.Fprintf(w, "Total time: %.3f seconds\n", secs)

	if s, ok := r.Summary(); ok {
		fmt.Fprintln(w, "\n--- Latency Statistics (ms) ---")
		fmt.Fprintf(w, "Min:     %.3f\n", ms(s.Min))
		fmt.Fprintf(w, "Average: %.3f\n", ms(s.Avg))
		fmt.Fprintf(w, "P50:     %.3f\n", ms(s.P50))
		fmt.Fprintf(w, "P95:     %.3f\n", ms(s.P95))
		fmt.Fprintf(w, "P99:     %.3f\n", ms(s.P99))
		fmt.Fprintf(w, "Max:     %.3f\n", ms(s.Max))

		if secs > 0 {
			fmt.Fprintln(w, "\n--- Throughput ---")
			fmt.Fprintf(w, "Messages/sec: %.2f\n", float64(r.Successful)/secs)
			fmt.Fprintf(w, "Sent:     %.2f KB/s\n", float64(r.BytesSent)/secs/1024.0)
			fmt.Fprintf(w, "Received: %.2f KB/s\n", float64(r.BytesReceived)/secs/1024.0)
		}
	}
	fmt.Fprintln(w, "========================================")
	fmt.Fprintln(w)
}
