package server

import (
	"fmt"
	"strconv"
	"time"

	"github.com/momentics/hioload-echo/affinity"
	"github.com/momentics/hioload-echo/api"
	"github.com/momentics/hioload-echo/control"
	"github.com/momentics/hioload-echo/reactor"
)

// DefaultPort is used when no port argument is given.
const DefaultPort = 8888

// DefaultReadBufferSize is the size of the buffer each read drains into.
const DefaultReadBufferSize = 4096

// WriteStrategy selects how the echo loop handles a socket that cannot take more output.
type WriteStrategy int

const (
	// WriteSpin retries a would-block write immediately until every byte is out.
	// Interest stays read-only; one stalled peer stalls the loop while it spins.
	WriteSpin WriteStrategy = iota
	// WriteDeferred queues the unsent bytes, waits for write readiness and
	// pauses reading from that connection until the queue drains.
	WriteDeferred
)

func (w WriteStrategy) String() string {
	switch w {
	case WriteSpin:
		return "spin"
	case WriteDeferred:
		return "deferred"
	default:
		return fmt.Sprintf("strategy(%d)", int(w))
	}
}

// Config holds all server-side configuration parameters.
type Config struct {
	Port           int           // TCP port bound on all interfaces; 0 picks an ephemeral port
	WaitTimeout    time.Duration // upper bound on one reactor Wait, paces the statistics check
	ReportInterval time.Duration // minimum spacing between statistics reports
	MaxEvents      int           // ready events delivered per Wait
	ReadBufferSize int           // bytes read per drain step
	WriteStrategy  WriteStrategy
	LoopCPU        int // CPU the event loop thread is pinned to; affinity.NoCPU leaves it unpinned
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:           DefaultPort,
		WaitTimeout:    time.Second,
		ReportInterval: control.DefaultReportInterval,
		MaxEvents:      reactor.DefaultMaxEvents,
		ReadBufferSize: DefaultReadBufferSize,
		WriteStrategy:  WriteSpin,
		LoopCPU:        affinity.NoCPU,
	}
}

// Validate checks every field and reports the first bad one.
func (c *Config) Validate() error {
	switch {
	case c.Port < 0 || c.Port > 65535:
		return invalidConfig("port", c.Port)
	case c.WaitTimeout <= 0:
		return invalidConfig("wait timeout", c.WaitTimeout)
	case c.ReportInterval <= 0:
		return invalidConfig("report interval", c.ReportInterval)
	case c.MaxEvents <= 0:
		return invalidConfig("max events", c.MaxEvents)
	case c.ReadBufferSize <= 0:
		return invalidConfig("read buffer size", c.ReadBufferSize)
	case c.WriteStrategy != WriteSpin && c.WriteStrategy != WriteDeferred:
		return invalidConfig("write strategy", c.WriteStrategy)
	case c.LoopCPU < affinity.NoCPU:
		return invalidConfig("loop cpu", c.LoopCPU)
	}
	return nil
}

func invalidConfig(field string, value any) error {
	return api.Wrap(api.ErrCodeInvalidArgument, "config: "+field, api.ErrInvalidArgument).
		WithContext("value", value)
}

// ParsePort parses a command-line port argument. Only decimal values in [1, 65535] are accepted.
func ParsePort(arg string) (int, error) {
	port, err := strconv.Atoi(arg)
	if err != nil || port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid port number %q: %w", arg, api.ErrInvalidArgument)
	}
	return port, nil
}
