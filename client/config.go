// File: client/config.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package client

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/momentics/hioload-echo/api"
)

// Defaults and limits of the stress client.
const (
	DefaultHost         = "127.0.0.1"
	DefaultPort         = 8888
	DefaultMessageSize  = 1024
	DefaultMessageCount = 10000
	MaxMessageSize      = 4096
)

// ClientConfig holds all configurable parameters for the stress client.
type ClientConfig struct {
	Host         string
	Port         int
	MessageSize  int           // bytes per message, 1..MaxMessageSize
	MessageCount int           // messages sent in stop-and-wait order
	DialTimeout  time.Duration // connect deadline
	IOTimeout    time.Duration // per-message round-trip deadline (0 = none)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() ClientConfig {
	return ClientConfig{
		Host:         DefaultHost,
		Port:         DefaultPort,
		MessageSize:  DefaultMessageSize,
		MessageCount: DefaultMessageCount,
		DialTimeout:  5 * time.Second,
		IOTimeout:    10 * time.Second,
	}
}

// Validate checks port, size and count.
func (c ClientConfig) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("invalid port number: %w", api.ErrInvalidArgument)
	}
	if c.MessageSize <= 0 || c.MessageSize > MaxMessageSize {
		return fmt.Errorf("invalid message size (must be 1-%d): %w", MaxMessageSize, api.ErrInvalidArgument)
	}
	if c.MessageCount <= 0 {
		return fmt.Errorf("invalid message count: %w", api.ErrInvalidArgument)
	}
	return nil
}

// ParseFlags parses the client command line (without the program name).
// It returns flag.ErrHelp when -? was given; usage has then been written to out.
func ParseFlags(prog string, args []string, out io.Writer) (ClientConfig, error) {
	cfg := DefaultConfig()
	fs := flag.NewFlagSet(prog, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&cfg.Host, "h", cfg.Host, "Server IP address")
	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.IntVar(&cfg.MessageSize, "s", cfg.MessageSize, "Message size in bytes")
	fs.IntVar(&cfg.MessageCount, "n", cfg.MessageCount, "Number of messages to send")
	help := fs.Bool("?", false, "Show this help message")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			PrintUsage(out, prog)
			return cfg, flag.ErrHelp
		}
		PrintUsage(out, prog)
		return cfg, fmt.Errorf("%v: %w", err, api.ErrInvalidArgument)
	}
	if *help {
		PrintUsage(out, prog)
		return cfg, flag.ErrHelp
	}
	if fs.NArg() > 0 {
		PrintUsage(out, prog)
		return cfg, fmt.Errorf("unknown option: %s: %w", fs.Arg(0), api.ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		PrintUsage(out, prog)
		return cfg, err
	}
	return cfg, nil
}

// PrintUsage writes the option summary.
func PrintUsage(w io.Writer, prog string) {
	fmt.Fprintf(w, "Usage: %s [options]\n", prog)
	fmt.Fprintln(w, "Options:")
	fmt.Fprintf(w, "  -h <host>       Server IP address (default: %s)\n", DefaultHost)
	fmt.Fprintf(w, "  -p <port>       Server port (default: %d)\n", DefaultPort)
	fmt.Fprintf(w, "  -s <size>       Message size in bytes (default: %d)\n", DefaultMessageSize)
	fmt.Fprintf(w, "  -n <count>      Number of messages to send (default: %d)\n", DefaultMessageCount)
	fmt.Fprintln(w, "  -?              Show this help message")
}
