// File: client/client.go
// Package client provides the stop-and-wait stress client for the echo server.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// One connection, one message in flight: each message is written in full,
// its echo is read back in full and compared, then the next one is sent.

package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"strconv"
	"time"

	"github.com/momentics/hioload-echo/api"
)

// ErrEchoMismatch reports echoed bytes that differ from the bytes sent.
var ErrEchoMismatch = api.NewError(api.ErrCodeIntegrity, "echo mismatch")

// Payload builds the message body: byte i is 'A' + i%26.
func Payload(size int) []byte {
	msg := make([]byte, size)
	for i := range msg {
		msg[i] = 'A' + byte(i%26)
	}
	return msg
}

// StressClient runs one benchmark against an echo server.
type StressClient struct {
	cfg    ClientConfig
	logger *log.Logger
	dialer net.Dialer
}

// NewStressClient validates cfg. A nil logger discards failure logs.
func NewStressClient(cfg ClientConfig, logger *log.Logger) (*StressClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &StressClient{
		cfg:    cfg,
		logger: logger,
		dialer: net.Dialer{Timeout: cfg.DialTimeout},
	}, nil
}

// Addr is the server address dialed by Run.
func (c *StressClient) Addr() string {
	return net.JoinHostPort(c.cfg.Host, strconv.Itoa(c.cfg.Port))
}

// Run connects and sends every message. A failed message is counted and the run continues.
// Cancelling ctx counts the unsent remainder as failed.
func (c *StressClient) Run(ctx context.Context) (*Result, error) {
	conn, err := c.dialer.DialContext(ctx, "tcp", c.Addr())
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", c.Addr(), err)
	}
	defer conn.Close()

	res := &Result{
		Config:    c.cfg,
		Latencies: make([]time.Duration, 0, c.cfg.MessageCount),
	}
	msg := Payload(c.cfg.MessageSize)
	echo := make([]byte, c.cfg.MessageSize)

	start := time.Now()
	for i := 0; i < c.cfg.MessageCount; i++ {
		if ctx.Err() != nil {
			res.Failed += c.cfg.MessageCount - i
			c.logger.Printf("run cancelled after %d messages: %v", i, ctx.Err())
			break
		}
		lat, err := c.roundTrip(conn, msg, echo, res)
		if err != nil {
			res.Failed++
			c.logger.Printf("message %d failed: %v", i+1, err)
			continue
		}
		res.Successful++
		res.Latencies = append(res.Latencies, lat)
	}
	res.Elapsed = time.Since(start)
	return res, nil
}

func (c *StressClient) roundTrip(conn net.Conn, msg, echo []byte, res *Result) (time.Duration, error) {
	start := time.Now()
	if c.cfg.IOTimeout > 0 {
		if err := conn.SetDeadline(start.Add(c.cfg.IOTimeout)); err != nil {
			return 0, err
		}
	}
	n, err := conn.Write(msg)
	res.BytesSent += uint64(n)
	if err != nil {
		return 0, fmt.Errorf("write: %w", err)
	}
	n, err = io.ReadFull(conn, echo)
	res.BytesReceived += uint64(n)
	if err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return 0, fmt.Errorf("server closed connection: %w", err)
		}
		return 0, fmt.Errorf("read: %w", err)
	}
	lat := time.Since(start)
	if !bytes.Equal(msg, echo) {
		return 0, ErrEchoMismatch
	}
	return lat, nil
}
