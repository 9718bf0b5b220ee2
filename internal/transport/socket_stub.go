//go:build !linux
// +build !linux

// File: internal/transport/socket_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub implementation for unsupported platforms.

package transport

import "github.com/momentics/hioload-echo/api"

func Listen(port int) (int, error) { return -1, api.ErrNotSupported }
func LocalPort(fd int) (int, error) { return 0, api.ErrNotSupported }
func SetNonBlocking(fd int) error { return api.ErrNotSupported }
func IsNonBlocking(fd int) (bool, error) { return false, api.ErrNotSupported }
func Accept(fd int) (int, string, error) { return -1, "", api.ErrNotSupported }
func Read(fd int, p []byte) (int, error) { return 0, api.ErrNotSupported }
func Write(fd int, p []byte) (int, error) { return 0, api.ErrNotSupported }
func Close(fd int) error { return api.ErrNotSupported }
func IsWouldBlock(err error) bool { return false }
func NewWaker() (int, error) { return -1, api.ErrNotSupported }
func Wake(fd int) error { return api.ErrNotSupported }
