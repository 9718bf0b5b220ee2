// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types and error handling utilities for hioload-echo.

package api

import (
	"errors"
	"fmt"
)

// Common errors used across the module.
var (
	ErrNotSupported    = fmt.Errorf("operation not supported")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrAlreadyExists   = fmt.Errorf("resource already exists")
	ErrNotFound        = fmt.Errorf("resource not found")
	ErrClosed          = fmt.Errorf("resource is closed")
)

// ErrorCode classifies a failure by the scope it is fatal to.
type ErrorCode int

const (
	ErrCodeOK ErrorCode = iota
	// ErrCodeStartup aborts the process: socket, bind, listen or reactor setup failed.
	ErrCodeStartup
	// ErrCodeConnection is isolated to one connection or one accept attempt.
	ErrCodeConnection
	// ErrCodeIntegrity marks echoed bytes that differ from the bytes sent.
	ErrCodeIntegrity
	ErrCodeInvalidArgument
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeOK:
		return "ok"
	case ErrCodeStartup:
		return "startup"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeIntegrity:
		return "integrity"
	case ErrCodeInvalidArgument:
		return "invalid-argument"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error represents a structured error with code and context.
type Error struct {
	Code    ErrorCode
	Message string
	Context map[string]any
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	if len(e.Context) == 0 {
		return msg
	}
	return fmt.Sprintf("%s (context: %+v)", msg, e.Context)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewError creates a new structured error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Context: make(map[string]any),
	}
}

// Wrap creates a structured error around cause.
func Wrap(code ErrorCode, message string, cause error) *Error {
	e := NewError(code, message)
	e.Err = cause
	return e
}

// WithContext adds context information to the error.
func (e *Error) WithContext(key string, value any) *Error {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or ErrCodeOK.
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeOK
}
