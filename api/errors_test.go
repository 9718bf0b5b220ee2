package api_test

import (
	"errors"
	"fmt"
	"syscall"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/momentics/hioload-echo/api"
)

func TestErrorWrapAndUnwrap(t *testing.T) {
	err := api.Wrap(api.ErrCodeStartup, "listen", syscall.EADDRINUSE).WithContext("port", 9999)

	require.ErrorIs(t, err, syscall.EADDRINUSE)
	assert.Equal(t, api.ErrCodeStartup, api.CodeOf(err))
	assert.Contains(t, err.Error(), "listen: ")
	assert.Contains(t, err.Error(), "port:9999")

	outer := fmt.Errorf("server: %w", err)
	assert.Equal(t, api.ErrCodeStartup, api.CodeOf(outer))
	assert.True(t, errors.Is(outer, syscall.EADDRINUSE))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, api.ErrCodeOK, api.CodeOf(errors.New("plain")))
	assert.Equal(t, "connection", api.ErrCodeConnection.String())
	assert.Equal(t, "code(42)", api.ErrorCode(42).String())
}
