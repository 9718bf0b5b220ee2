//go:build !linux

package reactor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/momentics/hioload-echo/api"
	"github.com/momentics/hioload-echo/reactor"
)

func TestNewUnsupportedPlatform(t *testing.T) {
	r, err := reactor.New(reactor.DefaultMaxEvents)
	assert.Nil(t, r)
	assert.ErrorIs(t, err, api.ErrNotSupported)
}
