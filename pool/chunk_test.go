package pool

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunkPoolFill(t *testing.T) {
	p := NewChunkPool(4)
	assert.Equal(t, 4, p.Size())

	c, n := p.Fill([]byte("abcdef"))
	require.Equal(t, 4, n)
	assert.Equal(t, []byte("abcd"), c.Data)

	p.Put(c)
	c2, n := p.Fill([]byte("xy"))
	assert.Equal(t, 2, n)
	assert.Equal(t, []byte("xy"), c2.Data)
	assert.Equal(t, 4, cap(c2.Data))
}

func TestChunkPoolIgnoresForeignChunks(t *testing.T) {
	p := NewChunkPool(8)
	p.Put(nil)
	p.Put(&Chunk{buf: make([]byte, 3)})

	c, n := p.Fill(bytes.Repeat([]byte{'z'}, 8))
	assert.Equal(t, 8, n)
	assert.Len(t, c.buf, 8)
}

func TestNewChunkPoolPanicsOnZeroSize(t *testing.T) {
	assert.Panics(t, func() { NewChunkPool(0) })
}

func TestSyncPoolCreatesOnEmpty(t *testing.T) {
	calls := 0
	sp := NewSyncPool(func() int { calls++; return 7 })
	assert.Equal(t, 7, sp.Get())
	assert.Equal(t, 1, calls)
}
