// Author: momentics <momentics@gmail.com>
// SPDX-License-Identifier: MIT

package pool

import "sync"

// ObjectPool is a generic object pool.
type ObjectPool[T any] interface {
	Get() T
	Put(T)
}

var _ ObjectPool[*Chunk] = (*SyncPool[*Chunk])(nil)

// SyncPool wraps sync.Pool for generic usage.
type SyncPool[T any] struct {
	pool *sync.Pool
}

// NewSyncPool creates a new SyncPool with a creator function.
func NewSyncPool[T any](creator func() T) *SyncPool[T] {
	return &SyncPool[T]{
		pool: &sync.Pool{New: func() any { return creator() }},
	}
}

func (sp *SyncPool[T]) Get() T {
	return sp.pool.Get().(T)
}

func (sp *SyncPool[T]) Put(obj T) {
	sp.pool.Put(obj)
}

// Chunk is a fixed-capacity byte buffer holding output that could not be written yet.
// Data is the unsent part; it always aliases the chunk's own backing array.
type Chunk struct {
	Data []byte
	buf  []byte
}

// ChunkPool recycles Chunks of a single capacity.
type ChunkPool struct {
	size  int
	inner *SyncPool[*Chunk]
}

// NewChunkPool returns a pool of chunks with the given capacity.
func NewChunkPool(size int) *ChunkPool {
	if size <= 0 {
		panic("chunk size must be positive")
	}
	return &ChunkPool{
		size: size,
		inner: NewSyncPool(func() *Chunk {
			return &Chunk{buf: make([]byte, size)}
		}),
	}
}

// Size reports the capacity of every chunk in the pool.
func (p *ChunkPool) Size() int { return p.size }

// Fill copies as much of src as fits into a pooled chunk and returns it with the count copied.
func (p *ChunkPool) Fill(src []byte) (*Chunk, int) {
	c := p.inner.Get()
	n := copy(c.buf, src)
	c.Data = c.buf[:n]
	return c, n
}

// Put returns c to the pool. c must not be used afterwards.
func (p *ChunkPool) Put(c *Chunk) {
	if c == nil || len(c.buf) != p.size {
		return
	}
	c.Data = nil
	p.inner.Put(c)
}
