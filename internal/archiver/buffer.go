package archiver

import (
	"context"
	"sync/atomic"

	"github.com/skyline93/cgrep/internal/compress"
)

// Buffer holds one chunk and the scratch space for its payload. Buffers are
// reused through a bufferPool.
type Buffer struct {
	Data []byte
	out  []byte
	pool *bufferPool
}

// Release returns the buffer to its pool, if any.
func (b *Buffer) Release() {
	if b.pool == nil {
		return
	}
	b.Data = b.Data[:cap(b.Data)]
	b.pool.put(b)
}

func (arch *Archiver) newBuffer(pool *bufferPool) *Buffer {
	size := arch.opts.ChunkSize
	return &Buffer{
		Data: make([]byte, size),
		out:  make([]byte, compress.Bound(arch.opts.Codec, size)),
		pool: pool,
	}
}

// bufferPool hands out at most max buffers at a time, which bounds the memory
// held by chunks that are read but not yet written.
type bufferPool struct {
	ch        chan *Buffer
	max       int64
	allocated atomic.Int64
	alloc     func(*bufferPool) *Buffer
}

func newBufferPool(max int, alloc func(*bufferPool) *Buffer) *bufferPool {
	return &bufferPool{
		ch:    make(chan *Buffer, max),
		max:   int64(max),
		alloc: alloc,
	}
}

// Get returns a free buffer, blocking while all buffers are in use.
func (pool *bufferPool) Get(ctx context.Context) (*Buffer, error) {
	select {
	case b := <-pool.ch:
		return b, nil
	default:
	}

	if pool.allocated.Add(1) <= pool.max {
		return pool.alloc(pool), nil
	}
	pool.allocated.Add(-1)

	select {
	case b := <-pool.ch:
		return b, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (pool *bufferPool) put(b *Buffer) {
	select {
	case pool.ch <- b:
	default:
	}
}
