package repository

import (
	"context"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"
)

// loadedChunk is the outcome of loading one chunk.
type loadedChunk struct {
	id  int
	buf *chunkBuffer
	err error
}

// forEachChunk loads the chunks in ids and calls fn for each of them in
// ascending order. The data passed to fn is only valid until fn returns.
func (r *Repository) forEachChunk(ctx context.Context, ids *roaring.Bitmap, fn func(id int, data []byte) error) error {
	if r.opts.Connections <= 1 {
		cb := &chunkBuffer{}
		it := ids.Iterator()
		for it.HasNext() {
			id := int(it.Next())
			if err := r.loadChunk(ctx, id, cb); err != nil {
				return err
			}
			if err := fn(id, cb.data); err != nil {
				return err
			}
		}
		return nil
	}
	return r.forEachChunkParallel(ctx, ids, fn)
}

// forEachChunkParallel loads up to r.opts.Connections chunks concurrently.
// Every load gets its own result channel, queued in chunk order, so fn sees
// the chunks in the same order as the sequential path.
func (r *Repository) forEachChunkParallel(ctx context.Context, ids *roaring.Bitmap, fn func(id int, data []byte) error) error {
	connections := int(r.opts.Connections)
	wg, wgCtx := errgroup.WithContext(ctx)

	queue := make(chan chan loadedChunk, connections)
	free := make(chan *chunkBuffer, connections+2)

	wg.Go(func() error {
		defer close(queue)

		it := ids.Iterator()
		for it.HasNext() {
			id := int(it.Next())
			res := make(chan loadedChunk, 1)

			select {
			case queue <- res:
			case <-wgCtx.Done():
				return wgCtx.Err()
			}

			var cb *chunkBuffer
			select {
			case cb = <-free:
			default:
				cb = &chunkBuffer{}
			}

			wg.Go(func() error {
				err := r.loadChunk(wgCtx, id, cb)
				res <- loadedChunk{id: id, buf: cb, err: err}
				return nil
			})
		}
		return nil
	})

	wg.Go(func() error {
		for res := range queue {
			var c loadedChunk
			select {
			case c = <-res:
			case <-wgCtx.Done():
				return wgCtx.Err()
			}
			if c.err != nil {
				return c.err
			}
			if err := fn(c.id, c.buf.data); err != nil {
				return err
			}

			select {
			case free <- c.buf:
			default:
			}
		}
		return nil
	})

	return wg.Wait()
}
