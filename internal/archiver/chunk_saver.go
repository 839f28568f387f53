package archiver

import (
	"context"
	"io"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/bloom"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/index"
	"golang.org/x/sync/errgroup"
)

type saveChunkJob struct {
	seq  int
	size int
	buf  *Buffer
}

type saveChunkResult struct {
	saveChunkJob
	payload []byte
	bitmap  bloom.Packed
}

// createParallel compresses and hashes chunks on arch.opts.Workers
// goroutines. A single reader feeds the workers and a single writer puts the
// results back into chunk order before they reach dst and the index.
func (arch *Archiver) createParallel(ctx context.Context, src io.Reader, dst io.Writer) (*index.Index, Stats, error) {
	var stats Stats
	idx := index.New()

	workers := int(arch.opts.Workers)
	pool := newBufferPool(2*workers+1, arch.newBuffer)
	jobs := make(chan saveChunkJob)
	results := make(chan saveChunkResult)

	wg, wgCtx := errgroup.WithContext(ctx)

	wg.Go(func() error {
		defer close(jobs)
		return arch.readChunks(wgCtx, src, pool, jobs)
	})

	var running sync.WaitGroup
	for i := 0; i < workers; i++ {
		running.Add(1)
		wg.Go(func() error {
			defer running.Done()
			return arch.worker(wgCtx, jobs, results)
		})
	}
	go func() {
		running.Wait()
		close(results)
	}()

	wg.Go(func() error {
		return writeOrdered(wgCtx, dst, idx, &stats, results)
	})

	if err := wg.Wait(); err != nil {
		return nil, stats, err
	}

	log.Infof("created container with %d chunks, %d bytes -> %d bytes", stats.Chunks, stats.BytesIn, stats.BytesOut)
	return idx, stats, nil
}

func (arch *Archiver) readChunks(ctx context.Context, src io.Reader, pool *bufferPool, jobs chan<- saveChunkJob) error {
	for seq := 0; ; seq++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		buf, err := pool.Get(ctx)
		if err != nil {
			return err
		}

		n, err := readChunk(src, buf.Data)
		if err != nil && err != io.EOF {
			return errors.Wrap(err, "read source")
		}
		if n == 0 {
			buf.Release()
			return nil
		}

		select {
		case jobs <- saveChunkJob{seq: seq, size: n, buf: buf}:
		case <-ctx.Done():
			log.Debugf("not sending chunk %d, context is cancelled", seq)
			return ctx.Err()
		}

		if err == io.EOF {
			return nil
		}
	}
}

func (arch *Archiver) worker(ctx context.Context, jobs <-chan saveChunkJob, results chan<- saveChunkResult) error {
	c := arch.newChunkProcessor()
	for {
		var job saveChunkJob
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case job, ok = <-jobs:
			if !ok {
				return nil
			}
		}

		payload, bitmap, err := c.process(job.buf.Data[:job.size], job.buf.out)
		if err != nil {
			log.Debugf("compressing chunk %d failed, exiting: %v", job.seq, err)
			return err
		}

		select {
		case results <- saveChunkResult{saveChunkJob: job, payload: payload, bitmap: bitmap}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// writeOrdered writes results in sequence order, holding back results that
// arrive early.
func writeOrdered(ctx context.Context, dst io.Writer, idx *index.Index, stats *Stats, results <-chan saveChunkResult) error {
	pending := make(map[int]saveChunkResult)
	next := 0

	for {
		var res saveChunkResult
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok = <-results:
			if !ok {
				if len(pending) > 0 {
					return errors.Errorf("%d chunks missing after chunk %d", len(pending), next)
				}
				return nil
			}
		}

		pending[res.seq] = res
		for {
			r, found := pending[next]
			if !found {
				break
			}
			delete(pending, next)

			err := appendChunk(dst, idx, r.payload, r.size, r.bitmap)
			r.buf.Release()
			if err != nil {
				return err
			}
			stats.add(r.size, len(r.payload))
			next++
		}
	}
}
