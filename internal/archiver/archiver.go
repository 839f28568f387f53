// Package archiver splits a source into fixed-size chunks and writes each
// chunk's compressed payload to a container while building the index.
package archiver

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/bloom"
	"github.com/skyline93/cgrep/internal/compress"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/index"
)

// Chunk sizes accepted by Options.ChunkSize.
const (
	MinChunkSize     = 4 * 1024 * 1024
	DefaultChunkSize = 4 * 1024 * 1024
	MaxChunkSize     = 16 * 1024 * 1024
)

// Options configure an Archiver.
type Options struct {
	// ChunkSize is the size of every chunk but the last. It must be a power
	// of two between MinChunkSize and MaxChunkSize.
	ChunkSize int

	// Codec compresses the chunks.
	Codec compress.Codec

	// Workers is the number of chunks compressed concurrently. Zero or one
	// processes the source strictly sequentially.
	Workers uint
}

// ApplyDefaults returns a copy of o with default values set.
func (o Options) ApplyDefaults() Options {
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Workers == 0 {
		o.Workers = 1
	}
	return o
}

// ValidChunkSize returns an error unless n is one of the supported sizes.
func ValidChunkSize(n int) error {
	if n < MinChunkSize || n > MaxChunkSize || n&(n-1) != 0 {
		return errors.Errorf("invalid chunk size %d, must be a power of two between %d and %d",
			n, MinChunkSize, MaxChunkSize)
	}
	return nil
}

// Stats summarize a run.
type Stats struct {
	Chunks   int
	BytesIn  uint64
	BytesOut uint64
}

func (s *Stats) add(in, out int) {
	s.Chunks++
	s.BytesIn += uint64(in)
	s.BytesOut += uint64(out)
}

// Archiver writes containers.
type Archiver struct {
	opts Options
}

// New returns a new archiver.
func New(opts Options) (*Archiver, error) {
	opts = opts.ApplyDefaults()
	if opts.Codec == nil {
		return nil, errors.New("no codec configured")
	}
	if err := ValidChunkSize(opts.ChunkSize); err != nil {
		return nil, err
	}
	return &Archiver{opts: opts}, nil
}

// Create reads src until EOF, appends the compressed chunks to dst and
// returns the index describing them. Chunk boundaries, payloads and bitmaps
// only depend on the input, the chunk size and the codec, never on the number
// of workers.
func (arch *Archiver) Create(ctx context.Context, src io.Reader, dst io.Writer) (*index.Index, Stats, error) {
	log.Infof("creating container, chunk size %d, codec %v, %d workers",
		arch.opts.ChunkSize, arch.opts.Codec.Name(), arch.opts.Workers)

	if arch.opts.Workers > 1 {
		return arch.createParallel(ctx, src, dst)
	}
	return arch.createSequential(ctx, src, dst)
}

func (arch *Archiver) createSequential(ctx context.Context, src io.Reader, dst io.Writer) (*index.Index, Stats, error) {
	var stats Stats
	idx := index.New()
	buf := arch.newBuffer(nil)
	c := arch.newChunkProcessor()

	for {
		if err := ctx.Err(); err != nil {
			return nil, stats, err
		}

		n, err := readChunk(src, buf.Data)
		if err != nil && err != io.EOF {
			return nil, stats, errors.Wrap(err, "read source")
		}
		if n > 0 {
			payload, bitmap, perr := c.process(buf.Data[:n], buf.out)
			if perr != nil {
				return nil, stats, perr
			}
			if werr := appendChunk(dst, idx, payload, n, bitmap); werr != nil {
				return nil, stats, werr
			}
			stats.add(n, len(payload))
		}
		if err == io.EOF {
			break
		}
	}

	log.Infof("created container with %d chunks, %d bytes -> %d bytes", stats.Chunks, stats.BytesIn, stats.BytesOut)
	return idx, stats, nil
}

// readChunk fills buf from rd, retrying short reads. It returns io.EOF
// together with the last, possibly empty, partial chunk.
func readChunk(rd io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(rd, buf)
	switch err {
	case nil:
		return n, nil
	case io.EOF, io.ErrUnexpectedEOF:
		return n, io.EOF
	}
	return n, err
}

// appendChunk writes a payload to the container and records it in the
// index.
func appendChunk(dst io.Writer, idx *index.Index, payload []byte, size int, bitmap bloom.Packed) error {
	if _, err := dst.Write(payload); err != nil {
		return errors.Wrap(err, "write container")
	}
	e := idx.Append(len(payload), size, bitmap)
	log.Debugf("chunk %d: offset %d, %d bytes -> %d bytes", idx.Len()-1, e.Offset, size, len(payload))
	return nil
}

// chunkProcessor owns the filter used while hashing a chunk. Each goroutine
// needs its own.
type chunkProcessor struct {
	codec  compress.Codec
	filter *bloom.Filter
}

func (arch *Archiver) newChunkProcessor() *chunkProcessor {
	return &chunkProcessor{codec: arch.opts.Codec, filter: bloom.New()}
}

// process returns the compressed payload, stored in out if it fits, and the
// packed filter of data.
func (c *chunkProcessor) process(data, out []byte) ([]byte, bloom.Packed, error) {
	c.filter.Reset()
	c.filter.Add(data)
	bitmap := c.filter.Pack(nil)

	payload, err := compress.Compress(c.codec, out, data)
	if err != nil {
		return nil, nil, err
	}
	return payload, bitmap, nil
}
