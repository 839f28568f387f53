// Package repository answers queries against a container and its index.
package repository

import (
	"context"
	"io"

	"github.com/RoaringBitmap/roaring/v2"
	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/backend"
	"github.com/skyline93/cgrep/internal/backend/local"
	"github.com/skyline93/cgrep/internal/bloom"
	"github.com/skyline93/cgrep/internal/compress"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/fs"
	"github.com/skyline93/cgrep/internal/glob"
	"github.com/skyline93/cgrep/internal/index"
)

// Options configure a Repository.
type Options struct {
	// Codec must be the codec the container was created with.
	Codec compress.Codec

	// Connections is the number of chunks loaded concurrently.
	Connections uint

	// EOL are the bytes that end a line, glob.DefaultEOL if empty.
	EOL []byte
}

// Repository gives random access to the chunks of a container.
type Repository struct {
	container io.ReaderAt
	h         backend.Handle
	idx       *index.Index
	offsets   []uint64
	opts      Options

	closer io.Closer
}

// New returns a repository reading chunks from container as described by
// idx.
func New(container io.ReaderAt, h backend.Handle, idx *index.Index, opts Options) (*Repository, error) {
	if opts.Codec == nil {
		return nil, errors.New("no codec configured")
	}
	if opts.Connections == 0 {
		opts.Connections = 1
	}
	if len(opts.EOL) == 0 {
		opts.EOL = glob.DefaultEOL
	}

	offsets := make([]uint64, idx.Len()+1)
	for i, e := range idx.Entries {
		offsets[i+1] = offsets[i] + uint64(e.OriginalSize)
	}

	return &Repository{
		container: container,
		h:         h,
		idx:       idx,
		offsets:   offsets,
		opts:      opts,
	}, nil
}

// Open loads the index of cfg and opens its container for random access.
// The container must be at least as large as the index claims.
func Open(cfg local.Config, opts Options) (*Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	idx, err := LoadIndex(cfg.IndexHandle())
	if err != nil {
		return nil, err
	}

	f, err := local.Open(cfg.ContainerHandle())
	if err != nil {
		return nil, err
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrapf(err, "stat %v", cfg.ContainerHandle())
	}
	if uint64(fi.Size()) < idx.ContainerSize() {
		_ = f.Close()
		return nil, errors.Errorf("container %v has %d bytes, index needs %d",
			cfg.ContainerHandle(), fi.Size(), idx.ContainerSize())
	}
	fs.AdviseRandom(f)

	repo, err := New(f, cfg.ContainerHandle(), idx, opts)
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	repo.closer = f

	log.Infof("opened %v with %d chunks", cfg.ContainerHandle(), idx.Len())
	return repo, nil
}

// LoadIndex reads the index file h.
func LoadIndex(h backend.Handle) (*index.Index, error) {
	f, err := local.Open(h)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	idx, err := index.Load(f)
	if err != nil {
		return nil, errors.WithMessagef(err, "load %v", h)
	}
	return idx, nil
}

// Close releases the container file if the repository opened it.
func (r *Repository) Close() error {
	if r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// Index returns the index of the repository.
func (r *Repository) Index() *index.Index {
	return r.idx
}

// Connections returns the number of chunks loaded concurrently.
func (r *Repository) Connections() uint {
	return r.opts.Connections
}

// SourceOffset returns the position of chunk i in the original file.
func (r *Repository) SourceOffset(i int) uint64 {
	return r.offsets[i]
}

// Candidates returns the chunks whose filters contain every bucket of q.
// Chunks outside the result certainly do not contain the query.
func (r *Repository) Candidates(q bloom.Packed) *roaring.Bitmap {
	res := roaring.New()
	for i, e := range r.idx.Entries {
		if q.ContainedIn(e.Bitmap) {
			res.AddInt(i)
		}
	}
	log.Debugf("%d of %d chunks are candidates", res.GetCardinality(), r.idx.Len())
	return res
}

// LoadChunk reads and decompresses chunk i. It may use all of buf[:cap(buf)]
// as scratch space for the result.
func (r *Repository) LoadChunk(ctx context.Context, i int, buf []byte) ([]byte, error) {
	if i < 0 || i >= r.idx.Len() {
		return nil, errors.Errorf("chunk %d not in index with %d chunks", i, r.idx.Len())
	}
	cb := &chunkBuffer{data: buf}
	if err := r.loadChunk(ctx, i, cb); err != nil {
		return nil, err
	}
	return cb.data, nil
}

// chunkBuffer holds the scratch space for loading one chunk.
type chunkBuffer struct {
	payload []byte
	data    []byte
}

func (r *Repository) loadChunk(ctx context.Context, i int, cb *chunkBuffer) error {
	e := r.idx.Entries[i]
	log.Debugf("load chunk %d at offset %d, %d bytes", i, e.Offset, e.CompressedSize)

	if cap(cb.payload) < int(e.CompressedSize) {
		cb.payload = make([]byte, e.CompressedSize)
	}
	cb.payload = cb.payload[:e.CompressedSize]

	n, err := backend.ReadAt(ctx, r.container, r.h, int64(e.Offset), cb.payload)
	if err != nil {
		return errors.WithMessagef(err, "load chunk %d", i)
	}
	if n != int(e.CompressedSize) {
		return errors.Errorf("load chunk %d: wrong length returned, want %d, got %d", i, e.CompressedSize, n)
	}

	data, err := compress.Decompress(r.opts.Codec, cb.data, cb.payload, int(e.OriginalSize))
	if err != nil {
		return errors.WithMessagef(err, "decompress chunk %d", i)
	}
	cb.data = data
	return nil
}
