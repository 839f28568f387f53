// Package restorer turns a container back into the original file.
package restorer

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/backend"
	"github.com/skyline93/cgrep/internal/compress"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/index"
	"golang.org/x/sync/errgroup"
)

// ErrMismatch is returned by Verify when the container does not reproduce
// the source.
var ErrMismatch = errors.New("container does not match source")

// Restorer replays the chunks of a container in order.
type Restorer struct {
	h     backend.Handle
	idx   *index.Index
	codec compress.Codec
}

// New returns a restorer for the container h described by idx.
func New(h backend.Handle, idx *index.Index, codec compress.Codec) *Restorer {
	return &Restorer{h: h, idx: idx, codec: codec}
}

// Expand reads the container sequentially from rd and writes the original
// file to w. Container bytes after the last indexed chunk are not read. It
// returns the number of bytes written.
func (res *Restorer) Expand(ctx context.Context, rd io.Reader, w io.Writer) (int64, error) {
	log.Infof("expanding %v, %d chunks", res.h, res.idx.Len())

	var payload, data []byte
	var written int64
	for i, e := range res.idx.Entries {
		if cap(payload) < int(e.CompressedSize) {
			payload = make([]byte, e.CompressedSize)
		}
		payload = payload[:e.CompressedSize]

		if err := backend.ReadFull(ctx, rd, res.h, payload); err != nil {
			return written, errors.WithMessagef(err, "chunk %d", i)
		}

		var err error
		data, err = compress.Decompress(res.codec, data, payload, int(e.OriginalSize))
		if err != nil {
			return written, errors.WithMessagef(err, "decompress chunk %d", i)
		}

		n, err := w.Write(data)
		written += int64(n)
		if err != nil {
			return written, errors.Wrap(err, "write")
		}
		log.Debugf("chunk %d: %d bytes restored", i, n)
	}

	return written, nil
}

// Result is the outcome of a successful Verify.
type Result struct {
	Digest Digest
	Size   int64
}

// Verify expands the container read from rd and compares the result with the
// source. Both sides are hashed concurrently. A difference is reported as an
// error wrapping ErrMismatch.
func (res *Restorer) Verify(ctx context.Context, rd io.Reader, source io.Reader) (Result, error) {
	if err := res.idx.Validate(); err != nil {
		return Result{}, err
	}

	var want, got Digest
	var wantSize, gotSize int64

	wg, wgCtx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		var err error
		want, wantSize, err = HashReader(source)
		return errors.Wrap(err, "hash source")
	})
	wg.Go(func() error {
		h := newHasher()
		n, err := res.Expand(wgCtx, rd, h)
		if err != nil {
			return err
		}
		got, gotSize = DigestFromHash(h.Sum(nil)), n
		return nil
	})
	if err := wg.Wait(); err != nil {
		return Result{}, err
	}

	switch {
	case wantSize != gotSize:
		return Result{}, errors.Wrapf(ErrMismatch, "source has %d bytes, container expands to %d", wantSize, gotSize)
	case !want.Equal(got):
		return Result{}, errors.Wrapf(ErrMismatch, "source digest %v, container digest %v", want.Str(), got.Str())
	}

	log.Infof("verified %v: %d bytes, sha256 %v", res.h, gotSize, got)
	return Result{Digest: got, Size: gotSize}, nil
}
