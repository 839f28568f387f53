package backend

import (
	"context"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/errors"
)

// ReadAt reads exactly len(p) bytes of h at the given position. Short reads
// are retried until p is full. The read does not use or move a file cursor,
// so independent calls may run concurrently on the same file.
func ReadAt(ctx context.Context, rd io.ReaderAt, h Handle, offset int64, p []byte) (n int, err error) {
	log.Debugf("ReadAt(%v) at %v, len %v", h, offset, len(p))

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	n, err = io.ReadFull(io.NewSectionReader(rd, offset, int64(len(p))), p)
	if err != nil {
		return n, errors.Wrapf(err, "ReadFull(%v)", h)
	}

	log.Debugf("ReadAt(%v) ReadFull returned %v bytes", h, n)
	return n, nil
}
