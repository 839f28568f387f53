package backend

import (
	"context"
	"io"

	"github.com/skyline93/cgrep/internal/errors"
)

// ReadFull reads exactly len(p) bytes of h from the sequential reader rd.
func ReadFull(ctx context.Context, rd io.Reader, h Handle, p []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.ReadFull(rd, p)
	return errors.Wrapf(err, "ReadFull(%v)", h)
}
