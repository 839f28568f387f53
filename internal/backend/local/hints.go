package local

import (
	"strconv"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/fs"
)

// Extended attributes recording how a container was created. The container
// format itself does not carry this information.
const (
	xattrChunkSize = "user.cgrep.chunk_size"
	xattrCodec     = "user.cgrep.codec"
)

// Hints describe the parameters a container was created with. Zero values
// mean unknown.
type Hints struct {
	ChunkSize int
	Codec     string
}

// WriteHints stores h as extended attributes of path. File systems without
// extended attribute support are ignored.
func WriteHints(path string, h Hints) error {
	if err := fs.SetXattr(path, xattrChunkSize, []byte(strconv.Itoa(h.ChunkSize))); err != nil {
		return errors.Wrapf(err, "set %v on %v", xattrChunkSize, path)
	}
	if err := fs.SetXattr(path, xattrCodec, []byte(h.Codec)); err != nil {
		return errors.Wrapf(err, "set %v on %v", xattrCodec, path)
	}
	return nil
}

// ReadHints returns the hints stored on path.
func ReadHints(path string) (Hints, error) {
	var h Hints

	buf, err := fs.GetXattr(path, xattrChunkSize)
	if err != nil {
		return h, errors.Wrapf(err, "get %v from %v", xattrChunkSize, path)
	}
	if len(buf) > 0 {
		h.ChunkSize, err = strconv.Atoi(string(buf))
		if err != nil {
			return h, errors.Wrapf(err, "parse %v of %v", xattrChunkSize, path)
		}
	}

	buf, err = fs.GetXattr(path, xattrCodec)
	if err != nil {
		return h, errors.Wrapf(err, "get %v from %v", xattrCodec, path)
	}
	h.Codec = string(buf)
	return h, nil
}

// CheckHints logs a warning for every hint on path that contradicts want.
// Missing hints are not reported.
func CheckHints(path string, want Hints) {
	got, err := ReadHints(path)
	if err != nil {
		log.Debugf("reading hints: %v", err)
		return
	}
	if got.Codec != "" && got.Codec != want.Codec {
		log.Warnf("%v was created with codec %v, but %v is configured", path, got.Codec, want.Codec)
	}
	if got.ChunkSize != 0 && want.ChunkSize != 0 && got.ChunkSize != want.ChunkSize {
		log.Warnf("%v was created with chunk size %d, but %d is configured", path, got.ChunkSize, want.ChunkSize)
	}
}
