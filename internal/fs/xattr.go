package fs

import (
	"syscall"

	"github.com/pkg/xattr"
	"github.com/skyline93/cgrep/internal/errors"
)

// SetXattr stores an extended attribute on path. File systems without
// extended attribute support are silently ignored.
func SetXattr(path, name string, value []byte) error {
	return handleXattrErr(xattr.Set(path, name, value))
}

// GetXattr reads an extended attribute of path. A missing attribute or an
// unsupported file system yields (nil, nil).
func GetXattr(path, name string) ([]byte, error) {
	b, err := xattr.Get(path, name)
	return b, handleXattrErr(err)
}

func handleXattrErr(err error) error {
	switch e := err.(type) {
	case nil:
		return nil

	case *xattr.Error:
		// On Linux, xattr calls on files in an SMB/CIFS mount can return
		// ENOATTR instead of ENOTSUP.
		switch e.Err {
		case syscall.ENOTSUP, xattr.ENOATTR:
			return nil
		}
		return errors.WithStack(e)

	default:
		return errors.WithStack(e)
	}
}
