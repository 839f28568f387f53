package fs

import (
	"io"
	"os"
)

// File is an open file that supports both sequential and positioned reads.
type File interface {
	io.Reader
	io.ReaderAt
	io.Closer

	Fd() uintptr
	Seek(int64, int) (int64, error)
	Stat() (os.FileInfo, error)
	Name() string
}
