// Package local stores containers and indexes in the local file system.
package local

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/backend"
	"github.com/skyline93/cgrep/internal/backend/util"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/skyline93/cgrep/internal/fs"
)

// File is a file being created. Data goes to a temporary file next to the
// final name and only replaces the final file on Commit, so an interrupted
// run never leaves a truncated container or index behind.
type File struct {
	*os.File
	h    backend.Handle
	name string
}

// Create starts writing the file h with the given permissions.
func Create(h backend.Handle, mode os.FileMode) (*File, error) {
	dir := filepath.Dir(h.Name)
	f, err := fs.TempFile(dir, "."+filepath.Base(h.Name)+"-tmp-")
	if err != nil {
		return nil, errors.Wrapf(err, "create %v", h)
	}

	if err = fs.Chmod(f.Name(), mode); err != nil {
		_ = f.Close()
		_ = fs.RemoveIfExists(f.Name())
		return nil, errors.Wrapf(err, "chmod %v", h)
	}

	log.Debugf("writing %v via %v", h, f.Name())
	return &File{File: f, h: h, name: h.Name}, nil
}

// Commit flushes the data to disk and atomically moves the file to its final
// name.
func (f *File) Commit() error {
	tmp := f.File.Name()

	if err := f.File.Sync(); err != nil && !fs.IsNotSupported(err) {
		_ = f.Abort()
		return errors.Wrapf(err, "sync %v", f.h)
	}
	if err := f.File.Close(); err != nil {
		_ = fs.RemoveIfExists(tmp)
		return errors.Wrapf(err, "close %v", f.h)
	}
	if err := fs.Rename(tmp, f.name); err != nil {
		_ = fs.RemoveIfExists(tmp)
		return errors.Wrapf(err, "rename %v", f.h)
	}

	log.Debugf("committed %v", f.h)
	return fsyncDir(filepath.Dir(f.name))
}

// Abort discards the file.
func (f *File) Abort() error {
	tmp := f.File.Name()
	_ = f.File.Close()
	return fs.RemoveIfExists(tmp)
}

// Open opens the file h for reading.
func Open(h backend.Handle) (*os.File, error) {
	f, err := fs.OpenFile(h.Name, os.O_RDONLY, 0)
	if err != nil {
		return nil, errors.Wrapf(err, "open %v", h)
	}
	return f, nil
}

// ModeFor returns the permissions for files derived from the file at path.
func ModeFor(path string) os.FileMode {
	return util.DeriveModesFromFileInfo(fs.Stat(path)).File
}
