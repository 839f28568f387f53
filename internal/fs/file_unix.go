//go:build !windows
// +build !windows

package fs

import (
	"errors"
	"os"
	"syscall"
)

func fixpath(name string) string {
	return name
}

// Chmod changes the mode of the named file to mode.
func Chmod(name string, mode os.FileMode) error {
	err := os.Chmod(fixpath(name), mode)

	// ignore the error if the FS does not support setting this mode (e.g. CIFS with gvfs on Linux)
	if err != nil && IsNotSupported(err) {
		return nil
	}

	return err
}

// IsNotSupported returns true if the error is caused by an unsupported file system feature.
func IsNotSupported(err error) bool {
	return errors.Is(err, syscall.ENOTSUP) || errors.Is(err, syscall.EINVAL)
}
