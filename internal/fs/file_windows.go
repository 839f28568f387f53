package fs

import (
	"os"
	"path/filepath"
)

func fixpath(name string) string {
	abs, err := filepath.Abs(name)
	if err != nil {
		return name
	}
	return abs
}

// Chmod changes the mode of the named file to mode.
func Chmod(name string, mode os.FileMode) error {
	return os.Chmod(fixpath(name), mode)
}

// IsNotSupported returns false, Windows reports no such errors for the calls
// made in this package.
func IsNotSupported(error) bool {
	return false
}
