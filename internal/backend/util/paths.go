package util

import "os"

// Modes are the permissions used for newly created files and directories.
type Modes struct {
	Dir  os.FileMode
	File os.FileMode
}

// DefaultModes are used when nothing better is known.
var DefaultModes = Modes{Dir: 0700, File: 0600}

// DeriveModesFromFileInfo widens DefaultModes by the read permissions of an
// existing file, so that a container is readable by whoever could read its
// source.
func DeriveModesFromFileInfo(fi os.FileInfo, err error) Modes {
	m := DefaultModes
	if err != nil {
		return m
	}

	if fi.Mode()&0040 != 0 { // Group has read access
		m.Dir |= 0050
		m.File |= 0040
	}
	if fi.Mode()&0004 != 0 { // Others have read access
		m.Dir |= 0005
		m.File |= 0004
	}

	return m
}
