//go:build !linux
// +build !linux

package fs

// AdviseSequential is a no-op on this platform.
func AdviseSequential(File) {}

// AdviseRandom is a no-op on this platform.
func AdviseRandom(File) {}
