package fs

import (
	"golang.org/x/sys/unix"
)

// AdviseSequential tells the kernel that f will be read front to back.
// Failures are ignored, the hint only affects read-ahead.
func AdviseSequential(f File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_SEQUENTIAL)
}

// AdviseRandom tells the kernel that f will be read at scattered offsets,
// which disables read-ahead beyond the requested ranges.
func AdviseRandom(f File) {
	_ = unix.Fadvise(int(f.Fd()), 0, 0, unix.FADV_RANDOM)
}
