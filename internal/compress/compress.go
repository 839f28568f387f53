// Package compress provides the self-contained block codecs used for chunk
// payloads. A block never depends on another block, so any chunk can be
// decoded on its own given its compressed bytes and its original size.
//
// A block whose encoded form would not be smaller than its input is stored
// as-is. Because the index records both sizes, a payload whose compressed
// size equals its original size is always a stored block.
package compress

import (
	"fmt"

	"github.com/skyline93/cgrep/internal/errors"
)

// ErrCorrupt is returned when a payload cannot be decoded.
var ErrCorrupt = errors.New("corrupt compressed block")

// Codec compresses and decompresses single blocks. Implementations must be
// safe for concurrent use.
type Codec interface {
	// Name returns the name the codec is selected by.
	Name() string

	// MaxEncodedLen returns the largest possible encoded size of n bytes.
	MaxEncodedLen(n int) int

	// Encode compresses src, using dst as scratch space if it is large
	// enough, and returns the encoded block. An empty result signals
	// incompressible data.
	Encode(dst, src []byte) ([]byte, error)

	// Decode decompresses src into dst, which is grown to size bytes if
	// needed. The result is exactly size bytes or an error.
	Decode(dst, src []byte, size int) ([]byte, error)
}

// Mode configures how hard the codecs try.
type Mode uint

// Constants for the different compression levels.
const (
	ModeAuto    Mode = 0
	ModeMax     Mode = 1
	ModeInvalid Mode = 2
)

func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeMax:
		return "max"
	}
	return "invalid"
}

// ParseMode parses a compression mode.
func ParseMode(s string) (Mode, error) {
	switch s {
	case "auto", "":
		return ModeAuto, nil
	case "max":
		return ModeMax, nil
	}
	return ModeInvalid, errors.Errorf("invalid compression mode %q, must be one of (auto|max)", s)
}

// Names lists the supported codecs.
var Names = []string{"lz4", "zstd"}

// New returns the codec with the given name.
func New(name string, mode Mode) (Codec, error) {
	if mode >= ModeInvalid {
		return nil, errors.New("invalid compression mode")
	}

	switch name {
	case "lz4":
		return &lz4Codec{mode: mode}, nil
	case "zstd":
		return &zstdCodec{mode: mode}, nil
	}
	return nil, errors.Errorf("unknown codec %q, must be one of %v", name, Names)
}

// Bound returns the size of a buffer that can hold any payload Compress
// produces for n input bytes.
func Bound(c Codec, n int) int {
	return max(c.MaxEncodedLen(n), n)
}

// Compress encodes src with c. If the encoded form is not smaller than src,
// src is stored instead. dst is reused when large enough.
func Compress(c Codec, dst, src []byte) ([]byte, error) {
	out, err := c.Encode(dst, src)
	if err != nil {
		return nil, errors.Wrapf(err, "%s encode", c.Name())
	}
	if len(out) == 0 || len(out) >= len(src) {
		return append(dst[:0], src...), nil
	}
	return out, nil
}

// Decompress decodes a payload produced by Compress into exactly size bytes.
// Malformed input yields an error wrapping ErrCorrupt.
func Decompress(c Codec, dst, src []byte, size int) ([]byte, error) {
	switch {
	case len(src) == size:
		return append(dst[:0], src...), nil
	case len(src) > size:
		return nil, corrupt(c, fmt.Sprintf("payload of %d bytes exceeds original size %d", len(src), size))
	}

	out, err := c.Decode(dst, src, size)
	if err != nil {
		return nil, corrupt(c, err.Error())
	}
	if len(out) != size {
		return nil, corrupt(c, fmt.Sprintf("decoded %d bytes, want %d", len(out), size))
	}
	return out, nil
}

func corrupt(c Codec, msg string) error {
	return errors.Wrapf(ErrCorrupt, "%s: %s", c.Name(), msg)
}

// grow returns b resliced to n bytes, allocating if the capacity is too small.
func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}
