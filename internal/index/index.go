package index

import (
	"fmt"

	"github.com/skyline93/cgrep/internal/bloom"
)

// The index of a container file lists one entry per chunk, in chunk order.
// The entry locates the chunk's compressed payload in the container and
// carries the chunk's presence filter.
//
// On disk the index has the following little-endian layout:
//
//	count            uint32
//	count times:
//	  offset           uint64   position of the payload in the container
//	  compressed_size  uint32   payload length
//	  original_size    uint32   chunk length before compression
//	  bitmap           [8192]byte packed presence filter
//
// Entries are contiguous: the first offset is zero and every following
// offset is the previous offset plus the previous compressed size. Bytes after
// the last entry are ignored.

const (
	// HeaderSize is the encoded size of the entry count.
	HeaderSize = 4

	// EntrySize is the encoded size of one entry.
	EntrySize = 8 + 4 + 4 + bloom.PackedSize
)

// Entry describes a single chunk.
type Entry struct {
	Offset         uint64
	CompressedSize uint32
	OriginalSize   uint32
	Bitmap         bloom.Packed
}

// End returns the container offset directly after the entry's payload.
func (e Entry) End() uint64 {
	return e.Offset + uint64(e.CompressedSize)
}

// Index holds the entries of one container.
type Index struct {
	Entries []Entry
}

// New returns an empty index.
func New() *Index {
	return &Index{}
}

// Len returns the number of chunks.
func (idx *Index) Len() int {
	return len(idx.Entries)
}

// Append adds the entry for the next chunk, placing its payload directly
// after the previous one. The bitmap is retained, not copied.
func (idx *Index) Append(compressedSize, originalSize int, bitmap bloom.Packed) Entry {
	e := Entry{
		Offset:         idx.ContainerSize(),
		CompressedSize: uint32(compressedSize),
		OriginalSize:   uint32(originalSize),
		Bitmap:         bitmap,
	}
	idx.Entries = append(idx.Entries, e)
	return e
}

// ContainerSize returns the number of container bytes covered by the index.
func (idx *Index) ContainerSize() uint64 {
	if len(idx.Entries) == 0 {
		return 0
	}
	return idx.Entries[len(idx.Entries)-1].End()
}

// SourceSize returns the length of the original file.
func (idx *Index) SourceSize() uint64 {
	return idx.SourceOffset(len(idx.Entries))
}

// SourceOffset returns the position of chunk i in the original file.
func (idx *Index) SourceOffset(i int) uint64 {
	var n uint64
	for _, e := range idx.Entries[:i] {
		n += uint64(e.OriginalSize)
	}
	return n
}

// Validate checks that the entries are contiguous and carry complete
// bitmaps.
func (idx *Index) Validate() error {
	var next uint64
	for i, e := range idx.Entries {
		switch {
		case e.Offset != next:
			return &FormatError{Entry: i, Reason: fmt.Sprintf("offset %d, want %d", e.Offset, next)}
		case len(e.Bitmap) != bloom.PackedSize:
			return &FormatError{Entry: i, Reason: fmt.Sprintf("bitmap has %d bytes, want %d", len(e.Bitmap), bloom.PackedSize)}
		case e.CompressedSize > e.OriginalSize:
			return &FormatError{Entry: i, Reason: fmt.Sprintf("compressed size %d exceeds original size %d", e.CompressedSize, e.OriginalSize)}
		}
		next = e.End()
	}
	return nil
}
