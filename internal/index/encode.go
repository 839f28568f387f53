package index

import (
	"encoding/binary"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/skyline93/cgrep/internal/bloom"
	"github.com/skyline93/cgrep/internal/errors"
)

// Size returns the encoded size of the index.
func (idx *Index) Size() int {
	return HeaderSize + len(idx.Entries)*EntrySize
}

// Encode returns the binary form of idx. It fails if an entry has no
// complete bitmap.
func Encode(idx *Index) ([]byte, error) {
	buf := make([]byte, idx.Size())
	binary.LittleEndian.PutUint32(buf, uint32(len(idx.Entries)))

	p := buf[HeaderSize:]
	for i, e := range idx.Entries {
		if len(e.Bitmap) != bloom.PackedSize {
			return nil, errors.Errorf("entry %d: bitmap has %d bytes, want %d", i, len(e.Bitmap), bloom.PackedSize)
		}
		binary.LittleEndian.PutUint64(p[0:], e.Offset)
		binary.LittleEndian.PutUint32(p[8:], e.CompressedSize)
		binary.LittleEndian.PutUint32(p[12:], e.OriginalSize)
		copy(p[16:EntrySize], e.Bitmap)
		p = p[EntrySize:]
	}
	return buf, nil
}

// Decode parses an encoded index. The bitmaps of the returned entries alias
// buf. Truncated or inconsistent input yields a *FormatError.
func Decode(buf []byte) (*Index, error) {
	if len(buf) < HeaderSize {
		return nil, &FormatError{Entry: -1, Reason: fmt.Sprintf("%d bytes, too short for header", len(buf))}
	}

	count := uint64(binary.LittleEndian.Uint32(buf))
	need := uint64(HeaderSize) + count*EntrySize
	if uint64(len(buf)) < need {
		return nil, &FormatError{Entry: -1, Reason: fmt.Sprintf("%d entries need %d bytes, have %d", count, need, len(buf))}
	}
	if extra := uint64(len(buf)) - need; extra > 0 {
		log.Debugf("ignoring %d trailing bytes after %d index entries", extra, count)
	}

	idx := &Index{Entries: make([]Entry, count)}
	p := buf[HeaderSize:]
	for i := range idx.Entries {
		idx.Entries[i] = Entry{
			Offset:         binary.LittleEndian.Uint64(p[0:]),
			CompressedSize: binary.LittleEndian.Uint32(p[8:]),
			OriginalSize:   binary.LittleEndian.Uint32(p[12:]),
			Bitmap:         bloom.Packed(p[16:EntrySize:EntrySize]),
		}
		p = p[EntrySize:]
	}

	if err := idx.Validate(); err != nil {
		return nil, err
	}

	log.Debugf("decoded index with %d entries", count)
	return idx, nil
}

// WriteTo writes the encoded index to w.
func (idx *Index) WriteTo(w io.Writer) (int64, error) {
	buf, err := Encode(idx)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(buf)
	return int64(n), errors.Wrap(err, "write index")
}

// Load reads and decodes an index from rd. Read failures are returned as
// they are, only problems with the data are format errors.
func Load(rd io.Reader) (*Index, error) {
	buf, err := io.ReadAll(rd)
	if err != nil {
		return nil, errors.Wrap(err, "read index")
	}
	return Decode(buf)
}
