package bloom

import (
	"encoding/binary"
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

const (
	// Buckets is the number of buckets of a filter.
	Buckets = 1 << 16

	// PackedSize is the size of a packed filter in bytes.
	PackedSize = Buckets / 8

	// Words is the number of 64-bit words of a packed filter.
	Words = Buckets / 64
)

// Filter is the unpacked form of a presence filter.
type Filter struct {
	bits *bitset.BitSet
}

// New returns an empty filter.
func New() *Filter {
	return &Filter{bits: bitset.New(Buckets)}
}

// Add records all shingles of data.
func (f *Filter) Add(data []byte) {
	EachShingle(data, func(bucket uint16) {
		f.bits.Set(uint(bucket))
	})
}

// Set marks a single bucket.
func (f *Filter) Set(bucket uint16) {
	f.bits.Set(uint(bucket))
}

// Test reports whether bucket is set.
func (f *Filter) Test(bucket uint16) bool {
	return f.bits.Test(uint(bucket))
}

// Count returns the number of set buckets.
func (f *Filter) Count() int {
	return int(f.bits.Count())
}

// Reset clears all buckets so the filter can be reused for the next chunk.
func (f *Filter) Reset() {
	f.bits.ClearAll()
}

// Pack writes the packed form of f into dst, which must hold at least
// PackedSize bytes, and returns dst[:PackedSize]. If dst is nil, a new slice
// is allocated.
func (f *Filter) Pack(dst []byte) Packed {
	if dst == nil {
		dst = make([]byte, PackedSize)
	}
	if len(dst) < PackedSize {
		panic(fmt.Sprintf("bloom: pack buffer too small: %d < %d", len(dst), PackedSize))
	}

	for i := 0; i < PackedSize; i++ {
		var u byte
		for k := 0; k < 8; k++ {
			u <<= 1
			if f.bits.Test(uint(i*8 + k)) {
				u |= 1
			}
		}
		dst[i] = u
	}
	return Packed(dst[:PackedSize])
}

// Packed is the on-disk form of a filter, exactly PackedSize bytes long.
type Packed []byte

// Word returns the w-th 64-bit word of p.
func (p Packed) Word(w int) uint64 {
	return binary.LittleEndian.Uint64(p[w*8:])
}

// Unpack returns the filter stored in p.
func (p Packed) Unpack() *Filter {
	f := New()
	for i, u := range p[:PackedSize] {
		if u == 0 {
			continue
		}
		for k := 0; k < 8; k++ {
			if u&(0x80>>k) != 0 {
				f.bits.Set(uint(i*8 + k))
			}
		}
	}
	return f
}

// Count returns the number of set buckets in p.
func (p Packed) Count() int {
	return p.Unpack().Count()
}

// ContainedIn reports whether every bucket set in the query q is also set in
// the chunk filter c. Zero query words impose no constraint.
func (q Packed) ContainedIn(c Packed) bool {
	for w := 0; w < Words; w++ {
		qw := q.Word(w)
		if qw == 0 {
			continue
		}
		if qw&c.Word(w) != qw {
			return false
		}
	}
	return true
}

// Query builds the packed filter for a search made of the given literal
// fragments. Shingles are taken from each fragment separately, never across a
// wildcard.
func Query(fragments ...[]byte) Packed {
	f := New()
	for _, frag := range fragments {
		f.Add(frag)
	}
	return f.Pack(nil)
}
