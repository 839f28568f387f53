package compress

import (
	"github.com/pierrec/lz4/v4"
)

// lz4Codec uses raw lz4 blocks without frame headers.
type lz4Codec struct {
	mode Mode
}

func (c *lz4Codec) Name() string { return "lz4" }

func (c *lz4Codec) MaxEncodedLen(n int) int {
	return lz4.CompressBlockBound(n)
}

func (c *lz4Codec) Encode(dst, src []byte) ([]byte, error) {
	dst = grow(dst, c.MaxEncodedLen(len(src)))

	var (
		n   int
		err error
	)
	if c.mode == ModeMax {
		n, err = lz4.CompressBlockHC(src, dst, lz4.Level9, nil, nil)
	} else {
		n, err = lz4.CompressBlock(src, dst, nil)
	}
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}

func (c *lz4Codec) Decode(dst, src []byte, size int) ([]byte, error) {
	dst = grow(dst, size)
	n, err := lz4.UncompressBlock(src, dst)
	if err != nil {
		return nil, err
	}
	return dst[:n], nil
}
