package compress

import (
	"sync"

	"github.com/klauspost/compress/zstd"
)

// maxDecoderMemory bounds what a single zstd frame may allocate. Chunks are at
// most 16 MiB, the limit leaves room for larger configurations.
const maxDecoderMemory = 256 * 1024 * 1024

// zstdCodec encodes each block as one zstd frame.
type zstdCodec struct {
	mode Mode

	allocEnc sync.Once
	allocDec sync.Once
	enc      *zstd.Encoder
	dec      *zstd.Decoder
}

func (c *zstdCodec) Name() string { return "zstd" }

func (c *zstdCodec) MaxEncodedLen(n int) int {
	return c.encoder().MaxEncodedSize(n)
}

func (c *zstdCodec) Encode(dst, src []byte) ([]byte, error) {
	return c.encoder().EncodeAll(src, dst[:0]), nil
}

func (c *zstdCodec) Decode(dst, src []byte, size int) ([]byte, error) {
	return c.decoder().DecodeAll(src, grow(dst, size)[:0])
}

func (c *zstdCodec) encoder() *zstd.Encoder {
	c.allocEnc.Do(func() {
		level := zstd.SpeedDefault
		if c.mode == ModeMax {
			level = zstd.SpeedBestCompression
		}

		opts := []zstd.EOption{
			// Set the compression level configured.
			zstd.WithEncoderLevel(level),
			// Keep the frame checksum, it is the only integrity check a
			// chunk payload has.
			zstd.WithEncoderCRC(true),
		}

		enc, err := zstd.NewWriter(nil, opts...)
		if err != nil {
			panic(err)
		}
		c.enc = enc
	})
	return c.enc
}

func (c *zstdCodec) decoder() *zstd.Decoder {
	c.allocDec.Do(func() {
		opts := []zstd.DOption{
			// Use all available cores.
			zstd.WithDecoderConcurrency(0),
			// Limit the maximum decompressed memory.
			zstd.WithDecoderMaxMemory(maxDecoderMemory),
		}

		dec, err := zstd.NewReader(nil, opts...)
		if err != nil {
			panic(err)
		}
		c.dec = dec
	})
	return c.dec
}
