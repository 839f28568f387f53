package restorer

import (
	"bytes"
	"context"
	"io"
	"math/rand"
	"testing"

	"github.com/skyline93/cgrep/internal/backend"
	"github.com/skyline93/cgrep/internal/bloom"
	"github.com/skyline93/cgrep/internal/compress"
	"github.com/skyline93/cgrep/internal/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testHandle = backend.Handle{Type: backend.ContainerFile, Name: "test"}

func testCodec(t testing.TB, name string) compress.Codec {
	c, err := compress.New(name, compress.ModeAuto)
	require.NoError(t, err)
	return c
}

func buildContainer(t testing.TB, c compress.Codec, src []byte, chunkSize int) (*index.Index, []byte) {
	idx := index.New()
	var container []byte
	for start := 0; start < len(src); start += chunkSize {
		chunk := src[start:min(start+chunkSize, len(src))]
		f := bloom.New()
		f.Add(chunk)

		payload, err := compress.Compress(c, nil, chunk)
		require.NoError(t, err)
		container = append(container, payload...)
		idx.Append(len(payload), len(chunk), f.Pack(nil))
	}
	return idx, container
}

func testSource(n int) []byte {
	rnd := rand.New(rand.NewSource(23))
	buf := make([]byte, n)
	for i := range buf {
		if rnd.Intn(4) == 0 {
			buf[i] = byte(rnd.Intn(256))
		} else {
			buf[i] = "abc \n"[rnd.Intn(5)]
		}
	}
	return buf
}

func TestExpand(t *testing.T) {
	const chunkSize = 1000
	for _, codec := range compress.Names {
		c := testCodec(t, codec)
		for _, n := range []int{0, 1, chunkSize, 5*chunkSize + 3} {
			src := testSource(n)
			idx, container := buildContainer(t, c, src, chunkSize)

			var out bytes.Buffer
			written, err := New(testHandle, idx, c).Expand(context.TODO(), bytes.NewReader(container), &out)
			require.NoError(t, err, "%v/%d", codec, n)
			assert.Equal(t, int64(n), written)
			assert.Equal(t, src, out.Bytes(), "%v/%d", codec, n)
		}
	}
}

func TestExpandIgnoresTrailingBytes(t *testing.T) {
	c := testCodec(t, "lz4")
	src := testSource(3000)
	idx, container := buildContainer(t, c, src, 1024)
	container = append(container, "trailing garbage"...)

	var out bytes.Buffer
	_, err := New(testHandle, idx, c).Expand(context.TODO(), bytes.NewReader(container), &out)
	require.NoError(t, err)
	assert.Equal(t, src, out.Bytes())
}

func TestExpandTruncated(t *testing.T) {
	c := testCodec(t, "lz4")
	idx, container := buildContainer(t, c, testSource(3000), 1024)

	_, err := New(testHandle, idx, c).Expand(context.TODO(), bytes.NewReader(container[:len(container)-1]), io.Discard)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestExpandCorrupt(t *testing.T) {
	c := testCodec(t, "zstd")
	src := bytes.Repeat([]byte("0123456789\n"), 500)
	idx, container := buildContainer(t, c, src, 2048)
	require.Less(t, idx.Entries[1].CompressedSize, idx.Entries[1].OriginalSize)

	e := idx.Entries[1]
	for i := e.Offset; i < e.End(); i++ {
		container[i] ^= 0x55
	}

	_, err := New(testHandle, idx, c).Expand(context.TODO(), bytes.NewReader(container), io.Discard)
	assert.ErrorIs(t, err, compress.ErrCorrupt)
}

func TestExpandCancelled(t *testing.T) {
	c := testCodec(t, "lz4")
	idx, container := buildContainer(t, c, testSource(3000), 1024)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(testHandle, idx, c).Expand(ctx, bytes.NewReader(container), io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify(t *testing.T) {
	c := testCodec(t, "lz4")
	src := testSource(10000)
	idx, container := buildContainer(t, c, src, 4096)

	res, err := New(testHandle, idx, c).Verify(context.TODO(), bytes.NewReader(container), bytes.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, int64(len(src)), res.Size)
	assert.Equal(t, Hash(src), res.Digest)
}

func TestVerifyMismatch(t *testing.T) {
	c := testCodec(t, "lz4")
	src := testSource(10000)
	idx, container := buildContainer(t, c, src, 4096)

	other := append([]byte{}, src...)
	other[5000] ^= 1
	_, err := New(testHandle, idx, c).Verify(context.TODO(), bytes.NewReader(container), bytes.NewReader(other))
	assert.ErrorIs(t, err, ErrMismatch)

	_, err = New(testHandle, idx, c).Verify(context.TODO(), bytes.NewReader(container), bytes.NewReader(src[:9999]))
	assert.ErrorIs(t, err, ErrMismatch)
}

func TestVerifyInvalidIndex(t *testing.T) {
	c := testCodec(t, "lz4")
	src := testSource(10000)
	idx, container := buildContainer(t, c, src, 4096)
	idx.Entries[1].Offset++

	_, err := New(testHandle, idx, c).Verify(context.TODO(), bytes.NewReader(container), bytes.NewReader(src))
	assert.ErrorIs(t, err, index.ErrFormat)
}

func TestDigest(t *testing.T) {
	data := []byte("hello world\n")
	d, n, err := HashReader(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int64(len(data)), n)
	assert.True(t, d.Equal(Hash(data)))
	assert.Equal(t, "a948904f2f0f479b8f8197694b30184b0d2ed1c1cd2a1ec0fb85d299a192a447", d.String())
	assert.Equal(t, "a948904f", d.Str())

	assert.Panics(t, func() { DigestFromHash([]byte{1, 2, 3}) })
}
