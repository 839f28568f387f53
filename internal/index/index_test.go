package index

import (
	"bytes"
	"encoding/binary"
	"io"
	"testing"

	"github.com/skyline93/cgrep/internal/bloom"
	"github.com/skyline93/cgrep/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIndex(t testing.TB) *Index {
	idx := New()
	for i, text := range []string{"first chunk", "second chunk", "third"} {
		f := bloom.New()
		f.Add([]byte(text))
		idx.Append(10*(i+1), 100, f.Pack(nil))
	}
	return idx
}

func TestAppendOffsets(t *testing.T) {
	idx := testIndex(t)
	require.Equal(t, 3, idx.Len())

	var sum uint64
	for i, e := range idx.Entries {
		assert.Equal(t, sum, e.Offset, "entry %d", i)
		sum += uint64(e.CompressedSize)
	}
	assert.Equal(t, uint64(60), idx.ContainerSize())
	assert.Equal(t, uint64(300), idx.SourceSize())
	assert.Equal(t, uint64(200), idx.SourceOffset(2))
	assert.NoError(t, idx.Validate())
}

func TestEncodeLayout(t *testing.T) {
	idx := testIndex(t)
	buf, err := Encode(idx)
	require.NoError(t, err)
	require.Len(t, buf, HeaderSize+3*EntrySize)

	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(buf))
	second := buf[HeaderSize+EntrySize:]
	assert.Equal(t, uint64(10), binary.LittleEndian.Uint64(second[0:]))
	assert.Equal(t, uint32(20), binary.LittleEndian.Uint32(second[8:]))
	assert.Equal(t, uint32(100), binary.LittleEndian.Uint32(second[12:]))
	assert.Equal(t, []byte(idx.Entries[1].Bitmap), second[16:EntrySize])
}

func TestEncodeDecode(t *testing.T) {
	idx := testIndex(t)
	buf, err := Encode(idx)
	require.NoError(t, err)

	got, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, idx, got)

	again, err := Encode(got)
	require.NoError(t, err)
	assert.True(t, bytes.Equal(buf, again))
}

func TestEmpty(t *testing.T) {
	buf, err := Encode(New())
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0}, buf)

	idx, err := Decode(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, idx.Len())
	assert.Equal(t, uint64(0), idx.ContainerSize())
}

func TestDecodeIgnoresTrailingBytes(t *testing.T) {
	buf, err := Encode(testIndex(t))
	require.NoError(t, err)

	idx, err := Decode(append(buf, 0xde, 0xad, 0xbe, 0xef))
	require.NoError(t, err)
	assert.Equal(t, 3, idx.Len())
}

func TestDecodeMalformed(t *testing.T) {
	buf, err := Encode(testIndex(t))
	require.NoError(t, err)

	gap := bytes.Clone(buf)
	binary.LittleEndian.PutUint64(gap[HeaderSize+EntrySize:], 11)

	nonzero := bytes.Clone(buf)
	binary.LittleEndian.PutUint64(nonzero[HeaderSize:], 1)

	inflated := bytes.Clone(buf)
	binary.LittleEndian.PutUint32(inflated[HeaderSize+12:], 1)

	for name, data := range map[string][]byte{
		"nil":               nil,
		"short header":      {1, 0},
		"truncated entry":   buf[:len(buf)-1],
		"missing entries":   buf[:HeaderSize+EntrySize],
		"huge count":        {0xff, 0xff, 0xff, 0xff},
		"offset gap":        gap,
		"nonzero first":     nonzero,
		"compressed larger": inflated,
	} {
		t.Run(name, func(t *testing.T) {
			idx, err := Decode(data)
			assert.Nil(t, idx)
			require.Error(t, err)
			assert.True(t, IsFormatError(err), "%v", err)

			var ferr *FormatError
			assert.True(t, errors.As(err, &ferr))
		})
	}
}

func TestEncodeRejectsIncompleteBitmap(t *testing.T) {
	idx := New()
	idx.Append(1, 1, bloom.Packed(make([]byte, 10)))
	_, err := Encode(idx)
	assert.Error(t, err)
	assert.Error(t, idx.Validate())
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestLoad(t *testing.T) {
	idx := testIndex(t)
	var buf bytes.Buffer
	n, err := idx.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(idx.Size()), n)

	got, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, idx, got)

	_, err = Load(failingReader{})
	require.Error(t, err)
	assert.False(t, IsFormatError(err), "read errors are not format errors")
	assert.True(t, errors.Is(err, io.ErrClosedPipe))
}
