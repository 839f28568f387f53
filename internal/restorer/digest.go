package restorer

import (
	"encoding/hex"
	"hash"
	"io"

	"github.com/minio/sha256-simd"
)

const digestSize = sha256.Size

// Digest is the SHA-256 of a file's contents.
type Digest [digestSize]byte

const shortStr = 4

// Str returns the shortened string version of d.
func (d Digest) Str() string {
	return hex.EncodeToString(d[:shortStr])
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Equal compares a digest to another other.
func (d Digest) Equal(other Digest) bool {
	return d == other
}

// Hash returns the digest of data.
func Hash(data []byte) Digest {
	return sha256.Sum256(data)
}

func newHasher() hash.Hash {
	return sha256.New()
}

// DigestFromHash returns the digest for the hash.
func DigestFromHash(hash []byte) (d Digest) {
	if len(hash) != digestSize {
		panic("invalid hash type, not enough/too many bytes")
	}

	copy(d[:], hash)
	return d
}

// HashReader returns the digest of everything read from rd and the number
// of bytes read.
func HashReader(rd io.Reader) (Digest, int64, error) {
	h := newHasher()
	n, err := io.Copy(h, rd)
	if err != nil {
		return Digest{}, n, err
	}
	return DigestFromHash(h.Sum(nil)), n, nil
}
