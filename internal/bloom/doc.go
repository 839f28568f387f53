// Package bloom implements the per-chunk presence filter used to skip chunks
// that cannot contain a search string.
//
// Every 3-byte window ("shingle") of a chunk is hashed into one of 65536
// buckets. A set bucket means that at least one shingle of the chunk hashed
// there. Queries hash their own shingles the same way and a chunk is a
// candidate only if all of the query's buckets are set in the chunk's filter.
// Collisions produce false positives, never false negatives.
//
// # Packed layout
//
// A filter is stored as 8192 bytes. Byte i holds buckets 8i..8i+7, bucket
// 8i+k at bit 7-k (most significant bit first). For the containment test the
// packed form is read as 1024 64-bit words, word w being the little-endian
// value of bytes 8w..8w+7. The layout does not depend on the host byte order.
package bloom
