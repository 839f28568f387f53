package bloom

// Hash3 maps a shingle of three bytes to a bucket. The hash is a cheap mix of
// the bytes, collisions are expected.
func Hash3(b0, b1, b2 byte) uint16 {
	high := uint16(b0) ^ (uint16(b1) << 4)
	low := (uint16(b1) >> 4) ^ uint16(b2)
	return (high << 8) | low
}

// EachShingle calls fn with the bucket of every 3-byte window of data. Data
// shorter than three bytes has no shingles.
func EachShingle(data []byte, fn func(bucket uint16)) {
	for i := 0; i+3 <= len(data); i++ {
		fn(Hash3(data[i], data[i+1], data[i+2]))
	}
}
