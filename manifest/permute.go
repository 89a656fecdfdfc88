package manifest

// Permute applies the encode-side cyclic permutation: the byte at position i
// moves to position (i - offset) mod n.
//
// Any offset is accepted; offsets at or beyond len(data) wrap, and an offset
// of zero (or a multiple of len(data)) is the identity. Empty input returns an
// empty slice.
func Permute(data []byte, offset int) []byte {
	n := len(data)
	out := make([]byte, n)
	if n == 0 {
		return out
	}
	k := wrap(offset, n)
	copy(out, data[k:])
	copy(out[n-k:], data[:k])
	return out
}

// Unpermute applies the decode-side cyclic permutation: the byte at position i
// moves to position (i + offset) mod n. It is the exact inverse of Permute for
// the same offset.
func Unpermute(data []byte, offset int) []byte {
	n := len(data)
	out := make([]byte, n)
	if n == 0 {
		return out
	}
	k := wrap(offset, n)
	copy(out[k:], data[:n-k])
	copy(out, data[n-k:])
	return out
}

// wrap reduces offset into [0, n). n must be positive.
func wrap(offset, n int) int {
	k := offset % n
	if k < 0 {
		k += n
	}
	return k
}
