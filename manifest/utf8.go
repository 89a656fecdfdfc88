package manifest

import (
	"strings"
	"unicode/utf8"
)

// decodeText converts manifest bytes to a string, replacing each maximal
// invalid subsequence with one U+FFFD. A truncated multi-byte sequence
// counts as one subsequence; every other invalid byte counts on its own.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	var b strings.Builder
	b.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			data = data[invalidLen(data):]
			continue
		}
		b.Write(data[:size])
		data = data[size:]
	}
	return b.String()
}

// invalidLen returns the length of the maximal invalid subsequence at the
// start of p: a lead byte plus the continuation bytes that are valid for it
// before the sequence breaks off.
func invalidLen(p []byte) int {
	need, lo, hi := 0, byte(0x80), byte(0xBF)
	switch c := p[0]; {
	case c >= 0xC2 && c <= 0xDF:
		need = 1
	case c == 0xE0:
		need, lo = 2, 0xA0
	case c == 0xED:
		need, hi = 2, 0x9F
	case c >= 0xE1 && c <= 0xEF:
		need = 2
	case c == 0xF0:
		need, lo = 3, 0x90
	case c == 0xF4:
		need, hi = 3, 0x8F
	case c >= 0xF1 && c <= 0xF3:
		need = 3
	default:
		return 1
	}
	n := 1
	for n <= need && n < len(p) && p[n] >= lo && p[n] <= hi {
		n++
		lo, hi = 0x80, 0xBF
	}
	return n
}
