package manifest

import (
	"errors"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPermute(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		data   string
		offset int
		want   string
	}{
		{name: "zero offset is identity", data: "abcde", offset: 0, want: "abcde"},
		{name: "shift by two", data: "abcde", offset: 2, want: "cdeab"},
		{name: "offset equal to length", data: "abcde", offset: 5, want: "abcde"},
		{name: "offset wraps", data: "abcde", offset: 7, want: "cdeab"},
		{name: "single byte", data: "x", offset: 5, want: "x"},
		{name: "negative offset", data: "abcde", offset: -2, want: "deabc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Permute([]byte(tt.data), tt.offset)
			assert.Equal(t, tt.want, string(got))
			assert.Equal(t, tt.data, string(Unpermute(got, tt.offset)))
		})
	}
}

func TestPermuteMatchesIndexFormula(t *testing.T) {
	t.Parallel()

	data := []byte("assets/textures/grass.png")
	n := len(data)
	for offset := range 2*n + 3 {
		enc := Permute(data, offset)
		for i, b := range data {
			assert.Equal(t, b, enc[(i-offset%n+n)%n], "offset %d position %d", offset, i)
		}
		dec := Unpermute(data, offset)
		for i, b := range data {
			assert.Equal(t, b, dec[(i+offset)%n], "offset %d position %d", offset, i)
		}
	}
}

func TestPermuteInverse(t *testing.T) {
	t.Parallel()

	data := []byte{0x00, 0xff, 0x10, 0x7f, 0x80, 0x01, 0x02}
	for offset := range 20 {
		assert.Equal(t, data, Unpermute(Permute(data, offset), offset), "offset %d", offset)
		assert.Equal(t, data, Permute(Unpermute(data, offset), offset), "offset %d", offset)
	}
}

func TestPermuteEmpty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, Permute(nil, 5))
	assert.Empty(t, Unpermute(nil, 5))
	assert.Empty(t, Permute([]byte{}, 0))
}

func TestRoundTrip(t *testing.T) {
	t.Parallel()

	lists := map[string][]string{
		"empty":   {},
		"single":  {"config.json"},
		"nested":  {"a/b.txt", "c.txt", "textures/ui/button.png"},
		"unicode": {"日本語/ファイル.txt", "émoji-🎮.bin"},
	}
	for name, paths := range lists {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			for _, offset := range []int{0, 1, 5, 13, 1000} {
				codec := New(WithOffset(offset))
				data, err := codec.Encode(paths)
				require.NoError(t, err)
				got, err := codec.Decode(data)
				require.NoError(t, err)
				assert.Equal(t, paths, got, "offset %d", offset)

				assert.Equal(t, paths, Decode(Encode(paths, offset), offset), "offset %d", offset)
			}
		})
	}
}

func TestEncodeEmpty(t *testing.T) {
	t.Parallel()

	codec := New()
	data, err := codec.Encode(nil)
	require.NoError(t, err)
	assert.Empty(t, data)

	paths, err := codec.Decode(data)
	require.NoError(t, err)
	assert.NotNil(t, paths)
	assert.Empty(t, paths)
}

func TestEncodeLayout(t *testing.T) {
	t.Parallel()

	data := Encode([]string{"a/b.txt", "c.txt"}, 0)
	assert.Equal(t, "a/b.txt\nc.txt", string(data))

	data = Encode([]string{"ab", "c"}, 1)
	assert.Equal(t, "b\nca", string(data))
}

func TestDecodeInvalidUTF8(t *testing.T) {
	t.Parallel()

	paths := Decode([]byte{'a', 0xff, '\n', 'b'}, 0)
	assert.Equal(t, []string{"a\uFFFD", "b"}, paths)

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"each stray byte replaced", []byte{0xff, 0xfe}, "\uFFFD\uFFFD"},
		{"lone continuation bytes", []byte{'x', 0x80, 0x80, 'y'}, "x\uFFFD\uFFFDy"},
		{"truncated sequence replaced once", []byte{0xe2, 0x82, 'a'}, "\uFFFDa"},
		{"truncated four byte sequence at end", []byte{'a', 0xf0, 0x90, 0x80}, "a\uFFFD"},
		{"surrogate bytes replaced individually", []byte{0xed, 0xa0, 0x80}, "\uFFFD\uFFFD\uFFFD"},
		{"overlong lead replaced individually", []byte{0xc0, 0xaf}, "\uFFFD\uFFFD"},
		{"valid text untouched", []byte("\u00e9t\u00e9/\u4e2d.txt"), "\u00e9t\u00e9/\u4e2d.txt"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, []string{tt.want}, Decode(tt.data, 0))

			got, err := New(WithOffset(3)).Decode(Permute(tt.data, 3))
			require.NoError(t, err)
			assert.Equal(t, []string{tt.want}, got)
		})
	}
}

func TestDefaultOffset(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultOffset, New().Offset())
	assert.Equal(t, 0, New(WithOffset(0)).Offset())
}

// reverseCompressor stands in for a real compressor so the seam is exercised.
type reverseCompressor struct{}

func (reverseCompressor) Compress(data []byte) ([]byte, error) {
	out := slices.Clone(data)
	slices.Reverse(out)
	return out, nil
}

func (reverseCompressor) Decompress(data []byte) ([]byte, error) {
	return reverseCompressor{}.Compress(data)
}

type failingCompressor struct{ Identity }

func (failingCompressor) Decompress([]byte) ([]byte, error) {
	return nil, errors.New("corrupt stream")
}

func TestCompressorSeam(t *testing.T) {
	t.Parallel()

	paths := []string{"a.txt", "b/c.txt"}

	t.Run("custom compressor round-trips", func(t *testing.T) {
		t.Parallel()
		codec := New(WithCompressor(reverseCompressor{}))
		data, err := codec.Encode(paths)
		require.NoError(t, err)
		assert.NotEqual(t, Encode(paths, DefaultOffset), data)

		got, err := codec.Decode(data)
		require.NoError(t, err)
		assert.Equal(t, paths, got)
	})

	t.Run("nil compressor restores identity", func(t *testing.T) {
		t.Parallel()
		codec := New(WithCompressor(nil))
		data, err := codec.Encode(paths)
		require.NoError(t, err)
		assert.Equal(t, Encode(paths, DefaultOffset), data)
	})

	t.Run("decompression failure degrades to empty", func(t *testing.T) {
		t.Parallel()
		codec := New(WithCompressor(failingCompressor{}))
		got, err := codec.Decode([]byte("anything"))
		require.ErrorIs(t, err, ErrDecompression)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})
}

func TestDigestStable(t *testing.T) {
	t.Parallel()

	a := Digest(Encode([]string{"x", "y"}, 5))
	b := Digest(Encode([]string{"x", "y"}, 5))
	assert.Equal(t, a, b)
	assert.NoError(t, a.Validate())
	assert.NotEqual(t, a, Digest(Encode([]string{"x", "y"}, 4)))
}
