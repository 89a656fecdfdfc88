package manifest

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/opencontainers/go-digest"
)

const (
	// DefaultFileName is the manifest file name, relative to the asset root.
	DefaultFileName = "StreamingAssetsUrl.txt"

	// DefaultOffset is the permutation offset used when none is configured.
	DefaultOffset = 5

	// Separator joins entries in the decoded manifest text.
	Separator = '\n'

	// SidecarExt is the extension of platform metadata files excluded from manifests.
	SidecarExt = ".meta"
)

// ErrDecompression is returned when the compression seam rejects manifest bytes.
var ErrDecompression = errors.New("manifest: decompression failed")

// Compressor is the compression seam applied between the text encoding and the
// permutation.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
}

// Identity is the no-op Compressor used by default.
type Identity struct{}

// Compress returns data unchanged.
func (Identity) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged.
func (Identity) Decompress(data []byte) ([]byte, error) { return data, nil }

// Codec converts between a path list and manifest bytes.
//
// The zero value is not usable; construct with New.
type Codec struct {
	offset     int
	compressor Compressor
	logger     *slog.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithOffset sets the permutation offset. Encoder and decoder must agree.
func WithOffset(offset int) Option {
	return func(c *Codec) {
		c.offset = offset
	}
}

// WithCompressor replaces the identity compression seam.
// A nil compressor restores the identity transform.
func WithCompressor(comp Compressor) Option {
	return func(c *Codec) {
		if comp == nil {
			comp = Identity{}
		}
		c.compressor = comp
	}
}

// WithLogger sets the logger for diagnostic records.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Codec) {
		c.logger = logger
	}
}

// New creates a Codec using DefaultOffset and the identity compressor unless
// overridden.
func New(opts ...Option) *Codec {
	c := &Codec{
		offset:     DefaultOffset,
		compressor: Identity{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Offset returns the configured permutation offset.
func (c *Codec) Offset() int {
	return c.offset
}

// log returns the logger, falling back to a discard logger if nil.
func (c *Codec) log() *slog.Logger {
	if c.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.logger
}

// Encode joins paths with Separator, compresses the UTF-8 text and permutes
// the result. An empty list encodes to an empty slice.
func (c *Codec) Encode(paths []string) ([]byte, error) {
	text := strings.Join(paths, string(Separator))
	comp, err := c.compressor.Compress([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("manifest: compress: %w", err)
	}
	out := Permute(comp, c.offset)
	c.log().Debug("manifest encoded",
		"entries", len(paths),
		"offset", c.offset,
		"text_size", len(text),
		"encoded_size", len(out))
	return out, nil
}

// Decode reverses Encode. It returns an empty, non-nil list for empty input
// and for a manifest whose text is empty.
//
// The only error is ErrDecompression from a non-identity compressor; callers
// treat it like any other unreadable manifest.
func (c *Codec) Decode(data []byte) ([]string, error) {
	raw, err := c.compressor.Decompress(Unpermute(data, c.offset))
	if err != nil {
		return []string{}, fmt.Errorf("%w: %w", ErrDecompression, err)
	}
	text := decodeText(raw)
	paths := split(text)
	c.log().Debug("manifest decoded",
		"offset", c.offset,
		"encoded_size", len(data),
		"entries", len(paths),
		"digest", Digest(data).String())
	return paths, nil
}

// split cuts text on Separator, dropping the lone empty entry produced by an
// empty text.
func split(text string) []string {
	if text == "" {
		return []string{}
	}
	return strings.Split(text, string(Separator))
}

// Encode encodes paths with the identity compressor and the given offset.
func Encode(paths []string, offset int) []byte {
	return Permute([]byte(strings.Join(paths, string(Separator))), offset)
}

// Decode decodes data with the identity compressor and the given offset.
func Decode(data []byte, offset int) []string {
	return split(decodeText(Unpermute(data, offset)))
}

// Digest returns the SHA-256 digest of manifest bytes. It identifies a
// manifest in logs; it is not stored in or checked against the manifest.
func Digest(data []byte) digest.Digest {
	return digest.FromBytes(data)
}
