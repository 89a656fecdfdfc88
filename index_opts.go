package assets

import (
	"log/slog"

	"github.com/meigma/assets/manifest"
)

// Option configures an Index.
type Option func(*Index)

// defaultReadConcurrency is used by ReadMany when no WithReadConcurrency option is set.
const defaultReadConcurrency = 4

// WithPlatform sets the platform identifier passed to the capability check
// (default: the running GOOS). Ignored when WithMode is also given.
func WithPlatform(id string) Option {
	return func(ix *Index) {
		ix.platform = id
	}
}

// WithMode forces the mode, bypassing the platform capability check.
func WithMode(mode Mode) Option {
	return func(ix *Index) {
		ix.mode = mode
		ix.modeSet = true
	}
}

// WithRoot sets the asset root. In manifest mode it is the URL prefix the
// manifest and every file are fetched under; in native mode it is the prefix
// stripped from absolute query paths before they reach the Storage.
func WithRoot(root string) Option {
	return func(ix *Index) {
		ix.root = root
	}
}

// WithFetcher sets the fetch channel used in manifest mode.
func WithFetcher(f Fetcher) Option {
	return func(ix *Index) {
		ix.fetcher = f
	}
}

// WithStorage sets the storage used in native mode.
func WithStorage(s Storage) Option {
	return func(ix *Index) {
		ix.storage = s
	}
}

// WithManifestName sets the manifest file name relative to the root
// (default: manifest.DefaultFileName).
func WithManifestName(name string) Option {
	return func(ix *Index) {
		ix.manifestName = name
	}
}

// WithOffset sets the manifest permutation offset (default:
// manifest.DefaultOffset). It must match the offset used at generation.
func WithOffset(offset int) Option {
	return func(ix *Index) {
		ix.codecOpts = append(ix.codecOpts, manifest.WithOffset(offset))
	}
}

// WithCompressor replaces the manifest compression seam.
func WithCompressor(c manifest.Compressor) Option {
	return func(ix *Index) {
		ix.codecOpts = append(ix.codecOpts, manifest.WithCompressor(c))
	}
}

// WithDirectoryPolicy sets how DirectoryExists answers in manifest mode
// (default: DirectoryPrefix).
func WithDirectoryPolicy(p DirectoryPolicy) Option {
	return func(ix *Index) {
		ix.dirPolicy = p
	}
}

// WithReadConcurrency limits the concurrent reads issued by ReadMany.
// Values < 1 use the default (4).
func WithReadConcurrency(n int) Option {
	return func(ix *Index) {
		ix.readConcurrency = n
	}
}

// WithLogger sets the logger for index operations.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(ix *Index) {
		ix.logger = logger
	}
}
