package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"slices"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/opencontainers/go-digest"

	"github.com/meigma/assets/internal/fsutil"
)

// Sentinel errors returned by Generate. Generation runs at build time, so
// unlike the runtime query path it fails loudly.
var (
	// ErrRemoveManifest is returned when an existing manifest cannot be removed.
	ErrRemoveManifest = errors.New("manifest: remove existing manifest")

	// ErrWriteManifest is returned when the new manifest cannot be written.
	ErrWriteManifest = errors.New("manifest: write manifest")

	// ErrRoundTrip is returned when the encoded manifest does not decode back
	// to the generated path list.
	ErrRoundTrip = errors.New("manifest: encoded manifest does not round-trip")
)

// Result describes a generated manifest.
type Result struct {
	// Path is the manifest location within the generated filesystem.
	Path string
	// Paths are the listed entries, sorted.
	Paths []string
	// Size is the encoded manifest size in bytes.
	Size int
	// Digest identifies the encoded manifest bytes.
	Digest digest.Digest
	// Written is false when the listing was empty and no file was written.
	Written bool
}

// GenerateOption configures Generate.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	root     string
	fileName string
	codecOps []Option
	logger   *slog.Logger
}

// GenerateWithRoot sets the asset root within the filesystem (default ".").
func GenerateWithRoot(root string) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.root = root
	}
}

// GenerateWithFileName sets the manifest file name (default DefaultFileName).
func GenerateWithFileName(name string) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.fileName = name
	}
}

// GenerateWithCodec passes options through to the Codec used for encoding.
func GenerateWithCodec(opts ...Option) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.codecOps = append(cfg.codecOps, opts...)
	}
}

// GenerateWithLogger sets the logger for generation.
func GenerateWithLogger(logger *slog.Logger) GenerateOption {
	return func(cfg *generateConfig) {
		cfg.logger = logger
	}
}

// Generate lists every file below the asset root and writes the encoded
// manifest to <root>/<file name>.
//
// The listing excludes the manifest itself, SidecarExt files, and hidden
// files and directories (names starting with "."). Paths are relative to the
// root, slash-separated and sorted. An existing manifest is removed first;
// when the listing is empty no new manifest is written.
func Generate(ctx context.Context, fsys billy.Filesystem, opts ...GenerateOption) (Result, error) {
	cfg := generateConfig{
		root:     ".",
		fileName: DefaultFileName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := cfg.logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	root := fsutil.Clean(cfg.root)
	codec := New(append([]Option{WithLogger(logger)}, cfg.codecOps...)...)

	paths, err := collect(ctx, fsys, root, cfg.fileName)
	if err != nil {
		return Result{}, err
	}

	data, err := codec.Encode(paths)
	if err != nil {
		return Result{}, err
	}
	decoded, err := codec.Decode(data)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrRoundTrip, err)
	}
	if !slices.Equal(decoded, paths) {
		return Result{}, ErrRoundTrip
	}

	res := Result{
		Path:   fsutil.Join(root, cfg.fileName),
		Paths:  paths,
		Size:   len(data),
		Digest: Digest(data),
	}

	if err := removeIfExists(fsys, res.Path); err != nil {
		return Result{}, fmt.Errorf("%w %s: %w", ErrRemoveManifest, res.Path, err)
	}
	if len(data) > 0 {
		if err := writeFileAtomic(fsys, res.Path, data); err != nil {
			return Result{}, fmt.Errorf("%w %s: %w", ErrWriteManifest, res.Path, err)
		}
		res.Written = true
	}

	logger.Info("manifest generated",
		"path", res.Path,
		"entries", len(paths),
		"offset", codec.Offset(),
		"size", res.Size,
		"digest", res.Digest.String(),
		"written", res.Written)
	return res, nil
}

// collect walks root and returns the sorted manifest entries.
func collect(ctx context.Context, fsys billy.Filesystem, root, fileName string) ([]string, error) {
	paths := make([]string, 0, 256)
	err := fsutil.Walk(fsys, root, func(p string, info os.FileInfo) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := info.Name()
		if strings.HasPrefix(name, ".") {
			if info.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}
		if name == fileName || path.Ext(name) == SidecarExt {
			return nil
		}
		paths = append(paths, relative(root, p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.Sort(paths)
	return paths, nil
}

func relative(root, p string) string {
	if root == "." {
		return p
	}
	return strings.TrimPrefix(p, root+"/")
}
