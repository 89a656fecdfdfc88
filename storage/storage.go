// Package storage provides the native asset storage backed by a billy
// filesystem.
//
// FS answers existence, listing and read queries directly against the
// filesystem. It also satisfies the fetch channel contract, so a local
// directory can stand in for a remote bundle when exercising manifest mode.
package storage

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"

	"github.com/meigma/assets/internal/fsutil"
)

// FS is asset storage over a billy filesystem rooted at the asset root.
type FS struct {
	bfs    billy.Filesystem
	logger *slog.Logger
}

// Option configures an FS.
type Option func(*FS)

// WithLogger sets the logger for storage errors.
// If not set, logging is disabled.
func WithLogger(logger *slog.Logger) Option {
	return func(s *FS) {
		s.logger = logger
	}
}

// New wraps an existing billy filesystem.
func New(bfs billy.Filesystem, opts ...Option) *FS {
	s := &FS{bfs: bfs}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewLocal creates storage rooted at dir on the local disk.
func NewLocal(dir string, opts ...Option) *FS {
	return New(osfs.New(dir), opts...)
}

// NewMemory creates empty in-memory storage.
func NewMemory(opts ...Option) *FS {
	return New(memfs.New(), opts...)
}

// Unwrap returns the underlying billy filesystem.
func (s *FS) Unwrap() billy.Filesystem {
	return s.bfs
}

// log returns the logger, falling back to a discard logger if nil.
func (s *FS) log() *slog.Logger {
	if s.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return s.logger
}

// Exists reports whether name is an existing regular file (or a link to one).
// Stat failures, including permission errors, report false.
func (s *FS) Exists(name string) bool {
	info, err := s.bfs.Stat(clean(name))
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists reports whether name is an existing directory.
func (s *FS) DirExists(name string) bool {
	info, err := s.bfs.Stat(clean(name))
	if err != nil {
		return false
	}
	return info.IsDir()
}

// ListAll returns every file below root, recursively, in walk order.
// Paths are slash-separated and relative to the filesystem root.
func (s *FS) ListAll(root string) ([]string, error) {
	var paths []string
	err := fsutil.Walk(s.bfs, root, func(path string, info os.FileInfo) error {
		if !info.IsDir() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", root, err)
	}
	return paths, nil
}

// ReadBytes reads the whole of name.
func (s *FS) ReadBytes(name string) ([]byte, error) {
	return util.ReadFile(s.bfs, clean(name))
}

// Fetch implements the fetch channel over local storage. A leading "file://"
// scheme is stripped; the remainder is read relative to the filesystem root.
func (s *FS) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := s.ReadBytes(strings.TrimPrefix(url, "file://"))
	if err != nil {
		s.log().Debug("storage fetch failed", "url", url, "error", err)
		return nil, err
	}
	return data, nil
}

// clean converts a query path to the form billy expects.
func clean(name string) string {
	return fsutil.Clean(name)
}
