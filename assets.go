package assets

import (
	"context"
	"fmt"
	"strings"
)

// Fetcher is the request/response channel used in manifest mode for the
// manifest and for every file read.
//
// Implementations exist for HTTP ([github.com/meigma/assets/http]), S3
// compatible object stores ([github.com/meigma/assets/objstore]) and local
// storage ([github.com/meigma/assets/storage]). Implementations must be safe
// for concurrent use.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// Storage is the direct storage used in native mode. Paths are relative to
// the asset root.
//
// Implementations must be safe for concurrent use.
type Storage interface {
	// Exists reports whether path is an existing file.
	Exists(path string) bool
	// DirExists reports whether path is an existing directory.
	DirExists(path string) bool
	// ListAll returns every file below root, recursively.
	ListAll(root string) ([]string, error)
	// ReadBytes reads the whole file.
	ReadBytes(path string) ([]byte, error)
}

// Mode selects where an Index answers queries from.
type Mode int

const (
	// ModeNative delegates every query to a Storage.
	ModeNative Mode = iota
	// ModeManifest answers from a fetched manifest and reads through a Fetcher.
	ModeManifest
)

// String returns a string representation of the Mode.
func (m Mode) String() string {
	switch m {
	case ModeNative:
		return "native"
	case ModeManifest:
		return "manifest"
	default:
		return "unknown"
	}
}

// ParseMode parses "native" or "manifest".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "native":
		return ModeNative, nil
	case "manifest":
		return ModeManifest, nil
	default:
		return 0, fmt.Errorf("assets: unknown mode %q", s)
	}
}

// DirectoryPolicy controls DirectoryExists in manifest mode. Native mode
// always asks the Storage.
type DirectoryPolicy int

const (
	// DirectoryPrefix reports true when any entry starts with the queried
	// path, byte for byte. It ignores segment boundaries, so "ab" matches an
	// entry "abc/file". This is the default.
	DirectoryPrefix DirectoryPolicy = iota
	// DirectorySegment reports true when any entry lies below the queried
	// path as a whole directory segment.
	DirectorySegment
	// DirectoryUnsupported always reports false: the manifest lists files only.
	DirectoryUnsupported
)

// String returns a string representation of the DirectoryPolicy.
func (p DirectoryPolicy) String() string {
	switch p {
	case DirectoryPrefix:
		return "prefix"
	case DirectorySegment:
		return "segment"
	case DirectoryUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// ParseDirectoryPolicy parses "prefix", "segment" or "unsupported".
func ParseDirectoryPolicy(s string) (DirectoryPolicy, error) {
	switch strings.ToLower(s) {
	case "prefix", "":
		return DirectoryPrefix, nil
	case "segment":
		return DirectorySegment, nil
	case "unsupported":
		return DirectoryUnsupported, nil
	default:
		return 0, fmt.Errorf("assets: unknown directory policy %q", s)
	}
}
