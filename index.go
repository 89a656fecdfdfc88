package assets

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/meigma/assets/manifest"
	"github.com/meigma/assets/platform"
)

// Index is the single point of query for an asset bundle.
//
// An Index is constructed once, initialized with Init, queried from any
// number of goroutines, and torn down with Destroy. Queries made before Init,
// before the manifest has loaded, or after Destroy return false or empty
// results rather than failing; use IsReady or Wait when the complete answer
// matters.
type Index struct {
	mode            Mode
	modeSet         bool
	platform        string
	root            string
	manifestName    string
	codecOpts       []manifest.Option
	codec           *manifest.Codec
	fetcher         Fetcher
	storage         Storage
	dirPolicy       DirectoryPolicy
	readConcurrency int
	logger          *slog.Logger
	backend         backend

	mu      sync.Mutex // serializes Init and Destroy
	current atomic.Pointer[session]
}

// session is the state of one Init..Destroy cycle.
type session struct {
	ctx    context.Context
	cancel context.CancelFunc
	ready  chan struct{}

	// entries is swapped in once, whole; never mutated in place.
	entries atomic.Pointer[[]string]
	// loadErr is written before ready is closed.
	loadErr error

	reads singleflight.Group

	mu      sync.Mutex
	closed  bool
	flights map[string]*flight // guarded by mu
	wg      sync.WaitGroup
}

// New creates an Index. The mode comes from WithMode if given, otherwise from
// the platform capability check. Manifest mode requires WithFetcher and
// native mode requires WithStorage.
func New(opts ...Option) (*Index, error) {
	ix := &Index{
		platform:        platform.Current(),
		manifestName:    manifest.DefaultFileName,
		readConcurrency: defaultReadConcurrency,
	}
	for _, opt := range opts {
		opt(ix)
	}
	if !ix.modeSet {
		ix.mode = ModeNative
		if platform.RequiresManifest(ix.platform) {
			ix.mode = ModeManifest
		}
	}
	if ix.readConcurrency < 1 {
		ix.readConcurrency = defaultReadConcurrency
	}
	ix.root = strings.TrimRight(ix.root, "/")

	switch ix.mode {
	case ModeManifest:
		if ix.fetcher == nil {
			return nil, ErrNoFetcher
		}
		ix.codec = manifest.New(append([]manifest.Option{manifest.WithLogger(ix.logger)}, ix.codecOpts...)...)
		ix.backend = &manifestBackend{ix: ix}
	case ModeNative:
		if ix.storage == nil {
			return nil, ErrNoStorage
		}
		ix.backend = &nativeBackend{ix: ix}
	default:
		return nil, fmt.Errorf("assets: unknown mode %d", ix.mode)
	}
	return ix, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (ix *Index) log() *slog.Logger {
	if ix.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return ix.logger
}

// Mode returns the mode selected at construction.
func (ix *Index) Mode() Mode {
	return ix.mode
}

// Root returns the asset root.
func (ix *Index) Root() string {
	return ix.root
}

// Init starts an Init..Destroy cycle.
//
// In native mode the Index is ready when Init returns. In manifest mode Init
// starts fetching and decoding the manifest in the background and returns
// immediately; the Index becomes ready once the load finishes, whether it
// succeeded or degraded to an empty listing. The load is bound to the Index,
// not to ctx: it is canceled by Destroy only. Values carried by ctx are kept.
func (ix *Index) Init(ctx context.Context) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	if ix.current.Load() != nil {
		return ErrAlreadyInitialized
	}

	sctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s := &session{
		ctx:    sctx,
		cancel: cancel,
		ready:  make(chan struct{}),
	}
	ix.current.Store(s)
	ix.log().Info("initializing asset index", "mode", ix.mode.String(), "root", ix.root)

	if ix.mode == ModeNative {
		close(s.ready)
		return nil
	}
	s.spawn(func() { ix.load(s) })
	return nil
}

// load fetches and decodes the manifest, installing the result or an empty
// listing, then marks the session ready.
func (ix *Index) load(s *session) {
	url := ix.rooted(ix.manifestName)
	paths, err := ix.fetchManifest(s.ctx, url)
	if err != nil {
		s.loadErr = fmt.Errorf("%w: %w", ErrManifestUnavailable, err)
		ix.log().Warn("manifest unavailable, continuing with no entries", "url", url, "error", err)
	}
	s.entries.Store(&paths)
	close(s.ready)
	ix.log().Info("asset index ready", "mode", ix.mode.String(), "entries", len(paths))
}

// fetchManifest always returns a non-nil list, empty on error.
func (ix *Index) fetchManifest(ctx context.Context, url string) ([]string, error) {
	data, err := ix.fetcher.Fetch(ctx, url)
	if err != nil {
		return []string{}, err
	}
	paths, err := ix.codec.Decode(data)
	if err != nil {
		return []string{}, err
	}
	return paths, nil
}

// IsReady reports whether initialization has completed, including when the
// manifest degraded to an empty listing.
func (ix *Index) IsReady() bool {
	s := ix.current.Load()
	if s == nil {
		return false
	}
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// Ready returns a channel closed once the current initialization completes.
// Before Init and after Destroy it returns nil, which never becomes ready.
func (ix *Index) Ready() <-chan struct{} {
	s := ix.current.Load()
	if s == nil {
		return nil
	}
	return s.ready
}

// Wait blocks until the Index is ready or ctx is done.
// It returns ErrNotInitialized if Init has not been called.
func (ix *Index) Wait(ctx context.Context) error {
	s := ix.current.Load()
	if s == nil {
		return ErrNotInitialized
	}
	select {
	case <-s.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// LoadErr reports why the manifest degraded to an empty listing. It returns
// nil while loading, after a successful load, and in native mode. Errors
// match ErrManifestUnavailable.
func (ix *Index) LoadErr() error {
	s := ix.current.Load()
	if s == nil {
		return nil
	}
	select {
	case <-s.ready:
		return s.loadErr
	default:
		return nil
	}
}

// ListAllPaths returns every known asset path, relative to the root.
//
// In manifest mode it returns a copy of the manifest entries in manifest
// order. In native mode it lists the storage recursively in storage order.
// The caller owns the returned slice.
func (ix *Index) ListAllPaths() []string {
	s := ix.current.Load()
	if s == nil {
		return []string{}
	}
	return ix.backend.listAll(s)
}

// FileExists reports whether path names an asset file. Paths may be relative
// to the root or already joined onto it. Comparison is exact and
// case-sensitive.
func (ix *Index) FileExists(path string) bool {
	s := ix.current.Load()
	if s == nil {
		return false
	}
	return ix.backend.fileExists(s, path)
}

// DirectoryExists reports whether path names a directory of assets. In
// manifest mode the answer follows the configured DirectoryPolicy.
func (ix *Index) DirectoryExists(path string) bool {
	s := ix.current.Load()
	if s == nil {
		return false
	}
	return ix.backend.dirExists(s, path)
}

// ReadAllBytes reads the whole asset at path. It returns ok == false when the
// asset does not exist or cannot be read; the failure is logged. An existing
// empty asset returns a non-nil empty slice with ok == true.
//
// Calls are independent and may run concurrently. Each caller receives its
// own slice. In manifest mode concurrent reads of one path share a single
// fetch; it is canceled when every caller has returned or on Destroy.
func (ix *Index) ReadAllBytes(ctx context.Context, path string) (data []byte, ok bool) {
	s := ix.current.Load()
	if s == nil {
		return nil, false
	}
	return ix.backend.readAll(ctx, s, path)
}

// ReadAllBytesFunc reads path in the background and passes the result of
// ReadAllBytes to fn. The read is canceled when ctx is done or the Index is
// destroyed; fn is still called, with ok == false.
//
// fn runs on its own goroutine and must not call Destroy.
func (ix *Index) ReadAllBytesFunc(ctx context.Context, path string, fn func(data []byte, ok bool)) {
	s := ix.current.Load()
	if s == nil {
		fn(nil, false)
		return
	}
	started := s.spawn(func() {
		rctx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(s.ctx, cancel)
		defer stop()
		fn(ix.backend.readAll(rctx, s, path))
	})
	if !started {
		fn(nil, false)
	}
}

// ReadMany reads several assets concurrently and returns the contents of the
// ones that could be read, keyed by the requested path.
func (ix *Index) ReadMany(ctx context.Context, paths []string) map[string][]byte {
	out := make(map[string][]byte, len(paths))
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(ix.readConcurrency)
	for _, p := range paths {
		g.Go(func() error {
			data, ok := ix.ReadAllBytes(ctx, p)
			if !ok {
				return nil
			}
			mu.Lock()
			out[p] = data
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Destroy cancels in-flight work owned by the Index, waits for it to stop and
// clears all state. A later Init starts a fresh cycle. Destroy on an Index
// that is not initialized is a no-op.
func (ix *Index) Destroy() {
	ix.mu.Lock()
	defer ix.mu.Unlock()

	s := ix.current.Swap(nil)
	if s == nil {
		return
	}
	s.shutdown()
	ix.log().Debug("asset index destroyed", "mode", ix.mode.String())
}

// spawn runs f on a goroutine tracked by the session. It reports false, and
// does not run f, once the session is shutting down.
func (s *session) spawn(f func()) bool {
	if !s.track() {
		return false
	}
	go func() {
		defer s.wg.Done()
		f()
	}()
	return true
}

// track registers one unit of work with the session, which shutdown waits
// for. The caller must call s.wg.Done when it finishes. It reports false once
// the session is shutting down.
func (s *session) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

func (s *session) shutdown() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.cancel()
	s.wg.Wait()
}

// entryList returns the installed entries, or nil before the manifest loads.
func (s *session) entryList() []string {
	p := s.entries.Load()
	if p == nil {
		return nil
	}
	return *p
}
