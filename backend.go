package assets

import (
	"bytes"
	"context"
	"slices"

	"github.com/meigma/assets/internal/pathutil"
)

// backend implements the query contract for one Mode. Callers pass the
// current session, which is never nil.
type backend interface {
	listAll(s *session) []string
	fileExists(s *session, path string) bool
	dirExists(s *session, path string) bool
	readAll(ctx context.Context, s *session, path string) ([]byte, bool)
}

// Interface compliance.
var (
	_ backend = (*manifestBackend)(nil)
	_ backend = (*nativeBackend)(nil)
)

// manifestBackend answers from the decoded manifest and reads through the
// Fetcher.
type manifestBackend struct {
	ix *Index
}

func (b *manifestBackend) listAll(s *session) []string {
	entries := s.entryList()
	if entries == nil {
		return []string{}
	}
	return slices.Clone(entries)
}

// fileExists matches path against each entry as given, then with both sides
// joined onto the root.
func (b *manifestBackend) fileExists(s *session, path string) bool {
	target := b.ix.rooted(path)
	for _, entry := range s.entryList() {
		if entry == path || b.ix.rooted(entry) == target {
			return true
		}
	}
	return false
}

func (b *manifestBackend) dirExists(s *session, path string) bool {
	switch b.ix.dirPolicy {
	case DirectoryPrefix:
		return pathutil.HasPrefix(s.entryList(), path)
	case DirectorySegment:
		return pathutil.HasChildren(s.entryList(), b.ix.relative(path))
	default:
		return false
	}
}

// readAll fetches the rooted URL. Concurrent reads of the same URL share one
// fetch, each caller receiving its own copy of the bytes. The shared fetch is
// tracked by the session, so Destroy waits for it, and is canceled once every
// caller waiting on it has given up.
func (b *manifestBackend) readAll(ctx context.Context, s *session, path string) ([]byte, bool) {
	url := b.ix.rooted(path)
	fl, ok := s.joinFlight(url)
	if !ok {
		return nil, false
	}
	defer s.leaveFlight(url, fl)

	ch := s.reads.DoChan(url, func() (any, error) {
		if !s.track() {
			return nil, ErrNotInitialized
		}
		defer s.wg.Done()
		return b.ix.fetcher.Fetch(fl.ctx, url)
	})

	select {
	case <-ctx.Done():
		b.ix.log().Debug("asset read abandoned", "url", url, "error", ctx.Err())
		return nil, false
	case res := <-ch:
		if res.Err != nil {
			b.ix.log().Warn("asset read failed", "url", url, "error", res.Err)
			return nil, false
		}
		data, _ := res.Val.([]byte)
		if data == nil {
			return []byte{}, true
		}
		return bytes.Clone(data), true
	}
}

// flight is the context shared by the callers of one in-progress fetch.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters int
}

// joinFlight registers a caller for url, creating the shared fetch context
// if none is in progress. It reports false once the session is shutting down.
func (s *session) joinFlight(url string) (*flight, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, false
	}
	fl := s.flights[url]
	if fl == nil {
		if s.flights == nil {
			s.flights = make(map[string]*flight)
		}
		ctx, cancel := context.WithCancel(s.ctx)
		fl = &flight{ctx: ctx, cancel: cancel}
		s.flights[url] = fl
	}
	fl.waiters++
	return fl, true
}

// leaveFlight unregisters a caller. The last caller out cancels the shared
// fetch and makes later reads of url start a fresh one.
func (s *session) leaveFlight(url string, fl *flight) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fl.waiters--
	if fl.waiters > 0 {
		return
	}
	fl.cancel()
	if s.flights[url] == fl {
		delete(s.flights, url)
		s.reads.Forget(url)
	}
}

// nativeBackend delegates to the Storage with root-relative paths.
type nativeBackend struct {
	ix *Index
}

func (b *nativeBackend) listAll(*session) []string {
	paths, err := b.ix.storage.ListAll("")
	if err != nil {
		b.ix.log().Warn("asset listing failed", "root", b.ix.root, "error", err)
		return []string{}
	}
	if paths == nil {
		return []string{}
	}
	return paths
}

func (b *nativeBackend) fileExists(_ *session, path string) bool {
	return b.ix.storage.Exists(b.ix.relative(path))
}

func (b *nativeBackend) dirExists(_ *session, path string) bool {
	return b.ix.storage.DirExists(b.ix.relative(path))
}

func (b *nativeBackend) readAll(ctx context.Context, _ *session, path string) ([]byte, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	rel := b.ix.relative(path)
	if !b.ix.storage.Exists(rel) {
		return nil, false
	}
	data, err := b.ix.storage.ReadBytes(rel)
	if err != nil {
		b.ix.log().Warn("asset read failed", "path", rel, "error", err)
		return nil, false
	}
	if data == nil {
		data = []byte{}
	}
	return data, true
}
