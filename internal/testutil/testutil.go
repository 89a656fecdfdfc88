// Package testutil provides in-memory collaborators for asset index tests.
package testutil

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/meigma/assets/manifest"
)

// ErrNotFound is returned by MapFetcher for unknown URLs.
var ErrNotFound = errors.New("testutil: not found")

// MapFetcher implements a concurrency-safe in-memory fetch channel.
type MapFetcher struct {
	mu    sync.Mutex
	data  map[string][]byte
	calls map[string]int
}

// NewMapFetcher returns a fetcher serving the given URL to content map.
func NewMapFetcher(files map[string][]byte) *MapFetcher {
	data := make(map[string][]byte, len(files))
	for url, content := range files {
		data[url] = bytes.Clone(content)
	}
	return &MapFetcher{data: data, calls: make(map[string]int)}
}

// NewManifestFetcher returns a fetcher serving an encoded manifest of paths at
// root/manifest.DefaultFileName plus the given files under root.
func NewManifestFetcher(root string, offset int, paths []string, files map[string][]byte) *MapFetcher {
	f := NewMapFetcher(nil)
	f.Set(join(root, manifest.DefaultFileName), manifest.Encode(paths, offset))
	for name, content := range files {
		f.Set(join(root, name), content)
	}
	return f
}

// Set stores content at url.
func (m *MapFetcher) Set(url string, content []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[url] = bytes.Clone(content)
}

// Calls returns how many times url was fetched.
func (m *MapFetcher) Calls(url string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[url]
}

// Fetch returns a copy of the content stored at url.
func (m *MapFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[url]++
	content, ok := m.data[url]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, url)
	}
	return bytes.Clone(content), nil
}

// Fetcher mirrors assets.Fetcher without importing it.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// GatedFetcher holds every Fetch until Release is called or the request
// context is done.
type GatedFetcher struct {
	next    Fetcher
	gate    chan struct{}
	once    sync.Once
	started chan string
}

// NewGatedFetcher wraps next. Started receives each URL as its fetch begins.
func NewGatedFetcher(next Fetcher) *GatedFetcher {
	return &GatedFetcher{
		next:    next,
		gate:    make(chan struct{}),
		started: make(chan string, 64),
	}
}

// Release lets held and future fetches proceed.
func (g *GatedFetcher) Release() {
	g.once.Do(func() { close(g.gate) })
}

// Started receives the URL of each fetch as it begins waiting on the gate.
func (g *GatedFetcher) Started() <-chan string {
	return g.started
}

// Fetch waits for Release, then delegates.
func (g *GatedFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	select {
	case g.started <- url:
	default:
	}
	select {
	case <-g.gate:
		return g.next.Fetch(ctx, url)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// BlockingFetcher holds every Fetch until the request context is done, then
// keeps running for Linger before returning the context error.
type BlockingFetcher struct {
	Linger time.Duration

	active  atomic.Int32
	once    sync.Once
	started chan string
}

// Started receives the URL of each fetch as it begins.
func (b *BlockingFetcher) Started() <-chan string {
	b.init()
	return b.started
}

// Active returns the number of fetches that have not returned yet.
func (b *BlockingFetcher) Active() int {
	return int(b.active.Load())
}

// Fetch blocks until ctx is done.
func (b *BlockingFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	b.init()
	b.active.Add(1)
	defer b.active.Add(-1)
	select {
	case b.started <- url:
	default:
	}
	<-ctx.Done()
	time.Sleep(b.Linger)
	return nil, ctx.Err()
}

func (b *BlockingFetcher) init() {
	b.once.Do(func() { b.started = make(chan string, 64) })
}

// FailingFetcher fails every fetch with Err.
type FailingFetcher struct {
	Err error
}

// Fetch returns f.Err.
func (f FailingFetcher) Fetch(context.Context, string) ([]byte, error) {
	return nil, f.Err
}

func join(root, name string) string {
	if root == "" {
		return name
	}
	return root + "/" + name
}
