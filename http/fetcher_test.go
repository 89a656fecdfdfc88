package http_test

import (
	"context"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assetshttp "github.com/meigma/assets/http"
)

func newServer(t *testing.T, files map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		body, ok := files[strings.TrimPrefix(r.URL.Path, "/")]
		if !ok {
			nethttp.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestFetch(t *testing.T) {
	t.Parallel()

	server := newServer(t, map[string]string{
		"a/b.txt":   "hello world",
		"empty.bin": "",
	})
	f := assetshttp.NewFetcher()

	data, err := f.Fetch(context.Background(), server.URL+"/a/b.txt")
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))

	data, err = f.Fetch(context.Background(), server.URL+"/empty.bin")
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestFetchNotFound(t *testing.T) {
	t.Parallel()

	server := newServer(t, nil)
	f := assetshttp.NewFetcher()

	_, err := f.Fetch(context.Background(), server.URL+"/missing.txt")
	require.ErrorIs(t, err, assetshttp.ErrStatus)
	assert.Contains(t, err.Error(), "404")
}

func TestFetchHeaders(t *testing.T) {
	t.Parallel()

	seen := make(chan nethttp.Header, 1)
	server := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		seen <- r.Header.Clone()
		_, _ = w.Write([]byte("ok"))
	}))
	t.Cleanup(server.Close)

	headers := nethttp.Header{}
	headers.Set("X-Bundle", "v1")
	f := assetshttp.NewFetcher(
		assetshttp.WithClient(server.Client()),
		assetshttp.WithHeaders(headers),
		assetshttp.WithHeader("Authorization", "Bearer token"),
	)

	_, err := f.Fetch(context.Background(), server.URL+"/x")
	require.NoError(t, err)
	got := <-seen
	assert.Equal(t, "v1", got.Get("X-Bundle"))
	assert.Equal(t, "Bearer token", got.Get("Authorization"))
}

func TestFetchMaxBytes(t *testing.T) {
	t.Parallel()

	server := newServer(t, map[string]string{"big.bin": strings.Repeat("x", 64)})

	_, err := assetshttp.NewFetcher(assetshttp.WithMaxBytes(16)).
		Fetch(context.Background(), server.URL+"/big.bin")
	require.ErrorIs(t, err, assetshttp.ErrTooLarge)

	data, err := assetshttp.NewFetcher(assetshttp.WithMaxBytes(64)).
		Fetch(context.Background(), server.URL+"/big.bin")
	require.NoError(t, err)
	assert.Len(t, data, 64)
}

func TestFetchCanceled(t *testing.T) {
	t.Parallel()

	server := newServer(t, map[string]string{"a.txt": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := assetshttp.NewFetcher().Fetch(ctx, server.URL+"/a.txt")
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchBadURL(t *testing.T) {
	t.Parallel()

	_, err := assetshttp.NewFetcher().Fetch(context.Background(), "://bad")
	assert.Error(t, err)
}
