package manifest

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(tb testing.TB, fsys billy.Filesystem, files map[string]string) {
	tb.Helper()
	for name, content := range files {
		require.NoError(tb, util.WriteFile(fsys, name, []byte(content), 0o644), "write %s", name)
	}
}

func TestGenerate(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"b.txt":                       "b",
		"a/c.txt":                     "c",
		"a/c.txt.meta":                "sidecar",
		"a.meta":                      "sidecar",
		DefaultFileName:               "stale manifest",
		"sub/deep/" + DefaultFileName: "same name, nested",
		".hidden":                     "hidden",
		".git/config":                 "hidden dir",
		"sub/.DS_Store":               "hidden",
		"sub/deep/z.bin":              "z",
	})

	res, err := Generate(context.Background(), fsys)
	require.NoError(t, err)

	want := []string{"a/c.txt", "b.txt", "sub/deep/z.bin"}
	assert.Equal(t, want, res.Paths)
	assert.True(t, res.Written)
	assert.Equal(t, DefaultFileName, res.Path)

	data, err := util.ReadFile(fsys, DefaultFileName)
	require.NoError(t, err)
	assert.Equal(t, res.Size, len(data))
	assert.Equal(t, Digest(data), res.Digest)
	assert.Equal(t, want, Decode(data, DefaultOffset))
}

func TestGenerateReproducible(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"z.txt":   "z",
		"m/n.txt": "n",
		"a.txt":   "a",
	})

	first, err := Generate(context.Background(), fsys)
	require.NoError(t, err)
	second, err := Generate(context.Background(), fsys)
	require.NoError(t, err)

	assert.Equal(t, first.Digest, second.Digest)
	assert.Equal(t, first.Paths, second.Paths)
}

func TestGenerateEmptyRemovesStaleManifest(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		DefaultFileName: "stale",
		"only.meta":     "sidecar",
	})

	res, err := Generate(context.Background(), fsys)
	require.NoError(t, err)
	assert.False(t, res.Written)
	assert.Empty(t, res.Paths)
	assert.Equal(t, 0, res.Size)

	_, err = fsys.Stat(DefaultFileName)
	assert.Error(t, err, "stale manifest should be removed")
}

func TestGenerateOptions(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{
		"assets/one.txt":       "1",
		"assets/two/three.txt": "3",
		"outside.txt":          "x",
	})

	res, err := Generate(context.Background(), fsys,
		GenerateWithRoot("assets"),
		GenerateWithFileName("index.bin"),
		GenerateWithCodec(WithOffset(0)),
	)
	require.NoError(t, err)
	assert.Equal(t, "assets/index.bin", res.Path)
	assert.Equal(t, []string{"one.txt", "two/three.txt"}, res.Paths)

	data, err := util.ReadFile(fsys, "assets/index.bin")
	require.NoError(t, err)
	assert.Equal(t, "one.txt\ntwo/three.txt", string(data))
}

func TestGenerateCanceled(t *testing.T) {
	t.Parallel()

	fsys := memfs.New()
	writeFiles(t, fsys, map[string]string{"a.txt": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Generate(ctx, fsys)
	require.ErrorIs(t, err, context.Canceled)
}

func TestGenerateMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := Generate(context.Background(), memfs.New(), GenerateWithRoot("missing"))
	require.Error(t, err)
}
