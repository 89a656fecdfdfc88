package pathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirPrefix(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"":      "",
		".":     "",
		"/":     "",
		"a":     "a/",
		"a/":    "a/",
		"a//":   "a/",
		"a/b":   "a/b/",
		"a/b/c": "a/b/c/",
	}
	for in, want := range tests {
		assert.Equal(t, want, DirPrefix(in), "DirPrefix(%q)", in)
	}
}

func TestHasPrefix(t *testing.T) {
	t.Parallel()

	paths := []string{"abc/file.txt", "x/y.txt"}
	assert.True(t, HasPrefix(paths, "ab"))
	assert.True(t, HasPrefix(paths, "abc/"))
	assert.True(t, HasPrefix(paths, "x/y.txt"))
	assert.True(t, HasPrefix(paths, ""))
	assert.False(t, HasPrefix(paths, "b"))
	assert.False(t, HasPrefix(nil, ""))
}

func TestHasChildren(t *testing.T) {
	t.Parallel()

	paths := []string{"abc/file.txt", "x/y/z.txt"}
	assert.False(t, HasChildren(paths, "ab"))
	assert.True(t, HasChildren(paths, "abc"))
	assert.True(t, HasChildren(paths, "abc/"))
	assert.True(t, HasChildren(paths, "x"))
	assert.True(t, HasChildren(paths, "x/y"))
	assert.False(t, HasChildren(paths, "x/y/z.txt"))
	assert.True(t, HasChildren(paths, ""))
	assert.False(t, HasChildren(nil, ""))
}
