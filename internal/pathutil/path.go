// Package pathutil provides matching helpers for slash-separated asset paths.
package pathutil

import "strings"

// DirPrefix converts a directory path to its child prefix form.
// For "" or ".", returns "" (empty prefix matches all).
// For other paths, trailing slashes are collapsed and one "/" is appended.
func DirPrefix(name string) string {
	name = strings.TrimRight(name, "/")
	if name == "" || name == "." {
		return ""
	}
	return name + "/"
}

// HasPrefix reports whether any path starts with prefix, byte for byte.
// It does not respect segment boundaries: "ab" matches "abc/file".
func HasPrefix(paths []string, prefix string) bool {
	for _, p := range paths {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	return false
}

// HasChildren reports whether any path lies below the directory dir, matching
// whole segments only: "ab" matches "ab/file" but not "abc/file".
func HasChildren(paths []string, dir string) bool {
	return HasPrefix(paths, DirPrefix(dir))
}
