// Package fsutil provides tree walking over billy filesystems.
package fsutil

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/go-git/go-billy/v5"
)

// WalkFunc is called for every file and directory below the walk root.
// Returning fs.SkipDir from a directory skips its children; fs.SkipAll stops
// the walk without error.
type WalkFunc func(path string, info os.FileInfo) error

// Walk visits the tree rooted at root in lexical order. The root itself is not
// passed to fn. Paths passed to fn are slash-separated and joined onto root,
// except that a root of "" or "." yields paths relative to the filesystem root.
func Walk(fsys billy.Filesystem, root string, fn WalkFunc) error {
	root = Clean(root)
	info, err := fsys.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &fs.PathError{Op: "walk", Path: root, Err: errors.New("not a directory")}
	}
	err = walk(fsys, root, fn)
	if errors.Is(err, fs.SkipAll) {
		return nil
	}
	return err
}

func walk(fsys billy.Filesystem, dir string, fn WalkFunc) error {
	infos, err := fsys.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, info := range infos {
		path := Join(dir, info.Name())
		err := fn(path, info)
		if info.IsDir() {
			if errors.Is(err, fs.SkipDir) {
				continue
			}
			if err != nil {
				return err
			}
			if err := walk(fsys, path, fn); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Join joins name onto dir, treating "." as the filesystem root.
func Join(dir, name string) string {
	if dir == "." {
		return name
	}
	return dir + "/" + name
}

// Clean normalizes a walk root: backslashes become slashes, surrounding
// slashes are trimmed and an empty result becomes ".".
func Clean(root string) string {
	root = strings.Trim(strings.ReplaceAll(root, `\`, "/"), "/")
	if root == "" {
		return "."
	}
	return root
}
