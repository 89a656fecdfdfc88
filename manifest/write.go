package manifest

import (
	"errors"
	"io/fs"
	"path"

	"github.com/go-git/go-billy/v5"
)

func removeIfExists(fsys billy.Filesystem, name string) error {
	if _, err := fsys.Stat(name); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return fsys.Remove(name)
}

// writeFileAtomic writes data to a temp file then renames to target,
// ensuring atomic replacement of the target file.
func writeFileAtomic(fsys billy.Filesystem, target string, data []byte) error {
	tmp, err := fsys.TempFile(path.Dir(target), ".manifest-")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		fsys.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		fsys.Remove(tmpPath)
		return err
	}
	if err := fsys.Rename(tmpPath, target); err != nil {
		fsys.Remove(tmpPath)
		return err
	}
	return nil
}
