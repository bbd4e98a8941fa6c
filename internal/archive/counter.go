package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// CountFiles recursively counts entries under dir. By default only regular
// file entries are counted; with includeDirs set, directories count too.
// A directory that does not exist has zero revisions and is not an error.
// No content validation is performed; this is a structural check only.
func CountFiles(dir string, includeDirs bool) (int, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return 0, nil
	case err != nil:
		return 0, fmt.Errorf("stat archive directory %s: %w", dir, err)
	case !info.IsDir():
		return 0, fmt.Errorf("archive path %s is not a directory", dir)
	}

	count := 0
	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if includeDirs && path != dir {
				count++
			}
			return nil
		}
		count++
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("walk archive directory %s: %w", dir, err)
	}

	return count, nil
}
