package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// WriteRevision persists a fragment's exact text at path, creating missing
// partition directories. An existing path is a no-op skip (written=false):
// the archive never overwrites a revision once written. Stat and write
// failures are returned as errors, never conflated with the skip case.
func WriteRevision(path, fragment string) (written bool, err error) {
	_, err = os.Stat(path)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, fs.ErrNotExist):
		return false, fmt.Errorf("stat revision file %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return false, fmt.Errorf("create archive partitions for %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(fragment), filePerm); err != nil {
		return false, fmt.Errorf("write revision file %s: %w", path, err)
	}

	return true, nil
}
