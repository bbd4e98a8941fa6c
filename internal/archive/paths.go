// Package archive persists revision fragments into a date-partitioned
// on-disk layout and orchestrates per-page archival runs.
package archive

import (
	"path/filepath"

	"github.com/jonesrussell/wikirev/internal/revision"
)

// FragmentExt is the file extension for persisted revision fragments.
const FragmentExt = ".xml"

// ResolvePath computes the deterministic storage path
// root/<page>/<YYYY>/<MM>/<id>.xml for one revision fragment. The year and
// month come from the fragment's timestamp as reported by the source; no
// zone conversion is performed. Extractor failures propagate unchanged.
func ResolvePath(root, page, fragment string) (string, error) {
	id, err := revision.ExtractID(fragment)
	if err != nil {
		return "", err
	}

	ts, err := revision.ExtractTimestamp(fragment)
	if err != nil {
		return "", err
	}

	return filepath.Join(root, page, ts.Format("2006"), ts.Format("01"), id+FragmentExt), nil
}
