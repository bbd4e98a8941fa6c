package archive

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/jonesrussell/wikirev/internal/logger"
	"github.com/jonesrussell/wikirev/internal/revision"
)

// Exporter fetches combined revision payloads for a page.
type Exporter interface {
	FetchRevisions(ctx context.Context, title string, limit int) (string, error)
}

// FragmentFailure records one fragment the update loop could not place.
type FragmentFailure struct {
	// Index is the fragment's zero-based position in the payload.
	Index int
	// Err is the extraction failure (missing field or malformed timestamp).
	Err error
}

// UpdateResult is the partial-success surface of one update run.
type UpdateResult struct {
	// Total is the number of fragments in the fetched payload.
	Total int
	// Written is the number of new revision files created.
	Written int
	// Skipped is the number of fragments whose file already existed.
	Skipped int
	// Failures lists fragments that could not be resolved to a path.
	Failures []FragmentFailure
	// ArchiveCount is the page's file count after the run.
	ArchiveCount int
}

// Service runs per-page archival operations against a storage root.
type Service struct {
	root     string
	exporter Exporter
	log      logger.Interface

	// OnFragment, when set, is invoked after each fragment is processed
	// with the number processed so far. Used for progress reporting.
	OnFragment func(processed int)
}

// NewService creates a new archival service. The storage root is always an
// explicit parameter; there is no package-level default.
func NewService(root string, exporter Exporter, log logger.Interface) *Service {
	return &Service{
		root:     root,
		exporter: exporter,
		log:      log,
	}
}

// PageDir returns the archive directory of one page.
func (s *Service) PageDir(page string) string {
	return filepath.Join(s.root, page)
}

// Count reports the number of persisted revision files for a page. It
// touches neither the network nor the archive contents.
func (s *Service) Count(page string) (int, error) {
	return CountFiles(s.PageDir(page), false)
}

// Update fetches up to limit revisions of page and persists each fragment
// that is not already archived. A fragment whose id or timestamp cannot be
// extracted is recorded in the result and skipped; the rest of the batch
// still archives. Storage failures abort the run: a failed write must never
// pass as "already exists". Re-running Update over previously seen
// revisions is a no-op for them, so interrupted runs resume safely.
func (s *Service) Update(ctx context.Context, page string, limit int) (*UpdateResult, error) {
	s.log.Info("downloading revisions",
		"page", page,
		"limit", limit,
		"root", s.root)

	payload, err := s.exporter.FetchRevisions(ctx, page, limit)
	if err != nil {
		return nil, err
	}

	fragments, err := revision.Split(payload)
	if err != nil {
		return nil, fmt.Errorf("split export payload for %q: %w", page, err)
	}

	result := &UpdateResult{}
	for fragment := range fragments {
		index := result.Total
		result.Total++

		path, resolveErr := ResolvePath(s.root, page, fragment)
		if resolveErr != nil {
			s.log.Warn("skipping unplaceable revision fragment",
				"page", page,
				"fragment_index", index,
				"error", resolveErr)
			result.Failures = append(result.Failures, FragmentFailure{
				Index: index,
				Err:   resolveErr,
			})
			s.notify(result.Total)
			continue
		}

		written, writeErr := WriteRevision(path, fragment)
		if writeErr != nil {
			return nil, writeErr
		}
		if written {
			result.Written++
		} else {
			result.Skipped++
		}
		s.notify(result.Total)
	}

	count, err := s.Count(page)
	if err != nil {
		return nil, err
	}
	result.ArchiveCount = count

	s.log.Info("archive update finished",
		"page", page,
		"total", result.Total,
		"written", result.Written,
		"skipped", result.Skipped,
		"failed", len(result.Failures),
		"archive_count", result.ArchiveCount)

	return result, nil
}

func (s *Service) notify(processed int) {
	if s.OnFragment != nil {
		s.OnFragment(processed)
	}
}
