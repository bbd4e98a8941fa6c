package archive_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/wikirev/internal/archive"
	"github.com/jonesrussell/wikirev/internal/logger"
)

const examplePayload = `<mediawiki>
  <page>
    <title>Example</title>
    <revision><id>101</id><timestamp>2024-03-15T00:00:00Z</timestamp></revision>
    <revision><id>102</id><timestamp>2024-03-15T00:00:00Z</timestamp></revision>
    <revision><id>103</id><timestamp>2024-03-15T00:00:00Z</timestamp></revision>
  </page>
</mediawiki>`

// partiallyMalformedPayload has one fragment without a timestamp.
const partiallyMalformedPayload = `<mediawiki>
  <page>
    <title>Example</title>
    <revision><id>201</id><timestamp>2024-03-15T00:00:00Z</timestamp></revision>
    <revision><id>202</id></revision>
    <revision><id>203</id><timestamp>2024-03-15T00:00:00Z</timestamp></revision>
  </page>
</mediawiki>`

// stubExporter returns a canned payload or error without touching the network.
type stubExporter struct {
	payload string
	err     error
	calls   int
}

func (s *stubExporter) FetchRevisions(_ context.Context, _ string, _ int) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return s.payload, nil
}

func TestUpdate_ArchivesAllFragments(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	svc := archive.NewService(root, &stubExporter{payload: examplePayload}, logger.NewNoOp())

	result, err := svc.Update(context.Background(), "Example", 3)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 3, result.Written)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Failures)
	assert.Equal(t, 3, result.ArchiveCount)

	for _, id := range []string{"101", "102", "103"} {
		path := filepath.Join(root, "Example", "2024", "03", id+".xml")
		_, statErr := os.Stat(path)
		assert.NoError(t, statErr, "expected %s to exist", path)
	}

	// A subsequent count-only run reports the same total.
	count, err := svc.Count("Example")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestUpdate_Idempotent(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	svc := archive.NewService(root, &stubExporter{payload: examplePayload}, logger.NewNoOp())

	first, err := svc.Update(context.Background(), "Example", 3)
	require.NoError(t, err)
	require.Equal(t, 3, first.Written)

	second, err := svc.Update(context.Background(), "Example", 3)
	require.NoError(t, err)

	assert.Equal(t, 0, second.Written)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, first.ArchiveCount, second.ArchiveCount)
}

func TestUpdate_FetchFailureWritesNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	fetchErr := errors.New(`page "Example" does not exist`)
	svc := archive.NewService(root, &stubExporter{err: fetchErr}, logger.NewNoOp())

	_, err := svc.Update(context.Background(), "Example", 3)
	require.ErrorIs(t, err, fetchErr)

	count, err := svc.Count("Example")
	require.NoError(t, err)
	assert.Equal(t, 0, count, "expected count to remain at pre-run value")
}

func TestUpdate_IsolatesMalformedFragments(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	svc := archive.NewService(root, &stubExporter{payload: partiallyMalformedPayload}, logger.NewNoOp())

	result, err := svc.Update(context.Background(), "Example", 3)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Total)
	assert.Equal(t, 2, result.Written)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Index)
	assert.Error(t, result.Failures[0].Err)
	assert.Equal(t, 2, result.ArchiveCount)
}

func TestUpdate_ReportsProgress(t *testing.T) {
	t.Parallel()

	svc := archive.NewService(t.TempDir(), &stubExporter{payload: examplePayload}, logger.NewNoOp())

	var seen []int
	svc.OnFragment = func(processed int) {
		seen = append(seen, processed)
	}

	_, err := svc.Update(context.Background(), "Example", 3)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, seen)
}

func TestCount_NeverCreatesArchive(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	exporter := &stubExporter{payload: examplePayload}
	svc := archive.NewService(root, exporter, logger.NewNoOp())

	count, err := svc.Count("Example")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, exporter.calls, "count-only mode must not touch the network")

	entries, err := os.ReadDir(root)
	require.NoError(t, err)
	assert.Empty(t, entries, "count-only mode must not write")
}
