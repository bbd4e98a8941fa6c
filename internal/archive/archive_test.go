package archive_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/jonesrussell/wikirev/internal/archive"
	"github.com/jonesrussell/wikirev/internal/revision"
)

const sampleFragment = `<revision>
  <id>101</id>
  <timestamp>2024-03-15T00:00:00Z</timestamp>
  <text>hello world</text>
</revision>`

const noIDFragment = `<revision>
  <timestamp>2024-03-15T00:00:00Z</timestamp>
</revision>`

func TestResolvePath(t *testing.T) {
	t.Parallel()

	path, err := archive.ResolvePath("data", "Example", sampleFragment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := filepath.Join("data", "Example", "2024", "03", "101.xml")
	if path != want {
		t.Fatalf("expected %s, got %s", want, path)
	}
}

func TestResolvePath_Deterministic(t *testing.T) {
	t.Parallel()

	first, err := archive.ResolvePath("data", "Example", sampleFragment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for range 10 {
		path, resolveErr := archive.ResolvePath("data", "Example", sampleFragment)
		if resolveErr != nil {
			t.Fatalf("unexpected error: %v", resolveErr)
		}
		if path != first {
			t.Fatalf("path changed between invocations: %s != %s", path, first)
		}
	}
}

func TestResolvePath_PropagatesExtractorErrors(t *testing.T) {
	t.Parallel()

	_, err := archive.ResolvePath("data", "Example", noIDFragment)

	var missing *revision.MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %T: %v", err, err)
	}
	if missing.Field != "id" {
		t.Fatalf("expected id field in error, got %q", missing.Field)
	}
}

func TestWriteRevision_CreatesPartitions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "Example", "2024", "03", "101.xml")

	written, err := archive.WriteRevision(path, sampleFragment)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !written {
		t.Fatal("expected first write to create the file")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected revision file to exist: %v", err)
	}
	if string(content) != sampleFragment {
		t.Fatal("expected fragment text to be written verbatim")
	}
}

func TestWriteRevision_FirstWriteWins(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "Example", "2024", "03", "101.xml")

	if _, err := archive.WriteRevision(path, sampleFragment); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	written, err := archive.WriteRevision(path, "<revision>amended</revision>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if written {
		t.Fatal("expected repeated write to be skipped")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(content) != sampleFragment {
		t.Fatal("expected the first written content to be kept")
	}
}

func TestCountFiles_MissingDirectory(t *testing.T) {
	t.Parallel()

	count, err := archive.CountFiles(filepath.Join(t.TempDir(), "never-created"), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 for missing directory, got %d", count)
	}
}

func TestCountFiles_EmptyDirectory(t *testing.T) {
	t.Parallel()

	count, err := archive.CountFiles(t.TempDir(), false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 for empty directory, got %d", count)
	}
}

func TestCountFiles_CountsFilesNotDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, name := range []string{"2024/03/101.xml", "2024/03/102.xml", "2024/04/103.xml"} {
		path := filepath.Join(root, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := os.WriteFile(path, []byte(sampleFragment), 0o644); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	count, err := archive.CountFiles(root, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 files, got %d", count)
	}

	// With directories included, the two year/month levels count too.
	withDirs, err := archive.CountFiles(root, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withDirs != 6 {
		t.Fatalf("expected 6 entries with directories, got %d", withDirs)
	}
}
