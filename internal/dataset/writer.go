package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"
)

// OutputPath names the combined table file after the archive root's base
// name, placed in outDir.
func OutputPath(root, outDir string) string {
	return filepath.Join(outDir, filepath.Base(filepath.Clean(root))+".parquet")
}

// WriteParquet writes the combined table to a parquet file at path,
// creating the output directory if needed.
func WriteParquet(path string, records []Record) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory for %s: %w", path, err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file %s: %w", path, err)
	}

	w := parquet.NewGenericWriter[Record](f)
	if _, err := w.Write(records); err != nil {
		f.Close()
		return fmt.Errorf("write dataset rows: %w", err)
	}
	if err := w.Close(); err != nil {
		f.Close()
		return fmt.Errorf("finalize dataset file: %w", err)
	}

	return f.Close()
}
