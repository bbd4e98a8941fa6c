package dataset

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/jonesrussell/wikirev/internal/archive"
	"github.com/jonesrussell/wikirev/internal/logger"
	"github.com/jonesrussell/wikirev/internal/revision"
)

// DefaultBatchSize is the number of revision files processed per batch.
const DefaultBatchSize = 1000

// Config holds table builder configuration.
type Config struct {
	BatchSize   int  `yaml:"batch_size"`
	IncludeText bool `yaml:"include_text"`
}

// WithDefaults returns a copy of the config with default values applied for
// zero-value fields.
func (c Config) WithDefaults() Config {
	if c.BatchSize <= 0 {
		c.BatchSize = DefaultBatchSize
	}
	return c
}

// Builder re-reads a revision archive and accumulates it into tables.
type Builder struct {
	batchSize   int
	includeText bool
	log         logger.Interface

	// OnArticle, when set, is invoked after each article directory has
	// been processed with the number of rows it contributed.
	OnArticle func(article string, rows int)
}

// NewBuilder creates a new table builder.
func NewBuilder(cfg Config, log logger.Interface) *Builder {
	cfg = cfg.WithDefaults()

	return &Builder{
		batchSize:   cfg.BatchSize,
		includeText: cfg.IncludeText,
		log:         log,
	}
}

// Build walks an archive root containing one subdirectory per article and
// returns the combined table: per-article tables, each sorted by timestamp
// descending, concatenated in article enumeration order. Ids are scoped per
// article, so no cross-article deduplication is applied. An article that
// contributes nothing is reported in its summary, never as an error.
func (b *Builder) Build(root string) ([]Record, []ArticleSummary, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, nil, fmt.Errorf("read archive root %s: %w", root, err)
	}

	var combined []Record
	var summaries []ArticleSummary

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		article := entry.Name()

		records, err := b.BuildArticle(filepath.Join(root, article))
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, ArticleSummary{Name: article, Rows: len(records)})
		combined = append(combined, records...)

		if b.OnArticle != nil {
			b.OnArticle(article, len(records))
		}
	}

	return combined, summaries, nil
}

// BuildArticle builds one article's table from its archive directory.
// Files are enumerated recursively in filesystem order, processed in
// fixed-size batches, and each resulting table is sorted by timestamp
// descending; enumeration order carries no meaning. A file that cannot be
// read or parsed is logged and excluded from the table. An article with no
// files or no parseable records yields a nil table and no error.
func (b *Builder) BuildArticle(dir string) ([]Record, error) {
	files, err := listFragmentFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("enumerate revision files in %s: %w", dir, err)
	}

	b.log.Debug("found revision files", "article", dir, "files", len(files))

	if len(files) == 0 {
		b.log.Info("no revision files found", "article", dir)
		return nil, nil
	}

	records := make([]Record, 0, len(files))
	for start := 0; start < len(files); start += b.batchSize {
		end := min(start+b.batchSize, len(files))
		for _, path := range files[start:end] {
			rec, recErr := b.buildRecord(path)
			if recErr != nil {
				b.log.Warn("skipping revision file",
					"file", path,
					"error", recErr)
				continue
			}
			records = append(records, *rec)
		}
	}

	if len(records) == 0 {
		b.log.Info("article yielded no parseable revisions", "article", dir)
		return nil, nil
	}

	slices.SortFunc(records, func(a, b Record) int {
		return b.Timestamp.Compare(a.Timestamp)
	})

	return records, nil
}

// buildRecord reads and parses a single persisted revision file. The year
// and month columns come from the file's partition path; the values derived
// from the parsed timestamp are compared against them and any disagreement
// is surfaced as a warning.
func (b *Builder) buildRecord(path string) (*Record, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read revision file: %w", err)
	}

	meta, err := revision.ParseMetadata(string(content), b.includeText)
	if err != nil {
		return nil, err
	}

	month := filepath.Base(filepath.Dir(path))
	year := filepath.Base(filepath.Dir(filepath.Dir(path)))

	if tsYear, tsMonth := meta.Timestamp.Format("2006"), meta.Timestamp.Format("01"); tsYear != year || tsMonth != month {
		b.log.Warn("partition path disagrees with revision timestamp",
			"file", path,
			"partition", year+"/"+month,
			"timestamp_partition", tsYear+"/"+tsMonth)
	}

	return &Record{
		RevisionID: meta.ID,
		Timestamp:  meta.Timestamp,
		Username:   meta.Username,
		UserID:     meta.UserID,
		Comment:    meta.Comment,
		TextLength: int64(meta.TextLength),
		Text:       meta.Text,
		Year:       year,
		Month:      month,
	}, nil
}

// listFragmentFiles recursively collects persisted fragment files under dir.
func listFragmentFiles(dir string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if !d.IsDir() && strings.HasSuffix(path, archive.FragmentExt) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}
