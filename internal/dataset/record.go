// Package dataset materializes a revision archive into a single columnar
// table.
package dataset

import "time"

// Record is one row of the combined table: the flattened projection of a
// revision plus its storage partition. Optional columns are nil when the
// source element was absent; Text is populated only on include-text builds.
type Record struct {
	RevisionID string    `parquet:"revision_id,zstd"`
	Timestamp  time.Time `parquet:"timestamp"`
	Username   *string   `parquet:"username,zstd,optional"`
	UserID     *string   `parquet:"userid,zstd,optional"`
	Comment    *string   `parquet:"comment,zstd,optional"`
	TextLength int64     `parquet:"text_length"`
	Text       *string   `parquet:"text,zstd,optional"`
	Year       string    `parquet:"year,zstd"`
	Month      string    `parquet:"month,zstd"`
}

// ArticleSummary reports how many rows one article contributed.
type ArticleSummary struct {
	Name string
	Rows int
}
