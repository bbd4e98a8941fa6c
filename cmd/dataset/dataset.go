// Package dataset implements the dataset command for materializing a
// revision archive into a single columnar table file.
package dataset

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/wikirev/internal/config"
	datasetpkg "github.com/jonesrussell/wikirev/internal/dataset"
	"github.com/jonesrussell/wikirev/internal/logger"
)

// Command returns the dataset command.
func Command() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "dataset <archive-root>",
		Short: "Build a combined dataset from a revision archive",
		Long: `Dataset re-reads every article directory under the archive root, parses
each persisted revision, and writes one combined parquet file named after
the archive root into the output directory.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(args[0], output)
		},
	}

	cmd.Flags().StringVar(&output, "output", "", "output directory (default from config)")
	cmd.Flags().Int("batch-size", datasetpkg.DefaultBatchSize, "revision files per processing batch")
	cmd.Flags().Bool("include-text", false, "retain full revision text in the dataset")

	_ = viper.BindPFlag("dataset.batch_size", cmd.Flags().Lookup("batch-size"))
	_ = viper.BindPFlag("dataset.include_text", cmd.Flags().Lookup("include-text"))

	return cmd
}

// run builds the combined table and writes the parquet artifact.
func run(root, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if output == "" {
		output = cfg.App.OutputDir
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	if cfg.Dataset.IncludeText {
		fmt.Println("Processing with text content")
	} else {
		fmt.Println("Processing with text length only")
	}

	builder := datasetpkg.NewBuilder(cfg.Dataset, log)
	builder.OnArticle = func(article string, rows int) {
		log.Info("processed article", "article", article, "rows", rows)
	}

	records, summaries, err := builder.Build(root)
	if err != nil {
		return err
	}

	renderSummary(summaries)

	if len(records) == 0 {
		fmt.Println("No data found in any article directory.")
		return nil
	}

	path := datasetpkg.OutputPath(root, output)
	if err := datasetpkg.WriteParquet(path, records); err != nil {
		return err
	}

	fmt.Printf("Combined dataset saved at %s (%d rows)\n", path, len(records))

	return nil
}

// renderSummary prints per-article row counts.
func renderSummary(summaries []datasetpkg.ArticleSummary) {
	if len(summaries) == 0 {
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Article", "Rows"})
	for _, s := range summaries {
		t.AppendRow(table.Row{s.Name, s.Rows})
	}
	t.Render()
}
