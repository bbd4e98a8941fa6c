// Package archive implements the archive command for downloading and
// persisting wiki page revisions.
package archive

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	archivesvc "github.com/jonesrussell/wikirev/internal/archive"
	"github.com/jonesrussell/wikirev/internal/config"
	"github.com/jonesrussell/wikirev/internal/export"
	"github.com/jonesrussell/wikirev/internal/logger"
)

// DefaultLimit is the default number of revisions requested per run.
const DefaultLimit = 10

const renderPollInterval = 50 * time.Millisecond

// Command returns the archive command.
func Command() *cobra.Command {
	var (
		limit  int
		update bool
	)

	cmd := &cobra.Command{
		Use:   "archive <page>",
		Short: "Archive revisions of a wiki page",
		Long: `Archive downloads up to --limit revisions of the given page into the
date-partitioned archive under the data directory. Without --update it only
counts the files already archived for the page.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), args[0], limit, update)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", DefaultLimit, "number of revisions to download")
	cmd.Flags().BoolVar(&update, "update", false,
		"download revisions; without this flag only report the archived count")

	return cmd
}

// run executes one archival run for a page.
func run(ctx context.Context, page string, limit int, update bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(&cfg.Logger)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}

	client := export.NewClient(cfg.Export, log)
	svc := archivesvc.NewService(cfg.App.DataDir, client, log)

	if !update {
		count, countErr := svc.Count(page)
		if countErr != nil {
			return countErr
		}
		fmt.Printf("Total files downloaded: %d\n", count)
		return nil
	}

	fmt.Printf("Downloading %d revisions of %s to %s\n", limit, page, cfg.App.DataDir)

	pw := progress.NewWriter()
	pw.SetOutputWriter(os.Stdout)
	pw.SetUpdateFrequency(renderPollInterval)

	tracker := &progress.Tracker{
		Message: "Archiving " + page,
		Total:   int64(limit),
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(tracker)
	svc.OnFragment = func(processed int) {
		tracker.SetValue(int64(processed))
	}

	go pw.Render()

	result, err := svc.Update(ctx, page, limit)
	if err != nil {
		tracker.MarkAsErrored()
		stopRender(pw)
		return err
	}

	tracker.MarkAsDone()
	stopRender(pw)

	if len(result.Failures) > 0 {
		renderFailures(result.Failures)
	}

	fmt.Printf("Done! Archived %d new revisions (%d already present", result.Written, result.Skipped)
	if len(result.Failures) > 0 {
		fmt.Printf(", %d failed", len(result.Failures))
	}
	fmt.Printf(")\nTotal files downloaded: %d\n", result.ArchiveCount)

	return nil
}

// renderFailures prints the fragments the run could not place.
func renderFailures(failures []archivesvc.FragmentFailure) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Fragment", "Error"})
	for _, failure := range failures {
		t.AppendRow(table.Row{failure.Index, failure.Err.Error()})
	}
	t.Render()
}

// stopRender stops the progress writer and waits for the final frame.
func stopRender(pw progress.Writer) {
	pw.Stop()
	for pw.IsRenderInProgress() {
		time.Sleep(renderPollInterval)
	}
}
