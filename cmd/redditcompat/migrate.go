package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/abdulachik/redditcompat/internal/config"
	"github.com/abdulachik/redditcompat/internal/db"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the SQLite file that keeps fetched corpora and saved reports",
	Long: `Apply pending schema changes to the SQLite file at DATABASE_PATH.

The file holds two tables: corpus_items, the last fetched posts and comments
per Reddit account, and reports, every compatibility report with its provider
and timing. Analyze and history apply the same changes on startup, so this is
only needed to prepare the file ahead of time.`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	return migrateReportDB(context.Background(), cfg.DatabasePath, cmd.OutOrStdout())
}

// migrateReportDB brings the report database at path up to date and prints
// how many reports it already holds.
func migrateReportDB(ctx context.Context, path string, out io.Writer) error {
	slog.Info("opening report database", "path", path)
	store, err := db.NewStore(ctx, path)
	if err != nil {
		return fmt.Errorf("open report database: %w", err)
	}
	defer store.Close()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate report database: %w", err)
	}

	reports, err := store.CountReports(ctx)
	if err != nil {
		return fmt.Errorf("count reports: %w", err)
	}

	slog.Info("report database ready", "path", path, "reports", reports)
	fmt.Fprintf(out, "%s: corpus_items and reports tables ready, %d saved reports\n", path, reports)
	return nil
}
