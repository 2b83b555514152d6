package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdulachik/redditcompat/internal/config"
	"github.com/abdulachik/redditcompat/internal/db"
	"github.com/abdulachik/redditcompat/internal/prompt"
)

var (
	historyLimit int
	historyShow  int64
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent compatibility reports",
	Long:  `List recently generated reports, or print one in full with --show <id>.`,
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "Number of reports to list")
	historyCmd.Flags().Int64Var(&historyShow, "show", 0, "Print the report with this id")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer store.Close()

	// Ensure migrations are run
	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	out := cmd.OutOrStdout()

	if historyShow > 0 {
		report, err := store.GetReport(ctx, historyShow)
		if err != nil {
			return fmt.Errorf("get report %d: %w", historyShow, err)
		}
		fmt.Fprintf(out, "## Compatibility Report: u/%s and u/%s\n", report.Account1, report.Account2)
		fmt.Fprintf(out, "(%s, %s)\n\n", report.Provider, report.CreatedAt.Format("2006-01-02 15:04"))
		fmt.Fprintln(out, report.Report)
		return nil
	}

	total, err := store.CountReports(ctx)
	if err != nil {
		return fmt.Errorf("count reports: %w", err)
	}

	reports, err := store.ListRecentReports(ctx, int64(historyLimit))
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}

	fmt.Fprintf(out, "=== Reports (%d total) ===\n\n", total)
	for _, r := range reports {
		fmt.Fprintf(out, "#%d  %s  u/%s and u/%s  [%s, %d pairs, %.1fs]\n",
			r.ID,
			r.CreatedAt.Format("2006-01-02 15:04"),
			r.Account1,
			r.Account2,
			r.Provider,
			r.SamplePairs,
			float64(r.DurationMs)/1000,
		)
		fmt.Fprintf(out, "    %s\n", firstLine(r.Report))
	}
	return nil
}

// firstLine returns the first non-heading line of a report, for previews.
func firstLine(report string) string {
	for _, line := range strings.Split(report, "\n") {
		line = strings.TrimSpace(line)
		if line != "" && !strings.HasPrefix(line, "#") {
			return prompt.Truncate(line, 100)
		}
	}
	return ""
}
