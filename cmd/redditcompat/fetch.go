package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/abdulachik/redditcompat/internal/app"
	"github.com/abdulachik/redditcompat/internal/config"
	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/pipeline"
)

var (
	fetchLimit int
	fetchCSV   string
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <user>",
	Short: "Fetch a Reddit user's posts and comments",
	Long: `Fetch a user's recent submissions and comments, store a snapshot in the
database and print the top items. With --csv the corpus is also written as
CSV (text,type,score,created_utc,subreddit).`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().IntVar(&fetchLimit, "limit", 0, "Posts to fetch, 1-200 (default POSTS_LIMIT)")
	fetchCmd.Flags().StringVar(&fetchCSV, "csv", "", "Write the corpus to this CSV file")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if fetchLimit != 0 {
		cfg.PostsLimit = fetchLimit
	}

	if err := cfg.ValidateForFetching(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	account := pipeline.AccountName(args[0])
	items, err := a.Fetcher.FetchUser(ctx, account, cfg.PostsLimit)
	if err != nil {
		return fmt.Errorf("fetch u/%s: %w", account, err)
	}

	if err := app.NewRecorder(a.Store).SaveCorpus(ctx, account, items); err != nil {
		slog.Warn("failed to store corpus snapshot", "account", account, "error", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fetched %d posts from u/%s\n\n", len(items), account)
	printSamples(out, account, items)

	if fetchCSV == "" {
		return nil
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: no data fetched for u/%s", pipeline.ErrEmptyCorpus, account)
	}

	f, err := os.Create(fetchCSV)
	if err != nil {
		return fmt.Errorf("create csv: %w", err)
	}
	defer f.Close()

	if err := corpus.WriteCSV(f, items); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	fmt.Fprintf(out, "Saved to %s\n", fetchCSV)
	return nil
}
