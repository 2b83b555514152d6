package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abdulachik/redditcompat/internal/app"
	"github.com/abdulachik/redditcompat/internal/config"
	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/pipeline"
	"github.com/abdulachik/redditcompat/internal/prompt"
)

const previewItems = 10

var (
	analyzeOut         string
	analyzeLimit       int
	analyzePairs       int
	analyzeShowSamples bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <user1> <user2>",
	Short: "Generate a compatibility report for two Reddit users",
	Long: `Fetch both users' recent posts and comments, sample cross-account pairs and
generate a compatibility report with the provider named by LLM_PROVIDER.

The report is printed to stdout and written as markdown to --out
(default compatibility_<user1>_<user2>.md). Use --out - to skip the file.`,
	Args: cobra.ExactArgs(2),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Markdown file to write the report to")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 0, "Posts per user, 1-200 (default POSTS_LIMIT)")
	analyzeCmd.Flags().IntVar(&analyzePairs, "pairs", 0, "Post pairs to analyze (default SAMPLE_PAIRS)")
	analyzeCmd.Flags().BoolVar(&analyzeShowSamples, "show-samples", false, "Print the top posts fetched for each user")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if analyzeLimit != 0 {
		cfg.PostsLimit = analyzeLimit
	}
	if analyzePairs != 0 {
		cfg.SamplePairs = analyzePairs
	}

	if err := cfg.ValidateForAnalysis(); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initialize app: %w", err)
	}
	defer a.Close()

	driver, err := a.Analyzer()
	if err != nil {
		return fmt.Errorf("resolve provider: %w", err)
	}

	res, err := driver.Run(ctx, pipeline.Request{
		Account1:    args[0],
		Account2:    args[1],
		PostsLimit:  cfg.PostsLimit,
		SamplePairs: cfg.SamplePairs,
	})
	if err != nil {
		return fmt.Errorf("analyze: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Fetched %d posts from u/%s\n", len(res.Corpus1), res.Account1)
	fmt.Fprintf(out, "Fetched %d posts from u/%s\n", len(res.Corpus2), res.Account2)
	fmt.Fprintf(out, "Pairs analyzed: %d (provider %s)\n\n", len(res.Samples), res.Provider)
	fmt.Fprintf(out, "## Compatibility Report: u/%s and u/%s\n\n", res.Account1, res.Account2)
	fmt.Fprintln(out, res.Report)

	if analyzeShowSamples {
		fmt.Fprintln(out)
		printSamples(out, res.Account1, res.Corpus1)
		printSamples(out, res.Account2, res.Corpus2)
	}

	path := analyzeOut
	if path == "" {
		path = reportFilename(res.Account1, res.Account2)
	}
	if path != "-" {
		if err := os.WriteFile(path, []byte(res.Report), 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Fprintf(out, "\nReport saved to %s\n", path)
	}

	return nil
}

func reportFilename(user1, user2 string) string {
	return fmt.Sprintf("compatibility_%s_%s.md", user1, user2)
}

func printSamples(out io.Writer, account string, c corpus.Corpus) {
	fmt.Fprintf(out, "=== Sample posts: u/%s ===\n", account)
	for i, item := range c.Head(previewItems) {
		text := strings.ReplaceAll(prompt.Truncate(item.Body, 100), "\n", " ")
		fmt.Fprintf(out, "%2d. [%s] %5d  r/%s  %s\n", i+1, item.Kind, item.Score, item.Subreddit, text)
	}
	fmt.Fprintln(out)
}
