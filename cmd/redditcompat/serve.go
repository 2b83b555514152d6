package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdulachik/redditcompat/internal/app"
	"github.com/abdulachik/redditcompat/internal/config"
	"github.com/abdulachik/redditcompat/internal/server"
)

var serveTimeout time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Serve compatibility analyses over HTTP:

  POST /v1/analyses   {"account1": "...", "account2": "...", "posts_limit": 50, "sample_pairs": 15}
  GET  /v1/providers
  GET  /healthz`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().DurationVar(&serveTimeout, "timeout", 3*time.Minute, "Maximum time for one analysis request")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := cfg.ValidateForServe(); err != nil {
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

	slog.Info("starting redditcompat server",
		"addr", cfg.ListenAddr,
		"provider", driver.Provider(),
		"posts_limit", cfg.PostsLimit,
		"sample_pairs", cfg.SamplePairs,
	)

	srv := server.New(server.Config{
		Analyzer:        driver,
		Providers:       a.Registry,
		PostsLimit:      cfg.PostsLimit,
		SamplePairs:     cfg.SamplePairs,
		AnalysisTimeout: serveTimeout,
	})

	if err := srv.ListenAndServe(ctx, cfg.ListenAddr); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("shutting down...")
	return nil
}
