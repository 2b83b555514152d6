package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/abdulachik/redditcompat/internal/config"
	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/db"
	"github.com/abdulachik/redditcompat/internal/pipeline"
	"github.com/abdulachik/redditcompat/internal/provider"
	"github.com/abdulachik/redditcompat/internal/reddit"
)

// App is the main application container holding all dependencies.
type App struct {
	Config   *config.Config
	Store    *db.Store
	Fetcher  corpus.Fetcher
	Registry *provider.Registry

	redis *redis.Client
}

// New creates a new application instance with all dependencies wired up.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	store, err := db.NewStore(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		store.Close()
		return nil, err
	}

	a := &App{
		Config:   cfg,
		Store:    store,
		Registry: NewRegistry(cfg),
	}

	cache, err := a.newCache(ctx)
	if err != nil {
		store.Close()
		return nil, err
	}

	client := reddit.New(reddit.Config{
		ClientID:     cfg.RedditClientID,
		ClientSecret: cfg.RedditClientSecret,
		UserAgent:    cfg.RedditUserAgent,
		FetchDelay:   cfg.FetchDelay,
	})
	a.Fetcher = corpus.NewCachedFetcher(client, cache)

	return a, nil
}

// NewRegistry builds the provider registry from configuration.
func NewRegistry(cfg *config.Config) *provider.Registry {
	var models map[provider.Kind]string
	if cfg.LLMModel != "" {
		if kind, err := provider.ParseKind(cfg.LLMProvider); err == nil {
			models = map[provider.Kind]string{kind: cfg.LLMModel}
		}
	}
	return provider.NewRegistry(provider.RegistryConfig{Models: models})
}

func (a *App) newCache(ctx context.Context) (corpus.Cache, error) {
	if a.Config.RedisURL == "" {
		slog.Debug("using in-memory corpus cache", "size", a.Config.CacheSize, "ttl", a.Config.CacheTTL)
		return corpus.NewMemoryCache(a.Config.CacheSize, a.Config.CacheTTL), nil
	}

	client, err := corpus.ConnectRedis(a.Config.RedisURL)
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	a.redis = client

	slog.Info("using redis corpus cache", "ttl", a.Config.CacheTTL)
	return corpus.NewRedisCache(client, a.Config.CacheTTL), nil
}

// Analyzer resolves the configured provider and returns a driver bound to it.
// Unknown provider names fail here; a missing vendor key fails on first run.
func (a *App) Analyzer() (*pipeline.Driver, error) {
	p, err := a.Registry.Resolve(a.Config.LLMProvider)
	if err != nil {
		return nil, err
	}
	if p.State() != provider.StateConfigured {
		slog.Warn("provider has no credential; analyses will fail until it is set",
			"provider", p.Name(),
			"env", p.Spec().CredentialEnv,
		)
	}

	return pipeline.New(pipeline.Config{
		Fetcher:   a.Fetcher,
		Generator: p,
		Options: provider.Options{
			Temperature: provider.Float(a.Config.Temperature),
			MaxTokens:   a.Config.MaxTokens,
		},
		Recorder: NewRecorder(a.Store),
	}), nil
}

// Close closes all resources.
func (a *App) Close() error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			slog.Warn("failed to close redis", "error", err)
		}
	}
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}
