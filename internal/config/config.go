package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/abdulachik/redditcompat/internal/provider"
)

// Config holds all application configuration.
type Config struct {
	// Database
	DatabasePath string

	// Reddit OAuth
	RedditClientID     string
	RedditClientSecret string
	RedditUserAgent    string

	// Generation. Vendor API keys are read by the provider registry.
	LLMProvider string
	LLMModel    string // overrides the provider's default model when set
	MaxTokens   int
	Temperature float64

	// Analysis defaults
	PostsLimit  int
	SamplePairs int

	// Corpus cache
	CacheTTL  time.Duration
	CacheSize int
	RedisURL  string // shared cache when set; in-memory LRU otherwise

	// Delay between uncached Reddit fetches. Negative disables it.
	FetchDelay time.Duration

	// HTTP server
	ListenAddr string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables.
// It automatically loads .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{
		DatabasePath:       getEnv("DATABASE_PATH", "data/redditcompat.db"),
		RedditClientID:     getEnv("REDDIT_CLIENT_ID", ""),
		RedditClientSecret: getEnv("REDDIT_CLIENT_SECRET", ""),
		RedditUserAgent:    getEnv("REDDIT_USER_AGENT", "CompatibilityAnalyzer/1.0"),
		LLMProvider:        getEnv("LLM_PROVIDER", "groq"),
		LLMModel:           getEnv("LLM_MODEL", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		ListenAddr:         getEnv("LISTEN_ADDR", ":8080"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.CacheTTL, err = time.ParseDuration(getEnv("CACHE_TTL", "1h")); err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if cfg.FetchDelay, err = time.ParseDuration(getEnv("FETCH_DELAY", "2s")); err != nil {
		return nil, fmt.Errorf("invalid FETCH_DELAY: %w", err)
	}

	ints := []struct {
		key  string
		def  string
		dest *int
	}{
		{"POSTS_LIMIT", "50", &cfg.PostsLimit},
		{"SAMPLE_PAIRS", "15", &cfg.SamplePairs},
		{"MAX_TOKENS", "2500", &cfg.MaxTokens},
		{"CACHE_SIZE", "128", &cfg.CacheSize},
	}
	for _, v := range ints {
		n, err := strconv.Atoi(getEnv(v.key, v.def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", v.key, err)
		}
		*v.dest = n
	}

	if cfg.Temperature, err = strconv.ParseFloat(getEnv("TEMPERATURE", "0.7"), 64); err != nil {
		return nil, fmt.Errorf("invalid TEMPERATURE: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	return nil
}

// ValidateForFetching checks configuration needed to read Reddit.
func (c *Config) ValidateForFetching() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.RedditClientID == "" || c.RedditClientSecret == "" {
		return fmt.Errorf("REDDIT_CLIENT_ID and REDDIT_CLIENT_SECRET are required")
	}
	if c.PostsLimit < 1 || c.PostsLimit > 200 {
		return fmt.Errorf("POSTS_LIMIT must be between 1 and 200, got %d", c.PostsLimit)
	}
	return nil
}

// ValidateForAnalysis checks configuration needed to run an analysis.
// A missing vendor key is not an error here; it surfaces on first generation.
func (c *Config) ValidateForAnalysis() error {
	if err := c.ValidateForFetching(); err != nil {
		return err
	}
	if _, err := provider.ParseKind(c.LLMProvider); err != nil {
		return fmt.Errorf("invalid LLM_PROVIDER: %w", err)
	}
	if c.SamplePairs < 1 {
		return fmt.Errorf("SAMPLE_PAIRS must be positive, got %d", c.SamplePairs)
	}
	if c.MaxTokens < 1 {
		return fmt.Errorf("MAX_TOKENS must be positive, got %d", c.MaxTokens)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("TEMPERATURE must be between 0 and 2, got %g", c.Temperature)
	}
	return nil
}

// ValidateForServe checks all configuration needed for serve mode.
func (c *Config) ValidateForServe() error {
	if err := c.ValidateForAnalysis(); err != nil {
		return err
	}
	if c.ListenAddr == "" {
		return fmt.Errorf("LISTEN_ADDR is required")
	}
	return nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
