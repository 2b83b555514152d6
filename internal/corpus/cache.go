package corpus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultCacheTTL  = time.Hour
	DefaultCacheSize = 128

	redisKeyPrefix = "redditcompat:corpus:"
)

// Cache stores fetched corpora for a bounded time window.
type Cache interface {
	Get(ctx context.Context, key string) (Corpus, bool, error)
	Set(ctx context.Context, key string, c Corpus) error
}

// CacheKey builds the cache key for an (account, limit) request.
func CacheKey(account string, limit int) string {
	return fmt.Sprintf("%s:%d", strings.ToLower(strings.TrimSpace(account)), limit)
}

// MemoryCache is an in-process LRU whose entries expire after a fixed TTL.
type MemoryCache struct {
	lru *expirable.LRU[string, Corpus]
}

// NewMemoryCache creates a new in-process cache.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, Corpus](size, nil, ttl),
	}
}

// Get returns the cached corpus for key, if present and unexpired.
func (m *MemoryCache) Get(_ context.Context, key string) (Corpus, bool, error) {
	c, ok := m.lru.Get(key)
	return c, ok, nil
}

// Set stores a corpus under key.
func (m *MemoryCache) Set(_ context.Context, key string, c Corpus) error {
	m.lru.Add(key, c)
	return nil
}

// RedisCache shares cached corpora between processes.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// ConnectRedis initializes a Redis client from URL or host:port input.
func ConnectRedis(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

// NewRedisCache creates a Redis-backed cache.
func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

// Get returns the cached corpus for key.
func (r *RedisCache) Get(ctx context.Context, key string) (Corpus, bool, error) {
	raw, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var c Corpus
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, false, fmt.Errorf("decode cached corpus: %w", err)
	}
	return c, true, nil
}

// Set stores a corpus under key with the cache TTL.
func (r *RedisCache) Set(ctx context.Context, key string, c Corpus) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode corpus: %w", err)
	}
	if err := r.client.Set(ctx, redisKeyPrefix+key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (r *RedisCache) Close() error {
	return r.client.Close()
}

// CachedFetcher serves repeated (account, limit) requests from a cache.
// Entries are never invalidated explicitly; they expire with the cache TTL.
type CachedFetcher struct {
	next  Fetcher
	cache Cache
}

// NewCachedFetcher wraps next with cache.
func NewCachedFetcher(next Fetcher, cache Cache) *CachedFetcher {
	return &CachedFetcher{next: next, cache: cache}
}

// FetchUser returns the cached corpus or fetches and caches a fresh one.
// Cache failures fall through to a direct fetch.
func (f *CachedFetcher) FetchUser(ctx context.Context, account string, limit int) (Corpus, error) {
	key := CacheKey(account, limit)

	c, ok, err := f.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("corpus cache read failed", "account", account, "error", err)
	} else if ok {
		slog.Debug("corpus cache hit", "account", account, "limit", limit, "items", len(c))
		return c, nil
	}

	c, err = f.next.FetchUser(ctx, account, limit)
	if err != nil {
		return nil, err
	}

	if err := f.cache.Set(ctx, key, c); err != nil {
		slog.Warn("corpus cache write failed", "account", account, "error", err)
	}
	return c, nil
}
