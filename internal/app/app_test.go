package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/redditcompat/internal/config"
	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/db"
	"github.com/abdulachik/redditcompat/internal/pipeline"
	"github.com/abdulachik/redditcompat/internal/provider"
	"github.com/abdulachik/redditcompat/internal/sampler"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		DatabasePath:       filepath.Join(t.TempDir(), "app.db"),
		RedditClientID:     "id",
		RedditClientSecret: "secret",
		LLMProvider:        "groq",
		PostsLimit:         50,
		SamplePairs:        15,
		MaxTokens:          2500,
		Temperature:        0.7,
		CacheTTL:           time.Hour,
		CacheSize:          16,
		FetchDelay:         -1,
	}
}

func TestNew(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	assert.NotNil(t, a.Store)
	assert.IsType(t, &corpus.CachedFetcher{}, a.Fetcher)
	assert.Len(t, a.Registry.List(), 5)

	count, err := a.Store.CountReports(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestNew_UnreachableRedis(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "redis://127.0.0.1:1/0"

	_, err := New(context.Background(), cfg)
	assert.Error(t, err)
}

func TestApp_Analyzer(t *testing.T) {
	t.Run("resolves configured provider", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.LLMProvider = "Cohere"
		a, err := New(context.Background(), cfg)
		require.NoError(t, err)
		defer a.Close()

		d, err := a.Analyzer()
		require.NoError(t, err)
		assert.Equal(t, "cohere", d.Provider())
	})

	t.Run("unknown provider", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.LLMProvider = "not-a-real-provider"
		a, err := New(context.Background(), cfg)
		require.NoError(t, err)
		defer a.Close()

		_, err = a.Analyzer()
		assert.ErrorIs(t, err, provider.ErrConfiguration)
	})
}

func TestNewRegistry_ModelOverride(t *testing.T) {
	cfg := testConfig(t)
	cfg.LLMProvider = "openai"
	cfg.LLMModel = "gpt-4o-mini"

	statuses := NewRegistry(cfg).List()
	for _, s := range statuses {
		if s.Name == "openai" {
			assert.Equal(t, "gpt-4o-mini", s.Model)
		} else {
			assert.NotEqual(t, "gpt-4o-mini", s.Model)
		}
	}
}

func TestRecorder_Record(t *testing.T) {
	ctx := context.Background()
	store, err := db.NewStore(ctx, filepath.Join(t.TempDir(), "rec.db"))
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	res := &pipeline.Result{
		Account1: "Alice",
		Account2: "bob",
		Report:   "### Overall Compatibility\nStrong",
		Corpus1: corpus.Corpus{
			{Body: "Hiking the ridge trail today", Kind: corpus.KindSubmission, Score: 12, Subreddit: "hiking",
				CreatedAt: time.Unix(1700000000, 0)},
		},
		Corpus2: corpus.Corpus{
			{Body: "Pizza dough from scratch again", Kind: corpus.KindComment, Score: 4},
			{Body: "Keyboard switches are a rabbit hole", Kind: corpus.KindComment, Score: 2},
		},
		Samples:  sampler.SampleSet{{A: "a", B: "b"}, {A: "c", B: "d"}},
		Provider: "groq",
		Duration: 1500 * time.Millisecond,
	}

	require.NoError(t, NewRecorder(store).Record(ctx, res))

	items, err := store.ListCorpusItems(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "submission", items[0].Kind)
	assert.Equal(t, int64(1700000000), items[0].CreatedUtc)

	count, err := store.CountCorpusItems(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	reports, err := store.ListRecentReports(ctx, 5)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, int64(2), reports[0].SamplePairs)
	assert.Equal(t, int64(1500), reports[0].DurationMs)
	assert.Equal(t, "groq", reports[0].Provider)
}
