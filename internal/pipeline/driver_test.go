package pipeline

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/provider"
)

type stubFetcher struct {
	corpora map[string]corpus.Corpus
	errs    map[string]error
	calls   []string
}

func (f *stubFetcher) FetchUser(_ context.Context, account string, _ int) (corpus.Corpus, error) {
	f.calls = append(f.calls, account)
	if err := f.errs[account]; err != nil {
		return nil, err
	}
	return f.corpora[account], nil
}

// echoGenerator returns the prompt it was given.
type echoGenerator struct {
	prompts []string
	opts    provider.Options
	err     error
}

func (g *echoGenerator) Name() string { return "echo" }

func (g *echoGenerator) Generate(_ context.Context, prompt string, opts provider.Options) (string, error) {
	g.prompts = append(g.prompts, prompt)
	g.opts = opts
	if g.err != nil {
		return "", g.err
	}
	return prompt, nil
}

type recorderFunc func(ctx context.Context, res *Result) error

func (f recorderFunc) Record(ctx context.Context, res *Result) error { return f(ctx, res) }

func items(bodies ...string) corpus.Corpus {
	c := make(corpus.Corpus, len(bodies))
	for i, b := range bodies {
		c[i] = corpus.TextItem{Body: b, Kind: corpus.KindComment, Score: len(bodies) - i}
	}
	return c
}

func aliceAndBob() *stubFetcher {
	return &stubFetcher{corpora: map[string]corpus.Corpus{
		"alice": items(
			"I spent the weekend hiking the ridge trail again",
			"Sourdough starter finally doubled overnight, very proud",
			"Anyone else think the new season dragged on too long?",
		),
		"bob": items(
			"Rebuilt my mechanical keyboard with tactile switches",
			"The ridge trail is beautiful in October",
			"Made pizza dough from scratch for the first time",
			"Reading a long history of the Byzantine empire right now and loving every page",
		),
	}}
}

func TestDriver_Run_EndToEnd(t *testing.T) {
	fetcher := aliceAndBob()
	gen := &echoGenerator{}
	d := New(Config{
		Fetcher:   fetcher,
		Generator: gen,
		Options:   provider.Options{Temperature: provider.Float(0), MaxTokens: 2500},
		Rand:      rand.New(rand.NewPCG(1, 2)),
	})

	res, err := d.Run(context.Background(), Request{Account1: "alice", Account2: "bob", PostsLimit: 50, SamplePairs: 4})
	require.NoError(t, err)

	assert.Equal(t, []string{"alice", "bob"}, fetcher.calls)
	assert.Len(t, res.Corpus1, 3)
	assert.Len(t, res.Corpus2, 4)
	require.Len(t, res.Samples, 4)
	assert.Equal(t, "echo", res.Provider)
	assert.Equal(t, 2500, gen.opts.MaxTokens)
	require.NotNil(t, gen.opts.Temperature)
	assert.Equal(t, 0.0, *gen.opts.Temperature)

	require.Len(t, gen.prompts, 1)
	sent := gen.prompts[0]
	assert.Equal(t, sent, res.Report)
	assert.Equal(t, 4, strings.Count(sent, "**Pair "))
	assert.Equal(t, 6, strings.Count(sent, "\n### "))
	assert.Contains(t, sent, "alice")
	assert.Contains(t, sent, "bob")

	aliceBodies := res.Corpus1.Bodies()
	bobBodies := res.Corpus2.Bodies()
	for _, pair := range res.Samples {
		assert.Contains(t, aliceBodies, pair.A)
		assert.Contains(t, bobBodies, pair.B)
		assert.Contains(t, sent, pair.A)
		assert.Contains(t, sent, pair.B)
	}

	// The last two pairs are the longest by combined length.
	longestB := "Reading a long history of the Byzantine empire right now and loving every page"
	assert.Equal(t, longestB, res.Samples[2].B)
	assert.Equal(t, longestB, res.Samples[3].B)
}

func TestDriver_Run_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"missing first", Request{Account2: "bob"}},
		{"missing second", Request{Account1: "alice", Account2: "   "}},
		{"same user", Request{Account1: "alice", Account2: "Alice"}},
		{"same user with prefix", Request{Account1: "u/alice", Account2: "alice"}},
		{"limit too large", Request{Account1: "alice", Account2: "bob", PostsLimit: 201}},
		{"negative limit", Request{Account1: "alice", Account2: "bob", PostsLimit: -1}},
		{"negative pairs", Request{Account1: "alice", Account2: "bob", SamplePairs: -3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := aliceAndBob()
			d := New(Config{Fetcher: fetcher, Generator: &echoGenerator{}})

			_, err := d.Run(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidRequest)
			assert.Empty(t, fetcher.calls)
		})
	}
}

func TestDriver_Run_Defaults(t *testing.T) {
	fetcher := aliceAndBob()
	d := New(Config{Fetcher: fetcher, Generator: &echoGenerator{}})

	res, err := d.Run(context.Background(), Request{Account1: " u/alice ", Account2: "/u/bob"})
	require.NoError(t, err)
	assert.Equal(t, "alice", res.Account1)
	assert.Equal(t, "bob", res.Account2)
	// 12 pairs available, 15 requested: 7 random and 7 longest.
	assert.Len(t, res.Samples, 14)
}

func TestDriver_Run_FetchFailures(t *testing.T) {
	t.Run("second account named", func(t *testing.T) {
		fetcher := aliceAndBob()
		fetcher.errs = map[string]error{
			"bob": corpus.ErrUserNotFound,
		}
		gen := &echoGenerator{}
		d := New(Config{Fetcher: fetcher, Generator: gen})

		_, err := d.Run(context.Background(), Request{Account1: "alice", Account2: "bob"})
		require.Error(t, err)
		assert.ErrorIs(t, err, corpus.ErrFetch)
		assert.ErrorIs(t, err, corpus.ErrUserNotFound)

		var stageErr *StageError
		require.True(t, errors.As(err, &stageErr))
		assert.Equal(t, StageFetch, stageErr.Stage)
		assert.Equal(t, "bob", stageErr.Account)
		assert.Equal(t, []string{"alice", "bob"}, fetcher.calls)
		assert.Empty(t, gen.prompts)
	})

	t.Run("first account stops the run", func(t *testing.T) {
		fetcher := aliceAndBob()
		fetcher.errs = map[string]error{
			"alice": errors.New("connection reset"),
		}
		d := New(Config{Fetcher: fetcher, Generator: &echoGenerator{}})

		_, err := d.Run(context.Background(), Request{Account1: "alice", Account2: "bob"})
		assert.ErrorIs(t, err, corpus.ErrFetch)
		assert.Contains(t, err.Error(), "u/alice")
		assert.Equal(t, []string{"alice"}, fetcher.calls)
	})
}

func TestDriver_Run_EmptyCorpus(t *testing.T) {
	fetcher := aliceAndBob()
	fetcher.corpora["bob"] = corpus.Corpus{}
	gen := &echoGenerator{}
	d := New(Config{Fetcher: fetcher, Generator: gen})

	_, err := d.Run(context.Background(), Request{Account1: "alice", Account2: "bob"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, "bob", stageErr.Account)
	assert.Empty(t, gen.prompts)
}

func TestDriver_Run_GenerationErrors(t *testing.T) {
	registry := provider.NewRegistry(provider.RegistryConfig{
		Getenv: func(string) string { return "" },
	})
	unconfigured, err := registry.Resolve("groq")
	require.NoError(t, err)

	t.Run("missing credential", func(t *testing.T) {
		d := New(Config{Fetcher: aliceAndBob(), Generator: unconfigured})

		_, err := d.Run(context.Background(), Request{Account1: "alice", Account2: "bob"})
		assert.ErrorIs(t, err, provider.ErrAuthentication)
		assert.False(t, errors.Is(err, corpus.ErrFetch))
	})

	t.Run("backend failure", func(t *testing.T) {
		gen := &echoGenerator{err: &provider.Error{Kind: provider.ErrGeneration, Provider: "echo", Err: errors.New("503")}}
		d := New(Config{Fetcher: aliceAndBob(), Generator: gen})

		_, err := d.Run(context.Background(), Request{Account1: "alice", Account2: "bob"})
		assert.ErrorIs(t, err, provider.ErrGeneration)

		var stageErr *StageError
		require.True(t, errors.As(err, &stageErr))
		assert.Equal(t, StageGenerate, stageErr.Stage)
	})
}

func TestDriver_Run_Recorder(t *testing.T) {
	t.Run("records successful runs", func(t *testing.T) {
		var recorded *Result
		d := New(Config{
			Fetcher:   aliceAndBob(),
			Generator: &echoGenerator{},
			Recorder: recorderFunc(func(_ context.Context, res *Result) error {
				recorded = res
				return nil
			}),
		})

		res, err := d.Run(context.Background(), Request{Account1: "alice", Account2: "bob", SamplePairs: 4})
		require.NoError(t, err)
		assert.Same(t, res, recorded)
	})

	t.Run("recorder failure is not fatal", func(t *testing.T) {
		d := New(Config{
			Fetcher:   aliceAndBob(),
			Generator: &echoGenerator{},
			Recorder: recorderFunc(func(context.Context, *Result) error {
				return errors.New("database is locked")
			}),
		})

		res, err := d.Run(context.Background(), Request{Account1: "alice", Account2: "bob", SamplePairs: 4})
		require.NoError(t, err)
		assert.NotEmpty(t, res.Report)
	})
}

func TestAccountName(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"alice", "alice"},
		{"  alice ", "alice"},
		{"u/alice", "alice"},
		{"U/alice", "alice"},
		{"/u/alice", "alice"},
		{"", ""},
		{"u", "u"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, AccountName(tt.input), tt.input)
	}
}
