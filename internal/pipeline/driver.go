// Package pipeline runs one compatibility analysis end to end: fetch both
// corpora, sample cross-account pairs, compose the prompt and generate the
// report with a single fixed provider.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/prompt"
	"github.com/abdulachik/redditcompat/internal/provider"
	"github.com/abdulachik/redditcompat/internal/sampler"
)

const (
	DefaultPostsLimit  = 50
	MaxPostsLimit      = 200
	DefaultSamplePairs = 15
)

var (
	// ErrInvalidRequest: the request failed validation before any fetch.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrEmptyCorpus: an account had no qualifying text to compare.
	ErrEmptyCorpus = errors.New("empty corpus")
)

// Stages reported in StageError.
const (
	StageFetch    = "fetch"
	StageSample   = "sample"
	StageGenerate = "generate"
)

// StageError names the stage, and the account when there is one, where a
// run stopped.
type StageError struct {
	Stage   string
	Account string
	Err     error
}

func (e *StageError) Error() string {
	if e.Account == "" {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("%s u/%s: %v", e.Stage, e.Account, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Generator produces report text from a prompt. *provider.Provider
// satisfies it.
type Generator interface {
	Name() string
	Generate(ctx context.Context, prompt string, opts provider.Options) (string, error)
}

// Recorder persists successful runs.
type Recorder interface {
	Record(ctx context.Context, res *Result) error
}

// Request is the input to one analysis.
type Request struct {
	Account1    string `json:"account1"`
	Account2    string `json:"account2"`
	PostsLimit  int    `json:"posts_limit"`
	SamplePairs int    `json:"sample_pairs"`
}

// Result is everything a run produced.
type Result struct {
	Account1  string            `json:"account1"`
	Account2  string            `json:"account2"`
	Report    string            `json:"report"`
	Corpus1   corpus.Corpus     `json:"corpus1"`
	Corpus2   corpus.Corpus     `json:"corpus2"`
	Samples   sampler.SampleSet `json:"samples"`
	Provider  string            `json:"provider"`
	CreatedAt time.Time         `json:"created_at"`
	Duration  time.Duration     `json:"duration"`
}

// Config holds driver dependencies.
type Config struct {
	Fetcher   corpus.Fetcher
	Generator Generator
	Options   provider.Options
	// Recorder is optional. Its failures are logged and do not fail the run.
	Recorder Recorder
	// Rand seeds the sampler. Leave nil for fresh randomness per run; a
	// shared *rand.Rand is not safe across concurrent runs.
	Rand *rand.Rand
}

// Driver runs analyses. It is safe for concurrent use when Config.Rand is nil.
type Driver struct {
	fetcher   corpus.Fetcher
	generator Generator
	opts      provider.Options
	recorder  Recorder
	rng       *rand.Rand
}

// New creates a new Driver.
func New(cfg Config) *Driver {
	return &Driver{
		fetcher:   cfg.Fetcher,
		generator: cfg.Generator,
		opts:      cfg.Options,
		recorder:  cfg.Recorder,
		rng:       cfg.Rand,
	}
}

// Provider returns the name of the generator the driver was built with.
func (d *Driver) Provider() string {
	return d.generator.Name()
}

// Run fetches both accounts in order, samples pairs, composes the prompt
// and generates the report. Errors match corpus.ErrFetch, the provider error
// kinds, ErrInvalidRequest or ErrEmptyCorpus under errors.Is.
func (d *Driver) Run(ctx context.Context, req Request) (*Result, error) {
	req, err := normalize(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	slog.InfoContext(ctx, "starting analysis",
		"account1", req.Account1,
		"account2", req.Account2,
		"posts_limit", req.PostsLimit,
		"sample_pairs", req.SamplePairs,
		"provider", d.generator.Name(),
	)

	corpus1, err := d.fetch(ctx, req.Account1, req.PostsLimit)
	if err != nil {
		return nil, err
	}
	corpus2, err := d.fetch(ctx, req.Account2, req.PostsLimit)
	if err != nil {
		return nil, err
	}

	for _, c := range []struct {
		account string
		items   corpus.Corpus
	}{{req.Account1, corpus1}, {req.Account2, corpus2}} {
		if len(c.items) == 0 {
			return nil, &StageError{Stage: StageSample, Account: c.account, Err: ErrEmptyCorpus}
		}
	}

	samples := sampler.Sample(corpus1.Bodies(), corpus2.Bodies(), req.SamplePairs, d.rng)
	slog.DebugContext(ctx, "sampled pairs", "requested", req.SamplePairs, "selected", len(samples))

	text := prompt.Compose(req.Account1, req.Account2, samples)

	report, err := d.generator.Generate(ctx, text, d.opts)
	if err != nil {
		return nil, &StageError{Stage: StageGenerate, Err: err}
	}

	res := &Result{
		Account1:  req.Account1,
		Account2:  req.Account2,
		Report:    report,
		Corpus1:   corpus1,
		Corpus2:   corpus2,
		Samples:   samples,
		Provider:  d.generator.Name(),
		CreatedAt: start.UTC(),
		Duration:  time.Since(start),
	}

	if d.recorder != nil {
		if err := d.recorder.Record(ctx, res); err != nil {
			slog.WarnContext(ctx, "failed to record analysis", "error", err)
		}
	}

	slog.InfoContext(ctx, "analysis complete",
		"account1", req.Account1,
		"account2", req.Account2,
		"pairs", len(samples),
		"duration_ms", res.Duration.Milliseconds(),
	)

	return res, nil
}

func (d *Driver) fetch(ctx context.Context, account string, limit int) (corpus.Corpus, error) {
	items, err := d.fetcher.FetchUser(ctx, account, limit)
	if err != nil {
		if !errors.Is(err, corpus.ErrFetch) {
			err = fmt.Errorf("%w: %w", corpus.ErrFetch, err)
		}
		return nil, &StageError{Stage: StageFetch, Account: account, Err: err}
	}
	slog.DebugContext(ctx, "fetched corpus", "account", account, "items", len(items))
	return items, nil
}

// normalize applies defaults and validates the request.
func normalize(req Request) (Request, error) {
	req.Account1 = AccountName(req.Account1)
	req.Account2 = AccountName(req.Account2)

	if req.PostsLimit == 0 {
		req.PostsLimit = DefaultPostsLimit
	}
	if req.SamplePairs == 0 {
		req.SamplePairs = DefaultSamplePairs
	}

	switch {
	case req.Account1 == "" || req.Account2 == "":
		return req, fmt.Errorf("%w: both usernames are required", ErrInvalidRequest)
	case strings.EqualFold(req.Account1, req.Account2):
		return req, fmt.Errorf("%w: usernames must be different", ErrInvalidRequest)
	case req.PostsLimit < 1 || req.PostsLimit > MaxPostsLimit:
		return req, fmt.Errorf("%w: posts limit must be between 1 and %d, got %d", ErrInvalidRequest, MaxPostsLimit, req.PostsLimit)
	case req.SamplePairs < 1:
		return req, fmt.Errorf("%w: sample pairs must be positive, got %d", ErrInvalidRequest, req.SamplePairs)
	}

	return req, nil
}

// AccountName trims whitespace and a leading u/ or /u/ from a username.
func AccountName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "/")
	if len(s) >= 2 && strings.EqualFold(s[:2], "u/") {
		s = s[2:]
	}
	return s
}
