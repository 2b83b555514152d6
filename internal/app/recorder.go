package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/db"
	"github.com/abdulachik/redditcompat/internal/pipeline"
)

// Recorder saves analysis runs to the store.
type Recorder struct {
	store *db.Store
}

// NewRecorder creates a Recorder backed by store.
func NewRecorder(store *db.Store) *Recorder {
	return &Recorder{store: store}
}

// Record snapshots both corpora and appends the report to history.
func (r *Recorder) Record(ctx context.Context, res *pipeline.Result) error {
	if err := r.SaveCorpus(ctx, res.Account1, res.Corpus1); err != nil {
		return err
	}
	if err := r.SaveCorpus(ctx, res.Account2, res.Corpus2); err != nil {
		return err
	}

	_, err := r.store.CreateReport(ctx, db.CreateReportParams{
		Account1:    res.Account1,
		Account2:    res.Account2,
		Provider:    res.Provider,
		SamplePairs: int64(len(res.Samples)),
		Report:      res.Report,
		DurationMs:  res.Duration.Milliseconds(),
	})
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	return nil
}

// SaveCorpus replaces the stored snapshot for account.
func (r *Recorder) SaveCorpus(ctx context.Context, account string, c corpus.Corpus) error {
	params := make([]db.InsertCorpusItemParams, 0, len(c))
	for _, item := range c {
		var created int64
		if !item.CreatedAt.IsZero() {
			created = item.CreatedAt.Unix()
		}
		params = append(params, db.InsertCorpusItemParams{
			Body:       item.Body,
			Kind:       string(item.Kind),
			Score:      int64(item.Score),
			Subreddit:  item.Subreddit,
			CreatedUtc: created,
		})
	}

	if err := r.store.ReplaceCorpus(ctx, strings.ToLower(account), params); err != nil {
		return fmt.Errorf("save corpus for u/%s: %w", account, err)
	}
	return nil
}
