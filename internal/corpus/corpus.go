// Package corpus holds the text contributions fetched for one account and the
// fetch/cache plumbing around them.
package corpus

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"
)

// MinBodyLength is the length a body must exceed to be kept.
const MinBodyLength = 10

// ErrFetch is the sentinel for every corpus retrieval failure.
var ErrFetch = errors.New("fetch failed")

// ErrUserNotFound is returned when the upstream account does not exist.
var ErrUserNotFound = errors.New("user not found")

// Kind distinguishes submissions from comments.
type Kind string

const (
	KindSubmission Kind = "submission"
	KindComment    Kind = "comment"
)

// TextItem is one post or comment body with its metadata.
type TextItem struct {
	Body      string    `json:"text"`
	Kind      Kind      `json:"type"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
	Subreddit string    `json:"subreddit"`
}

// Corpus is the ordered collection of items for one account.
type Corpus []TextItem

// Bodies returns the item bodies in corpus order.
func (c Corpus) Bodies() []string {
	bodies := make([]string, len(c))
	for i, item := range c {
		bodies[i] = item.Body
	}
	return bodies
}

// Head returns at most n items from the front of the corpus.
func (c Corpus) Head(n int) Corpus {
	if n < 0 {
		n = 0
	}
	if n > len(c) {
		n = len(c)
	}
	return c[:n]
}

// Qualifies reports whether a body is long enough to keep.
func Qualifies(body string) bool {
	return utf8.RuneCountInString(body) > MinBodyLength
}

// Fetcher retrieves the corpus for an account.
// An existing account with no qualifying content yields an empty corpus, not an error.
type Fetcher interface {
	FetchUser(ctx context.Context, account string, limit int) (Corpus, error)
}
