package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abdulachik/redditcompat/internal/corpus"
	"github.com/abdulachik/redditcompat/internal/pipeline"
	"github.com/abdulachik/redditcompat/internal/provider"
)

// hint returns an actionable next step for known error kinds.
func hint(err error) string {
	switch {
	case errors.Is(err, pipeline.ErrInvalidRequest):
		return requestHint(err.Error())
	case errors.Is(err, provider.ErrConfiguration):
		return "set LLM_PROVIDER to one of: " + kindList()
	case errors.Is(err, provider.ErrAuthentication):
		var perr *provider.Error
		if errors.As(err, &perr) {
			return "add the " + perr.Provider + " API key to your environment or .env file; run 'redditcompat providers' to see which are set"
		}
		return "add the provider API key to your environment or .env file"
	case errors.Is(err, provider.ErrDependency):
		return "the provider client could not be created; try another LLM_PROVIDER"
	case errors.Is(err, corpus.ErrUserNotFound):
		return "check the username spelling; the account may be deleted or suspended"
	case errors.Is(err, pipeline.ErrEmptyCorpus):
		return "the account has no posts or comments long enough to compare; try a larger --limit"
	case errors.Is(err, corpus.ErrFetch):
		return "check REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET and your network, then try again"
	case errors.Is(err, provider.ErrGeneration):
		return "the provider call failed; try again or switch LLM_PROVIDER"
	}
	return ""
}

// requestHint picks the fix for whichever validation rule the request broke.
func requestHint(msg string) string {
	switch {
	case strings.Contains(msg, "posts limit"):
		return fmt.Sprintf("pass --limit between 1 and %d, or fix POSTS_LIMIT", pipeline.MaxPostsLimit)
	case strings.Contains(msg, "sample pairs"):
		return "pass a positive --pairs, or fix SAMPLE_PAIRS"
	}
	return "enter two different usernames, without the u/ prefix"
}

func kindList() string {
	names := make([]string, len(provider.Kinds))
	for i, k := range provider.Kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ", ")
}
