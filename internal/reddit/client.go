// Package reddit fetches a user's public submissions and comments.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/abdulachik/redditcompat/internal/corpus"
)

const (
	redditAuthURL      = "https://www.reddit.com/api/v1/access_token"
	redditAPIURL       = "https://oauth.reddit.com"
	defaultUserAgent   = "CompatibilityAnalyzer/1.0"
	defaultFetchDelay  = 2 * time.Second
	maxListingPageSize = 100
)

// Client fetches user listings through the Reddit OAuth API.
type Client struct {
	httpClient   *http.Client
	authURL      string
	apiURL       string
	clientID     string
	clientSecret string
	userAgent    string
	limiter      *rate.Limiter

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

// Config holds configuration for the Reddit client.
type Config struct {
	ClientID     string
	ClientSecret string
	UserAgent    string

	// FetchDelay is the minimum gap between two consecutive user fetches.
	// Zero uses the default; a negative value disables the delay.
	FetchDelay time.Duration

	AuthURL    string
	APIURL     string
	HTTPClient *http.Client
}

// New creates a new Reddit client.
func New(cfg Config) *Client {
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	authURL := cfg.AuthURL
	if authURL == "" {
		authURL = redditAuthURL
	}
	apiURL := strings.TrimRight(cfg.APIURL, "/")
	if apiURL == "" {
		apiURL = redditAPIURL
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 30 * time.Second,
		}
	}

	delay := cfg.FetchDelay
	if delay == 0 {
		delay = defaultFetchDelay
	}
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}

	return &Client{
		httpClient:   httpClient,
		authURL:      authURL,
		apiURL:       apiURL,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		userAgent:    userAgent,
		limiter:      rate.NewLimiter(limit, 1),
	}
}

// listing represents a Reddit API listing of submissions (t3) or comments (t1).
type listing struct {
	Data struct {
		Children []struct {
			Kind string `json:"kind"`
			Data struct {
				Title      string  `json:"title"`
				Selftext   string  `json:"selftext"`
				Body       string  `json:"body"`
				Score      int     `json:"score"`
				Subreddit  string  `json:"subreddit"`
				CreatedUTC float64 `json:"created_utc"`
			} `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

// FetchUser retrieves up to limit/2 newest submissions and limit/2 newest
// comments for account, drops short bodies, and orders the result by score.
func (c *Client) FetchUser(ctx context.Context, account string, limit int) (corpus.Corpus, error) {
	account = strings.TrimPrefix(strings.TrimSpace(account), "u/")
	if account == "" {
		return nil, fmt.Errorf("%w: empty account name", corpus.ErrFetch)
	}
	if c.clientID == "" || c.clientSecret == "" {
		return nil, fmt.Errorf("%w: Reddit API credentials required (REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET)", corpus.ErrFetch)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: wait for rate limit: %v", corpus.ErrFetch, err)
	}

	slog.Info("fetching posts", "account", account, "limit", limit)

	if err := c.ensureAccessToken(ctx); err != nil {
		return nil, fmt.Errorf("%w: get access token: %v", corpus.ErrFetch, err)
	}

	perKind := limit / 2
	if perKind > maxListingPageSize {
		perKind = maxListingPageSize
	}

	var items corpus.Corpus
	if perKind > 0 {
		submissions, err := c.fetchListing(ctx, account, "submitted", perKind)
		if err != nil {
			return nil, err
		}
		items = append(items, submissions...)

		comments, err := c.fetchListing(ctx, account, "comments", perKind)
		if err != nil {
			return nil, err
		}
		items = append(items, comments...)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Score > items[j].Score
	})

	if len(items) == 0 {
		slog.Warn("no posts found", "account", account)
	} else {
		slog.Info("fetched posts", "account", account, "count", len(items))
	}

	return items, nil
}

func (c *Client) ensureAccessToken(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return nil
	}

	data := url.Values{}
	data.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, "POST", c.authURL,
		strings.NewReader(data.Encode()))
	if err != nil {
		return err
	}

	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Reddit auth failed (status %d): %s", resp.StatusCode, string(body))
	}

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return err
	}
	if tokenResp.AccessToken == "" {
		return fmt.Errorf("Reddit auth returned no access token")
	}

	c.accessToken = tokenResp.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn-60) * time.Second)

	slog.Debug("obtained Reddit access token",
		"expires_in", tokenResp.ExpiresIn,
	)

	return nil
}

func (c *Client) token() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

func (c *Client) fetchListing(ctx context.Context, account, section string, limit int) (corpus.Corpus, error) {
	endpoint := fmt.Sprintf("%s/user/%s/%s?limit=%d&sort=new&raw_json=1",
		c.apiURL, url.PathEscape(account), section, limit)

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", corpus.ErrFetch, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token())
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", corpus.ErrFetch, account, section, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %w: u/%s", corpus.ErrFetch, corpus.ErrUserNotFound, account)
	case resp.StatusCode == http.StatusForbidden:
		// Suspended accounts answer 403 on their listings.
		return nil, fmt.Errorf("%w: %w: u/%s is suspended", corpus.ErrFetch, corpus.ErrUserNotFound, account)
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: Reddit API error (status %d): %s", corpus.ErrFetch, resp.StatusCode, string(body))
	}

	var l listing
	if err := json.NewDecoder(resp.Body).Decode(&l); err != nil {
		return nil, fmt.Errorf("%w: decode %s listing: %v", corpus.ErrFetch, section, err)
	}

	items := make(corpus.Corpus, 0, len(l.Data.Children))
	for _, child := range l.Data.Children {
		post := child.Data

		item := corpus.TextItem{
			Score:     post.Score,
			CreatedAt: time.Unix(int64(post.CreatedUTC), 0).UTC(),
			Subreddit: post.Subreddit,
		}
		if child.Kind == "t1" {
			item.Kind = corpus.KindComment
			item.Body = strings.TrimSpace(post.Body)
		} else {
			item.Kind = corpus.KindSubmission
			item.Body = strings.TrimSpace(post.Title + ". " + post.Selftext)
		}

		if !corpus.Qualifies(item.Body) {
			continue
		}
		items = append(items, item)
	}

	return items, nil
}
