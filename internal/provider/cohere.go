package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const cohereAPIURL = "https://api.cohere.com"

// cohereBackend is a client for the Cohere v2 chat API.
type cohereBackend struct {
	apiKey     string
	url        string
	model      string
	httpClient *http.Client
}

func newCohereBackend(apiKey, baseURL, model string, httpClient *http.Client) *cohereBackend {
	if baseURL == "" {
		baseURL = cohereAPIURL
	}
	return &cohereBackend{
		apiKey:     apiKey,
		url:        strings.TrimRight(baseURL, "/") + "/v2/chat",
		model:      model,
		httpClient: httpClient,
	}
}

type cohereMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// cohereRequest is the request body for the chat API.
type cohereRequest struct {
	Model       string          `json:"model"`
	Messages    []cohereMessage `json:"messages"`
	Temperature float64         `json:"temperature"`
	MaxTokens   int             `json:"max_tokens"`
}

// cohereResponse is the response from the chat API.
type cohereResponse struct {
	ID           string `json:"id"`
	FinishReason string `json:"finish_reason"`
	Message      struct {
		Role    string `json:"role"`
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	} `json:"message"`
}

func (b *cohereBackend) generate(ctx context.Context, prompt string, opts Options) (string, error) {
	req := cohereRequest{
		Model: b.model,
		Messages: []cohereMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: *opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	body, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", b.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+b.apiKey)

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(respBody))
	}

	var cohereResp cohereResponse
	if err := json.Unmarshal(respBody, &cohereResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}

	for _, c := range cohereResp.Message.Content {
		if c.Type == "text" {
			return c.Text, nil
		}
	}

	return "", fmt.Errorf("empty response from API")
}
