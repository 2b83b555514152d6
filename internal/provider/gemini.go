package provider

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/genai"
)

type geminiBackend struct {
	client *genai.Client
	model  string
}

func newGeminiBackend(apiKey, baseURL, model string, httpClient *http.Client) (*geminiBackend, error) {
	cfg := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	client, err := genai.NewClient(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &geminiBackend{
		client: client,
		model:  model,
	}, nil
}

func (b *geminiBackend) generate(ctx context.Context, prompt string, opts Options) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(*opts.Temperature)),
		MaxOutputTokens: int32(opts.MaxTokens),
	}

	resp, err := b.client.Models.GenerateContent(ctx, b.model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	return resp.Text(), nil
}
