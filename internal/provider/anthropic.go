package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicBackend struct {
	client anthropic.Client
	model  string
}

func newAnthropicBackend(apiKey, baseURL, model string, httpClient *http.Client) *anthropicBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &anthropicBackend{
		client: anthropic.NewClient(opts...),
		model:  model,
	}
}

func (b *anthropicBackend) generate(ctx context.Context, prompt string, opts Options) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(b.model),
		MaxTokens: int64(opts.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(*opts.Temperature),
	}

	resp, err := b.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("create message: %w", err)
	}

	for _, block := range resp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}

	return "", fmt.Errorf("no text content in response")
}
