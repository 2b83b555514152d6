package provider

import (
	"context"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// openaiBackend speaks the chat completions API. Groq serves the same API
// under its own base URL.
type openaiBackend struct {
	client openai.Client
	model  string
}

func newOpenAIBackend(apiKey, baseURL, model string, httpClient *http.Client) *openaiBackend {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	return &openaiBackend{
		client: openai.NewClient(opts...),
		model:  model,
	}
}

func (b *openaiBackend) generate(ctx context.Context, prompt string, opts Options) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: b.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(*opts.Temperature),
		MaxTokens:   openai.Int(int64(opts.MaxTokens)),
	}

	resp, err := b.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return resp.Choices[0].Message.Content, nil
}
