// Package openai provides an intelligence.Provider backed by the OpenAI Chat
// Completions API. It adapts a plain prompt into a single-turn chat request
// and returns the first choice's text.
package openai

import (
	"context"
	"fmt"

	"github.com/hupe1980/interviewmesh/intelligence"
	"github.com/openai/openai-go"
)

// Options configure the OpenAI provider adapter.
type Options struct {
	Model string
}

// Provider wraps the OpenAI Chat Completions API behind the generic
// intelligence.Provider interface.
type Provider struct {
	client *openai.Client
	opts   Options
}

// NewProvider creates a new OpenAI provider using the official client.
func NewProvider(optFns ...func(o *Options)) *Provider {
	client := openai.NewClient()
	return NewProviderFromClient(&client, optFns...)
}

// NewProviderFromClient creates a new OpenAI provider from an existing client.
func NewProviderFromClient(client *openai.Client, optFns ...func(o *Options)) *Provider {
	opts := Options{
		Model: openai.ChatModelGPT4oMini,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Provider{client: client, opts: opts}
}

// Generate implements intelligence.Provider.
func (p *Provider) Generate(ctx context.Context, prompt string, cfg intelligence.GenerationConfig) (string, error) {
	params := openai.ChatCompletionNewParams{
		Messages:            []openai.ChatCompletionMessageParamUnion{openai.UserMessage(prompt)},
		Model:               p.opts.Model,
		Temperature:         openai.Float(cfg.Temperature),
		MaxCompletionTokens: openai.Int(cfg.MaxTokens),
	}
	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai api error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

// Name implements intelligence.Provider.
func (p *Provider) Name() string { return "openai" }
