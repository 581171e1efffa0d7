package providers

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicProvider implements Completer for Anthropic's Claude models
type AnthropicProvider struct {
	client *anthropic.Client
	config AnthropicConfig
}

// NewAnthropicProvider creates a new Anthropic provider with the given configuration
func NewAnthropicProvider(config AnthropicConfig) (*AnthropicProvider, error) {
	if config.Model == "" {
		config.Model = DefaultAnthropicConfig().Model
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
	}

	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(config.BaseURL))
	}

	client := anthropic.NewClient(opts...)

	return &AnthropicProvider{
		client: &client,
		config: config,
	}, nil
}

// Name returns the provider identifier
func (p *AnthropicProvider) Name() string {
	return string(ProviderAnthropic)
}

// Complete performs a non-streaming completion request
func (p *AnthropicProvider) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(p.config.Model),
		MaxTokens:   int64(req.MaxTokens),
		Temperature: anthropic.Float(req.Temperature),
		System: []anthropic.TextBlockParam{
			{Text: req.SystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.UserMessage)),
		},
	}

	msg, err := p.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("anthropic complete: %w", err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}

	if sb.Len() == 0 {
		return "", ErrEmptyCompletion
	}

	return sb.String(), nil
}

// ValidateConfig checks if the provider configuration is valid
func (p *AnthropicProvider) ValidateConfig() error {
	return p.config.Validate()
}
