package providers

import (
	"context"
	"fmt"

	"google.golang.org/genai"
)

// GoogleProvider implements Completer for Google's Gemini models
type GoogleProvider struct {
	client *genai.Client
	config GoogleConfig
}

// NewGoogleProvider creates a new Google provider with the given configuration
func NewGoogleProvider(ctx context.Context, config GoogleConfig) (*GoogleProvider, error) {
	if config.Model == "" {
		config.Model = DefaultGoogleConfig().Model
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("google client: %w", err)
	}

	return &GoogleProvider{
		client: client,
		config: config,
	}, nil
}

// Name returns the provider identifier
func (p *GoogleProvider) Name() string {
	return string(ProviderGoogle)
}

// Complete performs a non-streaming completion request
func (p *GoogleProvider) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(float32(req.Temperature)),
		MaxOutputTokens: int32(req.MaxTokens),
	}
	if req.SystemPrompt != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemPrompt, genai.RoleUser)
	}

	resp, err := p.client.Models.GenerateContent(ctx, p.config.Model, genai.Text(req.UserMessage), cfg)
	if err != nil {
		return "", fmt.Errorf("google complete: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}

	return text, nil
}

// ValidateConfig checks if the provider configuration is valid
func (p *GoogleProvider) ValidateConfig() error {
	return p.config.Validate()
}
