package providers

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIProvider implements Completer and Embedder against OpenAI's API.
// It is the only provider that serves embedding calls; the knowledge base
// uses a single embedding model throughout.
type OpenAIProvider struct {
	client *openai.Client
	config OpenAIConfig
}

// NewOpenAIProvider creates a new OpenAI provider with the given configuration
func NewOpenAIProvider(config OpenAIConfig) (*OpenAIProvider, error) {
	if config.Model == "" {
		config.Model = DefaultOpenAIConfig().Model
	}
	if config.EmbeddingModel == "" {
		config.EmbeddingModel = DefaultOpenAIConfig().EmbeddingModel
	}
	if config.EmbeddingDimension == 0 {
		config.EmbeddingDimension = DefaultOpenAIConfig().EmbeddingDimension
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

	if config.Organization != "" {
		opts = append(opts, option.WithHeader("OpenAI-Organization", config.Organization))
	}

	if config.Project != "" {
		opts = append(opts, option.WithHeader("OpenAI-Project", config.Project))
	}

	client := openai.NewClient(opts...)

	return &OpenAIProvider{
		client: &client,
		config: config,
	}, nil
}

// Name returns the provider identifier
func (p *OpenAIProvider) Name() string {
	return string(ProviderOpenAI)
}

// Complete performs a non-streaming chat completion request
func (p *OpenAIProvider) Complete(ctx context.Context, req *CompletionRequest) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.SystemPrompt),
			openai.UserMessage(req.UserMessage),
		},
		Temperature: openai.Float(req.Temperature),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
	}

	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai complete: %w", err)
	}

	if len(completion.Choices) == 0 {
		return "", ErrEmptyCompletion
	}

	return completion.Choices[0].Message.Content, nil
}

// Embed generates an embedding vector for the given text
func (p *OpenAIProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	params := openai.EmbeddingNewParams{
		Model: openai.EmbeddingModel(p.config.EmbeddingModel),
		Input: openai.EmbeddingNewParamsInputUnion{
			OfString: openai.String(text),
		},
	}

	resp, err := p.client.Embeddings.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai embed: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("openai embed: no embeddings returned")
	}

	raw := resp.Data[0].Embedding
	vector := make([]float32, len(raw))
	for i, v := range raw {
		vector[i] = float32(v)
	}

	return vector, nil
}

// Dimension returns the embedding vector length
func (p *OpenAIProvider) Dimension() int {
	return p.config.EmbeddingDimension
}

// ValidateConfig checks if the provider configuration is valid
func (p *OpenAIProvider) ValidateConfig() error {
	return p.config.Validate()
}
