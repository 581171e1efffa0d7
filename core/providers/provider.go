package providers

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned when a provider responds successfully
// but produces no text.
var ErrEmptyCompletion = errors.New("provider returned empty completion")

// CompletionRequest describes a single system-prompt + user-message
// completion call.
type CompletionRequest struct {
	SystemPrompt string  `json:"system_prompt"`
	UserMessage  string  `json:"user_message"`
	Temperature  float64 `json:"temperature"`
	MaxTokens    int     `json:"max_tokens"`
}

// Completer generates text for an assembled prompt. Implementations are
// network-bound and must honor ctx cancellation.
type Completer interface {
	Name() string
	Complete(ctx context.Context, req *CompletionRequest) (string, error)
}

// Embedder maps text to a fixed-length vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

type CompleterValidator interface {
	ValidateConfig() error
}

type ProviderType string

const (
	ProviderOpenAI    ProviderType = "openai"
	ProviderAnthropic ProviderType = "anthropic"
	ProviderGoogle    ProviderType = "google"
)
