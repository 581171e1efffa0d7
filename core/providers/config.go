package providers

import (
	"fmt"
	"time"
)

// BaseConfig contains configuration common to all providers
type BaseConfig struct {
	// APIKey is the authentication key for the provider
	APIKey string `json:"api_key" yaml:"api_key"`

	// Model is the default model to use
	Model string `json:"model" yaml:"model"`

	// Timeout for API requests
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// MaxRetries for transient failures
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// DefaultBaseConfig returns sensible defaults
func DefaultBaseConfig() BaseConfig {
	return BaseConfig{
		Timeout:    2 * time.Minute,
		MaxRetries: 3,
	}
}

// Validate checks the base configuration
func (c *BaseConfig) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("api_key is required")
	}
	if c.Model == "" {
		return fmt.Errorf("model is required")
	}
	return nil
}

// OpenAIConfig contains OpenAI-specific configuration
type OpenAIConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`

	// BaseURL overrides the default API endpoint
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// Organization is the OpenAI organization header
	Organization string `json:"organization,omitempty" yaml:"organization,omitempty"`

	// Project is the OpenAI project header
	Project string `json:"project,omitempty" yaml:"project,omitempty"`

	// EmbeddingModel is the model used for embedding calls
	EmbeddingModel string `json:"embedding_model" yaml:"embedding_model"`

	// EmbeddingDimension is the vector length produced by EmbeddingModel
	EmbeddingDimension int `json:"embedding_dimension" yaml:"embedding_dimension"`
}

// DefaultOpenAIConfig returns OpenAI defaults
func DefaultOpenAIConfig() OpenAIConfig {
	base := DefaultBaseConfig()
	base.Model = "gpt-4"

	return OpenAIConfig{
		BaseConfig:         base,
		EmbeddingModel:     "text-embedding-3-small",
		EmbeddingDimension: 1536,
	}
}

// Validate checks OpenAI-specific configuration
func (c *OpenAIConfig) Validate() error {
	if err := c.BaseConfig.Validate(); err != nil {
		return err
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("embedding_model is required")
	}
	if c.EmbeddingDimension <= 0 {
		return fmt.Errorf("embedding_dimension must be positive")
	}
	return nil
}

// AnthropicConfig contains Anthropic-specific configuration
type AnthropicConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`

	// BaseURL overrides the default API endpoint
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`
}

// DefaultAnthropicConfig returns Anthropic defaults
func DefaultAnthropicConfig() AnthropicConfig {
	base := DefaultBaseConfig()
	base.Model = "claude-sonnet-4-5-20250901"

	return AnthropicConfig{BaseConfig: base}
}

// Validate checks Anthropic-specific configuration
func (c *AnthropicConfig) Validate() error {
	return c.BaseConfig.Validate()
}

// GoogleConfig contains Google/Gemini-specific configuration
type GoogleConfig struct {
	BaseConfig `json:",inline" yaml:",inline"`
}

// DefaultGoogleConfig returns Google/Gemini defaults
func DefaultGoogleConfig() GoogleConfig {
	base := DefaultBaseConfig()
	base.Model = "gemini-2.5-flash"

	return GoogleConfig{BaseConfig: base}
}

// Validate checks Google-specific configuration
func (c *GoogleConfig) Validate() error {
	return c.BaseConfig.Validate()
}
