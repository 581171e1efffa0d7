// Package config loads server configuration from YAML with environment
// overrides layered on top. Defaults are always applied first, so a
// missing file or a sparse one still yields a runnable config.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/adalundhe/relay/core/providers"
)

// Duration is a time.Duration that unmarshals from YAML strings like
// "30s" or "24h".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (d Duration) Std() time.Duration { return time.Duration(d) }

func (d Duration) String() string { return time.Duration(d).String() }

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Memory    MemoryConfig    `yaml:"memory"`
	Knowledge KnowledgeConfig `yaml:"knowledge"`
	Providers ProvidersConfig `yaml:"providers"`
}

type ServerConfig struct {
	Addr            string   `yaml:"addr"`
	ReadTimeout     Duration `yaml:"read_timeout"`
	WriteTimeout    Duration `yaml:"write_timeout"`
	ShutdownTimeout Duration `yaml:"shutdown_timeout"`
}

type MemoryConfig struct {
	MaxMessages int      `yaml:"max_messages"`
	IdleTimeout Duration `yaml:"idle_timeout"`
}

type KnowledgeConfig struct {
	Seed bool `yaml:"seed"`
}

type ProvidersConfig struct {
	Default   string                    `yaml:"default"`
	OpenAI    providers.OpenAIConfig    `yaml:"openai"`
	Anthropic providers.AnthropicConfig `yaml:"anthropic"`
	Google    providers.GoogleConfig    `yaml:"google"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":3000",
			ReadTimeout:     Duration(30 * time.Second),
			WriteTimeout:    Duration(2 * time.Minute),
			ShutdownTimeout: Duration(10 * time.Second),
		},
		Memory: MemoryConfig{
			MaxMessages: 100,
			IdleTimeout: Duration(24 * time.Hour),
		},
		Knowledge: KnowledgeConfig{
			Seed: true,
		},
		Providers: ProvidersConfig{
			Default:   string(providers.ProviderOpenAI),
			OpenAI:    providers.DefaultOpenAIConfig(),
			Anthropic: providers.DefaultAnthropicConfig(),
			Google:    providers.DefaultGoogleConfig(),
		},
	}
}

// Load builds the config from defaults, then the YAML file at path if
// one exists, then environment variables.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadYAMLFile(path, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	applyEnvironment(cfg)
	cfg.Providers.Default = strings.ToLower(cfg.Providers.Default)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

func applyEnvironment(cfg *Config) {
	if v := os.Getenv("RELAY_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("RELAY_DEFAULT_PROVIDER"); v != "" {
		cfg.Providers.Default = v
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.Providers.OpenAI.APIKey = v
	}
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		cfg.Providers.OpenAI.BaseURL = v
	}
	if v := os.Getenv("OPENAI_MODEL"); v != "" {
		cfg.Providers.OpenAI.Model = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.Providers.Anthropic.APIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.Providers.Google.APIKey = v
	}
}

// Validate checks cross-field consistency. Provider API keys are
// validated later, at registration, because only the configured default
// and the embedding provider are required to be usable.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server addr must not be empty")
	}
	if c.Memory.MaxMessages <= 0 {
		return fmt.Errorf("memory max_messages must be positive, got %d", c.Memory.MaxMessages)
	}
	if c.Memory.IdleTimeout <= 0 {
		return fmt.Errorf("memory idle_timeout must be positive, got %s", c.Memory.IdleTimeout)
	}
	switch strings.ToLower(c.Providers.Default) {
	case string(providers.ProviderOpenAI),
		string(providers.ProviderAnthropic),
		string(providers.ProviderGoogle):
	default:
		return fmt.Errorf("unknown default provider %q", c.Providers.Default)
	}

	return nil
}
