package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/adalundhe/relay/core/agent"
	"github.com/adalundhe/relay/core/config"
	"github.com/adalundhe/relay/core/knowledge"
	"github.com/adalundhe/relay/core/memory"
	"github.com/adalundhe/relay/core/plugins"
	"github.com/adalundhe/relay/core/providers"
	"github.com/adalundhe/relay/core/server"
)

var (
	serveConfigPath string
	serveLogLevel   string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the agent HTTP server",
	Long: `Start the HTTP server, seed the knowledge base, and serve the
conversational agent until interrupted.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "path to YAML config file")
	serveCmd.Flags().StringVar(&serveLogLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	// A missing .env file is fine; the environment may already be set
	_ = godotenv.Load()

	logger := newLogger(serveLogLevel)
	slog.SetDefault(logger)

	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// OpenAI is always required: it is the embedding provider for the
	// knowledge base even when another provider handles completions.
	openaiProvider, err := providers.NewOpenAIProvider(cfg.Providers.OpenAI)
	if err != nil {
		return fmt.Errorf("openai provider: %w", err)
	}

	registry := providers.NewRegistry()
	if err := registry.Register(providers.ProviderOpenAI, openaiProvider); err != nil {
		return err
	}

	if cfg.Providers.Anthropic.APIKey != "" {
		anthropicProvider, err := providers.NewAnthropicProvider(cfg.Providers.Anthropic)
		if err != nil {
			return fmt.Errorf("anthropic provider: %w", err)
		}
		if err := registry.Register(providers.ProviderAnthropic, anthropicProvider); err != nil {
			return err
		}
	}

	if cfg.Providers.Google.APIKey != "" {
		googleProvider, err := providers.NewGoogleProvider(ctx, cfg.Providers.Google)
		if err != nil {
			return fmt.Errorf("google provider: %w", err)
		}
		if err := registry.Register(providers.ProviderGoogle, googleProvider); err != nil {
			return err
		}
	}

	if err := registry.SetDefault(providers.ProviderType(cfg.Providers.Default)); err != nil {
		return err
	}
	completer, err := registry.Default()
	if err != nil {
		return err
	}
	logger.Info("providers ready",
		"registered", registry.List(), "default", cfg.Providers.Default)

	store := memory.NewStore(cfg.Memory.MaxMessages, cfg.Memory.IdleTimeout.Std(), logger)

	index := knowledge.NewIndex(openaiProvider, logger)
	if cfg.Knowledge.Seed {
		logger.Info("seeding knowledge base")
		if err := knowledge.Seed(ctx, index, logger); err != nil {
			return err
		}
	}

	dispatcher := plugins.NewDispatcher(logger)
	dispatcher.Register(plugins.NewWeatherPlugin(completer))
	dispatcher.Register(plugins.NewMathPlugin())

	a := agent.New(store, index, dispatcher, completer, logger)

	srv := server.New(a, cfg.Server, logger)
	return srv.Run(ctx)
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: lvl,
	}))
}
