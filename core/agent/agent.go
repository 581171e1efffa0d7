// Package agent orchestrates a single conversational turn: memory,
// retrieval, plugins, prompt assembly, and completion.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/adalundhe/relay/core/knowledge"
	"github.com/adalundhe/relay/core/memory"
	"github.com/adalundhe/relay/core/plugins"
	"github.com/adalundhe/relay/core/prompt"
	"github.com/adalundhe/relay/core/providers"
)

const (
	// completionTemperature and completionMaxTokens govern the main
	// response generation call
	completionTemperature = 0.7
	completionMaxTokens   = 1000

	// searchTopK is how many knowledge chunks are retrieved per turn
	searchTopK = 3

	// recentMessageCount is how much conversation history feeds the prompt
	recentMessageCount = 4

	fallbackResponse = "I apologize, but I could not generate a response."
)

// Response is the outcome of one processed message
type Response struct {
	Response      string           `json:"response"`
	SessionID     string           `json:"sessionId"`
	Timestamp     time.Time        `json:"timestamp"`
	ContextUsed   int              `json:"contextUsed"`
	PluginsUsed   []string         `json:"pluginsUsed"`
	PluginResults []plugins.Result `json:"pluginResults,omitempty"`
}

// Agent wires the conversational pipeline together. All collaborators
// are injected; Agent itself holds no mutable state.
type Agent struct {
	store      *memory.Store
	index      *knowledge.Index
	dispatcher *plugins.Dispatcher
	completer  providers.Completer
	logger     *slog.Logger
}

// New creates an agent from its collaborators
func New(
	store *memory.Store,
	index *knowledge.Index,
	dispatcher *plugins.Dispatcher,
	completer providers.Completer,
	logger *slog.Logger,
) *Agent {
	if logger == nil {
		logger = slog.Default()
	}

	return &Agent{
		store:      store,
		index:      index,
		dispatcher: dispatcher,
		completer:  completer,
		logger:     logger,
	}
}

// ProcessMessage runs the full pipeline for one user message. The user
// turn is recorded before anything else, so a failed completion still
// leaves the message in history. Retrieval and plugin failures degrade
// to missing context; only a failed completion call fails the turn.
func (a *Agent) ProcessMessage(ctx context.Context, sessionID, message string) (*Response, error) {
	started := time.Now()

	a.store.AddMessage(sessionID, memory.RoleUser, message)

	chunks := a.index.Search(ctx, message, searchTopK)
	recent := a.store.RecentMessages(sessionID, recentMessageCount)
	pluginResults := a.dispatcher.Dispatch(ctx, message)

	systemPrompt := prompt.BuildSystemPrompt(prompt.Context{
		RecentHistory:  recent,
		RelevantChunks: chunks,
		PluginResults:  pluginResults,
	})

	completion, err := a.completer.Complete(ctx, &providers.CompletionRequest{
		SystemPrompt: systemPrompt,
		UserMessage:  message,
		Temperature:  completionTemperature,
		MaxTokens:    completionMaxTokens,
	})
	switch {
	case errors.Is(err, providers.ErrEmptyCompletion):
		// A provider that answered with no text is not a failed turn
		completion = fallbackResponse
	case err != nil:
		a.logger.Error("completion failed",
			"session_id", sessionID, "error", err)
		return nil, fmt.Errorf("failed to process message: %w", err)
	case completion == "":
		completion = fallbackResponse
	}

	a.store.AddMessage(sessionID, memory.RoleAssistant, completion)

	pluginsUsed := make([]string, 0, len(pluginResults))
	for _, result := range pluginResults {
		pluginsUsed = append(pluginsUsed, result.PluginName)
	}

	a.logger.Info("processed message",
		"session_id", sessionID,
		"context_chunks", len(chunks),
		"plugins", len(pluginResults),
		"duration", time.Since(started))

	return &Response{
		Response:      completion,
		SessionID:     sessionID,
		Timestamp:     time.Now().UTC(),
		ContextUsed:   len(chunks),
		PluginsUsed:   pluginsUsed,
		PluginResults: pluginResults,
	}, nil
}

// History returns the session's full conversation log
func (a *Agent) History(sessionID string) []memory.Message {
	return a.store.History(sessionID)
}

// ClearSession removes a session's history
func (a *Agent) ClearSession(sessionID string) {
	a.store.Clear(sessionID)
}

// Plugins lists the registered plugins
func (a *Agent) Plugins() []plugins.Info {
	return a.dispatcher.Available()
}
