package agent

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/relay/core/knowledge"
	"github.com/adalundhe/relay/core/memory"
	"github.com/adalundhe/relay/core/plugins"
	"github.com/adalundhe/relay/core/providers"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0, 0}, nil
}

func (fakeEmbedder) Dimension() int { return 3 }

type fakeCompleter struct {
	response string
	err      error
	lastReq  *providers.CompletionRequest
	calls    int
}

func (f *fakeCompleter) Name() string { return "fake" }

func (f *fakeCompleter) Complete(_ context.Context, req *providers.CompletionRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type echoPlugin struct{}

func (echoPlugin) Name() string          { return "Echo" }
func (echoPlugin) Description() string   { return "echoes the message" }
func (echoPlugin) CanHandle(string) bool { return true }

func (echoPlugin) Execute(_ context.Context, message string) (any, error) {
	return map[string]any{"echo": message}, nil
}

func newTestAgent(completer providers.Completer) *Agent {
	store := memory.NewStore(0, 0, nil)
	index := knowledge.NewIndex(fakeEmbedder{}, nil)
	dispatcher := plugins.NewDispatcher(nil)
	dispatcher.Register(echoPlugin{})
	return New(store, index, dispatcher, completer, nil)
}

func TestProcessMessage_RecordsBothTurns(t *testing.T) {
	completer := &fakeCompleter{response: "hello back"}
	a := newTestAgent(completer)

	resp, err := a.ProcessMessage(context.Background(), "s1", "hello")
	require.NoError(t, err)

	assert.Equal(t, "hello back", resp.Response)
	assert.Equal(t, "s1", resp.SessionID)
	assert.False(t, resp.Timestamp.IsZero())

	history := a.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, memory.RoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, memory.RoleAssistant, history[1].Role)
	assert.Equal(t, "hello back", history[1].Content)
}

func TestProcessMessage_CompletionParameters(t *testing.T) {
	completer := &fakeCompleter{response: "ok"}
	a := newTestAgent(completer)

	_, err := a.ProcessMessage(context.Background(), "s1", "hello")
	require.NoError(t, err)

	require.NotNil(t, completer.lastReq)
	assert.Equal(t, "hello", completer.lastReq.UserMessage)
	assert.Equal(t, 0.7, completer.lastReq.Temperature)
	assert.Equal(t, 1000, completer.lastReq.MaxTokens)
	assert.Contains(t, completer.lastReq.SystemPrompt, "## Tool/Plugin Results:")
	assert.Contains(t, completer.lastReq.SystemPrompt, "## Recent Conversation History:")
}

func TestProcessMessage_EmptyCompletionGetsFallback(t *testing.T) {
	completer := &fakeCompleter{response: ""}
	a := newTestAgent(completer)

	resp, err := a.ProcessMessage(context.Background(), "s1", "hello")
	require.NoError(t, err)

	assert.Equal(t, fallbackResponse, resp.Response)
	history := a.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, fallbackResponse, history[1].Content)
}

func TestProcessMessage_EmptyCompletionErrorGetsFallback(t *testing.T) {
	completer := &fakeCompleter{err: providers.ErrEmptyCompletion}
	a := newTestAgent(completer)

	resp, err := a.ProcessMessage(context.Background(), "s1", "hello")
	require.NoError(t, err)

	assert.Equal(t, fallbackResponse, resp.Response)
	history := a.History("s1")
	require.Len(t, history, 2)
	assert.Equal(t, fallbackResponse, history[1].Content)
}

func TestProcessMessage_WrappedEmptyCompletionErrorGetsFallback(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("openai complete: %w", providers.ErrEmptyCompletion)}
	a := newTestAgent(completer)

	resp, err := a.ProcessMessage(context.Background(), "s1", "hello")
	require.NoError(t, err)

	assert.Equal(t, fallbackResponse, resp.Response)
}

func TestProcessMessage_CompletionFailureKeepsUserTurn(t *testing.T) {
	completer := &fakeCompleter{err: fmt.Errorf("provider down")}
	a := newTestAgent(completer)

	_, err := a.ProcessMessage(context.Background(), "s1", "hello")
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to process message")

	// The user turn stays in history even though the turn failed
	history := a.History("s1")
	require.Len(t, history, 1)
	assert.Equal(t, memory.RoleUser, history[0].Role)
}

func TestProcessMessage_ReportsPluginUsage(t *testing.T) {
	completer := &fakeCompleter{response: "ok"}
	a := newTestAgent(completer)

	resp, err := a.ProcessMessage(context.Background(), "s1", "hello")
	require.NoError(t, err)

	assert.Equal(t, []string{"Echo"}, resp.PluginsUsed)
	require.Len(t, resp.PluginResults, 1)
	assert.True(t, resp.PluginResults[0].Success)
}

func TestProcessMessage_SearchContextReachesPrompt(t *testing.T) {
	completer := &fakeCompleter{response: "ok"}

	store := memory.NewStore(0, 0, nil)
	index := knowledge.NewIndex(fakeEmbedder{}, nil)
	require.NoError(t, index.AddDocument(context.Background(), "d1", "retrieval facts", nil))

	a := New(store, index, plugins.NewDispatcher(nil), completer, nil)

	resp, err := a.ProcessMessage(context.Background(), "s1", "hello")
	require.NoError(t, err)

	assert.Equal(t, 1, resp.ContextUsed)
	assert.Contains(t, completer.lastReq.SystemPrompt, "retrieval facts")
}

func TestClearSession_ThenHistoryIsEmpty(t *testing.T) {
	completer := &fakeCompleter{response: "ok"}
	a := newTestAgent(completer)

	_, err := a.ProcessMessage(context.Background(), "s1", "hello")
	require.NoError(t, err)

	a.ClearSession("s1")
	assert.Empty(t, a.History("s1"))
}

func TestPlugins_ListsRegistered(t *testing.T) {
	a := newTestAgent(&fakeCompleter{})

	infos := a.Plugins()
	require.Len(t, infos, 1)
	assert.Equal(t, "Echo", infos[0].Name)
}
