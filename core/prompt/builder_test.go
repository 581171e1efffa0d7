package prompt

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adalundhe/relay/core/knowledge"
	"github.com/adalundhe/relay/core/memory"
	"github.com/adalundhe/relay/core/plugins"
)

func TestBuildSystemPrompt_EmptyContextOmitsOptionalSections(t *testing.T) {
	got := BuildSystemPrompt(Context{})

	assert.True(t, strings.HasPrefix(got, "You are an intelligent AI assistant"))
	assert.True(t, strings.HasSuffix(got, "Now respond to the user's message:"))
	assert.Contains(t, got, "## Core Instructions:")
	assert.Contains(t, got, "## Response Guidelines:")

	assert.NotContains(t, got, "## Recent Conversation History:")
	assert.NotContains(t, got, "## Relevant Knowledge Base Context:")
	assert.NotContains(t, got, "## Tool/Plugin Results:")
}

func TestBuildSystemPrompt_HistorySection(t *testing.T) {
	got := BuildSystemPrompt(Context{
		RecentHistory: []memory.Message{
			{Role: memory.RoleUser, Content: "hi", Timestamp: time.Now()},
			{Role: memory.RoleAssistant, Content: "hello!", Timestamp: time.Now()},
		},
	})

	assert.Contains(t, got, "## Recent Conversation History:\nuser: hi\nassistant: hello!\n")
}

func TestBuildSystemPrompt_KnowledgeSectionNumbersChunks(t *testing.T) {
	got := BuildSystemPrompt(Context{
		RelevantChunks: []knowledge.SearchResult{
			{Document: knowledge.Document{ID: "a", Content: "first chunk"}, Similarity: 0.91234},
			{Document: knowledge.Document{ID: "b", Content: "second chunk"}, Similarity: 0.5},
		},
	})

	assert.Contains(t, got, "[Context 1] (Similarity: 0.912)\nfirst chunk")
	assert.Contains(t, got, "[Context 2] (Similarity: 0.500)\nsecond chunk")
}

func TestBuildSystemPrompt_PluginSection(t *testing.T) {
	got := BuildSystemPrompt(Context{
		PluginResults: []plugins.Result{
			{PluginName: "Math", Result: map[string]any{"answer": 4}, Success: true},
			{PluginName: "Weather", Success: false, Error: "provider down"},
		},
	})

	assert.Contains(t, got, "## Tool/Plugin Results:")
	assert.Contains(t, got, "[Math] {\n  \"answer\": 4\n}")
	assert.Contains(t, got, "[Weather] Error: provider down")
}

func TestBuildSystemPrompt_SectionOrderIsFixed(t *testing.T) {
	got := BuildSystemPrompt(Context{
		RecentHistory:  []memory.Message{{Role: memory.RoleUser, Content: "hi"}},
		RelevantChunks: []knowledge.SearchResult{{Document: knowledge.Document{Content: "chunk"}}},
		PluginResults:  []plugins.Result{{PluginName: "Math", Result: 1, Success: true}},
	})

	history := strings.Index(got, "## Recent Conversation History:")
	chunks := strings.Index(got, "## Relevant Knowledge Base Context:")
	tools := strings.Index(got, "## Tool/Plugin Results:")
	guidelines := strings.Index(got, "## Response Guidelines:")

	require.True(t, history >= 0 && chunks >= 0 && tools >= 0 && guidelines >= 0)
	assert.Less(t, history, chunks)
	assert.Less(t, chunks, tools)
	assert.Less(t, tools, guidelines)
}

func TestBuildSystemPrompt_Deterministic(t *testing.T) {
	ctx := Context{
		RecentHistory: []memory.Message{{Role: memory.RoleUser, Content: "hi"}},
		PluginResults: []plugins.Result{
			{
				PluginName: "Math",
				// Multiple keys exercise deterministic map marshaling
				Result:  map[string]any{"b": 2, "a": 1, "c": 3},
				Success: true,
			},
		},
	}

	first := BuildSystemPrompt(ctx)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, BuildSystemPrompt(ctx))
	}
}
