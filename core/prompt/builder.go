// Package prompt assembles the system prompt handed to the completion
// provider. Assembly is a pure function of its context: identical input
// produces byte-identical output.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/adalundhe/relay/core/knowledge"
	"github.com/adalundhe/relay/core/memory"
	"github.com/adalundhe/relay/core/plugins"
)

// Context carries the three optional context sources merged into the
// system prompt. Each sequence is already ordered by its producer.
type Context struct {
	RecentHistory  []memory.Message
	RelevantChunks []knowledge.SearchResult
	PluginResults  []plugins.Result
}

const preamble = `You are an intelligent AI assistant with access to a knowledge base and various tools. Your goal is to provide helpful, accurate, and contextual responses.

## Core Instructions:
- Be conversational and helpful
- Use the provided context and memory to give relevant responses
- If you used plugin results, integrate them naturally into your response
- Be concise but thorough
- If you don't know something, say so honestly

`

const closing = `## Response Guidelines:
- Integrate all available context naturally
- If plugin results are available, use them to enhance your response
- Reference the knowledge base when relevant
- Maintain conversation continuity using the chat history
- Be helpful and engaging

Now respond to the user's message:`

// BuildSystemPrompt renders the instruction text: preamble, then each
// non-empty context section in fixed order, then the closing
// guidelines. Empty sections are omitted entirely, heading included.
func BuildSystemPrompt(ctx Context) string {
	var b strings.Builder

	b.WriteString(preamble)

	if len(ctx.RecentHistory) > 0 {
		b.WriteString("## Recent Conversation History:\n")
		for _, msg := range ctx.RecentHistory {
			fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
		}
		b.WriteString("\n")
	}

	if len(ctx.RelevantChunks) > 0 {
		b.WriteString("## Relevant Knowledge Base Context:\n")
		for i, chunk := range ctx.RelevantChunks {
			fmt.Fprintf(&b, "[Context %d] (Similarity: %.3f)\n%s\n\n",
				i+1, chunk.Similarity, chunk.Document.Content)
		}
	}

	if len(ctx.PluginResults) > 0 {
		b.WriteString("## Tool/Plugin Results:\n")
		for _, result := range ctx.PluginResults {
			if result.Success {
				fmt.Fprintf(&b, "[%s] %s\n\n", result.PluginName, prettyJSON(result.Result))
			} else {
				fmt.Fprintf(&b, "[%s] Error: %s\n\n", result.PluginName, result.Error)
			}
		}
	}

	b.WriteString(closing)
	return b.String()
}

// prettyJSON renders a plugin payload as indented JSON. Map keys
// marshal in sorted order, keeping output deterministic.
func prettyJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
