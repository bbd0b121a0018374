// Package llmgw is a thin facade over the Gemini generative API: instance
// caching, API-key rotation, task-aware thinking/temperature policy,
// content-block parsing, and exception translation into the apierrors
// taxonomy.
package llmgw

import "encoding/json"

// Message is one turn of conversation history passed to the model.
type Message struct {
	Role    string // "system" | "user" | "assistant"
	Content string
}

// ToolSchema describes a callable function the model may invoke.
type ToolSchema struct {
	Name        string
	Description string
	Parameters  map[string]any
}

// ToolCall is a function-call request returned by the model.
type ToolCall struct {
	Name string
	Args json.RawMessage
	ID   string
}

// ContentBlockType classifies a parsed content block.
type ContentBlockType string

const (
	BlockText      ContentBlockType = "text"
	BlockReasoning ContentBlockType = "reasoning"
	BlockToolCall  ContentBlockType = "tool_call"
	BlockUnknown   ContentBlockType = "unknown"
)

// ContentBlock is one classified unit of a possibly-heterogeneous response.
type ContentBlock struct {
	Type     ContentBlockType
	Content  string
	ToolName string
	ToolArgs map[string]any
	ToolID   string
}

// Usage captures token accounting for one call, including the optional
// reasoning/thinking token count.
type Usage struct {
	InputTokens     int
	OutputTokens    int
	TotalTokens     int
	ReasoningTokens int
}

// ChatResult is the extended response for chat-with-usage: text, parsed
// content blocks, any reasoning text, and token usage.
type ChatResult struct {
	Text      string
	Blocks    []ContentBlock
	Reasoning string
	Usage     Usage
}

// StreamEventType enumerates the typed stream-events protocol. A stream
// emits exactly one terminal event: EventDone or EventError.
type StreamEventType string

const (
	EventToken     StreamEventType = "token"
	EventReasoning StreamEventType = "reasoning"
	EventToolCall  StreamEventType = "tool_call"
	EventUsage     StreamEventType = "usage"
	EventDone      StreamEventType = "done"
	EventError     StreamEventType = "error"
)

// StreamEvent is one item of the stream-events channel.
type StreamEvent struct {
	Type     StreamEventType
	Content  string
	ToolCall *ToolCall
	Usage    *Usage
	Metadata map[string]any
	Err      error
}
