package llmgw

import (
	"context"

	genai "google.golang.org/genai"

	"llmgateway/internal/observability"
)

// StreamEvents performs a streaming chat call and returns a typed event
// channel. The channel always terminates in exactly one EventDone or
// EventError event, then closes: a mid-stream provider error is wrapped
// into a single ERROR event rather than propagated as a channel panic or
// left for the caller to infer from channel closure alone.
func (c *Client) StreamEvents(ctx context.Context, task, model string, messages []Message, tools []ToolSchema) <-chan StreamEvent {
	out := make(chan StreamEvent)

	go func() {
		defer close(out)

		effectiveModel := c.resolveModel(task, model)
		inst, err := c.getInstance(ctx, effectiveModel, task)
		if err != nil {
			out <- StreamEvent{Type: EventError, Err: err}
			return
		}

		log := observability.LoggerWithTrace(ctx)

		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}

		cfg := *inst.config
		if len(tools) > 0 {
			decls := make([]*genai.FunctionDeclaration, 0, len(tools))
			for _, t := range tools {
				decls = append(decls, &genai.FunctionDeclaration{
					Name:                 t.Name,
					Description:          t.Description,
					ParametersJsonSchema: t.Parameters,
				})
			}
			cfg.Tools = []*genai.Tool{{FunctionDeclarations: decls}}
			cfg.ToolConfig = &genai.ToolConfig{
				FunctionCallingConfig: &genai.FunctionCallingConfig{Mode: genai.FunctionCallingConfigModeAuto},
			}
		}

		contents := toContents(messages)
		stream := inst.client.Models.GenerateContentStream(ctx, effectiveModel, contents, &cfg)

		var lastUsage Usage
		callIdx := 0
		for resp, err := range stream {
			if err != nil {
				log.Warn().Err(err).Str("model", effectiveModel).Msg("llmgw_stream_error")
				out <- StreamEvent{Type: EventError, Err: translateError(err)}
				return
			}
			if resp == nil {
				continue
			}
			if u := extractUsage(resp); u.TotalTokens > 0 {
				lastUsage = u
			}
			for _, block := range parseContentBlocks(resp) {
				switch block.Type {
				case BlockText:
					if block.Content != "" {
						out <- StreamEvent{Type: EventToken, Content: block.Content}
					}
				case BlockReasoning:
					if block.Content != "" {
						out <- StreamEvent{Type: EventReasoning, Content: block.Content}
					}
				case BlockToolCall:
					callIdx++
					args, _ := marshalArgs(block.ToolArgs)
					tc := ToolCall{Name: block.ToolName, Args: args, ID: block.ToolID}
					out <- StreamEvent{Type: EventToolCall, ToolCall: &tc}
				}
			}
		}

		if lastUsage.TotalTokens > 0 {
			u := lastUsage
			out <- StreamEvent{Type: EventUsage, Usage: &u}
		}
		out <- StreamEvent{Type: EventDone}
	}()

	return out
}

// Stream is a narrower view over StreamEvents that yields only text tokens,
// for callers that don't need reasoning/tool-call/usage events.
func (c *Client) Stream(ctx context.Context, task, model string, messages []Message) (<-chan string, <-chan error) {
	tokens := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(tokens)
		defer close(errs)
		for ev := range c.StreamEvents(ctx, task, model, messages, nil) {
			switch ev.Type {
			case EventToken:
				tokens <- ev.Content
			case EventError:
				errs <- ev.Err
			}
		}
	}()

	return tokens, errs
}
