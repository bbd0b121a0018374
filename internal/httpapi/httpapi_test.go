package httpapi

import (
	"context"

	"llmgateway/internal/config"
	"llmgateway/internal/guard"
	"llmgateway/internal/llmgw"
)

// testGuard returns a disabled guard, which always evaluates to a zero
// score against an infinite threshold, i.e. never blocks.
func testGuard() *guard.Guard {
	return guard.New(config.GuardConfig{Enabled: false}, nil, nil)
}

type fakeLLM struct {
	chatFn          func(ctx context.Context, task, model string, messages []llmgw.Message) (string, error)
	chatStructured  func(ctx context.Context, task, model string, messages []llmgw.Message, schema map[string]any, out any) error
	chatWithUsageFn func(ctx context.Context, task, model string, messages []llmgw.Message) (llmgw.ChatResult, error)
	streamFn        func(ctx context.Context, task, model string, messages []llmgw.Message) (<-chan string, <-chan error)
	streamEventsFn  func(ctx context.Context, task, model string, messages []llmgw.Message, tools []llmgw.ToolSchema) <-chan llmgw.StreamEvent
}

func (f *fakeLLM) Chat(ctx context.Context, task, model string, messages []llmgw.Message) (string, error) {
	return f.chatFn(ctx, task, model, messages)
}

func (f *fakeLLM) ChatStructured(ctx context.Context, task, model string, messages []llmgw.Message, schema map[string]any, out any) error {
	return f.chatStructured(ctx, task, model, messages, schema, out)
}

func (f *fakeLLM) ChatWithUsage(ctx context.Context, task, model string, messages []llmgw.Message) (llmgw.ChatResult, error) {
	return f.chatWithUsageFn(ctx, task, model, messages)
}

func (f *fakeLLM) Stream(ctx context.Context, task, model string, messages []llmgw.Message) (<-chan string, <-chan error) {
	return f.streamFn(ctx, task, model, messages)
}

func (f *fakeLLM) StreamEvents(ctx context.Context, task, model string, messages []llmgw.Message, tools []llmgw.ToolSchema) <-chan llmgw.StreamEvent {
	return f.streamEventsFn(ctx, task, model, messages, tools)
}
