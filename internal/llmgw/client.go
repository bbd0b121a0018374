package llmgw

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	genai "google.golang.org/genai"

	"llmgateway/internal/apierrors"
	"llmgateway/internal/config"
	"llmgateway/internal/observability"
)

// Client is a thin facade over the Gemini generative API with instance
// caching, key rotation, and task-aware thinking/temperature policy baked
// in. It never leaks a genai-specific error type to callers.
type Client struct {
	httpClient *http.Client
	gemini     config.GeminiConfig
	thinking   config.ThinkingConfig
	keys       *KeyPool
	instances  *instanceCache
	timeout    time.Duration
}

// New builds a Client from configuration. httpClient is reused across all
// cached instances (and should already carry otelhttp instrumentation via
// observability.NewHTTPClient).
func New(cfg config.Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		httpClient: httpClient,
		gemini:     cfg.Gemini,
		thinking:   cfg.Gemini.Thinking,
		keys:       NewKeyPool(cfg.Gemini.APIKeys),
		instances:  newInstanceCache(cfg.Gemini.ModelCacheSize),
		timeout:    time.Duration(cfg.Gemini.TimeoutSeconds) * time.Second,
	}
}

func (c *Client) resolveModel(task, override string) string {
	if strings.TrimSpace(override) != "" {
		return override
	}
	return c.gemini.Model(task)
}

func (c *Client) getInstance(ctx context.Context, model, task string) (*instance, error) {
	key := instanceKey{model: model, task: task}
	return c.instances.getOrCreate(key, func() (*instance, error) {
		apiKey, err := c.keys.Next()
		if err != nil {
			return nil, err
		}

		httpOpts := genai.HTTPOptions{}
		if c.timeout > 0 {
			t := c.timeout
			httpOpts.Timeout = &t
		}

		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:      apiKey,
			HTTPClient:  c.httpClient,
			HTTPOptions: httpOpts,
		})
		if err != nil {
			return nil, fmt.Errorf("llmgw: init gemini client: %w", err)
		}

		temperature := float32(resolveTemperature(model, c.gemini.Temperature))
		cfg := &genai.GenerateContentConfig{
			HTTPOptions: &httpOpts,
			Temperature: &temperature,
		}
		if c.gemini.MaxOutputTokens > 0 {
			cfg.MaxOutputTokens = int32(c.gemini.MaxOutputTokens)
		}
		applyThinking(cfg, model, task, c.thinking)

		return &instance{client: client, model: model, config: cfg}, nil
	})
}

func applyThinking(cfg *genai.GenerateContentConfig, model, task string, thinking config.ThinkingConfig) {
	settings := resolveThinking(model, thinking.Level(task), thinking.Budget(task))
	if settings.Level == "" && settings.Budget == 0 {
		return
	}
	tc := &genai.ThinkingConfig{}
	if settings.Level != "" {
		tc.ThinkingLevel = genai.ThinkingLevel(strings.ToUpper(settings.Level))
	}
	if settings.Budget > 0 {
		budget := int32(settings.Budget)
		tc.ThinkingBudget = &budget
	}
	cfg.ThinkingConfig = tc
}

func toContents(messages []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(messages))
	for _, m := range messages {
		role := genai.RoleUser
		text := m.Content
		switch strings.ToLower(strings.TrimSpace(m.Role)) {
		case "assistant":
			role = genai.RoleModel
		case "system":
			text = "[system] " + text
		}
		if strings.TrimSpace(text) == "" {
			continue
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: text}},
		})
	}
	return contents
}

func (c *Client) generate(ctx context.Context, task, model string, messages []Message, extra func(*genai.GenerateContentConfig)) (*genai.GenerateContentResponse, error) {
	effectiveModel := c.resolveModel(task, model)

	inst, err := c.getInstance(ctx, effectiveModel, task)
	if err != nil {
		return nil, err
	}

	ctx, span := otel.Tracer("internal/llmgw").Start(ctx, "Gemini GenerateContent")
	defer span.End()
	span.SetAttributes(attribute.String("llm.model", effectiveModel), attribute.String("llm.task", task))
	log := observability.LoggerWithTrace(ctx)

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	cfg := *inst.config
	if extra != nil {
		extra(&cfg)
	}

	contents := toContents(messages)
	resp, err := inst.client.Models.GenerateContent(ctx, effectiveModel, contents, &cfg)
	if err != nil {
		span.RecordError(err)
		log.Warn().Err(err).Str("model", effectiveModel).Msg("llmgw_generate_error")
		return nil, translateError(err)
	}
	return resp, nil
}

// Chat performs a stateless chat call and returns the concatenated text of
// the response.
func (c *Client) Chat(ctx context.Context, task, model string, messages []Message) (string, error) {
	resp, err := c.generate(ctx, task, model, messages, nil)
	if err != nil {
		return "", err
	}
	return extractText(resp), nil
}

// ChatStructured performs a chat call constrained to a JSON schema and
// unmarshals the result into out.
func (c *Client) ChatStructured(ctx context.Context, task, model string, messages []Message, schema map[string]any, out any) error {
	resp, err := c.generate(ctx, task, model, messages, func(cfg *genai.GenerateContentConfig) {
		cfg.ResponseMIMEType = "application/json"
		if schema != nil {
			cfg.ResponseJsonSchema = schema
		}
	})
	if err != nil {
		return err
	}
	text := extractText(resp)
	if strings.TrimSpace(text) == "" {
		return apierrors.New(apierrors.CodeLLMParsing, "empty structured response")
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return apierrors.Wrap(apierrors.CodeLLMParsing, err, "failed to parse structured response")
	}
	return nil
}

// ChatWithTools performs a chat call with tool declarations bound, returning
// response text plus any tool-call requests.
func (c *Client) ChatWithTools(ctx context.Context, task, model string, messages []Message, tools []ToolSchema) (string, []ToolCall, error) {
	resp, err := c.generate(ctx, task, model, messages, func(cfg *genai.GenerateContentConfig) {
		if len(tools) == 0 {
			return
		}
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
	})
	if err != nil {
		return "", nil, err
	}

	blocks := parseContentBlocks(resp)
	var text strings.Builder
	var calls []ToolCall
	for _, b := range blocks {
		switch b.Type {
		case BlockText:
			text.WriteString(b.Content)
		case BlockToolCall:
			args, _ := marshalArgs(b.ToolArgs)
			calls = append(calls, ToolCall{Name: b.ToolName, Args: args, ID: b.ToolID})
		}
	}
	return text.String(), calls, nil
}

// ChatWithUsage performs a chat call and returns text, classified content
// blocks, reasoning text, and token usage.
func (c *Client) ChatWithUsage(ctx context.Context, task, model string, messages []Message) (ChatResult, error) {
	resp, err := c.generate(ctx, task, model, messages, func(cfg *genai.GenerateContentConfig) {
		if IsPremiumThinkingModel(c.resolveModel(task, model)) {
			if cfg.ThinkingConfig == nil {
				cfg.ThinkingConfig = &genai.ThinkingConfig{}
			}
			cfg.ThinkingConfig.IncludeThoughts = true
		}
	})
	if err != nil {
		return ChatResult{}, err
	}

	blocks := parseContentBlocks(resp)
	var textParts, reasoningParts []string
	for _, b := range blocks {
		switch b.Type {
		case BlockText:
			textParts = append(textParts, b.Content)
		case BlockReasoning:
			reasoningParts = append(reasoningParts, b.Content)
		}
	}

	return ChatResult{
		Text:      strings.Join(textParts, ""),
		Blocks:    blocks,
		Reasoning: strings.Join(reasoningParts, "\n"),
		Usage:     extractUsage(resp),
	}, nil
}

func extractText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, b := range parseContentBlocks(resp) {
		if b.Type == BlockText {
			sb.WriteString(b.Content)
		}
	}
	return sb.String()
}

func parseContentBlocks(resp *genai.GenerateContentResponse) []ContentBlock {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil
	}
	var blocks []ContentBlock
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil {
			continue
		}
		switch {
		case part.FunctionCall != nil:
			blocks = append(blocks, ContentBlock{
				Type:     BlockToolCall,
				ToolName: part.FunctionCall.Name,
				ToolArgs: part.FunctionCall.Args,
				ToolID:   part.FunctionCall.ID,
			})
		case part.Thought:
			blocks = append(blocks, ContentBlock{Type: BlockReasoning, Content: part.Text})
		case part.Text != "":
			blocks = append(blocks, ContentBlock{Type: BlockText, Content: part.Text})
		default:
			blocks = append(blocks, ContentBlock{Type: BlockUnknown})
		}
	}
	return blocks
}

func marshalArgs(args map[string]any) (json.RawMessage, error) {
	if args == nil {
		return json.RawMessage("{}"), nil
	}
	b, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(b), nil
}

func extractUsage(resp *genai.GenerateContentResponse) Usage {
	if resp == nil || resp.UsageMetadata == nil {
		return Usage{}
	}
	meta := resp.UsageMetadata
	return Usage{
		InputTokens:     int(meta.PromptTokenCount),
		OutputTokens:    int(meta.CandidatesTokenCount),
		TotalTokens:     int(meta.TotalTokenCount),
		ReasoningTokens: int(meta.ThoughtsTokenCount),
	}
}
