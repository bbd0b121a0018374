package pipeline

import (
	"context"
	"strings"

	"llmgateway/internal/apierrors"
	"llmgateway/internal/guard"
	"llmgateway/internal/llmgw"
	"llmgateway/internal/session"
)

// GuardEvaluator is the subset of *guard.Guard the pipeline depends on,
// narrowed to an interface so callers can substitute a fake in tests.
type GuardEvaluator interface {
	Evaluate(inputText string) guard.Evaluation
}

// LLMClient is the subset of *llmgw.Client the pipeline depends on.
type LLMClient interface {
	Chat(ctx context.Context, task, model string, messages []llmgw.Message) (string, error)
	ChatStructured(ctx context.Context, task, model string, messages []llmgw.Message, schema map[string]any, out any) error
}

// SessionStore is the subset of *session.Manager the pipeline depends on.
type SessionStore interface {
	CreateSession(ctx context.Context, id, model, systemPrompt string) (session.Record, error)
	CreateFreshSession(ctx context.Context, id, model, systemPrompt string, domainData map[string]any) (session.Record, error)
	GetSession(ctx context.Context, id string) (*session.Record, error)
	EndSession(ctx context.Context, id string) (bool, error)
	ClearHistory(ctx context.Context, id string) error
	AddMessages(ctx context.Context, id string, messages []llmgw.Message) error
	GetHistory(ctx context.Context, id string) ([]llmgw.Message, error)
	UpdateDomainData(ctx context.Context, id, key string, value any) error
	GetDomainData(ctx context.Context, id, key string) (any, bool, error)
}

// Pipeline is the shared orchestration every domain endpoint builds on.
type Pipeline struct {
	Guard           GuardEvaluator
	Sessions        SessionStore
	LLM             LLMClient
	HistoryMaxPairs int
}

// New builds a Pipeline. guard may be nil to disable the input check.
func New(g GuardEvaluator, sessions SessionStore, llm LLMClient, historyMaxPairs int) *Pipeline {
	return &Pipeline{Guard: g, Sessions: sessions, LLM: llm, HistoryMaxPairs: historyMaxPairs}
}

// CheckInput evaluates text for injection risk, returning a
// CodeGuardBlocked error when the guard's score meets its threshold.
func (p *Pipeline) CheckInput(text string) error {
	if p.Guard == nil {
		return nil
	}
	eval := p.Guard.Evaluate(text)
	if eval.Malicious() {
		return apierrors.New(apierrors.CodeGuardBlocked, "input blocked by injection guard").
			WithDetails(map[string]any{"score": eval.Score, "threshold": eval.Threshold})
	}
	return nil
}

// ResolveSessionID implements the session-id resolution precedence shared
// across every endpoint: an explicit id wins; otherwise a chat id is
// namespaced ("<namespace>:<chat_id>"), with namespace falling back to
// defaultNamespace when the caller didn't override it; otherwise the call
// is stateless (nil).
func ResolveSessionID(explicit, chatID, namespace, defaultNamespace string) *string {
	if explicit != "" {
		return &explicit
	}
	if chatID != "" {
		ns := namespace
		if ns == "" {
			ns = defaultNamespace
		}
		id := ns + ":" + chatID
		return &id
	}
	return nil
}

// wrapLLMError decorates an LLM-call error with the failing operation name
// and session id without altering its taxonomy code — a provider-
// translated error propagates with its Code/Type/Message intact.
func wrapLLMError(err error, operation, sessionID string) error {
	if err == nil {
		return nil
	}
	e, ok := apierrors.As(err)
	if !ok {
		e = apierrors.Wrap(apierrors.CodeLLMModel, err, "")
	}
	cp := *e
	cp.SessionID = sessionID
	details := make(map[string]any, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details["operation"] = operation
	cp.Details = details
	return &cp
}

func scanCandidates(text string, candidates []string) (string, bool) {
	for _, c := range candidates {
		if strings.Contains(text, c) {
			return c, true
		}
	}
	return "", false
}

// VerdictResult is the outcome of ResolveVerdict: the raw text the verdict
// was parsed from (always populated, even on parse failure) and the
// matched candidate literal, if any.
type VerdictResult struct {
	RawText string
	Verdict string
	Matched bool
}

// ResolveVerdict composes steps 5-7 of the request pipeline for any
// endpoint whose answer is a single literal drawn from candidates: a
// structured-output attempt constrained to schema/field first; on its
// failure (or on a non-matching result) a plain-text completion scanned
// for the first candidate literal; and on that scan finding nothing, one
// deterministic retry with hint appended as an additional user turn. A
// genuine LLM failure (not a parse failure) is returned as an error; an
// exhausted parse is not — the raw text is still surfaced to the caller
// with Matched=false.
func (p *Pipeline) ResolveVerdict(
	ctx context.Context,
	operation, task, model string,
	messages []llmgw.Message,
	schema map[string]any,
	field string,
	candidates []string,
	hint, sessionID string,
) (VerdictResult, error) {
	var structured map[string]any
	if err := p.LLM.ChatStructured(ctx, task, model, messages, schema, &structured); err == nil {
		if v, ok := structured[field].(string); ok {
			if verdict, matched := scanCandidates(v, candidates); matched {
				return VerdictResult{RawText: v, Verdict: verdict, Matched: true}, nil
			}
		}
	}

	text, err := p.LLM.Chat(ctx, task, model, messages)
	if err != nil {
		return VerdictResult{}, wrapLLMError(err, operation, sessionID)
	}
	if verdict, matched := scanCandidates(text, candidates); matched {
		return VerdictResult{RawText: text, Verdict: verdict, Matched: true}, nil
	}

	retryMessages := append(append([]llmgw.Message{}, messages...), llmgw.Message{Role: "user", Content: hint})
	retryText, err := p.LLM.Chat(ctx, task, model, retryMessages)
	if err != nil {
		// The retry itself failed to reach the model: surface the first
		// attempt's raw text with no verdict rather than erroring the
		// whole call over a deterministic-retry hiccup.
		return VerdictResult{RawText: text, Matched: false}, nil
	}
	verdict, matched := scanCandidates(retryText, candidates)
	return VerdictResult{RawText: retryText, Verdict: verdict, Matched: matched}, nil
}
