package pipeline

import (
	"context"
	"strings"

	"llmgateway/internal/llmgw"
	"llmgateway/internal/prompts"
	"llmgateway/internal/toon"
)

const twentyQNamespace = "twentyq"

var (
	twentyQAnswerCandidates = []string{
		string(AnswerYes), string(AnswerProbablyYes), string(AnswerProbablyNo), string(AnswerNo),
	}
	twentyQVerifyCandidates  = []string{string(VerifyAccept), string(VerifyClose), string(VerifyReject)}
	twentyQSynonymCandidates = []string{string(SynonymEquivalent), string(SynonymNotEquivalent)}
)

func stringSchema(field string) map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			field: map[string]any{"type": "string"},
		},
		"required": []string{field},
	}
}

// TwentyQService implements the twenty-questions task endpoints on top of
// the shared Pipeline.
type TwentyQService struct {
	pipeline *Pipeline
	prompts  prompts.TwentyQPrompts
}

// NewTwentyQService wraps a Pipeline with twenty-questions prompt
// rendering.
func NewTwentyQService(p *Pipeline, reg *prompts.Registry) *TwentyQService {
	return &TwentyQService{pipeline: p, prompts: prompts.NewTwentyQPrompts(reg)}
}

// HintsRequest is the input to Hints.
type HintsRequest struct {
	Target   string
	Category string
	Count    int
}

// HintsResponse is the output of Hints.
type HintsResponse struct {
	Hints []string
}

// Hints generates up to req.Count hints about the secret without naming it.
func (s *TwentyQService) Hints(ctx context.Context, req HintsRequest) (HintsResponse, error) {
	secret := toon.EncodeSecret(req.Target, req.Category, nil)
	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.HintsSystem(req.Category)},
		{Role: "user", Content: s.prompts.HintsUser(secret)},
	}

	text, err := s.pipeline.LLM.Chat(ctx, "hints", "", messages)
	if err != nil {
		return HintsResponse{}, wrapLLMError(err, "twentyq.hints", "")
	}

	var hints []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line == "" {
			continue
		}
		hints = append(hints, line)
		if req.Count > 0 && len(hints) >= req.Count {
			break
		}
	}
	return HintsResponse{Hints: hints}, nil
}

// AnswerRequest is the input to Answer.
type AnswerRequest struct {
	Target, Category, Question string
	SessionID, ChatID          string
}

// AnswerResponse is the output of Answer.
type AnswerResponse struct {
	Scale   AnswerScale
	Matched bool
	RawText string
}

// Answer answers a yes/no question about the secret, using and updating
// session history when a session id is resolvable.
func (s *TwentyQService) Answer(ctx context.Context, req AnswerRequest) (AnswerResponse, error) {
	if err := s.pipeline.CheckInput(req.Question); err != nil {
		return AnswerResponse{}, err
	}

	sid := ResolveSessionID(req.SessionID, req.ChatID, "", twentyQNamespace)
	historyContext, err := s.historyContext(ctx, sid, "이전 질문/답변:")
	if err != nil {
		return AnswerResponse{}, err
	}

	secret := toon.EncodeSecret(req.Target, req.Category, nil)
	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.AnswerSystem()},
		{Role: "user", Content: s.prompts.AnswerUser(secret, req.Question, historyContext)},
	}
	hint := "다음 중 정확히 하나로만 답하세요: " + strings.Join(twentyQAnswerCandidates, ", ")

	result, err := s.pipeline.ResolveVerdict(ctx, "twentyq.answer", "answer", "", messages,
		stringSchema("answer"), "answer", twentyQAnswerCandidates, hint, sidOrEmpty(sid))
	if err != nil {
		return AnswerResponse{}, err
	}

	if sid != nil {
		_ = s.pipeline.Sessions.AddMessages(ctx, *sid, []llmgw.Message{
			{Role: "user", Content: "Q: " + req.Question},
			{Role: "assistant", Content: "A: " + result.RawText},
		})
	}

	return AnswerResponse{Scale: AnswerScale(result.Verdict), Matched: result.Matched, RawText: result.RawText}, nil
}

// VerifyRequest is the input to Verify.
type VerifyRequest struct {
	Target, Guess, SessionID string
}

// VerifyOutcome is the output of Verify.
type VerifyOutcome struct {
	Result  VerifyResult
	Matched bool
	RawText string
}

// Verify judges whether guess matches the secret target.
func (s *TwentyQService) Verify(ctx context.Context, req VerifyRequest) (VerifyOutcome, error) {
	if err := s.pipeline.CheckInput(req.Guess); err != nil {
		return VerifyOutcome{}, err
	}

	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.VerifySystem()},
		{Role: "user", Content: s.prompts.VerifyUser(req.Target, req.Guess)},
	}
	hint := "다음 중 정확히 하나로만 답하세요: " + strings.Join(twentyQVerifyCandidates, ", ")

	result, err := s.pipeline.ResolveVerdict(ctx, "twentyq.verify", "verify", "", messages,
		stringSchema("result"), "result", twentyQVerifyCandidates, hint, req.SessionID)
	if err != nil {
		return VerifyOutcome{}, err
	}
	return VerifyOutcome{Result: VerifyResult(result.Verdict), Matched: result.Matched, RawText: result.RawText}, nil
}

// Normalize rewrites a free-form question into its canonical yes/no form.
func (s *TwentyQService) Normalize(ctx context.Context, question string) (string, error) {
	if err := s.pipeline.CheckInput(question); err != nil {
		return "", err
	}
	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.NormalizeSystem()},
		{Role: "user", Content: s.prompts.NormalizeUser(question)},
	}
	text, err := s.pipeline.LLM.Chat(ctx, "normalize", "", messages)
	if err != nil {
		return "", wrapLLMError(err, "twentyq.normalize", "")
	}
	return strings.TrimSpace(text), nil
}

// SynonymRequest is the input to Synonym.
type SynonymRequest struct {
	Target, Guess string
}

// SynonymOutcome is the output of Synonym.
type SynonymOutcome struct {
	Result  SynonymResult
	Matched bool
	RawText string
}

// Synonym checks whether target and guess are equivalent terms.
func (s *TwentyQService) Synonym(ctx context.Context, req SynonymRequest) (SynonymOutcome, error) {
	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.SynonymSystem()},
		{Role: "user", Content: s.prompts.SynonymUser(req.Target, req.Guess)},
	}
	hint := "다음 중 정확히 하나로만 답하세요: " + strings.Join(twentyQSynonymCandidates, ", ")

	result, err := s.pipeline.ResolveVerdict(ctx, "twentyq.synonym", "synonym", "", messages,
		stringSchema("result"), "result", twentyQSynonymCandidates, hint, "")
	if err != nil {
		return SynonymOutcome{}, err
	}
	return SynonymOutcome{Result: SynonymResult(result.Verdict), Matched: result.Matched, RawText: result.RawText}, nil
}

func (s *TwentyQService) historyContext(ctx context.Context, sid *string, header string) (string, error) {
	if sid == nil {
		return "", nil
	}
	history, err := s.pipeline.Sessions.GetHistory(ctx, *sid)
	if err != nil {
		return "", err
	}
	return BuildHistoryContext(history, header, s.pipeline.HistoryMaxPairs), nil
}

func sidOrEmpty(sid *string) string {
	if sid == nil {
		return ""
	}
	return *sid
}
