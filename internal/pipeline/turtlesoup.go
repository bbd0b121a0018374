package pipeline

import (
	"context"
	"strings"

	"llmgateway/internal/llmgw"
	"llmgateway/internal/prompts"
	"llmgateway/internal/toon"
)

const turtleSoupNamespace = "turtlesoup"

var turtleVerifyCandidates = []string{string(VerifyAccept), string(VerifyClose), string(VerifyReject)}

// TurtleSoupService implements the turtle-soup task endpoints on top of
// the shared Pipeline.
type TurtleSoupService struct {
	pipeline *Pipeline
	prompts  prompts.TurtleSoupPrompts
}

// NewTurtleSoupService wraps a Pipeline with turtle-soup prompt rendering.
func NewTurtleSoupService(p *Pipeline, reg *prompts.Registry) *TurtleSoupService {
	return &TurtleSoupService{pipeline: p, prompts: prompts.NewTurtleSoupPrompts(reg)}
}

// TurtleAnswerRequest is the input to Answer.
type TurtleAnswerRequest struct {
	Scenario, Solution, Category string
	Difficulty                   *int
	Question                     string
	SessionID, ChatID            string
}

// TurtleAnswerResponse is the output of Answer.
type TurtleAnswerResponse struct {
	Answer  string
	History []QAItem
}

// Answer answers a player's yes/no question about the puzzle, combining
// the base answer with an "important question" marker when both are
// present in the model's reply.
func (s *TurtleSoupService) Answer(ctx context.Context, req TurtleAnswerRequest) (TurtleAnswerResponse, error) {
	if err := s.pipeline.CheckInput(req.Question); err != nil {
		return TurtleAnswerResponse{}, err
	}

	sid := ResolveSessionID(req.SessionID, req.ChatID, "", turtleSoupNamespace)
	var history []llmgw.Message
	if sid != nil {
		var err error
		history, err = s.pipeline.Sessions.GetHistory(ctx, *sid)
		if err != nil {
			return TurtleAnswerResponse{}, err
		}
	}
	historyContext := BuildHistoryContext(history, "이전 질문/답변:", s.pipeline.HistoryMaxPairs)

	puzzle := toon.EncodePuzzle(req.Scenario, req.Solution, req.Category, req.Difficulty)
	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.AnswerSystem()},
		{Role: "user", Content: s.prompts.AnswerUser(puzzle, req.Question, historyContext)},
	}

	rawText, err := s.resolveTurtleAnswer(ctx, messages, sidOrEmpty(sid))
	if err != nil {
		return TurtleAnswerResponse{}, err
	}

	if sid != nil {
		_ = s.pipeline.Sessions.AddMessages(ctx, *sid, []llmgw.Message{
			{Role: "user", Content: "Q: " + req.Question},
			{Role: "assistant", Content: "A: " + rawText},
		})
	}

	return TurtleAnswerResponse{
		Answer:  rawText,
		History: BuildTurtleHistoryItems(history, req.Question, rawText),
	}, nil
}

func (s *TurtleSoupService) resolveTurtleAnswer(ctx context.Context, messages []llmgw.Message, sessionID string) (string, error) {
	text, err := s.pipeline.LLM.Chat(ctx, "answer", "", messages)
	if err != nil {
		return "", wrapLLMError(err, "turtlesoup.answer", sessionID)
	}

	answer, found, important := ParseTurtleSoupAnswer(text)
	if found {
		return FormatTurtleSoupAnswer(answer, found, important, text), nil
	}

	hint := "다음 중 하나로만 답하세요: 예, 아니오, 관계없습니다, 조금은 관계있습니다, 전제가 틀렸습니다, 답변할 수 없습니다 (필요시 \"중요한 질문입니다!\"를 덧붙이세요)"
	retryMessages := append(append([]llmgw.Message{}, messages...), llmgw.Message{Role: "user", Content: hint})
	retryText, err := s.pipeline.LLM.Chat(ctx, "answer", "", retryMessages)
	if err != nil {
		return text, nil
	}
	answer, found, important = ParseTurtleSoupAnswer(retryText)
	return FormatTurtleSoupAnswer(answer, found, important, retryText), nil
}

// HintRequest is the input to Hint.
type HintRequest struct {
	Scenario, Solution, Category string
	Difficulty                   *int
	Level                        int
}

// Hint returns a progressive hint about the puzzle at the given level.
func (s *TurtleSoupService) Hint(ctx context.Context, req HintRequest) (string, error) {
	puzzle := toon.EncodePuzzle(req.Scenario, req.Solution, req.Category, req.Difficulty)
	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.HintSystem()},
		{Role: "user", Content: s.prompts.HintUser(puzzle, req.Level)},
	}
	text, err := s.pipeline.LLM.Chat(ctx, "hints", "", messages)
	if err != nil {
		return "", wrapLLMError(err, "turtlesoup.hint", "")
	}
	return strings.TrimSpace(text), nil
}

// ValidateRequest is the input to Validate.
type ValidateRequest struct {
	Solution, PlayerAnswer, SessionID string
}

// ValidateOutcome is the output of Validate.
type ValidateOutcome struct {
	Result  VerifyResult
	Matched bool
	RawText string
}

// Validate judges a player's final-solution guess against the puzzle
// solution, reusing the shared VerifyResult verdict.
func (s *TurtleSoupService) Validate(ctx context.Context, req ValidateRequest) (ValidateOutcome, error) {
	if err := s.pipeline.CheckInput(req.PlayerAnswer); err != nil {
		return ValidateOutcome{}, err
	}

	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.ValidateSystem()},
		{Role: "user", Content: s.prompts.ValidateUser(req.Solution, req.PlayerAnswer)},
	}
	hint := "다음 중 정확히 하나로만 답하세요: " + strings.Join(turtleVerifyCandidates, ", ")

	result, err := s.pipeline.ResolveVerdict(ctx, "turtlesoup.verify", "verify", "", messages,
		stringSchema("result"), "result", turtleVerifyCandidates, hint, req.SessionID)
	if err != nil {
		return ValidateOutcome{}, err
	}
	return ValidateOutcome{Result: VerifyResult(result.Verdict), Matched: result.Matched, RawText: result.RawText}, nil
}

// Reveal narrates the full solution once a puzzle is solved or given up on.
func (s *TurtleSoupService) Reveal(ctx context.Context, scenario, solution, category string, difficulty *int) (string, error) {
	puzzle := toon.EncodePuzzle(scenario, solution, category, difficulty)
	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.RevealSystem()},
		{Role: "user", Content: s.prompts.RevealUser(puzzle)},
	}
	text, err := s.pipeline.LLM.Chat(ctx, "default", "", messages)
	if err != nil {
		return "", wrapLLMError(err, "turtlesoup.reveal", "")
	}
	return strings.TrimSpace(text), nil
}

// GeneratedPuzzle is the structured result of Generate.
type GeneratedPuzzle struct {
	Title, Scenario, Solution, Category string
	Difficulty                         int
	Hints                              []string
}

// Generate creates a new lateral-thinking puzzle. Unlike the verdict
// endpoints, puzzle generation has no closed enumeration to fall back to
// on a parse failure, so a structured-output error is surfaced directly.
func (s *TurtleSoupService) Generate(ctx context.Context, category string, difficulty int, theme, examples string) (GeneratedPuzzle, error) {
	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.GenerateSystem()},
		{Role: "user", Content: s.prompts.GenerateUser(category, difficulty, theme, examples)},
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":      map[string]any{"type": "string"},
			"scenario":   map[string]any{"type": "string"},
			"solution":   map[string]any{"type": "string"},
			"category":   map[string]any{"type": "string"},
			"difficulty": map[string]any{"type": "integer"},
			"hints":      map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
		},
		"required": []string{"title", "scenario", "solution", "category", "difficulty", "hints"},
	}

	var out struct {
		Title      string   `json:"title"`
		Scenario   string   `json:"scenario"`
		Solution   string   `json:"solution"`
		Category   string   `json:"category"`
		Difficulty int      `json:"difficulty"`
		Hints      []string `json:"hints"`
	}
	if err := s.pipeline.LLM.ChatStructured(ctx, "default", "", messages, schema, &out); err != nil {
		return GeneratedPuzzle{}, wrapLLMError(err, "turtlesoup.generate", "")
	}

	return GeneratedPuzzle{
		Title: out.Title, Scenario: out.Scenario, Solution: out.Solution,
		Category: out.Category, Difficulty: out.Difficulty, Hints: out.Hints,
	}, nil
}

// RewriteRequest is the input to Rewrite.
type RewriteRequest struct {
	Title, Scenario, Solution string
	Difficulty                int
}

// RewriteResult is the output of Rewrite.
type RewriteResult struct {
	Scenario, Solution string
}

// Rewrite generates a fresh scenario/solution pair for an existing puzzle
// title, preserving its twist but varying its telling.
func (s *TurtleSoupService) Rewrite(ctx context.Context, req RewriteRequest) (RewriteResult, error) {
	messages := []llmgw.Message{
		{Role: "system", Content: s.prompts.RewriteSystem()},
		{Role: "user", Content: s.prompts.RewriteUser(req.Title, req.Scenario, req.Solution, req.Difficulty)},
	}

	schema := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"scenario": map[string]any{"type": "string"},
			"solution": map[string]any{"type": "string"},
		},
		"required": []string{"scenario", "solution"},
	}
	var out struct {
		Scenario string `json:"scenario"`
		Solution string `json:"solution"`
	}
	if err := s.pipeline.LLM.ChatStructured(ctx, "default", "", messages, schema, &out); err != nil {
		return RewriteResult{}, wrapLLMError(err, "turtlesoup.rewrite", "")
	}
	return RewriteResult{Scenario: out.Scenario, Solution: out.Solution}, nil
}
