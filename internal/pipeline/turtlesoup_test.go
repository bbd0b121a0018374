package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"llmgateway/internal/llmgw"
	"llmgateway/internal/prompts"
	"llmgateway/internal/session"
)

func loadTurtleSoupRegistry(t *testing.T) *prompts.Registry {
	t.Helper()
	reg, err := prompts.LoadDirectory("../../prompts/turtlesoup")
	require.NoError(t, err)
	return reg
}

func TestTurtleSoupAnswerCombinesImportantMarker(t *testing.T) {
	llm := &fakeLLM{
		chatFn: func(context.Context, string, string, []llmgw.Message) (string, error) {
			return "아니오, 중요한 질문입니다!", nil
		},
	}
	mgr := session.NewManager(session.NewMemoryStore(), 10, 60)
	svc := NewTurtleSoupService(New(nil, mgr, llm, 3), loadTurtleSoupRegistry(t))

	resp, err := svc.Answer(context.Background(), TurtleAnswerRequest{
		Scenario: "남자가 레스토랑에서 바다거북 수프를 주문했다",
		Solution: "그는 예전에 조난 중 인육을 먹었던 기억이 떠올라 자살했다",
		Question: "그는 예전에 바다거북 수프를 먹은 적이 있나요?",
		ChatID:   "chat-9",
	})

	require.NoError(t, err)
	require.Equal(t, "아니오 하지만 중요한 질문입니다!", resp.Answer)
	require.Len(t, resp.History, 1)
	require.Equal(t, "아니오 하지만 중요한 질문입니다!", resp.History[0].Answer)
}

func TestTurtleSoupAnswerRetriesOnUnparseableReply(t *testing.T) {
	calls := 0
	llm := &fakeLLM{
		chatFn: func(context.Context, string, string, []llmgw.Message) (string, error) {
			calls++
			if calls == 1 {
				return "음, 글쎄요", nil
			}
			return "예", nil
		},
	}
	svc := NewTurtleSoupService(New(nil, nil, llm, 3), loadTurtleSoupRegistry(t))

	resp, err := svc.Answer(context.Background(), TurtleAnswerRequest{
		Scenario: "시나리오", Solution: "해답", Question: "질문입니다",
	})

	require.NoError(t, err)
	require.Equal(t, 2, calls)
	require.Equal(t, "예", resp.Answer)
}

func TestTurtleSoupValidate(t *testing.T) {
	llm := &fakeLLM{
		chatFn: func(context.Context, string, string, []llmgw.Message) (string, error) {
			return "근접한 답변입니다", nil
		},
	}
	svc := NewTurtleSoupService(New(nil, nil, llm, 3), loadTurtleSoupRegistry(t))

	out, err := svc.Validate(context.Background(), ValidateRequest{Solution: "해답", PlayerAnswer: "거의 맞춘 설명"})

	require.NoError(t, err)
	require.True(t, out.Matched)
	require.Equal(t, VerifyClose, out.Result)
}

func TestTurtleSoupHint(t *testing.T) {
	llm := &fakeLLM{
		chatFn: func(context.Context, string, string, []llmgw.Message) (string, error) {
			return "  그는 혼자가 아니었습니다  ", nil
		},
	}
	svc := NewTurtleSoupService(New(nil, nil, llm, 3), loadTurtleSoupRegistry(t))

	hint, err := svc.Hint(context.Background(), HintRequest{Scenario: "시나리오", Solution: "해답", Level: 2})

	require.NoError(t, err)
	require.Equal(t, "그는 혼자가 아니었습니다", hint)
}

func TestTurtleSoupGenerateUsesStructuredOutput(t *testing.T) {
	llm := &fakeLLM{
		structuredFn: func(_ context.Context, _, _ string, _ []llmgw.Message, _ map[string]any, out any) error {
			dst := out.(*struct {
				Title      string   `json:"title"`
				Scenario   string   `json:"scenario"`
				Solution   string   `json:"solution"`
				Category   string   `json:"category"`
				Difficulty int      `json:"difficulty"`
				Hints      []string `json:"hints"`
			})
			dst.Title = "제목"
			dst.Scenario = "시나리오"
			dst.Solution = "해답"
			dst.Category = "MYSTERY"
			dst.Difficulty = 3
			dst.Hints = []string{"힌트1", "힌트2"}
			return nil
		},
	}
	svc := NewTurtleSoupService(New(nil, nil, llm, 3), loadTurtleSoupRegistry(t))

	puzzle, err := svc.Generate(context.Background(), "MYSTERY", 3, "바다", "")

	require.NoError(t, err)
	require.Equal(t, "제목", puzzle.Title)
	require.Equal(t, 3, puzzle.Difficulty)
	require.Len(t, puzzle.Hints, 2)
}
