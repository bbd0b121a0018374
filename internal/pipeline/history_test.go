package pipeline

import (
	"testing"

	"github.com/stretchr/testify/require"

	"llmgateway/internal/llmgw"
)

func TestBuildHistoryContextTrimsToMaxPairsAndIgnoresNonQAContent(t *testing.T) {
	history := []llmgw.Message{
		{Role: "user", Content: "Q: 동물인가요?"},
		{Role: "assistant", Content: "A: 아니오"},
		{Role: "user", Content: "Q: 먹을 수 있나요?"},
		{Role: "assistant", Content: "A: 예"},
		{Role: "assistant", Content: "domain data, not a Q/A line"},
	}

	ctx := BuildHistoryContext(history, "이전 기록:", 1)

	require.Equal(t, "\n\n이전 기록:\nQ: 먹을 수 있나요?\nA: 예", ctx)
}

func TestBuildHistoryContextEmptyWhenNoQAMessages(t *testing.T) {
	history := []llmgw.Message{{Role: "user", Content: "hello"}}
	require.Equal(t, "", BuildHistoryContext(history, "header", 5))
}

func TestBuildHistoryContextZeroMaxPairs(t *testing.T) {
	history := []llmgw.Message{{Role: "user", Content: "Q: x"}, {Role: "assistant", Content: "A: y"}}
	require.Equal(t, "", BuildHistoryContext(history, "header", 0))
}

func TestBuildTurtleHistoryItemsAppendsCurrentExchange(t *testing.T) {
	history := []llmgw.Message{
		{Role: "user", Content: "Q: 사람인가요?"},
		{Role: "assistant", Content: "A: 아니오"},
	}

	items := BuildTurtleHistoryItems(history, "동물인가요?", "예")

	require.Len(t, items, 2)
	require.Equal(t, QAItem{Question: "사람인가요?", Answer: "아니오"}, items[0])
	require.Equal(t, QAItem{Question: "동물인가요?", Answer: "예"}, items[1])
}
