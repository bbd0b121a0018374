package pipeline

import (
	"strings"

	"llmgateway/internal/llmgw"
)

// BuildHistoryContext renders the last maxPairs Q/A turns of history as a
// prompt-prependable string, headed by header. Only messages whose content
// already carries a "Q:"/"A:" prefix are considered history turns; any
// domain content that doesn't follow that convention is ignored, matching
// the original's line-prefix filter.
func BuildHistoryContext(history []llmgw.Message, header string, maxPairs int) string {
	maxLines := maxPairs * 2
	if maxLines <= 0 {
		return ""
	}

	var lines []string
	for _, msg := range history {
		if strings.HasPrefix(msg.Content, "Q:") || strings.HasPrefix(msg.Content, "A:") {
			lines = append(lines, msg.Content)
		}
	}
	if len(lines) > maxLines {
		lines = lines[len(lines)-maxLines:]
	}
	if len(lines) == 0 {
		return ""
	}
	return "\n\n" + header + "\n" + strings.Join(lines, "\n")
}

// QAItem is a single displayed question/answer turn.
type QAItem struct {
	Question string
	Answer   string
}

// BuildTurtleHistoryItems projects raw Q/A message pairs plus the current
// exchange into the display list turtle-soup responses carry.
func BuildTurtleHistoryItems(history []llmgw.Message, currentQuestion, currentAnswer string) []QAItem {
	items := make([]QAItem, 0, len(history)/2+1)
	for i := 0; i+1 < len(history); i += 2 {
		q := strings.TrimPrefix(history[i].Content, "Q: ")
		a := strings.TrimPrefix(history[i+1].Content, "A: ")
		items = append(items, QAItem{Question: q, Answer: a})
	}
	items = append(items, QAItem{Question: currentQuestion, Answer: currentAnswer})
	return items
}
