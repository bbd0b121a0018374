// Package pipeline implements the shared request orchestration for the
// twenty-questions and turtle-soup domain endpoints: injection-guard
// check, session-id resolution, history fetch and trim, prompt
// composition, guarded LLM invocation, and parse-with-retry against a
// closed set of Korean verdict literals.
package pipeline

import "strings"

// AnswerScale is a twenty-questions yes/no answer on a 4-point scale.
type AnswerScale string

const (
	AnswerYes         AnswerScale = "예"
	AnswerProbablyYes AnswerScale = "아마도 예"
	AnswerProbablyNo  AnswerScale = "아마도 아니오"
	AnswerNo          AnswerScale = "아니오"
)

// answerScaleOrder is scanned in this exact order. "예" is a substring of
// "아마도 예", so it shadows it when scanned first — this mirrors the
// original enum's declaration order and is intentional, not a bug.
var answerScaleOrder = []AnswerScale{AnswerYes, AnswerProbablyYes, AnswerProbablyNo, AnswerNo}

// ParseAnswerScale scans text for the first matching scale literal in
// declared order.
func ParseAnswerScale(text string) (AnswerScale, bool) {
	text = strings.TrimSpace(text)
	for _, s := range answerScaleOrder {
		if strings.Contains(text, string(s)) {
			return s, true
		}
	}
	return "", false
}

// VerifyResult is the outcome of a guess-verification call, shared by both
// twenty-questions and turtle-soup's solution check.
type VerifyResult string

const (
	VerifyAccept VerifyResult = "정답"
	VerifyClose  VerifyResult = "근접"
	VerifyReject VerifyResult = "오답"
)

var verifyResultOrder = []VerifyResult{VerifyAccept, VerifyClose, VerifyReject}

// ParseVerifyResult scans text for the first matching verdict literal.
func ParseVerifyResult(text string) (VerifyResult, bool) {
	text = strings.TrimSpace(text)
	for _, v := range verifyResultOrder {
		if strings.Contains(text, string(v)) {
			return v, true
		}
	}
	return "", false
}

// SynonymResult is the outcome of a twenty-questions synonym check.
type SynonymResult string

const (
	SynonymEquivalent    SynonymResult = "동일"
	SynonymNotEquivalent SynonymResult = "상이"
)

var synonymResultOrder = []SynonymResult{SynonymEquivalent, SynonymNotEquivalent}

// ParseSynonymResult scans text for the first matching verdict literal.
func ParseSynonymResult(text string) (SynonymResult, bool) {
	text = strings.TrimSpace(text)
	for _, s := range synonymResultOrder {
		if strings.Contains(text, string(s)) {
			return s, true
		}
	}
	return "", false
}

// TurtleSoupAnswer is a turtle-soup player-question answer.
type TurtleSoupAnswer string

const (
	TurtleYes          TurtleSoupAnswer = "예"
	TurtleNo           TurtleSoupAnswer = "아니오"
	TurtleIrrelevant   TurtleSoupAnswer = "관계없습니다"
	TurtleImportant    TurtleSoupAnswer = "중요한 질문입니다!"
	TurtleSomewhat     TurtleSoupAnswer = "조금은 관계있습니다"
	TurtleFalsePremise TurtleSoupAnswer = "전제가 틀렸습니다"
	TurtleCannotAnswer TurtleSoupAnswer = "답변할 수 없습니다"
)

// turtleBaseOrder excludes TurtleImportant: the original checks the base
// answer set first and the "important question" marker separately, since
// the two can combine (e.g. "아니오, 중요한 질문입니다!").
var turtleBaseOrder = []TurtleSoupAnswer{
	TurtleYes, TurtleNo, TurtleIrrelevant, TurtleSomewhat, TurtleFalsePremise, TurtleCannotAnswer,
}

// ParseTurtleSoupAnswer returns the base answer (if any) and whether the
// "important question" marker is also present in text.
func ParseTurtleSoupAnswer(text string) (answer TurtleSoupAnswer, found bool, important bool) {
	text = strings.TrimSpace(text)
	for _, a := range turtleBaseOrder {
		if strings.Contains(text, string(a)) {
			answer, found = a, true
			break
		}
	}
	important = strings.Contains(text, string(TurtleImportant))
	if !found && important {
		answer, found = TurtleImportant, true
		important = false
	}
	return answer, found, important
}

// FormatTurtleSoupAnswer renders the final answer string including the
// importance marker, matching the original's format_answer_text. rawText
// is returned verbatim when no answer was parsed.
func FormatTurtleSoupAnswer(answer TurtleSoupAnswer, found, important bool, rawText string) string {
	if !found {
		return rawText
	}
	if !important {
		return string(answer)
	}
	if answer == TurtleNo {
		return string(TurtleNo) + " 하지만 " + string(TurtleImportant)
	}
	return string(answer) + ", " + string(TurtleImportant)
}
