package korean

// UnitNouns, BoundaryWords, and ComparisonWords are the closed Korean
// vocabularies used to flag answer-validation heuristics, ported verbatim
// from KomoranService.kt by way of the reference implementation.
var (
	UnitNouns = map[string]bool{
		"글자": true, "자": true, "음절": true, "문자": true, "토큰": true,
		"개": true, "번": true, "번째": true, "회": true, "차례": true,
		"모음": true, "자음": true, "초성": true, "중성": true, "종성": true,
		"받침": true,
	}

	BoundaryWords = map[string]bool{
		"처음": true, "끝": true, "마지막": true, "시작": true, "중간": true,
		"가운데": true, "초성": true, "중성": true, "종성": true, "받침": true,
	}

	ComparisonWords = map[string]bool{
		"이상": true, "이하": true, "초과": true, "미만": true, "넘": true, "이내": true,
	}
)

// Heuristics reports which answer-validation signals were present in a
// tokenized text: a numeral, a unit noun, a boundary reference, or a
// comparison word.
type Heuristics struct {
	NumericQuantifier bool
	UnitNoun          bool
	BoundaryRef       bool
	ComparisonWord    bool
}

// AnalyzeHeuristics tokenizes text and flags the answer-validation signals
// used by the twenty-questions and turtle-soup verify operations.
func AnalyzeHeuristics(text string) Heuristics {
	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return Heuristics{}
	}

	var h Heuristics
	for _, t := range tokens {
		if t.Tag == tagNumeral {
			h.NumericQuantifier = true
		}
		if UnitNouns[t.Form] {
			h.UnitNoun = true
		}
		if BoundaryWords[t.Form] {
			h.BoundaryRef = true
		}
		if ComparisonWords[t.Form] {
			h.ComparisonWord = true
		}
	}
	return h
}
