package toon

// EncodeSecret renders the hidden-answer payload shown to the LLM when it
// plays the answerer role in twenty-questions.
func EncodeSecret(target, category string, details map[string]any) string {
	obj := Object{
		{Key: "target", Value: target},
		{Key: "category", Value: category},
	}
	if len(details) > 0 {
		obj = append(obj, Pair{Key: "details", Value: details})
	}
	return Encode(obj)
}

// EncodePuzzle renders a turtle-soup scenario/solution payload. difficulty
// is omitted when nil, matching the original's "omit if None" behavior.
func EncodePuzzle(scenario, solution, category string, difficulty *int) string {
	obj := Object{
		{Key: "scenario", Value: scenario},
		{Key: "solution", Value: solution},
	}
	if category != "" {
		obj = append(obj, Pair{Key: "category", Value: category})
	}
	if difficulty != nil {
		obj = append(obj, Pair{Key: "difficulty", Value: *difficulty})
	}
	return Encode(obj)
}
