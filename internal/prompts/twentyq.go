package prompts

import "strings"

// categoryForbidden lists words that must not appear in hint text for a
// given category, to avoid the hint generator naming the answer's class
// outright.
var categoryForbidden = map[string][]string{
	"음식": {"음식", "먹을 것", "식품"},
	"동물": {"동물", "생물", "생명체"},
	"사물": {"사물", "물건", "도구"},
	"장소": {"장소", "곳", "위치"},
	"인물": {"인물", "사람", "인간"},
	"개념": {"개념", "추상적", "관념"},
}

func forbiddenWords(category string) []string {
	if words, ok := categoryForbidden[category]; ok {
		return words
	}
	return []string{category}
}

// TwentyQPrompts renders the twenty-questions task templates.
type TwentyQPrompts struct {
	reg *Registry
}

// NewTwentyQPrompts wraps a loaded Registry with the twenty-questions
// accessor API.
func NewTwentyQPrompts(reg *Registry) TwentyQPrompts {
	return TwentyQPrompts{reg: reg}
}

// HintsSystem returns the hint-generation system prompt, with a
// category-specific forbidden-word restriction appended when category is
// non-empty.
func (p TwentyQPrompts) HintsSystem(category string) string {
	entry := p.reg.MustGet("hints")
	system := entry.System
	if category == "" {
		return system
	}
	restriction := entry.Auxiliary["category_restriction"]
	if restriction == "" {
		return system
	}
	rendered := Render(restriction, map[string]string{
		"selectedCategory": category,
		"forbiddenWords":   strings.Join(forbiddenWords(category), ", "),
	})
	return system + "\n\n" + rendered
}

func (p TwentyQPrompts) HintsUser(secretTOON string) string {
	entry := p.reg.MustGet("hints")
	return Render(entry.User, map[string]string{"toon": secretTOON})
}

func (p TwentyQPrompts) AnswerSystem() string {
	return p.reg.MustGet("answer").System
}

func (p TwentyQPrompts) AnswerUser(secretTOON, question, history string) string {
	entry := p.reg.MustGet("answer")
	result := Render(entry.User, map[string]string{"toon": secretTOON, "question": question})
	if history != "" {
		result = history + "\n\n" + result
	}
	return result
}

func (p TwentyQPrompts) VerifySystem() string {
	return p.reg.MustGet("verify-answer").System
}

func (p TwentyQPrompts) VerifyUser(target, guess string) string {
	entry := p.reg.MustGet("verify-answer")
	return Render(entry.User, map[string]string{"target": target, "guess": guess})
}

func (p TwentyQPrompts) NormalizeSystem() string {
	return p.reg.MustGet("normalize").System
}

func (p TwentyQPrompts) NormalizeUser(question string) string {
	entry := p.reg.MustGet("normalize")
	return Render(entry.User, map[string]string{"question": question})
}

func (p TwentyQPrompts) SynonymSystem() string {
	return p.reg.MustGet("synonym-check").System
}

func (p TwentyQPrompts) SynonymUser(target, guess string) string {
	entry := p.reg.MustGet("synonym-check")
	return Render(entry.User, map[string]string{"target": target, "guess": guess})
}
