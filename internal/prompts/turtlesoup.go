package prompts

import "strconv"

// TurtleSoupPrompts renders the turtle-soup task templates.
type TurtleSoupPrompts struct {
	reg *Registry
}

// NewTurtleSoupPrompts wraps a loaded Registry with the turtle-soup
// accessor API.
func NewTurtleSoupPrompts(reg *Registry) TurtleSoupPrompts {
	return TurtleSoupPrompts{reg: reg}
}

func (p TurtleSoupPrompts) AnswerSystem() string {
	return p.reg.MustGet("answer").System
}

func (p TurtleSoupPrompts) AnswerUser(puzzleTOON, question, history string) string {
	entry := p.reg.MustGet("answer")
	template := entry.User
	if template == "" {
		template = "{puzzle}\n{question}"
	}
	return Render(template, map[string]string{
		"puzzle": puzzleTOON, "question": question, "history": history,
	})
}

func (p TurtleSoupPrompts) HintSystem() string {
	return p.reg.MustGet("hint").System
}

func (p TurtleSoupPrompts) HintUser(puzzleTOON string, level int) string {
	entry := p.reg.MustGet("hint")
	template := entry.User
	if template == "" {
		template = "{puzzle}\n{level}"
	}
	return Render(template, map[string]string{
		"puzzle": puzzleTOON, "level": strconv.Itoa(level),
	})
}

func (p TurtleSoupPrompts) ValidateSystem() string {
	return p.reg.MustGet("validate").System
}

func (p TurtleSoupPrompts) ValidateUser(solution, playerAnswer string) string {
	entry := p.reg.MustGet("validate")
	template := entry.User
	if template == "" {
		template = "{solution}\n{player_answer}"
	}
	return Render(template, map[string]string{
		"solution": solution, "player_answer": playerAnswer,
	})
}

func (p TurtleSoupPrompts) RevealSystem() string {
	return p.reg.MustGet("reveal").System
}

func (p TurtleSoupPrompts) RevealUser(puzzleTOON string) string {
	entry := p.reg.MustGet("reveal")
	template := entry.User
	if template == "" {
		template = "{puzzle}"
	}
	return Render(template, map[string]string{"puzzle": puzzleTOON})
}

func (p TurtleSoupPrompts) GenerateSystem() string {
	return p.reg.MustGet("generate").System
}

func (p TurtleSoupPrompts) GenerateUser(category string, difficulty int, theme, examples string) string {
	entry := p.reg.MustGet("generate")
	template := entry.User
	if template == "" {
		template = "카테고리: {category}, 난이도: {difficulty}, 테마: {theme}\n{examples}"
	}
	return Render(template, map[string]string{
		"category": category, "difficulty": strconv.Itoa(difficulty),
		"theme": theme, "examples": examples,
	})
}

func (p TurtleSoupPrompts) RewriteSystem() string {
	return p.reg.MustGet("rewrite").System
}

func (p TurtleSoupPrompts) RewriteUser(title, scenario, solution string, difficulty int) string {
	entry := p.reg.MustGet("rewrite")
	template := entry.User
	if template == "" {
		template = "제목: {title}\n원본 시나리오: {scenario}\n정답: {solution}\n난이도: {difficulty}"
	}
	return Render(template, map[string]string{
		"title": title, "scenario": scenario, "solution": solution,
		"difficulty": strconv.Itoa(difficulty),
	})
}
