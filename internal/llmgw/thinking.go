package llmgw

import "strings"

// premiumThinkingPrefixes names model families whose thinking is configured
// by a categorical level rather than a numeric budget (Gemini 3 and later).
var premiumThinkingPrefixes = []string{"gemini-3"}

// IsPremiumThinkingModel reports whether model belongs to a family that
// takes a categorical thinking level instead of a token budget.
func IsPremiumThinkingModel(model string) bool {
	m := strings.ToLower(strings.TrimSpace(model))
	if idx := strings.LastIndex(m, "/"); idx != -1 {
		m = m[idx+1:]
	}
	for _, prefix := range premiumThinkingPrefixes {
		if strings.HasPrefix(m, prefix) {
			return true
		}
	}
	return false
}

// normalizeThinkingLevel maps a configured level onto the two levels
// premium models accept. medium is promoted to high; none/unknown values
// are omitted entirely rather than rejected.
func normalizeThinkingLevel(level string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low", "high":
		return strings.ToLower(level), true
	case "medium":
		return "high", true
	default:
		return "", false
	}
}

// thinkingSettings is what the caller needs to populate a
// genai.ThinkingConfig: either a categorical level (premium models) or a
// numeric budget (legacy models), never both.
type thinkingSettings struct {
	Level  string
	Budget int
}

// resolveThinking implements spec 4.3's thinking-configuration resolution:
// premium models get a level (or nothing), everything else gets a budget
// (or nothing).
func resolveThinking(model string, level string, budget int) thinkingSettings {
	if IsPremiumThinkingModel(model) {
		if normalized, ok := normalizeThinkingLevel(level); ok {
			return thinkingSettings{Level: normalized}
		}
		return thinkingSettings{}
	}
	if budget > 0 {
		return thinkingSettings{Budget: budget}
	}
	return thinkingSettings{}
}

// resolveTemperature implements spec 4.3's temperature policy: premium
// thinking models are pinned to 1.0 to avoid the model looping, everything
// else uses the configured value.
func resolveTemperature(model string, configured float64) float64 {
	if IsPremiumThinkingModel(model) {
		return 1.0
	}
	return configured
}
