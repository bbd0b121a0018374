package korean

import "regexp"

// Anomaly scoring thresholds, ported exactly from KomoranService.kt by way
// of the reference Kiwi-based implementation.
const (
	unknownRatioHigh   = 0.6
	unknownRatioMedium = 0.4
	unknownRatioLow    = 0.2

	unknownScoreHigh   = 0.4
	unknownScoreMedium = 0.3
	unknownScoreLow    = 0.1

	tokenLengthLow    = 0.6
	tokenLengthMedium = 0.8
	tokenLengthHigh   = 1.0

	tokenLengthScoreHigh   = 0.3
	tokenLengthScoreMedium = 0.2
	tokenLengthScoreLow    = 0.1

	hangulRatioLow    = 0.2
	hangulRatioMedium = 0.4

	hangulScoreMedium = 0.2
	hangulScoreLow    = 0.1

	contentRatioThreshold       = 0.15
	minTokenSizeForContentCheck = 3
	defaultAnomalyScore         = 0.5
	emptyTokenAnomalyScore      = 0.8
	minTextLengthForAnomaly     = 3
)

var (
	incompleteHangulPattern = regexp.MustCompile(`[ㄱ-ㅎㅏ-ㅣ]{2,}`)
	emoticonPattern         = regexp.MustCompile(`^.*[ㅋㅎ]{2,}.*$`)
)

func scoreUnknownTokens(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	unknown := 0
	for _, t := range tokens {
		if isUnknownTag(t.Tag) {
			unknown++
		}
	}
	ratio := float64(unknown) / float64(len(tokens))
	switch {
	case ratio > unknownRatioHigh:
		return unknownScoreHigh
	case ratio > unknownRatioMedium:
		return unknownScoreMedium
	case ratio > unknownRatioLow:
		return unknownScoreLow
	default:
		return 0
	}
}

func scoreTokenLength(tokens []Token) float64 {
	if len(tokens) == 0 {
		return 0
	}
	total := 0
	for _, t := range tokens {
		total += t.Length
	}
	avg := float64(total) / float64(len(tokens))
	switch {
	case avg < tokenLengthLow:
		return tokenLengthScoreHigh
	case avg < tokenLengthMedium:
		return tokenLengthScoreMedium
	case avg < tokenLengthHigh:
		return tokenLengthScoreLow
	default:
		return 0
	}
}

func scoreIncompleteHangul(text string) float64 {
	if text == "" {
		return 0
	}
	runes := []rune(text)
	hangulCount := 0
	for _, r := range runes {
		if IsHangulSyllable(r) {
			hangulCount++
		}
	}
	hangulRatio := float64(hangulCount) / float64(len(runes))

	hasIncomplete := incompleteHangulPattern.MatchString(text)
	isEmoticon := emoticonPattern.MatchString(text)

	if hasIncomplete && !isEmoticon {
		switch {
		case hangulRatio < hangulRatioLow:
			return hangulScoreMedium
		case hangulRatio < hangulRatioMedium:
			return hangulScoreLow
		}
	}
	return 0
}

func scoreContentRatio(tokens []Token) float64 {
	if len(tokens) <= minTokenSizeForContentCheck {
		return 0
	}
	content := 0
	for _, t := range tokens {
		if isContentTag(t.Tag) {
			content++
		}
	}
	ratio := float64(content) / float64(len(tokens))
	if ratio < contentRatioThreshold {
		return contentRatioThreshold
	}
	return 0
}

// AnomalyScore computes an injection-likelihood score in [0, 1] for text,
// using the same four independent signals as the original: unknown-token
// ratio, average token length, incomplete-Hangul presence, and content-word
// ratio. Texts shorter than minTextLengthForAnomaly are never scored.
//
// Tokenization here can't fail the way a loaded NLP model can, but scoring
// still degrades to defaultAnomalyScore on panic rather than propagating,
// matching the original's tolerate-and-degrade posture around its
// tokenizer call.
func AnomalyScore(text string) (score float64) {
	if len([]rune(text)) < minTextLengthForAnomaly {
		return 0
	}

	defer func() {
		if recover() != nil {
			score = defaultAnomalyScore
		}
	}()

	tokens := Tokenize(text)
	if len(tokens) == 0 {
		return emptyTokenAnomalyScore
	}

	total := scoreUnknownTokens(tokens) +
		scoreTokenLength(tokens) +
		scoreIncompleteHangul(text) +
		scoreContentRatio(tokens)

	return clamp01(total)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
