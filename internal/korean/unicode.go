// Package korean implements Hangul-aware text classification, normalization,
// and a heuristic morphological analyzer used by the injection guard and the
// puzzle domains' answer-validation heuristics.
package korean

import (
	"fmt"
	"regexp"
	"strings"
)

// Hangul Unicode block boundaries.
const (
	HangulJamoStart   = 0x1100
	HangulJamoEnd     = 0x11FF
	HangulCompatStart = 0x3130
	HangulCompatEnd   = 0x318F
	HangulJamoAStart  = 0xA960
	HangulJamoAEnd    = 0xA97F
	HangulJamoBStart  = 0xD7B0
	HangulJamoBEnd    = 0xD7FF
	HangulSyllStart   = 0xAC00
	HangulSyllEnd     = 0xD7A3
)

// ZeroWidthJoiner is always treated as an emoji-adjacent codepoint.
const ZeroWidthJoiner = 0x200D

// emojiRanges enumerates the Unicode blocks treated as emoji for guard
// short-circuiting and heuristic scoring.
var emojiRanges = [][2]rune{
	{0x1F600, 0x1F64F}, // Emoticons
	{0x1F300, 0x1F5FF}, // Misc Symbols and Pictographs
	{0x1F680, 0x1F6FF}, // Transport and Map
	{0x1F1E0, 0x1F1FF}, // Flags
	{0x2600, 0x26FF},   // Misc symbols
	{0x2700, 0x27BF},   // Dingbats
	{0xFE00, 0xFE0F},   // Variation Selectors
	{0x1F900, 0x1F9FF}, // Supplemental Symbols and Pictographs
	{0x1FA00, 0x1FA6F}, // Chess Symbols
	{0x1FA70, 0x1FAFF}, // Symbols and Pictographs Extended-A
}

// IsEmojiCodepoint reports whether r falls in an emoji block or is the ZWJ.
func IsEmojiCodepoint(r rune) bool {
	if r == ZeroWidthJoiner {
		return true
	}
	for _, rg := range emojiRanges {
		if r >= rg[0] && r <= rg[1] {
			return true
		}
	}
	return false
}

// ContainsEmoji reports whether text has any emoji or ZWJ codepoint.
func ContainsEmoji(text string) bool {
	for _, r := range text {
		if IsEmojiCodepoint(r) {
			return true
		}
	}
	return false
}

// IsHangulSyllable reports whether r is a complete Hangul syllable.
func IsHangulSyllable(r rune) bool {
	return r >= HangulSyllStart && r <= HangulSyllEnd
}

// IsHangulJamo reports whether r falls in any Hangul Jamo block (not a
// complete syllable).
func IsHangulJamo(r rune) bool {
	return (r >= HangulJamoStart && r <= HangulJamoEnd) ||
		(r >= HangulCompatStart && r <= HangulCompatEnd) ||
		(r >= HangulJamoAStart && r <= HangulJamoAEnd) ||
		(r >= HangulJamoBStart && r <= HangulJamoBEnd)
}

var jamoBlockRegex = regexp.MustCompile(buildJamoPattern())

// jamoOnlyRegex matches strings consisting only of jamo, punctuation,
// digits, and whitespace — i.e. no complete Hangul syllable or other letter.
var jamoOnlyRegex = regexp.MustCompile(`^[\s\d!"#$%&'()*+,\-./:;<=>?@\[\\\]^_` + "`" + `{|}~` + jamoPatternBody() + `]+$`)

func buildJamoPattern() string {
	return "[" + jamoPatternBody() + "]"
}

func jamoPatternBody() string {
	return fmt.Sprintf(`\x{%x}-\x{%x}\x{%x}-\x{%x}\x{%x}-\x{%x}\x{%x}-\x{%x}`,
		HangulJamoStart, HangulJamoEnd,
		HangulCompatStart, HangulCompatEnd,
		HangulJamoAStart, HangulJamoAEnd,
		HangulJamoBStart, HangulJamoBEnd)
}

// IsJamoOnly reports whether text contains at least one jamo character and
// is otherwise composed only of jamo, digits, punctuation, and whitespace —
// the "bare consonants/vowels" pattern used to smuggle injection payloads
// past syllable-based filters.
func IsJamoOnly(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	return jamoBlockRegex.MatchString(trimmed) && jamoOnlyRegex.MatchString(trimmed)
}
