package korean

import (
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormalizeNFKC applies Unicode NFKC normalization.
func NormalizeNFKC(text string) string {
	return norm.NFKC.String(text)
}

// StripControlChars removes Unicode format (Cf) and control (Cc) characters.
func StripControlChars(text string) string {
	out := make([]rune, 0, len(text))
	for _, r := range text {
		if unicode.Is(unicode.Cf, r) || unicode.Is(unicode.Cc, r) {
			continue
		}
		out = append(out, r)
	}
	return string(out)
}

// NormalizeText applies NFKC normalization followed by control-char
// stripping, the default pipeline used before guard evaluation.
func NormalizeText(text string) string {
	return StripControlChars(NormalizeNFKC(text))
}
