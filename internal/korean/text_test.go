package korean

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNormalizeNFKCFoldsCompatibilityForms(t *testing.T) {
	// Fullwidth "A" (U+FF21) NFKC-normalizes to ASCII "A".
	require.Equal(t, "A", NormalizeNFKC("Ａ"))
}

func TestStripControlCharsRemovesFormatAndControl(t *testing.T) {
	withZeroWidth := "안​녕" // zero-width space is category Cf
	require.Equal(t, "안녕", StripControlChars(withZeroWidth))
}

func TestNormalizeTextAppliesBothPasses(t *testing.T) {
	got := NormalizeText("Ａ​")
	require.Equal(t, "A", got)
}
