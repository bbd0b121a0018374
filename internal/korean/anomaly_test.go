package korean

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnomalyScoreShortTextIsZero(t *testing.T) {
	require.Equal(t, 0.0, AnomalyScore("ab"))
}

func TestAnomalyScoreEmptyTokensHitsEmptyConstant(t *testing.T) {
	// Whitespace-only text is long enough but tokenizes to nothing.
	require.Equal(t, emptyTokenAnomalyScore, AnomalyScore("      "))
}

func TestAnomalyScoreClampedToUnitInterval(t *testing.T) {
	score := AnomalyScore("ㅋㅎㅋㅎㅋㅎㅋㅎ !!! 123")
	require.GreaterOrEqual(t, score, 0.0)
	require.LessOrEqual(t, score, 1.0)
}

func TestAnomalyScoreOrdinaryKoreanSentenceIsLow(t *testing.T) {
	score := AnomalyScore("오늘 날씨가 정말 좋네요")
	require.Less(t, score, 0.5)
}

func TestScoreUnknownTokensThresholds(t *testing.T) {
	mostlyUnknown := []Token{{Tag: tagUnknown}, {Tag: tagUnknown}, {Tag: tagUnknown}, {Tag: tagNounGeneral}}
	require.Equal(t, unknownScoreHigh, scoreUnknownTokens(mostlyUnknown))
}

func TestScoreContentRatioRequiresMinimumTokens(t *testing.T) {
	few := []Token{{Tag: tagUnknown}, {Tag: tagUnknown}}
	require.Equal(t, 0.0, scoreContentRatio(few))
}
