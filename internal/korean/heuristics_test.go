package korean

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAnalyzeHeuristicsFlagsUnitNounAndNumber(t *testing.T) {
	h := AnalyzeHeuristics("5 글자")
	require.True(t, h.NumericQuantifier)
	require.True(t, h.UnitNoun)
	require.False(t, h.BoundaryRef)
	require.False(t, h.ComparisonWord)
}

func TestAnalyzeHeuristicsFlagsBoundaryAndComparison(t *testing.T) {
	h := AnalyzeHeuristics("처음 글자 이상 이다")
	require.True(t, h.BoundaryRef)
	require.True(t, h.ComparisonWord)
	require.True(t, h.UnitNoun)
}

func TestAnalyzeHeuristicsEmptyText(t *testing.T) {
	require.Equal(t, Heuristics{}, AnalyzeHeuristics(""))
}
