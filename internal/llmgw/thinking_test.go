package llmgw

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIsPremiumThinkingModel(t *testing.T) {
	require.True(t, IsPremiumThinkingModel("gemini-3-pro-preview"))
	require.True(t, IsPremiumThinkingModel("google/gemini-3-flash"))
	require.True(t, IsPremiumThinkingModel("GEMINI-3-PRO"))
	require.False(t, IsPremiumThinkingModel("gemini-2.5-flash"))
	require.False(t, IsPremiumThinkingModel(""))
}

func TestResolveThinkingPremiumModel(t *testing.T) {
	require.Equal(t, thinkingSettings{Level: "low"}, resolveThinking("gemini-3-pro", "low", 0))
	require.Equal(t, thinkingSettings{Level: "high"}, resolveThinking("gemini-3-pro", "high", 0))
	require.Equal(t, thinkingSettings{Level: "high"}, resolveThinking("gemini-3-pro", "medium", 0))
	require.Equal(t, thinkingSettings{}, resolveThinking("gemini-3-pro", "unknown", 4096))
	require.Equal(t, thinkingSettings{}, resolveThinking("gemini-3-pro", "", 0))
}

func TestResolveThinkingLegacyModel(t *testing.T) {
	require.Equal(t, thinkingSettings{Budget: 2048}, resolveThinking("gemini-2.5-flash", "high", 2048))
	require.Equal(t, thinkingSettings{}, resolveThinking("gemini-2.5-flash", "high", 0))
	require.Equal(t, thinkingSettings{}, resolveThinking("gemini-2.5-flash", "high", -1))
}

func TestResolveTemperature(t *testing.T) {
	require.Equal(t, 1.0, resolveTemperature("gemini-3-pro", 0.4))
	require.Equal(t, 0.4, resolveTemperature("gemini-2.5-flash", 0.4))
}
