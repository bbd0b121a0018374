package prompts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderSubstitutesPlaceholder(t *testing.T) {
	got := Render("hello {name}", map[string]string{"name": "world"})
	require.Equal(t, "hello world", got)
}

func TestRenderUnescapesDoubledBraces(t *testing.T) {
	got := Render(`{{"hint": "{value}"}}`, map[string]string{"value": "x"})
	require.Equal(t, `{"hint": "x"}`, got)
}

func TestRenderIsIdempotentWithNoVars(t *testing.T) {
	template := `{{"a": 1, "b": 2}}`
	got := Render(template, nil)
	require.Equal(t, `{"a": 1, "b": 2}`, got)
	// re-rendering the already-substituted text changes nothing further,
	// since single braces are passed through untouched.
	require.Equal(t, got, Render(got, nil))
}

func TestRenderLeavesUnknownPlaceholderVerbatim(t *testing.T) {
	got := Render("{missing}", map[string]string{})
	require.Equal(t, "{missing}", got)
}
