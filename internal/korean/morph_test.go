package korean

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenizeSplitsByScript(t *testing.T) {
	tokens := Tokenize("안녕 hello 123")
	require.Len(t, tokens, 3)
	require.Equal(t, "안녕", tokens[0].Form)
	require.Equal(t, tagNounGeneral, tokens[0].Tag)
	require.Equal(t, "hello", tokens[1].Form)
	require.Equal(t, tagForeign, tokens[1].Tag)
	require.Equal(t, "123", tokens[2].Form)
	require.Equal(t, tagNumeral, tokens[2].Tag)
}

func TestTokenizeTagsParticlesAndEndings(t *testing.T) {
	tokens := Tokenize("고양이는 귀엽다")
	require.Len(t, tokens, 3)
	require.Equal(t, "고양이", tokens[0].Form)
	require.Equal(t, tagNounGeneral, tokens[0].Tag)
	require.Equal(t, "는", tokens[1].Form)
	require.Equal(t, tagParticle, tokens[1].Tag)
}

func TestTokenizeEmptyInput(t *testing.T) {
	require.Nil(t, Tokenize(""))
	require.Nil(t, Tokenize("   "))
}

func TestTokenizeTagsJamoAsUnknown(t *testing.T) {
	tokens := Tokenize("ㅋㅋㅋㅋ")
	require.Len(t, tokens, 1)
	require.Equal(t, tagUnknown, tokens[0].Tag)
}
