package toon

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodePrimitives(t *testing.T) {
	require.Equal(t, "null", Encode(nil))
	require.Equal(t, "true", Encode(true))
	require.Equal(t, "false", Encode(false))
	require.Equal(t, "42", Encode(42))
	require.Equal(t, "3.5", Encode(3.5))
	require.Equal(t, "hello", Encode("hello"))
}

func TestEncodeStringQuotesOnSpecialChars(t *testing.T) {
	require.Equal(t, `"a,b"`, Encode("a,b"))
	require.Equal(t, `"a:b"`, Encode("a:b"))
	require.Equal(t, "\"a\nb\"", Encode("a\nb"))
	require.Equal(t, `"say \"hi\""`, Encode(`say "hi"`))
	require.Equal(t, `"it's"`, Encode("it's"))
	require.Equal(t, "plain word", Encode("plain word"))
}

func TestEncodeEmptyCollections(t *testing.T) {
	require.Equal(t, "[]", Encode([]any{}))
	require.Equal(t, "{}", Encode(Object{}))
}

func TestEncodePrimitiveList(t *testing.T) {
	got := Encode([]any{1, 2, 3})
	require.Equal(t, "[3]: 1,2,3", got)
}

func TestEncodeUniformObjectListRendersTable(t *testing.T) {
	items := []any{
		Object{{Key: "name", Value: "a"}, {Key: "score", Value: 1}},
		Object{{Key: "name", Value: "b"}, {Key: "score", Value: 2}},
	}
	got := Encode(items)
	require.Equal(t, "[2]{name,score}:\n a,1\n b,2", got)
}

func TestEncodeMixedListRendersGenericDashForm(t *testing.T) {
	items := []any{1, Object{{Key: "k", Value: "v"}}}
	got := Encode(items)
	require.Equal(t, "[2]:\n - 1\n - k: v", got)
}

func TestEncodeObjectWithNestedDict(t *testing.T) {
	obj := Object{
		{Key: "name", Value: "bot"},
		{Key: "meta", Value: Object{{Key: "version", Value: 2}}},
	}
	got := Encode(obj)
	require.Equal(t, "name: bot\nmeta:\n  version: 2", got)
}

func TestEncodeObjectWithUniformListValueRendersTable(t *testing.T) {
	obj := Object{
		{Key: "rows", Value: []any{
			Object{{Key: "a", Value: 1}},
			Object{{Key: "a", Value: 2}},
		}},
	}
	got := Encode(obj)
	require.Equal(t, "rows[2]{a}:\n  1\n  2", got)
}

func TestEncodeSecretOmitsDetailsWhenEmpty(t *testing.T) {
	got := EncodeSecret("coffee", "object", nil)
	require.Equal(t, "target: coffee\ncategory: object", got)
}

func TestEncodeSecretIncludesDetails(t *testing.T) {
	got := EncodeSecret("coffee", "object", map[string]any{"origin": "brazil"})
	require.Equal(t, "target: coffee\ncategory: object\ndetails:\n  origin: brazil", got)
}

func TestEncodePuzzleOmitsDifficultyWhenNil(t *testing.T) {
	got := EncodePuzzle("scenario text", "solution text", "", nil)
	require.Equal(t, "scenario: scenario text\nsolution: solution text", got)
}

func TestEncodePuzzleIncludesDifficultyAndCategory(t *testing.T) {
	difficulty := 3
	got := EncodePuzzle("scenario", "solution", "classic", &difficulty)
	require.Equal(t, "scenario: scenario\nsolution: solution\ncategory: classic\ndifficulty: 3", got)
}
