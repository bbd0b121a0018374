package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writePromptFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDirectoryParsesEntries(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "hints.yml", "system: sys text\nuser: user {toon}\ncategory_restriction: restrict {selectedCategory}\n")
	writePromptFile(t, dir, "answer.yml", "system: answer sys\nuser: answer {question}\n")

	reg, err := LoadDirectory(dir)
	require.NoError(t, err)

	hints, ok := reg.Get("hints")
	require.True(t, ok)
	require.Equal(t, "sys text", hints.System)
	require.Equal(t, "restrict {selectedCategory}", hints.Auxiliary["category_restriction"])

	answer, ok := reg.Get("answer")
	require.True(t, ok)
	require.Equal(t, "answer sys", answer.System)
}

func TestLoadDirectorySkipsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	writePromptFile(t, dir, "good.yml", "system: ok\nuser: ok\n")
	writePromptFile(t, dir, "bad.yml", "not: [valid, mapping\n")

	reg, err := LoadDirectory(dir)
	require.NoError(t, err)

	_, ok := reg.Get("good")
	require.True(t, ok)
	_, ok = reg.Get("bad")
	require.False(t, ok)
}

func TestMustGetReturnsZeroValueWhenMissing(t *testing.T) {
	reg := &Registry{entries: map[string]Entry{}}
	entry := reg.MustGet("nope")
	require.Equal(t, Entry{}, entry)
}
