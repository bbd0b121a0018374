package prompts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Registry holds loaded prompt entries keyed by task name (the YAML file's
// base name, e.g. "hints", "answer", "verify-answer").
type Registry struct {
	entries map[string]Entry
}

// LoadDirectory loads every *.yml file directly under dir into a Registry.
// A file that fails to parse is skipped with a logged warning, matching the
// guard rulepack loader's per-file graceful degradation.
func LoadDirectory(dir string) (*Registry, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.yml"))
	if err != nil {
		return nil, fmt.Errorf("prompts: glob %s: %w", dir, err)
	}

	reg := &Registry{entries: make(map[string]Entry, len(matches))}
	for _, path := range matches {
		info, err := os.Stat(path)
		if err != nil || info.IsDir() {
			continue
		}
		entry, err := loadFile(path)
		if err != nil {
			log.Warn().Str("path", path).Err(err).Msg("prompt_file_skipped")
			continue
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		reg.entries[name] = entry
	}
	log.Info().Str("dir", dir).Int("count", len(reg.entries)).Msg("prompts_loaded")
	return reg, nil
}

func loadFile(path string) (Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Entry{}, fmt.Errorf("read: %w", err)
	}

	var raw rawEntry
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Entry{}, fmt.Errorf("parse: %w", err)
	}
	return raw.toEntry(), nil
}

// Get returns the entry for task, and whether it was found.
func (r *Registry) Get(task string) (Entry, bool) {
	e, ok := r.entries[task]
	return e, ok
}

// MustGet returns the entry for task, or a zero Entry if absent. Callers
// that need a template missing from disk get an empty string rather than a
// panic, matching the original's dict.get(..., {}) fallback chain.
func (r *Registry) MustGet(task string) Entry {
	return r.entries[task]
}
