package guard

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

type rawRule struct {
	Type    string   `yaml:"type"`
	ID      string   `yaml:"id"`
	Pattern string   `yaml:"pattern"`
	Phrases []string `yaml:"phrases"`
	Weight  *float64 `yaml:"weight"`
}

type rawRulepack struct {
	Version     int       `yaml:"version"`
	Threshold   *float64  `yaml:"threshold"`
	Normalizers []string  `yaml:"normalizers"`
	Rules       []rawRule `yaml:"rules"`
}

const defaultThreshold = 0.7

var defaultNormalizers = []string{"nfkc", "strip_zero_width"}

func parseRule(r rawRule) (Rule, error) {
	if r.Weight == nil {
		return Rule{}, fmt.Errorf("rule %q: missing weight", r.ID)
	}
	switch r.Type {
	case "regex":
		if r.ID == "" || r.Pattern == "" {
			return Rule{}, fmt.Errorf("regex rule requires id and pattern")
		}
		return Rule{Type: RuleTypeRegex, ID: r.ID, Pattern: r.Pattern, Weight: *r.Weight}, nil
	case "phrases":
		if r.ID == "" {
			return Rule{}, fmt.Errorf("phrases rule requires id")
		}
		if len(r.Phrases) == 0 {
			return Rule{}, fmt.Errorf("phrases rule %q: phrases must be non-empty", r.ID)
		}
		return Rule{Type: RuleTypePhrases, ID: r.ID, Phrases: r.Phrases, Weight: *r.Weight}, nil
	default:
		return Rule{}, fmt.Errorf("unknown rule type: %q", r.Type)
	}
}

// ParseRulepack decodes YAML bytes into a Rulepack, skipping (and logging)
// any individual rule that fails to parse rather than failing the whole
// file, matching the original loader's per-rule tolerance.
func ParseRulepack(data []byte) (Rulepack, error) {
	var raw rawRulepack
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Rulepack{}, fmt.Errorf("parse rulepack: %w", err)
	}

	version := raw.Version
	if version == 0 {
		version = 1
	}
	threshold := defaultThreshold
	if raw.Threshold != nil {
		threshold = *raw.Threshold
	}
	normalizers := raw.Normalizers
	if len(normalizers) == 0 {
		normalizers = defaultNormalizers
	}

	rules := make([]Rule, 0, len(raw.Rules))
	for _, rr := range raw.Rules {
		rule, err := parseRule(rr)
		if err != nil {
			log.Warn().Err(err).Str("rule_id", rr.ID).Msg("guard: skipping invalid rule")
			continue
		}
		rules = append(rules, rule)
	}

	return Rulepack{
		Version:     version,
		Threshold:   threshold,
		Normalizers: normalizers,
		Rules:       rules,
	}, nil
}

// LoadDirectory loads and parses every *.yml/*.yaml file in dir, skipping
// (and logging) files that fail to parse.
func LoadDirectory(dir string) ([]Rulepack, error) {
	var packs []Rulepack
	for _, pattern := range []string{"*.yml", "*.yaml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob rulepacks: %w", err)
		}
		for _, path := range matches {
			data, err := os.ReadFile(path)
			if err != nil {
				log.Error().Err(err).Str("path", path).Msg("guard: failed to read rulepack")
				continue
			}
			pack, err := ParseRulepack(data)
			if err != nil {
				log.Error().Err(err).Str("path", path).Msg("guard: failed to parse rulepack")
				continue
			}
			log.Info().Str("path", path).Int("rules", len(pack.Rules)).Msg("guard: loaded rulepack")
			packs = append(packs, pack)
		}
	}
	return packs, nil
}
