package guard

import (
	"regexp"
	"strings"

	ahocorasick "github.com/cloudflare/ahocorasick"
	"github.com/rs/zerolog/log"
)

type compiledRegex struct {
	id      string
	pattern *regexp.Regexp
	weight  float64
}

// CompiledPack is a Rulepack compiled into efficient matching structures:
// pre-compiled regexes and a single Aho-Corasick automaton over every
// phrase rule's phrases.
type CompiledPack struct {
	threshold      float64
	regexes        []compiledRegex
	automaton      *ahocorasick.Matcher
	phraseByIndex  []string
	weightByPhrase map[string]float64
}

// Compile builds a CompiledPack from a parsed Rulepack. Rules with invalid
// regex patterns are skipped and logged rather than failing the whole pack.
func Compile(pack Rulepack) CompiledPack {
	var regexes []compiledRegex
	var phrases []string
	weightByPhrase := make(map[string]float64)

	for _, rule := range pack.Rules {
		switch rule.Type {
		case RuleTypeRegex:
			re, err := regexp.Compile("(?i)" + rule.Pattern)
			if err != nil {
				log.Warn().Err(err).Str("rule_id", rule.ID).Msg("guard: invalid regex, skipping")
				continue
			}
			regexes = append(regexes, compiledRegex{id: rule.ID, pattern: re, weight: rule.Weight})
		case RuleTypePhrases:
			for _, phrase := range rule.Phrases {
				key := strings.ToLower(phrase)
				if _, exists := weightByPhrase[key]; !exists {
					phrases = append(phrases, key)
				}
				weightByPhrase[key] = rule.Weight
			}
		}
	}

	var automaton *ahocorasick.Matcher
	if len(phrases) > 0 {
		automaton = ahocorasick.NewStringMatcher(phrases)
	}

	return CompiledPack{
		threshold:      pack.Threshold,
		regexes:        regexes,
		automaton:      automaton,
		phraseByIndex:  phrases,
		weightByPhrase: weightByPhrase,
	}
}

// evaluate scans normalized text against this pack's regexes and phrases,
// returning the accumulated score and the matches that contributed to it.
// text must already be normalized; textLower is its lowercased form, reused
// across packs by the caller to avoid repeated allocation.
func (c CompiledPack) evaluate(text, textLower string) (float64, []Match) {
	var total float64
	var hits []Match

	for _, re := range c.regexes {
		if re.pattern.MatchString(text) {
			total += re.weight
			hits = append(hits, Match{ID: re.id, Weight: re.weight})
		}
	}

	if c.automaton != nil {
		for _, idx := range c.automaton.Match([]byte(textLower)) {
			phrase := c.phraseByIndex[idx]
			weight := c.weightByPhrase[phrase]
			if weight > 0 {
				total += weight
				hits = append(hits, Match{ID: "phrase:" + phrase, Weight: weight})
			}
		}
	}

	return total, hits
}
