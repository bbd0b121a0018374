package guard

import (
	"math"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"llmgateway/internal/config"
	"llmgateway/internal/korean"
)

const defaultMaliciousThreshold = 0.7

// AnomalyScorer computes a morphological anomaly score in [0, 1] for text.
// Swappable for tests; production wiring uses korean.AnomalyScore.
type AnomalyScorer func(text string) float64

// Guard evaluates input text for prompt-injection risk, combining compiled
// rulepacks, Hangul/emoji short-circuits, and a morphological anomaly
// scorer behind an evaluation cache with in-flight request de-duplication.
type Guard struct {
	enabled          bool
	threshold        float64
	anomalyThreshold float64
	packs            []CompiledPack
	scorer           AnomalyScorer
	cache            *evalCache
	flight           singleflight.Group
}

// New builds a Guard from configuration and pre-compiled rulepacks. A nil
// scorer selects korean.AnomalyScore, so anomaly scoring is always active.
func New(cfg config.GuardConfig, packs []CompiledPack, scorer AnomalyScorer) *Guard {
	if scorer == nil {
		scorer = korean.AnomalyScore
	}
	return &Guard{
		enabled:          cfg.Enabled,
		threshold:        cfg.Threshold,
		anomalyThreshold: cfg.AnomalyThreshold,
		packs:            packs,
		scorer:           scorer,
		cache:            newEvalCache(cfg.CacheMaxSize, time.Duration(cfg.CacheTTLSeconds)*time.Second),
	}
}

// Evaluate scores input for injection risk, serving from cache when
// available and collapsing concurrent evaluations of identical input into
// one underlying computation.
func (g *Guard) Evaluate(inputText string) Evaluation {
	if !g.enabled {
		return Evaluation{Score: 0, Hits: nil, Threshold: math.Inf(1)}
	}

	if cached, ok := g.cache.get(inputText); ok {
		return cached
	}

	key := hashText(inputText)
	v, _, _ := g.flight.Do(key, func() (any, error) {
		if cached, ok := g.cache.get(inputText); ok {
			return cached, nil
		}
		eval := g.evaluateInternal(inputText)
		g.cache.set(inputText, eval)
		return eval, nil
	})
	return v.(Evaluation)
}

// IsMalicious is a convenience wrapper around Evaluate.
func (g *Guard) IsMalicious(inputText string) bool {
	return g.Evaluate(inputText).Malicious()
}

func (g *Guard) evaluateInternal(inputText string) Evaluation {
	threshold := g.effectiveThreshold()

	if korean.IsJamoOnly(inputText) {
		return Evaluation{Score: threshold, Hits: []Match{{ID: "jamo_only", Weight: threshold}}, Threshold: threshold}
	}
	if korean.ContainsEmoji(inputText) {
		return Evaluation{Score: threshold, Hits: []Match{{ID: "emoji_detected", Weight: threshold}}, Threshold: threshold}
	}

	normalized := korean.NormalizeText(inputText)
	baseScore, hits := g.evaluatePacks(normalized)

	anomalyScore, anomalyHit := g.computeAnomaly(inputText)
	if anomalyHit != nil {
		hits = append(hits, *anomalyHit)
	}

	return Evaluation{Score: baseScore + anomalyScore, Hits: hits, Threshold: threshold}
}

func (g *Guard) effectiveThreshold() float64 {
	if g.threshold > 0 {
		return g.threshold
	}
	max := 0.0
	for _, p := range g.packs {
		if p.threshold > max {
			max = p.threshold
		}
	}
	if max > 0 {
		return max
	}
	return defaultMaliciousThreshold
}

func (g *Guard) evaluatePacks(normalized string) (float64, []Match) {
	lower := strings.ToLower(normalized)
	var total float64
	var hits []Match
	for _, pack := range g.packs {
		score, packHits := pack.evaluate(normalized, lower)
		total += score
		hits = append(hits, packHits...)
	}
	return total, hits
}

func (g *Guard) computeAnomaly(inputText string) (float64, *Match) {
	if g.scorer == nil {
		return 0, nil
	}
	score := g.scorer(inputText)
	if score > g.anomalyThreshold {
		return score, &Match{ID: "morphological_anomaly", Weight: score}
	}
	return 0, nil
}
