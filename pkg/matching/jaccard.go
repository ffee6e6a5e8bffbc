package matching

import (
	"context"
	"time"

	"github.com/miguelangel-nubla/product-matcher/pkg/models"
)

// Jaccard is the exact token-overlap strategy. It is the highest-precision
// gate of the cascade: it succeeds only when exactly one product clears the
// threshold, treating ambiguity the same as no match and deferring to the
// next strategy.
type Jaccard struct{}

var _ Strategy = (*Jaccard)(nil)

func (s *Jaccard) Name() string { return StrategyJaccard }

func (s *Jaccard) Match(ctx context.Context, mc *Context, threshold float64, maxCandidates int) (models.MatchingResult, error) {
	start := time.Now()
	mc.Debug.Addf("jaccard: scoring %d aliases against %d input tokens (threshold %.3f)",
		len(mc.AliasCorpus), len(mc.InputTokens), threshold)

	scores := make(productScores)
	checked := 0
	for _, entry := range mc.AliasCorpus {
		checked++
		if score := JaccardSimilarity(mc.InputTokens, entry.Tokens); score >= threshold {
			scores.record(entry.ProductID, score)
		}
	}

	result := models.MatchingResult{
		StrategyName:      s.Name(),
		CandidatesChecked: checked,
		ThresholdUsed:     threshold,
	}

	if len(scores) == 1 {
		result.Success = true
		result.Candidates = scores.ranked()
		mc.Debug.Addf("jaccard: exactly one product cleared threshold (%s %.3f)",
			result.Candidates[0].ProductID, result.Candidates[0].Confidence)
	} else {
		mc.Debug.Addf("jaccard: %d products cleared threshold, deferring to next strategy", len(scores))
	}

	result.ProcessingTimeMS = elapsedMS(start)
	return result, nil
}

// JaccardSimilarity is |a ∩ b| / |a ∪ b| over token sets. Two empty
// sequences are identical (1.0); exactly one empty is fully dissimilar.
func JaccardSimilarity(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}

	setA := make(map[string]struct{}, len(a))
	for _, tok := range a {
		setA[tok] = struct{}{}
	}
	setB := make(map[string]struct{}, len(b))
	for _, tok := range b {
		setB[tok] = struct{}{}
	}

	intersection := 0
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}
