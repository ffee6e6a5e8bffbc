package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/miguelangel-nubla/product-matcher/pkg/embedding"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
)

// Semantic scores vector similarity between the joined input tokens and each
// joined alias. It succeeds as soon as one product clears the threshold and
// returns every qualifying product; with TieDetection enabled a top score
// shared by several products is treated as ambiguous instead (the policy the
// other strategies apply unconditionally).
type Semantic struct {
	Similarity   embedding.Similarity
	TieDetection bool
}

var _ Strategy = (*Semantic)(nil)

func (s *Semantic) Name() string { return StrategySemantic }

func (s *Semantic) Match(ctx context.Context, mc *Context, threshold float64, maxCandidates int) (models.MatchingResult, error) {
	start := time.Now()
	mc.Debug.Addf("semantic: scoring %d aliases (threshold %.3f)", len(mc.AliasCorpus), threshold)

	input := strings.Join(mc.InputTokens, " ")

	scores := make(productScores)
	checked := 0
	for _, entry := range mc.AliasCorpus {
		checked++
		score, err := s.Similarity.Similarity(ctx, input, strings.Join(entry.Tokens, " "))
		if err != nil {
			return models.MatchingResult{}, fmt.Errorf("semantic similarity for %q: %w", entry.OriginalText, err)
		}
		if score >= threshold {
			scores.record(entry.ProductID, score)
		}
	}

	result := models.MatchingResult{
		StrategyName:      s.Name(),
		CandidatesChecked: checked,
		ThresholdUsed:     threshold,
		Candidates:        truncate(scores.ranked(), maxCandidates),
	}

	switch {
	case len(result.Candidates) == 0:
		mc.Debug.Add("semantic: no products cleared threshold")
	case s.TieDetection && topScoreShared(result.Candidates):
		mc.Debug.Addf("semantic: top score %.3f shared by multiple products, ambiguous",
			result.Candidates[0].Confidence)
	default:
		result.Success = true
		mc.Debug.Addf("semantic: %d products cleared threshold, best %s %.3f",
			len(result.Candidates), result.Candidates[0].ProductID, result.Candidates[0].Confidence)
	}

	result.ProcessingTimeMS = elapsedMS(start)
	return result, nil
}
