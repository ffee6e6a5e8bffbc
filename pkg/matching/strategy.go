package matching

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
	"github.com/miguelangel-nubla/product-matcher/pkg/embedding"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
)

// Strategy names, used as configuration keys for ordering and per-strategy
// thresholds.
const (
	StrategyJaccard  = "jaccard"
	StrategySemantic = "semantic"
	StrategyFuzzy    = "fuzzy"
)

// Strategy scores every corpus alias against the request context and reduces
// to at most one candidate per product. Strategies run in a cascade: earlier
// ones trade recall for confidence.
type Strategy interface {
	Name() string
	Match(ctx context.Context, mc *Context, threshold float64, maxCandidates int) (models.MatchingResult, error)
}

// BuildStrategies resolves an ordered list of strategy names to instances.
// Unknown names are rejected so a typo in configuration fails at startup
// instead of silently shortening the cascade.
func BuildStrategies(names []string, similarity embedding.Similarity, semanticTieDetection bool) ([]Strategy, error) {
	strategies := make([]Strategy, 0, len(names))
	for _, name := range names {
		switch name {
		case StrategyJaccard:
			strategies = append(strategies, &Jaccard{})
		case StrategySemantic:
			if similarity == nil {
				return nil, fmt.Errorf("semantic strategy requires an embedding client")
			}
			strategies = append(strategies, &Semantic{Similarity: similarity, TieDetection: semanticTieDetection})
		case StrategyFuzzy:
			strategies = append(strategies, &Fuzzy{})
		default:
			return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownStrategy, name)
		}
	}
	return strategies, nil
}

// productScores folds raw per-alias scores to the best score per product.
type productScores map[string]float64

func (ps productScores) record(productID string, score float64) {
	if best, ok := ps[productID]; !ok || score > best {
		ps[productID] = score
	}
}

// ranked returns the products sorted by score descending, product ID
// ascending as a deterministic tiebreaker for equal scores.
func (ps productScores) ranked() []models.MatchCandidate {
	candidates := make([]models.MatchCandidate, 0, len(ps))
	for productID, score := range ps {
		candidates = append(candidates, models.MatchCandidate{ProductID: productID, Confidence: score})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].ProductID < candidates[j].ProductID
	})
	return candidates
}

func truncate(candidates []models.MatchCandidate, maxCandidates int) []models.MatchCandidate {
	if maxCandidates > 0 && len(candidates) > maxCandidates {
		return candidates[:maxCandidates]
	}
	return candidates
}

// aboveThreshold counts on the candidates being sorted descending.
func aboveThreshold(candidates []models.MatchCandidate, threshold float64) []models.MatchCandidate {
	n := 0
	for _, c := range candidates {
		if c.Confidence < threshold {
			break
		}
		n++
	}
	return candidates[:n]
}

// topScoreShared reports whether the best score among the (descending
// sorted, non-empty) candidates is held by more than one product.
func topScoreShared(candidates []models.MatchCandidate) bool {
	return len(candidates) > 1 && candidates[1].Confidence == candidates[0].Confidence
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
