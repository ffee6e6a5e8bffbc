package matching

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/hbollon/go-edlib"

	"github.com/miguelangel-nubla/product-matcher/pkg/models"
)

// Fuzzy is the catch-all strategy: normalized edit-distance ratio between
// the token-sorted joined input and each token-sorted joined alias. It
// always returns the full top-N candidate list, success or not, so a human
// reviewing a pending query sees the near misses. Among candidates at or
// above threshold it succeeds when the best score is held by a single
// product; a shared top score is ambiguous.
type Fuzzy struct{}

var _ Strategy = (*Fuzzy)(nil)

func (s *Fuzzy) Name() string { return StrategyFuzzy }

func (s *Fuzzy) Match(ctx context.Context, mc *Context, threshold float64, maxCandidates int) (models.MatchingResult, error) {
	start := time.Now()
	mc.Debug.Addf("fuzzy: scoring %d aliases (threshold %.3f)", len(mc.AliasCorpus), threshold)

	input := tokenSortJoin(mc.InputTokens)

	scores := make(productScores)
	checked := 0
	for _, entry := range mc.AliasCorpus {
		checked++
		alias := tokenSortJoin(entry.Tokens)
		if input == "" || alias == "" {
			continue
		}
		scores.record(entry.ProductID, tokenSortRatio(input, alias))
	}

	result := models.MatchingResult{
		StrategyName:      s.Name(),
		CandidatesChecked: checked,
		ThresholdUsed:     threshold,
		Candidates:        truncate(scores.ranked(), maxCandidates),
	}

	qualified := aboveThreshold(result.Candidates, threshold)
	switch {
	case len(qualified) == 0:
		mc.Debug.Add("fuzzy: no products cleared threshold")
	case topScoreShared(qualified):
		mc.Debug.Addf("fuzzy: top score %.3f shared by multiple products, ambiguous",
			qualified[0].Confidence)
	default:
		result.Success = true
		mc.Debug.Addf("fuzzy: unique best match %s %.3f",
			qualified[0].ProductID, qualified[0].Confidence)
	}

	result.ProcessingTimeMS = elapsedMS(start)
	return result, nil
}

// tokenSortJoin joins a sorted copy of the tokens, making the comparison
// insensitive to token order.
func tokenSortJoin(tokens []string) string {
	sorted := append([]string(nil), tokens...)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}

// tokenSortRatio is the Levenshtein similarity of the two pre-sorted joined
// strings, in [0, 1].
func tokenSortRatio(a, b string) float64 {
	score, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0.0
	}
	return float64(score)
}
