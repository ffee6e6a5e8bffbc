package matching

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSimilarity serves canned scores keyed by the alias side of the
// comparison and fails for anything not in the table.
type fakeSimilarity struct {
	scores map[string]float64
	err    error
	calls  int
}

func (f *fakeSimilarity) Similarity(_ context.Context, _, b string) (float64, error) {
	f.calls++
	if f.err != nil {
		return 0, f.err
	}
	score, ok := f.scores[b]
	if !ok {
		return 0, errors.New("unexpected comparison: " + b)
	}
	return score, nil
}

func TestSemanticReturnsAllQualifyingProducts(t *testing.T) {
	mc := testContext([]string{"soda"},
		entry("p1", "Cola", "cola"),
		entry("p2", "Lemonade", "lemonade"),
		entry("p3", "Paper Towel", "paper", "towel"),
	)
	sim := &fakeSimilarity{scores: map[string]float64{
		"cola":        0.91,
		"lemonade":    0.85,
		"paper towel": 0.12,
	}}

	result, err := (&Semantic{Similarity: sim}).Match(context.Background(), mc, 0.8, 10)
	require.NoError(t, err)

	assert.True(t, result.Success)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "p1", result.Candidates[0].ProductID)
	assert.Equal(t, "p2", result.Candidates[1].ProductID)
	assert.Equal(t, 3, result.CandidatesChecked)
	assert.Equal(t, 3, sim.calls)
}

func TestSemanticNoQualifiersIsFailure(t *testing.T) {
	mc := testContext([]string{"soda"},
		entry("p1", "Paper Towel", "paper", "towel"),
	)
	sim := &fakeSimilarity{scores: map[string]float64{"paper towel": 0.12}}

	result, err := (&Semantic{Similarity: sim}).Match(context.Background(), mc, 0.8, 10)
	require.NoError(t, err)

	assert.False(t, result.Success)
	assert.Empty(t, result.Candidates)
}

func TestSemanticTieDetection(t *testing.T) {
	corpus := []struct{ id, alias string }{
		{"p1", "cola"},
		{"p2", "soda pop"},
	}
	mc := testContext([]string{"soda"},
		entry(corpus[0].id, corpus[0].alias, "cola"),
		entry(corpus[1].id, corpus[1].alias, "soda", "pop"),
	)
	scores := map[string]float64{"cola": 0.9, "soda pop": 0.9}

	// Default policy: any product past the threshold is a win, even when
	// the top score is shared.
	result, err := (&Semantic{Similarity: &fakeSimilarity{scores: scores}}).
		Match(context.Background(), mc, 0.8, 10)
	require.NoError(t, err)
	assert.True(t, result.Success)

	// With tie detection a shared top score is ambiguous.
	result, err = (&Semantic{Similarity: &fakeSimilarity{scores: scores}, TieDetection: true}).
		Match(context.Background(), mc, 0.8, 10)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Len(t, result.Candidates, 2)
}

func TestSemanticPropagatesProviderError(t *testing.T) {
	mc := testContext([]string{"soda"}, entry("p1", "Cola", "cola"))
	sim := &fakeSimilarity{err: errors.New("embedding endpoint unreachable")}

	_, err := (&Semantic{Similarity: sim}).Match(context.Background(), mc, 0.8, 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding endpoint unreachable")
}

func TestSemanticRespectsMaxCandidates(t *testing.T) {
	mc := testContext([]string{"soda"},
		entry("p1", "Cola", "cola"),
		entry("p2", "Lemonade", "lemonade"),
		entry("p3", "Tonic", "tonic"),
	)
	sim := &fakeSimilarity{scores: map[string]float64{
		"cola": 0.95, "lemonade": 0.9, "tonic": 0.85,
	}}

	result, err := (&Semantic{Similarity: sim}).Match(context.Background(), mc, 0.8, 2)
	require.NoError(t, err)
	require.Len(t, result.Candidates, 2)
	assert.Equal(t, "p1", result.Candidates[0].ProductID)
}
