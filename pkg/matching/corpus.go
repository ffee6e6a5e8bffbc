package matching

import (
	"context"
	"fmt"

	"github.com/miguelangel-nubla/product-matcher/pkg/adapters/inventory"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
	"github.com/miguelangel-nubla/product-matcher/pkg/normalize"
)

// BuildCorpus fetches every (product, alias) pair from the inventory source
// and normalizes each alias for matching. The corpus is deliberately rebuilt
// on every request: the external catalog is the system of record and may
// have been edited (not least by alias learning) since the previous call.
// The normalizer's per-string memoization still amortizes repeated alias
// strings across requests.
func BuildCorpus(ctx context.Context, source inventory.Source, normalizer *normalize.Normalizer, debug *Tracker) ([]models.AliasEntry, error) {
	debug.Add("corpus: fetching aliases from inventory")

	aliases, err := source.GetAllAliases(ctx)
	if err != nil {
		return nil, fmt.Errorf("building alias corpus: %w", err)
	}

	corpus := make([]models.AliasEntry, 0, len(aliases))
	for _, pa := range aliases {
		corpus = append(corpus, models.AliasEntry{
			ProductID:    pa.ProductID,
			OriginalText: pa.Alias,
			Tokens:       normalizer.Normalize(pa.Alias),
		})
	}

	debug.Addf("corpus: normalized %d aliases", len(corpus))
	return corpus, nil
}
