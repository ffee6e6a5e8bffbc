package matching

import (
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
)

// Context is the shared, per-request bundle every strategy scores against.
// It is assembled once per match call and treated as immutable; the corpus
// is fetched fresh for each request because the external catalog is the
// system of record (a human may have added an alias since the last call).
type Context struct {
	InputTokens     []string
	NormalizedInput string
	AliasCorpus     []models.AliasEntry
	Debug           *Tracker
}
