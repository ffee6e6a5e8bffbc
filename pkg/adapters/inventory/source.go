// Package inventory defines the contract to external inventory catalogs and
// the adapters that implement it. The catalog is the system of record for
// products and their aliases: the matching engine reads it fresh on every
// request and writes learned aliases back through the same interface.
package inventory

import "context"

// Product is the standardized view of a catalog product. The first alias is
// the primary name; the rest are alternatives, including learned ones.
type Product struct {
	ID          string   `json:"id"`
	Aliases     []string `json:"aliases"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Unit        string   `json:"unit,omitempty"`
	Barcode     string   `json:"barcode,omitempty"`
}

// Name returns the primary product name.
func (p Product) Name() string {
	if len(p.Aliases) == 0 {
		return ""
	}
	return p.Aliases[0]
}

// ProductAlias is one (product, alias text) pair from the catalog.
type ProductAlias struct {
	ProductID string
	Alias     string
}

// Source is the logical contract with an external inventory system. Fetch
// failures surface as errors wrapping apperrors.ErrInventoryUnavailable; the
// engine never retries them.
type Source interface {
	// GetAllAliases returns every (product_id, alias) pair in the catalog,
	// primary names included.
	GetAllAliases(ctx context.Context) ([]ProductAlias, error)

	// GetProductDetails returns one product, or apperrors.ErrNotFound.
	GetProductDetails(ctx context.Context, productID string) (*Product, error)

	// SearchProducts finds products whose name or description contains the
	// query, for manual resolution UIs.
	SearchProducts(ctx context.Context, query string, limit int) ([]Product, error)

	// AddAlias registers a new alias on a product in the external system.
	// The error message carries the underlying cause verbatim.
	AddAlias(ctx context.Context, productID, alias string) error
}
