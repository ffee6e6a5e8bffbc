package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
)

// defaultAliasField is the Grocy product userfield holding learned aliases,
// newline separated.
const defaultAliasField = "ProductAltNames"

// GrocyConfig holds connection settings for one Grocy instance.
type GrocyConfig struct {
	BaseURL    string
	APIKey     string
	AliasField string // userfield name, defaults to ProductAltNames
}

// Grocy talks to a Grocy instance over its REST API. Products come from
// /api/objects/products; aliases are the product name plus the entries of
// the alias userfield; AddAlias appends to that userfield.
type Grocy struct {
	baseURL    string
	apiKey     string
	aliasField string
	httpClient *http.Client
	logger     *zap.Logger
}

var _ Source = (*Grocy)(nil)

// NewGrocy creates a Grocy adapter.
func NewGrocy(cfg *GrocyConfig, logger *zap.Logger) (*Grocy, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("grocy adapter requires base_url")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("grocy adapter requires api_key")
	}
	aliasField := cfg.AliasField
	if aliasField == "" {
		aliasField = defaultAliasField
	}
	return &Grocy{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		aliasField: aliasField,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.Named("grocy"),
	}, nil
}

// grocyProduct is the subset of the Grocy product object we consume.
type grocyProduct struct {
	ID          json.Number       `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Barcode     string            `json:"barcode"`
	Userfields  map[string]string `json:"userfields"`
}

func (g *Grocy) GetAllAliases(ctx context.Context) ([]ProductAlias, error) {
	products, err := g.fetchProducts(ctx)
	if err != nil {
		return nil, err
	}

	var aliases []ProductAlias
	for _, p := range products {
		for _, alias := range p.Aliases {
			aliases = append(aliases, ProductAlias{ProductID: p.ID, Alias: alias})
		}
	}
	return aliases, nil
}

func (g *Grocy) GetProductDetails(ctx context.Context, productID string) (*Product, error) {
	var gp grocyProduct
	if err := g.get(ctx, "/api/objects/products/"+productID, &gp); err != nil {
		return nil, err
	}
	p := g.convert(gp)
	return &p, nil
}

func (g *Grocy) SearchProducts(ctx context.Context, query string, limit int) ([]Product, error) {
	products, err := g.fetchProducts(ctx)
	if err != nil {
		return nil, err
	}

	q := strings.ToLower(query)
	var matches []Product
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name()), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			matches = append(matches, p)
			if limit > 0 && len(matches) >= limit {
				break
			}
		}
	}
	return matches, nil
}

func (g *Grocy) AddAlias(ctx context.Context, productID, alias string) error {
	var gp grocyProduct
	if err := g.get(ctx, "/api/objects/products/"+productID, &gp); err != nil {
		return err
	}

	current := gp.Userfields[g.aliasField]
	for _, existing := range splitAliases(current) {
		if existing == alias {
			g.logger.Info("alias already present",
				zap.String("product_id", productID),
				zap.String("alias", alias))
			return nil
		}
	}

	updated := alias
	if current != "" {
		updated = current + "\n" + alias
	}

	payload := map[string]string{g.aliasField: updated}
	if err := g.put(ctx, "/api/userfields/products/"+productID, payload); err != nil {
		return err
	}

	g.logger.Info("alias added",
		zap.String("product_id", productID),
		zap.String("alias", alias))
	return nil
}

func (g *Grocy) fetchProducts(ctx context.Context) ([]Product, error) {
	var raw []grocyProduct
	if err := g.get(ctx, "/api/objects/products", &raw); err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(raw))
	for _, gp := range raw {
		products = append(products, g.convert(gp))
	}
	return products, nil
}

func (g *Grocy) convert(gp grocyProduct) Product {
	aliases := []string{gp.Name}
	aliases = append(aliases, splitAliases(gp.Userfields[g.aliasField])...)
	return Product{
		ID:          gp.ID.String(),
		Aliases:     aliases,
		Description: gp.Description,
		Barcode:     gp.Barcode,
	}
}

func (g *Grocy) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInventoryUnavailable, err)
	}
	return g.do(req, out)
}

func (g *Grocy) put(ctx context.Context, path string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInventoryUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, g.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrInventoryUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req, nil)
}

func (g *Grocy) do(req *http.Request, out any) error {
	req.Header.Set("GROCY-API-KEY", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", apperrors.ErrInventoryUnavailable, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", apperrors.ErrNotFound, req.URL.Path)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%w: %s %s: status %d: %s",
			apperrors.ErrInventoryUnavailable, req.Method, req.URL.Path, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s: %v", apperrors.ErrInventoryUnavailable, req.URL.Path, err)
	}
	return nil
}

func splitAliases(value string) []string {
	if value == "" {
		return nil
	}
	var aliases []string
	for _, line := range strings.Split(value, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			aliases = append(aliases, trimmed)
		}
	}
	return aliases
}
