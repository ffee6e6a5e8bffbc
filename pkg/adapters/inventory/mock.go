package inventory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
)

// Mock is an in-memory inventory source for development and tests, seeded
// from a YAML fixture file. AddAlias mutates only the in-memory state.
type Mock struct {
	mu       sync.RWMutex
	products map[string]*Product
}

var _ Source = (*Mock)(nil)

// mockFixture is the YAML fixture layout:
//
//	products:
//	  p1:
//	    name: Apple Juice
//	    aliases: [apple drink]
type mockFixture struct {
	Products map[string]struct {
		Name        string   `yaml:"name"`
		Aliases     []string `yaml:"aliases"`
		Description string   `yaml:"description"`
		Category    string   `yaml:"category"`
	} `yaml:"products"`
}

// NewMock creates a mock source from a YAML fixture file.
func NewMock(fixturePath string) (*Mock, error) {
	data, err := os.ReadFile(fixturePath)
	if err != nil {
		return nil, fmt.Errorf("mock adapter fixture: %w", err)
	}
	return NewMockFromYAML(data)
}

// NewMockFromYAML creates a mock source from raw fixture YAML.
func NewMockFromYAML(data []byte) (*Mock, error) {
	var fixture mockFixture
	if err := yaml.Unmarshal(data, &fixture); err != nil {
		return nil, fmt.Errorf("mock adapter fixture: %w", err)
	}

	products := make(map[string]*Product, len(fixture.Products))
	for id, entry := range fixture.Products {
		aliases := make([]string, 0, 1+len(entry.Aliases))
		if entry.Name != "" {
			aliases = append(aliases, entry.Name)
		}
		for _, a := range entry.Aliases {
			if a != "" {
				aliases = append(aliases, a)
			}
		}
		if len(aliases) == 0 {
			continue
		}
		products[id] = &Product{
			ID:          id,
			Aliases:     aliases,
			Description: entry.Description,
			Category:    entry.Category,
		}
	}

	return &Mock{products: products}, nil
}

// NewMockWithProducts creates a mock source from explicit products, for
// tests.
func NewMockWithProducts(products ...Product) *Mock {
	m := &Mock{products: make(map[string]*Product, len(products))}
	for i := range products {
		p := products[i]
		m.products[p.ID] = &p
	}
	return m
}

func (m *Mock) GetAllAliases(ctx context.Context) ([]ProductAlias, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.products))
	for id := range m.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	var aliases []ProductAlias
	for _, id := range ids {
		for _, alias := range m.products[id].Aliases {
			aliases = append(aliases, ProductAlias{ProductID: id, Alias: alias})
		}
	}
	return aliases, nil
}

func (m *Mock) GetProductDetails(ctx context.Context, productID string) (*Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[productID]
	if !ok {
		return nil, fmt.Errorf("%w: product %q", apperrors.ErrNotFound, productID)
	}
	cp := *p
	cp.Aliases = append([]string(nil), p.Aliases...)
	return &cp, nil
}

func (m *Mock) SearchProducts(ctx context.Context, query string, limit int) ([]Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	q := strings.ToLower(query)
	var matches []Product
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name()), q) ||
			strings.Contains(strings.ToLower(p.Description), q) {
			matches = append(matches, *p)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].ID < matches[j].ID })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

func (m *Mock) AddAlias(ctx context.Context, productID, alias string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[productID]
	if !ok {
		return fmt.Errorf("%w: product %q not found in mock inventory", apperrors.ErrAliasWriteBack, productID)
	}
	for _, existing := range p.Aliases {
		if existing == alias {
			return nil
		}
	}
	p.Aliases = append(p.Aliases, alias)
	return nil
}
