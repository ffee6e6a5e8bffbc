package services

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/adapters/inventory"
	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
	"github.com/miguelangel-nubla/product-matcher/pkg/config"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
	"github.com/miguelangel-nubla/product-matcher/pkg/normalize"
)

// Backend bundles everything needed to match against one inventory catalog:
// the adapter talking to it and the normalizer for its language.
type Backend struct {
	Name        string
	Description string
	Language    string
	Source      inventory.Source
	Normalizer  *normalize.Normalizer
}

// BackendRegistry resolves backend names to their configured adapters. It is
// built once at startup; every configured backend must construct cleanly or
// the server refuses to start.
type BackendRegistry struct {
	backends map[string]*Backend
}

// NewBackendRegistry builds adapters for every configured backend. Each
// backend's language must already be registered in the normalizer registry.
func NewBackendRegistry(configs []config.BackendConfig, normalizers *normalize.Registry, logger *zap.Logger) (*BackendRegistry, error) {
	backends := make(map[string]*Backend, len(configs))

	for _, bc := range configs {
		normalizer, err := normalizers.Get(bc.Language)
		if err != nil {
			return nil, fmt.Errorf("backend %q: %w", bc.Name, err)
		}

		source, err := inventory.NewSource(bc.Adapter, logger.Named(bc.Name))
		if err != nil {
			return nil, fmt.Errorf("backend %q: %w", bc.Name, err)
		}

		backends[bc.Name] = &Backend{
			Name:        bc.Name,
			Description: bc.Description,
			Language:    bc.Language,
			Source:      source,
			Normalizer:  normalizer,
		}
	}

	return &BackendRegistry{backends: backends}, nil
}

// Get returns the named backend.
func (r *BackendRegistry) Get(name string) (*Backend, error) {
	b, ok := r.backends[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownBackend, name)
	}
	return b, nil
}

// List describes every configured backend, sorted by name.
func (r *BackendRegistry) List() []models.BackendInfo {
	infos := make([]models.BackendInfo, 0, len(r.backends))
	for _, b := range r.backends {
		infos = append(infos, models.BackendInfo{
			Name:        b.Name,
			Description: b.Description,
			Language:    b.Language,
		})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}
