package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/adapters/inventory"
	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
	"github.com/miguelangel-nubla/product-matcher/pkg/config"
	"github.com/miguelangel-nubla/product-matcher/pkg/normalize"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.yaml")
	fixture := `
products:
  p1:
    name: Apple Juice
`
	require.NoError(t, os.WriteFile(path, []byte(fixture), 0o600))
	return path
}

func TestNewBackendRegistry(t *testing.T) {
	normalizers := normalize.NewRegistry()
	require.NoError(t, normalizers.Register("en", normalize.Options{}))

	configs := []config.BackendConfig{
		{
			Name:        "pantry",
			Description: "Household groceries",
			Language:    "en",
			Adapter:     inventory.AdapterSettings{Type: inventory.AdapterMock, Fixture: writeFixture(t)},
		},
		{
			Name:     "freezer",
			Language: "en",
			Adapter:  inventory.AdapterSettings{Type: inventory.AdapterMock, Fixture: writeFixture(t)},
		},
	}

	registry, err := NewBackendRegistry(configs, normalizers, zap.NewNop())
	require.NoError(t, err)

	backend, err := registry.Get("pantry")
	require.NoError(t, err)
	assert.Equal(t, "en", backend.Language)
	assert.NotNil(t, backend.Source)
	assert.NotNil(t, backend.Normalizer)

	_, err = registry.Get("garage")
	assert.ErrorIs(t, err, apperrors.ErrUnknownBackend)

	infos := registry.List()
	require.Len(t, infos, 2)
	assert.Equal(t, "freezer", infos[0].Name)
	assert.Equal(t, "pantry", infos[1].Name)
}

func TestNewBackendRegistryRejectsUnknownLanguage(t *testing.T) {
	normalizers := normalize.NewRegistry()

	_, err := NewBackendRegistry([]config.BackendConfig{{
		Name:     "pantry",
		Language: "fr",
		Adapter:  inventory.AdapterSettings{Type: inventory.AdapterMock, Fixture: writeFixture(t)},
	}}, normalizers, zap.NewNop())

	assert.ErrorIs(t, err, apperrors.ErrUnsupportedLanguage)
}

func TestNewBackendRegistryRejectsUnknownAdapter(t *testing.T) {
	normalizers := normalize.NewRegistry()
	require.NoError(t, normalizers.Register("en", normalize.Options{}))

	_, err := NewBackendRegistry([]config.BackendConfig{{
		Name:     "pantry",
		Language: "en",
		Adapter:  inventory.AdapterSettings{Type: "csv"},
	}}, normalizers, zap.NewNop())

	assert.ErrorIs(t, err, apperrors.ErrUnknownAdapter)
}
