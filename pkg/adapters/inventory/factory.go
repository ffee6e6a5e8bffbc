package inventory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
)

// Adapter type names accepted in backend configuration.
const (
	AdapterGrocy = "grocy"
	AdapterMock  = "mock"
)

// AdapterSettings is the adapter block of a backend configuration. Fields
// apply to the adapter type that reads them.
type AdapterSettings struct {
	Type       string `yaml:"type"`
	BaseURL    string `yaml:"base_url" env-description:"inventory API base URL"`
	APIKey     string `yaml:"-"` // injected from env, never from YAML
	AliasField string `yaml:"alias_field"`
	Fixture    string `yaml:"fixture"` // mock adapter fixture path
}

// NewSource builds the inventory source for one backend from its adapter
// settings. Unknown adapter types are a startup configuration error.
func NewSource(settings AdapterSettings, logger *zap.Logger) (Source, error) {
	switch settings.Type {
	case AdapterGrocy:
		return NewGrocy(&GrocyConfig{
			BaseURL:    settings.BaseURL,
			APIKey:     settings.APIKey,
			AliasField: settings.AliasField,
		}, logger)
	case AdapterMock:
		return NewMock(settings.Fixture)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownAdapter, settings.Type)
	}
}
