package inventory

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
)

// grocyFake simulates the subset of the Grocy API the adapter touches.
type grocyFake struct {
	t          *testing.T
	products   map[string]map[string]any
	userfields map[string]map[string]string
	failPut    bool
}

func (f *grocyFake) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/objects/products", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(f.t, "test-key", r.Header.Get("GROCY-API-KEY"))
		var list []map[string]any
		for id, p := range f.products {
			entry := map[string]any{}
			for k, v := range p {
				entry[k] = v
			}
			if uf, ok := f.userfields[id]; ok {
				entry["userfields"] = uf
			}
			list = append(list, entry)
		}
		_ = json.NewEncoder(w).Encode(list)
	})

	mux.HandleFunc("GET /api/objects/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		p, ok := f.products[id]
		if !ok {
			http.NotFound(w, r)
			return
		}
		entry := map[string]any{}
		for k, v := range p {
			entry[k] = v
		}
		if uf, ok := f.userfields[id]; ok {
			entry["userfields"] = uf
		}
		_ = json.NewEncoder(w).Encode(entry)
	})

	mux.HandleFunc("PUT /api/userfields/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		if f.failPut {
			http.Error(w, "userfield ProductAltNames does not exist", http.StatusBadRequest)
			return
		}
		id := r.PathValue("id")
		var payload map[string]string
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&payload))
		if f.userfields[id] == nil {
			f.userfields[id] = map[string]string{}
		}
		for k, v := range payload {
			f.userfields[id][k] = v
		}
		w.WriteHeader(http.StatusOK)
	})

	return mux
}

func newGrocyFixture(t *testing.T) (*grocyFake, *Grocy, func()) {
	t.Helper()
	fake := &grocyFake{
		t: t,
		products: map[string]map[string]any{
			"1": {"id": 1, "name": "Apple Juice", "description": "1L carton"},
			"2": {"id": 2, "name": "Orange Juice"},
		},
		userfields: map[string]map[string]string{
			"1": {"ProductAltNames": "apple drink\nAJ"},
		},
	}
	srv := httptest.NewServer(fake.handler())

	g, err := NewGrocy(&GrocyConfig{BaseURL: srv.URL, APIKey: "test-key"}, zap.NewNop())
	require.NoError(t, err)
	return fake, g, srv.Close
}

func TestGrocyGetAllAliases(t *testing.T) {
	_, g, done := newGrocyFixture(t)
	defer done()

	aliases, err := g.GetAllAliases(context.Background())
	require.NoError(t, err)

	assert.ElementsMatch(t, []ProductAlias{
		{ProductID: "1", Alias: "Apple Juice"},
		{ProductID: "1", Alias: "apple drink"},
		{ProductID: "1", Alias: "AJ"},
		{ProductID: "2", Alias: "Orange Juice"},
	}, aliases)
}

func TestGrocyGetProductDetails(t *testing.T) {
	_, g, done := newGrocyFixture(t)
	defer done()

	p, err := g.GetProductDetails(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Apple Juice", p.Name())
	assert.Equal(t, []string{"Apple Juice", "apple drink", "AJ"}, p.Aliases)
	assert.Equal(t, "1L carton", p.Description)

	_, err = g.GetProductDetails(context.Background(), "999")
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestGrocyAddAlias(t *testing.T) {
	fake, g, done := newGrocyFixture(t)
	defer done()

	require.NoError(t, g.AddAlias(context.Background(), "2", "oj"))
	assert.Equal(t, "oj", fake.userfields["2"]["ProductAltNames"])

	// Appends newline separated.
	require.NoError(t, g.AddAlias(context.Background(), "1", "manzana"))
	assert.Equal(t, "apple drink\nAJ\nmanzana", fake.userfields["1"]["ProductAltNames"])

	// Existing alias is a no-op.
	require.NoError(t, g.AddAlias(context.Background(), "1", "AJ"))
	assert.Equal(t, "apple drink\nAJ\nmanzana", fake.userfields["1"]["ProductAltNames"])
}

func TestGrocyAddAliasWriteFailureSurfacesBody(t *testing.T) {
	fake, g, done := newGrocyFixture(t)
	defer done()

	fake.failPut = true
	err := g.AddAlias(context.Background(), "1", "new alias")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrInventoryUnavailable))
	assert.Contains(t, err.Error(), "userfield ProductAltNames does not exist")
}

func TestGrocyUnreachable(t *testing.T) {
	g, err := NewGrocy(&GrocyConfig{BaseURL: "http://127.0.0.1:1", APIKey: "k"}, zap.NewNop())
	require.NoError(t, err)

	_, err = g.GetAllAliases(context.Background())
	assert.True(t, errors.Is(err, apperrors.ErrInventoryUnavailable))
}

func TestGrocyConfigValidation(t *testing.T) {
	logger := zap.NewNop()
	_, err := NewGrocy(&GrocyConfig{APIKey: "k"}, logger)
	require.Error(t, err)
	_, err = NewGrocy(&GrocyConfig{BaseURL: "http://x"}, logger)
	require.Error(t, err)
}

func TestGrocySearchProducts(t *testing.T) {
	_, g, done := newGrocyFixture(t)
	defer done()

	matches, err := g.SearchProducts(context.Background(), "juice", 10)
	require.NoError(t, err)
	assert.Len(t, matches, 2)

	matches, err = g.SearchProducts(context.Background(), "carton", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "1", matches[0].ID)
}
