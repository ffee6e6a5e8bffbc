package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
	"github.com/miguelangel-nubla/product-matcher/pkg/services"
)

// mockMatcherService implements services.MatcherService for testing.
type mockMatcherService struct {
	lastReq  services.MatchRequest
	response *services.MatchResponse
	err      error

	logs  []*models.MatchLog
	total int

	lastAliasBackend string
	lastAliasProduct string
	lastAlias        string
}

func (m *mockMatcherService) Match(_ context.Context, req services.MatchRequest) (*services.MatchResponse, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	return m.response, nil
}

func (m *mockMatcherService) AddLearnedAlias(_ context.Context, backend, productID, alias string) error {
	m.lastAliasBackend = backend
	m.lastAliasProduct = productID
	m.lastAlias = alias
	return m.err
}

func (m *mockMatcherService) ListMatches(_ context.Context, _ uuid.UUID, _, _ int) ([]*models.MatchLog, int, error) {
	return m.logs, m.total, nil
}

func newMatchServer(svc services.MatcherService) *http.ServeMux {
	mux := http.NewServeMux()
	NewMatchingHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func doJSON(t *testing.T, mux *http.ServeMux, method, path, ownerID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if ownerID != "" {
		req.Header.Set(OwnerHeader, ownerID)
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestMatchRequiresOwnerHeader(t *testing.T) {
	mux := newMatchServer(&mockMatcherService{})

	rec := doJSON(t, mux, http.MethodPost, "/api/match", "", MatchQueryRequest{Query: "apple", Backend: "pantry"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/api/match", "not-a-uuid", MatchQueryRequest{Query: "apple", Backend: "pantry"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMatchValidation(t *testing.T) {
	mux := newMatchServer(&mockMatcherService{})
	owner := uuid.NewString()

	tests := []struct {
		name string
		req  MatchQueryRequest
	}{
		{"empty query", MatchQueryRequest{Backend: "pantry"}},
		{"blank query", MatchQueryRequest{Query: "   ", Backend: "pantry"}},
		{"missing backend", MatchQueryRequest{Query: "apple"}},
		{"threshold out of range", MatchQueryRequest{Query: "apple", Backend: "pantry", Threshold: 1.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, http.MethodPost, "/api/match", owner, tt.req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestMatchForwardsRequest(t *testing.T) {
	svc := &mockMatcherService{response: &services.MatchResponse{
		Success: true,
		Result: models.MatchingResult{
			Success:      true,
			StrategyName: "jaccard",
			Candidates:   []models.MatchCandidate{{ProductID: "p1", Confidence: 1.0}},
		},
	}}
	mux := newMatchServer(svc)
	owner := uuid.New()

	rec := doJSON(t, mux, http.MethodPost, "/api/match", owner.String(), MatchQueryRequest{
		Query:   "apple juice",
		Backend: "pantry",
		Debug:   true,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, owner, svc.lastReq.OwnerID)
	assert.Equal(t, "apple juice", svc.lastReq.Query)
	assert.Equal(t, "pantry", svc.lastReq.Backend)
	assert.True(t, svc.lastReq.Debug)
	// create_pending defaults to true when omitted.
	assert.True(t, svc.lastReq.CreatePending)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    services.MatchResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.True(t, envelope.Success)
	assert.Equal(t, "jaccard", envelope.Data.Result.StrategyName)
}

func TestMatchCreatePendingOptOut(t *testing.T) {
	svc := &mockMatcherService{response: &services.MatchResponse{}}
	mux := newMatchServer(svc)

	disabled := false
	rec := doJSON(t, mux, http.MethodPost, "/api/match", uuid.NewString(), MatchQueryRequest{
		Query:         "apple",
		Backend:       "pantry",
		CreatePending: &disabled,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.lastReq.CreatePending)
}

func TestMatchErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown backend", apperrors.ErrUnknownBackend, http.StatusBadRequest},
		{"inventory down", apperrors.ErrInventoryUnavailable, http.StatusBadGateway},
		{"internal", context.DeadlineExceeded, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newMatchServer(&mockMatcherService{err: tt.err})
			rec := doJSON(t, mux, http.MethodPost, "/api/match", uuid.NewString(),
				MatchQueryRequest{Query: "apple", Backend: "pantry"})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestAddAliasEndpoint(t *testing.T) {
	svc := &mockMatcherService{}
	mux := newMatchServer(svc)

	rec := doJSON(t, mux, http.MethodPost, "/api/backends/pantry/products/p2/aliases", uuid.NewString(),
		AddAliasRequest{Alias: "breakfast oj"})
	require.Equal(t, http.StatusCreated, rec.Code)

	assert.Equal(t, "pantry", svc.lastAliasBackend)
	assert.Equal(t, "p2", svc.lastAliasProduct)
	assert.Equal(t, "breakfast oj", svc.lastAlias)
}

func TestAddAliasValidation(t *testing.T) {
	mux := newMatchServer(&mockMatcherService{})
	owner := uuid.NewString()

	rec := doJSON(t, mux, http.MethodPost, "/api/backends/pantry/products/p2/aliases", owner,
		AddAliasRequest{Alias: "   "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, mux, http.MethodPost, "/api/backends/pantry/products/p2/aliases", "",
		AddAliasRequest{Alias: "breakfast oj"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAddAliasErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"unknown backend", apperrors.ErrUnknownBackend, http.StatusBadRequest},
		{"inventory down", apperrors.ErrInventoryUnavailable, http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := newMatchServer(&mockMatcherService{err: tt.err})
			rec := doJSON(t, mux, http.MethodPost, "/api/backends/pantry/products/p2/aliases", uuid.NewString(),
				AddAliasRequest{Alias: "breakfast oj"})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestListMatchesEndpoint(t *testing.T) {
	svc := &mockMatcherService{
		logs:  []*models.MatchLog{{MatchedProductID: "p1"}},
		total: 7,
	}
	mux := newMatchServer(svc)

	rec := doJSON(t, mux, http.MethodGet, "/api/matches?limit=1", uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data MatchListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 7, envelope.Data.Total)
}
