package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
)

// mockPendingService implements services.PendingService for testing.
type mockPendingService struct {
	queries    []*models.PendingQuery
	resolveErr error
	deleteErr  error

	lastAction      string
	lastProductID   string
	lastCustomAlias string
}

func (m *mockPendingService) Add(_ context.Context, pq *models.PendingQuery) error {
	m.queries = append(m.queries, pq)
	return nil
}

func (m *mockPendingService) Count(_ context.Context, _ uuid.UUID, status string) (int, error) {
	count := 0
	for _, pq := range m.queries {
		if status == "" || pq.Status == status {
			count++
		}
	}
	return count, nil
}

func (m *mockPendingService) List(_ context.Context, _ uuid.UUID, status string, _, _ int) ([]*models.PendingQuery, int, error) {
	var result []*models.PendingQuery
	for _, pq := range m.queries {
		if status == "" || pq.Status == status {
			result = append(result, pq)
		}
	}
	return result, len(result), nil
}

func (m *mockPendingService) Get(_ context.Context, _ uuid.UUID, id uuid.UUID) (*models.PendingQuery, error) {
	for _, pq := range m.queries {
		if pq.ID == id {
			return pq, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (m *mockPendingService) Resolve(_ context.Context, _ uuid.UUID, id uuid.UUID, action, productID, customAlias string) (*models.PendingQuery, error) {
	m.lastAction = action
	m.lastProductID = productID
	m.lastCustomAlias = customAlias
	if m.resolveErr != nil {
		return nil, m.resolveErr
	}
	pq, err := m.Get(context.Background(), uuid.Nil, id)
	if err != nil {
		return nil, err
	}
	pq.Status = models.PendingStatusResolved
	return pq, nil
}

func (m *mockPendingService) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	if _, err := m.Get(context.Background(), uuid.Nil, id); err != nil {
		return err
	}
	return nil
}

func newPendingServer(svc *mockPendingService) *http.ServeMux {
	mux := http.NewServeMux()
	NewPendingHandler(svc, zap.NewNop()).RegisterRoutes(mux)
	return mux
}

func TestListPendingQueries(t *testing.T) {
	svc := &mockPendingService{queries: []*models.PendingQuery{
		{ID: uuid.New(), OriginalText: "oat milk", Status: models.PendingStatusPending},
		{ID: uuid.New(), OriginalText: "dish soap", Status: models.PendingStatusIgnored},
	}}
	mux := newPendingServer(svc)

	rec := doJSON(t, mux, http.MethodGet, "/api/pending?status=pending", uuid.NewString(), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data PendingListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data.Total)
	require.Len(t, envelope.Data.Queries, 1)
	assert.Equal(t, "oat milk", envelope.Data.Queries[0].OriginalText)
}

func TestListPendingRejectsUnknownStatus(t *testing.T) {
	mux := newPendingServer(&mockPendingService{})

	rec := doJSON(t, mux, http.MethodGet, "/api/pending?status=archived", uuid.NewString(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetPendingQuery(t *testing.T) {
	pq := &models.PendingQuery{ID: uuid.New(), OriginalText: "oat milk", Status: models.PendingStatusPending}
	mux := newPendingServer(&mockPendingService{queries: []*models.PendingQuery{pq}})

	rec := doJSON(t, mux, http.MethodGet, "/api/pending/"+pq.ID.String(), uuid.NewString(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/pending/"+uuid.NewString(), uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/api/pending/not-a-uuid", uuid.NewString(), nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestResolvePendingQuery(t *testing.T) {
	pq := &models.PendingQuery{ID: uuid.New(), OriginalText: "oat milk", Status: models.PendingStatusPending}
	svc := &mockPendingService{queries: []*models.PendingQuery{pq}}
	mux := newPendingServer(svc)

	rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/pending/%s/resolve", pq.ID), uuid.NewString(),
		ResolvePendingRequest{Action: models.ResolutionActionAssign, ProductID: "p42", CustomAlias: "oat drink"})
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, models.ResolutionActionAssign, svc.lastAction)
	assert.Equal(t, "p42", svc.lastProductID)
	assert.Equal(t, "oat drink", svc.lastCustomAlias)

	var envelope struct {
		Data models.PendingQuery `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, models.PendingStatusResolved, envelope.Data.Status)
}

func TestResolvePendingErrorMapping(t *testing.T) {
	pq := &models.PendingQuery{ID: uuid.New(), Status: models.PendingStatusPending}

	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"invalid action", apperrors.ErrInvalidResolutionAction, http.StatusBadRequest},
		{"already resolved", apperrors.ErrAlreadyResolved, http.StatusConflict},
		{"not found", apperrors.ErrNotFound, http.StatusNotFound},
		{"write-back failed", fmt.Errorf("adding alias: %w", apperrors.ErrInventoryUnavailable), http.StatusBadGateway},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockPendingService{queries: []*models.PendingQuery{pq}, resolveErr: tt.err}
			mux := newPendingServer(svc)

			rec := doJSON(t, mux, http.MethodPost, fmt.Sprintf("/api/pending/%s/resolve", pq.ID), uuid.NewString(),
				ResolvePendingRequest{Action: "assign", ProductID: "p1"})
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestDeletePendingQueryEndpoint(t *testing.T) {
	pq := &models.PendingQuery{ID: uuid.New(), Status: models.PendingStatusPending}
	mux := newPendingServer(&mockPendingService{queries: []*models.PendingQuery{pq}})

	rec := doJSON(t, mux, http.MethodDelete, "/api/pending/"+pq.ID.String(), uuid.NewString(), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, mux, http.MethodDelete, "/api/pending/"+uuid.NewString(), uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
