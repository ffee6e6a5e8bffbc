package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/models"
	"github.com/miguelangel-nubla/product-matcher/pkg/services"
)

// PendingListResponse for GET /api/pending.
type PendingListResponse struct {
	Queries []*models.PendingQuery `json:"queries"`
	Total   int                    `json:"total"`
}

// ResolvePendingRequest for POST /api/pending/{id}/resolve.
type ResolvePendingRequest struct {
	Action      string `json:"action"`
	ProductID   string `json:"product_id,omitempty"`
	CustomAlias string `json:"custom_alias,omitempty"`
}

// PendingHandler handles the manual resolution workflow.
type PendingHandler struct {
	pending services.PendingService
	logger  *zap.Logger
}

// NewPendingHandler creates a new pending query handler.
func NewPendingHandler(pending services.PendingService, logger *zap.Logger) *PendingHandler {
	return &PendingHandler{pending: pending, logger: logger}
}

// RegisterRoutes registers the pending handler's routes on the given mux.
func (h *PendingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/pending", RequireOwner(h.List))
	mux.HandleFunc("GET /api/pending/{id}", RequireOwner(h.Get))
	mux.HandleFunc("POST /api/pending/{id}/resolve", RequireOwner(h.Resolve))
	mux.HandleFunc("DELETE /api/pending/{id}", RequireOwner(h.Delete))
}

// List handles GET /api/pending
func (h *PendingHandler) List(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerFromContext(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "missing_owner", "no owner in request context")
		return
	}

	status := r.URL.Query().Get("status")
	switch status {
	case "", models.PendingStatusPending, models.PendingStatusResolved, models.PendingStatusIgnored:
	default:
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_status", "unknown status filter")
		return
	}

	limit, offset := parsePagination(r)

	queries, total, err := h.pending.List(r.Context(), ownerID, status, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list pending queries", zap.Error(err))
		statusCode, code := statusForError(err)
		if err := ErrorResponse(w, statusCode, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := PendingListResponse{Queries: queries, Total: total}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Get handles GET /api/pending/{id}
func (h *PendingHandler) Get(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerFromContext(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "missing_owner", "no owner in request context")
		return
	}

	id, ok := ParsePendingID(w, r, h.logger)
	if !ok {
		return
	}

	pq, err := h.pending.Get(r.Context(), ownerID, id)
	if err != nil {
		status, code := statusForError(err)
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: pq}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Resolve handles POST /api/pending/{id}/resolve
func (h *PendingHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerFromContext(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "missing_owner", "no owner in request context")
		return
	}

	id, ok := ParsePendingID(w, r, h.logger)
	if !ok {
		return
	}

	var req ResolvePendingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON in request body")
		return
	}

	pq, err := h.pending.Resolve(r.Context(), ownerID, id, req.Action, req.ProductID, req.CustomAlias)
	if err != nil {
		h.logger.Error("Failed to resolve pending query",
			zap.String("pending_id", id.String()),
			zap.String("action", req.Action),
			zap.Error(err))
		status, code := statusForError(err)
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: pq}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Delete handles DELETE /api/pending/{id}
func (h *PendingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerFromContext(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "missing_owner", "no owner in request context")
		return
	}

	id, ok := ParsePendingID(w, r, h.logger)
	if !ok {
		return
	}

	if err := h.pending.Delete(r.Context(), ownerID, id); err != nil {
		status, code := statusForError(err)
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "pending query deleted"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
