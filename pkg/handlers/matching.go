package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/services"
)

// MatchQueryRequest for POST /api/match.
type MatchQueryRequest struct {
	Query   string `json:"query"`
	Backend string `json:"backend"`

	// Threshold overrides every configured strategy threshold when set.
	Threshold float64 `json:"threshold,omitempty"`

	// CreatePending stores the query for manual resolution when no strategy
	// finds a confident match. Defaults to true.
	CreatePending *bool `json:"create_pending,omitempty"`

	// Debug includes a step-by-step trace of the cascade in the response.
	Debug bool `json:"debug,omitempty"`
}

// MatchListResponse for GET /api/matches.
type MatchListResponse struct {
	Matches any `json:"matches"`
	Total   int `json:"total"`
}

// AddAliasRequest for POST /api/backends/{name}/products/{id}/aliases.
type AddAliasRequest struct {
	Alias string `json:"alias"`
}

// MatchingHandler handles match execution and match history requests.
type MatchingHandler struct {
	matcher services.MatcherService
	logger  *zap.Logger
}

// NewMatchingHandler creates a new matching handler.
func NewMatchingHandler(matcher services.MatcherService, logger *zap.Logger) *MatchingHandler {
	return &MatchingHandler{matcher: matcher, logger: logger}
}

// RegisterRoutes registers the matching handler's routes on the given mux.
func (h *MatchingHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/match", RequireOwner(h.Match))
	mux.HandleFunc("GET /api/matches", RequireOwner(h.ListMatches))
	mux.HandleFunc("POST /api/backends/{name}/products/{id}/aliases", RequireOwner(h.AddAlias))
}

// Match handles POST /api/match
func (h *MatchingHandler) Match(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerFromContext(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "missing_owner", "no owner in request context")
		return
	}

	var req MatchQueryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON in request body")
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "query must not be empty")
		return
	}
	if req.Backend == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "backend must not be empty")
		return
	}
	if req.Threshold < 0 || req.Threshold > 1 {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "threshold must be between 0 and 1")
		return
	}

	createPending := true
	if req.CreatePending != nil {
		createPending = *req.CreatePending
	}

	resp, err := h.matcher.Match(r.Context(), services.MatchRequest{
		OwnerID:       ownerID,
		Query:         req.Query,
		Backend:       req.Backend,
		Threshold:     req.Threshold,
		CreatePending: createPending,
		Debug:         req.Debug,
	})
	if err != nil {
		h.logger.Error("Match failed",
			zap.String("backend", req.Backend),
			zap.Error(err))
		status, code := statusForError(err)
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: resp}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// AddAlias handles POST /api/backends/{name}/products/{id}/aliases
func (h *MatchingHandler) AddAlias(w http.ResponseWriter, r *http.Request) {
	backend := r.PathValue("name")
	productID := r.PathValue("id")

	var req AddAliasRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid JSON in request body")
		return
	}
	if strings.TrimSpace(req.Alias) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "alias must not be empty")
		return
	}

	if err := h.matcher.AddLearnedAlias(r.Context(), backend, productID, req.Alias); err != nil {
		h.logger.Error("Failed to add alias",
			zap.String("backend", backend),
			zap.String("product_id", productID),
			zap.Error(err))
		status, code := statusForError(err)
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	if err := WriteJSON(w, http.StatusCreated, ApiResponse{Success: true, Message: "alias added"}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// ListMatches handles GET /api/matches
func (h *MatchingHandler) ListMatches(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := OwnerFromContext(r.Context())
	if !ok {
		_ = ErrorResponse(w, http.StatusUnauthorized, "missing_owner", "no owner in request context")
		return
	}

	limit, offset := parsePagination(r)

	logs, total, err := h.matcher.ListMatches(r.Context(), ownerID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list matches", zap.Error(err))
		status, code := statusForError(err)
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := MatchListResponse{Matches: logs, Total: total}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
