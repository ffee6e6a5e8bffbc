package handlers

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/adapters/inventory"
	"github.com/miguelangel-nubla/product-matcher/pkg/config"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
	"github.com/miguelangel-nubla/product-matcher/pkg/services"
)

// BackendListResponse for GET /api/backends.
type BackendListResponse struct {
	Backends []models.BackendInfo `json:"backends"`
}

// ProductSearchResponse for GET /api/backends/{name}/products.
type ProductSearchResponse struct {
	Products []inventory.Product `json:"products"`
}

// SettingsResponse for GET /api/settings. Exposes the pipeline configuration
// so clients can present thresholds and strategy order.
type SettingsResponse struct {
	Strategies           []string           `json:"strategies"`
	DefaultThreshold     float64            `json:"default_threshold"`
	Thresholds           map[string]float64 `json:"thresholds,omitempty"`
	MaxCandidates        int                `json:"max_candidates"`
	SemanticTieDetection bool               `json:"semantic_tie_detection"`
}

// BackendsHandler serves backend discovery and product search requests.
type BackendsHandler struct {
	backends *services.BackendRegistry
	matchCfg config.MatchingConfig
	logger   *zap.Logger
}

// NewBackendsHandler creates a new backends handler.
func NewBackendsHandler(backends *services.BackendRegistry, matchCfg config.MatchingConfig, logger *zap.Logger) *BackendsHandler {
	return &BackendsHandler{backends: backends, matchCfg: matchCfg, logger: logger}
}

// RegisterRoutes registers the backends handler's routes on the given mux.
func (h *BackendsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/backends", RequireOwner(h.List))
	mux.HandleFunc("GET /api/backends/{name}/products", RequireOwner(h.SearchProducts))
	mux.HandleFunc("GET /api/settings", RequireOwner(h.Settings))
}

// List handles GET /api/backends
func (h *BackendsHandler) List(w http.ResponseWriter, r *http.Request) {
	response := BackendListResponse{Backends: h.backends.List()}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SearchProducts handles GET /api/backends/{name}/products, backing the
// product picker in manual resolution.
func (h *BackendsHandler) SearchProducts(w http.ResponseWriter, r *http.Request) {
	backend, err := h.backends.Get(r.PathValue("name"))
	if err != nil {
		status, code := statusForError(err)
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request", "q parameter must not be empty")
		return
	}

	limit, _ := parsePagination(r)
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	products, err := backend.Source.SearchProducts(r.Context(), query, limit)
	if err != nil {
		h.logger.Error("Product search failed",
			zap.String("backend", backend.Name),
			zap.Error(err))
		status, code := statusForError(err)
		if err := ErrorResponse(w, status, code, err.Error()); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return
	}

	response := ProductSearchResponse{Products: products}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Settings handles GET /api/settings
func (h *BackendsHandler) Settings(w http.ResponseWriter, r *http.Request) {
	response := SettingsResponse{
		Strategies:           h.matchCfg.Strategies,
		DefaultThreshold:     h.matchCfg.DefaultThreshold,
		Thresholds:           h.matchCfg.Thresholds,
		MaxCandidates:        h.matchCfg.MaxCandidates,
		SemanticTieDetection: h.matchCfg.SemanticTieDetection,
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: response}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}
