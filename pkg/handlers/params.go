package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ParsePendingID extracts and validates the pending query ID from the request
// path. Returns the parsed UUID and true on success, or uuid.Nil and false
// after writing an error response.
// Expects path parameter: id
func ParsePendingID(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (uuid.UUID, bool) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Debug("Invalid pending query ID", zap.String("raw", raw), zap.Error(err))
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_pending_id", "Invalid pending query ID format")
		return uuid.Nil, false
	}
	return id, true
}

// parsePagination reads limit and offset query parameters, leaving bounds
// enforcement to the service layer.
func parsePagination(r *http.Request) (limit, offset int) {
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil {
		offset = v
	}
	return limit, offset
}
