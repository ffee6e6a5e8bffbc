package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
)

// ApiResponse wraps data in the envelope clients expect.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// statusForError maps service errors to an HTTP status and error code. The
// original error message always travels in the response body.
func statusForError(err error) (int, string) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, apperrors.ErrUnknownBackend):
		return http.StatusBadRequest, "unknown_backend"
	case errors.Is(err, apperrors.ErrInvalidResolutionAction):
		return http.StatusBadRequest, "invalid_resolution_action"
	case errors.Is(err, apperrors.ErrAlreadyResolved):
		return http.StatusConflict, "already_resolved"
	case errors.Is(err, apperrors.ErrInventoryUnavailable):
		return http.StatusBadGateway, "inventory_unavailable"
	case errors.Is(err, apperrors.ErrAliasWriteBack):
		return http.StatusBadGateway, "alias_write_back_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}
