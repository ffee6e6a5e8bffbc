package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// OwnerHeader carries the caller's identity, set by the reverse proxy or
// gateway that authenticated the request.
const OwnerHeader = "X-Owner-ID"

type ownerCtxKey struct{}

// RequireOwner rejects requests without a valid owner ID header and stores
// the parsed ID in the request context for handlers downstream.
func RequireOwner(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get(OwnerHeader)
		if raw == "" {
			_ = ErrorResponse(w, http.StatusUnauthorized, "missing_owner", OwnerHeader+" header is required")
			return
		}
		ownerID, err := uuid.Parse(raw)
		if err != nil {
			_ = ErrorResponse(w, http.StatusUnauthorized, "invalid_owner", OwnerHeader+" header must be a UUID")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), ownerCtxKey{}, ownerID)))
	}
}

// OwnerFromContext returns the owner ID stored by RequireOwner.
func OwnerFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ownerCtxKey{}).(uuid.UUID)
	return id, ok
}
