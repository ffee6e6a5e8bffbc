package models

import (
	"time"

	"github.com/google/uuid"
)

// Status values for pending queries.
const (
	PendingStatusPending  = "pending"
	PendingStatusResolved = "resolved"
	PendingStatusIgnored  = "ignored"
)

// Resolution actions accepted by the pending workflow.
const (
	ResolutionActionAssign = "assign"
	ResolutionActionIgnore = "ignore"
)

// PendingQuery is an unmatched or ambiguous match awaiting human resolution.
// Stored in pending_queries. At most one pending row exists per
// (owner_id, backend, original_text, threshold); a repeated unmatched query
// refreshes that row instead of duplicating it.
type PendingQuery struct {
	ID             uuid.UUID        `json:"id"`
	OwnerID        uuid.UUID        `json:"owner_id"`
	OriginalText   string           `json:"original_text"`
	NormalizedText string           `json:"normalized_text"`
	Candidates     []MatchCandidate `json:"candidates,omitempty"`
	Backend        string           `json:"backend"`
	Threshold      float64          `json:"threshold"`
	Status         string           `json:"status"`
	CreatedAt      time.Time        `json:"created_at"`
}
