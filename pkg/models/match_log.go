package models

import (
	"time"

	"github.com/google/uuid"
)

// MatchLog is an append-only record of a successful match. Stored in
// match_logs; written once on success, never updated or deleted by the
// matching engine.
type MatchLog struct {
	ID               uuid.UUID `json:"id"`
	OwnerID          uuid.UUID `json:"owner_id"`
	OriginalText     string    `json:"original_text"`
	NormalizedText   string    `json:"normalized_text"`
	Backend          string    `json:"backend"`
	MatchedProductID string    `json:"matched_product_id"`
	ConfidenceScore  float64   `json:"confidence_score"`
	ThresholdUsed    float64   `json:"threshold_used"`
	CreatedAt        time.Time `json:"created_at"`
}
