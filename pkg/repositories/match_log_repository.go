package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/miguelangel-nubla/product-matcher/pkg/database"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
)

// MatchLogRepository records successful matches for later review.
type MatchLogRepository interface {
	Insert(ctx context.Context, log *models.MatchLog) error
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MatchLog, error)
	Count(ctx context.Context, ownerID uuid.UUID) (int, error)
}

type matchLogRepository struct {
	db *database.DB
}

// NewMatchLogRepository creates a new match log repository.
func NewMatchLogRepository(db *database.DB) MatchLogRepository {
	return &matchLogRepository{db: db}
}

var _ MatchLogRepository = (*matchLogRepository)(nil)

func (r *matchLogRepository) Insert(ctx context.Context, log *models.MatchLog) error {
	query := `
		INSERT INTO match_logs
			(owner_id, original_text, normalized_text, backend,
			 matched_product_id, confidence_score, threshold_used)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.Pool.QueryRow(ctx, query,
		log.OwnerID, log.OriginalText, log.NormalizedText, log.Backend,
		log.MatchedProductID, log.ConfidenceScore, log.ThresholdUsed,
	).Scan(&log.ID, &log.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert match log: %w", err)
	}
	return nil
}

func (r *matchLogRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MatchLog, error) {
	query := `
		SELECT id, owner_id, original_text, normalized_text, backend,
		       matched_product_id, confidence_score, threshold_used, created_at
		FROM match_logs
		WHERE owner_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool.Query(ctx, query, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list match logs: %w", err)
	}
	defer rows.Close()

	logs := make([]*models.MatchLog, 0)
	for rows.Next() {
		var log models.MatchLog
		err := rows.Scan(&log.ID, &log.OwnerID, &log.OriginalText, &log.NormalizedText,
			&log.Backend, &log.MatchedProductID, &log.ConfidenceScore,
			&log.ThresholdUsed, &log.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan match log: %w", err)
		}
		logs = append(logs, &log)
	}
	return logs, rows.Err()
}

func (r *matchLogRepository) Count(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM match_logs WHERE owner_id = $1`, ownerID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count match logs: %w", err)
	}
	return count, nil
}
