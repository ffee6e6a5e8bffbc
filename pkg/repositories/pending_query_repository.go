package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
	"github.com/miguelangel-nubla/product-matcher/pkg/database"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
)

// PendingQueryRepository provides data access for unresolved match queries.
type PendingQueryRepository interface {
	// Upsert inserts a pending query, or refreshes the existing open row for
	// the same (owner, backend, original text, threshold). The model's ID and
	// CreatedAt are populated from the stored row.
	Upsert(ctx context.Context, pq *models.PendingQuery) error

	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.PendingQuery, error)

	// List returns the owner's pending queries, newest first. An empty status
	// matches every status.
	List(ctx context.Context, ownerID uuid.UUID, status string, limit, offset int) ([]*models.PendingQuery, error)

	Count(ctx context.Context, ownerID uuid.UUID, status string) (int, error)

	UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status string) error

	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type pendingQueryRepository struct {
	db *database.DB
}

// NewPendingQueryRepository creates a new pending query repository.
func NewPendingQueryRepository(db *database.DB) PendingQueryRepository {
	return &pendingQueryRepository{db: db}
}

var _ PendingQueryRepository = (*pendingQueryRepository)(nil)

func (r *pendingQueryRepository) Upsert(ctx context.Context, pq *models.PendingQuery) error {
	candidates, err := json.Marshal(pq.Candidates)
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}

	// The conflict target is the partial unique index over open rows, so a
	// repeated failed query refreshes its candidates instead of duplicating.
	query := `
		INSERT INTO pending_queries
			(owner_id, original_text, normalized_text, candidates, backend, threshold, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id, backend, original_text, threshold) WHERE status = 'pending'
		DO UPDATE SET
			normalized_text = EXCLUDED.normalized_text,
			candidates = EXCLUDED.candidates,
			created_at = NOW()
		RETURNING id, created_at`

	err = r.db.Pool.QueryRow(ctx, query,
		pq.OwnerID, pq.OriginalText, pq.NormalizedText, candidates,
		pq.Backend, pq.Threshold, models.PendingStatusPending,
	).Scan(&pq.ID, &pq.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert pending query: %w", err)
	}

	pq.Status = models.PendingStatusPending
	return nil
}

func (r *pendingQueryRepository) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*models.PendingQuery, error) {
	query := `
		SELECT id, owner_id, original_text, normalized_text, candidates,
		       backend, threshold, status, created_at
		FROM pending_queries
		WHERE owner_id = $1 AND id = $2`

	pq, err := scanPendingQuery(r.db.Pool.QueryRow(ctx, query, ownerID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("pending query %s: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get pending query: %w", err)
	}
	return pq, nil
}

func (r *pendingQueryRepository) List(ctx context.Context, ownerID uuid.UUID, status string, limit, offset int) ([]*models.PendingQuery, error) {
	query := `
		SELECT id, owner_id, original_text, normalized_text, candidates,
		       backend, threshold, status, created_at
		FROM pending_queries
		WHERE owner_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.db.Pool.Query(ctx, query, ownerID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list pending queries: %w", err)
	}
	defer rows.Close()

	queries := make([]*models.PendingQuery, 0)
	for rows.Next() {
		pq, err := scanPendingQuery(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pending query: %w", err)
		}
		queries = append(queries, pq)
	}
	return queries, rows.Err()
}

func (r *pendingQueryRepository) Count(ctx context.Context, ownerID uuid.UUID, status string) (int, error) {
	query := `
		SELECT COUNT(*) FROM pending_queries
		WHERE owner_id = $1 AND ($2 = '' OR status = $2)`

	var count int
	if err := r.db.Pool.QueryRow(ctx, query, ownerID, status).Scan(&count); err != nil {
		return 0, fmt.Errorf("count pending queries: %w", err)
	}
	return count, nil
}

func (r *pendingQueryRepository) UpdateStatus(ctx context.Context, ownerID, id uuid.UUID, status string) error {
	tag, err := r.db.Pool.Exec(ctx,
		`UPDATE pending_queries SET status = $3 WHERE owner_id = $1 AND id = $2`,
		ownerID, id, status)
	if err != nil {
		return fmt.Errorf("update pending query status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending query %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func (r *pendingQueryRepository) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	tag, err := r.db.Pool.Exec(ctx,
		`DELETE FROM pending_queries WHERE owner_id = $1 AND id = $2`,
		ownerID, id)
	if err != nil {
		return fmt.Errorf("delete pending query: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pending query %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}

func scanPendingQuery(row pgx.Row) (*models.PendingQuery, error) {
	var pq models.PendingQuery
	var candidates []byte

	err := row.Scan(&pq.ID, &pq.OwnerID, &pq.OriginalText, &pq.NormalizedText,
		&candidates, &pq.Backend, &pq.Threshold, &pq.Status, &pq.CreatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(candidates, &pq.Candidates); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}
	return &pq, nil
}
