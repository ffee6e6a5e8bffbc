package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/apperrors"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
	"github.com/miguelangel-nubla/product-matcher/pkg/repositories"
)

// PendingService manages the review workflow for queries that found no
// confident match.
type PendingService interface {
	// Add stores an unresolved query, refreshing the existing open row for
	// the same (owner, backend, text, threshold) if one exists.
	Add(ctx context.Context, pq *models.PendingQuery) error

	// List returns the owner's pending queries and the total count. An empty
	// status matches every status.
	List(ctx context.Context, ownerID uuid.UUID, status string, limit, offset int) ([]*models.PendingQuery, int, error)

	// Count returns the number of the owner's queries with the given status.
	// An empty status matches every status.
	Count(ctx context.Context, ownerID uuid.UUID, status string) (int, error)

	Get(ctx context.Context, ownerID, id uuid.UUID) (*models.PendingQuery, error)

	// Resolve applies a resolution action to an open pending query. For
	// "assign" an alias is written back to the inventory catalog on
	// productID before the row leaves the pending state: customAlias when
	// given, otherwise the stored normalized text. If the write-back fails
	// the row stays pending. "ignore" closes the row without touching the
	// catalog.
	Resolve(ctx context.Context, ownerID, id uuid.UUID, action, productID, customAlias string) (*models.PendingQuery, error)

	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}

type pendingService struct {
	repo     repositories.PendingQueryRepository
	backends *BackendRegistry
	logger   *zap.Logger
}

// NewPendingService creates a new pending query service.
func NewPendingService(repo repositories.PendingQueryRepository, backends *BackendRegistry, logger *zap.Logger) PendingService {
	return &pendingService{
		repo:     repo,
		backends: backends,
		logger:   logger.Named("pending"),
	}
}

var _ PendingService = (*pendingService)(nil)

func (s *pendingService) Add(ctx context.Context, pq *models.PendingQuery) error {
	return s.repo.Upsert(ctx, pq)
}

func (s *pendingService) List(ctx context.Context, ownerID uuid.UUID, status string, limit, offset int) ([]*models.PendingQuery, int, error) {
	limit, offset = normalizePageParams(limit, offset)

	total, err := s.Count(ctx, ownerID, status)
	if err != nil {
		return nil, 0, err
	}
	queries, err := s.repo.List(ctx, ownerID, status, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return queries, total, nil
}

func (s *pendingService) Count(ctx context.Context, ownerID uuid.UUID, status string) (int, error) {
	return s.repo.Count(ctx, ownerID, status)
}

func (s *pendingService) Get(ctx context.Context, ownerID, id uuid.UUID) (*models.PendingQuery, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

func (s *pendingService) Resolve(ctx context.Context, ownerID, id uuid.UUID, action, productID, customAlias string) (*models.PendingQuery, error) {
	pq, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if pq.Status != models.PendingStatusPending {
		return nil, fmt.Errorf("pending query %s is %s: %w", id, pq.Status, apperrors.ErrAlreadyResolved)
	}

	switch action {
	case models.ResolutionActionAssign:
		if productID == "" {
			return nil, fmt.Errorf("assign requires a product_id: %w", apperrors.ErrInvalidResolutionAction)
		}

		backend, err := s.backends.Get(pq.Backend)
		if err != nil {
			return nil, err
		}

		// The normalized text is what the matcher will compare against on
		// future queries, so it is the default alias; the raw original text
		// is never written to the catalog.
		alias := customAlias
		if alias == "" {
			alias = pq.NormalizedText
		}

		// Write the alias first: if the catalog rejects it the row must
		// stay pending so the resolution can be retried.
		if err := backend.Source.AddAlias(ctx, productID, alias); err != nil {
			return nil, fmt.Errorf("adding alias %q to product %s: %w", alias, productID, err)
		}

		if err := s.repo.UpdateStatus(ctx, ownerID, id, models.PendingStatusResolved); err != nil {
			return nil, err
		}
		pq.Status = models.PendingStatusResolved

		s.logger.Info("pending query resolved",
			zap.String("pending_id", id.String()),
			zap.String("backend", pq.Backend),
			zap.String("product_id", productID),
			zap.String("alias", alias))

	case models.ResolutionActionIgnore:
		if err := s.repo.UpdateStatus(ctx, ownerID, id, models.PendingStatusIgnored); err != nil {
			return nil, err
		}
		pq.Status = models.PendingStatusIgnored

		s.logger.Info("pending query ignored", zap.String("pending_id", id.String()))

	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrInvalidResolutionAction, action)
	}

	return pq, nil
}

func (s *pendingService) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return err
	}
	s.logger.Info("pending query deleted", zap.String("pending_id", id.String()))
	return nil
}
