package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/models"
	"github.com/miguelangel-nubla/product-matcher/pkg/repositories"
)

// Stats summarizes an owner's matching activity and the catalog size across
// all configured backends.
type Stats struct {
	PendingQueries  int `json:"pending_queries"`
	ResolvedQueries int `json:"resolved_queries"`
	IgnoredQueries  int `json:"ignored_queries"`
	TotalMatches    int `json:"total_matches"`
	TotalProducts   int `json:"total_products"`
}

// StatsService aggregates counters for the stats endpoint.
type StatsService interface {
	Stats(ctx context.Context, ownerID uuid.UUID) (*Stats, error)
}

type statsService struct {
	pendingRepo repositories.PendingQueryRepository
	matchLogs   repositories.MatchLogRepository
	backends    *BackendRegistry
	logger      *zap.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(pendingRepo repositories.PendingQueryRepository, matchLogs repositories.MatchLogRepository, backends *BackendRegistry, logger *zap.Logger) StatsService {
	return &statsService{
		pendingRepo: pendingRepo,
		matchLogs:   matchLogs,
		backends:    backends,
		logger:      logger.Named("stats_service"),
	}
}

func (s *statsService) Stats(ctx context.Context, ownerID uuid.UUID) (*Stats, error) {
	stats := &Stats{}

	var err error
	if stats.PendingQueries, err = s.pendingRepo.Count(ctx, ownerID, models.PendingStatusPending); err != nil {
		return nil, fmt.Errorf("counting pending queries: %w", err)
	}
	if stats.ResolvedQueries, err = s.pendingRepo.Count(ctx, ownerID, models.PendingStatusResolved); err != nil {
		return nil, fmt.Errorf("counting resolved queries: %w", err)
	}
	if stats.IgnoredQueries, err = s.pendingRepo.Count(ctx, ownerID, models.PendingStatusIgnored); err != nil {
		return nil, fmt.Errorf("counting ignored queries: %w", err)
	}
	if stats.TotalMatches, err = s.matchLogs.Count(ctx, ownerID); err != nil {
		return nil, fmt.Errorf("counting match logs: %w", err)
	}

	for _, info := range s.backends.List() {
		backend, err := s.backends.Get(info.Name)
		if err != nil {
			return nil, err
		}
		aliases, err := backend.Source.GetAllAliases(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing products for backend %q: %w", info.Name, err)
		}
		seen := make(map[string]struct{}, len(aliases))
		for _, alias := range aliases {
			seen[alias.ProductID] = struct{}{}
		}
		stats.TotalProducts += len(seen)
	}

	return stats, nil
}
