package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/config"
	"github.com/miguelangel-nubla/product-matcher/pkg/matching"
	"github.com/miguelangel-nubla/product-matcher/pkg/models"
	"github.com/miguelangel-nubla/product-matcher/pkg/repositories"
)

// MatchRequest is one free-text query against one backend.
type MatchRequest struct {
	OwnerID uuid.UUID
	Query   string
	Backend string

	// Threshold overrides the configured thresholds for every strategy when
	// positive. Zero keeps the per-strategy configuration.
	Threshold float64

	// CreatePending stores a pending query when no strategy finds a
	// confident match.
	CreatePending bool

	// Debug captures a step-by-step trace of the cascade in the response.
	Debug bool
}

// MatchResponse is the outcome of a match request.
type MatchResponse struct {
	Success          bool                  `json:"success"`
	OriginalText     string                `json:"original_text"`
	NormalizedTokens []string              `json:"normalized_tokens"`
	Result           models.MatchingResult `json:"result"`
	PendingID        *uuid.UUID            `json:"pending_id,omitempty"`
	DebugTrace       []string              `json:"debug_trace,omitempty"`
}

// MatcherService runs the strategy cascade for free-text queries and records
// the outcome: a match log on success, a pending query on failure.
type MatcherService interface {
	Match(ctx context.Context, req MatchRequest) (*MatchResponse, error)

	// AddLearnedAlias registers free text as an alias of a product in the
	// backend's catalog, teaching future matches.
	AddLearnedAlias(ctx context.Context, backendName, productID, alias string) error

	// ListMatches returns the owner's recorded matches, newest first, with
	// the total count for pagination.
	ListMatches(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MatchLog, int, error)
}

type matcherService struct {
	backends  *BackendRegistry
	pipeline  *matching.Pipeline
	matchCfg  config.MatchingConfig
	pending   PendingService
	matchLogs repositories.MatchLogRepository
	logger    *zap.Logger
}

// NewMatcherService creates a new matcher service.
func NewMatcherService(
	backends *BackendRegistry,
	pipeline *matching.Pipeline,
	matchCfg config.MatchingConfig,
	pending PendingService,
	matchLogs repositories.MatchLogRepository,
	logger *zap.Logger,
) MatcherService {
	return &matcherService{
		backends:  backends,
		pipeline:  pipeline,
		matchCfg:  matchCfg,
		pending:   pending,
		matchLogs: matchLogs,
		logger:    logger.Named("matcher"),
	}
}

var _ MatcherService = (*matcherService)(nil)

func (s *matcherService) Match(ctx context.Context, req MatchRequest) (*MatchResponse, error) {
	backend, err := s.backends.Get(req.Backend)
	if err != nil {
		return nil, err
	}

	var tracker *matching.Tracker
	if req.Debug {
		tracker = matching.NewTracker()
	}

	tokens := backend.Normalizer.Normalize(req.Query)
	tracker.Addf("normalized %q to %v", req.Query, tokens)

	corpus, err := matching.BuildCorpus(ctx, backend.Source, backend.Normalizer, tracker)
	if err != nil {
		return nil, err
	}

	mc := &matching.Context{
		InputTokens:     tokens,
		NormalizedInput: strings.Join(tokens, " "),
		AliasCorpus:     corpus,
		Debug:           tracker,
	}

	// An explicit request threshold overrides every per-strategy setting.
	thresholds := s.matchCfg.Thresholds
	defaultThreshold := s.matchCfg.DefaultThreshold
	if req.Threshold > 0 {
		thresholds = nil
		defaultThreshold = req.Threshold
	}

	success, result, err := s.pipeline.Execute(ctx, mc, thresholds, defaultThreshold, s.matchCfg.MaxCandidates)
	if err != nil {
		return nil, err
	}

	resp := &MatchResponse{
		Success:          success,
		OriginalText:     req.Query,
		NormalizedTokens: tokens,
		Result:           result,
	}

	if success {
		best := result.Candidates[0]
		log := &models.MatchLog{
			OwnerID:          req.OwnerID,
			OriginalText:     req.Query,
			NormalizedText:   mc.NormalizedInput,
			Backend:          backend.Name,
			MatchedProductID: best.ProductID,
			ConfidenceScore:  best.Confidence,
			ThresholdUsed:    result.ThresholdUsed,
		}
		if err := s.matchLogs.Insert(ctx, log); err != nil {
			return nil, fmt.Errorf("record match: %w", err)
		}
		s.logger.Info("query matched",
			zap.String("backend", backend.Name),
			zap.String("strategy", result.StrategyName),
			zap.String("product_id", best.ProductID),
			zap.Float64("confidence", best.Confidence))
	} else if req.CreatePending {
		pending := &models.PendingQuery{
			OwnerID:        req.OwnerID,
			OriginalText:   req.Query,
			NormalizedText: mc.NormalizedInput,
			Candidates:     result.Candidates,
			Backend:        backend.Name,
			Threshold:      result.ThresholdUsed,
		}
		if err := s.pending.Add(ctx, pending); err != nil {
			return nil, fmt.Errorf("store pending query: %w", err)
		}
		resp.PendingID = &pending.ID
		s.logger.Info("query stored as pending",
			zap.String("backend", backend.Name),
			zap.String("pending_id", pending.ID.String()),
			zap.Int("candidates", len(result.Candidates)))
	}

	resp.DebugTrace = tracker.Lines()
	return resp, nil
}

func (s *matcherService) AddLearnedAlias(ctx context.Context, backendName, productID, alias string) error {
	backend, err := s.backends.Get(backendName)
	if err != nil {
		return err
	}
	if err := backend.Source.AddAlias(ctx, productID, alias); err != nil {
		return fmt.Errorf("adding alias %q to product %s: %w", alias, productID, err)
	}
	s.logger.Info("alias learned",
		zap.String("backend", backendName),
		zap.String("product_id", productID),
		zap.String("alias", alias))
	return nil
}

func (s *matcherService) ListMatches(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.MatchLog, int, error) {
	limit, offset = normalizePageParams(limit, offset)

	total, err := s.matchLogs.Count(ctx, ownerID)
	if err != nil {
		return nil, 0, err
	}
	logs, err := s.matchLogs.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return logs, total, nil
}

// normalizePageParams clamps pagination parameters to sane bounds.
func normalizePageParams(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
