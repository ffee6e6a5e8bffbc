package matching

import (
	"context"

	"go.uber.org/zap"

	"github.com/miguelangel-nubla/product-matcher/pkg/models"
)

// Pipeline runs an ordered strategy cascade, stopping at the first strategy
// that reports success. The ordering encodes "prefer precise methods first,
// fall back to noisier ones" and is the main accuracy/latency knob.
type Pipeline struct {
	strategies []Strategy
	logger     *zap.Logger
}

// NewPipeline creates a pipeline over the given ordered strategies.
func NewPipeline(strategies []Strategy, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		strategies: strategies,
		logger:     logger.Named("pipeline"),
	}
}

// StrategyNames lists the cascade order, for instrumentation.
func (p *Pipeline) StrategyNames() []string {
	names := make([]string, 0, len(p.strategies))
	for _, s := range p.strategies {
		names = append(names, s.Name())
	}
	return names
}

// Execute runs the cascade. Each strategy gets its named threshold from
// thresholds, falling back to defaultThreshold. Returns on the first
// success; if every strategy fails, the last strategy's result is returned
// with success=false so its candidate list can surface near misses.
func (p *Pipeline) Execute(
	ctx context.Context,
	mc *Context,
	thresholds map[string]float64,
	defaultThreshold float64,
	maxCandidates int,
) (bool, models.MatchingResult, error) {
	var last models.MatchingResult

	for _, strategy := range p.strategies {
		threshold, ok := thresholds[strategy.Name()]
		if !ok {
			threshold = defaultThreshold
		}

		mc.Debug.Addf("pipeline: executing %s with threshold %.3f", strategy.Name(), threshold)

		result, err := strategy.Match(ctx, mc, threshold, maxCandidates)
		if err != nil {
			return false, models.MatchingResult{}, err
		}

		p.logger.Debug("strategy completed",
			zap.String("strategy", strategy.Name()),
			zap.Bool("success", result.Success),
			zap.Int("candidates", len(result.Candidates)),
			zap.Int("candidates_checked", result.CandidatesChecked),
			zap.Float64("processing_time_ms", result.ProcessingTimeMS))

		if result.Success {
			mc.Debug.Addf("pipeline: %s succeeded, cascade complete", strategy.Name())
			return true, result, nil
		}

		mc.Debug.Addf("pipeline: %s found no confident match, continuing", strategy.Name())
		last = result
	}

	mc.Debug.Add("pipeline: all strategies exhausted without a confident match")
	return false, last, nil
}
