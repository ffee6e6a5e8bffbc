package models

// AliasEntry is one normalized alias from the external inventory catalog.
// A product usually contributes several entries (its primary name plus every
// learned alias); duplicates are harmless because strategies reduce to one
// best score per product.
type AliasEntry struct {
	ProductID    string   `json:"product_id"`
	OriginalText string   `json:"original_text"`
	Tokens       []string `json:"tokens"`
}

// MatchCandidate is a scored product produced by a matching strategy.
type MatchCandidate struct {
	ProductID  string  `json:"product_id"`
	Confidence float64 `json:"confidence"`
}

// MatchingResult is the outcome of one strategy (or of the whole pipeline,
// which returns the result of the strategy it stopped at). Transient, never
// persisted.
type MatchingResult struct {
	Success           bool             `json:"success"`
	Candidates        []MatchCandidate `json:"candidates"`
	StrategyName      string           `json:"strategy_name"`
	CandidatesChecked int              `json:"candidates_checked"`
	ThresholdUsed     float64          `json:"threshold_used"`
	ProcessingTimeMS  float64          `json:"processing_time_ms"`
}
