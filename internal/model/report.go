package model

import "time"

// AnalysisReport is the pipeline's terminal artifact. Fields other than
// Metadata may be nil when the corresponding stage was skipped or
// degraded; a partial report is still a usable result. The report is
// assembled incrementally by the orchestrator and never mutated after
// being returned.
type AnalysisReport struct {
	ID       string          `json:"id"`
	Metadata ContentMetadata `json:"metadata"`
	MediaURL string          `json:"media_url,omitempty"`
	HasVideo bool            `json:"has_video"`

	Transcript     *Transcript           `json:"transcript,omitempty"`
	ClaimDetection *ClaimDetectionResult `json:"claim_detection,omitempty"`
	Verification   *VerificationOutcome  `json:"verification,omitempty"`
	Credibility    *CredibilityRating    `json:"credibility,omitempty"`

	// RequiresFactCheck mirrors ClaimDetection.NeedsFactCheck when
	// detection ran, false otherwise.
	RequiresFactCheck bool `json:"requires_fact_check"`

	// Degraded lists stages that failed non-fatally, with reasons
	Degraded []string `json:"degraded,omitempty"`

	AnalyzedAt time.Time `json:"analyzed_at"`
}
