package score

import (
	"fmt"
	"math"

	"github.com/veritok/veritok/internal/model"
)

const neutralBaseline = 5.0

// ContentMetrics carries the non-verdict signals the aggregator scores
type ContentMetrics struct {
	HasTranscript bool
	ContentLength int
	NewsContent   bool
	FactChecked   bool
}

// Aggregator computes the per-analysis creator credibility rating.
// Deterministic, no external calls; every adjustment is recorded as a
// factor so the rating is fully auditable.
type Aggregator struct {
	platformAdjust map[string]float64
}

// NewAggregator creates an aggregator with the configured per-platform
// adjustments.
func NewAggregator(cfg *model.CredibilityConfig) *Aggregator {
	adjust := cfg.PlatformAdjustments
	if adjust == nil {
		adjust = model.DefaultConfig().Credibility.PlatformAdjustments
	}
	return &Aggregator{platformAdjust: adjust}
}

// Aggregate scores one analysis. verdict may be nil (verification
// skipped or degraded); metrics may be nil.
func (a *Aggregator) Aggregate(verdict *model.VerificationVerdict, meta model.ContentMetadata, metrics *ContentMetrics) model.CredibilityRating {
	value := neutralBaseline
	var factors []model.CredibilityFactor

	apply := func(description string, delta float64) {
		value += delta
		factors = append(factors, model.CredibilityFactor{
			Description: description,
			Delta:       delta,
		})
	}

	if verdict != nil {
		switch {
		case verdict.Status.IsAffirmative():
			apply("content verified as accurate", 3.0)
		case verdict.Status.IsNegative():
			apply("content found false or misleading", -4.0)
		case verdict.Status == model.StatusUnverifiable:
			apply("claims could not be verified", -1.0)
		default:
			apply("verification attempted but unresolved", -0.5)
		}

		if verdict.Confidence > 0 {
			delta := (verdict.Confidence*100 - 50) / 100
			apply(fmt.Sprintf("verdict confidence %.0f%%", verdict.Confidence*100), delta)
		}
	}

	if metrics != nil {
		if metrics.HasTranscript {
			apply("clear spoken content transcribed", 0.5)
		}
		if metrics.NewsContent {
			if metrics.FactChecked {
				apply("news content was fact-checked", 1.0)
			} else {
				apply("news content lacks verification", -1.5)
			}
		}
		if metrics.ContentLength > 100 {
			apply("substantive content length", 0.5)
		} else if metrics.ContentLength > 0 && metrics.ContentLength < 20 {
			apply("very short content", -0.5)
		}
	}

	if delta, ok := a.platformAdjust[string(meta.Platform)]; ok && delta != 0 {
		apply(fmt.Sprintf("platform adjustment (%s)", meta.Platform), delta)
	}

	return model.CredibilityRating{
		Value:   roundTo1(clamp(value, 0, 10)),
		Factors: factors,
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
