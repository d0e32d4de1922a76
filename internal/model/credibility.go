package model

// CredibilityFactor is one recorded adjustment in a credibility rating.
// The full factor list is the audit trail: the final value without the
// breakdown is not acceptable output.
type CredibilityFactor struct {
	Description string  `json:"description"`
	Delta       float64 `json:"delta"`
}

// CredibilityRating is the per-analysis creator credibility score.
// Value is clamped to [0,10] and rounded to one decimal. Historical
// accumulation across analyses is the persistence layer's job; the
// pipeline only emits the per-analysis value and its factors.
type CredibilityRating struct {
	Value   float64             `json:"value"`
	Factors []CredibilityFactor `json:"factors"`
}
