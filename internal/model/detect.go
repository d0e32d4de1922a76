package model

// ContentCategory is the coarse editorial classification of a post
type ContentCategory string

const (
	CategoryNewsFactual          ContentCategory = "news_factual"
	CategoryEntertainmentOpinion ContentCategory = "entertainment_opinion"
)

// ClaimDetectionResult is the output of the claim detector.
// It is a pure function of the input text and always present when the
// detection stage ran (the stage itself cannot fail).
type ClaimDetectionResult struct {
	HasNewsContent  bool            `json:"has_news_content"`
	Confidence      float64         `json:"confidence"`
	MatchedKeywords []string        `json:"matched_keywords,omitempty"`
	CandidateClaims []string        `json:"candidate_claims,omitempty"`
	NeedsFactCheck  bool            `json:"needs_fact_check"`
	ContentCategory ContentCategory `json:"content_category"`
}
