package verify

import "context"

// ResearchResult is the raw output of one web-research call
type ResearchResult struct {
	// Text is the prose analysis returned by the service
	Text string

	// CitedURLs are the structured citations, when the service
	// provides them. May be empty; the verifier then falls back to
	// extracting URLs from Text.
	CitedURLs []string
}

// Researcher is the narrow contract to the web-search-augmented
// reasoning service.
type Researcher interface {
	ResearchClaim(ctx context.Context, prompt string) (*ResearchResult, error)
}

// Classifier turns a prose research response into a verdict status and
// confidence. When no classifier is configured the verifier uses a
// deterministic keyword fallback instead.
type Classifier interface {
	Classify(ctx context.Context, responseText string) (status string, confidence float64, err error)
}

// DomainRater rates a source domain 1..10 against the credibility
// rubric. Optional: without it the scorer uses its static table only.
type DomainRater interface {
	RateDomain(ctx context.Context, domain string) (int, error)
}
