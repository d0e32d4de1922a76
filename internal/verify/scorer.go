package verify

import (
	"context"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/veritok/veritok/internal/model"
)

// SourceScorer assigns 1-10 credibility scores to source domains.
// The static trust table is injected configuration and always takes
// precedence; the optional reasoning path only rates domains the table
// does not pin, so operator-pinned scores stay deterministic. Scores
// are memoized so a domain costs at most one external call.
type SourceScorer struct {
	table        map[string]float64
	defaultScore float64
	rater        DomainRater // nil: static table only
	memo         *gocache.Cache
}

// NewSourceScorer creates a scorer. rater may be nil.
func NewSourceScorer(cfg *model.CredibilityConfig, rater DomainRater) *SourceScorer {
	table := cfg.TrustedDomains
	if table == nil {
		table = model.DefaultConfig().Credibility.TrustedDomains
	}
	def := cfg.DefaultDomainScore
	if def == 0 {
		def = 6
	}
	return &SourceScorer{
		table:        table,
		defaultScore: def,
		rater:        rater,
		memo:         gocache.New(time.Hour, 10*time.Minute),
	}
}

// Score returns the credibility score for a domain on the 1-10 scale
func (s *SourceScorer) Score(ctx context.Context, domain string) float64 {
	domain = strings.ToLower(strings.TrimPrefix(domain, "www."))
	if domain == "" {
		return s.defaultScore
	}

	if cached, found := s.memo.Get(domain); found {
		return cached.(float64)
	}

	score := s.lookup(ctx, domain)
	s.memo.Set(domain, score, gocache.DefaultExpiration)
	return score
}

func (s *SourceScorer) lookup(ctx context.Context, domain string) float64 {
	// Static table first: exact match, suffix match, bare-TLD entries
	if v, ok := s.table[domain]; ok {
		return clampScore(v)
	}
	for entry, v := range s.table {
		if strings.HasPrefix(entry, ".") {
			if strings.HasSuffix(domain, entry) {
				return clampScore(v)
			}
			continue
		}
		if strings.HasSuffix(domain, "."+entry) {
			return clampScore(v)
		}
	}

	if s.rater == nil {
		return s.defaultScore
	}

	n, err := s.rater.RateDomain(ctx, domain)
	if err != nil {
		return s.defaultScore
	}
	return clampScore(float64(n))
}

func clampScore(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}

// String describes the scorer configuration, for verbose output
func (s *SourceScorer) String() string {
	mode := "static table"
	if s.rater != nil {
		mode = "static table + reasoning"
	}
	return fmt.Sprintf("source scorer (%s, %d pinned domains, default %.0f)", mode, len(s.table), s.defaultScore)
}
