package verify

import (
	"context"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/veritok/veritok/internal/model"
)

var urlPattern = regexp.MustCompile(`https?://[^\s\)\]"'<>]+`)

// extractURLs pulls URLs out of prose, deduplicated in first-seen
// order. Fallback path for services that don't return structured
// citations.
func extractURLs(text string) []string {
	matches := urlPattern.FindAllString(text, -1)

	seen := make(map[string]bool)
	var unique []string
	for _, u := range matches {
		u = strings.TrimRight(u, ".,;:!?")
		if !seen[u] {
			seen[u] = true
			unique = append(unique, u)
		}
	}
	return unique
}

// buildSources turns cited URLs into scored evidence sources:
// deduplicated by URL, scored per unique domain, sorted by credibility
// descending, capped to maxReported. The full list feeds aggregation;
// only the capped list is reported.
func buildSources(ctx context.Context, citedURLs []string, scorer *SourceScorer, maxReported int) []model.EvidenceSource {
	seen := make(map[string]bool)
	var sources []model.EvidenceSource

	for _, raw := range citedURLs {
		if seen[raw] {
			continue
		}
		seen[raw] = true

		domain := domainOf(raw)
		score := scorer.Score(ctx, domain)
		sources = append(sources, model.EvidenceSource{
			URL:              raw,
			Domain:           domain,
			CredibilityScore: score / 10, // normalize 1-10 to [0,1]
		})
	}

	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].CredibilityScore > sources[j].CredibilityScore
	})

	if maxReported > 0 && len(sources) > maxReported {
		sources = sources[:maxReported]
	}
	return sources
}

func domainOf(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
