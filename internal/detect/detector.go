package detect

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/veritok/veritok/internal/model"
)

// Detection confidence is deliberately binary: the heuristics either
// fired or they did not. A graded score would suggest precision the
// keyword matching doesn't have.
const (
	confidenceMatched   = 0.8
	confidenceUnmatched = 0.2
)

// Detector decides whether content contains factual/news-style claims
// worth verifying. Pure and deterministic: no external calls, no
// randomness, no time dependence.
type Detector struct {
	keywords       []string
	patterns       []*regexp.Regexp
	maxClaims      int
	minSentenceLen int
}

// NewDetector compiles the configured keyword and pattern lists
func NewDetector(cfg *model.DetectorConfig) (*Detector, error) {
	d := &Detector{
		maxClaims:      cfg.MaxClaims,
		minSentenceLen: cfg.MinSentenceLen,
	}
	if d.maxClaims <= 0 {
		d.maxClaims = 5
	}
	if d.minSentenceLen <= 0 {
		d.minSentenceLen = 10
	}

	for _, k := range cfg.Keywords {
		d.keywords = append(d.keywords, strings.ToLower(k))
	}
	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(`(?i)` + p)
		if err != nil {
			return nil, fmt.Errorf("compile pattern %q: %w", p, err)
		}
		d.patterns = append(d.patterns, re)
	}

	return d, nil
}

// Detect analyzes the combined title and body text. Always succeeds.
func (d *Detector) Detect(text, title string) model.ClaimDetectionResult {
	combined := strings.TrimSpace(title + " " + text)
	lower := strings.ToLower(combined)

	result := model.ClaimDetectionResult{
		Confidence:      confidenceUnmatched,
		ContentCategory: model.CategoryEntertainmentOpinion,
	}
	if lower == "" {
		return result
	}

	matched := make(map[string]bool)
	for _, k := range d.keywords {
		if strings.Contains(lower, k) {
			matched[k] = true
		}
	}

	patternHits := 0
	for _, re := range d.patterns {
		patternHits += len(re.FindAllStringIndex(combined, -1))
	}

	if len(matched) > 0 || patternHits > 0 {
		result.HasNewsContent = true
		result.NeedsFactCheck = true
		result.Confidence = confidenceMatched
		result.ContentCategory = model.CategoryNewsFactual
	}

	for k := range matched {
		result.MatchedKeywords = append(result.MatchedKeywords, k)
	}
	sort.Strings(result.MatchedKeywords)

	result.CandidateClaims = d.extractClaims(combined)

	return result
}

// extractClaims splits the text into sentences and keeps the ones that
// look checkable, capped at maxClaims.
func (d *Detector) extractClaims(text string) []string {
	var claims []string
	for _, sentence := range splitSentences(text) {
		if len(sentence) <= d.minSentenceLen {
			continue
		}
		if !d.isCheckable(sentence) {
			continue
		}
		claims = append(claims, sentence)
		if len(claims) >= d.maxClaims {
			break
		}
	}
	return claims
}

func (d *Detector) isCheckable(sentence string) bool {
	lower := strings.ToLower(sentence)
	for _, k := range d.keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	for _, re := range d.patterns {
		if re.MatchString(sentence) {
			return true
		}
	}
	return false
}

// splitSentences splits on sentence terminators . ! ?
func splitSentences(text string) []string {
	text = strings.ReplaceAll(text, "\n", " ")

	var sentences []string
	var current strings.Builder

	flush := func() {
		s := strings.TrimSpace(current.String())
		if s != "" {
			sentences = append(sentences, s)
		}
		current.Reset()
	}

	for _, r := range text {
		current.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			flush()
		}
	}
	flush()

	return sentences
}
