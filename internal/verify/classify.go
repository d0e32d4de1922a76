package verify

import (
	"strings"

	"github.com/veritok/veritok/internal/model"
)

const fallbackConfidence = 0.5

// classifyByKeywords is the deterministic fallback used when no
// reasoning classifier is configured or the classify call fails.
// Literal markers are checked in priority order, negative verifiability
// markers first so "unverified" prose never reads as verified; anything
// else is requires_verification.
func classifyByKeywords(responseText string) (model.VerdictStatus, float64) {
	lower := strings.ToLower(responseText)

	switch {
	case strings.Contains(lower, "unverifiable") || containsWord(lower, "unverified"):
		return model.StatusUnverifiable, fallbackConfidence
	case containsWord(lower, "verified") || containsWord(lower, "true"):
		return model.StatusVerified, fallbackConfidence
	case containsWord(lower, "false") || strings.Contains(lower, "debunked"):
		return model.StatusFalse, fallbackConfidence
	case strings.Contains(lower, "misleading"):
		return model.StatusMisleading, fallbackConfidence
	default:
		return model.StatusRequiresVerification, fallbackConfidence
	}
}

// containsWord matches whole words so "false" doesn't fire on
// "falsely attributed" prose boundaries alone.
func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordRune(text[start-1])
		afterOK := end == len(text) || !isWordRune(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordRune(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

// normalizeStatus maps a classifier's free-form status string onto the
// verdict enumeration, defaulting to requires_verification.
func normalizeStatus(s string) model.VerdictStatus {
	switch model.VerdictStatus(strings.TrimSpace(strings.ToLower(s))) {
	case model.StatusVerified:
		return model.StatusVerified
	case model.StatusTrue:
		return model.StatusTrue
	case model.StatusFalse:
		return model.StatusFalse
	case model.StatusMisleading:
		return model.StatusMisleading
	case model.StatusUnverifiable:
		return model.StatusUnverifiable
	case model.StatusRequiresVerification:
		return model.StatusRequiresVerification
	default:
		return model.StatusRequiresVerification
	}
}
