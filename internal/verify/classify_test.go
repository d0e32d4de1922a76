package verify

import (
	"testing"

	"github.com/veritok/veritok/internal/model"
)

func TestClassifyByKeywords(t *testing.T) {
	cases := []struct {
		name string
		text string
		want model.VerdictStatus
	}{
		{"verified marker", "The claim has been verified by three outlets.", model.StatusVerified},
		{"true whole word", "The statement is true according to records.", model.StatusVerified},
		{"false whole word", "The claim is false.", model.StatusFalse},
		{"debunked", "This was debunked years ago.", model.StatusFalse},
		{"misleading", "The framing is misleading.", model.StatusMisleading},
		{"unverifiable", "The claim is unverifiable with available data.", model.StatusUnverifiable},
		{"unverified is not verified", "The claim is unverified and lacks supporting evidence.", model.StatusUnverifiable},
		{"unverified inside longer prose", "Reports remain unverified; officials have not confirmed the count.", model.StatusUnverifiable},
		{"verified must be whole word", "The story spread unverified for days.", model.StatusUnverifiable},
		{"no markers", "The article discusses several viewpoints.", model.StatusRequiresVerification},
		{"empty", "", model.StatusRequiresVerification},
		{"verified beats false", "Verified: the rumor about the false alarm was real.", model.StatusVerified},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			status, confidence := classifyByKeywords(tc.text)
			if status != tc.want {
				t.Errorf("classifyByKeywords(%q) = %s, want %s", tc.text, status, tc.want)
			}
			if confidence != fallbackConfidence {
				t.Errorf("confidence = %v, want %v", confidence, fallbackConfidence)
			}
		})
	}
}

func TestContainsWord(t *testing.T) {
	cases := []struct {
		text string
		word string
		want bool
	}{
		{"the claim is true", "true", true},
		{"construed meaning", "true", false},
		{"untrue statement", "true", false},
		{"false", "false", true},
		{"falsely attributed", "false", false},
		{"unverified claim", "verified", false},
		{"was verified today", "verified", true},
		{"is it true?", "true", true},
		{"", "true", false},
	}

	for _, tc := range cases {
		if got := containsWord(tc.text, tc.word); got != tc.want {
			t.Errorf("containsWord(%q, %q) = %v, want %v", tc.text, tc.word, got, tc.want)
		}
	}
}

func TestNormalizeStatus(t *testing.T) {
	cases := []struct {
		in   string
		want model.VerdictStatus
	}{
		{"verified", model.StatusVerified},
		{"TRUE", model.StatusTrue},
		{" false ", model.StatusFalse},
		{"Misleading", model.StatusMisleading},
		{"unverifiable", model.StatusUnverifiable},
		{"requires_verification", model.StatusRequiresVerification},
		{"gibberish", model.StatusRequiresVerification},
		{"", model.StatusRequiresVerification},
	}

	for _, tc := range cases {
		if got := normalizeStatus(tc.in); got != tc.want {
			t.Errorf("normalizeStatus(%q) = %s, want %s", tc.in, got, tc.want)
		}
	}
}
