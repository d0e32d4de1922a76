package verify

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/veritok/veritok/internal/model"
)

// fakeResearcher returns canned responses keyed by substring of the
// prompt, or a fixed response for everything.
type fakeResearcher struct {
	calls    int
	fixed    *ResearchResult
	perCall  []*ResearchResult
	failOn   int // 1-based call index that fails; 0 means never
	failWith error
}

func (f *fakeResearcher) ResearchClaim(ctx context.Context, prompt string) (*ResearchResult, error) {
	f.calls++
	if f.failOn != 0 && f.calls == f.failOn {
		err := f.failWith
		if err == nil {
			err = errors.New("research backend down")
		}
		return nil, err
	}
	if f.perCall != nil {
		if f.calls <= len(f.perCall) {
			return f.perCall[f.calls-1], nil
		}
		return f.perCall[len(f.perCall)-1], nil
	}
	if f.fixed != nil {
		return f.fixed, nil
	}
	return &ResearchResult{Text: "unverifiable claim, no reliable sources found"}, nil
}

type fakeClassifier struct {
	status     string
	confidence float64
	err        error
}

func (f *fakeClassifier) Classify(ctx context.Context, responseText string) (string, float64, error) {
	return f.status, f.confidence, f.err
}

func testScorer() *SourceScorer {
	cfg := model.DefaultConfig().Credibility
	return NewSourceScorer(&cfg, nil)
}

func newTestVerifier(r Researcher, c Classifier) *Verifier {
	cfg := model.DefaultConfig().Verifier
	return NewVerifier(&cfg, r, c, testScorer(), nil)
}

func TestVerifyClaims_NoResearcher(t *testing.T) {
	v := newTestVerifier(nil, nil)

	_, err := v.VerifyClaims(context.Background(), []string{"some claim"}, nil)
	var cfgErr *model.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestVerifyClaims_EmptyClaims(t *testing.T) {
	v := newTestVerifier(&fakeResearcher{}, nil)
	if _, err := v.VerifyClaims(context.Background(), nil, nil); err == nil {
		t.Error("expected error for empty claim list")
	}
}

func TestVerifyClaims_CapsClaims(t *testing.T) {
	r := &fakeResearcher{fixed: &ResearchResult{Text: "The claim is verified by multiple outlets."}}
	v := newTestVerifier(r, nil)

	claims := make([]string, 10)
	for i := range claims {
		claims[i] = fmt.Sprintf("claim number %d", i)
	}

	outcome, err := v.VerifyClaims(context.Background(), claims, nil)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}

	if outcome.Mode != model.ModePerClaim {
		t.Errorf("expected per_claim mode, got %s", outcome.Mode)
	}
	if len(outcome.Claims) != 3 {
		t.Errorf("expected 3 results, got %d", len(outcome.Claims))
	}
	if r.calls != 3 {
		t.Errorf("expected 3 research calls, got %d", r.calls)
	}
	if outcome.Summary == nil || outcome.Summary.Total != 3 {
		t.Errorf("expected summary total 3, got %+v", outcome.Summary)
	}
}

func TestVerifyClaims_ErrorIsolation(t *testing.T) {
	r := &fakeResearcher{
		fixed:  &ResearchResult{Text: "This is verified according to the record."},
		failOn: 2,
	}
	v := newTestVerifier(r, nil)

	claims := []string{"claim one", "claim two", "claim three"}
	outcome, err := v.VerifyClaims(context.Background(), claims, nil)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}

	if len(outcome.Claims) != 3 {
		t.Fatalf("expected all 3 claims, got %d", len(outcome.Claims))
	}

	second := outcome.Claims[1]
	if second.Verdict.Status != model.StatusError {
		t.Errorf("claim two: expected status error, got %s", second.Verdict.Status)
	}
	if second.Verdict.Confidence != 0 {
		t.Errorf("claim two: expected confidence 0, got %v", second.Verdict.Confidence)
	}
	if !second.Verdict.NeedsManualVerification {
		t.Error("claim two: expected NeedsManualVerification")
	}

	for _, i := range []int{0, 2} {
		if outcome.Claims[i].Verdict.Status == model.StatusError {
			t.Errorf("claim %d should not be affected by the failed claim", i+1)
		}
	}

	if outcome.Summary.Errors != 1 || outcome.Summary.VerifiedTrue != 2 {
		t.Errorf("summary mismatch: %+v", outcome.Summary)
	}
}

func TestVerifyClaims_SummaryConsistency(t *testing.T) {
	r := &fakeResearcher{perCall: []*ResearchResult{
		{Text: "The statement is false and has been debunked."},
		{Text: "This is unverifiable based on available evidence."},
		{Text: "Confirmed verified by official records."},
	}}
	v := newTestVerifier(r, nil)

	outcome, err := v.VerifyClaims(context.Background(), []string{"a longer claim", "b longer claim", "c longer claim"}, nil)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}

	recomputed := model.SummarizeClaims(outcome.Claims)
	if *outcome.Summary != *recomputed {
		t.Errorf("summary not consistent with results: got %+v want %+v", outcome.Summary, recomputed)
	}
	want := model.VerificationSummary{Total: 3, VerifiedTrue: 1, VerifiedFalse: 1, Unverifiable: 1}
	if *outcome.Summary != want {
		t.Errorf("summary = %+v, want %+v", outcome.Summary, want)
	}
}

func TestVerifyClaims_ClassifierPreferred(t *testing.T) {
	r := &fakeResearcher{fixed: &ResearchResult{Text: "Ambiguous prose with no markers."}}
	c := &fakeClassifier{status: "misleading", confidence: 0.85}
	v := newTestVerifier(r, c)

	outcome, err := v.VerifyClaims(context.Background(), []string{"some checkable claim"}, nil)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}
	verdict := outcome.Claims[0].Verdict
	if verdict.Status != model.StatusMisleading {
		t.Errorf("expected misleading from classifier, got %s", verdict.Status)
	}
	if verdict.Confidence != 0.85 {
		t.Errorf("expected confidence 0.85, got %v", verdict.Confidence)
	}
}

func TestVerifyClaims_ClassifierFailureFallsBack(t *testing.T) {
	r := &fakeResearcher{fixed: &ResearchResult{Text: "The claim is false."}}
	c := &fakeClassifier{err: errors.New("classify timeout")}
	v := newTestVerifier(r, c)

	outcome, err := v.VerifyClaims(context.Background(), []string{"some checkable claim"}, nil)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}
	verdict := outcome.Claims[0].Verdict
	if verdict.Status != model.StatusFalse {
		t.Errorf("expected keyword fallback false, got %s", verdict.Status)
	}
	if verdict.Confidence != fallbackConfidence {
		t.Errorf("expected fallback confidence %v, got %v", fallbackConfidence, verdict.Confidence)
	}
}

func TestVerifyClaims_ConfidenceClamped(t *testing.T) {
	r := &fakeResearcher{fixed: &ResearchResult{Text: "whatever"}}
	c := &fakeClassifier{status: "verified", confidence: 3.0}
	v := newTestVerifier(r, c)

	outcome, err := v.VerifyClaims(context.Background(), []string{"some checkable claim"}, nil)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}
	if got := outcome.Claims[0].Verdict.Confidence; got != 1 {
		t.Errorf("expected confidence clamped to 1, got %v", got)
	}
}

func TestVerifyClaims_SourcesFromCitations(t *testing.T) {
	r := &fakeResearcher{fixed: &ResearchResult{
		Text:      "Verified by health authorities.",
		CitedURLs: []string{"https://www.cdc.gov/report", "https://example.com/blog"},
	}}
	v := newTestVerifier(r, nil)

	outcome, err := v.VerifyClaims(context.Background(), []string{"some checkable claim"}, nil)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}
	sources := outcome.Claims[0].Verdict.Sources
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	// cdc.gov scores 9, example.com default 6; cdc must sort first
	if sources[0].Domain != "www.cdc.gov" {
		t.Errorf("expected cdc.gov first, got %s", sources[0].Domain)
	}
	if sources[0].CredibilityScore != 0.9 {
		t.Errorf("expected normalized 0.9 for cdc.gov, got %v", sources[0].CredibilityScore)
	}
	if sources[1].CredibilityScore != 0.6 {
		t.Errorf("expected normalized 0.6 default, got %v", sources[1].CredibilityScore)
	}
}

func TestVerifyClaims_SourcesFromProse(t *testing.T) {
	r := &fakeResearcher{fixed: &ResearchResult{
		Text: "Verified by health authorities (see https://www.cdc.gov/report and https://example.com/blog).",
	}}
	v := newTestVerifier(r, nil)

	outcome, err := v.VerifyClaims(context.Background(), []string{"some checkable claim"}, nil)
	if err != nil {
		t.Fatalf("VerifyClaims: %v", err)
	}
	sources := outcome.Claims[0].Verdict.Sources
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources extracted from prose, got %d", len(sources))
	}
	if sources[0].Domain != "www.cdc.gov" {
		t.Errorf("expected cdc.gov first, got %s", sources[0].Domain)
	}
}

func TestVerifyContent_OverallMode(t *testing.T) {
	r := &fakeResearcher{fixed: &ResearchResult{Text: "The post is misleading.\n\nDetails follow."}}
	v := newTestVerifier(r, nil)

	outcome, err := v.VerifyContent(context.Background(), "whole post text", "post title", &Context{Platform: "tiktok"})
	if err != nil {
		t.Fatalf("VerifyContent: %v", err)
	}
	if outcome.Mode != model.ModeOverall {
		t.Errorf("expected overall mode, got %s", outcome.Mode)
	}
	if outcome.Overall == nil {
		t.Fatal("expected overall verdict")
	}
	if outcome.Overall.Status != model.StatusMisleading {
		t.Errorf("expected misleading, got %s", outcome.Overall.Status)
	}
	if outcome.Overall.Explanation != "The post is misleading." {
		t.Errorf("expected first paragraph explanation, got %q", outcome.Overall.Explanation)
	}
	if len(outcome.Claims) != 0 || outcome.Summary != nil {
		t.Error("overall outcome must not carry per-claim fields")
	}
}

func TestVerifyContent_WrapsFailure(t *testing.T) {
	r := &fakeResearcher{failOn: 1}
	v := newTestVerifier(r, nil)

	_, err := v.VerifyContent(context.Background(), "some text", "", nil)
	var vfErr *model.VerificationFailedError
	if !errors.As(err, &vfErr) {
		t.Fatalf("expected VerificationFailedError, got %v", err)
	}
}

func TestVerifyContent_EmptyContent(t *testing.T) {
	v := newTestVerifier(&fakeResearcher{}, nil)
	if _, err := v.VerifyContent(context.Background(), "   ", "", nil); err == nil {
		t.Error("expected error for empty content")
	}
}

func TestVerifyClaims_ContextCanceled(t *testing.T) {
	r := &fakeResearcher{fixed: &ResearchResult{Text: "verified"}}
	v := newTestVerifier(r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := v.VerifyClaims(ctx, []string{"claim"}, nil); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if r.calls != 0 {
		t.Errorf("expected no research calls after cancellation, got %d", r.calls)
	}
}

func TestRepresentative_FalseWins(t *testing.T) {
	outcome := &model.VerificationOutcome{
		Mode: model.ModePerClaim,
		Claims: []model.ClaimVerification{
			{Claim: "a", Verdict: model.VerificationVerdict{Status: model.StatusVerified, Confidence: 0.9}},
			{Claim: "b", Verdict: model.VerificationVerdict{Status: model.StatusFalse, Confidence: 0.6}},
			{Claim: "c", Verdict: model.VerificationVerdict{Status: model.StatusFalse, Confidence: 0.8}},
		},
	}
	rep := outcome.Representative()
	if rep == nil || rep.Status != model.StatusFalse || rep.Confidence != 0.8 {
		t.Errorf("expected false@0.8 representative, got %+v", rep)
	}
}

func TestFirstParagraph(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"single line", "single line"},
		{"lead paragraph.\n\nrest of text", "lead paragraph."},
		{"  padded  ", "padded"},
	}
	for _, tc := range cases {
		if got := firstParagraph(tc.in); got != tc.want {
			t.Errorf("firstParagraph(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
