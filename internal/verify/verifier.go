package verify

import (
	"context"
	"fmt"
	"strings"

	"github.com/veritok/veritok/internal/model"
)

// Verifier fact-checks claims through the external reasoning service.
// Mode A verifies a list of claims individually (capped per request);
// mode B produces one overall verdict for a whole piece of content.
type Verifier struct {
	researcher Researcher
	classifier Classifier // nil: keyword fallback
	scorer     *SourceScorer
	validator  *SourceValidator // nil unless source validation enabled
	maxClaims  int
	maxSources int
}

// NewVerifier wires a verifier. researcher may be nil, in which case
// every Verify call fails fast with a ConfigurationError.
func NewVerifier(cfg *model.VerifierConfig, researcher Researcher, classifier Classifier, scorer *SourceScorer, validator *SourceValidator) *Verifier {
	maxClaims := cfg.MaxClaimsPerRequest
	if maxClaims <= 0 {
		maxClaims = 3
	}
	maxSources := cfg.MaxReportedSources
	if maxSources <= 0 {
		maxSources = 5
	}
	return &Verifier{
		researcher: researcher,
		classifier: classifier,
		scorer:     scorer,
		validator:  validator,
		maxClaims:  maxClaims,
		maxSources: maxSources,
	}
}

// VerifyClaims is mode A: per-claim verdicts plus a summary recomputed
// from the result list. At most maxClaims claims are processed per
// call; a failed claim yields a status=error entry and does not abort
// the rest.
func (v *Verifier) VerifyClaims(ctx context.Context, claims []string, vctx *Context) (*model.VerificationOutcome, error) {
	if v.researcher == nil {
		return nil, &model.ConfigurationError{Missing: "verification service credential"}
	}
	if len(claims) == 0 {
		return nil, fmt.Errorf("no claims to verify")
	}

	if len(claims) > v.maxClaims {
		claims = claims[:v.maxClaims]
	}

	results := make([]model.ClaimVerification, 0, len(claims))
	for _, claim := range claims {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		verdict, err := v.verifyOne(ctx, claim, vctx)
		if err != nil {
			results = append(results, model.ClaimVerification{
				Claim: claim,
				Verdict: model.VerificationVerdict{
					Status:                  model.StatusError,
					Confidence:              0,
					Explanation:             err.Error(),
					NeedsManualVerification: true,
				},
			})
			continue
		}
		results = append(results, model.ClaimVerification{Claim: claim, Verdict: verdict})
	}

	return &model.VerificationOutcome{
		Mode:    model.ModePerClaim,
		Claims:  results,
		Summary: model.SummarizeClaims(results),
	}, nil
}

// VerifyContent is mode B: one overall verdict for the combined
// content instead of per-claim results.
func (v *Verifier) VerifyContent(ctx context.Context, content, title string, vctx *Context) (*model.VerificationOutcome, error) {
	if v.researcher == nil {
		return nil, &model.ConfigurationError{Missing: "verification service credential"}
	}
	text := strings.TrimSpace(content)
	if text == "" {
		return nil, fmt.Errorf("no content to verify")
	}
	if title != "" && vctx != nil && vctx.Title == "" {
		vctx.Title = title
	}

	verdict, err := v.verifyOne(ctx, text, vctx)
	if err != nil {
		return nil, &model.VerificationFailedError{Err: err}
	}

	return &model.VerificationOutcome{
		Mode:    model.ModeOverall,
		Overall: &verdict,
	}, nil
}

// verifyOne runs the shared per-unit procedure: research, citation
// extraction, source scoring, classification.
func (v *Verifier) verifyOne(ctx context.Context, text string, vctx *Context) (model.VerificationVerdict, error) {
	research, err := v.researcher.ResearchClaim(ctx, BuildResearchPrompt(text, vctx))
	if err != nil {
		return model.VerificationVerdict{}, fmt.Errorf("research: %w", err)
	}

	cited := research.CitedURLs
	if len(cited) == 0 {
		cited = extractURLs(research.Text)
	}
	sources := buildSources(ctx, cited, v.scorer, v.maxSources)
	if v.validator != nil {
		v.validator.Check(ctx, sources)
	}

	status, confidence := v.classify(ctx, research.Text)

	return model.VerificationVerdict{
		Status:      status,
		Confidence:  clampUnit(confidence),
		Explanation: firstParagraph(research.Text),
		Sources:     sources,
		RawAnalysis: research.Text,
	}, nil
}

// classify prefers the reasoning classifier and falls back to the
// deterministic keyword scan when it is absent or fails.
func (v *Verifier) classify(ctx context.Context, responseText string) (model.VerdictStatus, float64) {
	if v.classifier != nil {
		status, confidence, err := v.classifier.Classify(ctx, responseText)
		if err == nil {
			return normalizeStatus(status), confidence
		}
	}
	return classifyByKeywords(responseText)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func firstParagraph(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "\n\n"); idx > 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}
