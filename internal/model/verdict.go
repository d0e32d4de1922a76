package model

// VerdictStatus is the outcome of verifying a claim or a whole post
type VerdictStatus string

const (
	StatusVerified             VerdictStatus = "verified"
	StatusTrue                 VerdictStatus = "true"
	StatusFalse                VerdictStatus = "false"
	StatusMisleading           VerdictStatus = "misleading"
	StatusUnverifiable         VerdictStatus = "unverifiable"
	StatusRequiresVerification VerdictStatus = "requires_verification"
	StatusError                VerdictStatus = "error"
)

// IsAffirmative reports whether the status confirms the claim.
// "verified" and "true" are historical synonyms and treated alike.
func (s VerdictStatus) IsAffirmative() bool {
	return s == StatusVerified || s == StatusTrue
}

// IsNegative reports whether the status refutes or discredits the claim
func (s VerdictStatus) IsNegative() bool {
	return s == StatusFalse || s == StatusMisleading
}

// EvidenceSource is one cited reference backing a verdict.
// Unique by URL within a verdict's source list.
type EvidenceSource struct {
	Title            string `json:"title,omitempty"`
	URL              string `json:"url"`
	Domain           string `json:"domain"`
	CredibilityScore float64 `json:"credibility_score"` // normalized to [0,1] from the 1-10 scale
	Relevance        string `json:"relevance,omitempty"`
	Accessible       *bool  `json:"accessible,omitempty"` // set only when source validation ran
}

// VerificationVerdict is the verdict for one unit of verified text
type VerificationVerdict struct {
	Status                  VerdictStatus    `json:"status"`
	Confidence              float64          `json:"confidence"` // [0,1]
	Explanation             string           `json:"explanation,omitempty"`
	Sources                 []EvidenceSource `json:"sources,omitempty"` // sorted by credibility desc
	RawAnalysis             string           `json:"raw_analysis,omitempty"`
	NeedsManualVerification bool             `json:"needs_manual_verification,omitempty"`
}

// ClaimVerification binds a verdict to the claim text it judged
type ClaimVerification struct {
	Claim   string              `json:"claim"`
	Verdict VerificationVerdict `json:"verdict"`
}

// VerificationSummary counts per-claim results by status. Always
// recomputed from the result list, never maintained separately.
type VerificationSummary struct {
	Total             int `json:"total"`
	VerifiedTrue      int `json:"verified_true"`
	VerifiedFalse     int `json:"verified_false"`
	Misleading        int `json:"misleading"`
	Unverifiable      int `json:"unverifiable"`
	NeedsVerification int `json:"needs_verification"`
	Errors            int `json:"errors"`
}

// VerificationMode tags which shape of outcome the verifier produced
type VerificationMode string

const (
	ModePerClaim VerificationMode = "per_claim"
	ModeOverall  VerificationMode = "overall"
)

// VerificationOutcome is a tagged union over the two verifier modes.
// Exactly one of Claims/Overall is populated, selected by Mode;
// consumers switch on Mode instead of probing optional fields.
type VerificationOutcome struct {
	Mode    VerificationMode     `json:"mode"`
	Claims  []ClaimVerification  `json:"claims,omitempty"`  // Mode == per_claim
	Summary *VerificationSummary `json:"summary,omitempty"` // Mode == per_claim
	Overall *VerificationVerdict `json:"overall,omitempty"` // Mode == overall
}

// SummarizeClaims recomputes a summary from a per-claim result list
func SummarizeClaims(results []ClaimVerification) *VerificationSummary {
	s := &VerificationSummary{Total: len(results)}
	for _, r := range results {
		switch r.Verdict.Status {
		case StatusVerified, StatusTrue:
			s.VerifiedTrue++
		case StatusFalse:
			s.VerifiedFalse++
		case StatusMisleading:
			s.Misleading++
		case StatusUnverifiable:
			s.Unverifiable++
		case StatusRequiresVerification:
			s.NeedsVerification++
		case StatusError:
			s.Errors++
		}
	}
	return s
}

// Representative collapses the outcome to the single verdict the
// credibility aggregator scores against. For overall mode that is the
// overall verdict; for per-claim mode the most damaging status wins
// (false > misleading > affirmative > unverifiable > the rest), with
// the highest confidence among claims carrying that status.
func (o *VerificationOutcome) Representative() *VerificationVerdict {
	if o == nil {
		return nil
	}
	if o.Mode == ModeOverall {
		return o.Overall
	}
	if len(o.Claims) == 0 {
		return nil
	}

	pick := func(match func(VerdictStatus) bool) *VerificationVerdict {
		var best *VerificationVerdict
		for i := range o.Claims {
			v := &o.Claims[i].Verdict
			if !match(v.Status) {
				continue
			}
			if best == nil || v.Confidence > best.Confidence {
				best = v
			}
		}
		return best
	}

	if v := pick(func(s VerdictStatus) bool { return s == StatusFalse }); v != nil {
		return v
	}
	if v := pick(func(s VerdictStatus) bool { return s == StatusMisleading }); v != nil {
		return v
	}
	if v := pick(VerdictStatus.IsAffirmative); v != nil {
		return v
	}
	if v := pick(func(s VerdictStatus) bool { return s == StatusUnverifiable }); v != nil {
		return v
	}
	return &o.Claims[0].Verdict
}
