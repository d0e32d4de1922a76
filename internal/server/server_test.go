package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/veritok/veritok/internal/detect"
	"github.com/veritok/veritok/internal/model"
	"github.com/veritok/veritok/internal/pipeline"
	"github.com/veritok/veritok/internal/score"
	"github.com/veritok/veritok/internal/store"
	"github.com/veritok/veritok/internal/verify"
)

type stubResolver struct {
	content *model.ResolvedContent
	err     error
}

func (s *stubResolver) Resolve(ctx context.Context, url string) (*model.ResolvedContent, error) {
	return s.content, s.err
}

type stubTranscriber struct{}

func (s *stubTranscriber) Transcribe(ctx context.Context, mediaURL string) (*model.Transcript, error) {
	return &model.Transcript{Text: "Breaking news: officials confirmed 200 cases today."}, nil
}

type stubVerifier struct {
	outcome *model.VerificationOutcome
	err     error
}

func (s *stubVerifier) VerifyContent(ctx context.Context, content, title string, vctx *verify.Context) (*model.VerificationOutcome, error) {
	return s.outcome, s.err
}

func (s *stubVerifier) VerifyClaims(ctx context.Context, claims []string, vctx *verify.Context) (*model.VerificationOutcome, error) {
	return s.outcome, s.err
}

func resolvedVideo() *model.ResolvedContent {
	return &model.ResolvedContent{
		Metadata: model.ContentMetadata{
			Title:       "a post",
			CreatorID:   "creator1",
			Platform:    model.PlatformTikTok,
			ContentType: model.ContentTypeVideo,
			OriginalURL: "https://www.tiktok.com/@creator1/video/1",
		},
		MediaURL: "https://cdn.example/v.mp4",
	}
}

func perClaimOutcome() *model.VerificationOutcome {
	claims := []model.ClaimVerification{
		{Claim: "a", Verdict: model.VerificationVerdict{Status: model.StatusVerified, Confidence: 0.8}},
	}
	return &model.VerificationOutcome{
		Mode:    model.ModePerClaim,
		Claims:  claims,
		Summary: model.SummarizeClaims(claims),
	}
}

func newTestServer(t *testing.T, r pipeline.MediaResolver, v pipeline.ContentVerifier, withStore bool) *Server {
	t.Helper()
	cfg := model.DefaultConfig()
	detector, err := detect.NewDetector(&cfg.Detector)
	if err != nil {
		t.Fatal(err)
	}
	p := pipeline.NewPipelineFromStages(r, &stubTranscriber{}, detector, v, score.NewAggregator(&cfg.Credibility), nil)

	var st *store.Store
	if withStore {
		storeCfg := model.StoreConfig{Path: filepath.Join(t.TempDir(), "test.db")}
		st, err = store.Open(&storeCfg)
		if err != nil {
			t.Fatal(err)
		}
	}
	return New(p, st)
}

func doJSON(t *testing.T, s *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t, &stubResolver{content: resolvedVideo()}, &stubVerifier{}, false)

	w := doJSON(t, s, http.MethodGet, "/healthz", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status = %d", w.Code)
	}
}

func TestAnalyze_OK(t *testing.T) {
	verifier := &stubVerifier{outcome: &model.VerificationOutcome{
		Mode:    model.ModeOverall,
		Overall: &model.VerificationVerdict{Status: model.StatusVerified, Confidence: 0.8},
	}}
	s := newTestServer(t, &stubResolver{content: resolvedVideo()}, verifier, true)

	w := doJSON(t, s, http.MethodPost, "/api/analyze", map[string]string{
		"url": "https://www.tiktok.com/@creator1/video/1",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Report    model.AnalysisReport `json:"report"`
		Persisted bool                 `json:"persisted"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Persisted {
		t.Error("expected persisted=true")
	}
	if resp.Report.ID == "" {
		t.Error("report missing ID")
	}
	if resp.Report.Credibility == nil {
		t.Error("report missing credibility")
	}
}

func TestAnalyze_MissingURL(t *testing.T) {
	s := newTestServer(t, &stubResolver{content: resolvedVideo()}, &stubVerifier{}, false)

	w := doJSON(t, s, http.MethodPost, "/api/analyze", map[string]string{})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyze_InvalidInput(t *testing.T) {
	resolver := &stubResolver{err: &model.InvalidInputError{URL: "ftp://x", Reason: "unsupported scheme ftp"}}
	s := newTestServer(t, resolver, &stubVerifier{}, false)

	w := doJSON(t, s, http.MethodPost, "/api/analyze", map[string]string{"url": "ftp://x"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestAnalyze_ExtractionFailure(t *testing.T) {
	resolver := &stubResolver{err: &model.ExtractionFailedError{URL: "u", Err: context.DeadlineExceeded}}
	s := newTestServer(t, resolver, &stubVerifier{}, false)

	w := doJSON(t, s, http.MethodPost, "/api/analyze", map[string]string{"url": "https://www.tiktok.com/@u/video/1"})
	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", w.Code)
	}
}

func TestVerifyClaims_OK(t *testing.T) {
	s := newTestServer(t, &stubResolver{content: resolvedVideo()}, &stubVerifier{outcome: perClaimOutcome()}, false)

	w := doJSON(t, s, http.MethodPost, "/api/verify-claims", map[string]any{
		"claims": []string{"the earth is round"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	var outcome model.VerificationOutcome
	if err := json.Unmarshal(w.Body.Bytes(), &outcome); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if outcome.Mode != model.ModePerClaim || len(outcome.Claims) != 1 {
		t.Errorf("unexpected outcome: %+v", outcome)
	}
}

func TestVerifyClaims_ServiceUnavailable(t *testing.T) {
	verifier := &stubVerifier{err: &model.ConfigurationError{Missing: "verification service credential"}}
	s := newTestServer(t, &stubResolver{content: resolvedVideo()}, verifier, false)

	w := doJSON(t, s, http.MethodPost, "/api/verify-claims", map[string]any{
		"claims": []string{"a claim"},
	})
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", w.Code)
	}
}

func TestAnalysisLookup(t *testing.T) {
	verifier := &stubVerifier{outcome: &model.VerificationOutcome{
		Mode:    model.ModeOverall,
		Overall: &model.VerificationVerdict{Status: model.StatusVerified, Confidence: 0.8},
	}}
	s := newTestServer(t, &stubResolver{content: resolvedVideo()}, verifier, true)

	w := doJSON(t, s, http.MethodPost, "/api/analyze", map[string]string{
		"url": "https://www.tiktok.com/@creator1/video/1",
	})
	var resp struct {
		Report model.AnalysisReport `json:"report"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	got := doJSON(t, s, http.MethodGet, "/api/analyses/"+resp.Report.ID, nil)
	if got.Code != http.StatusOK {
		t.Errorf("lookup status = %d", got.Code)
	}

	missing := doJSON(t, s, http.MethodGet, "/api/analyses/does-not-exist", nil)
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing lookup status = %d, want 404", missing.Code)
	}
}

func TestCreatorCredibility(t *testing.T) {
	verifier := &stubVerifier{outcome: &model.VerificationOutcome{
		Mode:    model.ModeOverall,
		Overall: &model.VerificationVerdict{Status: model.StatusVerified, Confidence: 0.8},
	}}
	s := newTestServer(t, &stubResolver{content: resolvedVideo()}, verifier, true)

	doJSON(t, s, http.MethodPost, "/api/analyze", map[string]string{
		"url": "https://www.tiktok.com/@creator1/video/1",
	})

	w := doJSON(t, s, http.MethodGet, "/api/creators/creator1/credibility", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d body=%s", w.Code, w.Body.String())
	}

	var creator store.CreatorRecord
	if err := json.Unmarshal(w.Body.Bytes(), &creator); err != nil {
		t.Fatal(err)
	}
	if creator.TotalAnalyses != 1 {
		t.Errorf("TotalAnalyses = %d", creator.TotalAnalyses)
	}

	missing := doJSON(t, s, http.MethodGet, "/api/creators/ghost/credibility", nil)
	if missing.Code != http.StatusNotFound {
		t.Errorf("missing creator status = %d, want 404", missing.Code)
	}
}

func TestPersistenceDisabledEndpoints(t *testing.T) {
	s := newTestServer(t, &stubResolver{content: resolvedVideo()}, &stubVerifier{}, false)

	for _, path := range []string{"/api/analyses", "/api/analyses/x", "/api/creators/x/credibility"} {
		w := doJSON(t, s, http.MethodGet, path, nil)
		if w.Code != http.StatusNotImplemented {
			t.Errorf("%s status = %d, want 501", path, w.Code)
		}
	}
}
