package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/veritok/veritok/internal/cache"
	"github.com/veritok/veritok/internal/detect"
	"github.com/veritok/veritok/internal/model"
	"github.com/veritok/veritok/internal/resolve"
	"github.com/veritok/veritok/internal/score"
	"github.com/veritok/veritok/internal/transcribe"
	"github.com/veritok/veritok/internal/verify"
	"github.com/veritok/veritok/internal/worker"
)

// Stage contracts. The orchestrator depends on these rather than on
// the concrete implementations so tests can substitute fakes.

type MediaResolver interface {
	Resolve(ctx context.Context, url string) (*model.ResolvedContent, error)
}

type Transcriber interface {
	Transcribe(ctx context.Context, mediaURL string) (*model.Transcript, error)
}

type ClaimDetector interface {
	Detect(text, title string) model.ClaimDetectionResult
}

type ContentVerifier interface {
	VerifyContent(ctx context.Context, content, title string, vctx *verify.Context) (*model.VerificationOutcome, error)
	VerifyClaims(ctx context.Context, claims []string, vctx *verify.Context) (*model.VerificationOutcome, error)
}

// Pipeline sequences the analysis stages:
//
//	RESOLVE -> (video? TRANSCRIBE) -> DETECT -> (news? VERIFY) -> (verdict? AGGREGATE)
//
// Strictly forward; only resolution failure is fatal. Every other
// stage degrades by leaving its report field absent and recording the
// reason.
type Pipeline struct {
	resolver    MediaResolver
	transcriber Transcriber
	detector    ClaimDetector
	verifier    ContentVerifier
	aggregator  *score.Aggregator
	reports     cache.Cache // nil: caching disabled
	verbose     bool
}

// NewPipeline wires the production stages from configuration
func NewPipeline(cfg *model.Config) (*Pipeline, error) {
	limiter := worker.NewLimiter(cfg.Concurrency.RatePerSecond, cfg.Concurrency.RateBurst)

	detector, err := detect.NewDetector(&cfg.Detector)
	if err != nil {
		return nil, fmt.Errorf("build detector: %w", err)
	}

	reasoner := verify.NewOpenAIReasoner(&cfg.Verifier)
	scorer := buildScorer(cfg, reasoner)

	var validator *verify.SourceValidator
	if cfg.Verifier.ValidateSources {
		validator = verify.NewSourceValidator(10*time.Second, cfg.Concurrency.SourceCheckWorkers, cfg.HTTP.UserAgent)
	}

	var researcher verify.Researcher
	var classifier verify.Classifier
	if reasoner != nil {
		researcher = reasoner
		classifier = reasoner
	}

	var reports cache.Cache
	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			reports = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			reports = cache.NewMemoryCache(cfg.Cache.MemoryTTL, 10*time.Minute)
		}
	}

	var stt transcribe.SpeechToText
	if w := transcribe.NewWhisperSTT(&cfg.Transcriber); w != nil {
		stt = w
	}

	return &Pipeline{
		resolver:    resolve.NewResolver(resolve.NewHTTPExtractor(&cfg.Extractor, &cfg.HTTP, limiter), &cfg.Extractor),
		transcriber: transcribe.NewTranscriber(&cfg.Transcriber, &cfg.HTTP, stt, limiter),
		detector:    detector,
		verifier:    verify.NewVerifier(&cfg.Verifier, researcher, classifier, scorer, validator),
		aggregator:  score.NewAggregator(&cfg.Credibility),
		reports:     reports,
		verbose:     cfg.Output.Verbose,
	}, nil
}

// NewPipelineFromStages wires explicit stages; used by tests and by
// callers embedding the pipeline with custom services.
func NewPipelineFromStages(r MediaResolver, t Transcriber, d ClaimDetector, v ContentVerifier, a *score.Aggregator, reports cache.Cache) *Pipeline {
	return &Pipeline{
		resolver:    r,
		transcriber: t,
		detector:    d,
		verifier:    v,
		aggregator:  a,
		reports:     reports,
	}
}

// Verifier exposes the verification stage for callers that need
// per-claim (mode A) verification outside a full analysis.
func (p *Pipeline) Verifier() ContentVerifier { return p.verifier }

// Analyze runs the full pipeline for one post URL. Only
// InvalidInputError and ExtractionFailedError (and context
// cancellation) surface as errors; everything else degrades into a
// partial report.
func (p *Pipeline) Analyze(ctx context.Context, url string) (*model.AnalysisReport, error) {
	if p.reports != nil {
		if data, found := p.reports.Get(cache.Key(url)); found {
			var cached model.AnalysisReport
			if err := json.Unmarshal(data, &cached); err == nil {
				p.logf("cache hit for %s", url)
				return &cached, nil
			}
		}
	}

	// RESOLVE_MEDIA: the only fatal stage
	resolved, err := p.resolver.Resolve(ctx, url)
	if err != nil {
		return nil, err
	}
	p.logf("resolved %s content by @%s", resolved.Metadata.ContentType, resolved.Metadata.CreatorID)

	report := &model.AnalysisReport{
		ID:         uuid.NewString(),
		Metadata:   resolved.Metadata,
		MediaURL:   resolved.MediaURL,
		HasVideo:   resolved.HasVideo(),
		AnalyzedAt: time.Now().UTC(),
	}

	// TRANSCRIBE: video only, non-fatal
	if resolved.HasVideo() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		transcript, err := p.transcriber.Transcribe(ctx, resolved.MediaURL)
		if err != nil {
			p.degrade(report, "transcribe", err)
		} else if transcript != nil {
			report.Transcript = transcript
			p.logf("transcribed %d chars (%s)", len(transcript.Text), transcript.LanguageCode)
		}
	}

	// DETECT_CLAIMS: pure, never fails. Falls back to the caption
	// text when no transcript is available.
	text := detect.VisibleText(resolved.Metadata.Description)
	if report.Transcript != nil && report.Transcript.Text != "" {
		text = report.Transcript.Text
	}
	detection := p.detector.Detect(text, resolved.Metadata.Title)
	report.ClaimDetection = &detection
	report.RequiresFactCheck = detection.NeedsFactCheck
	p.logf("claim detection: news=%v claims=%d", detection.HasNewsContent, len(detection.CandidateClaims))

	// VERIFY: only when detection asked for it, non-fatal
	if detection.NeedsFactCheck {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report.Verification = p.runVerification(ctx, report, text, resolved)
	}

	// AGGREGATE_CREDIBILITY: only when a verdict exists
	if verdict := report.Verification.Representative(); verdict != nil {
		rating := p.aggregator.Aggregate(verdict, resolved.Metadata, &score.ContentMetrics{
			HasTranscript: report.Transcript != nil,
			ContentLength: len(text),
			NewsContent:   detection.HasNewsContent,
			FactChecked:   verdict.Status != model.StatusError && !verdict.NeedsManualVerification,
		})
		report.Credibility = &rating
		p.logf("credibility rating: %.1f", rating.Value)
	}

	if p.reports != nil {
		if data, err := json.Marshal(report); err == nil {
			_ = p.reports.Set(cache.Key(url), data, 0)
		}
	}

	return report, nil
}

// runVerification wraps the verify stage's failure policy: a missing
// verification service yields a well-formed low-confidence fallback
// verdict, any other failure leaves the field absent.
func (p *Pipeline) runVerification(ctx context.Context, report *model.AnalysisReport, text string, resolved *model.ResolvedContent) *model.VerificationOutcome {
	outcome, err := p.verifier.VerifyContent(ctx, text, resolved.Metadata.Title, &verify.Context{
		Platform:    string(resolved.Metadata.Platform),
		CreatorName: resolved.Metadata.CreatorDisplayName,
	})
	if err == nil {
		return outcome
	}

	p.degrade(report, "verify", err)

	var cfgErr *model.ConfigurationError
	if errors.As(err, &cfgErr) {
		return &model.VerificationOutcome{
			Mode: model.ModeOverall,
			Overall: &model.VerificationVerdict{
				Status:                  model.StatusUnverifiable,
				Confidence:              0,
				Explanation:             "service_unavailable: " + cfgErr.Error(),
				NeedsManualVerification: true,
			},
		}
	}
	return nil
}

func (p *Pipeline) degrade(report *model.AnalysisReport, stage string, err error) {
	report.Degraded = append(report.Degraded, stage+": "+err.Error())
	p.logf("%s degraded: %v", stage, err)
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.verbose {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

func buildScorer(cfg *model.Config, reasoner *verify.OpenAIReasoner) *verify.SourceScorer {
	var rater verify.DomainRater
	if reasoner != nil {
		rater = reasoner
	}
	return verify.NewSourceScorer(&cfg.Credibility, rater)
}
