package transcribe

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"github.com/veritok/veritok/internal/model"
	"github.com/veritok/veritok/internal/util"
	"github.com/veritok/veritok/internal/worker"
)

// SpeechToText is the narrow contract to the external transcription
// service. The caller supplies raw media bytes it already fetched.
type SpeechToText interface {
	Transcribe(ctx context.Context, media io.Reader, filename string) (*model.Transcript, error)
}

// Transcriber downloads media bytes and produces a transcript.
// All failures are non-fatal to the analysis: callers treat an error
// as "transcript absent" and continue.
type Transcriber struct {
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	stt        SpeechToText
	robots     *util.RobotsChecker // nil unless polite fetching enabled
	limiter    *worker.Limiter
}

// NewTranscriber creates a transcriber. stt may be nil when no
// speech-to-text credential is configured; Transcribe then fails with
// a ConfigurationError, which the orchestrator treats as degradation.
func NewTranscriber(cfg *model.TranscriberConfig, httpCfg *model.HTTPConfig, stt SpeechToText, limiter *worker.Limiter) *Transcriber {
	timeout := httpCfg.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	maxBytes := cfg.MaxMediaBytes
	if maxBytes <= 0 {
		maxBytes = 25_000_000
	}

	var robots *util.RobotsChecker
	if cfg.RespectRobots {
		robots = util.NewRobotsChecker(httpCfg.UserAgent, 10*time.Second)
	}

	return &Transcriber{
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
		},
		userAgent: httpCfg.UserAgent,
		maxBytes:  maxBytes,
		stt:       stt,
		robots:    robots,
		limiter:   limiter,
	}
}

// Transcribe fetches media bytes from mediaURL and runs speech-to-text.
// Precondition (enforced by the orchestrator): mediaURL is non-empty
// and the content is video-like.
func (t *Transcriber) Transcribe(ctx context.Context, mediaURL string) (*model.Transcript, error) {
	if mediaURL == "" {
		return nil, &model.TranscriptionFailedError{Err: fmt.Errorf("empty media URL")}
	}
	if t.stt == nil {
		return nil, &model.ConfigurationError{Missing: "speech-to-text credential"}
	}

	media, err := t.fetchMedia(ctx, mediaURL)
	if err != nil {
		return nil, &model.TranscriptionFailedError{Err: err}
	}

	transcript, err := t.stt.Transcribe(ctx, bytes.NewReader(media), "media.mp4")
	if err != nil {
		return nil, &model.TranscriptionFailedError{Err: err}
	}

	normalizeSegments(transcript)
	return transcript, nil
}

// fetchMedia downloads the media bytes with a size bound
func (t *Transcriber) fetchMedia(ctx context.Context, mediaURL string) ([]byte, error) {
	if t.robots != nil && !t.robots.Allowed(ctx, mediaURL) {
		return nil, fmt.Errorf("disallowed by robots.txt: %s", mediaURL)
	}
	if t.limiter != nil {
		if err := t.limiter.Wait(ctx, mediaURL); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", t.userAgent)

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, t.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read media: %w", err)
	}
	if len(body) == 0 {
		return nil, fmt.Errorf("empty media body")
	}

	return body, nil
}

// normalizeSegments enforces the transcript invariants: segments are
// time-ordered and each start <= end.
func normalizeSegments(t *model.Transcript) {
	if len(t.Segments) == 0 {
		return
	}
	sort.SliceStable(t.Segments, func(i, j int) bool {
		return t.Segments[i].StartSecond < t.Segments[j].StartSecond
	})
	for i := range t.Segments {
		if t.Segments[i].EndSecond < t.Segments[i].StartSecond {
			t.Segments[i].EndSecond = t.Segments[i].StartSecond
		}
	}
}
