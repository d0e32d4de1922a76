package resolve

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/veritok/veritok/internal/model"
	"github.com/veritok/veritok/internal/util"
	"github.com/veritok/veritok/internal/worker"
)

// HTTPExtractor talks to a tikwm-style content-extraction API
type HTTPExtractor struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	userAgent  string
	maxBytes   int64
	limiter    *worker.Limiter
}

// NewHTTPExtractor creates an extraction client
func NewHTTPExtractor(cfg *model.ExtractorConfig, httpCfg *model.HTTPConfig, limiter *worker.Limiter) *HTTPExtractor {
	timeout := httpCfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	maxBytes := httpCfg.MaxBodyBytes
	if maxBytes <= 0 {
		maxBytes = 2_000_000
	}
	return &HTTPExtractor{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(httpCfg.HTTPProxy, httpCfg.HTTPSProxy, httpCfg.NoProxy),
			},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 3 {
					return fmt.Errorf("stopped after 3 redirects")
				}
				return nil
			},
		},
		userAgent: httpCfg.UserAgent,
		maxBytes:  maxBytes,
		limiter:   limiter,
	}
}

// extractionResponse mirrors the tikwm JSON envelope
type extractionResponse struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data struct {
		Title     string   `json:"title"`
		Play      string   `json:"play"`
		HDPlay    string   `json:"hdplay"`
		WMPlay    string   `json:"wmplay"`
		Images    []string `json:"images"`
		Duration  float64  `json:"duration"`
		Author    struct {
			UniqueID string `json:"unique_id"`
			Nickname string `json:"nickname"`
		} `json:"author"`
	} `json:"data"`
}

// Extract calls the extraction API once for the given post URL
func (e *HTTPExtractor) Extract(ctx context.Context, postURL string) (*ExtractResult, error) {
	endpoint := fmt.Sprintf("%s/api/?url=%s&hd=1", e.baseURL, url.QueryEscape(postURL))

	if e.limiter != nil {
		if err := e.limiter.Wait(ctx, endpoint); err != nil {
			return nil, fmt.Errorf("rate limit: %w", err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", e.userAgent)
	req.Header.Set("Accept", "application/json")
	if e.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+e.apiKey)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, e.maxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var parsed extractionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	if parsed.Code != 0 {
		return nil, fmt.Errorf("extraction service error: %s (code %d)", parsed.Msg, parsed.Code)
	}

	result := &ExtractResult{
		Title:       parsed.Data.Title,
		Description: parsed.Data.Title,
		CreatorID:   parsed.Data.Author.UniqueID,
		CreatorName: parsed.Data.Author.Nickname,
		ContentType: model.ContentTypeVideo,
	}

	if parsed.Data.HDPlay != "" {
		result.Variants = append(result.Variants, model.MediaVariant{
			URL: parsed.Data.HDPlay, Quality: "hd", Watermarked: false,
		})
	}
	if parsed.Data.Play != "" {
		result.Variants = append(result.Variants, model.MediaVariant{
			URL: parsed.Data.Play, Quality: "standard", Watermarked: false,
		})
	}
	if parsed.Data.WMPlay != "" {
		result.Variants = append(result.Variants, model.MediaVariant{
			URL: parsed.Data.WMPlay, Quality: "standard", Watermarked: true,
		})
	}
	if len(result.Variants) == 0 && len(parsed.Data.Images) > 0 {
		result.ContentType = model.ContentTypeImageCollection
	}

	return result, nil
}
