package resolve

import (
	"context"
	"net/url"
	"strings"

	"github.com/veritok/veritok/internal/model"
)

// ExtractResult is what the external content-extraction service returns
// for a post URL.
type ExtractResult struct {
	Title       string
	Description string
	CreatorID   string
	CreatorName string
	ContentType model.ContentType
	Variants    []model.MediaVariant
}

// Extractor is the narrow contract to the external extraction service
type Extractor interface {
	Extract(ctx context.Context, url string) (*ExtractResult, error)
}

// Resolver validates platform URLs and resolves them to metadata plus
// the best available direct media URL.
type Resolver struct {
	extractor    Extractor
	allowedHosts []string
}

// NewResolver creates a resolver with the given extraction service and
// host allowlist.
func NewResolver(extractor Extractor, cfg *model.ExtractorConfig) *Resolver {
	hosts := cfg.AllowedHosts
	if len(hosts) == 0 {
		hosts = model.DefaultConfig().Extractor.AllowedHosts
	}
	return &Resolver{
		extractor:    extractor,
		allowedHosts: hosts,
	}
}

// Resolve validates the URL, calls the extraction service once and
// applies the media quality-selection policy. Returns
// *model.InvalidInputError before any network call for disallowed
// URLs, *model.ExtractionFailedError when the service fails.
func (r *Resolver) Resolve(ctx context.Context, rawURL string) (*model.ResolvedContent, error) {
	platform, err := r.validate(rawURL)
	if err != nil {
		return nil, err
	}

	extracted, err := r.extractor.Extract(ctx, rawURL)
	if err != nil {
		return nil, &model.ExtractionFailedError{URL: rawURL, Err: err}
	}

	meta := model.ContentMetadata{
		Title:              extracted.Title,
		Description:        extracted.Description,
		CreatorID:          extracted.CreatorID,
		CreatorDisplayName: extracted.CreatorName,
		Platform:           platform,
		ContentType:        extracted.ContentType,
		OriginalURL:        rawURL,
	}

	mediaURL := selectVariant(extracted.Variants)
	if mediaURL == "" && meta.ContentType == model.ContentTypeVideo {
		// No playable variant: downgrade rather than pretend
		meta.ContentType = model.ContentTypeImageCollection
	}

	return &model.ResolvedContent{
		Metadata: meta,
		MediaURL: mediaURL,
	}, nil
}

// validate checks scheme and host against the allowlist and determines
// the platform. No network access.
func (r *Resolver) validate(rawURL string) (model.Platform, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return model.PlatformUnknown, &model.InvalidInputError{URL: rawURL, Reason: "not a valid URL"}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return model.PlatformUnknown, &model.InvalidInputError{URL: rawURL, Reason: "unsupported scheme " + parsed.Scheme}
	}

	host := strings.ToLower(parsed.Hostname())
	allowed := false
	for _, h := range r.allowedHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			allowed = true
			break
		}
	}
	if !allowed {
		return model.PlatformUnknown, &model.InvalidInputError{URL: rawURL, Reason: "host not supported: " + host}
	}

	return platformForHost(host), nil
}

// selectVariant prefers the highest-fidelity unwatermarked variant,
// falls back to a watermarked one, and returns "" when nothing is
// playable.
func selectVariant(variants []model.MediaVariant) string {
	var clean, cleanHD, watermarked string
	for _, v := range variants {
		if v.URL == "" {
			continue
		}
		if v.Watermarked {
			if watermarked == "" {
				watermarked = v.URL
			}
			continue
		}
		if strings.ToLower(v.Quality) == "hd" && cleanHD == "" {
			cleanHD = v.URL
		}
		if clean == "" {
			clean = v.URL
		}
	}
	if cleanHD != "" {
		return cleanHD
	}
	if clean != "" {
		return clean
	}
	return watermarked
}

func platformForHost(host string) model.Platform {
	switch {
	case strings.Contains(host, "tiktok.com"):
		return model.PlatformTikTok
	case strings.Contains(host, "twitter.com"), host == "x.com", strings.HasSuffix(host, ".x.com"):
		return model.PlatformTwitter
	default:
		return model.PlatformUnknown
	}
}
