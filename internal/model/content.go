package model

// Platform identifies the social network the content came from
type Platform string

const (
	PlatformTikTok  Platform = "tiktok"
	PlatformTwitter Platform = "twitter"
	PlatformUnknown Platform = "unknown"
)

// ContentType classifies the media shape of a post
type ContentType string

const (
	ContentTypeVideo           ContentType = "video"
	ContentTypeImageCollection ContentType = "image_collection"
)

// MediaVariant is one downloadable rendition of the post's media
type MediaVariant struct {
	URL         string `json:"url"`
	Quality     string `json:"quality,omitempty"` // e.g. "hd", "standard"
	Watermarked bool   `json:"watermarked"`
}

// ContentMetadata describes the post being analyzed.
// Created once per analysis by the resolver and never mutated afterwards.
type ContentMetadata struct {
	Title              string      `json:"title,omitempty"`
	Description        string      `json:"description,omitempty"`
	CreatorID          string      `json:"creator_id,omitempty"`
	CreatorDisplayName string      `json:"creator_display_name,omitempty"`
	Platform           Platform    `json:"platform"`
	ContentType        ContentType `json:"content_type"`
	OriginalURL        string      `json:"original_url"`
}

// ResolvedContent is the resolver's output: metadata plus the best
// available direct media URL. MediaURL is empty when no playable
// variant exists (image-only posts).
type ResolvedContent struct {
	Metadata ContentMetadata `json:"metadata"`
	MediaURL string          `json:"media_url,omitempty"`
}

// HasVideo reports whether a playable media URL was resolved
func (r *ResolvedContent) HasVideo() bool {
	return r.MediaURL != "" && r.Metadata.ContentType == ContentTypeVideo
}
