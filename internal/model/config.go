package model

import "time"

// Config is the complete veritok configuration.
// Hierarchy: CLI flags > VERITOK_* env vars > config file > defaults.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Extractor   ExtractorConfig   `yaml:"extractor"`
	Transcriber TranscriberConfig `yaml:"transcriber"`
	Detector    DetectorConfig    `yaml:"detector"`
	Verifier    VerifierConfig    `yaml:"verifier"`
	Credibility CredibilityConfig `yaml:"credibility"`
	Cache       CacheConfig       `yaml:"cache"`
	Server      ServerConfig      `yaml:"server"`
	Store       StoreConfig       `yaml:"store"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
	Output      OutputConfig      `yaml:"output"`
}

// HTTPConfig applies to all outbound HTTP clients
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy,omitempty"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty"`
	NoProxy      string        `yaml:"no_proxy,omitempty"`
}

// ExtractorConfig configures the content-extraction service client
type ExtractorConfig struct {
	BaseURL      string   `yaml:"base_url"`
	APIKey       string   `yaml:"api_key,omitempty"`
	AllowedHosts []string `yaml:"allowed_hosts"`
}

// TranscriberConfig configures media download and speech-to-text
type TranscriberConfig struct {
	APIKey        string `yaml:"api_key,omitempty"` // OPENAI_API_KEY by default
	Model         string `yaml:"model"`
	MaxMediaBytes int64  `yaml:"max_media_bytes"`
	RespectRobots bool   `yaml:"respect_robots"`
}

// DetectorConfig supplies the claim detector's keyword and pattern
// lists. Injected configuration rather than hard-coded literals so
// tests and localized deployments can substitute their own lists.
type DetectorConfig struct {
	Keywords       []string `yaml:"keywords"`
	Patterns       []string `yaml:"patterns"`
	MaxClaims      int      `yaml:"max_claims"`
	MinSentenceLen int      `yaml:"min_sentence_len"`
}

// VerifierConfig configures claim verification
type VerifierConfig struct {
	APIKey              string `yaml:"api_key,omitempty"`
	Model               string `yaml:"model"`
	ClassifierModel     string `yaml:"classifier_model"`
	Timeout             int    `yaml:"timeout"` // seconds
	MaxTokens           int    `yaml:"max_tokens"`
	MaxClaimsPerRequest int    `yaml:"max_claims_per_request"`
	MaxReportedSources  int    `yaml:"max_reported_sources"`
	ValidateSources     bool   `yaml:"validate_sources"`
}

// CredibilityConfig holds the domain trust table and per-platform
// rating adjustments. The trust table maps domain suffixes to raw
// scores on the 1-10 scale.
type CredibilityConfig struct {
	TrustedDomains      map[string]float64 `yaml:"trusted_domains"`
	DefaultDomainScore  float64            `yaml:"default_domain_score"`
	PlatformAdjustments map[string]float64 `yaml:"platform_adjustments"`
}

// CacheConfig configures the analysis-report cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Dir       string        `yaml:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl"`
}

// ServerConfig configures the HTTP API
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig configures report persistence
type StoreConfig struct {
	Path string `yaml:"path"` // sqlite database file
}

// ConcurrencyConfig bounds parallel work
type ConcurrencyConfig struct {
	BatchWorkers       int     `yaml:"batch_workers"`
	SourceCheckWorkers int     `yaml:"source_check_workers"`
	RatePerSecond      float64 `yaml:"rate_per_second"` // per external host
	RateBurst          int     `yaml:"rate_burst"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "Veritok/0.1 (+https://github.com/veritok/veritok)",
			MaxBodyBytes: 2_000_000,
		},
		Extractor: ExtractorConfig{
			BaseURL: "https://www.tikwm.com",
			AllowedHosts: []string{
				"tiktok.com", "vm.tiktok.com", "vt.tiktok.com",
				"twitter.com", "x.com",
			},
		},
		Transcriber: TranscriberConfig{
			Model:         "whisper-1",
			MaxMediaBytes: 25_000_000, // speech-to-text upload limit
			RespectRobots: false,
		},
		Detector: DetectorConfig{
			Keywords:       DefaultNewsKeywords(),
			Patterns:       DefaultFactualPatterns(),
			MaxClaims:      5,
			MinSentenceLen: 10,
		},
		Verifier: VerifierConfig{
			Model:               "gpt-4o-search-preview",
			ClassifierModel:     "gpt-4o-mini",
			Timeout:             60,
			MaxTokens:           1200,
			MaxClaimsPerRequest: 3,
			MaxReportedSources:  5,
			ValidateSources:     false,
		},
		Credibility: CredibilityConfig{
			TrustedDomains: map[string]float64{
				".gov":    9,
				".edu":    9,
				"who.int": 9,
				"nih.gov": 9,
				"cdc.gov": 9,
			},
			DefaultDomainScore: 6,
			PlatformAdjustments: map[string]float64{
				string(PlatformTikTok):  0.1,
				string(PlatformTwitter): -0.2,
			},
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       "",
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
		Store: StoreConfig{
			Path: "veritok.db",
		},
		Concurrency: ConcurrencyConfig{
			BatchWorkers:       4,
			SourceCheckWorkers: 10,
			RatePerSecond:      2,
			RateBurst:          5,
		},
	}
}

// DefaultNewsKeywords is the built-in list of newsy keyword phrases
// the claim detector matches against. Lowercase.
func DefaultNewsKeywords() []string {
	return []string{
		"breaking news", "breaking:", "according to", "sources say",
		"reported", "confirmed", "officials", "announced",
		"study finds", "study shows", "research shows", "scientists say",
		"experts say", "doctors say", "cdc says", "who says",
		"fda", "government", "white house", "president",
		"congress", "senate", "election", "vaccine",
		"pandemic", "outbreak", "economy", "inflation",
		"unemployment", "climate change", "investigation", "lawsuit",
		"poll shows", "data shows", "statistics show",
	}
}

// DefaultFactualPatterns is the built-in list of regex patterns for
// numeric factual markers (percentages, money, counts with units,
// statistical change phrasing, study references).
func DefaultFactualPatterns() []string {
	return []string{
		`\d+(\.\d+)?\s*(%|percent)`,
		`\$\s?\d[\d,]*(\.\d+)?\s*(million|billion|trillion)?`,
		`\b\d[\d,]*\s+(people|deaths|cases|patients|votes|jobs|dollars|years)\b`,
		`\b(increas|decreas|ris|ros|fell|fall|dropp|surg|declin)\w*\s+(by\s+)?\d`,
		`\b(study|studies|research|data|poll|survey|report)\b`,
	}
}
