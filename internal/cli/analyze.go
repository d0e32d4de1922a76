package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/veritok/veritok/internal/model"
	"github.com/veritok/veritok/internal/pipeline"
)

var (
	outJSON         string
	timeout         time.Duration
	userAgent       string
	extractorURL    string
	noCache         bool
	cacheDir        string
	validateSources bool
	httpProxy       string
	httpsProxy      string
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze a single post and generate a verification report",
	Long: `Analyze runs the full verification pipeline on one post:
- Resolve the URL to media and creator metadata
- Transcribe spoken audio (video posts)
- Detect factual/news-style claims
- Fact-check detected claims through web research
- Derive a creator credibility rating with factor breakdown

Example:
  veritok analyze https://www.tiktok.com/@user/video/123
  veritok analyze https://www.tiktok.com/@user/video/123 --json report.json
  veritok analyze https://x.com/user/status/123 --no-cache -v`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path (optional)")
	analyzeCmd.Flags().DurationVar(&timeout, "timeout", 3*time.Minute, "overall analysis timeout")
	analyzeCmd.Flags().StringVar(&userAgent, "ua", "Veritok/0.1 (+https://github.com/veritok/veritok)", "HTTP User-Agent")
	analyzeCmd.Flags().StringVar(&extractorURL, "extractor-url", "", "content-extraction service base URL (default from config)")
	analyzeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable report cache (force fresh analysis)")
	analyzeCmd.Flags().StringVar(&cacheDir, "cache-dir", "", "persist cached reports to this directory")
	analyzeCmd.Flags().BoolVar(&validateSources, "validate-sources", false, "HEAD-check cited evidence URLs")
	analyzeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	analyzeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v, cache: %v\n\n", timeout, cfg.Cache.Enabled)
	}

	report, err := p.Analyze(ctx, url)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	if outJSON != "" {
		if err := pipeline.RenderJSON(report, outJSON); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "Wrote JSON: %s\n", outJSON)
		}
	}

	pipeline.RenderSummary(report)
	return nil
}

// buildConfig assembles the effective config from defaults, flags and
// environment. API keys only ever come from the environment.
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()

	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Cache.Dir = cacheDir
	cfg.Verifier.ValidateSources = validateSources
	cfg.Output.Verbose = verbose

	if extractorURL != "" {
		cfg.Extractor.BaseURL = extractorURL
	}
	if key := os.Getenv("EXTRACTOR_API_KEY"); key != "" {
		cfg.Extractor.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		cfg.Transcriber.APIKey = key
		cfg.Verifier.APIKey = key
	}

	return cfg
}
