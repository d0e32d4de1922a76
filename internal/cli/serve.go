package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/veritok/veritok/internal/pipeline"
	"github.com/veritok/veritok/internal/server"
	"github.com/veritok/veritok/internal/store"
)

var (
	serveAddr string
	dbPath    string
	noPersist bool
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP analysis API",
	Long: `Serve starts the HTTP API exposing the analysis pipeline:

  POST /api/analyze                     {"url": "..."}
  POST /api/verify-claims               {"claims": ["...", ...]}
  GET  /api/analyses                    recent analyses
  GET  /api/analyses/:id                one stored report
  GET  /api/creators/:id/credibility    accumulated creator rating
  GET  /healthz

Reports are persisted to sqlite unless --no-persist is given.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "listen address")
	serveCmd.Flags().StringVar(&dbPath, "db", "veritok.db", "sqlite database path")
	serveCmd.Flags().BoolVar(&noPersist, "no-persist", false, "do not persist analyses")
	serveCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable report cache")
	serveCmd.Flags().BoolVar(&validateSources, "validate-sources", false, "HEAD-check cited evidence URLs")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := buildConfig()
	cfg.Server.Addr = serveAddr
	cfg.Store.Path = dbPath

	p, err := pipeline.NewPipeline(cfg)
	if err != nil {
		return fmt.Errorf("build pipeline: %w", err)
	}

	var st *store.Store
	if !noPersist {
		st, err = store.Open(&cfg.Store)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
	}

	fmt.Fprintf(os.Stderr, "Listening on %s (persistence: %v)\n", cfg.Server.Addr, st != nil)
	return server.New(p, st).Run(cfg.Server.Addr)
}
