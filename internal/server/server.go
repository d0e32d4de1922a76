package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/veritok/veritok/internal/model"
	"github.com/veritok/veritok/internal/pipeline"
	"github.com/veritok/veritok/internal/store"
	"github.com/veritok/veritok/internal/verify"
)

// Server exposes the analysis pipeline over HTTP. Persistence is
// optional: without a store, analyses are returned but not recorded.
type Server struct {
	engine   *gin.Engine
	pipeline *pipeline.Pipeline
	store    *store.Store
}

// New creates the HTTP server
func New(p *pipeline.Pipeline, s *store.Store) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Logger(), gin.Recovery())

	srv := &Server{engine: engine, pipeline: p, store: s}
	srv.routes()
	return srv
}

func (s *Server) routes() {
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.engine.Group("/api")
	{
		api.POST("/analyze", s.handleAnalyze)
		api.POST("/verify-claims", s.handleVerifyClaims)
		api.GET("/analyses", s.handleRecent)
		api.GET("/analyses/:id", s.handleAnalysis)
		api.GET("/creators/:id/credibility", s.handleCreator)
	}
}

// Run starts the server on addr, blocking
func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the underlying handler, used by tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

type analyzeRequest struct {
	URL string `json:"url" binding:"required"`
}

func (s *Server) handleAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "url is required"})
		return
	}

	report, err := s.pipeline.Analyze(c.Request.Context(), req.URL)
	if err != nil {
		var invalid *model.InvalidInputError
		if errors.As(err, &invalid) {
			c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
			return
		}
		var extraction *model.ExtractionFailedError
		if errors.As(err, &extraction) {
			c.JSON(http.StatusBadGateway, gin.H{"error": extraction.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if s.store != nil {
		if err := s.store.SaveReport(report); err != nil {
			// Persistence failure doesn't invalidate the analysis
			c.JSON(http.StatusOK, gin.H{"report": report, "persisted": false})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"report": report, "persisted": s.store != nil})
}

type verifyClaimsRequest struct {
	Claims   []string `json:"claims" binding:"required"`
	Platform string   `json:"platform"`
	Creator  string   `json:"creator"`
}

// handleVerifyClaims exposes mode-A verification directly, bypassing
// the full pipeline.
func (s *Server) handleVerifyClaims(c *gin.Context) {
	var req verifyClaimsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "claims list is required"})
		return
	}

	outcome, err := s.pipeline.Verifier().VerifyClaims(c.Request.Context(), req.Claims, verifyContext(req))
	if err != nil {
		var cfgErr *model.ConfigurationError
		if errors.As(err, &cfgErr) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": cfgErr.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, outcome)
}

func verifyContext(req verifyClaimsRequest) *verify.Context {
	return &verify.Context{
		Platform:    req.Platform,
		CreatorName: req.Creator,
	}
}

func (s *Server) handleAnalysis(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "persistence disabled"})
		return
	}
	report, err := s.store.Analysis(c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (s *Server) handleRecent(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "persistence disabled"})
		return
	}
	records, err := s.store.Recent(20)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": records})
}

func (s *Server) handleCreator(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusNotImplemented, gin.H{"error": "persistence disabled"})
		return
	}
	platform := c.DefaultQuery("platform", string(model.PlatformTikTok))
	creator, err := s.store.Creator(platform, c.Param("id"))
	if errors.Is(err, store.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "creator not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, creator)
}
