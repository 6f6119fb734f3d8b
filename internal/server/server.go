// Package server exposes the verification pipeline over HTTP. The API
// mirrors the CLI: submit a claim, list stored results, fetch one result.
// Verification runs synchronously within the request.
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ppiankov/veridict/internal/model"
	"github.com/ppiankov/veridict/internal/pipeline"
	"github.com/ppiankov/veridict/internal/store"
)

// Server is the HTTP boundary around a pipeline and its result store
type Server struct {
	engine   *gin.Engine
	pipeline *pipeline.Pipeline
	sessions *store.Store
	config   *model.Config
	logger   *zap.Logger
}

// verifyRequest is the POST /api/verify body
type verifyRequest struct {
	Claim string `json:"claim"`
}

// New builds the server and registers its routes
func New(cfg *model.Config, p *pipeline.Pipeline, sessions *store.Store, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine:   engine,
		pipeline: p,
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}

	engine.Use(s.cors())

	engine.GET("/", s.handleRoot)
	engine.GET("/health", s.handleHealth)

	api := engine.Group("/api")
	{
		api.POST("/verify", s.handleVerify)
		api.GET("/results", s.handleListResults)
		api.GET("/results/:key", s.handleGetResult)
	}

	return s
}

// Handler returns the http.Handler, for tests and custom servers
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the given address until the listener fails
func (s *Server) Run(addr string) error {
	s.logger.Info("http server listening", zap.String("addr", addr))
	return s.engine.Run(addr)
}

// cors allows browser frontends from any origin; the API carries no
// credentials or cookies.
func (s *Server) cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "veridict",
		"status":  "ok",
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":            "healthy",
		"llm_provider":      s.config.LLM.Provider,
		"llm_configured":    s.config.LLM.APIKey != "" || s.config.LLM.Provider == "ollama",
		"search_configured": s.config.Search.APIKey != "",
	})
}

// handleVerify runs a full verification synchronously. A fatal stage
// failure maps to 502 with the stage named; a claim below the minimum
// length maps to 400 before any session work happens.
func (s *Server) handleVerify(c *gin.Context) {
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	session, err := s.pipeline.Verify(c.Request.Context(), req.Claim)
	if err != nil {
		if errors.Is(err, pipeline.ErrClaimTooShort) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		var stageErr *pipeline.StageError
		if errors.As(err, &stageErr) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":   stageErr.Error(),
				"stage":   string(stageErr.Stage),
				"session": session,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session":        session,
		"failed_queries": session.FailedQueries(),
		"incomplete":     session.Incomplete,
	})
}

func (s *Server) handleListResults(c *gin.Context) {
	entries, err := s.sessions.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list results: " + err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": entries})
}

func (s *Server) handleGetResult(c *gin.Context) {
	key := c.Param("key")
	session, err := s.sessions.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "result not found: " + key})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}
