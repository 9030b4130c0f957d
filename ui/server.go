package ui

import (
	"embed"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"marketviz/domain/market"
	"marketviz/internal/api"
	"marketviz/internal/config"
	"marketviz/internal/session"
)

//go:embed templates static
var embeddedFiles embed.FS

// Server is the web server for the MarketViz dashboard.
type Server struct {
	router    *gin.Engine
	cfg       *config.Config
	dataset   *market.Dataset
	sessions  *session.Manager
	hub       *api.SSEHub
	templates *template.Template
	warnings  []string
	aboutHTML template.HTML
}

// NewServer creates a new web server instance.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.Server.GinMode)
	return &Server{
		router: gin.Default(),
		cfg:    cfg,
	}
}

// Initialize wires the server with its dependencies: the loaded dataset, the
// playback session manager, the SSE hub and any loader warnings to surface
// in the UI.
func (s *Server) Initialize(ds *market.Dataset, sessions *session.Manager, hub *api.SSEHub, warnings []string) error {
	s.dataset = ds
	s.sessions = sessions
	s.hub = hub
	s.warnings = warnings

	funcMap := template.FuncMap{
		"mul":   func(a, b float64) float64 { return a * b },
		"add":   func(a, b int) int { return a + b },
		"pct":   func(v float64) string { return fmt.Sprintf("%.1f", v*100) },
		"f1":    func(v float64) string { return fmt.Sprintf("%.1f", v) },
		"f3":    func(v float64) string { return fmt.Sprintf("%.3f", v) },
		"lower": strings.ToLower,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates

	if err := s.loadAboutPage(); err != nil {
		return err
	}

	s.setupMiddleware()
	s.setupRoutes()
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	// Pages
	s.router.GET("/", s.handleDashboard)
	s.router.GET("/about", s.handleAbout)

	// Data API
	apiGroup := s.router.Group("/api")
	{
		apiGroup.GET("/dataset/info", s.handleDatasetInfo)
		apiGroup.GET("/frame", s.handleFrame)
		apiGroup.GET("/history", s.handleHistory)
		apiGroup.GET("/trends", s.handleTrends)
		apiGroup.GET("/metrics", s.handleMetrics)
		apiGroup.GET("/boundary", s.handleBoundary)

		// Playback control
		apiGroup.POST("/playback/session", s.handleCreateSession)
		apiGroup.DELETE("/playback/session/:id", s.handleCloseSession)
		apiGroup.GET("/playback/state", s.handlePlaybackState)
		apiGroup.POST("/playback/toggle", s.handleToggle)
		apiGroup.POST("/playback/start", s.handleStart)
		apiGroup.POST("/playback/end", s.handleEnd)
		apiGroup.POST("/playback/scrub", s.handleScrub)
		apiGroup.POST("/playback/options", s.handleOptions)
		apiGroup.GET("/playback/stream", s.hub.HandleSSE)

		// Rendered charts + static map
		apiGroup.GET("/charts/share.png", s.handleShareChart)
		apiGroup.GET("/charts/conversions.png", s.handleConversionsChart)
		apiGroup.GET("/charts/churn.png", s.handleChurnChart)
		apiGroup.GET("/map.png", s.handleStaticMap)

		// Exports
		apiGroup.GET("/export/history.xlsx", s.handleExportHistory)
		apiGroup.GET("/export/day/:day", s.handleExportDay)
	}
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	log.Printf("Starting MarketViz server on %s", addr)
	return s.router.Run(addr)
}

// Router exposes the gin engine for tests.
func (s *Server) Router() http.Handler {
	return s.router
}
