package ui

import (
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"

	"churnscope/internal"
	"churnscope/internal/dataset"
	"churnscope/ui/middleware"

	"github.com/gin-gonic/gin"
)

// Server is the dashboard web server
type Server struct {
	router    *gin.Engine
	store     *dataset.Store
	templates *template.Template
	assets    fs.FS
	logger    *internal.Logger
}

// NewServer builds the router over store. assets must contain ui/templates and ui/static.
func NewServer(store *dataset.Store, assets fs.FS) (*Server, error) {
	s := &Server{
		router: gin.New(),
		store:  store,
		assets: assets,
		logger: internal.DefaultLogger.With("UI"),
	}

	funcMap := template.FuncMap{
		"add": func(a, b int) int { return a + b },
		"pct": func(part, total int) string {
			if total == 0 {
				return "0.0%"
			}
			return fmt.Sprintf("%.1f%%", 100*float64(part)/float64(total))
		},
		"upper": strings.ToUpper,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(assets, "ui/templates/*.html", "ui/templates/fragments/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	s.templates = templates

	if err := s.setupMiddleware(); err != nil {
		return nil, err
	}
	s.setupRoutes()
	return s, nil
}

// setupMiddleware configures Gin middleware and static assets
func (s *Server) setupMiddleware() error {
	s.router.Use(gin.Recovery())
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger(s.logger))

	staticFS, err := fs.Sub(s.assets, "ui/static")
	if err != nil {
		return fmt.Errorf("failed to create static filesystem: %w", err)
	}
	s.router.StaticFS("/static", http.FS(staticFS))
	return nil
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	s.router.GET("/", s.handleIndex)
	s.router.GET("/charts/:file", s.handleChart)

	api := s.router.Group("/api")
	api.GET("/options", s.handleOptions)
	api.GET("/views", s.handleListViews)
	api.GET("/views/:name", s.handleView)
	api.GET("/records", s.handleRecords)
	api.GET("/dataset/status", s.handleDatasetStatus)
}

// Handler exposes the router, mainly for http.Server and tests
func (s *Server) Handler() http.Handler {
	return s.router
}
