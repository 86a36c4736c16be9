package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ivlev/overlaycue/internal/config"
	"github.com/ivlev/overlaycue/internal/logging"
	"github.com/ivlev/overlaycue/internal/stage"
)

// Server exposes the stages of a registry over HTTP
type Server struct {
	registry *stage.Registry
	viewport config.ViewportConfig
	origins  []string
}

func NewServer(reg *stage.Registry, cfg *config.Config) *Server {
	return &Server{
		registry: reg,
		viewport: cfg.Viewport,
		origins:  cfg.Server.AllowedOrigin,
	}
}

// NewRouter constructs a Gin engine with registered routes.
func NewRouter(s *Server) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	RegisterHealthRoutes(r)
	RegisterPageRoutes(r, s)
	RegisterLocaleRoutes(r, s)
	RegisterStreamRoutes(r, s)
	return r
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.RequestLogger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start),
		)
	}
}
