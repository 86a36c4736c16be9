package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ivlev/overlaycue/internal/timeline"
)

type localeRequest struct {
	Lang string `json:"lang" binding:"required"`
}

// RegisterLocaleRoutes registers the locale switch.
func RegisterLocaleRoutes(r *gin.Engine, s *Server) {
	r.GET("/api/locale", s.handleGetLocale)
	r.PUT("/api/locale", s.handleSetLocale)
}

func (s *Server) handleGetLocale(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"language": s.registry.Language()})
}

// handleSetLocale rebuilds every page for the new language. On failure the
// previous tables stay current.
func (s *Server) handleSetLocale(c *gin.Context) {
	var req localeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lang, err := timeline.ParseLanguage(req.Lang)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := s.registry.SetLanguage(lang); err != nil {
		slog.Warn("locale switch failed", "lang", lang, "error", err)
		respondError(c, err)
		return
	}
	slog.Info("locale switched", "lang", lang)
	c.JSON(http.StatusOK, gin.H{"language": s.registry.Language()})
}
