package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ivlev/overlaycue/internal/stage"
	"github.com/ivlev/overlaycue/internal/timeline"
)

// RegisterPageRoutes registers the read-only overlay queries.
func RegisterPageRoutes(r *gin.Engine, s *Server) {
	g := r.Group("/api/pages")
	g.GET("", s.handleListPages)
	g.GET("/:page/panels", s.handlePanels)
	g.GET("/:page/state", s.handleState)
	g.GET("/:page/layers", s.handleLayers)
	g.GET("/:page/spans", s.handleSpans)
}

func (s *Server) handleListPages(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"pages":     s.registry.Pages(),
		"language":  s.registry.Language(),
		"languages": timeline.Languages,
	})
}

func (s *Server) handlePanels(c *gin.Context) {
	st, ok := s.stage(c)
	if !ok {
		return
	}
	table := st.Table()
	c.JSON(http.StatusOK, gin.H{
		"page":     st.Page(),
		"language": table.Language(),
		"panels":   table.Panels(),
	})
}

func (s *Server) handleState(c *gin.Context) {
	st, ok := s.stage(c)
	if !ok {
		return
	}
	elapsed, vp, ok := s.query(c)
	if !ok {
		return
	}
	state, err := st.State(elapsed, vp)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

func (s *Server) handleLayers(c *gin.Context) {
	st, ok := s.stage(c)
	if !ok {
		return
	}
	elapsed, vp, ok := s.query(c)
	if !ok {
		return
	}
	layers, err := st.Table().Visible(elapsed, vp)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"elapsed": elapsed, "viewport": vp, "layers": layers})
}

func (s *Server) handleSpans(c *gin.Context) {
	st, ok := s.stage(c)
	if !ok {
		return
	}
	vp, err := s.resolveViewport(c.Query("viewport"), c.Query("width"))
	if err != nil {
		respondError(c, err)
		return
	}
	spans, err := st.Table().ActiveSpans(vp)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"page": st.Page(), "viewport": vp, "spans": spans})
}

func (s *Server) stage(c *gin.Context) (*stage.Stage, bool) {
	st, err := s.registry.Stage(c.Param("page"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	return st, true
}

func (s *Server) query(c *gin.Context) (float64, timeline.Viewport, bool) {
	elapsed, err := parseElapsed(c.Query("t"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return 0, 0, false
	}
	vp, err := s.resolveViewport(c.Query("viewport"), c.Query("width"))
	if err != nil {
		respondError(c, err)
		return 0, 0, false
	}
	return elapsed, vp, true
}

func parseElapsed(raw string) (float64, error) {
	if raw == "" {
		return 0, errors.New("missing t")
	}
	t, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid t %q", raw)
	}
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return 0, fmt.Errorf("t must be finite, got %q", raw)
	}
	return t, nil
}

// resolveViewport prefers an explicit class over a pixel width. Neither
// one present is an error: the viewport is never defaulted.
func (s *Server) resolveViewport(class, width string) (timeline.Viewport, error) {
	if class != "" {
		return timeline.ParseViewport(class)
	}
	if width == "" {
		return 0, fmt.Errorf("%w: viewport or width required", timeline.ErrUnknownViewport)
	}
	px, err := strconv.Atoi(width)
	if err != nil || px <= 0 {
		return 0, fmt.Errorf("%w: invalid width %q", timeline.ErrUnknownViewport, width)
	}
	return s.viewport.Classify(px), nil
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, timeline.ErrUnknownPage):
		status = http.StatusNotFound
	case errors.Is(err, timeline.ErrUnknownViewport),
		errors.Is(err, timeline.ErrUnknownLanguage),
		timeline.IsConfigError(err):
		status = http.StatusBadRequest
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
