package ui

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"marketviz/domain/frame"
	"marketviz/domain/trend"
	"marketviz/render"
)

func (s *Server) serveTrendChart(c *gin.Context, metric trend.Metric) {
	opts := render.DefaultChartOptions()
	// The life-cycle overlay belongs only on the share chart.
	opts.LifecycleOverlay = metric == trend.MetricShare

	png, err := render.TrendChart(s.dataset, metric, opts)
	if err != nil {
		log.Printf("[Render] %s chart failed: %v", metric, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "chart rendering failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}

func (s *Server) handleShareChart(c *gin.Context) {
	s.serveTrendChart(c, trend.MetricShare)
}

func (s *Server) handleConversionsChart(c *gin.Context) {
	s.serveTrendChart(c, trend.MetricConversions)
}

func (s *Server) handleChurnChart(c *gin.Context) {
	s.serveTrendChart(c, trend.MetricChurn)
}

// handleStaticMap renders the current day's points as a scatter PNG. This
// backs MAP_MODE=static and gives tiled mode a share/download image.
func (s *Server) handleStaticMap(c *gin.Context) {
	day := s.dayParam(c, 0)
	f := frame.Select(s.dataset, day, s.frameOptions(c))

	opts := render.DefaultMapOptions()
	opts.Opacity = s.cfg.Display.PointOpacity
	opts.Radius = s.cfg.Display.PointRadius

	png, err := render.StaticMap(f, s.dataset.Boundary, opts)
	if err != nil {
		log.Printf("[Render] map for day %d failed: %v", day, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "map rendering failed"})
		return
	}
	c.Data(http.StatusOK, "image/png", png)
}
