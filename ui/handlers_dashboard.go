package ui

import (
	"fmt"
	"html/template"

	"github.com/gin-gonic/gin"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"marketviz/domain/market"
)

// legendEntry is one strategy swatch for the map legend.
type legendEntry struct {
	Key   string
	Label string
	Hex   string
}

func legendEntries() []legendEntry {
	out := make([]legendEntry, 0, market.NumStrategies)
	for _, strat := range market.Strategies {
		c := strat.Color()
		out = append(out, legendEntry{
			Key:   strat.String(),
			Label: strat.Label(),
			Hex:   fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B),
		})
	}
	return out
}

func (s *Server) handleDashboard(c *gin.Context) {
	data := gin.H{
		"Title":       "MarketViz — Strategy Simulation",
		"MaxDay":      s.dataset.MaxDay,
		"Legend":      legendEntries(),
		"Playback":    s.cfg.Playback,
		"Display":     s.cfg.Display,
		"Labels":      s.cfg.Labels,
		"Warnings":    s.warnings,
		"HasBoundary": s.dataset.HasBoundary(),
		"CellCount":   len(s.dataset.CellsForDay(0)),
	}
	s.renderTemplate(c, "index.html", data)
}

// loadAboutPage renders the embedded methodology notes from Markdown once at
// startup.
func (s *Server) loadAboutPage() error {
	raw, err := embeddedFiles.ReadFile("templates/notes.md")
	if err != nil {
		return fmt.Errorf("failed to read notes.md: %w", err)
	}

	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	s.aboutHTML = template.HTML(markdown.ToHTML(raw, p, renderer))
	return nil
}

func (s *Server) handleAbout(c *gin.Context) {
	s.renderTemplate(c, "about.html", gin.H{
		"Title":   "MarketViz — About",
		"Content": s.aboutHTML,
	})
}
