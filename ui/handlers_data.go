package ui

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketviz/domain/frame"
	"marketviz/domain/lifecycle"
	"marketviz/domain/market"
	"marketviz/domain/trend"
)

// dayParam reads a ?day=N query parameter and clamps it into [0, MaxDay].
// Anything unparseable falls back to the given default.
func (s *Server) dayParam(c *gin.Context, fallback int) int {
	dayStr := c.DefaultQuery("day", strconv.Itoa(fallback))
	day, err := strconv.Atoi(dayStr)
	if err != nil {
		day = fallback
	}
	if day < 0 {
		day = 0
	}
	if day > s.dataset.MaxDay {
		day = s.dataset.MaxDay
	}
	return day
}

func (s *Server) frameOptions(c *gin.Context) frame.Options {
	opts := frame.Options{
		SampleFraction: s.cfg.Display.SampleFraction,
		PointRadius:    s.cfg.Display.PointRadius,
		PointOpacity:   s.cfg.Display.PointOpacity,
	}
	if sampleStr := c.Query("sample"); sampleStr != "" {
		if f, err := strconv.ParseFloat(sampleStr, 64); err == nil && f > 0 && f <= 1 {
			opts.SampleFraction = f
		}
	}
	return opts
}

func (s *Server) handleDatasetInfo(c *gin.Context) {
	cellsDay0 := len(s.dataset.CellsForDay(0))
	c.JSON(http.StatusOK, gin.H{
		"max_day":      s.dataset.MaxDay,
		"history_rows": len(s.dataset.History),
		"cell_rows":    len(s.dataset.Cells),
		"cells_day0":   cellsDay0,
		"has_boundary": s.dataset.HasBoundary(),
		"warnings":     s.warnings,
	})
}

// handleFrame returns the colored map points for one day. The day is taken
// from the query, not from any session, so the endpoint stays cacheable.
func (s *Server) handleFrame(c *gin.Context) {
	day := s.dayParam(c, 0)
	f := frame.Select(s.dataset, day, s.frameOptions(c))
	c.JSON(http.StatusOK, f)
}

type historyRowJSON struct {
	Day         int                `json:"day"`
	Share       map[string]float64 `json:"share"`
	Conversions map[string]float64 `json:"conversions"`
	Churn       map[string]float64 `json:"churn"`
}

func historyJSON(row market.HistoryRow) historyRowJSON {
	out := historyRowJSON{
		Day:         row.Day,
		Share:       make(map[string]float64, market.NumStrategies),
		Conversions: make(map[string]float64, market.NumStrategies),
		Churn:       make(map[string]float64, market.NumStrategies),
	}
	for _, strat := range market.Strategies {
		key := strat.String()
		out.Share[key] = row.Share[strat]
		out.Conversions[key] = row.Conversions[strat]
		out.Churn[key] = row.Churn[strat]
	}
	return out
}

// handleHistory returns the aggregate history rows, optionally truncated to
// ?day=N inclusive so the trend charts can grow with the playback position.
func (s *Server) handleHistory(c *gin.Context) {
	upTo := s.dayParam(c, s.dataset.MaxDay)
	rows := make([]historyRowJSON, 0, upTo+1)
	for _, row := range s.dataset.History {
		if row.Day > upTo {
			continue
		}
		rows = append(rows, historyJSON(row))
	}
	c.JSON(http.StatusOK, gin.H{
		"up_to_day": upTo,
		"rows":      rows,
	})
}

// handleTrends returns the three metric series in chart-ready shape.
func (s *Server) handleTrends(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"share":       trend.Extract(s.dataset, trend.MetricShare),
		"conversions": trend.Extract(s.dataset, trend.MetricConversions),
		"churn":       trend.Extract(s.dataset, trend.MetricChurn),
		"lifecycle":   lifecycle.Curve(s.dataset.MaxDay, trend.MaxAggregateShare(s.dataset)),
		"stages":      lifecycle.Stages(),
	})
}

// handleMetrics returns the key-metrics panel: the per-day snapshot, the
// whole-run summaries, the cosmetic scenario labels, and the measured
// takeover slope next to them.
func (s *Server) handleMetrics(c *gin.Context) {
	day := s.dayParam(c, 0)
	snap := trend.Snapshot(s.dataset, day)

	payload := gin.H{
		"snapshot":  snap,
		"summaries": trend.Summaries(s.dataset),
		"labels": gin.H{
			"opp_entry_day": s.cfg.Labels.OppEntryDay,
			"takeover_rate": s.cfg.Labels.TakeoverRate,
		},
	}
	if slope, ok := trend.TakeoverEstimate(s.dataset, s.cfg.Labels.OppEntryDay); ok {
		payload["takeover_slope"] = slope
	}
	c.JSON(http.StatusOK, payload)
}

type boundaryJSON struct {
	Name  string           `json:"name"`
	Rings [][]market.Point `json:"rings"`
}

func (s *Server) handleBoundary(c *gin.Context) {
	if !s.dataset.HasBoundary() {
		c.JSON(http.StatusOK, gin.H{"available": false})
		return
	}
	b := s.dataset.Boundary
	c.JSON(http.StatusOK, gin.H{
		"available": true,
		"boundary":  boundaryJSON{Name: b.Name, Rings: b.Rings},
	})
}
