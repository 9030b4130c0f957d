// Package render draws the trend charts and the static map as PNG images.
// Rendering is a pure function of (dataset, frame, options); it holds no
// state of its own.
package render

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"marketviz/domain/lifecycle"
	"marketviz/domain/market"
	"marketviz/domain/trend"
	"marketviz/internal/errors"
)

// ChartOptions controls the trend chart rendering.
type ChartOptions struct {
	Width            int
	Height           int
	LifecycleOverlay bool // share chart only
}

// DefaultChartOptions returns the dashboard chart geometry.
func DefaultChartOptions() ChartOptions {
	return ChartOptions{Width: 900, Height: 260}
}

func strategyStroke(s market.Strategy) drawing.Color {
	c := s.Color()
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: 255}
}

// TrendChart renders one metric (share, conversions or churn) as a line
// chart with one series per strategy in canonical order. For the share
// metric the conceptual life-cycle overlay and stage markers can be added.
func TrendChart(ds *market.Dataset, metric trend.Metric, opts ChartOptions) ([]byte, error) {
	series := trend.Extract(ds, metric)

	chartSeries := make([]chart.Series, 0, market.NumStrategies+1)
	for _, strat := range market.Strategies {
		chartSeries = append(chartSeries, chart.ContinuousSeries{
			Name:    strat.String(),
			XValues: series.Days,
			YValues: series.Values[strat],
			Style: chart.Style{
				StrokeColor: strategyStroke(strat),
				StrokeWidth: 2.0,
			},
		})
	}

	var gridLines []chart.GridLine
	if opts.LifecycleOverlay && metric == trend.MetricShare {
		scale := trend.MaxAggregateShare(ds)
		curve := lifecycle.Curve(ds.MaxDay, scale)
		xs := make([]float64, len(curve))
		for i := range curve {
			xs[i] = float64(i)
		}
		chartSeries = append(chartSeries, chart.ContinuousSeries{
			Name:    "Life-cycle (concept)",
			XValues: xs,
			YValues: curve,
			Style: chart.Style{
				StrokeColor:     drawing.Color{R: 120, G: 120, B: 120, A: 255},
				StrokeWidth:     1.5,
				StrokeDashArray: []float64{4.0, 3.0},
			},
		})
		for _, stage := range lifecycle.Stages() {
			gridLines = append(gridLines, chart.GridLine{Value: float64(stage.Day)})
		}
	}

	graph := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		XAxis: chart.XAxis{
			Name:      "Day",
			GridLines: gridLines,
			GridMajorStyle: chart.Style{
				Hidden:      len(gridLines) == 0,
				StrokeColor: drawing.Color{R: 170, G: 170, B: 170, A: 255},
				StrokeWidth: 1.0,
			},
		},
		YAxis: chart.YAxis{
			Name: yAxisTitle(metric),
		},
		Series: chartSeries,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.RenderError("trend chart rendering failed", err)
	}
	return buf.Bytes(), nil
}

func yAxisTitle(metric trend.Metric) string {
	switch metric {
	case trend.MetricConversions:
		return "Conversions per day"
	case trend.MetricChurn:
		return "Churn per day"
	default:
		return "Aggregate share"
	}
}
