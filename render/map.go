package render

import (
	"bytes"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"marketviz/domain/frame"
	"marketviz/domain/market"
	"marketviz/internal/errors"
)

// MapOptions controls the static map rendering.
type MapOptions struct {
	Width   int
	Height  int
	Opacity float64 // 0..1 point fill opacity
	Radius  int     // point radius in meters; scaled down to pixels
}

// DefaultMapOptions returns the dashboard map geometry.
func DefaultMapOptions() MapOptions {
	return MapOptions{Width: 900, Height: 620, Opacity: 0.9, Radius: 115}
}

// StaticMap renders one frame as a lightweight scatter PNG: one dot series
// per dominant strategy plus the boundary outline when available. This is
// the fallback for environments without the tiled interactive map.
func StaticMap(f frame.Frame, boundary *market.Boundary, opts MapOptions) ([]byte, error) {
	alpha := uint8(255)
	if opts.Opacity > 0 && opts.Opacity < 1 {
		alpha = uint8(opts.Opacity * 255)
	}
	dotWidth := float64(opts.Radius) / 20.0
	if dotWidth < 2 {
		dotWidth = 2
	}
	if dotWidth > 12 {
		dotWidth = 12
	}

	var series []chart.Series

	// Boundary rings first so points draw on top.
	if boundary != nil {
		for _, ring := range boundary.Rings {
			xs := make([]float64, len(ring))
			ys := make([]float64, len(ring))
			for i, p := range ring {
				xs[i] = p.Lon
				ys[i] = p.Lat
			}
			series = append(series, chart.ContinuousSeries{
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.Color{R: 60, G: 60, B: 60, A: 255},
					StrokeWidth: 1.0,
				},
			})
		}
	}

	// One scatter series per strategy, canonical order.
	for _, strat := range market.Strategies {
		var xs, ys []float64
		for _, p := range f.Points {
			if p.Dominant != strat {
				continue
			}
			xs = append(xs, p.Lon)
			ys = append(ys, p.Lat)
		}
		if len(xs) == 0 {
			continue
		}
		c := strat.Color()
		series = append(series, chart.ContinuousSeries{
			Name:    strat.String(),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeWidth: chart.Disabled,
				DotWidth:    dotWidth,
				DotColor:    drawing.Color{R: c.R, G: c.G, B: c.B, A: alpha},
			},
		})
	}

	if len(series) == 0 {
		return nil, errors.RenderError("nothing to draw for this frame", nil)
	}

	graph := chart.Chart{
		Width:  opts.Width,
		Height: opts.Height,
		XAxis:  chart.XAxis{Name: "Longitude"},
		YAxis:  chart.YAxis{Name: "Latitude"},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, errors.RenderError("static map rendering failed", err)
	}
	return buf.Bytes(), nil
}
