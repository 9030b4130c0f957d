// Package frame turns (dataset, day, display options) into the set of
// colored map points for one rendered frame.
package frame

import (
	"math"
	"math/rand"
	"sort"

	"marketviz/domain/market"
)

// Options are the presentation knobs that shape a frame. They have no effect
// on the underlying data.
type Options struct {
	// SampleFraction in (0,1]; below 1 the points are down-sampled
	// deterministically per day.
	SampleFraction float64
	PointRadius    int
	PointOpacity   float64
}

// DefaultOptions returns the standard display options.
func DefaultOptions() Options {
	return Options{
		SampleFraction: 1.0,
		PointRadius:    115,
		PointOpacity:   0.9,
	}
}

// Point is one cell on the map for the current day.
type Point struct {
	CellID   string          `json:"cell_id"`
	Lat      float64         `json:"lat"`
	Lon      float64         `json:"lon"`
	Dominant market.Strategy `json:"-"`
	Label    string          `json:"dominant"`
	Color    market.Color    `json:"-"`
	Hex      string          `json:"color"`
	Share    float64         `json:"share"`
}

// Frame is everything the map needs for one day.
type Frame struct {
	Day          int     `json:"day"`
	Points       []Point `json:"points"`
	Synthetic    bool    `json:"synthetic_grid"`
	CenterLat    float64 `json:"center_lat"`
	CenterLon    float64 `json:"center_lon"`
	TotalCells   int     `json:"total_cells"`
	SampledCells int     `json:"sampled_cells"`
}

// Select builds the frame for one day: filter, down-sample, coordinate
// fallback, dominant-strategy classification, color assignment.
func Select(ds *market.Dataset, day int, opts Options) Frame {
	records := ds.CellsForDay(day)
	total := len(records)

	if opts.SampleFraction > 0 && opts.SampleFraction < 1 && total > 0 {
		records = downsample(records, opts.SampleFraction, int64(day))
	}

	synthetic := needsSyntheticGrid(records)
	if synthetic {
		records = syntheticGrid(records)
	}

	points := make([]Point, 0, len(records))
	var sumLat, sumLon float64
	for _, rec := range records {
		dom := rec.Dominant()
		points = append(points, Point{
			CellID:   rec.CellID,
			Lat:      rec.Lat,
			Lon:      rec.Lon,
			Dominant: dom,
			Label:    dom.String(),
			Color:    dom.Color(),
			Hex:      hexColor(dom.Color()),
			Share:    rec.Share[dom],
		})
		sumLat += rec.Lat
		sumLon += rec.Lon
	}

	f := Frame{
		Day:          day,
		Points:       points,
		Synthetic:    synthetic,
		TotalCells:   total,
		SampledCells: len(points),
	}
	if len(points) > 0 {
		f.CenterLat = sumLat / float64(len(points))
		f.CenterLon = sumLon / float64(len(points))
	}
	return f
}

// downsample draws round(frac*n) records. The generator is seeded with the
// day so the same day always yields the same subset; the selection is
// reproducible, not time-random.
func downsample(records []market.CellDayRecord, frac float64, seed int64) []market.CellDayRecord {
	n := len(records)
	k := int(math.Round(frac * float64(n)))
	if k >= n {
		return records
	}
	if k <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(seed))
	picked := rng.Perm(n)[:k]
	sort.Ints(picked)

	out := make([]market.CellDayRecord, 0, k)
	for _, idx := range picked {
		out = append(out, records[idx])
	}
	return out
}

// needsSyntheticGrid reports whether any record is missing coordinates, in
// which case the whole frame falls back to the synthetic layout so cells do
// not mix real and fake geography.
func needsSyntheticGrid(records []market.CellDayRecord) bool {
	for _, rec := range records {
		if !rec.HasCoords {
			return true
		}
	}
	return false
}

// syntheticGrid lays out n cells on a side x side lattice with
// side = ceil(sqrt(n)), assigning positions in cell-identifier sort order,
// row-major, truncated to n. Display-only; not real geography.
func syntheticGrid(records []market.CellDayRecord) []market.CellDayRecord {
	n := len(records)
	if n == 0 {
		return records
	}
	side := int(math.Ceil(math.Sqrt(float64(n))))

	out := make([]market.CellDayRecord, n)
	copy(out, records)
	sort.Slice(out, func(i, j int) bool { return out[i].CellID < out[j].CellID })

	for k := range out {
		out[k].Lon = float64(k / side)
		out[k].Lat = float64(k % side)
		out[k].HasCoords = true
	}
	return out
}

// GridSide exposes the lattice side used by the synthetic fallback.
func GridSide(n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Ceil(math.Sqrt(float64(n))))
}

func hexColor(c market.Color) string {
	const digits = "0123456789abcdef"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0f]
	}
	return string(b)
}
