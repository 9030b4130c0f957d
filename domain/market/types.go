package market

import (
	"fmt"

	"marketviz/internal/errors"
)

// Strategy identifies one of the three competing retail strategies. The
// declaration order is canonical: it decides argmax tie-breaks, chart series
// order and legend order everywhere in the application.
type Strategy int

const (
	StrategyFTM Strategy = iota // First-to-Market
	StrategyLB                  // Loyalty-Based
	StrategyOPP                 // Opposition

	NumStrategies = 3
)

// Strategies lists all strategies in canonical order.
var Strategies = [NumStrategies]Strategy{StrategyFTM, StrategyLB, StrategyOPP}

func (s Strategy) String() string {
	switch s {
	case StrategyFTM:
		return "FTM"
	case StrategyLB:
		return "LB"
	case StrategyOPP:
		return "OPP"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Label returns the human-readable strategy name used in legends.
func (s Strategy) Label() string {
	switch s {
	case StrategyFTM:
		return "First-to-Market"
	case StrategyLB:
		return "Loyalty-Based"
	case StrategyOPP:
		return "Opposition"
	}
	return s.String()
}

// Color is an RGB display color.
type Color struct {
	R, G, B uint8
}

// StrategyColors holds the fixed display color per strategy.
var StrategyColors = [NumStrategies]Color{
	StrategyFTM: {R: 255, G: 140, B: 0},  // orange
	StrategyLB:  {R: 0, G: 128, B: 255},  // blue
	StrategyOPP: {R: 60, G: 179, B: 113}, // green
}

// Color returns the fixed display color for the strategy.
func (s Strategy) Color() Color {
	return StrategyColors[s]
}

// HistoryRow is one row of the per-day aggregate history table. Values are
// indexed by Strategy.
type HistoryRow struct {
	Day         int
	Share       [NumStrategies]float64
	Conversions [NumStrategies]float64
	Churn       [NumStrategies]float64
}

// CellDayRecord is one row of the per-cell-per-day market-share table.
// The three shares are independent and need not sum to 1.
type CellDayRecord struct {
	CellID    string
	Day       int
	Share     [NumStrategies]float64
	Lat       float64
	Lon       float64
	HasCoords bool
}

// Dominant returns the strategy with the highest share. Ties are broken by
// declaration order (FTM before LB before OPP): the first maximum wins.
func (r CellDayRecord) Dominant() Strategy {
	best := StrategyFTM
	for _, s := range Strategies[1:] {
		if r.Share[s] > r.Share[best] {
			best = s
		}
	}
	return best
}

// Point is a geographic coordinate.
type Point struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Boundary is an optional polygon collection describing the region outline.
// It is purely decorative and has no influence on any computation.
type Boundary struct {
	Name  string
	Rings [][]Point
}

// Dataset is the immutable collection of everything loaded at session start.
// It is safe to share across renders without locking.
type Dataset struct {
	History  []HistoryRow
	Cells    []CellDayRecord
	Boundary *Boundary
	MaxDay   int

	cellsByDay   map[int][]CellDayRecord
	historyByDay map[int]HistoryRow
}

// NewDataset assembles and validates a dataset. The history table must have
// exactly one row per day, contiguous from 0 to the maximum day.
func NewDataset(history []HistoryRow, cells []CellDayRecord, boundary *Boundary) (*Dataset, error) {
	if len(history) == 0 {
		return nil, errors.DataInvalid("history table is empty")
	}
	if len(cells) == 0 {
		return nil, errors.DataInvalid("cell-day table is empty")
	}

	historyByDay := make(map[int]HistoryRow, len(history))
	maxDay := 0
	for _, row := range history {
		if _, dup := historyByDay[row.Day]; dup {
			return nil, errors.DataInvalid(fmt.Sprintf("duplicate history row for day %d", row.Day))
		}
		historyByDay[row.Day] = row
		if row.Day > maxDay {
			maxDay = row.Day
		}
	}
	for d := 0; d <= maxDay; d++ {
		if _, ok := historyByDay[d]; !ok {
			return nil, errors.DataInvalid(fmt.Sprintf("history days are not contiguous: day %d is missing", d))
		}
	}

	cellsByDay := make(map[int][]CellDayRecord)
	for _, rec := range cells {
		cellsByDay[rec.Day] = append(cellsByDay[rec.Day], rec)
		if rec.Day > maxDay {
			maxDay = rec.Day
		}
	}

	return &Dataset{
		History:      history,
		Cells:        cells,
		Boundary:     boundary,
		MaxDay:       maxDay,
		cellsByDay:   cellsByDay,
		historyByDay: historyByDay,
	}, nil
}

// HistoryForDay returns the aggregate history row for a day, if present.
func (d *Dataset) HistoryForDay(day int) (HistoryRow, bool) {
	row, ok := d.historyByDay[day]
	return row, ok
}

// CellsForDay returns the cell records for a day. The returned slice is
// shared and must not be mutated.
func (d *Dataset) CellsForDay(day int) []CellDayRecord {
	return d.cellsByDay[day]
}

// HasBoundary reports whether an outline layer is available.
func (d *Dataset) HasBoundary() bool {
	return d.Boundary != nil && len(d.Boundary.Rings) > 0
}
