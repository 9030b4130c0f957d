// Package trend extracts time series and summary metrics from the aggregate
// history table for the trend charts and the key-metrics panel.
package trend

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"marketviz/domain/market"
)

// Metric selects which aggregate measure a series covers.
type Metric int

const (
	MetricShare Metric = iota
	MetricConversions
	MetricChurn
)

func (m Metric) String() string {
	switch m {
	case MetricShare:
		return "share"
	case MetricConversions:
		return "conversions"
	case MetricChurn:
		return "churn"
	}
	return "unknown"
}

// Series holds one metric for all three strategies over the full day range.
type Series struct {
	Metric Metric                          `json:"-"`
	Name   string                          `json:"metric"`
	Days   []float64                       `json:"days"`
	Values [market.NumStrategies][]float64 `json:"-"`
	ByKey  map[string][]float64            `json:"values"`
}

// Extract builds the series for one metric in canonical strategy order.
func Extract(ds *market.Dataset, metric Metric) Series {
	n := len(ds.History)
	s := Series{
		Metric: metric,
		Name:   metric.String(),
		Days:   make([]float64, n),
		ByKey:  make(map[string][]float64, market.NumStrategies),
	}
	for i := range market.Strategies {
		s.Values[i] = make([]float64, n)
	}
	for i, row := range ds.History {
		s.Days[i] = float64(row.Day)
		for _, strat := range market.Strategies {
			s.Values[strat][i] = pick(row, metric, strat)
		}
	}
	for _, strat := range market.Strategies {
		s.ByKey[strat.String()] = s.Values[strat]
	}
	return s
}

func pick(row market.HistoryRow, metric Metric, s market.Strategy) float64 {
	switch metric {
	case MetricConversions:
		return row.Conversions[s]
	case MetricChurn:
		return row.Churn[s]
	default:
		return row.Share[s]
	}
}

// Summary describes one strategy's share series.
type Summary struct {
	Strategy string  `json:"strategy"`
	Mean     float64 `json:"mean"`
	Peak     float64 `json:"peak"`
	PeakDay  int     `json:"peak_day"`
	Final    float64 `json:"final"`
}

// Summaries computes per-strategy share summaries over the whole run.
func Summaries(ds *market.Dataset) []Summary {
	series := Extract(ds, MetricShare)
	out := make([]Summary, 0, market.NumStrategies)
	for _, strat := range market.Strategies {
		vals := series.Values[strat]
		mean, _ := stats.Mean(vals)
		peak, _ := stats.Max(vals)
		peakDay := 0
		for i, v := range vals {
			if v == peak {
				peakDay = int(series.Days[i])
				break
			}
		}
		final := 0.0
		if len(vals) > 0 {
			final = vals[len(vals)-1]
		}
		out = append(out, Summary{
			Strategy: strat.String(),
			Mean:     mean,
			Peak:     peak,
			PeakDay:  peakDay,
			Final:    final,
		})
	}
	return out
}

// MaxAggregateShare returns the maximum share value observed for any
// strategy on any day. Used to scale the life-cycle overlay.
func MaxAggregateShare(ds *market.Dataset) float64 {
	max := 0.0
	for _, row := range ds.History {
		for _, strat := range market.Strategies {
			if row.Share[strat] > max {
				max = row.Share[strat]
			}
		}
	}
	return max
}

// TakeoverEstimate fits a least-squares line to the Opposition share from
// entryDay onward and returns its slope in share units per day. This is a
// measured counterpart to the cosmetic takeover-rate label; it says nothing
// about causality.
func TakeoverEstimate(ds *market.Dataset, entryDay int) (float64, bool) {
	if entryDay < 0 {
		entryDay = 0
	}
	var xs, ys []float64
	for _, row := range ds.History {
		if row.Day < entryDay {
			continue
		}
		xs = append(xs, float64(row.Day))
		ys = append(ys, row.Share[market.StrategyOPP])
	}
	if len(xs) < 2 {
		return 0, false
	}
	_, slope := stat.LinearRegression(xs, ys, nil, false)
	return slope, true
}

// DaySnapshot is the key-metrics panel content for one day.
type DaySnapshot struct {
	Day   int                `json:"day"`
	Found bool               `json:"found"`
	Share map[string]float64 `json:"share,omitempty"`
	Conv  map[string]float64 `json:"conversions,omitempty"`
	Churn map[string]float64 `json:"churn,omitempty"`
}

// Snapshot extracts the aggregate values for a single day. Found is false
// when the history table has no row for the day.
func Snapshot(ds *market.Dataset, day int) DaySnapshot {
	row, ok := ds.HistoryForDay(day)
	if !ok {
		return DaySnapshot{Day: day}
	}
	snap := DaySnapshot{
		Day:   day,
		Found: true,
		Share: make(map[string]float64, market.NumStrategies),
		Conv:  make(map[string]float64, market.NumStrategies),
		Churn: make(map[string]float64, market.NumStrategies),
	}
	for _, strat := range market.Strategies {
		key := strat.String()
		snap.Share[key] = row.Share[strat]
		snap.Conv[key] = row.Conversions[strat]
		snap.Churn[key] = row.Churn[strat]
	}
	return snap
}
