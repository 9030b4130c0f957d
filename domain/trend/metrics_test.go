package trend

import (
	"math"
	"testing"

	"marketviz/domain/market"
)

func rampDataset(t *testing.T, days int) *market.Dataset {
	t.Helper()
	history := make([]market.HistoryRow, days)
	for d := 0; d < days; d++ {
		history[d] = market.HistoryRow{
			Day: d,
			Share: [market.NumStrategies]float64{
				100 - float64(d), // FTM declines
				50,               // LB flat
				float64(d) * 0.5, // OPP ramps at 0.5/day
			},
			Conversions: [market.NumStrategies]float64{1, 2, 3},
			Churn:       [market.NumStrategies]float64{3, 2, 1},
		}
	}
	cells := []market.CellDayRecord{{CellID: "c", Day: 0}}
	ds, err := market.NewDataset(history, cells, nil)
	if err != nil {
		t.Fatalf("NewDataset: %v", err)
	}
	return ds
}

func TestExtractSeriesOrderAndLength(t *testing.T) {
	ds := rampDataset(t, 10)
	s := Extract(ds, MetricShare)

	if len(s.Days) != 10 {
		t.Fatalf("series length %d, want 10", len(s.Days))
	}
	if s.Values[market.StrategyFTM][0] != 100 {
		t.Errorf("FTM[0] = %v, want 100", s.Values[market.StrategyFTM][0])
	}
	if s.Values[market.StrategyOPP][9] != 4.5 {
		t.Errorf("OPP[9] = %v, want 4.5", s.Values[market.StrategyOPP][9])
	}
	if got := s.ByKey["LB"][5]; got != 50 {
		t.Errorf("ByKey LB[5] = %v, want 50", got)
	}
}

func TestExtractOtherMetrics(t *testing.T) {
	ds := rampDataset(t, 4)
	conv := Extract(ds, MetricConversions)
	churn := Extract(ds, MetricChurn)
	if conv.Values[market.StrategyOPP][0] != 3 {
		t.Errorf("conversions OPP = %v, want 3", conv.Values[market.StrategyOPP][0])
	}
	if churn.Values[market.StrategyFTM][0] != 3 {
		t.Errorf("churn FTM = %v, want 3", churn.Values[market.StrategyFTM][0])
	}
}

func TestSummaries(t *testing.T) {
	ds := rampDataset(t, 11)
	sums := Summaries(ds)
	if len(sums) != market.NumStrategies {
		t.Fatalf("got %d summaries", len(sums))
	}
	ftm := sums[0]
	if ftm.Strategy != "FTM" {
		t.Fatalf("first summary is %s, want FTM (canonical order)", ftm.Strategy)
	}
	if ftm.Peak != 100 || ftm.PeakDay != 0 {
		t.Errorf("FTM peak %v on day %d, want 100 on day 0", ftm.Peak, ftm.PeakDay)
	}
	if ftm.Final != 90 {
		t.Errorf("FTM final %v, want 90", ftm.Final)
	}
	if math.Abs(ftm.Mean-95) > 1e-9 {
		t.Errorf("FTM mean %v, want 95", ftm.Mean)
	}
}

func TestMaxAggregateShare(t *testing.T) {
	ds := rampDataset(t, 11)
	if got := MaxAggregateShare(ds); got != 100 {
		t.Errorf("MaxAggregateShare = %v, want 100", got)
	}
}

func TestTakeoverEstimateRecoversRampSlope(t *testing.T) {
	ds := rampDataset(t, 100)
	slope, ok := TakeoverEstimate(ds, 20)
	if !ok {
		t.Fatal("expected an estimate")
	}
	if math.Abs(slope-0.5) > 1e-9 {
		t.Errorf("slope = %v, want 0.5", slope)
	}
}

func TestTakeoverEstimateNeedsTwoPoints(t *testing.T) {
	ds := rampDataset(t, 10)
	if _, ok := TakeoverEstimate(ds, 9); ok {
		t.Error("one usable day should not produce an estimate")
	}
	if _, ok := TakeoverEstimate(ds, 500); ok {
		t.Error("entry past the end should not produce an estimate")
	}
}

func TestSnapshot(t *testing.T) {
	ds := rampDataset(t, 10)
	snap := Snapshot(ds, 4)
	if !snap.Found {
		t.Fatal("day 4 should be found")
	}
	if snap.Share["OPP"] != 2.0 {
		t.Errorf("OPP share = %v, want 2.0", snap.Share["OPP"])
	}

	missing := Snapshot(ds, 99)
	if missing.Found {
		t.Error("day 99 should not be found")
	}
}
