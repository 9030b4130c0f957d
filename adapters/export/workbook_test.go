package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketviz/adapters/tabular"
	"marketviz/domain/frame"
	"marketviz/domain/market"
)

func TestHistoryWorkbook(t *testing.T) {
	history := []market.HistoryRow{
		{Day: 0, Share: [market.NumStrategies]float64{10, 5, 0}},
		{Day: 1, Share: [market.NumStrategies]float64{9, 6, 1}},
	}
	cells := []market.CellDayRecord{{CellID: "c", Day: 0}}
	ds, err := market.NewDataset(history, cells, nil)
	require.NoError(t, err)

	payload, err := HistoryWorkbook(ds)
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	// The workbook must read back through the same tabular reader the
	// dashboard uses for xlsx inputs.
	table, err := tabular.NewDataReaderFromBytes("history.xlsx", payload).ReadTable()
	require.NoError(t, err)
	assert.Equal(t, "day", table.Headers[0])
	assert.True(t, table.HasColumn("OPP_churn"))
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "10", table.Rows[0]["FTM_share"])
}

func TestFrameWorkbook(t *testing.T) {
	f := frame.Frame{
		Day: 7,
		Points: []frame.Point{
			{CellID: "c1", Label: "FTM", Share: 0.6, Lat: -26.2, Lon: 27.8},
			{CellID: "c2", Label: "OPP", Share: 0.5, Lat: -26.3, Lon: 27.9},
		},
	}
	payload, err := FrameWorkbook(f)
	require.NoError(t, err)

	table, err := tabular.NewDataReaderFromBytes("frame.xlsx", payload).ReadTable()
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "FTM", table.Rows[0]["dominant"])
	assert.Equal(t, "7", table.Rows[0]["day"])
}
