package tabular

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketviz/domain/market"
)

const historyCSV = `day,FTM_share,LB_share,OPP_share,FTM_conv,LB_conv,OPP_conv,FTM_churn,LB_churn,OPP_churn
0,120.5,80.0,0.0,12,8,0,1,2,0
1,118.0,82.5,3.5,10,9,2,2,1,1
`

const cellsCSV = `cell_id,day,FTM_share,LB_share,OPP_share,lat,lon
c001,0,0.6,0.3,0.1,-26.25,27.85
c002,0,0.2,0.5,0.3,-26.26,27.86
c001,1,0.5,0.3,0.2,-26.25,27.85
c002,1,0.1,0.4,0.5,-26.26,27.86
`

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTableCSV(t *testing.T) {
	path := writeTemp(t, "history.csv", historyCSV)

	table, err := NewDataReader(path).ReadTable()
	require.NoError(t, err)

	assert.Len(t, table.Headers, 10)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, "120.5", table.Rows[0]["FTM_share"])
	assert.True(t, table.HasColumn("OPP_churn"))
	assert.False(t, table.HasColumn("nope"))
}

func TestReadTableFromBytes(t *testing.T) {
	table, err := NewDataReaderFromBytes("history.csv", []byte(historyCSV)).ReadTable()
	require.NoError(t, err)
	assert.Len(t, table.Rows, 2)
}

func TestReadTableMissingFile(t *testing.T) {
	_, err := NewDataReader(filepath.Join(t.TempDir(), "absent.csv")).ReadTable()
	assert.Error(t, err)
}

func TestReadTableHeaderOnly(t *testing.T) {
	path := writeTemp(t, "empty.csv", "day,FTM_share\n")
	_, err := NewDataReader(path).ReadTable()
	assert.Error(t, err)
}

func TestParseHistory(t *testing.T) {
	table, err := NewDataReaderFromBytes("history.csv", []byte(historyCSV)).ReadTable()
	require.NoError(t, err)

	rows, warnings, err := ParseHistory(table)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, rows, 2)

	assert.Equal(t, 0, rows[0].Day)
	assert.Equal(t, 120.5, rows[0].Share[market.StrategyFTM])
	assert.Equal(t, 9.0, rows[1].Conversions[market.StrategyLB])
	assert.Equal(t, 1.0, rows[1].Churn[market.StrategyOPP])
}

func TestParseHistoryWarnsOnMissingColumns(t *testing.T) {
	table, err := NewDataReaderFromBytes("h.csv", []byte("day,FTM_share\n0,1.0\n")).ReadTable()
	require.NoError(t, err)

	rows, warnings, err := ParseHistory(table)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	// All metric columns except FTM_share should be flagged.
	assert.Len(t, warnings, 8)
	assert.Equal(t, 0.0, rows[0].Share[market.StrategyLB])
}

func TestParseHistoryRequiresDayColumn(t *testing.T) {
	table, err := NewDataReaderFromBytes("h.csv", []byte("FTM_share\n1.0\n")).ReadTable()
	require.NoError(t, err)

	_, _, err = ParseHistory(table)
	assert.Error(t, err)
}

func TestParseHistoryRejectsNonIntegerDay(t *testing.T) {
	table, err := NewDataReaderFromBytes("h.csv", []byte("day,FTM_share\nxyz,1.0\n")).ReadTable()
	require.NoError(t, err)

	_, _, err = ParseHistory(table)
	assert.Error(t, err)
}

func TestParseCellsWithCoordinates(t *testing.T) {
	table, err := NewDataReaderFromBytes("cells.csv", []byte(cellsCSV)).ReadTable()
	require.NoError(t, err)

	records, warnings, err := ParseCells(table)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 4)

	assert.Equal(t, "c001", records[0].CellID)
	assert.True(t, records[0].HasCoords)
	assert.Equal(t, -26.25, records[0].Lat)
	assert.Equal(t, 0.3, records[1].Share[market.StrategyOPP])
}

func TestParseCellsWithoutCoordinates(t *testing.T) {
	csv := "cell_id,day,FTM_share,LB_share,OPP_share\nc1,0,0.4,0.4,0.4\n"
	table, err := NewDataReaderFromBytes("cells.csv", []byte(csv)).ReadTable()
	require.NoError(t, err)

	records, warnings, err := ParseCells(table)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, records, 1)
	assert.False(t, records[0].HasCoords)
}

func TestParseCellsHalfCoordinatesWarn(t *testing.T) {
	csv := "cell_id,day,FTM_share,LB_share,OPP_share,lat\nc1,0,0.4,0.4,0.4,-26.2\n"
	table, err := NewDataReaderFromBytes("cells.csv", []byte(csv)).ReadTable()
	require.NoError(t, err)

	records, warnings, err := ParseCells(table)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.False(t, records[0].HasCoords)
	assert.NotEmpty(t, warnings)
}

func TestNumericOrZeroTolerance(t *testing.T) {
	assert.Equal(t, 0.0, numericOrZero(""))
	assert.Equal(t, 0.0, numericOrZero("n/a"))
	assert.Equal(t, -1.5, numericOrZero("-1.5"))
}
