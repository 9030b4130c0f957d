package tabular

import (
	"fmt"
	"strconv"

	"marketviz/domain/market"
	"marketviz/internal/errors"
)

// Column names of the two required tables. Metric columns that are absent
// produce a warning and parse as zero; a missing day column is fatal.
var (
	historyMetricColumns = []string{
		"FTM_share", "LB_share", "OPP_share",
		"FTM_conv", "LB_conv", "OPP_conv",
		"FTM_churn", "LB_churn", "OPP_churn",
	}
	cellShareColumns = []string{"FTM_share", "LB_share", "OPP_share"}
)

// ParseHistory converts a raw table into history rows. The returned warnings
// list any expected columns that are absent; they are non-fatal.
func ParseHistory(t *Table) ([]market.HistoryRow, []string, error) {
	if !t.HasColumn("day") {
		return nil, nil, errors.DataInvalid("history table has no 'day' column")
	}
	warnings := missingColumns(t, historyMetricColumns)

	rows := make([]market.HistoryRow, 0, len(t.Rows))
	for i, raw := range t.Rows {
		day, err := strconv.Atoi(raw["day"])
		if err != nil {
			return nil, warnings, errors.DataInvalid(
				fmt.Sprintf("history row %d has a non-integer day %q", i+1, raw["day"]))
		}
		row := market.HistoryRow{Day: day}
		for _, strat := range market.Strategies {
			key := strat.String()
			row.Share[strat] = numericOrZero(raw[key+"_share"])
			row.Conversions[strat] = numericOrZero(raw[key+"_conv"])
			row.Churn[strat] = numericOrZero(raw[key+"_churn"])
		}
		rows = append(rows, row)
	}
	return rows, warnings, nil
}

// ParseCells converts a raw table into cell-day records. Coordinates are
// optional: records get HasCoords only when both lat and lon columns exist
// and the values parse.
func ParseCells(t *Table) ([]market.CellDayRecord, []string, error) {
	for _, required := range []string{"cell_id", "day"} {
		if !t.HasColumn(required) {
			return nil, nil, errors.DataInvalid(
				fmt.Sprintf("cell-day table has no %q column", required))
		}
	}
	warnings := missingColumns(t, cellShareColumns)

	hasLat := t.HasColumn("lat")
	hasLon := t.HasColumn("lon")
	if hasLat != hasLon {
		warnings = append(warnings, "cell-day table has only one of lat/lon; coordinates ignored")
	}
	coords := hasLat && hasLon

	records := make([]market.CellDayRecord, 0, len(t.Rows))
	for i, raw := range t.Rows {
		day, err := strconv.Atoi(raw["day"])
		if err != nil {
			return nil, warnings, errors.DataInvalid(
				fmt.Sprintf("cell-day row %d has a non-integer day %q", i+1, raw["day"]))
		}
		rec := market.CellDayRecord{
			CellID: raw["cell_id"],
			Day:    day,
		}
		for _, strat := range market.Strategies {
			rec.Share[strat] = numericOrZero(raw[strat.String()+"_share"])
		}
		if coords {
			lat, latErr := strconv.ParseFloat(raw["lat"], 64)
			lon, lonErr := strconv.ParseFloat(raw["lon"], 64)
			if latErr == nil && lonErr == nil {
				rec.Lat = lat
				rec.Lon = lon
				rec.HasCoords = true
			}
		}
		records = append(records, rec)
	}
	return records, warnings, nil
}

func missingColumns(t *Table, expected []string) []string {
	var warnings []string
	for _, col := range expected {
		if !t.HasColumn(col) {
			warnings = append(warnings, fmt.Sprintf("expected column %q is absent", col))
		}
	}
	return warnings
}

// numericOrZero mirrors the tolerant numeric coercion of the reference
// dashboard: anything unparseable displays as zero rather than failing.
func numericOrZero(v string) float64 {
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
