// Package export writes dashboard data as Excel workbooks for download.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"marketviz/domain/frame"
	"marketviz/domain/market"
	"marketviz/internal/errors"
)

const sheet = "Sheet1"

// HistoryWorkbook writes the full aggregate history table as an xlsx
// payload, columns in the same order as the input file.
func HistoryWorkbook(ds *market.Dataset) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	header := []interface{}{"day"}
	for _, suffix := range []string{"share", "conv", "churn"} {
		for _, strat := range market.Strategies {
			header = append(header, fmt.Sprintf("%s_%s", strat, suffix))
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.RenderError("failed to write header row", err)
	}

	for i, row := range ds.History {
		values := []interface{}{row.Day}
		for _, strat := range market.Strategies {
			values = append(values, row.Share[strat])
		}
		for _, strat := range market.Strategies {
			values = append(values, row.Conversions[strat])
		}
		for _, strat := range market.Strategies {
			values = append(values, row.Churn[strat])
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, errors.RenderError(fmt.Sprintf("failed to write row %d", i+2), err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.RenderError("failed to serialize workbook", err)
	}
	return buf.Bytes(), nil
}

// FrameWorkbook writes one rendered frame (the cells of a single day with
// their dominant strategy) as an xlsx payload.
func FrameWorkbook(f frame.Frame) ([]byte, error) {
	wb := excelize.NewFile()
	defer wb.Close()

	header := []interface{}{"cell_id", "day", "dominant", "share", "lat", "lon", "synthetic_grid"}
	if err := wb.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, errors.RenderError("failed to write header row", err)
	}

	for i, p := range f.Points {
		values := []interface{}{p.CellID, f.Day, p.Label, p.Share, p.Lat, p.Lon, f.Synthetic}
		cell := fmt.Sprintf("A%d", i+2)
		if err := wb.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, errors.RenderError(fmt.Sprintf("failed to write row %d", i+2), err)
		}
	}

	buf, err := wb.WriteToBuffer()
	if err != nil {
		return nil, errors.RenderError("failed to serialize workbook", err)
	}
	return buf.Bytes(), nil
}
