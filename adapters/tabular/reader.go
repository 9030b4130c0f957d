// Package tabular reads the flat input tables (CSV or XLSX) and parses them
// into the typed history and cell-day records.
package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Table is a raw tabular file: headers plus string-valued rows keyed by
// header name.
type Table struct {
	Headers []string
	Rows    []map[string]string
}

// HasColumn reports whether the table carries the named header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// DataReader handles reading Excel and CSV files, from disk or from an
// in-memory payload (the remote-URL variant fetches bytes first).
type DataReader struct {
	name     string
	fileType string // "xlsx" or "csv"
	payload  []byte // nil means read from disk
}

// NewDataReader creates a reader for a file on disk.
func NewDataReader(filePath string) *DataReader {
	return &DataReader{name: filePath, fileType: typeFor(filePath)}
}

// NewDataReaderFromBytes creates a reader over an already-fetched payload.
// The name is used only for type detection and log messages.
func NewDataReaderFromBytes(name string, payload []byte) *DataReader {
	return &DataReader{name: name, fileType: typeFor(name), payload: payload}
}

func typeFor(name string) string {
	if strings.ToLower(filepath.Ext(name)) == ".xlsx" {
		return "xlsx"
	}
	return "csv"
}

// ReadTable reads the file into a Table.
func (r *DataReader) ReadTable() (*Table, error) {
	log.Printf("[DataReader] Reading %s file: %s", r.fileType, r.name)

	data := r.payload
	if data == nil {
		b, err := os.ReadFile(r.name)
		if err != nil {
			return nil, fmt.Errorf("%s file not readable: %w", strings.ToUpper(r.fileType), err)
		}
		data = b
	}

	switch r.fileType {
	case "csv":
		return r.readCSV(data)
	case "xlsx":
		return r.readExcel(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", r.fileType)
	}
}

func (r *DataReader) readCSV(data []byte) (*Table, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1

	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	log.Printf("[DataReader] CSV read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	if len(rows) < 2 {
		return nil, fmt.Errorf("CSV file must have at least a header row and one data row")
	}
	return processRows(rows)
}

func (r *DataReader) readExcel(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	// Always use the first sheet.
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("Excel file must have at least a header row and one data row")
	}
	return processRows(rows)
}

// processRows converts raw string rows into Table format.
func processRows(rows [][]string) (*Table, error) {
	headerRow := rows[0]
	headers := make([]string, len(headerRow))
	for i, header := range headerRow {
		headers[i] = strings.TrimSpace(header)
	}

	dataRows := make([]map[string]string, 0, len(rows)-1)
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowData := make(map[string]string, len(headers))
		for j, cell := range row {
			if j < len(headers) {
				rowData[headers[j]] = strings.TrimSpace(cell)
			}
		}
		dataRows = append(dataRows, rowData)
	}

	return &Table{Headers: headers, Rows: dataRows}, nil
}
