package prepare

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// rawRow is one record of the raw export keyed by header name.
type rawRow map[string]string

// readRawRows loads up to limit records from a CSV or XLSX export.
func readRawRows(path string, limit int) ([]rawRow, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, eris.Errorf("prepare: raw export not found: %s", path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return readCSVRows(path, limit)
	case ".xlsx":
		return readXLSXRows(path, limit)
	default:
		return nil, eris.Errorf("prepare: unsupported raw export format: %s", path)
	}
}

func readCSVRows(path string, limit int) ([]rawRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "prepare: open raw export %s", path)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "prepare: read header from %s", path)
	}

	var rows []rawRow
	for len(rows) < limit {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "prepare: read row from %s", path)
		}
		rows = append(rows, zipRow(header, record))
	}
	return rows, nil
}

func readXLSXRows(path string, limit int) ([]rawRow, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "prepare: open raw export %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("prepare: raw export has no sheets: %s", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	header := rowToStrings(sheet.Rows[0])
	var rows []rawRow
	for _, row := range sheet.Rows[1:] {
		if len(rows) >= limit {
			break
		}
		rows = append(rows, zipRow(header, rowToStrings(row)))
	}
	return rows, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, len(row.Cells))
	for i, cell := range row.Cells {
		cells[i] = cell.String()
	}
	return cells
}

func zipRow(header, record []string) rawRow {
	row := make(rawRow, len(header))
	for i, key := range header {
		if i < len(record) {
			row[key] = record[i]
		}
	}
	return row
}
