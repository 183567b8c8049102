package catalog

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedCatalog = errors.New("unsupported catalog file type")

// Table is a reference sheet as the spreadsheet reader hands it over: one
// header row and the data rows below it. Rows may be shorter than Header.
type Table struct {
	Header []string
	Rows   [][]string
}

func (t Table) Cell(row, col int) string {
	if row < 0 || row >= len(t.Rows) || col < 0 || col >= len(t.Rows[row]) {
		return ""
	}
	return t.Rows[row][col]
}

// ReadFile picks the reader from the file extension.
func ReadFile(name string, content []byte) (Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(content)
	case ".csv":
		return ReadCSV(content)
	default:
		return Table{}, fmt.Errorf("%w: %s", ErrUnsupportedCatalog, name)
	}
}

// ReadXLSX reads the first sheet. The first row with any non-blank cell is
// the header; fully blank rows are dropped.
func ReadXLSX(content []byte) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return Table{}, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, errors.New("catalog workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("read catalog sheet %s: %w", sheets[0], err)
	}
	return tableFromRows(rows), nil
}

func ReadCSV(content []byte) (Table, error) {
	content = bytes.TrimPrefix(content, []byte("\xef\xbb\xbf"))
	reader := gocsv.LazyCSVReader(bytes.NewReader(content))
	if cr, ok := reader.(*csv.Reader); ok {
		cr.FieldsPerRecord = -1
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return Table{}, fmt.Errorf("read catalog csv: %w", err)
	}
	return tableFromRows(rows), nil
}

func tableFromRows(rows [][]string) Table {
	t := Table{}
	for _, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if t.Header == nil {
			t.Header = row
			continue
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
