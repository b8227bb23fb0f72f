// Package spreadsheet reads tabular uploads into header-keyed rows.
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrNoData indicates a workbook without a header row.
var ErrNoData = errors.New("spreadsheet contains no data")

// Row is one data row. Number is the 1-based spreadsheet row it came from,
// so skipped blank lines do not shift failure reports.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the trimmed cell value for a header, and whether the column
// exists with a non-empty value.
func (r Row) Get(header string) (string, bool) {
	value, ok := r.Values[header]
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

// Reader defines the interface for tabular file parsing. The first row is
// treated as headers; header names are whitespace-trimmed.
type Reader interface {
	Read(r io.Reader) (headers []string, rows []Row, err error)
}

// ExcelReader implements Reader for .xlsx/.xls workbooks via excelize.
type ExcelReader struct{}

// NewExcelReader creates a new ExcelReader
func NewExcelReader() *ExcelReader {
	return &ExcelReader{}
}

// Read parses the first sheet of the workbook. Rows with no non-empty cell
// are skipped; rows shorter than the header row are padded with empty values.
func (er *ExcelReader) Read(r io.Reader) ([]string, []Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrNoData
	}

	cells, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(cells) == 0 {
		return nil, nil, ErrNoData
	}

	headers := make([]string, 0, len(cells[0]))
	for _, h := range cells[0] {
		headers = append(headers, strings.TrimSpace(h))
	}

	rows := make([]Row, 0, len(cells)-1)
	for i, line := range cells[1:] {
		values := make(map[string]string, len(headers))
		empty := true
		for col, header := range headers {
			if header == "" {
				continue
			}
			value := ""
			if col < len(line) {
				value = line[col]
			}
			if strings.TrimSpace(value) != "" {
				empty = false
			}
			values[header] = value
		}
		if empty {
			continue
		}
		// +2: headers occupy row 1 and the slice is zero-based
		rows = append(rows, Row{Number: i + 2, Values: values})
	}

	return headers, rows, nil
}
