// Package xlsx reads catalog tables from the sheets of an Excel workbook.
package xlsx

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	catalogx "github.com/tanpawarit/Chative-Parts-Finder/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	"github.com/xuri/excelize/v2"
)

// Source loads each table from the sheet of the same name. The first row of a
// sheet is its header.
type Source struct {
	path string
	data []byte
}

var _ catalogx.Source = (*Source)(nil)

// Open reads the workbook at path on every LoadTable call.
func Open(path string) *Source {
	return &Source{path: strings.TrimSpace(path)}
}

// FromBytes reads an in-memory workbook, e.g. one fetched over HTTP.
func FromBytes(data []byte) *Source {
	return &Source{data: data}
}

func (s *Source) LoadTable(ctx context.Context, name string) (*catalogx.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := s.open()
	if err != nil {
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, err)
	}
	defer f.Close()

	idx, err := f.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, fmt.Errorf("%w: table=%s: workbook has no such sheet", contractx.ErrDataLoad, name)
	}

	// Raw values, so number formats such as currency do not leak into cells.
	rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, err)
	}
	return buildTable(name, rows)
}

func (s *Source) open() (*excelize.File, error) {
	if s == nil {
		return nil, fmt.Errorf("nil workbook source")
	}
	if s.data != nil {
		return excelize.OpenReader(bytes.NewReader(s.data))
	}
	if s.path == "" {
		return nil, fmt.Errorf("workbook path is empty")
	}
	return excelize.OpenFile(s.path)
}

func buildTable(name string, rows [][]string) (*catalogx.Table, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: table=%s: sheet is empty", contractx.ErrDataLoad, name)
	}

	header := make([]string, len(rows[0]))
	columns := make([]string, 0, len(rows[0]))
	for i, cell := range rows[0] {
		col := strings.TrimSpace(cell)
		header[i] = col
		if col != "" {
			columns = append(columns, col)
		}
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: table=%s: header row is empty", contractx.ErrDataLoad, name)
	}

	records := make([]catalogx.Row, 0, len(rows)-1)
	for _, cells := range rows[1:] {
		row := make(catalogx.Row, len(columns))
		for i, cell := range cells {
			if i >= len(header) || header[i] == "" || cell == "" {
				continue
			}
			row[header[i]] = cell
		}
		if len(row) == 0 {
			continue
		}
		records = append(records, row)
	}

	return catalogx.NewTable(name, columns, records), nil
}
