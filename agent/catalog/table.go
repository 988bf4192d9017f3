// Package catalog holds the read-only Parts and Models tables and the part
// lookup that scans them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spf13/cast"
)

var ErrMissingField = errors.New("field is missing")

// Row is one record of a table: field name -> cell value.
type Row map[string]any

// String returns the field coerced to a string. A nil cell reads as "".
func (r Row) String(field string) (string, error) {
	v, ok := r[field]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	s, err := cast.ToStringE(v)
	if err != nil {
		return "", fmt.Errorf("field %s: %w", field, err)
	}
	return s, nil
}

// Float returns the field coerced to a float64.
func (r Row) Float(field string) (float64, error) {
	v, ok := r[field]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingField, field)
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("field %s: %w", field, err)
	}
	return f, nil
}

// Table is an ordered, read-only set of rows. The row id is the position in
// load order.
type Table struct {
	name    string
	columns []string
	rows    []Row
}

// NewTable builds a table. When columns is empty the column list is derived
// from the row keys in sorted order.
func NewTable(name string, columns []string, rows []Row) *Table {
	if len(columns) == 0 {
		columns = deriveColumns(rows)
	}
	return &Table{
		name:    name,
		columns: append([]string(nil), columns...),
		rows:    append([]Row(nil), rows...),
	}
}

// EmptyTable is the degraded-mode table left behind by a failed load.
func EmptyTable(name string) *Table {
	return &Table{name: name}
}

func (t *Table) Name() string {
	if t == nil {
		return ""
	}
	return t.name
}

func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.rows)
}

func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.columns...)
}

// Row returns the row with the given id.
func (t *Table) Row(id int) (Row, bool) {
	if t == nil || id < 0 || id >= len(t.rows) {
		return nil, false
	}
	return t.rows[id], true
}

// Each calls fn for every row in load order until fn returns false.
func (t *Table) Each(fn func(id int, row Row) bool) {
	if t == nil {
		return
	}
	for id, row := range t.rows {
		if !fn(id, row) {
			return
		}
	}
}

func deriveColumns(rows []Row) []string {
	seen := make(map[string]struct{}, 8)
	cols := make([]string, 0, 8)
	for _, row := range rows {
		for k := range row {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			cols = append(cols, k)
		}
	}
	sort.Strings(cols)
	return cols
}

// Source loads one named table. Implementations wrap contract.ErrDataLoad when
// the source is missing, malformed, or has no such table.
type Source interface {
	LoadTable(ctx context.Context, name string) (*Table, error)
}
