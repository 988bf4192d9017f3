// Package postgres reads catalog tables from PostgreSQL through bun.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	catalogx "github.com/tanpawarit/Chative-Parts-Finder/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

type Config struct {
	DSN         string
	OrderColumn string
}

// Source maps each catalog table to the lower-cased table of the same name in
// the connection's current schema.
type Source struct {
	db          *bun.DB
	orderColumn string
}

var _ catalogx.Source = (*Source)(nil)

// New prepares a connection pool. No connection is made until the first
// query.
func New(cfg Config) (*Source, error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is empty", contractx.ErrDataLoad)
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	return &Source{
		db:          bun.NewDB(sqldb, pgdialect.New()),
		orderColumn: strings.TrimSpace(cfg.OrderColumn),
	}, nil
}

func (s *Source) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Source) LoadTable(ctx context.Context, name string) (*catalogx.Table, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("%w: table=%s: postgres source is not open", contractx.ErrDataLoad, name)
	}

	tableName := strings.ToLower(strings.TrimSpace(name))
	columns, err := s.columns(ctx, tableName)
	if err != nil {
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("%w: table=%s: database has no table %q", contractx.ErrDataLoad, name, tableName)
	}

	var records []map[string]interface{}
	if err := s.selectQuery(tableName).Scan(ctx, &records); err != nil {
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, err)
	}

	rows := make([]catalogx.Row, 0, len(records))
	for _, rec := range records {
		row := make(catalogx.Row, len(rec))
		for k, v := range rec {
			switch val := v.(type) {
			case nil:
				continue
			case []byte:
				row[k] = string(val)
			default:
				row[k] = val
			}
		}
		rows = append(rows, row)
	}
	return catalogx.NewTable(name, columns, rows), nil
}

func (s *Source) selectQuery(tableName string) *bun.SelectQuery {
	q := s.db.NewSelect().Table(tableName)
	if s.orderColumn != "" {
		q = q.OrderExpr("? ASC", bun.Ident(s.orderColumn))
	}
	return q
}

func (s *Source) columns(ctx context.Context, tableName string) ([]string, error) {
	var columns []string
	err := s.db.NewSelect().
		TableExpr("information_schema.columns").
		Column("column_name").
		Where("table_schema = current_schema()").
		Where("table_name = ?", tableName).
		OrderExpr("ordinal_position").
		Scan(ctx, &columns)
	if err != nil {
		return nil, err
	}
	return columns, nil
}
