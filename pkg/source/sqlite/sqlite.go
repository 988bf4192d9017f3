// Package sqlite reads catalog tables from a SQLite database through gorm.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	catalogx "github.com/tanpawarit/Chative-Parts-Finder/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errNotOpen = errors.New("sqlite source is not open")

// Source maps each catalog table to the lower-cased SQL table of the same
// name, e.g. Parts -> parts.
type Source struct {
	db *gorm.DB
}

var _ catalogx.Source = (*Source)(nil)

// Open connects to an existing database file. A missing file is an error
// rather than a fresh empty database.
func Open(path string) (*Source, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("%w: sqlite path is empty", contractx.ErrDataLoad)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %w", contractx.ErrDataLoad, err)
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite: %w", contractx.ErrDataLoad, err)
	}
	return &Source{db: db}, nil
}

func (s *Source) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *Source) LoadTable(ctx context.Context, name string) (*catalogx.Table, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, errNotOpen)
	}

	tableName := strings.ToLower(strings.TrimSpace(name))
	db := s.db.WithContext(ctx)
	if !db.Migrator().HasTable(tableName) {
		return nil, fmt.Errorf("%w: table=%s: database has no table %q", contractx.ErrDataLoad, name, tableName)
	}

	columnTypes, err := db.Migrator().ColumnTypes(tableName)
	if err != nil {
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, err)
	}
	columns := make([]string, 0, len(columnTypes))
	for _, ct := range columnTypes {
		columns = append(columns, ct.Name())
	}

	var records []map[string]any
	if err := db.Table(tableName).Order("rowid").Find(&records).Error; err != nil {
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, err)
	}

	rows := make([]catalogx.Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, normalizeRow(rec))
	}
	return catalogx.NewTable(name, columns, rows), nil
}

// normalizeRow drops NULL cells and turns raw bytes into text.
func normalizeRow(rec map[string]any) catalogx.Row {
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
	return row
}
