// Package source picks and opens the table source named by configuration.
package source

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	catalogx "github.com/tanpawarit/Chative-Parts-Finder/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	remotex "github.com/tanpawarit/Chative-Parts-Finder/pkg/remote"
	"github.com/tanpawarit/Chative-Parts-Finder/pkg/source/postgres"
	"github.com/tanpawarit/Chative-Parts-Finder/pkg/source/sqlite"
	"github.com/tanpawarit/Chative-Parts-Finder/pkg/source/xlsx"
	"github.com/tanpawarit/Chative-Parts-Finder/pkg/source/yamlfile"
)

const (
	KindXLSX     = "xlsx"
	KindSQLite   = "sqlite"
	KindPostgres = "postgres"
	KindYAML     = "yaml"
	KindRemote   = "remote"
)

const DefaultPath = "parts_database.xlsx"

type Config struct {
	Kind        string        `split_words:"true" default:"xlsx"`
	Path        string        `split_words:"true" default:"parts_database.xlsx"`
	DSN         string        `envconfig:"DSN"`
	URL         string        `envconfig:"URL"`
	Token       string        `split_words:"true"`
	Timeout     time.Duration `split_words:"true" default:"10s"`
	OrderColumn string        `split_words:"true"`
}

// Open returns the configured source. The remote kind downloads its workbook
// here, so ctx bounds that request.
func Open(ctx context.Context, cfg Config, opts ...remotex.Option) (catalogx.Source, error) {
	kind := strings.ToLower(strings.TrimSpace(cfg.Kind))
	if kind == "" {
		kind = KindXLSX
	}
	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		path = DefaultPath
	}

	switch kind {
	case KindXLSX:
		return xlsx.Open(path), nil
	case KindYAML:
		return yamlfile.Open(path), nil
	case KindSQLite:
		src, err := sqlite.Open(path)
		if err != nil {
			return nil, err
		}
		return src, nil
	case KindPostgres:
		src, err := postgres.New(postgres.Config{DSN: cfg.DSN, OrderColumn: cfg.OrderColumn})
		if err != nil {
			return nil, err
		}
		return src, nil
	case KindRemote:
		client, err := remotex.NewClient(remotex.Config{
			URL:     cfg.URL,
			Token:   cfg.Token,
			Timeout: cfg.Timeout,
		}, opts...)
		if err != nil {
			return nil, fmt.Errorf("%w: remote source: %w", contractx.ErrDataLoad, err)
		}
		raw, err := client.Fetch(ctx)
		if err != nil {
			return nil, fmt.Errorf("%w: remote source: %w", contractx.ErrDataLoad, err)
		}
		return xlsx.FromBytes(raw), nil
	default:
		return nil, fmt.Errorf("%w: unknown source kind %q", contractx.ErrDataLoad, cfg.Kind)
	}
}

// Close releases src when it holds a connection.
func Close(src catalogx.Source) error {
	if c, ok := src.(io.Closer); ok {
		return c.Close()
	}
	return nil
}
