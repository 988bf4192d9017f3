// Package yamlfile reads catalog tables from a YAML document with one
// top-level list per table:
//
//	parts:
//	  - model_number: XJ200
//	    description: filter
//	models:
//	  - model_number: XJ200
package yamlfile

import (
	"context"
	"fmt"
	"os"
	"strings"

	catalogx "github.com/tanpawarit/Chative-Parts-Finder/agent/catalog"
	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
	"gopkg.in/yaml.v3"
)

type Source struct {
	path string
	data []byte
}

var _ catalogx.Source = (*Source)(nil)

func Open(path string) *Source {
	return &Source{path: strings.TrimSpace(path)}
}

func FromBytes(data []byte) *Source {
	return &Source{data: data}
}

func (s *Source) LoadTable(ctx context.Context, name string) (*catalogx.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := s.read()
	if err != nil {
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, err)
	}

	var doc map[string][]map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("%w: table=%s: decode yaml: %w", contractx.ErrDataLoad, name, err)
	}

	key := strings.ToLower(strings.TrimSpace(name))
	records, ok := doc[key]
	if !ok {
		return nil, fmt.Errorf("%w: table=%s: document has no %q key", contractx.ErrDataLoad, name, key)
	}

	rows := make([]catalogx.Row, 0, len(records))
	for _, rec := range records {
		row := make(catalogx.Row, len(rec))
		for k, v := range rec {
			if v == nil {
				continue
			}
			row[k] = v
		}
		rows = append(rows, row)
	}
	return catalogx.NewTable(name, nil, rows), nil
}

func (s *Source) read() ([]byte, error) {
	if s == nil {
		return nil, fmt.Errorf("nil yaml source")
	}
	if s.data != nil {
		return s.data, nil
	}
	if s.path == "" {
		return nil, fmt.Errorf("yaml path is empty")
	}
	return os.ReadFile(s.path)
}
