package catalog

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
)

// Catalog is the in-memory data store: the Parts table plus the Models table,
// which is carried along but not consulted by any lookup.
type Catalog struct {
	Parts  *Table
	Models *Table
}

var _ contractx.PartFinder = (*Catalog)(nil)

func New(parts, models *Table) *Catalog {
	if parts == nil {
		parts = EmptyTable(contractx.TableParts)
	}
	if models == nil {
		models = EmptyTable(contractx.TableModels)
	}
	return &Catalog{Parts: parts, Models: models}
}

func (c *Catalog) FindPart(modelNumber string, description string) (contractx.PartRecord, error) {
	if c == nil {
		return contractx.PartRecord{}, contractx.ErrPartNotFound
	}
	return FindPart(c.Parts, modelNumber, description)
}

// LoadResult reports what a Load produced. Tables that failed are present but
// empty, and their errors are listed in Errors.
type LoadResult struct {
	Catalog *Catalog
	Errors  []error
}

func (r LoadResult) Degraded() bool {
	return len(r.Errors) > 0
}

// Load reads the Parts and Models tables from src independently. It never
// fails as a whole: a table that cannot be loaded is replaced by an empty one
// and the reason is returned in the result for the caller to report.
func Load(ctx context.Context, src Source) LoadResult {
	res := LoadResult{}
	tables := make(map[string]*Table, 2)

	for _, name := range []string{contractx.TableParts, contractx.TableModels} {
		t, err := loadTable(ctx, src, name)
		if err != nil {
			res.Errors = append(res.Errors, err)
			t = EmptyTable(name)
		}
		tables[name] = t
	}

	res.Catalog = New(tables[contractx.TableParts], tables[contractx.TableModels])
	return res
}

func loadTable(ctx context.Context, src Source, name string) (*Table, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: table=%s: no data source configured", contractx.ErrDataLoad, name)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, err)
	}

	t, err := src.LoadTable(ctx, name)
	if err != nil {
		if errors.Is(err, contractx.ErrDataLoad) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: table=%s: %w", contractx.ErrDataLoad, name, err)
	}
	if t == nil {
		return nil, fmt.Errorf("%w: table=%s: source returned no table", contractx.ErrDataLoad, name)
	}
	return t, nil
}
