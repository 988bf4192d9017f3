package catalog

import (
	"errors"
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/Chative-Parts-Finder/agent/contract"
)

// FindPart returns the first row, in load order, whose model_number equals
// modelNumber exactly and whose description equals description ignoring case.
//
// A row without a model number never matches. A model-matching row that
// cannot be read stops the scan with an error wrapping contract.ErrLookup. No match returns contract.ErrPartNotFound.
func FindPart(t *Table, modelNumber string, description string) (contractx.PartRecord, error) {
	if t.Len() == 0 {
		return contractx.PartRecord{}, fmt.Errorf("%w: table is empty", contractx.ErrPartNotFound)
	}

	want := strings.ToLower(description)
	var (
		found   contractx.PartRecord
		matched bool
		scanErr error
	)

	t.Each(func(id int, row Row) bool {
		model, err := row.String(contractx.FieldModelNumber)
		if errors.Is(err, ErrMissingField) {
			return true
		}
		if err != nil {
			scanErr = fmt.Errorf("%w: row=%d: %w", contractx.ErrLookup, id, err)
			return false
		}
		if model != modelNumber {
			return true
		}

		desc, err := row.String(contractx.FieldDescription)
		if err != nil {
			scanErr = fmt.Errorf("%w: row=%d: %w", contractx.ErrLookup, id, err)
			return false
		}
		if strings.ToLower(desc) != want {
			return true
		}

		rec, err := decodePart(row)
		if err != nil {
			scanErr = fmt.Errorf("%w: row=%d: %w", contractx.ErrLookup, id, err)
			return false
		}
		found, matched = rec, true
		return false
	})

	if scanErr != nil {
		return contractx.PartRecord{}, scanErr
	}
	if !matched {
		return contractx.PartRecord{}, fmt.Errorf("%w: model=%s description=%q", contractx.ErrPartNotFound, modelNumber, description)
	}
	return found, nil
}

func decodePart(row Row) (contractx.PartRecord, error) {
	var (
		rec contractx.PartRecord
		err error
	)

	if rec.ModelNumber, err = row.String(contractx.FieldModelNumber); err != nil {
		return rec, err
	}
	if rec.Description, err = row.String(contractx.FieldDescription); err != nil {
		return rec, err
	}
	if rec.PartNumber, err = row.String(contractx.FieldPartNumber); err != nil {
		return rec, err
	}
	if rec.Type, err = row.String(contractx.FieldType); err != nil {
		return rec, err
	}
	if rec.YearSold, err = row.String(contractx.FieldYearSold); err != nil {
		return rec, err
	}
	if rec.Price, err = row.Float(contractx.FieldPrice); err != nil {
		return rec, err
	}
	if rec.Price < 0 {
		return rec, fmt.Errorf("field %s: negative price %v", contractx.FieldPrice, rec.Price)
	}
	return rec, nil
}
