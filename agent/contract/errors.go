package contract

import "errors"

var (
	ErrDataLoad     = errors.New("data load failed")
	ErrLookup       = errors.New("part lookup failed")
	ErrPartNotFound = errors.New("part not found")
	ErrValidation   = errors.New("validation failed")
)
