package catalog

import "errors"

var (
	// ErrEmptyCatalog is returned when a loader yields no rows.
	ErrEmptyCatalog = errors.New("catalog is empty")
	// ErrMissingColumn is returned when a required column is absent or has no values.
	ErrMissingColumn = errors.New("required column missing")
	// ErrInvalidRecord is returned for rows that violate the catalog schema.
	ErrInvalidRecord = errors.New("invalid catalog record")
	// ErrDuplicateName is returned when a store is built from records with repeated names.
	ErrDuplicateName = errors.New("duplicate food name")
	// ErrInsufficientData is returned when a sample larger than the catalog is requested.
	ErrInsufficientData = errors.New("insufficient data")
)
