package services

import (
	"errors"

	"github.com/temcen/nutrirec/internal/catalog"
)

var (
	// ErrNotFound is returned when an anchor name is absent from the catalog.
	ErrNotFound = errors.New("food not found in catalog")

	// ErrNoCandidates is returned when the preference workflow finds no anchor.
	ErrNoCandidates = errors.New("no food satisfies the given preferences")

	// ErrInvalidInput marks non-numeric or otherwise unusable user input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidTransition marks a session operation made in the wrong state.
	ErrInvalidTransition = errors.New("invalid session transition")

	// ErrInsufficientData is returned when a sample larger than the catalog is requested.
	ErrInsufficientData = catalog.ErrInsufficientData
)
