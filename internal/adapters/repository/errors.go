package repository

import "errors"

// Sentinel kinds for repository errors.
var (
	ErrNotFound       = errors.New("not found")
	ErrEmptyCatalog   = errors.New("catalog has no problems")
	ErrDuplicateID    = errors.New("duplicate problem id in catalog")
	ErrInvalidProblem = errors.New("invalid catalog problem")
)
