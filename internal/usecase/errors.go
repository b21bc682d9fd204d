package usecase

import "errors"

// Error kinds returned by the services. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrInvalidInput = errors.New("invalid input")
	ErrConflict     = errors.New("conflict")
	ErrNotFound     = errors.New("not found")
	ErrStoreFailure = errors.New("store failure")
)
