package classification

import "errors"

var (
	// ErrNotFound indicates the classification doesn't exist.
	ErrNotFound = errors.New("weight classification not found")
	// ErrInvalidInput indicates invalid classification input.
	ErrInvalidInput = errors.New("invalid classification input")
	// ErrDuplicateByproduct indicates a byproduct with the same name or description exists.
	ErrDuplicateByproduct = errors.New("duplicate byproduct classification")
	// ErrDuplicateCatchAll indicates the category already has a catch-all classification.
	ErrDuplicateCatchAll = errors.New("category already has a catch-all classification")
)
