package session

import "errors"

var (
	// ErrSessionNotFound indicates the session doesn't exist.
	ErrSessionNotFound = errors.New("tally session not found")
	// ErrCustomerNotFound indicates the referenced customer doesn't exist.
	ErrCustomerNotFound = errors.New("customer not found")
	// ErrPlantNotFound indicates the referenced plant doesn't exist.
	ErrPlantNotFound = errors.New("plant not found")
	// ErrInvalidInput indicates invalid session input.
	ErrInvalidInput = errors.New("invalid session input")
)
