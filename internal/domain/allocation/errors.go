package allocation

import "errors"

var (
	// ErrNotFound indicates the allocation doesn't exist.
	ErrNotFound = errors.New("allocation not found")
	// ErrInvalidInput indicates invalid allocation input.
	ErrInvalidInput = errors.New("invalid allocation input")
	// ErrDuplicateAllocation indicates the session already has an allocation
	// for the classification.
	ErrDuplicateAllocation = errors.New("allocation already exists for this session and classification")
	// ErrReassignmentBlocked indicates the classification cannot change while
	// log entries still reference the current pairing.
	ErrReassignmentBlocked = errors.New("classification reassignment blocked by existing log entries")
)
