package entry

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the log entry doesn't exist.
	ErrNotFound = errors.New("log entry not found")
	// ErrInvalidInput indicates bad entry input (non-finite or non-positive weight).
	ErrInvalidInput = errors.New("invalid entry input")
	// ErrNotPermitted indicates the capability check declined the action.
	ErrNotPermitted = errors.New("action not permitted")
	// ErrCommitInFlight indicates another commit for the session is still running.
	ErrCommitInFlight = errors.New("a commit for this session is already in flight")
	// ErrNotConfirmed indicates a commit was attempted without confirming a
	// pending warning.
	ErrNotConfirmed = errors.New("attempt requires confirmation")
	// ErrTransferBlocked indicates transfer validation failed.
	ErrTransferBlocked = errors.New("transfer blocked")
)

// PartialBatchError reports a batch commit that stopped partway. Entries
// created before the failure stay committed; there is no rollback.
type PartialBatchError struct {
	Succeeded int
	Failed    int
	Err       error
}

func (e *PartialBatchError) Error() string {
	return fmt.Sprintf("batch partially committed: %d succeeded, %d failed: %v", e.Succeeded, e.Failed, e.Err)
}

func (e *PartialBatchError) Unwrap() error { return e.Err }
