package entry

import (
	"context"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/audit"
	"github.com/plantfloor/tally/internal/domain/classification"
	"github.com/plantfloor/tally/internal/domain/session"
)

// Repository provides persistence for log entries.
type Repository interface {
	Create(ctx context.Context, e *TallyLogEntry) error
	Get(ctx context.Context, id string) (*TallyLogEntry, error)
	GetMany(ctx context.Context, ids []string) ([]TallyLogEntry, error)
	Update(ctx context.Context, e *TallyLogEntry) error
	Delete(ctx context.Context, id string) error
	ListBySession(ctx context.Context, sessionID string, role *allocation.Role) ([]TallyLogEntry, error)
	Reassign(ctx context.Context, id, targetSessionID string) error
}

// ClassificationRepository provides classification lookups for the workflow.
type ClassificationRepository interface {
	Get(ctx context.Context, id string) (*classification.WeightClassification, error)
	ListByPlant(ctx context.Context, plantID string) ([]classification.WeightClassification, error)
}

// SessionRepository provides session lookups.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*session.TallySession, error)
}

// AllocationRepository provides allocation lookups for quota checks.
type AllocationRepository interface {
	GetByPairing(ctx context.Context, sessionID, classificationID string) (*allocation.AllocationDetails, error)
}

// LedgerProvider builds the entry-count ledger for a session.
type LedgerProvider interface {
	LedgerForSession(ctx context.Context, sessionID string) (*allocation.Ledger, error)
}

// CountRefresher re-snapshots a session's cached allocation counters from the
// entry set. Invoked after every entry mutation.
type CountRefresher interface {
	RefreshCounts(ctx context.Context, sessionID string) (bool, error)
}

// AuditLogger records field-level changes to entries.
type AuditLogger interface {
	LogEntryEdit(ctx context.Context, entryID, actor string, changes map[string]audit.FieldChange) error
}
