package allocation

import "context"

// Repository provides persistence for allocation rows.
type Repository interface {
	Create(ctx context.Context, a *AllocationDetails) error
	Get(ctx context.Context, id string) (*AllocationDetails, error)
	GetByPairing(ctx context.Context, sessionID, classificationID string) (*AllocationDetails, error)
	Update(ctx context.Context, a *AllocationDetails) error
	UpdateCounts(ctx context.Context, id string, tally, dispatcher int) error
	Delete(ctx context.Context, id string) error
	ListBySession(ctx context.Context, sessionID string) ([]AllocationDetails, error)
}

// EntryRepository provides the log entry data the ledger projects over.
type EntryRepository interface {
	ListLedgerEntries(ctx context.Context, sessionID string) ([]LedgerEntry, error)
	CountByPairing(ctx context.Context, sessionID, classificationID string) (int, error)
	DeleteByPairing(ctx context.Context, sessionID, classificationID string) (int, error)
	DeleteByRole(ctx context.Context, sessionID string, role Role) (int, error)
}
