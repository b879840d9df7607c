package session

import (
	"context"
	"time"

	"github.com/plantfloor/tally/internal/domain/allocation"
)

// ListOptions filters session listings.
type ListOptions struct {
	CustomerID string
	PlantID    string
	Status     Status
	Date       *time.Time
	Limit      int
	Offset     int
}

// Repository provides persistence for tally sessions.
type Repository interface {
	Create(ctx context.Context, sess *TallySession) error
	Get(ctx context.Context, id string) (*TallySession, error)
	Update(ctx context.Context, sess *TallySession) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, opts ListOptions) ([]TallySession, error)
	Dates(ctx context.Context, opts ListOptions) ([]time.Time, error)
	MaxSessionNumber(ctx context.Context, customerID string) (int, error)
}

// CustomerRepository verifies customer existence.
type CustomerRepository interface {
	Exists(ctx context.Context, customerID string) (bool, error)
}

// PlantRepository verifies plant existence.
type PlantRepository interface {
	Exists(ctx context.Context, plantID string) (bool, error)
}

// AllocationRepository provides allocation rows for reconciliation.
type AllocationRepository interface {
	ListBySession(ctx context.Context, sessionID string) ([]allocation.AllocationDetails, error)
}

// EntryRepository provides the ledger view of a session's entries.
type EntryRepository interface {
	ListLedgerEntries(ctx context.Context, sessionID string) ([]allocation.LedgerEntry, error)
}
