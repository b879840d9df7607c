package allocation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/repository"
)

// Service handles allocation lifecycle operations and keeps the cached
// per-role counters consistent with the entry set.
type Service struct {
	allocations Repository
	entries     EntryRepository
	logger      *zap.Logger
}

// NewService creates a new allocation service.
func NewService(allocations Repository, entries EntryRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		allocations: allocations,
		entries:     entries,
		logger:      logger,
	}
}

// UpdateRequest describes a partial allocation update. The cached counter
// fields are deliberately absent: they are derived, never set by callers.
type UpdateRequest struct {
	ID                     string
	WeightClassificationID *string
	RequiredBags           *int
}

// Create adds an allocation for a (session, classification) pair.
func (s *Service) Create(ctx context.Context, sessionID, classificationID string, requiredBags int) (*AllocationDetails, error) {
	if strings.TrimSpace(sessionID) == "" || strings.TrimSpace(classificationID) == "" || requiredBags < 0 {
		return nil, ErrInvalidInput
	}

	existing, err := s.allocations.GetByPairing(ctx, sessionID, classificationID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("checking pairing: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateAllocation
	}

	now := time.Now()
	a := &AllocationDetails{
		ID:                     uuid.NewString(),
		TallySessionID:         sessionID,
		WeightClassificationID: classificationID,
		RequiredBags:           requiredBags,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	if err := s.allocations.Create(ctx, a); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrDuplicateAllocation
		}
		return nil, fmt.Errorf("creating allocation: %w", err)
	}

	// Orphaned entries from a previously deleted allocation still count, so
	// a freshly created row may start with non-zero counters.
	if err := s.refreshAllocation(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// Update changes the quota or classification binding of an allocation.
// Reassigning the classification is blocked while entries reference the old
// pairing, and blocked when the session already has an allocation for the new
// classification.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*AllocationDetails, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.WeightClassificationID != nil && *req.WeightClassificationID != current.WeightClassificationID {
		count, err := s.entries.CountByPairing(ctx, current.TallySessionID, current.WeightClassificationID)
		if err != nil {
			return nil, fmt.Errorf("counting entries: %w", err)
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: %d entries reference the current classification", ErrReassignmentBlocked, count)
		}

		other, err := s.allocations.GetByPairing(ctx, current.TallySessionID, *req.WeightClassificationID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("checking pairing: %w", err)
		}
		if other != nil && other.ID != current.ID {
			return nil, ErrDuplicateAllocation
		}
		updated.WeightClassificationID = *req.WeightClassificationID
	}
	if req.RequiredBags != nil {
		if *req.RequiredBags < 0 {
			return nil, ErrInvalidInput
		}
		updated.RequiredBags = *req.RequiredBags
	}

	updated.UpdatedAt = time.Now()
	if err := s.allocations.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating allocation: %w", err)
	}

	if err := s.refreshAllocation(ctx, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Get returns an allocation by ID.
func (s *Service) Get(ctx context.Context, id string) (*AllocationDetails, error) {
	a, err := s.allocations.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting allocation: %w", err)
	}
	return a, nil
}

// Delete removes an allocation row. Log entries referencing the pairing are
// left in place: the ledger keys entries by classification, so they keep
// counting toward totals, including toward a later-recreated allocation for
// the same classification. PurgeEntries exists for the operator flow that
// wants the entries gone too.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.allocations.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting allocation: %w", err)
	}

	s.logger.Info("allocation deleted",
		zap.String("id", id),
		zap.String("session_id", current.TallySessionID),
		zap.String("classification_id", current.WeightClassificationID))
	return nil
}

// PurgeEntries deletes the log entries referencing an allocation's pairing,
// returning how many were removed.
func (s *Service) PurgeEntries(ctx context.Context, id string) (int, error) {
	current, err := s.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	deleted, err := s.entries.DeleteByPairing(ctx, current.TallySessionID, current.WeightClassificationID)
	if err != nil {
		return 0, fmt.Errorf("deleting entries: %w", err)
	}
	return deleted, nil
}

// ListBySession returns a session's allocations with counters freshly
// recomputed from the entry set.
func (s *Service) ListBySession(ctx context.Context, sessionID string) ([]AllocationDetails, error) {
	allocs, err := s.allocations.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	ledger, err := s.LedgerForSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	for i := range allocs {
		allocs[i] = ledger.Snapshot(allocs[i])
	}
	return allocs, nil
}

// LedgerForSession builds a ledger over the session's current entry set.
func (s *Service) LedgerForSession(ctx context.Context, sessionID string) (*Ledger, error) {
	entries, err := s.entries.ListLedgerEntries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return NewLedger(entries), nil
}

// RefreshCounts recomputes the cached counters of every allocation in the
// session from the entry set and reports whether any had drifted.
func (s *Service) RefreshCounts(ctx context.Context, sessionID string) (bool, error) {
	allocs, err := s.allocations.ListBySession(ctx, sessionID)
	if err != nil {
		return false, fmt.Errorf("listing allocations: %w", err)
	}
	ledger, err := s.LedgerForSession(ctx, sessionID)
	if err != nil {
		return false, err
	}

	drifted := false
	for _, a := range allocs {
		fresh := ledger.Snapshot(a)
		if fresh.AllocatedBagsTally == a.AllocatedBagsTally && fresh.AllocatedBagsDispatcher == a.AllocatedBagsDispatcher {
			continue
		}
		drifted = true
		if err := s.allocations.UpdateCounts(ctx, a.ID, fresh.AllocatedBagsTally, fresh.AllocatedBagsDispatcher); err != nil {
			return drifted, fmt.Errorf("updating counts: %w", err)
		}
		s.logger.Debug("allocation counters refreshed",
			zap.String("allocation_id", a.ID),
			zap.Int("tally", fresh.AllocatedBagsTally),
			zap.Int("dispatcher", fresh.AllocatedBagsDispatcher))
	}
	return drifted, nil
}

// ResetCounts deletes the selected roles' entries for a session and
// re-snapshots the counters. Returns allocations updated and entries deleted.
func (s *Service) ResetCounts(ctx context.Context, sessionID string, resetTally, resetDispatcher bool) (int, int, error) {
	if !resetTally && !resetDispatcher {
		return 0, 0, nil
	}

	entriesDeleted := 0
	if resetTally {
		n, err := s.entries.DeleteByRole(ctx, sessionID, RoleTally)
		if err != nil {
			return 0, 0, fmt.Errorf("deleting tally entries: %w", err)
		}
		entriesDeleted += n
	}
	if resetDispatcher {
		n, err := s.entries.DeleteByRole(ctx, sessionID, RoleDispatcher)
		if err != nil {
			return 0, entriesDeleted, fmt.Errorf("deleting dispatcher entries: %w", err)
		}
		entriesDeleted += n
	}

	allocs, err := s.allocations.ListBySession(ctx, sessionID)
	if err != nil {
		return 0, entriesDeleted, fmt.Errorf("listing allocations: %w", err)
	}
	ledger, err := s.LedgerForSession(ctx, sessionID)
	if err != nil {
		return 0, entriesDeleted, err
	}

	updated := 0
	for _, a := range allocs {
		fresh := ledger.Snapshot(a)
		if err := s.allocations.UpdateCounts(ctx, a.ID, fresh.AllocatedBagsTally, fresh.AllocatedBagsDispatcher); err != nil {
			return updated, entriesDeleted, fmt.Errorf("updating counts: %w", err)
		}
		updated++
	}

	s.logger.Info("session counts reset",
		zap.String("session_id", sessionID),
		zap.Bool("tally", resetTally),
		zap.Bool("dispatcher", resetDispatcher),
		zap.Int("entries_deleted", entriesDeleted))
	return updated, entriesDeleted, nil
}

func (s *Service) refreshAllocation(ctx context.Context, a *AllocationDetails) error {
	ledger, err := s.LedgerForSession(ctx, a.TallySessionID)
	if err != nil {
		return err
	}
	fresh := ledger.Snapshot(*a)
	if err := s.allocations.UpdateCounts(ctx, a.ID, fresh.AllocatedBagsTally, fresh.AllocatedBagsDispatcher); err != nil {
		return fmt.Errorf("updating counts: %w", err)
	}
	a.AllocatedBagsTally = fresh.AllocatedBagsTally
	a.AllocatedBagsDispatcher = fresh.AllocatedBagsDispatcher
	return nil
}
