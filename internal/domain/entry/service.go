package entry

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/audit"
	"github.com/plantfloor/tally/internal/domain/session"
	"github.com/plantfloor/tally/internal/repository"
)

// Service handles log entry queries, edits, deletion and transfer. Every
// mutation re-snapshots the affected sessions' allocation counters.
type Service struct {
	entries         Repository
	sessions        SessionRepository
	classifications ClassificationRepository
	refresher       CountRefresher
	audits          AuditLogger
	logger          *zap.Logger
}

// NewService creates a new entry service.
func NewService(
	entries Repository,
	sessions SessionRepository,
	classifications ClassificationRepository,
	refresher CountRefresher,
	audits AuditLogger,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		entries:         entries,
		sessions:        sessions,
		classifications: classifications,
		refresher:       refresher,
		audits:          audits,
		logger:          logger,
	}
}

// UpdateRequest describes a partial entry edit. Actor identifies who edited,
// for the audit trail.
type UpdateRequest struct {
	ID     string
	Actor  string
	Weight *float64
	Heads  *int
	Notes  *string
}

// Get returns a log entry by ID.
func (s *Service) Get(ctx context.Context, id string) (*TallyLogEntry, error) {
	e, err := s.entries.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting entry: %w", err)
	}
	return e, nil
}

// ListBySession returns a session's entries, newest first, optionally
// filtered by role. An empty result is a valid state, not an error.
func (s *Service) ListBySession(ctx context.Context, sessionID string, role *allocation.Role) ([]TallyLogEntry, error) {
	return s.entries.ListBySession(ctx, sessionID, role)
}

// Update edits an entry's weight, heads or notes, recording the field changes
// in the audit trail.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*TallyLogEntry, error) {
	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	changes := make(map[string]audit.FieldChange)
	if req.Weight != nil && *req.Weight != current.Weight {
		if !validWeight(*req.Weight) {
			return nil, ErrInvalidInput
		}
		changes["weight"] = audit.FieldChange{Old: current.Weight, New: *req.Weight}
		updated.Weight = *req.Weight
	}
	if req.Heads != nil && *req.Heads != current.Heads {
		if *req.Heads <= 0 {
			return nil, ErrInvalidInput
		}
		changes["heads"] = audit.FieldChange{Old: current.Heads, New: *req.Heads}
		updated.Heads = *req.Heads
	}
	if req.Notes != nil && *req.Notes != current.Notes {
		changes["notes"] = audit.FieldChange{Old: current.Notes, New: *req.Notes}
		updated.Notes = *req.Notes
	}
	if len(changes) == 0 {
		return current, nil
	}

	if err := s.entries.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating entry: %w", err)
	}
	if s.audits != nil {
		if err := s.audits.LogEntryEdit(ctx, updated.ID, req.Actor, changes); err != nil {
			s.logger.Error("writing entry audit", zap.String("entry_id", updated.ID), zap.Error(err))
		}
	}
	s.refresh(ctx, updated.TallySessionID)
	return &updated, nil
}

// Delete removes a single entry and re-snapshots its session's counters.
func (s *Service) Delete(ctx context.Context, id string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.entries.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting entry: %w", err)
	}
	s.refresh(ctx, current.TallySessionID)
	return nil
}

// Transfer moves entries to another session. All source sessions and the
// target must share one plant, the target must be ongoing, and no entry may
// already live in the target. Counters are re-snapshotted on every touched
// session.
func (s *Service) Transfer(ctx context.Context, entryIDs []string, targetSessionID string) (int, error) {
	if len(entryIDs) == 0 {
		return 0, fmt.Errorf("%w: no entry ids provided", ErrTransferBlocked)
	}

	entries, err := s.entries.GetMany(ctx, entryIDs)
	if err != nil {
		return 0, fmt.Errorf("loading entries: %w", err)
	}
	if len(entries) != len(entryIDs) {
		return 0, fmt.Errorf("%w: %d of %d entries not found", ErrTransferBlocked, len(entryIDs)-len(entries), len(entryIDs))
	}

	target, err := s.sessions.Get(ctx, targetSessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return 0, fmt.Errorf("%w: target session not found", ErrTransferBlocked)
		}
		return 0, fmt.Errorf("loading target session: %w", err)
	}
	if target.Status != session.StatusOngoing {
		return 0, fmt.Errorf("%w: target session is %s, not ongoing", ErrTransferBlocked, target.Status)
	}

	sourceIDs := make(map[string]bool)
	for _, e := range entries {
		if e.TallySessionID == targetSessionID {
			return 0, fmt.Errorf("%w: entry %s is already in the target session", ErrTransferBlocked, e.ID)
		}
		sourceIDs[e.TallySessionID] = true
	}
	for sourceID := range sourceIDs {
		source, err := s.sessions.Get(ctx, sourceID)
		if err != nil {
			return 0, fmt.Errorf("loading source session: %w", err)
		}
		if source.PlantID != target.PlantID {
			return 0, fmt.Errorf("%w: entries must come from sessions in the target session's plant", ErrTransferBlocked)
		}
	}
	for _, e := range entries {
		wc, err := s.classifications.Get(ctx, e.WeightClassificationID)
		if err != nil {
			return 0, fmt.Errorf("loading classification: %w", err)
		}
		if wc.PlantID != target.PlantID {
			return 0, fmt.Errorf("%w: classification %s does not belong to the target plant", ErrTransferBlocked, wc.ID)
		}
	}

	moved := 0
	for _, e := range entries {
		if err := s.entries.Reassign(ctx, e.ID, targetSessionID); err != nil {
			break
		}
		moved++
	}

	for sourceID := range sourceIDs {
		s.refresh(ctx, sourceID)
	}
	s.refresh(ctx, targetSessionID)

	if moved != len(entries) {
		return moved, fmt.Errorf("%w: only %d of %d entries transferred", ErrTransferBlocked, moved, len(entries))
	}
	s.logger.Info("entries transferred",
		zap.Int("count", moved),
		zap.String("target_session_id", targetSessionID))
	return moved, nil
}

func (s *Service) refresh(ctx context.Context, sessionID string) {
	if s.refresher == nil {
		return
	}
	if _, err := s.refresher.RefreshCounts(ctx, sessionID); err != nil {
		s.logger.Error("refreshing allocation counts", zap.String("session_id", sessionID), zap.Error(err))
	}
}
