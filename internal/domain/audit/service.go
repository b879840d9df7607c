package audit

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Repository provides persistence for entry audit records.
type Repository interface {
	Create(ctx context.Context, a *EntryAudit) error
	ListByEntry(ctx context.Context, entryID string) ([]EntryAudit, error)
}

// Service records and queries the edit trail for log entries.
type Service struct {
	audits Repository
	logger *zap.Logger
}

// NewService creates a new audit service.
func NewService(audits Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{audits: audits, logger: logger}
}

// LogEntryEdit stores the field changes of one entry edit. An empty change set
// is ignored.
func (s *Service) LogEntryEdit(ctx context.Context, entryID, actor string, changes map[string]FieldChange) error {
	if len(changes) == 0 {
		return nil
	}
	a := &EntryAudit{
		EntryID:  entryID,
		Actor:    actor,
		EditedAt: time.Now(),
		Changes:  changes,
	}
	if err := s.audits.Create(ctx, a); err != nil {
		return fmt.Errorf("creating audit record: %w", err)
	}
	s.logger.Debug("entry edit audited", zap.String("entry_id", entryID), zap.Int("fields", len(changes)))
	return nil
}

// ListByEntry returns the edit trail for an entry, oldest first.
func (s *Service) ListByEntry(ctx context.Context, entryID string) ([]EntryAudit, error) {
	return s.audits.ListByEntry(ctx, entryID)
}
