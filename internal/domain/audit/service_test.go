package audit_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/plantfloor/tally/internal/domain/audit"
	"github.com/plantfloor/tally/internal/repository/mocks"
)

func TestAuditService_LogEntryEdit(t *testing.T) {
	ctx := context.Background()
	repo := &mocks.AuditRepository{}
	repo.On("Create", ctx, mock.MatchedBy(func(a *audit.EntryAudit) bool {
		return a.EntryID == "e1" && a.Actor == "supervisor-1" && len(a.Changes) == 1 && !a.EditedAt.IsZero()
	})).Return(nil)

	svc := audit.NewService(repo, nil)
	err := svc.LogEntryEdit(ctx, "e1", "supervisor-1", map[string]audit.FieldChange{
		"weight": {Old: 8.5, New: 9.0},
	})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestAuditService_EmptyChangesIgnored(t *testing.T) {
	repo := &mocks.AuditRepository{}
	svc := audit.NewService(repo, nil)

	require.NoError(t, svc.LogEntryEdit(context.Background(), "e1", "actor", nil))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
