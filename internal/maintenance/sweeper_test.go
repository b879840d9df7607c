package maintenance_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/session"
	"github.com/plantfloor/tally/internal/maintenance"
	"github.com/plantfloor/tally/internal/repository/mocks"
)

func newSweeperFixture(t *testing.T) (*maintenance.Sweeper, *mocks.SessionRepository, *mocks.AllocationRepository, *mocks.EntryRepository) {
	t.Helper()
	sessionRepo := new(mocks.SessionRepository)
	allocRepo := new(mocks.AllocationRepository)
	entryRepo := new(mocks.EntryRepository)

	sessions := session.NewService(sessionRepo, new(mocks.CustomerRepository), new(mocks.PlantRepository), allocRepo, entryRepo, 2, zap.NewNop())
	allocations := allocation.NewService(allocRepo, entryRepo, zap.NewNop())
	sweeper := maintenance.NewSweeper(sessions, allocations, "@every 15m", zap.NewNop())
	return sweeper, sessionRepo, allocRepo, entryRepo
}

func TestSweepRepairsDriftedCounters(t *testing.T) {
	sweeper, sessionRepo, allocRepo, entryRepo := newSweeperFixture(t)

	sessionRepo.On("List", mock.Anything, session.ListOptions{Status: session.StatusOngoing}).
		Return([]session.TallySession{{ID: "sess1", Status: session.StatusOngoing}}, nil)

	// Cached counter says 5 tally bags but only 2 entries exist.
	allocRepo.On("ListBySession", mock.Anything, "sess1").
		Return([]allocation.AllocationDetails{{
			ID:                     "alloc1",
			TallySessionID:         "sess1",
			WeightClassificationID: "wc1",
			AllocatedBagsTally:     5,
		}}, nil)
	entryRepo.On("ListLedgerEntries", mock.Anything, "sess1").
		Return([]allocation.LedgerEntry{
			{Role: allocation.RoleTally, ClassificationID: "wc1"},
			{Role: allocation.RoleTally, ClassificationID: "wc1"},
		}, nil)
	allocRepo.On("UpdateCounts", mock.Anything, "alloc1", 2, 0).Return(nil)

	drifted := sweeper.Sweep(context.Background())

	assert.Equal(t, 1, drifted)
	allocRepo.AssertExpectations(t)
}

func TestSweepNoDrift(t *testing.T) {
	sweeper, sessionRepo, allocRepo, entryRepo := newSweeperFixture(t)

	sessionRepo.On("List", mock.Anything, session.ListOptions{Status: session.StatusOngoing}).
		Return([]session.TallySession{{ID: "sess1", Status: session.StatusOngoing}}, nil)
	allocRepo.On("ListBySession", mock.Anything, "sess1").
		Return([]allocation.AllocationDetails{{
			ID:                     "alloc1",
			TallySessionID:         "sess1",
			WeightClassificationID: "wc1",
			AllocatedBagsTally:     1,
		}}, nil)
	entryRepo.On("ListLedgerEntries", mock.Anything, "sess1").
		Return([]allocation.LedgerEntry{
			{Role: allocation.RoleTally, ClassificationID: "wc1"},
		}, nil)

	drifted := sweeper.Sweep(context.Background())

	assert.Zero(t, drifted)
	allocRepo.AssertNotCalled(t, "UpdateCounts", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSweepNoOngoingSessions(t *testing.T) {
	sweeper, sessionRepo, _, _ := newSweeperFixture(t)

	sessionRepo.On("List", mock.Anything, session.ListOptions{Status: session.StatusOngoing}).
		Return([]session.TallySession{}, nil)

	assert.Zero(t, sweeper.Sweep(context.Background()))
}
