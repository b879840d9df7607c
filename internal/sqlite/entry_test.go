package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/entry"
	"github.com/plantfloor/tally/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTestEntry(id, sessionID, classificationID string, role allocation.Role) *entry.TallyLogEntry {
	return &entry.TallyLogEntry{
		ID:                     id,
		TallySessionID:         sessionID,
		WeightClassificationID: classificationID,
		Role:                   role,
		Weight:                 8.5,
		Heads:                  12,
		CreatedAt:              time.Now(),
	}
}

func seedEntryFixtures(t *testing.T, db *DB) {
	t.Helper()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")
	insertSession(t, db, "sess1", "plant1", "cust1")
	insertSession(t, db, "sess2", "plant1", "cust1")
	insertClassificationRow(t, db, "wc1", "plant1")
	insertClassificationRow(t, db, "wc2", "plant1")
}

func TestEntryRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedEntryFixtures(t, db)

	repo := NewEntryRepository(db)
	e := newTestEntry("e1", "sess1", "wc1", allocation.RoleTally)
	e.Notes = "split bag"
	require.NoError(t, repo.Create(ctx, e))

	loaded, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, "sess1", loaded.TallySessionID)
	require.Equal(t, allocation.RoleTally, loaded.Role)
	require.Equal(t, 8.5, loaded.Weight)
	require.Equal(t, 12, loaded.Heads)
	require.Equal(t, "split bag", loaded.Notes)
}

func TestEntryRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewEntryRepository(db)

	_, err := repo.Get(context.Background(), "missing")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestEntryRepository_GetMany(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedEntryFixtures(t, db)

	repo := NewEntryRepository(db)
	require.NoError(t, repo.Create(ctx, newTestEntry("e1", "sess1", "wc1", allocation.RoleTally)))
	require.NoError(t, repo.Create(ctx, newTestEntry("e2", "sess1", "wc1", allocation.RoleTally)))

	entries, err := repo.GetMany(ctx, []string{"e1", "e2", "missing"})
	require.NoError(t, err)
	require.Len(t, entries, 2, "missing IDs are absent, not errors")

	entries, err = repo.GetMany(ctx, nil)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestEntryRepository_ListBySession(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedEntryFixtures(t, db)

	repo := NewEntryRepository(db)
	base := time.Now()
	e1 := newTestEntry("e1", "sess1", "wc1", allocation.RoleTally)
	e1.CreatedAt = base
	e2 := newTestEntry("e2", "sess1", "wc1", allocation.RoleDispatcher)
	e2.CreatedAt = base.Add(time.Second)
	e3 := newTestEntry("e3", "sess1", "wc2", allocation.RoleTally)
	e3.CreatedAt = base.Add(2 * time.Second)
	require.NoError(t, repo.Create(ctx, e1))
	require.NoError(t, repo.Create(ctx, e2))
	require.NoError(t, repo.Create(ctx, e3))
	require.NoError(t, repo.Create(ctx, newTestEntry("e4", "sess2", "wc1", allocation.RoleTally)))

	// Newest first
	all, err := repo.ListBySession(ctx, "sess1", nil)
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "e3", all[0].ID)
	require.Equal(t, "e1", all[2].ID)

	role := allocation.RoleTally
	tallyOnly, err := repo.ListBySession(ctx, "sess1", &role)
	require.NoError(t, err)
	require.Len(t, tallyOnly, 2)
	for _, e := range tallyOnly {
		require.Equal(t, allocation.RoleTally, e.Role)
	}
}

func TestEntryRepository_UpdateDelete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedEntryFixtures(t, db)

	repo := NewEntryRepository(db)
	e := newTestEntry("e1", "sess1", "wc1", allocation.RoleTally)
	require.NoError(t, repo.Create(ctx, e))

	e.Weight = 9.25
	e.Heads = 14
	e.WeightClassificationID = "wc2"
	require.NoError(t, repo.Update(ctx, e))

	loaded, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, 9.25, loaded.Weight)
	require.Equal(t, 14, loaded.Heads)
	require.Equal(t, "wc2", loaded.WeightClassificationID)

	require.NoError(t, repo.Delete(ctx, "e1"))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, "e1"))
}

func TestEntryRepository_Reassign(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedEntryFixtures(t, db)

	repo := NewEntryRepository(db)
	require.NoError(t, repo.Create(ctx, newTestEntry("e1", "sess1", "wc1", allocation.RoleTally)))

	require.NoError(t, repo.Reassign(ctx, "e1", "sess2"))

	loaded, err := repo.Get(ctx, "e1")
	require.NoError(t, err)
	require.Equal(t, "sess2", loaded.TallySessionID)

	require.Equal(t, repository.ErrNotFound, repo.Reassign(ctx, "missing", "sess2"))
}

func TestEntryRepository_ListLedgerEntries(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedEntryFixtures(t, db)

	repo := NewEntryRepository(db)
	require.NoError(t, repo.Create(ctx, newTestEntry("e1", "sess1", "wc1", allocation.RoleTally)))
	require.NoError(t, repo.Create(ctx, newTestEntry("e2", "sess1", "wc2", allocation.RoleDispatcher)))

	entries, err := repo.ListLedgerEntries(ctx, "sess1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, le := range entries {
		require.NotEmpty(t, le.ClassificationID)
		require.Equal(t, 8.5, le.Weight)
		require.Equal(t, 12, le.Heads)
	}
}

func TestEntryRepository_CountAndDeleteByPairing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedEntryFixtures(t, db)

	repo := NewEntryRepository(db)
	require.NoError(t, repo.Create(ctx, newTestEntry("e1", "sess1", "wc1", allocation.RoleTally)))
	require.NoError(t, repo.Create(ctx, newTestEntry("e2", "sess1", "wc1", allocation.RoleDispatcher)))
	require.NoError(t, repo.Create(ctx, newTestEntry("e3", "sess1", "wc2", allocation.RoleTally)))

	count, err := repo.CountByPairing(ctx, "sess1", "wc1")
	require.NoError(t, err)
	require.Equal(t, 2, count, "both roles count")

	deleted, err := repo.DeleteByPairing(ctx, "sess1", "wc1")
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	count, err = repo.CountByPairing(ctx, "sess1", "wc1")
	require.NoError(t, err)
	require.Equal(t, 0, count)

	remaining, err := repo.ListBySession(ctx, "sess1", nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1, "other classifications untouched")
}

func TestEntryRepository_DeleteByRole(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedEntryFixtures(t, db)

	repo := NewEntryRepository(db)
	require.NoError(t, repo.Create(ctx, newTestEntry("e1", "sess1", "wc1", allocation.RoleTally)))
	require.NoError(t, repo.Create(ctx, newTestEntry("e2", "sess1", "wc2", allocation.RoleTally)))
	require.NoError(t, repo.Create(ctx, newTestEntry("e3", "sess1", "wc1", allocation.RoleDispatcher)))

	deleted, err := repo.DeleteByRole(ctx, "sess1", allocation.RoleTally)
	require.NoError(t, err)
	require.Equal(t, 2, deleted)

	remaining, err := repo.ListBySession(ctx, "sess1", nil)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	require.Equal(t, allocation.RoleDispatcher, remaining[0].Role)
}
