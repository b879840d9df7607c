package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/plantfloor/tally/internal/domain/session"
	"github.com/plantfloor/tally/internal/repository"
	"github.com/stretchr/testify/require"
)

func newTestSession(id, plantID, customerID string, number int, date time.Time) *session.TallySession {
	now := time.Now()
	return &session.TallySession{
		ID:            id,
		PlantID:       plantID,
		CustomerID:    customerID,
		SessionNumber: number,
		Date:          date,
		Status:        session.StatusOngoing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestSessionRepository_CreateGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")

	repo := NewSessionRepository(db)
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	sess := newTestSession("sess1", "plant1", "cust1", 7, date)
	require.NoError(t, repo.Create(ctx, sess))

	loaded, err := repo.Get(ctx, "sess1")
	require.NoError(t, err)
	require.Equal(t, "plant1", loaded.PlantID)
	require.Equal(t, "cust1", loaded.CustomerID)
	require.Equal(t, 7, loaded.SessionNumber)
	require.Equal(t, session.StatusOngoing, loaded.Status)
	require.True(t, date.Equal(loaded.Date), "date should round-trip")
}

func TestSessionRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewSessionRepository(db)

	_, err := repo.Get(context.Background(), "missing")
	require.Equal(t, repository.ErrNotFound, err)
}

func TestSessionRepository_CreateForeignKey(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()

	repo := NewSessionRepository(db)
	sess := newTestSession("sess1", "missing", "missing", 1, time.Now())
	err := repo.Create(ctx, sess)
	require.Equal(t, repository.ErrForeignKeyViolation, err)
}

func TestSessionRepository_UpdateStatus(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")

	repo := NewSessionRepository(db)
	sess := newTestSession("sess1", "plant1", "cust1", 1, time.Now())
	require.NoError(t, repo.Create(ctx, sess))

	sess.Status = session.StatusCompleted
	sess.UpdatedAt = time.Now()
	require.NoError(t, repo.Update(ctx, sess))

	loaded, err := repo.Get(ctx, "sess1")
	require.NoError(t, err)
	require.Equal(t, session.StatusCompleted, loaded.Status)

	sess.ID = "missing"
	require.Equal(t, repository.ErrNotFound, repo.Update(ctx, sess))
}

func TestSessionRepository_ListFilters(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")
	insertCustomer(t, db, "cust2")

	repo := NewSessionRepository(db)
	d1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, newTestSession("s1", "plant1", "cust1", 1, d1)))
	require.NoError(t, repo.Create(ctx, newTestSession("s2", "plant1", "cust1", 2, d2)))
	completed := newTestSession("s3", "plant1", "cust2", 1, d2)
	completed.Status = session.StatusCompleted
	require.NoError(t, repo.Create(ctx, completed))

	// Newest date first
	all, err := repo.List(ctx, session.ListOptions{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, d2.Format(dateLayout), all[0].Date.Format(dateLayout))

	byCustomer, err := repo.List(ctx, session.ListOptions{CustomerID: "cust1"})
	require.NoError(t, err)
	require.Len(t, byCustomer, 2)

	byStatus, err := repo.List(ctx, session.ListOptions{Status: session.StatusCompleted})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, "s3", byStatus[0].ID)

	byDate, err := repo.List(ctx, session.ListOptions{Date: &d1})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	require.Equal(t, "s1", byDate[0].ID)

	limited, err := repo.List(ctx, session.ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, limited, 2)

	paged, err := repo.List(ctx, session.ListOptions{Limit: 2, Offset: 2})
	require.NoError(t, err)
	require.Len(t, paged, 1)
}

func TestSessionRepository_Dates(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")

	repo := NewSessionRepository(db)
	d1 := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newTestSession("s1", "plant1", "cust1", 1, d1)))
	require.NoError(t, repo.Create(ctx, newTestSession("s2", "plant1", "cust1", 2, d1)))
	require.NoError(t, repo.Create(ctx, newTestSession("s3", "plant1", "cust1", 3, d2)))

	dates, err := repo.Dates(ctx, session.ListOptions{CustomerID: "cust1"})
	require.NoError(t, err)
	require.Len(t, dates, 2, "duplicate dates collapse")
	require.True(t, d2.Equal(dates[0]))
	require.True(t, d1.Equal(dates[1]))
}

func TestSessionRepository_MaxSessionNumber(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")

	repo := NewSessionRepository(db)

	max, err := repo.MaxSessionNumber(ctx, "cust1")
	require.NoError(t, err)
	require.Equal(t, 0, max, "no sessions yet")

	require.NoError(t, repo.Create(ctx, newTestSession("s1", "plant1", "cust1", 4, time.Now())))
	require.NoError(t, repo.Create(ctx, newTestSession("s2", "plant1", "cust1", 9, time.Now())))

	max, err = repo.MaxSessionNumber(ctx, "cust1")
	require.NoError(t, err)
	require.Equal(t, 9, max)
}

func TestSessionRepository_Delete(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")

	repo := NewSessionRepository(db)
	require.NoError(t, repo.Create(ctx, newTestSession("s1", "plant1", "cust1", 1, time.Now())))
	require.NoError(t, repo.Delete(ctx, "s1"))
	require.Equal(t, repository.ErrNotFound, repo.Delete(ctx, "s1"))
}
