package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// NewTestDB creates a new in-memory SQLite database for testing
func NewTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(":memory:")
	require.NoError(t, err, "failed to create test database")

	err = db.RunMigrations()
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// TestMigrations verifies that migrations run successfully
func TestMigrations(t *testing.T) {
	db := NewTestDB(t)

	// Verify all tables were created
	tables := []string{
		"plants",
		"customers",
		"weight_classifications",
		"tally_sessions",
		"allocation_details",
		"tally_log_entries",
		"tally_entry_audit",
	}

	for _, table := range tables {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&count)
		require.NoError(t, err, "failed to query table %s", table)
		require.Equal(t, 1, count, "table %s not found", table)
	}
}

// TestForeignKeys verifies that foreign key constraints are enabled
func TestForeignKeys(t *testing.T) {
	db := NewTestDB(t)

	var enabled int
	err := db.QueryRow("PRAGMA foreign_keys").Scan(&enabled)
	require.NoError(t, err)
	require.Equal(t, 1, enabled, "foreign keys not enabled")
}

// TestClassificationsTable verifies category and foreign key constraints
func TestClassificationsTable(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")

	_, err := db.ExecContext(ctx,
		`INSERT INTO weight_classifications (id, plant_id, classification, category) VALUES (?, ?, ?, ?)`,
		"wc1", "plant1", "Under 10", "Dressed")
	require.NoError(t, err)

	// Invalid category rejected by CHECK constraint
	_, err = db.ExecContext(ctx,
		`INSERT INTO weight_classifications (id, plant_id, classification, category) VALUES (?, ?, ?, ?)`,
		"wc2", "plant1", "Bad", "Live")
	require.Error(t, err, "should fail with invalid category")

	// Unknown plant rejected by foreign key
	_, err = db.ExecContext(ctx,
		`INSERT INTO weight_classifications (id, plant_id, classification, category) VALUES (?, ?, ?, ?)`,
		"wc3", "missing", "Under 10", "Dressed")
	require.Error(t, err, "should fail with unknown plant")
}

// TestAllocationUniquePairing verifies one allocation per (session, classification)
func TestAllocationUniquePairing(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")
	insertSession(t, db, "sess1", "plant1", "cust1")
	insertClassificationRow(t, db, "wc1", "plant1")

	_, err := db.ExecContext(ctx,
		`INSERT INTO allocation_details (id, tally_session_id, weight_classification_id, required_bags) VALUES (?, ?, ?, ?)`,
		"a1", "sess1", "wc1", 5)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO allocation_details (id, tally_session_id, weight_classification_id, required_bags) VALUES (?, ?, ?, ?)`,
		"a2", "sess1", "wc1", 3)
	require.Error(t, err, "should fail on duplicate pairing")
}

// TestSessionCascade verifies deleting a session removes its allocations and entries
func TestSessionCascade(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")
	insertSession(t, db, "sess1", "plant1", "cust1")
	insertClassificationRow(t, db, "wc1", "plant1")

	_, err := db.ExecContext(ctx,
		`INSERT INTO allocation_details (id, tally_session_id, weight_classification_id, required_bags) VALUES (?, ?, ?, ?)`,
		"a1", "sess1", "wc1", 5)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx,
		`INSERT INTO tally_log_entries (id, tally_session_id, weight_classification_id, role, weight, heads) VALUES (?, ?, ?, ?, ?, ?)`,
		"e1", "sess1", "wc1", "tally", 8.5, 12)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx, `DELETE FROM tally_sessions WHERE id = ?`, "sess1")
	require.NoError(t, err)

	var count int
	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM allocation_details`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count, "allocations should cascade")

	err = db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tally_log_entries`).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 0, count, "entries should cascade")
}

// TestEntryRoleConstraint verifies the role CHECK constraint
func TestEntryRoleConstraint(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	insertPlant(t, db, "plant1")
	insertCustomer(t, db, "cust1")
	insertSession(t, db, "sess1", "plant1", "cust1")
	insertClassificationRow(t, db, "wc1", "plant1")

	_, err := db.ExecContext(ctx,
		`INSERT INTO tally_log_entries (id, tally_session_id, weight_classification_id, role, weight, heads) VALUES (?, ?, ?, ?, ?, ?)`,
		"e1", "sess1", "wc1", "supervisor", 8.5, 12)
	require.Error(t, err, "should fail with invalid role")
}

// test fixture helpers shared by the repository tests

func insertPlant(t *testing.T, db *DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO plants (id, name) VALUES (?, ?)`, id, "Plant "+id)
	require.NoError(t, err)
}

func insertCustomer(t *testing.T, db *DB, id string) {
	t.Helper()
	_, err := db.Exec(`INSERT INTO customers (id, name) VALUES (?, ?)`, id, "Customer "+id)
	require.NoError(t, err)
}

func insertSession(t *testing.T, db *DB, id, plantID, customerID string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO tally_sessions (id, plant_id, customer_id, session_number, date, status) VALUES (?, ?, ?, ?, ?, ?)`,
		id, plantID, customerID, 1, time.Now().Format(dateLayout), "ongoing")
	require.NoError(t, err)
}

func insertClassificationRow(t *testing.T, db *DB, id, plantID string) {
	t.Helper()
	_, err := db.Exec(
		`INSERT INTO weight_classifications (id, plant_id, classification, category, min_weight, max_weight) VALUES (?, ?, ?, ?, ?, ?)`,
		id, plantID, "Class "+id, "Dressed", 0.0, 10.0)
	require.NoError(t, err)
}
