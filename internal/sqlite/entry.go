package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/entry"
	"github.com/plantfloor/tally/internal/repository"
)

// EntryRepository implements entry.Repository and allocation.EntryRepository
// for SQLite
type EntryRepository struct {
	db *DB
}

// NewEntryRepository creates a new EntryRepository
func NewEntryRepository(db *DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// Create stores a log entry
func (r *EntryRepository) Create(ctx context.Context, e *entry.TallyLogEntry) error {
	query := `
		INSERT INTO tally_log_entries (
			id, tally_session_id, weight_classification_id, role, weight, heads, notes, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		e.ID,
		e.TallySessionID,
		e.WeightClassificationID,
		e.Role,
		e.Weight,
		e.Heads,
		e.Notes,
		e.CreatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create entry: %w", err)
	}
	return nil
}

// Get retrieves a log entry by ID
func (r *EntryRepository) Get(ctx context.Context, id string) (*entry.TallyLogEntry, error) {
	query := entrySelect + ` WHERE id = ?`
	e, err := scanEntry(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get entry: %w", err)
	}
	return e, nil
}

// GetMany retrieves the entries for the given IDs. Missing IDs are simply
// absent from the result; callers compare lengths when that matters.
func (r *EntryRepository) GetMany(ctx context.Context, ids []string) ([]entry.TallyLogEntry, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?, ", len(ids)-1) + "?"
	query := entrySelect + ` WHERE id IN (` + placeholders + `)`
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get entries: %w", err)
	}
	defer rows.Close()

	var entries []entry.TallyLogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Update replaces an entry's mutable fields
func (r *EntryRepository) Update(ctx context.Context, e *entry.TallyLogEntry) error {
	query := `
		UPDATE tally_log_entries
		SET weight_classification_id = ?, role = ?, weight = ?, heads = ?, notes = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		e.WeightClassificationID,
		e.Role,
		e.Weight,
		e.Heads,
		e.Notes,
		e.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a log entry
func (r *EntryRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tally_log_entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListBySession returns a session's entries, newest first, optionally
// restricted to one role
func (r *EntryRepository) ListBySession(ctx context.Context, sessionID string, role *allocation.Role) ([]entry.TallyLogEntry, error) {
	query := entrySelect + ` WHERE tally_session_id = ?`
	args := []any{sessionID}
	if role != nil {
		query += ` AND role = ?`
		args = append(args, *role)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []entry.TallyLogEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, *e)
	}
	return entries, rows.Err()
}

// Reassign moves an entry to another session
func (r *EntryRepository) Reassign(ctx context.Context, id, targetSessionID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE tally_log_entries SET tally_session_id = ? WHERE id = ?`,
		targetSessionID, id,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to reassign entry: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListLedgerEntries returns the projection rows the ledger is built from
func (r *EntryRepository) ListLedgerEntries(ctx context.Context, sessionID string) ([]allocation.LedgerEntry, error) {
	query := `
		SELECT weight_classification_id, role, weight, heads
		FROM tally_log_entries
		WHERE tally_session_id = ?
	`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []allocation.LedgerEntry
	for rows.Next() {
		var le allocation.LedgerEntry
		if err := rows.Scan(&le.ClassificationID, &le.Role, &le.Weight, &le.Heads); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, le)
	}
	return entries, rows.Err()
}

// CountByPairing counts the entries logged against a (session, classification)
// pair across both roles
func (r *EntryRepository) CountByPairing(ctx context.Context, sessionID, classificationID string) (int, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM tally_log_entries
		WHERE tally_session_id = ? AND weight_classification_id = ?
	`
	if err := r.db.QueryRowContext(ctx, query, sessionID, classificationID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return count, nil
}

// DeleteByPairing removes every entry logged against a (session,
// classification) pair and returns how many were removed
func (r *EntryRepository) DeleteByPairing(ctx context.Context, sessionID, classificationID string) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tally_log_entries WHERE tally_session_id = ? AND weight_classification_id = ?`,
		sessionID, classificationID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

// DeleteByRole removes every entry a role logged in a session and returns how
// many were removed
func (r *EntryRepository) DeleteByRole(ctx context.Context, sessionID string, role allocation.Role) (int, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM tally_log_entries WHERE tally_session_id = ? AND role = ?`,
		sessionID, role,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete entries: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return int(rowsAffected), nil
}

const entrySelect = `
	SELECT id, tally_session_id, weight_classification_id, role, weight, heads, notes, created_at
	FROM tally_log_entries
`

func scanEntry(row rowScanner) (*entry.TallyLogEntry, error) {
	var e entry.TallyLogEntry
	err := row.Scan(
		&e.ID,
		&e.TallySessionID,
		&e.WeightClassificationID,
		&e.Role,
		&e.Weight,
		&e.Heads,
		&e.Notes,
		&e.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
