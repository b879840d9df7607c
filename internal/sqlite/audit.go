package sqlite

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/plantfloor/tally/internal/domain/audit"
	"github.com/plantfloor/tally/internal/repository"
)

// AuditRepository implements audit.Repository for SQLite
type AuditRepository struct {
	db *DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create stores an audit record; the change map is serialized as JSON
func (r *AuditRepository) Create(ctx context.Context, a *audit.EntryAudit) error {
	changes, err := json.Marshal(a.Changes)
	if err != nil {
		return fmt.Errorf("failed to encode audit changes: %w", err)
	}
	query := `
		INSERT INTO tally_entry_audit (entry_id, actor, edited_at, changes)
		VALUES (?, ?, ?, ?)
	`
	result, err := r.db.ExecContext(ctx, query, a.EntryID, a.Actor, a.EditedAt, string(changes))
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create audit record: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get audit record id: %w", err)
	}
	a.ID = id
	return nil
}

// ListByEntry returns the audit records for an entry, oldest first
func (r *AuditRepository) ListByEntry(ctx context.Context, entryID string) ([]audit.EntryAudit, error) {
	query := `
		SELECT id, entry_id, actor, edited_at, changes
		FROM tally_entry_audit
		WHERE entry_id = ?
		ORDER BY id
	`
	rows, err := r.db.QueryContext(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit records: %w", err)
	}
	defer rows.Close()

	var audits []audit.EntryAudit
	for rows.Next() {
		var a audit.EntryAudit
		var rawChanges string
		if err := rows.Scan(&a.ID, &a.EntryID, &a.Actor, &a.EditedAt, &rawChanges); err != nil {
			return nil, fmt.Errorf("failed to scan audit record: %w", err)
		}
		if err := json.Unmarshal([]byte(rawChanges), &a.Changes); err != nil {
			return nil, fmt.Errorf("failed to decode audit changes: %w", err)
		}
		audits = append(audits, a)
	}
	return audits, rows.Err()
}
