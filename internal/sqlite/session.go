package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/plantfloor/tally/internal/domain/session"
	"github.com/plantfloor/tally/internal/repository"
)

const dateLayout = "2006-01-02"

// SessionRepository implements session.Repository for SQLite
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create stores a session
func (r *SessionRepository) Create(ctx context.Context, sess *session.TallySession) error {
	query := `
		INSERT INTO tally_sessions (
			id, plant_id, customer_id, session_number, date, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		sess.ID,
		sess.PlantID,
		sess.CustomerID,
		sess.SessionNumber,
		sess.Date.Format(dateLayout),
		sess.Status,
		sess.CreatedAt,
		sess.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get retrieves a session by ID
func (r *SessionRepository) Get(ctx context.Context, id string) (*session.TallySession, error) {
	query := `
		SELECT id, plant_id, customer_id, session_number, date, status, created_at, updated_at
		FROM tally_sessions
		WHERE id = ?
	`
	sess, err := scanSession(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return sess, nil
}

// Update replaces a session's mutable fields
func (r *SessionRepository) Update(ctx context.Context, sess *session.TallySession) error {
	query := `
		UPDATE tally_sessions
		SET plant_id = ?, customer_id = ?, date = ?, status = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		sess.PlantID,
		sess.CustomerID,
		sess.Date.Format(dateLayout),
		sess.Status,
		sess.UpdatedAt,
		sess.ID,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to update session: %w", err)
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

// Delete removes a session; allocations and log entries cascade via FK
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM tally_sessions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
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

// List returns sessions matching the options, newest date first
func (r *SessionRepository) List(ctx context.Context, opts session.ListOptions) ([]session.TallySession, error) {
	query := `
		SELECT id, plant_id, customer_id, session_number, date, status, created_at, updated_at
		FROM tally_sessions
		WHERE 1=1
	`
	var args []any
	query, args = appendSessionFilters(query, args, opts)
	query += ` ORDER BY date DESC, created_at DESC`
	if opts.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += ` OFFSET ?`
			args = append(args, opts.Offset)
		}
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.TallySession
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

// Dates returns the distinct dates having sessions, newest first
func (r *SessionRepository) Dates(ctx context.Context, opts session.ListOptions) ([]time.Time, error) {
	query := `SELECT DISTINCT date FROM tally_sessions WHERE 1=1`
	var args []any
	query, args = appendSessionFilters(query, args, opts)
	query += ` ORDER BY date DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list session dates: %w", err)
	}
	defer rows.Close()

	var dates []time.Time
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		date, err := time.Parse(dateLayout, raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse date %q: %w", raw, err)
		}
		dates = append(dates, date)
	}
	return dates, rows.Err()
}

// MaxSessionNumber returns the highest session number assigned to a customer,
// zero when the customer has no sessions
func (r *SessionRepository) MaxSessionNumber(ctx context.Context, customerID string) (int, error) {
	var max int
	query := `SELECT COALESCE(MAX(session_number), 0) FROM tally_sessions WHERE customer_id = ?`
	if err := r.db.QueryRowContext(ctx, query, customerID).Scan(&max); err != nil {
		return 0, fmt.Errorf("failed to get max session number: %w", err)
	}
	return max, nil
}

func appendSessionFilters(query string, args []any, opts session.ListOptions) (string, []any) {
	if opts.CustomerID != "" {
		query += ` AND customer_id = ?`
		args = append(args, opts.CustomerID)
	}
	if opts.PlantID != "" {
		query += ` AND plant_id = ?`
		args = append(args, opts.PlantID)
	}
	if opts.Status != "" {
		query += ` AND status = ?`
		args = append(args, opts.Status)
	}
	if opts.Date != nil {
		query += ` AND date = ?`
		args = append(args, opts.Date.Format(dateLayout))
	}
	return query, args
}

func scanSession(row rowScanner) (*session.TallySession, error) {
	var sess session.TallySession
	var rawDate string
	err := row.Scan(
		&sess.ID,
		&sess.PlantID,
		&sess.CustomerID,
		&sess.SessionNumber,
		&rawDate,
		&sess.Status,
		&sess.CreatedAt,
		&sess.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, rawDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date %q: %w", rawDate, err)
	}
	sess.Date = date
	return &sess, nil
}
