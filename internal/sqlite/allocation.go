package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/repository"
)

// AllocationRepository implements allocation.Repository for SQLite
type AllocationRepository struct {
	db *DB
}

// NewAllocationRepository creates a new AllocationRepository
func NewAllocationRepository(db *DB) *AllocationRepository {
	return &AllocationRepository{db: db}
}

// Create stores an allocation row
func (r *AllocationRepository) Create(ctx context.Context, a *allocation.AllocationDetails) error {
	query := `
		INSERT INTO allocation_details (
			id, tally_session_id, weight_classification_id, required_bags,
			allocated_bags_tally, allocated_bags_dispatcher, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.TallySessionID,
		a.WeightClassificationID,
		a.RequiredBags,
		a.AllocatedBagsTally,
		a.AllocatedBagsDispatcher,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create allocation: %w", err)
	}
	return nil
}

// Get retrieves an allocation by ID
func (r *AllocationRepository) Get(ctx context.Context, id string) (*allocation.AllocationDetails, error) {
	query := allocationSelect + ` WHERE id = ?`
	a, err := scanAllocation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation: %w", err)
	}
	return a, nil
}

// GetByPairing retrieves the allocation for a (session, classification) pair
func (r *AllocationRepository) GetByPairing(ctx context.Context, sessionID, classificationID string) (*allocation.AllocationDetails, error) {
	query := allocationSelect + ` WHERE tally_session_id = ? AND weight_classification_id = ?`
	a, err := scanAllocation(r.db.QueryRowContext(ctx, query, sessionID, classificationID))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get allocation by pairing: %w", err)
	}
	return a, nil
}

// Update replaces the quota and classification binding
func (r *AllocationRepository) Update(ctx context.Context, a *allocation.AllocationDetails) error {
	query := `
		UPDATE allocation_details
		SET weight_classification_id = ?, required_bags = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		a.WeightClassificationID,
		a.RequiredBags,
		a.UpdatedAt,
		a.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to update allocation: %w", err)
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

// UpdateCounts writes the cached per-role counter snapshot
func (r *AllocationRepository) UpdateCounts(ctx context.Context, id string, tally, dispatcher int) error {
	query := `
		UPDATE allocation_details
		SET allocated_bags_tally = ?, allocated_bags_dispatcher = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query, tally, dispatcher, id)
	if err != nil {
		return fmt.Errorf("failed to update allocation counts: %w", err)
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

// Delete removes an allocation row
func (r *AllocationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM allocation_details WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete allocation: %w", err)
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

// ListBySession returns a session's allocations in insertion order
func (r *AllocationRepository) ListBySession(ctx context.Context, sessionID string) ([]allocation.AllocationDetails, error) {
	query := allocationSelect + ` WHERE tally_session_id = ? ORDER BY created_at, id`
	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list allocations: %w", err)
	}
	defer rows.Close()

	var list []allocation.AllocationDetails
	for rows.Next() {
		a, err := scanAllocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan allocation: %w", err)
		}
		list = append(list, *a)
	}
	return list, rows.Err()
}

const allocationSelect = `
	SELECT id, tally_session_id, weight_classification_id, required_bags,
	       allocated_bags_tally, allocated_bags_dispatcher, created_at, updated_at
	FROM allocation_details
`

func scanAllocation(row rowScanner) (*allocation.AllocationDetails, error) {
	var a allocation.AllocationDetails
	err := row.Scan(
		&a.ID,
		&a.TallySessionID,
		&a.WeightClassificationID,
		&a.RequiredBags,
		&a.AllocatedBagsTally,
		&a.AllocatedBagsDispatcher,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
