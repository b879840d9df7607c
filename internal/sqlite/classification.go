package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plantfloor/tally/internal/domain/classification"
	"github.com/plantfloor/tally/internal/repository"
)

// ClassificationRepository implements classification.Repository for SQLite
type ClassificationRepository struct {
	db *DB
}

// NewClassificationRepository creates a new ClassificationRepository
func NewClassificationRepository(db *DB) *ClassificationRepository {
	return &ClassificationRepository{db: db}
}

// Create stores a weight classification
func (r *ClassificationRepository) Create(ctx context.Context, wc *classification.WeightClassification) error {
	query := `
		INSERT INTO weight_classifications (
			id, plant_id, classification, category, min_weight, max_weight,
			default_heads, description, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.ExecContext(ctx, query,
		wc.ID,
		wc.PlantID,
		wc.Classification,
		wc.Category,
		wc.MinWeight,
		wc.MaxWeight,
		wc.DefaultHeads,
		wc.Description,
		wc.CreatedAt,
		wc.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create classification: %w", err)
	}
	return nil
}

// Get retrieves a classification by ID
func (r *ClassificationRepository) Get(ctx context.Context, id string) (*classification.WeightClassification, error) {
	query := `
		SELECT id, plant_id, classification, category, min_weight, max_weight,
		       default_heads, description, created_at, updated_at
		FROM weight_classifications
		WHERE id = ?
	`
	wc, err := scanClassification(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get classification: %w", err)
	}
	return wc, nil
}

// Update replaces a classification's mutable fields
func (r *ClassificationRepository) Update(ctx context.Context, wc *classification.WeightClassification) error {
	query := `
		UPDATE weight_classifications
		SET classification = ?, min_weight = ?, max_weight = ?,
		    default_heads = ?, description = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		wc.Classification,
		wc.MinWeight,
		wc.MaxWeight,
		wc.DefaultHeads,
		wc.Description,
		wc.UpdatedAt,
		wc.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update classification: %w", err)
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

// Delete removes a classification
func (r *ClassificationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM weight_classifications WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete classification: %w", err)
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

// ListByPlant returns a plant's classifications in insertion order, which is
// the priority order the classifier scans within each pass
func (r *ClassificationRepository) ListByPlant(ctx context.Context, plantID string) ([]classification.WeightClassification, error) {
	query := `
		SELECT id, plant_id, classification, category, min_weight, max_weight,
		       default_heads, description, created_at, updated_at
		FROM weight_classifications
		WHERE plant_id = ?
		ORDER BY created_at, id
	`
	rows, err := r.db.QueryContext(ctx, query, plantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list classifications: %w", err)
	}
	defer rows.Close()

	var list []classification.WeightClassification
	for rows.Next() {
		wc, err := scanClassification(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan classification: %w", err)
		}
		list = append(list, *wc)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClassification(row rowScanner) (*classification.WeightClassification, error) {
	var wc classification.WeightClassification
	var minWeight, maxWeight sql.NullFloat64
	var defaultHeads sql.NullInt64
	err := row.Scan(
		&wc.ID,
		&wc.PlantID,
		&wc.Classification,
		&wc.Category,
		&minWeight,
		&maxWeight,
		&defaultHeads,
		&wc.Description,
		&wc.CreatedAt,
		&wc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if minWeight.Valid {
		wc.MinWeight = &minWeight.Float64
	}
	if maxWeight.Valid {
		wc.MaxWeight = &maxWeight.Float64
	}
	if defaultHeads.Valid {
		heads := int(defaultHeads.Int64)
		wc.DefaultHeads = &heads
	}
	return &wc, nil
}
