package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/plantfloor/tally/internal/domain/plant"
	"github.com/plantfloor/tally/internal/repository"
)

// PlantRepository implements plant.Repository for SQLite
type PlantRepository struct {
	db *DB
}

// NewPlantRepository creates a new PlantRepository
func NewPlantRepository(db *DB) *PlantRepository {
	return &PlantRepository{db: db}
}

// Create stores a plant
func (r *PlantRepository) Create(ctx context.Context, p *plant.Plant) error {
	query := `INSERT INTO plants (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query, p.ID, p.Name, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create plant: %w", err)
	}
	return nil
}

// Get retrieves a plant by ID
func (r *PlantRepository) Get(ctx context.Context, id string) (*plant.Plant, error) {
	query := `SELECT id, name, created_at, updated_at FROM plants WHERE id = ?`
	var p plant.Plant
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plant: %w", err)
	}
	return &p, nil
}

// List returns all plants ordered by name
func (r *PlantRepository) List(ctx context.Context) ([]plant.Plant, error) {
	query := `SELECT id, name, created_at, updated_at FROM plants ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plants: %w", err)
	}
	defer rows.Close()

	var plants []plant.Plant
	for rows.Next() {
		var p plant.Plant
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan plant: %w", err)
		}
		plants = append(plants, p)
	}
	return plants, rows.Err()
}

// Delete removes a plant
func (r *PlantRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM plants WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plant: %w", err)
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

// Exists reports whether a plant exists
func (r *PlantRepository) Exists(ctx context.Context, id string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plants WHERE id = ?`, id).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check plant: %w", err)
	}
	return count > 0, nil
}
