package classification

import "context"

// Repository provides persistence for weight classifications.
type Repository interface {
	Create(ctx context.Context, wc *WeightClassification) error
	Get(ctx context.Context, id string) (*WeightClassification, error)
	Update(ctx context.Context, wc *WeightClassification) error
	Delete(ctx context.Context, id string) error
	ListByPlant(ctx context.Context, plantID string) ([]WeightClassification, error)
}

// PlantRepository verifies plant existence.
type PlantRepository interface {
	Exists(ctx context.Context, plantID string) (bool, error)
}
