// Package plant holds the processing plant registry.
package plant

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/repository"
)

// ErrNotFound indicates the plant doesn't exist.
var ErrNotFound = errors.New("plant not found")

// ErrInvalidInput indicates invalid plant input.
var ErrInvalidInput = errors.New("invalid plant input")

// Plant is a processing site that owns classifications and hosts sessions.
type Plant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository provides persistence for plants.
type Repository interface {
	Create(ctx context.Context, p *Plant) error
	Get(ctx context.Context, id string) (*Plant, error)
	List(ctx context.Context) ([]Plant, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// Service handles plant registry operations.
type Service struct {
	plants Repository
	logger *zap.Logger
}

// NewService creates a new plant service.
func NewService(plants Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{plants: plants, logger: logger}
}

// Create registers a plant.
func (s *Service) Create(ctx context.Context, name string) (*Plant, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	now := time.Now()
	p := &Plant{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.plants.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("creating plant: %w", err)
	}
	return p, nil
}

// Get returns a plant by ID.
func (s *Service) Get(ctx context.Context, id string) (*Plant, error) {
	p, err := s.plants.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting plant: %w", err)
	}
	return p, nil
}

// List returns all plants.
func (s *Service) List(ctx context.Context) ([]Plant, error) {
	return s.plants.List(ctx)
}

// Delete removes a plant and cascades to its classifications and sessions.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.plants.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting plant: %w", err)
	}
	return nil
}
