// Package customer holds the customer registry.
package customer

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

// ErrNotFound indicates the customer doesn't exist.
var ErrNotFound = errors.New("customer not found")

// ErrInvalidInput indicates invalid customer input.
var ErrInvalidInput = errors.New("invalid customer input")

// Customer is a buyer whose orders drive tally sessions.
type Customer struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Repository provides persistence for customers.
type Repository interface {
	Create(ctx context.Context, c *Customer) error
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context) ([]Customer, error)
	Delete(ctx context.Context, id string) error
	Exists(ctx context.Context, id string) (bool, error)
}

// Service handles customer registry operations.
type Service struct {
	customers Repository
	logger    *zap.Logger
}

// NewService creates a new customer service.
func NewService(customers Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{customers: customers, logger: logger}
}

// Create registers a customer.
func (s *Service) Create(ctx context.Context, name string) (*Customer, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidInput
	}
	now := time.Now()
	c := &Customer{ID: uuid.NewString(), Name: name, CreatedAt: now, UpdatedAt: now}
	if err := s.customers.Create(ctx, c); err != nil {
		return nil, fmt.Errorf("creating customer: %w", err)
	}
	return c, nil
}

// Get returns a customer by ID.
func (s *Service) Get(ctx context.Context, id string) (*Customer, error) {
	c, err := s.customers.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting customer: %w", err)
	}
	return c, nil
}

// List returns all customers.
func (s *Service) List(ctx context.Context) ([]Customer, error) {
	return s.customers.List(ctx)
}

// Delete removes a customer and cascades to their sessions.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting customer: %w", err)
	}
	return nil
}
