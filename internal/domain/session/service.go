package session

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

// Service handles tally session lifecycle and reconciliation.
type Service struct {
	sessions    Repository
	customers   CustomerRepository
	plants      PlantRepository
	allocations AllocationRepository
	entries     EntryRepository
	threshold   float64
	logger      *zap.Logger
}

// NewService creates a new session service. threshold is the acceptable
// cross-role count difference used by reconciliation.
func NewService(
	sessions Repository,
	customers CustomerRepository,
	plants PlantRepository,
	allocations AllocationRepository,
	entries EntryRepository,
	threshold float64,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		sessions:    sessions,
		customers:   customers,
		plants:      plants,
		allocations: allocations,
		entries:     entries,
		threshold:   threshold,
		logger:      logger,
	}
}

// CreateRequest describes a session creation request.
type CreateRequest struct {
	PlantID    string
	CustomerID string
	Date       time.Time
}

// UpdateRequest describes a partial session update.
type UpdateRequest struct {
	ID         string
	CustomerID *string
	PlantID    *string
	Date       *time.Time
	Status     *Status
}

// Create opens a new ongoing session, assigning the customer's next session number.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*TallySession, error) {
	if strings.TrimSpace(req.PlantID) == "" || strings.TrimSpace(req.CustomerID) == "" || req.Date.IsZero() {
		return nil, ErrInvalidInput
	}

	if ok, err := s.customers.Exists(ctx, req.CustomerID); err != nil {
		return nil, fmt.Errorf("checking customer: %w", err)
	} else if !ok {
		return nil, ErrCustomerNotFound
	}
	if ok, err := s.plants.Exists(ctx, req.PlantID); err != nil {
		return nil, fmt.Errorf("checking plant: %w", err)
	} else if !ok {
		return nil, ErrPlantNotFound
	}

	maxNumber, err := s.sessions.MaxSessionNumber(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("getting max session number: %w", err)
	}

	now := time.Now()
	sess := &TallySession{
		ID:            uuid.NewString(),
		PlantID:       req.PlantID,
		CustomerID:    req.CustomerID,
		SessionNumber: maxNumber + 1,
		Date:          req.Date,
		Status:        StatusOngoing,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("session created",
		zap.String("id", sess.ID),
		zap.String("customer_id", sess.CustomerID),
		zap.Int("session_number", sess.SessionNumber))
	return sess, nil
}

// Get returns a session by ID.
func (s *Service) Get(ctx context.Context, id string) (*TallySession, error) {
	sess, err := s.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("getting session: %w", err)
	}
	return sess, nil
}

// Update applies partial changes to a session. Reverting a completed or
// cancelled session to ongoing is legal but logged for the audit trail.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*TallySession, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.CustomerID != nil {
		if ok, err := s.customers.Exists(ctx, *req.CustomerID); err != nil {
			return nil, fmt.Errorf("checking customer: %w", err)
		} else if !ok {
			return nil, ErrCustomerNotFound
		}
		updated.CustomerID = *req.CustomerID
	}
	if req.PlantID != nil {
		if ok, err := s.plants.Exists(ctx, *req.PlantID); err != nil {
			return nil, fmt.Errorf("checking plant: %w", err)
		} else if !ok {
			return nil, ErrPlantNotFound
		}
		updated.PlantID = *req.PlantID
	}
	if req.Date != nil {
		updated.Date = *req.Date
	}
	if req.Status != nil {
		if !ValidStatus(*req.Status) {
			return nil, ErrInvalidInput
		}
		if *req.Status == StatusOngoing && current.Status != StatusOngoing {
			s.logger.Warn("session reverted to ongoing",
				zap.String("id", current.ID),
				zap.String("previous_status", string(current.Status)))
		}
		updated.Status = *req.Status
	}

	updated.UpdatedAt = time.Now()
	if err := s.sessions.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating session: %w", err)
	}
	return &updated, nil
}

// Delete removes a session. Allocations and log entries cascade with it.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("deleting session: %w", err)
	}
	s.logger.Info("session deleted", zap.String("id", id))
	return nil
}

// List returns sessions matching the options, newest date first.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]TallySession, error) {
	return s.sessions.List(ctx, opts)
}

// Dates returns the distinct dates having sessions, newest first.
func (s *Service) Dates(ctx context.Context, opts ListOptions) ([]time.Time, error) {
	return s.sessions.Dates(ctx, opts)
}

// Reconcile compares tally and dispatcher counts per allocation for a session.
// Missing log-entry data means zero entries, not an error, so the report
// degrades to all-not-started rather than failing.
func (s *Service) Reconcile(ctx context.Context, sessionID string) ([]ReconciliationRow, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	allocs, err := s.allocations.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing allocations: %w", err)
	}
	entries, err := s.entries.ListLedgerEntries(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	return Reconcile(allocs, entries, s.threshold), nil
}
