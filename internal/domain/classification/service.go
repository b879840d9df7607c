package classification

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

// Service handles classification admin operations.
type Service struct {
	classifications Repository
	plants          PlantRepository
	logger          *zap.Logger
}

// NewService creates a new classification service.
func NewService(classifications Repository, plants PlantRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		classifications: classifications,
		plants:          plants,
		logger:          logger,
	}
}

// CreateRequest describes a classification creation request.
type CreateRequest struct {
	PlantID        string
	Classification string
	Category       Category
	MinWeight      *float64
	MaxWeight      *float64
	DefaultHeads   *int
	Description    string
}

// UpdateRequest describes a classification update request. Nil fields are left unchanged.
type UpdateRequest struct {
	ID             string
	Classification *string
	MinWeight      *float64
	MaxWeight      *float64
	ClearMin       bool
	ClearMax       bool
	DefaultHeads   *int
	Description    *string
}

// Create validates and stores a new classification for a plant.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*WeightClassification, error) {
	if strings.TrimSpace(req.PlantID) == "" || strings.TrimSpace(req.Classification) == "" {
		return nil, ErrInvalidInput
	}
	if !ValidCategory(req.Category) {
		return nil, ErrInvalidInput
	}
	if req.Category == CategoryByproduct && strings.TrimSpace(req.Description) == "" {
		return nil, ErrInvalidInput
	}
	if req.MinWeight != nil && req.MaxWeight != nil && *req.MinWeight > *req.MaxWeight {
		return nil, ErrInvalidInput
	}

	exists, err := s.plants.Exists(ctx, req.PlantID)
	if err != nil {
		return nil, fmt.Errorf("checking plant: %w", err)
	}
	if !exists {
		return nil, repository.ErrNotFound
	}

	existing, err := s.classifications.ListByPlant(ctx, req.PlantID)
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}

	candidate := WeightClassification{
		PlantID:        req.PlantID,
		Classification: req.Classification,
		Category:       req.Category,
		MinWeight:      req.MinWeight,
		MaxWeight:      req.MaxWeight,
		Description:    req.Description,
	}
	if err := s.checkConflicts(candidate, existing, ""); err != nil {
		return nil, err
	}

	now := time.Now()
	wc := &WeightClassification{
		ID:             uuid.NewString(),
		PlantID:        req.PlantID,
		Classification: req.Classification,
		Category:       req.Category,
		MinWeight:      req.MinWeight,
		MaxWeight:      req.MaxWeight,
		DefaultHeads:   req.DefaultHeads,
		Description:    req.Description,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.classifications.Create(ctx, wc); err != nil {
		return nil, fmt.Errorf("creating classification: %w", err)
	}

	s.logger.Info("classification created",
		zap.String("id", wc.ID),
		zap.String("plant_id", wc.PlantID),
		zap.String("category", string(wc.Category)),
		zap.String("range", FormatWeightRange(*wc)))
	return wc, nil
}

// Update applies partial changes to a classification, re-running conflict checks.
func (s *Service) Update(ctx context.Context, req UpdateRequest) (*WeightClassification, error) {
	if strings.TrimSpace(req.ID) == "" {
		return nil, ErrInvalidInput
	}

	current, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	updated := *current
	if req.Classification != nil {
		if strings.TrimSpace(*req.Classification) == "" {
			return nil, ErrInvalidInput
		}
		updated.Classification = *req.Classification
	}
	if req.ClearMin {
		updated.MinWeight = nil
	} else if req.MinWeight != nil {
		updated.MinWeight = req.MinWeight
	}
	if req.ClearMax {
		updated.MaxWeight = nil
	} else if req.MaxWeight != nil {
		updated.MaxWeight = req.MaxWeight
	}
	if req.DefaultHeads != nil {
		updated.DefaultHeads = req.DefaultHeads
	}
	if req.Description != nil {
		updated.Description = *req.Description
	}
	if updated.MinWeight != nil && updated.MaxWeight != nil && *updated.MinWeight > *updated.MaxWeight {
		return nil, ErrInvalidInput
	}
	if updated.Category == CategoryByproduct && strings.TrimSpace(updated.Description) == "" {
		return nil, ErrInvalidInput
	}

	existing, err := s.classifications.ListByPlant(ctx, current.PlantID)
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}
	if err := s.checkConflicts(updated, existing, current.ID); err != nil {
		return nil, err
	}

	updated.UpdatedAt = time.Now()
	if err := s.classifications.Update(ctx, &updated); err != nil {
		return nil, fmt.Errorf("updating classification: %w", err)
	}
	return &updated, nil
}

// Get returns a classification by ID.
func (s *Service) Get(ctx context.Context, id string) (*WeightClassification, error) {
	wc, err := s.classifications.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("getting classification: %w", err)
	}
	return wc, nil
}

// ListByPlant returns all classifications for a plant.
func (s *Service) ListByPlant(ctx context.Context, plantID string) ([]WeightClassification, error) {
	return s.classifications.ListByPlant(ctx, plantID)
}

// Delete removes a classification.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.classifications.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("deleting classification: %w", err)
	}
	return nil
}

// Resolve classifies a weight against a plant's classification set.
func (s *Service) Resolve(ctx context.Context, plantID string, weight float64) (*WeightClassification, error) {
	list, err := s.classifications.ListByPlant(ctx, plantID)
	if err != nil {
		return nil, fmt.Errorf("listing classifications: %w", err)
	}
	wc, ok := Classify(weight, list)
	if !ok {
		return nil, ErrNotFound
	}
	return &wc, nil
}

// checkConflicts enforces per-plant classification invariants. Byproducts may not
// reuse a name or description; weighted categories may not overlap ranges and may
// hold at most one catch-all.
func (s *Service) checkConflicts(candidate WeightClassification, existing []WeightClassification, excludeID string) error {
	for _, other := range existing {
		if other.ID == excludeID || other.Category != candidate.Category {
			continue
		}

		if candidate.Category == CategoryByproduct {
			if strings.EqualFold(other.Classification, candidate.Classification) {
				return ErrDuplicateByproduct
			}
			if candidate.Description != "" && other.Description != "" &&
				strings.EqualFold(strings.TrimSpace(other.Description), strings.TrimSpace(candidate.Description)) {
				return ErrDuplicateByproduct
			}
			continue
		}

		if candidate.IsCatchAll() && other.IsCatchAll() {
			return ErrDuplicateCatchAll
		}
		// Overlapping ranges are legal; the classifier resolves them by priority
		// order. Surface them to the operator anyway.
		if !candidate.IsCatchAll() && !other.IsCatchAll() &&
			rangesOverlap(candidate.MinWeight, candidate.MaxWeight, other.MinWeight, other.MaxWeight) {
			s.logger.Warn("weight range overlaps existing classification",
				zap.String("candidate", candidate.Classification),
				zap.String("existing", other.Classification),
				zap.String("existing_id", other.ID))
		}
	}
	return nil
}
