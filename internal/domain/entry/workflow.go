package entry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/plantfloor/tally/internal/capability"
	"github.com/plantfloor/tally/internal/domain/allocation"
	"github.com/plantfloor/tally/internal/domain/classification"
	"github.com/plantfloor/tally/internal/repository"
)

// Decision is the outcome of evaluating an entry attempt.
type Decision string

const (
	DecisionProceed           Decision = "proceed"
	DecisionNeedsConfirmation Decision = "needs_confirmation"
	DecisionRejected          Decision = "rejected"
)

// Reason qualifies a non-proceed decision.
type Reason string

const (
	// ReasonInvalidInput means the weight or heads input failed validation.
	ReasonInvalidInput Reason = "invalid_input"
	// ReasonNoClassificationMatch means no range covers the measured weight.
	ReasonNoClassificationMatch Reason = "no_classification_match"
	// ReasonNoRequiredAllocation means no allocation (or a zero quota) exists
	// for the classification. Soft: the operator may proceed after confirming.
	ReasonNoRequiredAllocation Reason = "no_required_allocation"
	// ReasonOverAllocationWarning means committing would exceed the quota.
	// Soft: the operator may proceed after confirming.
	ReasonOverAllocationWarning Reason = "over_allocation_warning"
)

// QuotaStatus reports the counts behind an over-allocation warning.
type QuotaStatus struct {
	Required  int `json:"required"`
	Current   int `json:"current"`
	Projected int `json:"projected"`
}

// Evaluation is the result of an entry attempt evaluation.
type Evaluation struct {
	Decision       Decision                             `json:"decision"`
	Reason         Reason                               `json:"reason,omitempty"`
	Classification *classification.WeightClassification `json:"classification,omitempty"`
	Quota          *QuotaStatus                         `json:"quota,omitempty"`
}

// AttemptInput describes one entry-creation attempt.
type AttemptInput struct {
	SessionID        string
	Role             allocation.Role
	Mode             Mode
	Weight           float64
	Heads            *int
	ClassificationID string
	Notes            string
}

// Workflow governs entry creation: validate, classify, check the quota,
// then commit under a per-session latch.
type Workflow struct {
	sessions        SessionRepository
	classifications ClassificationRepository
	allocations     AllocationRepository
	entries         Repository
	ledgers         LedgerProvider
	refresher       CountRefresher
	can             capability.Checker
	logger          *zap.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// NewWorkflow creates a new entry workflow.
func NewWorkflow(
	sessions SessionRepository,
	classifications ClassificationRepository,
	allocations AllocationRepository,
	entries Repository,
	ledgers LedgerProvider,
	refresher CountRefresher,
	can capability.Checker,
	logger *zap.Logger,
) *Workflow {
	if can == nil {
		can = capability.AllowAll
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Workflow{
		sessions:        sessions,
		classifications: classifications,
		allocations:     allocations,
		entries:         entries,
		ledgers:         ledgers,
		refresher:       refresher,
		can:             can,
		logger:          logger,
		inFlight:        make(map[string]bool),
	}
}

// Evaluate runs the attempt through validation, classification and the quota
// check without mutating anything. Soft warnings come back as
// DecisionNeedsConfirmation with the counts the operator needs to see.
func (w *Workflow) Evaluate(ctx context.Context, input AttemptInput, quantity int) (Evaluation, error) {
	if !w.can.Can(capability.ActionRecordEntry) {
		return Evaluation{}, ErrNotPermitted
	}

	if err := validateInput(input, quantity); err != nil {
		return Evaluation{Decision: DecisionRejected, Reason: ReasonInvalidInput}, nil
	}

	sess, err := w.sessions.Get(ctx, input.SessionID)
	if err != nil {
		return Evaluation{}, fmt.Errorf("loading session: %w", err)
	}

	wc, ok, err := w.resolveClassification(ctx, input, sess.PlantID)
	if err != nil {
		return Evaluation{}, err
	}
	if !ok {
		return Evaluation{Decision: DecisionRejected, Reason: ReasonNoClassificationMatch}, nil
	}

	ledger, err := w.ledgers.LedgerForSession(ctx, input.SessionID)
	if err != nil {
		return Evaluation{}, err
	}
	current := ledger.TotalEntryCount(wc.ID)

	alloc, err := w.allocations.GetByPairing(ctx, input.SessionID, wc.ID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return Evaluation{}, fmt.Errorf("loading allocation: %w", err)
	}

	if alloc == nil || alloc.RequiredBags == 0 {
		return Evaluation{
			Decision:       DecisionNeedsConfirmation,
			Reason:         ReasonNoRequiredAllocation,
			Classification: wc,
			Quota:          &QuotaStatus{Required: 0, Current: current, Projected: current + quantity},
		}, nil
	}

	projected := current + quantity
	if projected > alloc.RequiredBags {
		return Evaluation{
			Decision:       DecisionNeedsConfirmation,
			Reason:         ReasonOverAllocationWarning,
			Classification: wc,
			Quota:          &QuotaStatus{Required: alloc.RequiredBags, Current: current, Projected: projected},
		}, nil
	}

	return Evaluation{Decision: DecisionProceed, Classification: wc}, nil
}

// Commit creates one log entry per quantity unit, serialized per session.
// confirmed acknowledges a prior NeedsConfirmation evaluation; committing a
// warned attempt without it fails with ErrNotConfirmed. Entries created
// before a mid-batch failure stay committed and are reported through
// PartialBatchError.
func (w *Workflow) Commit(ctx context.Context, input AttemptInput, quantity int, confirmed bool) ([]TallyLogEntry, error) {
	if !w.can.Can(capability.ActionRecordEntry) {
		return nil, ErrNotPermitted
	}

	if err := w.acquire(input.SessionID); err != nil {
		return nil, err
	}
	defer w.release(input.SessionID)

	eval, err := w.Evaluate(ctx, input, quantity)
	if err != nil {
		return nil, err
	}
	switch eval.Decision {
	case DecisionRejected:
		switch eval.Reason {
		case ReasonNoClassificationMatch:
			return nil, classification.ErrNotFound
		default:
			return nil, ErrInvalidInput
		}
	case DecisionNeedsConfirmation:
		if !confirmed {
			return nil, fmt.Errorf("%w: %s", ErrNotConfirmed, eval.Reason)
		}
	}

	created := make([]TallyLogEntry, 0, quantity)
	for i := 0; i < quantity; i++ {
		e := buildEntry(input, *eval.Classification)
		if err := w.entries.Create(ctx, &e); err != nil {
			w.refreshAfterCommit(ctx, input.SessionID)
			return created, &PartialBatchError{
				Succeeded: len(created),
				Failed:    quantity - len(created),
				Err:       err,
			}
		}
		created = append(created, e)
	}

	w.refreshAfterCommit(ctx, input.SessionID)
	w.logger.Info("entries committed",
		zap.String("session_id", input.SessionID),
		zap.String("classification_id", eval.Classification.ID),
		zap.String("role", string(input.Role)),
		zap.Int("quantity", quantity))
	return created, nil
}

func (w *Workflow) resolveClassification(ctx context.Context, input AttemptInput, plantID string) (*classification.WeightClassification, bool, error) {
	if input.Mode == ModeDressed {
		list, err := w.classifications.ListByPlant(ctx, plantID)
		if err != nil {
			return nil, false, fmt.Errorf("listing classifications: %w", err)
		}
		wc, ok := classification.Classify(input.Weight, list)
		if !ok {
			return nil, false, nil
		}
		return &wc, true, nil
	}

	// Manual and byproduct modes carry an explicit selection.
	wc, err := w.classifications.Get(ctx, input.ClassificationID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("loading classification: %w", err)
	}
	return wc, true, nil
}

func (w *Workflow) refreshAfterCommit(ctx context.Context, sessionID string) {
	if w.refresher == nil {
		return
	}
	if _, err := w.refresher.RefreshCounts(ctx, sessionID); err != nil {
		w.logger.Error("refreshing allocation counts", zap.String("session_id", sessionID), zap.Error(err))
	}
}

func (w *Workflow) acquire(sessionID string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.inFlight[sessionID] {
		return ErrCommitInFlight
	}
	w.inFlight[sessionID] = true
	return nil
}

func (w *Workflow) release(sessionID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.inFlight, sessionID)
}

func validateInput(input AttemptInput, quantity int) error {
	if strings.TrimSpace(input.SessionID) == "" || quantity < 1 {
		return ErrInvalidInput
	}
	if !allocation.ValidRole(input.Role) {
		return ErrInvalidInput
	}
	switch input.Mode {
	case ModeDressed:
		if !validWeight(input.Weight) {
			return ErrInvalidInput
		}
	case ModeManual:
		if strings.TrimSpace(input.ClassificationID) == "" || !validWeight(input.Weight) {
			return ErrInvalidInput
		}
		if input.Heads != nil && *input.Heads <= 0 {
			return ErrInvalidInput
		}
	case ModeByproduct:
		if strings.TrimSpace(input.ClassificationID) == "" {
			return ErrInvalidInput
		}
		if input.Heads != nil && *input.Heads <= 0 {
			return ErrInvalidInput
		}
	default:
		return ErrInvalidInput
	}
	return nil
}

func validWeight(w float64) bool {
	return !math.IsNaN(w) && !math.IsInf(w, 0) && w > 0
}

func buildEntry(input AttemptInput, wc classification.WeightClassification) TallyLogEntry {
	weight := input.Weight
	if input.Mode == ModeByproduct {
		weight = 1
	}
	heads := wc.Heads()
	if input.Heads != nil {
		heads = *input.Heads
	}
	return TallyLogEntry{
		ID:                     uuid.NewString(),
		TallySessionID:         input.SessionID,
		WeightClassificationID: wc.ID,
		Role:                   input.Role,
		Weight:                 weight,
		Heads:                  heads,
		Notes:                  input.Notes,
		CreatedAt:              time.Now(),
	}
}
