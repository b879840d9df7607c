package session

import (
	"fmt"
	"math"

	"github.com/plantfloor/tally/internal/domain/allocation"
)

// Outcome classifies the relationship between the two roles' counts for one
// classification.
type Outcome string

const (
	// OutcomeNotStarted means neither role has logged anything.
	OutcomeNotStarted Outcome = "not_started"
	// OutcomeMatch means the roles agree and there is no quota to compare against.
	OutcomeMatch Outcome = "match"
	// OutcomeMatchShort means the roles agree but fall short of the quota.
	OutcomeMatchShort Outcome = "match_short"
	// OutcomeMatchOver means the roles agree but exceed the quota.
	OutcomeMatchOver Outcome = "match_over"
	// OutcomeMismatch means the roles disagree; Difference carries the signed gap.
	OutcomeMismatch Outcome = "mismatch"
)

// Severity grades a mismatch against the configured acceptable difference.
type Severity string

const (
	SeverityNone    Severity = "none"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ReconciliationRow is the cross-role comparison for one allocation.
type ReconciliationRow struct {
	AllocationID     string   `json:"allocation_id"`
	ClassificationID string   `json:"classification_id"`
	RequiredBags     int      `json:"required_bags"`
	TallyCount       int      `json:"tally_count"`
	DispatcherCount  int      `json:"dispatcher_count"`
	Difference       int      `json:"difference"`
	DifferenceLabel  string   `json:"difference_label,omitempty"`
	Outcome          Outcome  `json:"outcome"`
	Severity         Severity `json:"severity"`
}

// Reconcile compares tally against dispatcher counts for every allocation.
// threshold is the non-negative acceptable difference: mismatches within it
// are warnings, beyond it errors.
func Reconcile(allocs []allocation.AllocationDetails, entries []allocation.LedgerEntry, threshold float64) []ReconciliationRow {
	ledger := allocation.NewLedger(entries)
	rows := make([]ReconciliationRow, 0, len(allocs))
	for _, a := range allocs {
		rows = append(rows, reconcileOne(a, ledger, threshold))
	}
	return rows
}

func reconcileOne(a allocation.AllocationDetails, ledger *allocation.Ledger, threshold float64) ReconciliationRow {
	tally := ledger.EntryCount(allocation.RoleTally, a.WeightClassificationID)
	dispatcher := ledger.EntryCount(allocation.RoleDispatcher, a.WeightClassificationID)
	diff := tally - dispatcher

	row := ReconciliationRow{
		AllocationID:     a.ID,
		ClassificationID: a.WeightClassificationID,
		RequiredBags:     a.RequiredBags,
		TallyCount:       tally,
		DispatcherCount:  dispatcher,
		Difference:       diff,
		Severity:         SeverityNone,
	}

	switch {
	case tally == 0 && dispatcher == 0:
		row.Outcome = OutcomeNotStarted
	case diff == 0:
		row.Outcome = OutcomeMatch
		if a.RequiredBags > 0 {
			if tally < a.RequiredBags {
				row.Outcome = OutcomeMatchShort
			} else if tally > a.RequiredBags {
				row.Outcome = OutcomeMatchOver
			}
		}
	default:
		row.Outcome = OutcomeMismatch
		row.DifferenceLabel = fmt.Sprintf("%+.2f", float64(diff))
		if math.Abs(float64(diff)) <= threshold {
			row.Severity = SeverityWarning
		} else {
			row.Severity = SeverityError
		}
	}
	return row
}
