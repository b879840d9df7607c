package session

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plantfloor/tally/internal/domain/allocation"
)

func alloc(id, classificationID string, required int) allocation.AllocationDetails {
	return allocation.AllocationDetails{ID: id, WeightClassificationID: classificationID, RequiredBags: required}
}

func entries(classificationID string, tally, dispatcher int) []allocation.LedgerEntry {
	var out []allocation.LedgerEntry
	for i := 0; i < tally; i++ {
		out = append(out, allocation.LedgerEntry{ClassificationID: classificationID, Role: allocation.RoleTally})
	}
	for i := 0; i < dispatcher; i++ {
		out = append(out, allocation.LedgerEntry{ClassificationID: classificationID, Role: allocation.RoleDispatcher})
	}
	return out
}

func TestReconcile_NotStarted(t *testing.T) {
	rows := Reconcile([]allocation.AllocationDetails{alloc("a1", "wc1", 5)}, nil, 2)
	require.Len(t, rows, 1)
	require.Equal(t, OutcomeNotStarted, rows[0].Outcome)
	require.Equal(t, SeverityNone, rows[0].Severity)
}

func TestReconcile_NotStartedDistinctFromZeroDiffMatch(t *testing.T) {
	// Both have difference zero, but only one has activity
	rows := Reconcile(
		[]allocation.AllocationDetails{alloc("a1", "wc1", 0), alloc("a2", "wc2", 0)},
		entries("wc2", 2, 2), 2)
	require.Equal(t, OutcomeNotStarted, rows[0].Outcome)
	require.Equal(t, OutcomeMatch, rows[1].Outcome)
}

func TestReconcile_MatchAgainstQuota(t *testing.T) {
	tests := []struct {
		name     string
		required int
		tally    int
		want     Outcome
	}{
		{"exact", 3, 3, OutcomeMatch},
		{"short", 5, 3, OutcomeMatchShort},
		{"over", 2, 3, OutcomeMatchOver},
		{"no quota", 0, 3, OutcomeMatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := Reconcile(
				[]allocation.AllocationDetails{alloc("a1", "wc1", tt.required)},
				entries("wc1", tt.tally, tt.tally), 2)
			require.Equal(t, tt.want, rows[0].Outcome)
			require.Equal(t, SeverityNone, rows[0].Severity)
		})
	}
}

func TestReconcile_MismatchSeverity(t *testing.T) {
	// Within threshold: warning
	rows := Reconcile([]allocation.AllocationDetails{alloc("a1", "wc1", 10)}, entries("wc1", 5, 3), 2)
	require.Equal(t, OutcomeMismatch, rows[0].Outcome)
	require.Equal(t, 2, rows[0].Difference)
	require.Equal(t, "+2.00", rows[0].DifferenceLabel)
	require.Equal(t, SeverityWarning, rows[0].Severity)

	// Beyond threshold: error
	rows = Reconcile([]allocation.AllocationDetails{alloc("a1", "wc1", 10)}, entries("wc1", 1, 5), 2)
	require.Equal(t, OutcomeMismatch, rows[0].Outcome)
	require.Equal(t, -4, rows[0].Difference)
	require.Equal(t, "-4.00", rows[0].DifferenceLabel)
	require.Equal(t, SeverityError, rows[0].Severity)
}

func TestReconcile_ThresholdBoundaryInclusive(t *testing.T) {
	rows := Reconcile([]allocation.AllocationDetails{alloc("a1", "wc1", 10)}, entries("wc1", 4, 2), 2)
	require.Equal(t, SeverityWarning, rows[0].Severity, "difference equal to threshold is a warning")
}

func TestReconcile_RowPerAllocation(t *testing.T) {
	allocs := []allocation.AllocationDetails{
		alloc("a1", "wc1", 2),
		alloc("a2", "wc2", 3),
	}
	all := append(entries("wc1", 2, 2), entries("wc2", 1, 0)...)
	rows := Reconcile(allocs, all, 2)
	require.Len(t, rows, 2)
	require.Equal(t, OutcomeMatch, rows[0].Outcome)
	require.Equal(t, OutcomeMismatch, rows[1].Outcome)
}
