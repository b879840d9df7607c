package allocation

// Ledger computes allocation counts as pure projections over a session's log
// entry set. Build one from the current entries whenever counts are needed;
// no stored counter is consulted.
type Ledger struct {
	counts  map[ledgerKey]int
	weights map[ledgerKey]float64
	heads   map[ledgerKey]int
	totals  map[string]int
}

type ledgerKey struct {
	role             Role
	classificationID string
}

// NewLedger indexes the given entries for count and sum queries.
func NewLedger(entries []LedgerEntry) *Ledger {
	l := &Ledger{
		counts:  make(map[ledgerKey]int),
		weights: make(map[ledgerKey]float64),
		heads:   make(map[ledgerKey]int),
		totals:  make(map[string]int),
	}
	for _, e := range entries {
		key := ledgerKey{role: e.Role, classificationID: e.ClassificationID}
		l.counts[key]++
		l.weights[key] += e.Weight
		l.heads[key] += e.Heads
		l.totals[e.ClassificationID]++
	}
	return l
}

// EntryCount returns the number of entries logged by a role against a classification.
func (l *Ledger) EntryCount(role Role, classificationID string) int {
	return l.counts[ledgerKey{role: role, classificationID: classificationID}]
}

// TotalEntryCount returns the entry count across both roles for a classification.
// Byproduct workflows check this aggregate, not per-role counts, against the quota.
func (l *Ledger) TotalEntryCount(classificationID string) int {
	return l.totals[classificationID]
}

// SumWeight returns the summed weight of a role's entries for a classification.
func (l *Ledger) SumWeight(role Role, classificationID string) float64 {
	return l.weights[ledgerKey{role: role, classificationID: classificationID}]
}

// SumHeads returns the summed head count of a role's entries for a classification.
func (l *Ledger) SumHeads(role Role, classificationID string) int {
	return l.heads[ledgerKey{role: role, classificationID: classificationID}]
}

// IsFulfilled reports whether the allocation's quota is met exactly.
// Always false for a zero quota.
func (l *Ledger) IsFulfilled(a AllocationDetails) bool {
	return a.RequiredBags > 0 && l.TotalEntryCount(a.WeightClassificationID) == a.RequiredBags
}

// IsOverAllocated reports whether more entries are logged than the quota allows.
// Always false for a zero quota.
func (l *Ledger) IsOverAllocated(a AllocationDetails) bool {
	return a.RequiredBags > 0 && l.TotalEntryCount(a.WeightClassificationID) > a.RequiredBags
}

// Snapshot returns a copy of the allocation with its cached per-role counters
// recomputed from the ledger.
func (l *Ledger) Snapshot(a AllocationDetails) AllocationDetails {
	a.AllocatedBagsTally = l.EntryCount(RoleTally, a.WeightClassificationID)
	a.AllocatedBagsDispatcher = l.EntryCount(RoleDispatcher, a.WeightClassificationID)
	return a
}
