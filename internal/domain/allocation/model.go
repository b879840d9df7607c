package allocation

import "time"

// Role identifies which observer recorded a log entry. Tally and dispatcher
// counts are tracked independently and reconciled per session.
type Role string

const (
	RoleTally      Role = "tally"
	RoleDispatcher Role = "dispatcher"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleTally || r == RoleDispatcher
}

// AllocationDetails is the required quota for one classification within a
// session, at most one row per (session, classification) pair.
//
// AllocatedBagsTally and AllocatedBagsDispatcher are cached snapshots of the
// per-role entry counts. The entry set is the ground truth; the snapshots are
// recomputed from it after every entry mutation and are never written from
// caller input.
type AllocationDetails struct {
	ID                      string    `json:"id"`
	TallySessionID          string    `json:"tally_session_id"`
	WeightClassificationID  string    `json:"weight_classification_id"`
	RequiredBags            int       `json:"required_bags"`
	AllocatedBagsTally      int       `json:"allocated_bags_tally"`
	AllocatedBagsDispatcher int       `json:"allocated_bags_dispatcher"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

// LedgerEntry is the ledger's view of one log entry: just enough to count and
// sum without depending on the full entry model.
type LedgerEntry struct {
	ClassificationID string
	Role             Role
	Weight           float64
	Heads            int
}
