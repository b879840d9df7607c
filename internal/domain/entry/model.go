package entry

import (
	"time"

	"github.com/plantfloor/tally/internal/domain/allocation"
)

// Mode selects how an entry attempt resolves its classification.
type Mode string

const (
	// ModeDressed classifies automatically from the measured weight.
	ModeDressed Mode = "dressed"
	// ModeManual uses an operator-selected classification with a measured weight.
	ModeManual Mode = "manual"
	// ModeByproduct uses an operator-selected classification and counts items,
	// recording weight 1 per entry.
	ModeByproduct Mode = "byproduct"
)

// TallyLogEntry is one recorded unit attributed to a role and classification.
// Entries are facts: immutable once created except through the explicit edit
// and transfer operations.
type TallyLogEntry struct {
	ID                     string          `json:"id"`
	TallySessionID         string          `json:"tally_session_id"`
	WeightClassificationID string          `json:"weight_classification_id"`
	Role                   allocation.Role `json:"role"`
	Weight                 float64         `json:"weight"`
	Heads                  int             `json:"heads"`
	Notes                  string          `json:"notes,omitempty"`
	CreatedAt              time.Time       `json:"created_at"`
}

// LedgerEntry converts the entry to the ledger's projection view.
func (e TallyLogEntry) LedgerEntry() allocation.LedgerEntry {
	return allocation.LedgerEntry{
		ClassificationID: e.WeightClassificationID,
		Role:             e.Role,
		Weight:           e.Weight,
		Heads:            e.Heads,
	}
}
