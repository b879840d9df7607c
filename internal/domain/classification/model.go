package classification

import "time"

// Category groups classifications by product kind.
type Category string

const (
	CategoryDressed   Category = "Dressed"
	CategoryFrozen    Category = "Frozen"
	CategoryByproduct Category = "Byproduct"
)

// FallbackHeads is the head count assumed when a classification carries no default.
const FallbackHeads = 15

// WeightClassification is a named weight-range or byproduct bucket belonging to a plant.
type WeightClassification struct {
	ID             string    `json:"id"`
	PlantID        string    `json:"plant_id"`
	Classification string    `json:"classification"`
	Category       Category  `json:"category"`
	MinWeight      *float64  `json:"min_weight,omitempty"`
	MaxWeight      *float64  `json:"max_weight,omitempty"`
	DefaultHeads   *int      `json:"default_heads,omitempty"`
	Description    string    `json:"description,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsCatchAll reports whether the classification has no weight bounds at all.
func (wc WeightClassification) IsCatchAll() bool {
	return wc.MinWeight == nil && wc.MaxWeight == nil
}

// Heads resolves the default head count for entries logged against this classification.
func (wc WeightClassification) Heads() int {
	if wc.DefaultHeads != nil {
		return *wc.DefaultHeads
	}
	return FallbackHeads
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryDressed, CategoryFrozen, CategoryByproduct:
		return true
	}
	return false
}
