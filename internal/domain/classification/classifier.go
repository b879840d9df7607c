package classification

import (
	"fmt"
	"math"
	"strconv"
)

// Classify resolves a measured weight to a classification using priority-ordered
// range matching. The list is scanned in four passes, most specific first:
//
//  1. bounded ranges (min and max set, inclusive both ends)
//  2. open-above ranges (min set, max unset)
//  3. open-below ranges (min unset, max set)
//  4. catch-all (neither bound set)
//
// Within a pass the list order decides ties. A bounded range later in the list
// therefore still beats an open range earlier in it. The boolean is false when
// no classification covers the weight, including for an empty list; callers
// treat that as a validation failure, not a fault.
func Classify(weight float64, classifications []WeightClassification) (WeightClassification, bool) {
	for _, wc := range classifications {
		if wc.MinWeight != nil && wc.MaxWeight != nil && weight >= *wc.MinWeight && weight <= *wc.MaxWeight {
			return wc, true
		}
	}
	for _, wc := range classifications {
		if wc.MinWeight != nil && wc.MaxWeight == nil && weight >= *wc.MinWeight {
			return wc, true
		}
	}
	for _, wc := range classifications {
		if wc.MinWeight == nil && wc.MaxWeight != nil && weight <= *wc.MaxWeight {
			return wc, true
		}
	}
	for _, wc := range classifications {
		if wc.IsCatchAll() {
			return wc, true
		}
	}
	return WeightClassification{}, false
}

// FormatWeightRange renders the human-readable range label for a classification.
// It is the only disambiguator between same-named classifications, so the
// branching is exhaustive.
func FormatWeightRange(wc WeightClassification) string {
	switch {
	case wc.MinWeight != nil && wc.MaxWeight != nil:
		return fmt.Sprintf("%s-%s", formatWeight(*wc.MinWeight), formatWeight(*wc.MaxWeight))
	case wc.MinWeight != nil:
		return fmt.Sprintf("%s and up", formatWeight(*wc.MinWeight))
	case wc.MaxWeight != nil:
		return fmt.Sprintf("Up to %s", formatWeight(*wc.MaxWeight))
	case wc.Category == CategoryByproduct:
		return "N/A"
	default:
		return "All Sizes"
	}
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

// rangesOverlap reports whether two weight ranges intersect. Unset bounds are
// treated as unbounded in that direction, so a catch-all overlaps everything.
func rangesOverlap(min1, max1, min2, max2 *float64) bool {
	lo1, hi1 := bounds(min1, max1)
	lo2, hi2 := bounds(min2, max2)
	return lo1 <= hi2 && lo2 <= hi1
}

func bounds(min, max *float64) (float64, float64) {
	lo := math.Inf(-1)
	hi := math.Inf(1)
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	return lo, hi
}
