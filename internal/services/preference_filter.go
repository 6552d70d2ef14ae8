package services

import (
	"github.com/temcen/nutrirec/internal/catalog"
	"github.com/temcen/nutrirec/pkg/models"
)

// FilterByPreferences keeps the candidate rows whose raw nutrient values are
// at most every honored threshold. A nil candidate list means the whole
// catalog. Fields other than the four nutrients are ignored.
func FilterByPreferences(store *catalog.Store, candidates []int, prefs models.Preferences) []int {
	if candidates == nil {
		candidates = store.Indices()
	}

	type ceiling struct {
		col int
		max float64
	}
	var ceilings []ceiling
	for field, max := range prefs {
		if col := models.NutrientIndex(field); col >= 0 {
			ceilings = append(ceilings, ceiling{col: col, max: max})
		}
	}

	if len(ceilings) == 0 {
		out := make([]int, len(candidates))
		copy(out, candidates)
		return out
	}

	kept := make([]int, 0, len(candidates))
	for _, idx := range candidates {
		ok := true
		for _, c := range ceilings {
			if !(store.RawValue(idx, c.col) <= c.max) {
				ok = false
				break
			}
		}
		if ok {
			kept = append(kept, idx)
		}
	}

	return kept
}
