package stock

import "github.com/mandaniarchi41/sarii-stock/internal/model"

// Diff computes the per-color stock changes between two variant lists for
// audit logging. Emission order is deterministic: added/changed colors in
// newVariants order, then removed colors in oldVariants order.
//
// A color absent from oldVariants counts as a fresh addition (0 → stock).
// When stock or minStock differs, both min-stock fields are recorded together.
// A color absent from newVariants is recorded as zeroed out, but only if it
// had stock left; its min-stock fields are omitted.
func Diff(oldVariants, newVariants []model.ColorVariant) []model.ColorChange {
	oldByName := make(map[string]model.ColorVariant, len(oldVariants))
	for _, v := range oldVariants {
		oldByName[v.ColorName] = v
	}
	newNames := make(map[string]bool, len(newVariants))

	var changes []model.ColorChange
	for _, nv := range newVariants {
		newNames[nv.ColorName] = true
		ov, ok := oldByName[nv.ColorName]
		if !ok {
			changes = append(changes, levelChange(nv.ColorName, 0, nv.Stock, 0, nv.MinStock))
			continue
		}
		if ov.Stock != nv.Stock || ov.MinStock != nv.MinStock {
			changes = append(changes, levelChange(nv.ColorName, ov.Stock, nv.Stock, ov.MinStock, nv.MinStock))
		}
	}

	for _, ov := range oldVariants {
		if !newNames[ov.ColorName] && ov.Stock > 0 {
			changes = append(changes, model.ColorChange{
				ColorName: ov.ColorName,
				OldStock:  ov.Stock,
				NewStock:  0,
			})
		}
	}

	return changes
}

// InitialChanges records the starting stock levels of a newly created item,
// skipping variants that start at zero on both counts.
func InitialChanges(variants []model.ColorVariant) []model.ColorChange {
	var changes []model.ColorChange
	for _, v := range variants {
		if v.Stock > 0 || v.MinStock > 0 {
			changes = append(changes, levelChange(v.ColorName, 0, v.Stock, 0, v.MinStock))
		}
	}
	return changes
}

func levelChange(color string, oldStock, newStock, oldMin, newMin int) model.ColorChange {
	return model.ColorChange{
		ColorName:   color,
		OldStock:    oldStock,
		NewStock:    newStock,
		OldMinStock: &oldMin,
		NewMinStock: &newMin,
	}
}
