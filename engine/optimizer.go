package engine

import (
	"sort"
	"strings"

	"loanpool/backend/models"
)

// Selection is the output of the greedy sub-pool optimizer.
type Selection struct {
	Selected       []*models.LoanRecord
	SelectedAmount float64
	Difference     float64
}

// Optimize greedily builds a sub-pool whose cumulative value approaches the
// target. The filtered pool is sorted by target.SortField (stably, so ties
// keep input order), then walked in order accumulating target.SumValueField;
// the walk stops at the first record that would push the total past the
// target. The selection never overshoots: if even the first record is too
// large the selection is empty and Difference reports the full target.
// Records whose sum field does not resolve are skipped rather than selected
// at zero value, so every selected record contributes to the total.
func Optimize(records []*models.LoanRecord, target models.SelectionTarget) Selection {
	sel := Selection{Selected: []*models.LoanRecord{}, Difference: target.MaxPoolValue}
	if len(records) == 0 || target.MaxPoolValue <= 0 {
		if target.MaxPoolValue <= 0 {
			sel.Difference = 0
		}
		return sel
	}

	sumField := target.SumValueField
	if sumField == "" {
		sumField = DefaultValueField
	}

	sorted := make([]*models.LoanRecord, len(records))
	copy(sorted, records)
	if target.SortField != "" {
		desc := strings.EqualFold(target.SortDirection, "desc")
		sort.SliceStable(sorted, func(i, j int) bool {
			if desc {
				return recordLess(sorted[j], sorted[i], target.SortField)
			}
			return recordLess(sorted[i], sorted[j], target.SortField)
		})
	}

	for _, r := range sorted {
		v, ok := ResolveNumeric(r, sumField)
		if !ok {
			continue
		}
		if sel.SelectedAmount+v > target.MaxPoolValue {
			break
		}
		sel.Selected = append(sel.Selected, r)
		sel.SelectedAmount += v
	}

	sel.Difference = target.MaxPoolValue - sel.SelectedAmount
	return sel
}

// recordLess orders two records by a field: numerically when both sides
// resolve to numbers, lexicographically otherwise. Records missing the field
// sort after records that carry it.
func recordLess(a, b *models.LoanRecord, field string) bool {
	av, aok := ResolveNumeric(a, field)
	bv, bok := ResolveNumeric(b, field)
	if aok && bok {
		return av < bv
	}
	if aok != bok {
		return aok
	}
	as, aok := ResolveString(a, field)
	bs, bok := ResolveString(b, field)
	if aok && bok {
		return as < bs
	}
	return aok && !bok
}
