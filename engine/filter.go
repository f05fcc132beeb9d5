package engine

import "loanpool/backend/models"

// DefaultValueField is summed over matches when the caller does not name a
// value field.
const DefaultValueField = "principal_os_amt"

// FilterResult is the output of one filter pass.
type FilterResult struct {
	Matched    []*models.LoanRecord
	TotalCount int
	TotalValue float64
}

// Apply filters records with the default value field. See ApplyWithValueField.
func Apply(records []*models.LoanRecord, conditions []models.FilterCondition) FilterResult {
	return ApplyWithValueField(records, conditions, DefaultValueField)
}

// ApplyWithValueField runs every enabled condition as a conjunction over the
// record set in a single pass, preserving input order. Records sharing an
// identity key are collapsed to the first occurrence before counting and
// summing — tapes occasionally carry the same agreement twice and a pool must
// never double-count it. The value total skips records where the value field
// does not resolve.
func ApplyWithValueField(records []*models.LoanRecord, conditions []models.FilterCondition, valueField string) FilterResult {
	if valueField == "" {
		valueField = DefaultValueField
	}

	result := FilterResult{Matched: make([]*models.LoanRecord, 0, len(records))}
	seen := make(map[string]bool, len(records))

	for _, r := range records {
		key := r.IdentityKey()
		if key != "" && seen[key] {
			continue
		}

		pass := true
		for _, c := range conditions {
			if !Matches(r, c) {
				pass = false
				break
			}
		}
		if !pass {
			continue
		}

		if key != "" {
			seen[key] = true
		}
		result.Matched = append(result.Matched, r)
		result.TotalCount++
		if v, ok := ResolveNumeric(r, valueField); ok {
			result.TotalValue += v
		}
	}

	return result
}
