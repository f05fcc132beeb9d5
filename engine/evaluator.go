package engine

import (
	"strings"

	"loanpool/backend/models"
)

// Matches evaluates one filter condition against a record. Disabled
// conditions match vacuously. Comparisons fail closed: an unresolvable field
// or an operand that will not coerce makes the condition false for that
// record, never an error.
func Matches(r *models.LoanRecord, c models.FilterCondition) bool {
	if !c.Enabled {
		return true
	}

	switch c.Operator {
	case models.OpIsNull:
		return isBlank(r, c.Field)
	case models.OpIsNotNull:
		return !isBlank(r, c.Field)
	case models.OpBetween:
		if c.MinValue == nil || c.MaxValue == nil {
			return false
		}
		v, ok := ResolveNumeric(r, c.Field)
		return ok && v >= *c.MinValue && v <= *c.MaxValue
	case models.OpContains, models.OpStartsWith, models.OpEndsWith:
		return matchString(r, c)
	case models.OpEqual, models.OpNotEqual:
		return matchEquality(r, c)
	case models.OpGreater, models.OpGreaterEqual, models.OpLess, models.OpLessEqual:
		return matchNumeric(r, c)
	}
	return false
}

// matchNumeric handles the ordering operators. Both sides must coerce to
// numbers.
func matchNumeric(r *models.LoanRecord, c models.FilterCondition) bool {
	operand, ok := toNumber(c.Value)
	if !ok {
		return false
	}
	v, ok := ResolveNumeric(r, c.Field)
	if !ok {
		return false
	}
	switch c.Operator {
	case models.OpGreater:
		return v > operand
	case models.OpGreaterEqual:
		return v >= operand
	case models.OpLess:
		return v < operand
	case models.OpLessEqual:
		return v <= operand
	}
	return false
}

// matchEquality compares numerically when both sides are numbers, otherwise
// as literal case-sensitive strings.
func matchEquality(r *models.LoanRecord, c models.FilterCondition) bool {
	equal := false
	if operand, numOK := toNumber(c.Value); numOK {
		if v, ok := ResolveNumeric(r, c.Field); ok {
			equal = v == operand
		} else if s, ok := ResolveString(r, c.Field); ok {
			equal = s == toString(c.Value)
		} else {
			return false
		}
	} else {
		s, ok := ResolveString(r, c.Field)
		if !ok {
			return false
		}
		equal = s == toString(c.Value)
	}
	if c.Operator == models.OpNotEqual {
		return !equal
	}
	return equal
}

func matchString(r *models.LoanRecord, c models.FilterCondition) bool {
	s, ok := ResolveString(r, c.Field)
	if !ok {
		return false
	}
	operand := toString(c.Value)
	switch c.Operator {
	case models.OpContains:
		return strings.Contains(s, operand)
	case models.OpStartsWith:
		return strings.HasPrefix(s, operand)
	case models.OpEndsWith:
		return strings.HasSuffix(s, operand)
	}
	return false
}

// isBlank reports whether a field is missing, null, or an empty string on
// this record.
func isBlank(r *models.LoanRecord, field string) bool {
	v, ok := resolveRaw(r, field)
	if !ok || v == nil {
		return true
	}
	if s, isStr := v.(string); isStr && strings.TrimSpace(s) == "" {
		return true
	}
	return false
}
