package engine

import (
	"fmt"

	"loanpool/backend/models"
)

// strictEpsilon nudges strict inequalities so they fold into the inclusive
// effective-bound tracking.
const strictEpsilon = 1e-6

// Validate statically checks a condition set for internal conflicts before
// it is applied: contradictory numeric ranges on a field, an equality outside
// the accumulated bounds, or two different string equalities on the same
// field. The returned messages are human-readable; an empty slice means the
// set is consistent. Validation never mutates or auto-corrects the input —
// blocking execution on findings is the caller's job.
func Validate(conditions []models.FilterCondition) []string {
	var conflicts []string

	type fieldState struct {
		min, max     *float64
		stringEquals []string
	}
	states := make(map[string]*fieldState)
	// Track first-seen field order so messages come out deterministically.
	var order []string

	state := func(field string) *fieldState {
		s, ok := states[field]
		if !ok {
			s = &fieldState{}
			states[field] = s
			order = append(order, field)
		}
		return s
	}

	tightenMin := func(s *fieldState, v float64) {
		if s.min == nil || v > *s.min {
			s.min = &v
		}
	}
	tightenMax := func(s *fieldState, v float64) {
		if s.max == nil || v < *s.max {
			s.max = &v
		}
	}

	for _, c := range conditions {
		if !c.Enabled {
			continue
		}
		s := state(c.Field)

		switch c.Operator {
		case models.OpBetween:
			if c.MinValue == nil || c.MaxValue == nil {
				continue
			}
			if *c.MinValue > *c.MaxValue {
				conflicts = append(conflicts, fmt.Sprintf(
					"field %q 'between' has min_value %v greater than max_value %v",
					c.Field, *c.MinValue, *c.MaxValue))
				continue
			}
			tightenMin(s, *c.MinValue)
			tightenMax(s, *c.MaxValue)
		case models.OpGreaterEqual:
			if v, ok := toNumber(c.Value); ok {
				tightenMin(s, v)
			}
		case models.OpGreater:
			if v, ok := toNumber(c.Value); ok {
				tightenMin(s, v+strictEpsilon)
			}
		case models.OpLessEqual:
			if v, ok := toNumber(c.Value); ok {
				tightenMax(s, v)
			}
		case models.OpLess:
			if v, ok := toNumber(c.Value); ok {
				tightenMax(s, v-strictEpsilon)
			}
		case models.OpEqual:
			if v, ok := toNumber(c.Value); ok {
				if (s.min != nil && v < *s.min) || (s.max != nil && v > *s.max) {
					conflicts = append(conflicts, fmt.Sprintf(
						"field %q has '=' value %v conflicting with existing numeric filters",
						c.Field, v))
				}
				// Equality pins the range either way.
				vv := v
				s.min, s.max = &vv, &vv
				continue
			}
			str := toString(c.Value)
			for _, prev := range s.stringEquals {
				if prev != str {
					conflicts = append(conflicts, fmt.Sprintf(
						"field %q has conflicting '=' filters: %q vs %q",
						c.Field, prev, str))
					break
				}
			}
			s.stringEquals = append(s.stringEquals, str)
		}
	}

	for _, field := range order {
		s := states[field]
		if s.min != nil && s.max != nil && *s.min > *s.max {
			conflicts = append(conflicts, fmt.Sprintf(
				"field %q has conflicting numeric filters: effective min %v > effective max %v",
				field, *s.min, *s.max))
		}
	}

	return conflicts
}
