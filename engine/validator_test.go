package engine

import (
	"strings"
	"testing"

	"loanpool/backend/models"
)

func TestValidateContradictoryBounds(t *testing.T) {
	conflicts := Validate([]models.FilterCondition{
		cond("dpd", models.OpGreaterEqual, 300.0),
		cond("dpd", models.OpLessEqual, 200.0),
	})

	if len(conflicts) != 1 {
		t.Fatalf("expected exactly one conflict, got %d: %v", len(conflicts), conflicts)
	}
	if !strings.Contains(conflicts[0], "dpd") {
		t.Errorf("conflict message should name the field: %q", conflicts[0])
	}
}

func TestValidateConsistentSet(t *testing.T) {
	conflicts := Validate([]models.FilterCondition{
		cond("dpd", models.OpGreaterEqual, 30.0),
		cond("dpd", models.OpLessEqual, 180.0),
		betweenCond("principal_os_amt", 10000, 500000),
		cond("state", models.OpEqual, "Karnataka"),
	})

	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", conflicts)
	}
}

func TestValidateStrictOperatorEpsilon(t *testing.T) {
	// > 100 and < 100.0000001 leave no room once the epsilon is applied.
	conflicts := Validate([]models.FilterCondition{
		cond("dpd", models.OpGreater, 100.0),
		cond("dpd", models.OpLess, 100.0000001),
	})

	if len(conflicts) != 1 {
		t.Errorf("expected one conflict from epsilon-tightened bounds, got %v", conflicts)
	}

	// > 100 and < 101 is fine.
	conflicts = Validate([]models.FilterCondition{
		cond("dpd", models.OpGreater, 100.0),
		cond("dpd", models.OpLess, 101.0),
	})
	if len(conflicts) != 0 {
		t.Errorf("expected no conflicts, got %v", conflicts)
	}
}

func TestValidateBetweenInverted(t *testing.T) {
	conflicts := Validate([]models.FilterCondition{
		betweenCond("principal_os_amt", 500000, 10000),
	})

	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %v", conflicts)
	}
	if !strings.Contains(conflicts[0], "principal_os_amt") {
		t.Errorf("conflict should name the field: %q", conflicts[0])
	}
}

func TestValidateBetweenIntersection(t *testing.T) {
	// Two between ranges with an empty intersection.
	conflicts := Validate([]models.FilterCondition{
		betweenCond("dpd", 0, 90),
		betweenCond("dpd", 180, 360),
	})

	if len(conflicts) != 1 {
		t.Errorf("expected one conflict for empty intersection, got %v", conflicts)
	}
}

func TestValidateEqualityOutsideBounds(t *testing.T) {
	conflicts := Validate([]models.FilterCondition{
		cond("dpd", models.OpGreaterEqual, 100.0),
		cond("dpd", models.OpEqual, 50.0),
	})

	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %v", conflicts)
	}
	if !strings.Contains(conflicts[0], "'='") {
		t.Errorf("conflict should mention the equality: %q", conflicts[0])
	}
}

func TestValidateEqualityCollapsesBounds(t *testing.T) {
	// = 50 pins the range; a later >= 60 has nothing left to match.
	conflicts := Validate([]models.FilterCondition{
		cond("dpd", models.OpEqual, 50.0),
		cond("dpd", models.OpGreaterEqual, 60.0),
	})

	if len(conflicts) != 1 {
		t.Errorf("expected one conflict after bound collapse, got %v", conflicts)
	}
}

func TestValidateConflictingStringEquals(t *testing.T) {
	conflicts := Validate([]models.FilterCondition{
		cond("state", models.OpEqual, "Karnataka"),
		cond("state", models.OpEqual, "Kerala"),
	})

	if len(conflicts) != 1 {
		t.Fatalf("expected one conflict, got %v", conflicts)
	}
	if !strings.Contains(conflicts[0], "Karnataka") || !strings.Contains(conflicts[0], "Kerala") {
		t.Errorf("conflict should name both values: %q", conflicts[0])
	}
}

func TestValidateRepeatedStringEqualIsFine(t *testing.T) {
	conflicts := Validate([]models.FilterCondition{
		cond("state", models.OpEqual, "Kerala"),
		cond("state", models.OpEqual, "Kerala"),
	})

	if len(conflicts) != 0 {
		t.Errorf("identical equalities should not conflict, got %v", conflicts)
	}
}

func TestValidateIgnoresDisabledConditions(t *testing.T) {
	disabled := cond("dpd", models.OpLessEqual, 10.0)
	disabled.Enabled = false

	conflicts := Validate([]models.FilterCondition{
		cond("dpd", models.OpGreaterEqual, 300.0),
		disabled,
	})

	if len(conflicts) != 0 {
		t.Errorf("disabled conditions must not participate, got %v", conflicts)
	}
}

func TestValidateIndependentFields(t *testing.T) {
	// Bounds on different fields never interact.
	conflicts := Validate([]models.FilterCondition{
		cond("dpd", models.OpGreaterEqual, 300.0),
		cond("bureau_score", models.OpLessEqual, 200.0),
	})

	if len(conflicts) != 0 {
		t.Errorf("expected no cross-field conflicts, got %v", conflicts)
	}
}
