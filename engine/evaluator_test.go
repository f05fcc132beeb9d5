package engine

import (
	"testing"

	"loanpool/backend/models"
)

func cond(field, op string, value interface{}) models.FilterCondition {
	return models.FilterCondition{Field: field, Operator: op, Value: value, Enabled: true}
}

func betweenCond(field string, min, max float64) models.FilterCondition {
	return models.FilterCondition{
		Field:    field,
		Operator: models.OpBetween,
		MinValue: &min,
		MaxValue: &max,
		Enabled:  true,
	}
}

func TestMatchesNumericOperators(t *testing.T) {
	r := &models.LoanRecord{DPD: floatPtr(90)}

	tests := []struct {
		op    string
		value interface{}
		want  bool
	}{
		{models.OpEqual, 90.0, true},
		{models.OpEqual, 91.0, false},
		{models.OpNotEqual, 91.0, true},
		{models.OpGreater, 89.0, true},
		{models.OpGreater, 90.0, false},
		{models.OpGreaterEqual, 90.0, true},
		{models.OpLess, 91.0, true},
		{models.OpLess, 90.0, false},
		{models.OpLessEqual, 90.0, true},
	}

	for _, tt := range tests {
		got := Matches(r, cond("dpd", tt.op, tt.value))
		if got != tt.want {
			t.Errorf("dpd %s %v: got %v, want %v", tt.op, tt.value, got, tt.want)
		}
	}
}

func TestMatchesNumericStringOperand(t *testing.T) {
	// Operands arrive from JSON and may be numeric strings.
	r := &models.LoanRecord{PrincipalOsAmt: floatPtr(50000)}

	if !Matches(r, cond("principal_os_amt", models.OpGreaterEqual, "50000")) {
		t.Error("numeric string operand should coerce")
	}
}

func TestMatchesBetweenInclusive(t *testing.T) {
	for _, dpd := range []float64{30, 45, 60} {
		r := &models.LoanRecord{DPD: floatPtr(dpd)}
		if !Matches(r, betweenCond("dpd", 30, 60)) {
			t.Errorf("dpd %v should match between 30 and 60 (inclusive)", dpd)
		}
	}
	r := &models.LoanRecord{DPD: floatPtr(61)}
	if Matches(r, betweenCond("dpd", 30, 60)) {
		t.Error("dpd 61 should not match between 30 and 60")
	}
}

func TestMatchesStringOperators(t *testing.T) {
	r := &models.LoanRecord{State: "Maharashtra"}

	tests := []struct {
		op    string
		value string
		want  bool
	}{
		{models.OpEqual, "Maharashtra", true},
		{models.OpEqual, "maharashtra", false}, // case-sensitive
		{models.OpNotEqual, "Gujarat", true},
		{models.OpContains, "rash", true},
		{models.OpContains, "RASH", false},
		{models.OpStartsWith, "Maha", true},
		{models.OpStartsWith, "aha", false},
		{models.OpEndsWith, "rashtra", true},
		{models.OpEndsWith, "Maha", false},
	}

	for _, tt := range tests {
		got := Matches(r, cond("state", tt.op, tt.value))
		if got != tt.want {
			t.Errorf("state %s %q: got %v, want %v", tt.op, tt.value, got, tt.want)
		}
	}
}

func TestMatchesNullChecks(t *testing.T) {
	withNPA := &models.LoanRecord{DateOfNPA: "2023-06-30"}
	withoutNPA := &models.LoanRecord{AgreementNo: "AG-2"}

	if Matches(withNPA, cond("date_of_npa", models.OpIsNull, nil)) {
		t.Error("populated field should not be null")
	}
	if !Matches(withNPA, cond("date_of_npa", models.OpIsNotNull, nil)) {
		t.Error("populated field should match isNotNull")
	}
	if !Matches(withoutNPA, cond("date_of_npa", models.OpIsNull, nil)) {
		t.Error("missing field should match isNull")
	}
	if Matches(withoutNPA, cond("date_of_npa", models.OpIsNotNull, nil)) {
		t.Error("missing field should not match isNotNull")
	}
}

func TestMatchesFailsClosed(t *testing.T) {
	r := &models.LoanRecord{State: "Kerala"}

	// Ordering operator against a non-numeric field value: no match, no panic.
	if Matches(r, cond("state", models.OpGreater, 10.0)) {
		t.Error("non-numeric field should never match an ordering operator")
	}
	// Non-numeric operand against a numeric field.
	r2 := &models.LoanRecord{DPD: floatPtr(30)}
	if Matches(r2, cond("dpd", models.OpLess, "not a number")) {
		t.Error("unparseable operand should make the condition false")
	}
	// Unresolvable field.
	if Matches(r, cond("bureau_score", models.OpGreaterEqual, 700.0)) {
		t.Error("unresolvable field should never match")
	}
}

func TestMatchesDisabledConditionIsVacuous(t *testing.T) {
	r := &models.LoanRecord{DPD: floatPtr(10)}

	c := cond("dpd", models.OpGreater, 500.0)
	c.Enabled = false
	if !Matches(r, c) {
		t.Error("disabled condition must match vacuously")
	}
}

func TestMatchesExtensionBagField(t *testing.T) {
	r := &models.LoanRecord{
		AdditionalFields: map[string]interface{}{"Asset Cost": 350000.0},
	}

	if !Matches(r, cond("asset cost", models.OpGreaterEqual, 300000.0)) {
		t.Error("condition on an extension-bag field should evaluate")
	}
}
