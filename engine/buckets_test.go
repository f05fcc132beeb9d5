package engine

import (
	"testing"

	"loanpool/backend/models"
)

func numericRules() []models.BucketRule {
	return []models.BucketRule{
		{Min: floatPtr(0), Max: floatPtr(100), Label: "A"},
		{Min: floatPtr(100), Max: nil, Label: "B"},
	}
}

func posConfig(rules []models.BucketRule) *models.BucketConfig {
	return &models.BucketConfig{
		ID:          "cfg-1",
		Name:        "POS Buckets",
		SummaryType: "pos",
		TargetField: "pos_amount",
		Rules:       rules,
	}
}

func TestAssignNumericRanges(t *testing.T) {
	rules := []models.BucketRule{
		{Min: floatPtr(0), Max: floatPtr(1000), Label: "0 to 1000"},
		{Min: floatPtr(1000), Max: floatPtr(10000), Label: "1000 to 10000"},
		{Min: floatPtr(10000), Max: nil, Label: "10000 to +"},
	}

	tests := []struct {
		value float64
		want  string
	}{
		{0, "0 to 1000"},
		{999.99, "0 to 1000"},
		{1000, "0 to 1000"}, // shared boundary lands in the earlier bucket
		{1000.01, "1000 to 10000"},
		{10000, "1000 to 10000"},
		{10000.01, "10000 to +"},
		{5000000, "10000 to +"}, // open-ended final bucket
	}

	for _, tt := range tests {
		r := &models.LoanRecord{PosAmount: floatPtr(tt.value)}
		got, ok := Assign(r, "pos_amount", rules)
		if !ok || got != tt.want {
			t.Errorf("value %v: got %q (%v), want %q", tt.value, got, ok, tt.want)
		}
	}
}

func TestAssignNumericSpecialForms(t *testing.T) {
	rules := []models.BucketRule{
		{Min: nil, Max: nil, Label: "Blank"},
		{Min: nil, Max: floatPtr(-1), Label: "Negative"},
		{Min: floatPtr(0), Max: floatPtr(0), Label: "Zero"},
		{Min: floatPtr(0), Max: nil, Label: "Positive"},
	}

	blank := &models.LoanRecord{AgreementNo: "AG-1"}
	if got, ok := Assign(blank, "pos_amount", rules); !ok || got != "Blank" {
		t.Errorf("missing value: got %q (%v), want Blank", got, ok)
	}

	neg := &models.LoanRecord{PosAmount: floatPtr(-500)}
	if got, ok := Assign(neg, "pos_amount", rules); !ok || got != "Negative" {
		t.Errorf("negative value: got %q (%v), want Negative", got, ok)
	}

	zero := &models.LoanRecord{PosAmount: floatPtr(0)}
	if got, ok := Assign(zero, "pos_amount", rules); !ok || got != "Zero" {
		t.Errorf("zero value: got %q (%v), want Zero", got, ok)
	}

	pos := &models.LoanRecord{PosAmount: floatPtr(42)}
	if got, ok := Assign(pos, "pos_amount", rules); !ok || got != "Positive" {
		t.Errorf("positive value: got %q (%v), want Positive", got, ok)
	}
}

func TestAssignUnbucketed(t *testing.T) {
	r := &models.LoanRecord{AgreementNo: "AG-1"}

	if _, ok := Assign(r, "pos_amount", numericRules()); ok {
		t.Error("record without the target field should be unbucketed")
	}
}

func TestAssignCategorical(t *testing.T) {
	rules := []models.BucketRule{
		{Values: []string{"HL", "LAP"}, Label: "Secured"},
		{Values: []string{"PL"}, Label: "Unsecured"},
		{Values: []string{}, Label: "Others"},
	}

	tests := []struct {
		product string
		want    string
	}{
		{"HL", "Secured"},
		{"LAP", "Secured"},
		{"PL", "Unsecured"},
		{"Gold", "Others"}, // catch-all rule
	}

	for _, tt := range tests {
		r := &models.LoanRecord{ProductType: tt.product}
		got, ok := Assign(r, "product_type", rules)
		if !ok || got != tt.want {
			t.Errorf("product %q: got %q (%v), want %q", tt.product, got, ok, tt.want)
		}
	}

	// Case-sensitive: "hl" does not match "HL", falls to the catch-all.
	r := &models.LoanRecord{ProductType: "hl"}
	if got, _ := Assign(r, "product_type", rules); got != "Others" {
		t.Errorf("lowercase hl should fall through to Others, got %q", got)
	}
}

func TestAssignAutoBucket(t *testing.T) {
	rules := []models.BucketRule{
		{Values: []string{models.AutoBucketSentinel}, Label: "By Value"},
	}

	r := &models.LoanRecord{State: "Gujarat"}
	got, ok := Assign(r, "state", rules)
	if !ok || got != "Gujarat" {
		t.Errorf("auto bucket should label by distinct value, got %q (%v)", got, ok)
	}
}

func TestAggregateScenario(t *testing.T) {
	// Spec'd worked example: two records, buckets [0,100) and [100,∞), plus
	// the write-off sentinel on the first record's DPD.
	records := []*models.LoanRecord{
		{ID: "1", AgreementNo: "AG-1", PosAmount: floatPtr(100), DPD: floatPtr(999)},
		{ID: "2", AgreementNo: "AG-2", PosAmount: floatPtr(200), DPD: floatPtr(50)},
	}

	rows := Aggregate(records, posConfig(numericRules()), true)

	if len(rows) != 3 {
		t.Fatalf("expected 2 buckets + total, got %d rows", len(rows))
	}
	// pos_amount aliases principal_os_amt, so POS picks the same values.
	assertRow(t, rows[0], "A", 1, 100)
	assertRow(t, rows[1], "B", 1, 200)
	assertRow(t, rows[2], TotalRowLabel, 2, 300)

	if s, _ := ResolveString(records[0], "dpd"); s != WriteOffState {
		t.Errorf("record 1 dpd should resolve to %q, got %q", WriteOffState, s)
	}
}

func TestAggregateReconciliation(t *testing.T) {
	// One record has no bucketable value; counts and sums must still
	// reconcile through the total row.
	records := []*models.LoanRecord{
		{ID: "1", AgreementNo: "AG-1", PosAmount: floatPtr(50)},
		{ID: "2", AgreementNo: "AG-2", PosAmount: floatPtr(150)},
		{ID: "3", AgreementNo: "AG-3"}, // unbucketed
	}

	rows := Aggregate(records, posConfig(numericRules()), true)

	bucketCount := 0
	var bucketPOS float64
	var total models.SummaryRow
	for _, row := range rows {
		if row.Label == TotalRowLabel {
			total = row
			continue
		}
		bucketCount += row.Count
		bucketPOS += row.POS
	}

	if bucketCount+1 != len(records) {
		t.Errorf("bucket counts + unbucketed should equal input size: %d + 1 != %d", bucketCount, len(records))
	}
	if total.Count != len(records) {
		t.Errorf("total row must cover every record, got %d", total.Count)
	}
	if bucketPOS > total.POS {
		t.Errorf("bucket POS %v exceeds total POS %v", bucketPOS, total.POS)
	}
}

func TestAggregatePOSPercent(t *testing.T) {
	records := []*models.LoanRecord{
		{ID: "1", AgreementNo: "AG-1", PosAmount: floatPtr(25)},
		{ID: "2", AgreementNo: "AG-2", PosAmount: floatPtr(75)},
	}
	rules := []models.BucketRule{
		{Min: floatPtr(0), Max: floatPtr(50), Label: "Low"},
		{Min: floatPtr(50), Max: nil, Label: "High"},
	}

	rows := Aggregate(records, posConfig(rules), true)

	if rows[0].POSPer != 25 || rows[1].POSPer != 75 {
		t.Errorf("expected 25/75 percent split, got %v/%v", rows[0].POSPer, rows[1].POSPer)
	}
	if rows[2].POSPer != 100 {
		t.Errorf("total row should be 100%%, got %v", rows[2].POSPer)
	}
}

func TestAggregateZeroTotalNoDivideByZero(t *testing.T) {
	records := []*models.LoanRecord{
		{ID: "1", AgreementNo: "AG-1", PosAmount: floatPtr(0)},
	}

	rows := Aggregate(records, posConfig(numericRules()), true)

	for _, row := range rows {
		if row.POSPer != 0 {
			t.Errorf("zero grand total must yield 0%%, got %v for %q", row.POSPer, row.Label)
		}
	}
}

func TestAggregateHidesEmptyBuckets(t *testing.T) {
	records := []*models.LoanRecord{
		{ID: "1", AgreementNo: "AG-1", PosAmount: floatPtr(500)},
	}

	rows := Aggregate(records, posConfig(numericRules()), false)

	if len(rows) != 2 {
		t.Fatalf("expected non-empty bucket + total, got %d rows", len(rows))
	}
	if rows[0].Label != "B" || rows[1].Label != TotalRowLabel {
		t.Errorf("unexpected rows: %q, %q", rows[0].Label, rows[1].Label)
	}
}

func TestAggregateEmptyInput(t *testing.T) {
	rows := Aggregate(nil, posConfig(numericRules()), true)

	if len(rows) != 3 {
		t.Fatalf("expected zero-valued buckets + total, got %d rows", len(rows))
	}
	for _, row := range rows {
		if row.Count != 0 || row.POS != 0 {
			t.Errorf("row %q should be zero-valued", row.Label)
		}
	}
}

func TestAggregateCollections(t *testing.T) {
	records := []*models.LoanRecord{
		{
			ID: "1", AgreementNo: "AG-1", PosAmount: floatPtr(1000),
			TotalAmtDisb:       floatPtr(5000),
			M6Collection:       floatPtr(60),
			M12Collection:      floatPtr(120),
			PostNpaCollection:  floatPtr(30),
			PostWoffCollection: floatPtr(10),
			TotalCollection:    floatPtr(220),
		},
	}

	rows := Aggregate(records, posConfig(numericRules()), false)

	total := rows[len(rows)-1]
	if total.M6Collection != 60 || total.M12Collection != 120 {
		t.Errorf("collection horizons wrong: %v/%v", total.M6Collection, total.M12Collection)
	}
	if total.PostNpaCollection != 30 || total.PostWoffCollection != 10 {
		t.Errorf("post-NPA/write-off sums wrong: %v/%v", total.PostNpaCollection, total.PostWoffCollection)
	}
	if total.TotalCollection != 220 {
		t.Errorf("expected total_collection 220, got %v", total.TotalCollection)
	}
	// disbursement_amount aliases total_amt_disb.
	if total.DisbursementAmount != 5000 {
		t.Errorf("expected disbursement 5000, got %v", total.DisbursementAmount)
	}
}

func TestAggregateAutoBuckets(t *testing.T) {
	records := []*models.LoanRecord{
		{ID: "1", AgreementNo: "AG-1", State: "Gujarat", PosAmount: floatPtr(10)},
		{ID: "2", AgreementNo: "AG-2", State: "Kerala", PosAmount: floatPtr(20)},
		{ID: "3", AgreementNo: "AG-3", State: "Gujarat", PosAmount: floatPtr(30)},
	}
	cfg := &models.BucketConfig{
		ID:          "cfg-auto",
		Name:        "By State",
		SummaryType: "state",
		TargetField: "state",
		Rules:       []models.BucketRule{{Values: []string{models.AutoBucketSentinel}, Label: "By Value"}},
	}

	rows := Aggregate(records, cfg, true)

	if len(rows) != 3 {
		t.Fatalf("expected 2 distinct states + total, got %d", len(rows))
	}
	assertRow(t, rows[0], "Gujarat", 2, 40)
	assertRow(t, rows[1], "Kerala", 1, 20)
	assertRow(t, rows[2], TotalRowLabel, 3, 60)
}

func assertRow(t *testing.T, row models.SummaryRow, label string, count int, pos float64) {
	t.Helper()
	if row.Label != label {
		t.Errorf("expected label %q, got %q", label, row.Label)
	}
	if row.Count != count {
		t.Errorf("%s: expected count %d, got %d", label, count, row.Count)
	}
	if row.POS != pos {
		t.Errorf("%s: expected POS %v, got %v", label, pos, row.POS)
	}
}
