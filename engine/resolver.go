// Package engine implements the pool-selection and bucket-summary core:
// field resolution, filter evaluation and validation, greedy sub-pool
// selection, and bucket aggregation. Everything here is a pure function of
// its inputs; storage and transport live in the services and handlers
// packages.
package engine

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"loanpool/backend/models"
)

// WriteOffState is the categorical rendering of the DPD write-off sentinel.
const WriteOffState = "Write-off"

// dpdWriteOffSentinel is the DPD value tapes use to mark written-off loans.
const dpdWriteOffSentinel = 999

// fieldAliases maps a logical field name to the physical columns that may
// carry it, in preference order. Tapes from different originators name the
// same column differently; this table is the single place that knowledge
// lives.
var fieldAliases = map[string][]string{
	"agreement_no":        {"agreement_no", "loan_id"},
	"loan_id":             {"loan_id", "agreement_no"},
	"customer_name":       {"customer_name"},
	"principal_os_amt":    {"principal_os_amt", "pos_amount"},
	"pos_amount":          {"pos_amount", "principal_os_amt"},
	"total_balance_amt":   {"total_balance_amt"},
	"disbursement_amount": {"disbursement_amount", "total_amt_disb"},
	"total_amt_disb":      {"total_amt_disb", "disbursement_amount"},
	"disbursement_date":   {"first_disb_date", "last_disb_date"},
	"dpd":                 {"dpd"},
	"sanction_date":       {"sanction_date"},
	"date_of_npa":         {"date_of_npa"},
	"date_of_woff":        {"date_of_woff"},
	"6m_col":              {"m6_collection"},
	"12m_col":             {"m12_collection", "collection_12m"},
}

// bagAliases lists extension-bag spellings tried before the generic exact and
// fuzzy passes. Source sheets use human headings, so these are looser than
// the column aliases.
var bagAliases = map[string][]string{
	"principal_os_amt": {
		"principal_os_amt", "principal_outstanding_amt", "principal_os",
		"principal outstanding", "principal o/s", "pos",
	},
	"total_balance_amt": {
		"total_balance_amt", "total_balance_amount", "total_balanceamt", "total balance",
	},
	"dpd": {"dpd", "days_past_due", "overdue days", "original_dpd"},
	"customer_name": {"customer name", "borrower name", "customer"},
	"date_of_woff":  {"date_of_write_off", "date of write-off", "write-off date"},
}

// dateLayouts tried in order when resolving date fields. Excel serial numbers
// are handled separately.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"02/01/2006",
	"02-01-2006",
	"02.01.2006",
}

// excelEpoch is day zero of Excel's 1900 date system (30 Dec 1899, accounting
// for the leap-year bug).
var excelEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// Resolve finds the value of a logical field on a record. Resolution order:
// aliased physical columns, then the extension bag (known spellings, exact
// case-insensitive match, then substring fuzzy match for names longer than
// three characters). The bool is false when nothing usable was found.
//
// The DPD write-off sentinel resolves to the WriteOffState string, not the
// numeric 999; use ResolveNumeric when the raw number is wanted.
func Resolve(r *models.LoanRecord, field string) (interface{}, bool) {
	v, ok := resolveRaw(r, field)
	if !ok {
		return nil, false
	}
	if field == "dpd" {
		if n, numOK := toNumber(v); numOK && n == dpdWriteOffSentinel {
			return WriteOffState, true
		}
	}
	return v, true
}

// ResolveNumeric resolves a field and coerces it to a number. Unresolvable or
// non-numeric values report false.
func ResolveNumeric(r *models.LoanRecord, field string) (float64, bool) {
	v, ok := resolveRaw(r, field)
	if !ok {
		return 0, false
	}
	return toNumber(v)
}

// ResolveString resolves a field and renders it as a string. Sentinel
// handling applies, so a written-off DPD comes back as WriteOffState.
func ResolveString(r *models.LoanRecord, field string) (string, bool) {
	v, ok := Resolve(r, field)
	if !ok {
		return "", false
	}
	return toString(v), true
}

// ResolveDate resolves a field and parses it as a date, tolerating ISO
// strings, DD/MM/YYYY with slash, dash or dot separators, and Excel serial
// numbers. Unparseable values report false, never an error.
func ResolveDate(r *models.LoanRecord, field string) (time.Time, bool) {
	v, ok := resolveRaw(r, field)
	if !ok {
		return time.Time{}, false
	}
	return ParseDate(v)
}

// ParseDate parses a raw scalar as a date using the tolerated encodings in
// order: ISO, DD/MM/YYYY, DD-MM-YYYY, DD.MM.YYYY, Excel serial.
func ParseDate(v interface{}) (time.Time, bool) {
	if t, ok := v.(time.Time); ok {
		return t, true
	}
	if n, ok := v.(float64); ok {
		return excelSerialDate(n)
	}
	s := strings.TrimSpace(toString(v))
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		return excelSerialDate(n)
	}
	return time.Time{}, false
}

func excelSerialDate(serial float64) (time.Time, bool) {
	// Serial 1 is 1 Jan 1900; anything at or below zero is garbage.
	if serial <= 0 || serial > 200000 {
		return time.Time{}, false
	}
	return excelEpoch.Add(time.Duration(serial * float64(24*time.Hour))), true
}

// resolveRaw runs the resolution ladder without sentinel translation.
func resolveRaw(r *models.LoanRecord, field string) (interface{}, bool) {
	candidates, aliased := fieldAliases[field]
	if !aliased {
		candidates = []string{field}
	}
	for _, name := range candidates {
		if v, ok := r.Column(name); ok {
			return v, true
		}
	}
	if len(r.AdditionalFields) == 0 {
		return nil, false
	}
	for _, name := range bagAliases[field] {
		if v, ok := bagLookup(r.AdditionalFields, name); ok {
			return v, true
		}
	}
	if v, ok := bagLookup(r.AdditionalFields, field); ok {
		return v, true
	}
	// Fuzzy pass: substring match either direction, guarded against short
	// names that would match half the sheet. Candidate keys are sorted so
	// resolution never depends on map iteration order.
	if len(field) > 3 {
		lower := strings.ToLower(field)
		var matched []string
		for key, v := range r.AdditionalFields {
			if v == nil {
				continue
			}
			keyLower := strings.ToLower(key)
			if strings.Contains(keyLower, lower) || strings.Contains(lower, keyLower) {
				matched = append(matched, key)
			}
		}
		if len(matched) > 0 {
			sort.Strings(matched)
			return r.AdditionalFields[matched[0]], true
		}
	}
	return nil, false
}

// bagLookup does a case-insensitive exact match against extension-bag keys.
func bagLookup(bag map[string]interface{}, name string) (interface{}, bool) {
	if v, ok := bag[name]; ok && v != nil {
		return v, true
	}
	lower := strings.ToLower(name)
	for key, v := range bag {
		if v != nil && strings.ToLower(key) == lower {
			return v, true
		}
	}
	return nil, false
}

func toNumber(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

func toString(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	}
	return ""
}
