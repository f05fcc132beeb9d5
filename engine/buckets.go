package engine

import (
	"math"
	"sort"

	"loanpool/backend/models"
)

// TotalRowLabel labels the synthetic grand-total row every summary ends with.
const TotalRowLabel = "Total"

// Assign places one record into a bucket and returns its label. The bool is
// false when no rule claims the record (unbucketed). Assignment is a pure
// function of the record and the rules, scanned in configured order.
//
// Numeric rule forms, all driven off the rule's bounds:
//   - min and max both null: matches blank/unresolvable values
//   - max null: open-ended, value >= min
//   - min null and max < 0: the negative-values bucket, value < 0
//   - otherwise: min <= value <= max, both bounds inclusive. First match
//     wins, so a value on the shared boundary of adjacent tiling buckets
//     lands in the earlier one and is never double counted.
//
// Categorical rules match the resolved string against their values list,
// case-sensitively. The "ALL" sentinel groups by the distinct value itself,
// and a rule with an empty values list catches everything left over.
func Assign(r *models.LoanRecord, targetField string, rules []models.BucketRule) (string, bool) {
	if len(rules) == 0 {
		return "", false
	}
	if rules[0].IsCategorical() {
		return assignCategorical(r, targetField, rules)
	}
	return assignNumeric(r, targetField, rules)
}

func assignNumeric(r *models.LoanRecord, targetField string, rules []models.BucketRule) (string, bool) {
	v, ok := ResolveNumeric(r, targetField)
	for _, rule := range rules {
		switch {
		case rule.Min == nil && rule.Max == nil:
			if !ok {
				return rule.Label, true
			}
		case !ok:
			// Only the blank bucket can claim an unresolvable value.
		case rule.Min == nil && *rule.Max < 0:
			if v < 0 {
				return rule.Label, true
			}
		case rule.Max == nil:
			if v >= *rule.Min {
				return rule.Label, true
			}
		case rule.Min == nil:
			if v <= *rule.Max {
				return rule.Label, true
			}
		default:
			if v >= *rule.Min && v <= *rule.Max {
				return rule.Label, true
			}
		}
	}
	return "", false
}

func assignCategorical(r *models.LoanRecord, targetField string, rules []models.BucketRule) (string, bool) {
	s, ok := ResolveString(r, targetField)
	if !ok || s == "" {
		return "", false
	}
	for _, rule := range rules {
		if rule.IsAuto() {
			// Distinct-value grouping: the observed value is the bucket.
			return s, true
		}
		for _, v := range rule.Values {
			if v == s {
				return rule.Label, true
			}
		}
	}
	for _, rule := range rules {
		if len(rule.Values) == 0 {
			return rule.Label, true
		}
	}
	return "", false
}

type bucketAccum struct {
	count    int
	pos      float64
	disb     float64
	m6       float64
	m12      float64
	postNpa  float64
	postWoff float64
	totalCol float64
}

func (b *bucketAccum) add(r *models.LoanRecord) {
	b.count++
	b.pos += numericOrZero(r, "principal_os_amt")
	b.disb += numericOrZero(r, "disbursement_amount")
	m6 := numericOrZero(r, "m6_collection")
	m12 := numericOrZero(r, "m12_collection")
	npa := numericOrZero(r, "post_npa_collection")
	woff := numericOrZero(r, "post_woff_collection")
	b.m6 += m6
	b.m12 += m12
	b.postNpa += npa
	b.postWoff += woff
	if total, ok := ResolveNumeric(r, "total_collection"); ok {
		b.totalCol += total
	} else {
		b.totalCol += m6 + m12 + npa + woff
	}
}

// Aggregate partitions records per the config's rules and computes one
// summary row per bucket in configured order, plus the grand-total row. The
// total row covers every record — bucketed or not — so summaries always
// reconcile with the full input set. Buckets with zero records are omitted
// when showEmptyBuckets is false; the total row is always emitted.
//
// Aggregate assumes a well-formed config (validated at save time) and makes
// no attempt to repair a malformed one.
func Aggregate(records []*models.LoanRecord, cfg *models.BucketConfig, showEmptyBuckets bool) []models.SummaryRow {
	accums := make(map[string]*bucketAccum)
	total := &bucketAccum{}

	auto := len(cfg.Rules) > 0 && cfg.Rules[0].IsCategorical() && hasAutoRule(cfg.Rules)
	var autoLabels []string

	for _, r := range records {
		total.add(r)
		label, ok := Assign(r, cfg.TargetField, cfg.Rules)
		if !ok {
			continue
		}
		acc := accums[label]
		if acc == nil {
			acc = &bucketAccum{}
			accums[label] = acc
			if auto {
				autoLabels = append(autoLabels, label)
			}
		}
		acc.add(r)
	}

	var labels []string
	if auto {
		sort.Strings(autoLabels)
		labels = autoLabels
	} else {
		for _, rule := range cfg.Rules {
			labels = append(labels, rule.Label)
		}
	}

	rows := make([]models.SummaryRow, 0, len(labels)+1)
	for _, label := range labels {
		acc := accums[label]
		if acc == nil {
			acc = &bucketAccum{}
		}
		if acc.count == 0 && !showEmptyBuckets {
			continue
		}
		rows = append(rows, summaryRow(label, acc, total.pos))
	}

	totalRow := summaryRow(TotalRowLabel, total, total.pos)
	rows = append(rows, totalRow)
	return rows
}

func summaryRow(label string, acc *bucketAccum, grandPOS float64) models.SummaryRow {
	posPer := 0.0
	if grandPOS != 0 {
		posPer = round2(acc.pos / grandPOS * 100)
	}
	return models.SummaryRow{
		Label:              label,
		Count:              acc.count,
		POS:                acc.pos,
		POSPer:             posPer,
		DisbursementAmount: acc.disb,
		M6Collection:       acc.m6,
		M12Collection:      acc.m12,
		PostNpaCollection:  acc.postNpa,
		PostWoffCollection: acc.postWoff,
		TotalCollection:    acc.totalCol,
	}
}

func hasAutoRule(rules []models.BucketRule) bool {
	for _, rule := range rules {
		if rule.IsAuto() {
			return true
		}
	}
	return false
}

func numericOrZero(r *models.LoanRecord, field string) float64 {
	v, ok := ResolveNumeric(r, field)
	if !ok {
		return 0
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
