package models

import "time"

// AutoBucketSentinel in a categorical rule's values list means "one bucket per
// distinct value observed at runtime".
const AutoBucketSentinel = "ALL"

// BucketRule is one row of a bucket configuration. Numeric rules carry Min/Max
// (either end may be open); categorical rules carry Values. A rule with both
// bounds null matches blank values, and a categorical rule with an empty
// Values list is the catch-all for anything no other rule claimed.
type BucketRule struct {
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Values []string `json:"values,omitempty"`
	Label  string   `json:"label"`
}

// IsCategorical reports whether the rule matches on string values rather than
// a numeric range.
func (r BucketRule) IsCategorical() bool {
	return r.Values != nil
}

// IsAuto reports whether the rule is the distinct-value sentinel.
func (r BucketRule) IsAuto() bool {
	return len(r.Values) == 1 && r.Values[0] == AutoBucketSentinel
}

// BucketConfig represents a persisted bucket summary configuration
type BucketConfig struct {
	ID          string       `json:"id"`
	DatasetID   string       `json:"datasetId,omitempty"` // empty = applies to any dataset
	Name        string       `json:"name"`
	SummaryType string       `json:"summaryType"`
	TargetField string       `json:"targetField"`
	Rules       []BucketRule `json:"bucketConfig"`
	IsDefault   bool         `json:"isDefault"`
	SortOrder   int          `json:"sortOrder"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

// SummaryRow is one output row of a bucket summary. Field names follow the
// summary table the dashboard renders.
type SummaryRow struct {
	Label              string  `json:"label"`
	Count              int     `json:"count"`
	POS                float64 `json:"POS"`
	POSPer             float64 `json:"POS_Per"`
	DisbursementAmount float64 `json:"disbursement_amount"`
	M6Collection       float64 `json:"M6_Collection"`
	M12Collection      float64 `json:"M12_Collection"`
	PostNpaCollection  float64 `json:"Post_NPA_Coll"`
	PostWoffCollection float64 `json:"Post_W_Off_Coll"`
	TotalCollection    float64 `json:"total_collection"`
}

// BucketSummaryRequest selects which configs to run and how.
type BucketSummaryRequest struct {
	ConfigIDs        []string          `json:"config_ids,omitempty"`
	ConfigTypes      []string          `json:"config_types,omitempty"`
	Filters          []FilterCondition `json:"filters,omitempty"`
	ShowEmptyBuckets *bool             `json:"show_empty_buckets,omitempty"`
}

// BucketSummaryResponse is the summary for one matched config.
type BucketSummaryResponse struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	SummaryType string       `json:"summary_type"`
	Buckets     []SummaryRow `json:"buckets"`
}
