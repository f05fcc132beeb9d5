package models

import "time"

// SelectionTarget governs the optimizer: sort the filtered pool by SortField,
// then greedily accumulate SumValueField up to MaxPoolValue.
type SelectionTarget struct {
	MaxPoolValue  float64 `json:"maxPoolValue"`
	SortField     string  `json:"sortField"`
	SortDirection string  `json:"sortDirection"` // "asc" or "desc"
	SumValueField string  `json:"sumValueField"`
}

// PoolSelection is a saved sub-pool of loans picked from a filtered set.
type PoolSelection struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	DatasetID    string    `json:"datasetId"`
	TotalAmount  float64   `json:"totalAmount"`
	AccountCount int       `json:"accountCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PoolSelectionRecord ties one loan record to a saved selection.
type PoolSelectionRecord struct {
	PoolSelectionID string  `json:"poolSelectionId"`
	LoanRecordID    string  `json:"loanRecordId"`
	PrincipalOsAmt  float64 `json:"principalOsAmt"`
}
