package models

import "time"

// Filter operators accepted by the engine.
const (
	OpEqual        = "="
	OpNotEqual     = "!="
	OpGreater      = ">"
	OpGreaterEqual = ">="
	OpLess         = "<"
	OpLessEqual    = "<="
	OpBetween      = "between"
	OpContains     = "contains"
	OpStartsWith   = "startsWith"
	OpEndsWith     = "endsWith"
	OpIsNull       = "isNull"
	OpIsNotNull    = "isNotNull"
)

// FilterCondition is a single condition against one logical field. Conditions
// in a set are ANDed; a disabled condition is inert. "between" uses MinValue
// and MaxValue, the null checks use neither, everything else uses Value.
type FilterCondition struct {
	Field    string      `json:"field"`
	Operator string      `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
	MinValue *float64    `json:"min_value,omitempty"`
	MaxValue *float64    `json:"max_value,omitempty"`
	Enabled  bool        `json:"enabled"`
}

// SavedFilter represents a persisted filter configuration for a dataset
type SavedFilter struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	DatasetID  string            `json:"datasetId,omitempty"`
	Conditions []FilterCondition `json:"conditions"`
	IsDefault  bool              `json:"isDefault"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}
