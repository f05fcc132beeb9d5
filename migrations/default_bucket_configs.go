package migrations

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
)

// DefaultBucketConfigs seeds the stock summary configurations that apply to
// every dataset: the POS range buckets the write-off pool report has always
// used, a DPD bucket set, and a distinct-value product split.
func DefaultBucketConfigs(db *sql.DB) error {
	configs := []struct {
		name        string
		summaryType string
		targetField string
		rules       string
	}{
		{
			name:        "Write-Off Pool POS Buckets",
			summaryType: "pos",
			targetField: "principal_os_amt",
			rules: `[
				{"min": 0, "max": 1000, "label": "0 to 1000"},
				{"min": 1000, "max": 10000, "label": "1000 to 10000"},
				{"min": 10000, "max": 25000, "label": "10000 to 25000"},
				{"min": 25000, "max": 50000, "label": "25000 to 50000"},
				{"min": 50000, "max": 75000, "label": "50000 to 75000"},
				{"min": 75000, "max": 200000, "label": "75000 to 200000"},
				{"min": 200000, "max": 500000, "label": "200000 to 500000"},
				{"min": 500000, "max": 1000000, "label": "500000 to 1000000"},
				{"min": 1000000, "max": null, "label": "1000000 to +"}
			]`,
		},
		{
			name:        "DPD Buckets",
			summaryType: "dpd",
			targetField: "dpd",
			rules: `[
				{"min": 0, "max": 30, "label": "0-30"},
				{"min": 31, "max": 60, "label": "31-60"},
				{"min": 61, "max": 90, "label": "61-90"},
				{"min": 91, "max": 180, "label": "91-180"},
				{"min": 181, "max": 998, "label": "181+"},
				{"min": 999, "max": 999, "label": "Write-off"}
			]`,
		},
		{
			name:        "Product Split",
			summaryType: "product",
			targetField: "product_type",
			rules:       `[{"values": ["ALL"], "label": "By Product"}]`,
		},
	}

	for i, cfg := range configs {
		_, err := db.Exec(`
			INSERT INTO bucket_configs (id, dataset_id, name, summary_type, target_field, bucket_config, is_default, sort_order)
			VALUES (?, NULL, ?, ?, ?, ?, 1, ?)
		`, uuid.NewString(), cfg.name, cfg.summaryType, cfg.targetField, cfg.rules, i)
		if err != nil {
			return fmt.Errorf("failed to seed bucket config %q: %w", cfg.name, err)
		}
	}
	return nil
}
