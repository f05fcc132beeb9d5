package services

import (
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"loanpool/backend/database"
	"loanpool/backend/models"
)

// ValidateBucketRules checks a bucket configuration before it is saved. Every
// rule needs a label, numeric bounds must not invert, and numeric and
// categorical rules cannot be mixed in one config.
func ValidateBucketRules(rules []models.BucketRule) error {
	if len(rules) == 0 {
		return fmt.Errorf("bucket configuration must have at least one rule")
	}

	categorical := rules[0].IsCategorical()
	for i, rule := range rules {
		if rule.Label == "" {
			return fmt.Errorf("bucket rule %d is missing a label", i+1)
		}
		if rule.IsCategorical() != categorical {
			return fmt.Errorf("bucket rule %d (%q) mixes categorical and numeric rules", i+1, rule.Label)
		}
		if !rule.IsCategorical() && rule.Min != nil && rule.Max != nil && *rule.Min > *rule.Max {
			return fmt.Errorf("bucket rule %d (%q) has min %v greater than max %v", i+1, rule.Label, *rule.Min, *rule.Max)
		}
	}

	return nil
}

// GetBucketConfigs returns configs usable with a dataset: its own plus the
// global defaults, in sort order.
func GetBucketConfigs(datasetID string) ([]models.BucketConfig, error) {
	rows, err := database.DB.Query(`
		SELECT id, dataset_id, name, summary_type, target_field, bucket_config, is_default, sort_order, created_at, updated_at
		FROM bucket_configs
		WHERE dataset_id = ? OR dataset_id IS NULL OR dataset_id = ''
		ORDER BY sort_order, created_at
	`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query bucket configs: %w", err)
	}
	defer rows.Close()

	var configs []models.BucketConfig
	for rows.Next() {
		config, err := scanBucketConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, *config)
	}

	return configs, rows.Err()
}

// GetBucketConfigByID returns a single bucket config.
func GetBucketConfigByID(id string) (*models.BucketConfig, error) {
	row := database.DB.QueryRow(`
		SELECT id, dataset_id, name, summary_type, target_field, bucket_config, is_default, sort_order, created_at, updated_at
		FROM bucket_configs
		WHERE id = ?
	`, id)

	config, err := scanBucketConfig(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("bucket config not found")
		}
		return nil, fmt.Errorf("failed to query bucket config: %w", err)
	}

	return config, nil
}

// SelectBucketConfigs resolves a summary request to the configs to run.
// Explicit IDs win; otherwise summary types narrow the dataset's configs, and
// an empty request means all of them.
func SelectBucketConfigs(datasetID string, configIDs, configTypes []string) ([]models.BucketConfig, error) {
	if len(configIDs) > 0 {
		var configs []models.BucketConfig
		for _, id := range configIDs {
			config, err := GetBucketConfigByID(id)
			if err != nil {
				return nil, err
			}
			configs = append(configs, *config)
		}
		return configs, nil
	}

	configs, err := GetBucketConfigs(datasetID)
	if err != nil {
		return nil, err
	}
	if len(configTypes) == 0 {
		return configs, nil
	}

	wanted := make(map[string]bool, len(configTypes))
	for _, t := range configTypes {
		wanted[t] = true
	}

	var matched []models.BucketConfig
	for _, config := range configs {
		if wanted[config.SummaryType] {
			matched = append(matched, config)
		}
	}
	return matched, nil
}

// CreateBucketConfig validates and stores a new bucket config.
func CreateBucketConfig(config *models.BucketConfig) (*models.BucketConfig, error) {
	if config.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if config.TargetField == "" {
		return nil, fmt.Errorf("target_field is required")
	}
	if err := ValidateBucketRules(config.Rules); err != nil {
		return nil, err
	}

	rulesJSON, err := json.Marshal(config.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bucket rules: %w", err)
	}

	config.ID = uuid.NewString()
	now := time.Now()
	config.CreatedAt = now
	config.UpdatedAt = now

	_, err = database.DB.Exec(`
		INSERT INTO bucket_configs (id, dataset_id, name, summary_type, target_field, bucket_config, is_default, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, config.ID, nullableString(config.DatasetID), config.Name, config.SummaryType,
		config.TargetField, string(rulesJSON), config.IsDefault, config.SortOrder, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert bucket config: %w", err)
	}

	return config, nil
}

// UpdateBucketConfig validates and stores changes to an existing config.
func UpdateBucketConfig(id string, config *models.BucketConfig) (*models.BucketConfig, error) {
	existing, err := GetBucketConfigByID(id)
	if err != nil {
		return nil, err
	}

	if config.Name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if config.TargetField == "" {
		return nil, fmt.Errorf("target_field is required")
	}
	if err := ValidateBucketRules(config.Rules); err != nil {
		return nil, err
	}

	rulesJSON, err := json.Marshal(config.Rules)
	if err != nil {
		return nil, fmt.Errorf("failed to encode bucket rules: %w", err)
	}

	now := time.Now()
	_, err = database.DB.Exec(`
		UPDATE bucket_configs
		SET name = ?, summary_type = ?, target_field = ?, bucket_config = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
	`, config.Name, config.SummaryType, config.TargetField, string(rulesJSON), config.SortOrder, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update bucket config: %w", err)
	}

	existing.Name = config.Name
	existing.SummaryType = config.SummaryType
	existing.TargetField = config.TargetField
	existing.Rules = config.Rules
	existing.SortOrder = config.SortOrder
	existing.UpdatedAt = now

	return existing, nil
}

// DeleteBucketConfig removes a config. The seeded defaults are protected.
func DeleteBucketConfig(id string) error {
	config, err := GetBucketConfigByID(id)
	if err != nil {
		return err
	}
	if config.IsDefault {
		return fmt.Errorf("default bucket configs cannot be deleted")
	}

	_, err = database.DB.Exec(`DELETE FROM bucket_configs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bucket config: %w", err)
	}

	return nil
}

func scanBucketConfig(s rowScanner) (*models.BucketConfig, error) {
	var config models.BucketConfig
	var datasetID, rules sql.NullString
	err := s.Scan(
		&config.ID,
		&datasetID,
		&config.Name,
		&config.SummaryType,
		&config.TargetField,
		&rules,
		&config.IsDefault,
		&config.SortOrder,
		&config.CreatedAt,
		&config.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	config.DatasetID = datasetID.String
	if rules.Valid && rules.String != "" {
		if err := json.Unmarshal([]byte(rules.String), &config.Rules); err != nil {
			return nil, fmt.Errorf("failed to decode bucket rules for %s: %w", config.ID, err)
		}
	}

	return &config, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
