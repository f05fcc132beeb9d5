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

// CreateSavedFilter creates a new saved filter
func CreateSavedFilter(name, datasetID string, conditions []models.FilterCondition, isDefault bool) (*models.SavedFilter, error) {
	conditionsJSON, err := json.Marshal(conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter conditions: %w", err)
	}

	id := uuid.NewString()
	now := time.Now()

	// A dataset gets at most one default filter
	if isDefault {
		_, err = database.DB.Exec(`
			UPDATE saved_filters
			SET is_default = 0
			WHERE dataset_id = ?
		`, datasetID)
		if err != nil {
			return nil, fmt.Errorf("failed to update existing default filters: %w", err)
		}
	}

	_, err = database.DB.Exec(`
		INSERT INTO saved_filters (id, name, dataset_id, conditions, is_default, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, name, datasetID, string(conditionsJSON), isDefault, now, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert saved filter: %w", err)
	}

	return &models.SavedFilter{
		ID:         id,
		Name:       name,
		DatasetID:  datasetID,
		Conditions: conditions,
		IsDefault:  isDefault,
		CreatedAt:  now,
		UpdatedAt:  now,
	}, nil
}

// GetSavedFilters retrieves saved filters, optionally scoped to a dataset.
// Filters with no dataset apply everywhere and are always included.
func GetSavedFilters(datasetID string) ([]models.SavedFilter, error) {
	rows, err := database.DB.Query(`
		SELECT id, name, dataset_id, conditions, is_default, created_at, updated_at
		FROM saved_filters
		WHERE dataset_id = ? OR dataset_id IS NULL OR dataset_id = ''
		ORDER BY created_at
	`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query saved filters: %w", err)
	}
	defer rows.Close()

	var filters []models.SavedFilter
	for rows.Next() {
		filter, err := scanSavedFilter(rows)
		if err != nil {
			return nil, err
		}
		filters = append(filters, *filter)
	}

	return filters, rows.Err()
}

// GetSavedFilterByID retrieves a saved filter by ID
func GetSavedFilterByID(id string) (*models.SavedFilter, error) {
	row := database.DB.QueryRow(`
		SELECT id, name, dataset_id, conditions, is_default, created_at, updated_at
		FROM saved_filters
		WHERE id = ?
	`, id)

	filter, err := scanSavedFilterRow(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("saved filter not found")
		}
		return nil, fmt.Errorf("failed to query saved filter: %w", err)
	}

	return filter, nil
}

// UpdateSavedFilter updates an existing saved filter
func UpdateSavedFilter(id, name string, conditions []models.FilterCondition, isDefault bool) (*models.SavedFilter, error) {
	filter, err := GetSavedFilterByID(id)
	if err != nil {
		return nil, err
	}

	conditionsJSON, err := json.Marshal(conditions)
	if err != nil {
		return nil, fmt.Errorf("failed to encode filter conditions: %w", err)
	}

	now := time.Now()

	if isDefault {
		_, err = database.DB.Exec(`
			UPDATE saved_filters
			SET is_default = 0
			WHERE dataset_id = ? AND id != ?
		`, filter.DatasetID, id)
		if err != nil {
			return nil, fmt.Errorf("failed to update existing default filters: %w", err)
		}
	}

	_, err = database.DB.Exec(`
		UPDATE saved_filters
		SET name = ?, conditions = ?, is_default = ?, updated_at = ?
		WHERE id = ?
	`, name, string(conditionsJSON), isDefault, now, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update saved filter: %w", err)
	}

	filter.Name = name
	filter.Conditions = conditions
	filter.IsDefault = isDefault
	filter.UpdatedAt = now

	return filter, nil
}

// DeleteSavedFilter deletes a saved filter
func DeleteSavedFilter(id string) error {
	result, err := database.DB.Exec(`
		DELETE FROM saved_filters
		WHERE id = ?
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete saved filter: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("saved filter not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSavedFilter(s rowScanner) (*models.SavedFilter, error) {
	filter, err := scanSavedFilterRow(s)
	if err != nil {
		return nil, fmt.Errorf("failed to scan saved filter: %w", err)
	}
	return filter, nil
}

func scanSavedFilterRow(s rowScanner) (*models.SavedFilter, error) {
	var filter models.SavedFilter
	var datasetID, conditions sql.NullString
	err := s.Scan(
		&filter.ID,
		&filter.Name,
		&datasetID,
		&conditions,
		&filter.IsDefault,
		&filter.CreatedAt,
		&filter.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	filter.DatasetID = datasetID.String
	if conditions.Valid && conditions.String != "" {
		if err := json.Unmarshal([]byte(conditions.String), &filter.Conditions); err != nil {
			return nil, fmt.Errorf("failed to decode filter conditions for %s: %w", filter.ID, err)
		}
	}

	return &filter, nil
}
