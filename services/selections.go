package services

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"loanpool/backend/database"
	"loanpool/backend/models"
)

// SavePoolSelection persists a picked sub-pool together with its member
// records. The selection and its membership rows commit atomically.
func SavePoolSelection(name, description, datasetID string, records []*models.LoanRecord, totalAmount float64) (*models.PoolSelection, error) {
	if name == "" {
		return nil, fmt.Errorf("name is required")
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("selection has no records")
	}

	tx, err := database.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	selection := &models.PoolSelection{
		ID:           uuid.NewString(),
		Name:         name,
		Description:  description,
		DatasetID:    datasetID,
		TotalAmount:  totalAmount,
		AccountCount: len(records),
		CreatedAt:    time.Now(),
	}

	_, err = tx.Exec(`
		INSERT INTO pool_selections (id, name, description, dataset_id, total_amount, account_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, selection.ID, selection.Name, selection.Description, selection.DatasetID,
		selection.TotalAmount, selection.AccountCount, selection.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert pool selection: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO pool_selection_records (pool_selection_id, loan_record_id, principal_os_amt)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare selection record insert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		var principal float64
		if record.PrincipalOsAmt != nil {
			principal = *record.PrincipalOsAmt
		} else if record.PosAmount != nil {
			principal = *record.PosAmount
		}
		if _, err := stmt.Exec(selection.ID, record.ID, principal); err != nil {
			return nil, fmt.Errorf("failed to insert selection record %s: %w", record.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit pool selection: %w", err)
	}

	return selection, nil
}

// GetPoolSelections lists saved selections for a dataset, newest first.
func GetPoolSelections(datasetID string) ([]models.PoolSelection, error) {
	rows, err := database.DB.Query(`
		SELECT id, name, description, dataset_id, total_amount, account_count, created_at
		FROM pool_selections
		WHERE dataset_id = ?
		ORDER BY created_at DESC
	`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("failed to query pool selections: %w", err)
	}
	defer rows.Close()

	var selections []models.PoolSelection
	for rows.Next() {
		var s models.PoolSelection
		var description sql.NullString
		err := rows.Scan(
			&s.ID,
			&s.Name,
			&description,
			&s.DatasetID,
			&s.TotalAmount,
			&s.AccountCount,
			&s.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pool selection: %w", err)
		}
		s.Description = description.String
		selections = append(selections, s)
	}

	return selections, rows.Err()
}

// GetPoolSelectionByID returns one selection and its member rows.
func GetPoolSelectionByID(id string) (*models.PoolSelection, []models.PoolSelectionRecord, error) {
	var s models.PoolSelection
	var description sql.NullString
	err := database.DB.QueryRow(`
		SELECT id, name, description, dataset_id, total_amount, account_count, created_at
		FROM pool_selections
		WHERE id = ?
	`, id).Scan(
		&s.ID,
		&s.Name,
		&description,
		&s.DatasetID,
		&s.TotalAmount,
		&s.AccountCount,
		&s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, fmt.Errorf("pool selection not found")
		}
		return nil, nil, fmt.Errorf("failed to query pool selection: %w", err)
	}
	s.Description = description.String

	rows, err := database.DB.Query(`
		SELECT pool_selection_id, loan_record_id, principal_os_amt
		FROM pool_selection_records
		WHERE pool_selection_id = ?
	`, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query pool selection records: %w", err)
	}
	defer rows.Close()

	var records []models.PoolSelectionRecord
	for rows.Next() {
		var r models.PoolSelectionRecord
		if err := rows.Scan(&r.PoolSelectionID, &r.LoanRecordID, &r.PrincipalOsAmt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan pool selection record: %w", err)
		}
		records = append(records, r)
	}

	return &s, records, rows.Err()
}

// DeletePoolSelection removes a selection and its membership rows.
func DeletePoolSelection(id string) error {
	tx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM pool_selection_records WHERE pool_selection_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete pool selection records: %w", err)
	}

	result, err := tx.Exec(`DELETE FROM pool_selections WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pool selection: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("pool selection not found")
	}

	return tx.Commit()
}
