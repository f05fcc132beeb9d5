package migrations

import (
	"database/sql"
	"fmt"
)

// BaseSchema creates the core tables: datasets, loan records, saved filters,
// bucket configs and pool selections.
func BaseSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS datasets (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			file_name TEXT NOT NULL,
			file_type TEXT,
			total_records INTEGER DEFAULT 0,
			status TEXT DEFAULT 'uploaded',
			upload_date DATETIME DEFAULT CURRENT_TIMESTAMP,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS loan_records (
			id TEXT PRIMARY KEY,
			dataset_id TEXT NOT NULL,
			agreement_no TEXT NOT NULL,
			loan_id TEXT,
			account_number TEXT,
			customer_name TEXT,
			state TEXT,
			product_type TEXT,
			classification TEXT,
			status TEXT,
			sanction_date TEXT,
			first_disb_date TEXT,
			last_disb_date TEXT,
			date_of_npa TEXT,
			date_of_woff TEXT,
			dpd REAL,
			bureau_score REAL,
			principal_os_amt REAL,
			pos_amount REAL,
			total_balance_amt REAL,
			sanction_amt REAL,
			total_amt_disb REAL,
			disbursement_amount REAL,
			m6_collection REAL,
			m12_collection REAL,
			collection_12m REAL,
			total_collection REAL,
			post_npa_collection REAL,
			post_woff_collection REAL,
			additional_fields TEXT,
			FOREIGN KEY (dataset_id) REFERENCES datasets(id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_loan_records_dataset ON loan_records(dataset_id);`,
		`CREATE TABLE IF NOT EXISTS saved_filters (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			dataset_id TEXT,
			conditions TEXT NOT NULL,
			is_default BOOLEAN DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS bucket_configs (
			id TEXT PRIMARY KEY,
			dataset_id TEXT,
			name TEXT NOT NULL,
			summary_type TEXT NOT NULL,
			target_field TEXT NOT NULL,
			bucket_config TEXT NOT NULL,
			is_default BOOLEAN DEFAULT 0,
			sort_order INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS pool_selections (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT,
			dataset_id TEXT NOT NULL,
			total_amount REAL DEFAULT 0,
			account_count INTEGER DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS pool_selection_records (
			pool_selection_id TEXT NOT NULL,
			loan_record_id TEXT NOT NULL,
			principal_os_amt REAL DEFAULT 0,
			PRIMARY KEY (pool_selection_id, loan_record_id)
		);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("base schema statement failed: %w", err)
		}
	}
	return nil
}
