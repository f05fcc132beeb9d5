package handlers

import (
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"loanpool/backend/database"
	"loanpool/backend/migrations"
)

// SetupTestDB points the service at an in-memory database with the full
// schema applied.
func SetupTestDB() {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		panic(err)
	}
	database.DB = db

	if err := migrations.BaseSchema(db); err != nil {
		panic(err)
	}
}

// SeedTestDataset inserts a dataset with a handful of loan records covering
// the value ranges the handler tests filter and bucket on.
func SeedTestDataset(datasetID string) {
	_, err := database.DB.Exec(`
		INSERT INTO datasets (id, name, file_name, file_type, total_records, status)
		VALUES (?, 'Test Pool', 'test_pool.xlsx', 'writeoff', 4, 'validated')
	`, datasetID)
	if err != nil {
		panic(err)
	}

	records := []struct {
		id        string
		agreement string
		state     string
		product   string
		dpd       float64
		principal float64
		m12       float64
	}{
		{"rec-1", "AG-001", "Maharashtra", "HL", 45, 50000, 4000},
		{"rec-2", "AG-002", "Karnataka", "LAP", 120, 30000, 2500},
		{"rec-3", "AG-003", "Maharashtra", "HL", 200, 10000, 900},
		{"rec-4", "AG-004", "Gujarat", "PL", 15, 250000, 12000},
	}

	for _, r := range records {
		_, err := database.DB.Exec(`
			INSERT INTO loan_records (id, dataset_id, agreement_no, state, product_type, dpd, principal_os_amt, m12_collection)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, r.id, datasetID, r.agreement, r.state, r.product, r.dpd, r.principal, r.m12)
		if err != nil {
			panic(err)
		}
	}
}

// CleanupTestDB closes the test database connection
func CleanupTestDB() {
	if database.DB != nil {
		database.DB.Close()
	}
}
