package migrations

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
)

// SeedTestData loads a small sample dataset in development and PR
// environments so the dashboard has something to show immediately.
func SeedTestData(db *sql.DB) error {
	isDevelopment := os.Getenv("APP_ENV") != "production" &&
		os.Getenv("ENVIRONMENT") != "production"
	isPRDeployment := os.Getenv("PR_DEPLOYMENT") == "true"

	if !isDevelopment && !isPRDeployment {
		log.Println("Skipping test data seeding in production environment")
		return nil
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM datasets").Scan(&count); err != nil {
		return fmt.Errorf("failed to check existing datasets: %w", err)
	}
	if count > 0 {
		log.Println("Datasets already present, skipping test data seeding")
		return nil
	}

	datasetID := uuid.NewString()
	_, err := db.Exec(`
		INSERT INTO datasets (id, name, description, file_name, file_type, total_records, status)
		VALUES (?, 'Sample Write-Off Pool', 'Seeded development dataset', 'sample_pool.xlsx', 'writeoff', 5, 'validated')
	`, datasetID)
	if err != nil {
		return fmt.Errorf("failed to seed dataset: %w", err)
	}

	records := []struct {
		agreementNo    string
		customerName   string
		state          string
		productType    string
		dpd            float64
		principal      float64
		disbursed      float64
		m6, m12        float64
		postNpa        float64
		postWoff       float64
		total          float64
		dateOfNpa      string
		additionalJSON string
	}{
		{"AG-1001", "R. Sharma", "Maharashtra", "HL", 45, 425000, 900000, 12000, 21000, 0, 0, 33000, "15/06/2023", `{"Bureau Score": 712, "Current LTV %": 61.2}`},
		{"AG-1002", "S. Iyer", "Karnataka", "LAP", 120, 780000, 1500000, 8000, 15500, 4000, 0, 27500, "2023-02-28", `{"Bureau Score": 655}`},
		{"AG-1003", "M. Khan", "Maharashtra", "PL", 999, 95000, 200000, 0, 1500, 2500, 1200, 5200, "01.11.2022", `{"Original DPD": 1042}`},
		{"AG-1004", "V. Patel", "Gujarat", "HL", 12, 1250000, 2100000, 36000, 71000, 0, 0, 107000, "", `{}`},
		{"AG-1005", "A. Das", "West Bengal", "LAP", 210, 310000, 650000, 2000, 3800, 1800, 0, 7600, "44986", `{"Asset Cost": 880000}`},
	}

	for _, r := range records {
		_, err := db.Exec(`
			INSERT INTO loan_records (
				id, dataset_id, agreement_no, customer_name, state, product_type,
				dpd, principal_os_amt, total_amt_disb,
				m6_collection, m12_collection, post_npa_collection, post_woff_collection,
				total_collection, date_of_npa, additional_fields
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`, uuid.NewString(), datasetID, r.agreementNo, r.customerName, r.state, r.productType,
			r.dpd, r.principal, r.disbursed,
			r.m6, r.m12, r.postNpa, r.postWoff,
			r.total, r.dateOfNpa, r.additionalJSON)
		if err != nil {
			return fmt.Errorf("failed to seed loan record %s: %w", r.agreementNo, err)
		}
	}

	log.Printf("Seeded sample dataset %s with %d loan records", datasetID, len(records))
	return nil
}
