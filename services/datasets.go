package services

import (
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	json "github.com/goccy/go-json"

	"loanpool/backend/database"
	"loanpool/backend/models"
)

// GetDatasets returns all datasets, newest upload first.
func GetDatasets() ([]models.Dataset, error) {
	query, args, err := sq.Select(
		"id", "name", "description", "file_name", "file_type",
		"total_records", "status", "upload_date", "created_at", "updated_at").
		From("datasets").
		OrderBy("upload_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build datasets query: %w", err)
	}

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query datasets: %w", err)
	}
	defer rows.Close()

	var datasets []models.Dataset
	for rows.Next() {
		var d models.Dataset
		var description sql.NullString
		err := rows.Scan(
			&d.ID,
			&d.Name,
			&description,
			&d.FileName,
			&d.FileType,
			&d.TotalRecords,
			&d.Status,
			&d.UploadDate,
			&d.CreatedAt,
			&d.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		d.Description = description.String
		datasets = append(datasets, d)
	}

	return datasets, rows.Err()
}

// GetDatasetByID returns a single dataset.
func GetDatasetByID(id string) (*models.Dataset, error) {
	query, args, err := sq.Select(
		"id", "name", "description", "file_name", "file_type",
		"total_records", "status", "upload_date", "created_at", "updated_at").
		From("datasets").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build dataset query: %w", err)
	}

	var d models.Dataset
	var description sql.NullString
	err = database.DB.QueryRow(query, args...).Scan(
		&d.ID,
		&d.Name,
		&description,
		&d.FileName,
		&d.FileType,
		&d.TotalRecords,
		&d.Status,
		&d.UploadDate,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("dataset not found")
		}
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}
	d.Description = description.String

	return &d, nil
}

var loanRecordColumns = []string{
	"id", "dataset_id", "agreement_no", "loan_id", "account_number", "customer_name",
	"state", "product_type", "classification", "status",
	"sanction_date", "first_disb_date", "last_disb_date", "date_of_npa", "date_of_woff",
	"dpd", "bureau_score",
	"principal_os_amt", "pos_amount", "total_balance_amt", "sanction_amt",
	"total_amt_disb", "disbursement_amount",
	"m6_collection", "m12_collection", "collection_12m", "total_collection",
	"post_npa_collection", "post_woff_collection",
	"additional_fields",
}

// GetLoanRecords loads every record of a dataset in stored order. The engine
// works against the full in-memory slice.
func GetLoanRecords(datasetID string) ([]*models.LoanRecord, error) {
	query, args, err := sq.Select(loanRecordColumns...).
		From("loan_records").
		Where(sq.Eq{"dataset_id": datasetID}).
		OrderBy("rowid").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build loan records query: %w", err)
	}

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan records: %w", err)
	}
	defer rows.Close()

	var records []*models.LoanRecord
	for rows.Next() {
		record, err := scanLoanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// GetLoanRecordsPage loads one page of a dataset's records for browsing,
// optionally narrowed by state and product type.
func GetLoanRecordsPage(datasetID, state, productType string, limit, offset int) ([]*models.LoanRecord, error) {
	builder := sq.Select(loanRecordColumns...).
		From("loan_records").
		Where(sq.Eq{"dataset_id": datasetID}).
		OrderBy("rowid").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if state != "" {
		builder = builder.Where(sq.Eq{"state": state})
	}
	if productType != "" {
		builder = builder.Where(sq.Eq{"product_type": productType})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build loan records query: %w", err)
	}

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query loan records: %w", err)
	}
	defer rows.Close()

	var records []*models.LoanRecord
	for rows.Next() {
		record, err := scanLoanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

func scanLoanRecord(rows *sql.Rows) (*models.LoanRecord, error) {
	var r models.LoanRecord
	var loanID, accountNumber, customerName sql.NullString
	var state, productType, classification, status sql.NullString
	var sanctionDate, firstDisbDate, lastDisbDate, dateOfNPA, dateOfWoff sql.NullString
	var dpd, bureauScore sql.NullFloat64
	var principalOsAmt, posAmount, totalBalanceAmt, sanctionAmt sql.NullFloat64
	var totalAmtDisb, disbursementAmount sql.NullFloat64
	var m6, m12, coll12m, totalColl, postNpa, postWoff sql.NullFloat64
	var additionalFields sql.NullString

	err := rows.Scan(
		&r.ID, &r.DatasetID, &r.AgreementNo, &loanID, &accountNumber, &customerName,
		&state, &productType, &classification, &status,
		&sanctionDate, &firstDisbDate, &lastDisbDate, &dateOfNPA, &dateOfWoff,
		&dpd, &bureauScore,
		&principalOsAmt, &posAmount, &totalBalanceAmt, &sanctionAmt,
		&totalAmtDisb, &disbursementAmount,
		&m6, &m12, &coll12m, &totalColl,
		&postNpa, &postWoff,
		&additionalFields,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan loan record: %w", err)
	}

	r.LoanID = loanID.String
	r.AccountNumber = accountNumber.String
	r.CustomerName = customerName.String
	r.State = state.String
	r.ProductType = productType.String
	r.Classification = classification.String
	r.Status = status.String
	r.SanctionDate = sanctionDate.String
	r.FirstDisbDate = firstDisbDate.String
	r.LastDisbDate = lastDisbDate.String
	r.DateOfNPA = dateOfNPA.String
	r.DateOfWoff = dateOfWoff.String

	r.DPD = nullFloat(dpd)
	r.BureauScore = nullFloat(bureauScore)
	r.PrincipalOsAmt = nullFloat(principalOsAmt)
	r.PosAmount = nullFloat(posAmount)
	r.TotalBalanceAmt = nullFloat(totalBalanceAmt)
	r.SanctionAmt = nullFloat(sanctionAmt)
	r.TotalAmtDisb = nullFloat(totalAmtDisb)
	r.DisbursementAmount = nullFloat(disbursementAmount)
	r.M6Collection = nullFloat(m6)
	r.M12Collection = nullFloat(m12)
	r.Collection12M = nullFloat(coll12m)
	r.TotalCollection = nullFloat(totalColl)
	r.PostNpaCollection = nullFloat(postNpa)
	r.PostWoffCollection = nullFloat(postWoff)

	if additionalFields.Valid && additionalFields.String != "" {
		if err := json.Unmarshal([]byte(additionalFields.String), &r.AdditionalFields); err != nil {
			return nil, fmt.Errorf("failed to decode additional fields for record %s: %w", r.ID, err)
		}
	}

	return &r, nil
}

func nullFloat(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}
