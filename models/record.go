package models

// LoanRecord is one row of a loan tape. The fixed columns cover the schema the
// upload pipeline maps directly; anything else from the source sheet lands in
// AdditionalFields keyed by its original column header.
//
// Date columns are kept as raw strings because tapes arrive with mixed
// encodings (ISO, DD/MM/YYYY, Excel serial numbers); the engine's resolver
// owns parsing them.
type LoanRecord struct {
	ID            string `json:"id"`
	DatasetID     string `json:"dataset_id"`
	AgreementNo   string `json:"agreement_no"`
	LoanID        string `json:"loan_id,omitempty"`
	AccountNumber string `json:"account_number,omitempty"`
	CustomerName  string `json:"customer_name,omitempty"`

	State          string `json:"state,omitempty"`
	ProductType    string `json:"product_type,omitempty"`
	Classification string `json:"classification,omitempty"`
	Status         string `json:"status,omitempty"`

	SanctionDate     string `json:"sanction_date,omitempty"`
	FirstDisbDate    string `json:"first_disb_date,omitempty"`
	LastDisbDate     string `json:"last_disb_date,omitempty"`
	DateOfNPA        string `json:"date_of_npa,omitempty"`
	DateOfWoff       string `json:"date_of_woff,omitempty"`

	DPD         *float64 `json:"dpd,omitempty"`
	BureauScore *float64 `json:"bureau_score,omitempty"`

	PrincipalOsAmt     *float64 `json:"principal_os_amt,omitempty"`
	PosAmount          *float64 `json:"pos_amount,omitempty"`
	TotalBalanceAmt    *float64 `json:"total_balance_amt,omitempty"`
	SanctionAmt        *float64 `json:"sanction_amt,omitempty"`
	TotalAmtDisb       *float64 `json:"total_amt_disb,omitempty"`
	DisbursementAmount *float64 `json:"disbursement_amount,omitempty"`

	M6Collection       *float64 `json:"m6_collection,omitempty"`
	M12Collection      *float64 `json:"m12_collection,omitempty"`
	Collection12M      *float64 `json:"collection_12m,omitempty"`
	TotalCollection    *float64 `json:"total_collection,omitempty"`
	PostNpaCollection  *float64 `json:"post_npa_collection,omitempty"`
	PostWoffCollection *float64 `json:"post_woff_collection,omitempty"`

	AdditionalFields map[string]interface{} `json:"additional_fields,omitempty"`
}

// Column returns the value of a fixed schema column by its physical name.
// The bool reports whether the column carries a value; unset optional columns
// report false so null checks can distinguish "absent" from zero. Dynamic
// fields live in AdditionalFields and are not served here.
func (r *LoanRecord) Column(name string) (interface{}, bool) {
	switch name {
	case "id":
		return stringCol(r.ID)
	case "dataset_id":
		return stringCol(r.DatasetID)
	case "agreement_no":
		return stringCol(r.AgreementNo)
	case "loan_id":
		return stringCol(r.LoanID)
	case "account_number":
		return stringCol(r.AccountNumber)
	case "customer_name":
		return stringCol(r.CustomerName)
	case "state":
		return stringCol(r.State)
	case "product_type":
		return stringCol(r.ProductType)
	case "classification":
		return stringCol(r.Classification)
	case "status":
		return stringCol(r.Status)
	case "sanction_date":
		return stringCol(r.SanctionDate)
	case "first_disb_date":
		return stringCol(r.FirstDisbDate)
	case "last_disb_date":
		return stringCol(r.LastDisbDate)
	case "date_of_npa":
		return stringCol(r.DateOfNPA)
	case "date_of_woff":
		return stringCol(r.DateOfWoff)
	case "dpd":
		return numberCol(r.DPD)
	case "bureau_score":
		return numberCol(r.BureauScore)
	case "principal_os_amt":
		return numberCol(r.PrincipalOsAmt)
	case "pos_amount":
		return numberCol(r.PosAmount)
	case "total_balance_amt":
		return numberCol(r.TotalBalanceAmt)
	case "sanction_amt":
		return numberCol(r.SanctionAmt)
	case "total_amt_disb":
		return numberCol(r.TotalAmtDisb)
	case "disbursement_amount":
		return numberCol(r.DisbursementAmount)
	case "m6_collection":
		return numberCol(r.M6Collection)
	case "m12_collection":
		return numberCol(r.M12Collection)
	case "collection_12m":
		return numberCol(r.Collection12M)
	case "total_collection":
		return numberCol(r.TotalCollection)
	case "post_npa_collection":
		return numberCol(r.PostNpaCollection)
	case "post_woff_collection":
		return numberCol(r.PostWoffCollection)
	}
	return nil, false
}

// IdentityKey returns the key used for duplicate suppression. Tapes are keyed
// by agreement number; account number and record id are fallbacks for tapes
// that omit it.
func (r *LoanRecord) IdentityKey() string {
	if r.AgreementNo != "" {
		return r.AgreementNo
	}
	if r.AccountNumber != "" {
		return r.AccountNumber
	}
	return r.ID
}

func stringCol(s string) (interface{}, bool) {
	if s == "" {
		return nil, false
	}
	return s, true
}

func numberCol(f *float64) (interface{}, bool) {
	if f == nil {
		return nil, false
	}
	return *f, true
}
