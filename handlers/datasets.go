package handlers

import (
	"net/http"
	"strconv"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"loanpool/backend/models"
	"loanpool/backend/services"
)

// GetDatasets returns all uploaded datasets.
func GetDatasets(w http.ResponseWriter, r *http.Request) {
	datasets, err := services.GetDatasets()
	if err != nil {
		http.Error(w, "Failed to get datasets: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if datasets == nil {
		datasets = []models.Dataset{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(datasets)
}

// GetDataset returns a single dataset.
func GetDataset(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	dataset, err := services.GetDatasetByID(id)
	if err != nil {
		http.Error(w, "Failed to get dataset: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(dataset)
}

// GetDatasetRecords returns one page of a dataset's loan records.
func GetDatasetRecords(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["id"]

	limit := 100
	offset := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 1000 {
			http.Error(w, "limit must be between 1 and 1000", http.StatusBadRequest)
			return
		}
		limit = n
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			http.Error(w, "offset must be a non-negative integer", http.StatusBadRequest)
			return
		}
		offset = n
	}

	state := r.URL.Query().Get("state")
	productType := r.URL.Query().Get("product_type")

	records, err := services.GetLoanRecordsPage(datasetID, state, productType, limit, offset)
	if err != nil {
		http.Error(w, "Failed to get dataset records: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if records == nil {
		records = []*models.LoanRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"records": records,
		"limit":   limit,
		"offset":  offset,
	})
}
