package handlers

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"loanpool/backend/engine"
	"loanpool/backend/models"
	"loanpool/backend/services"
)

// GetBucketConfigs returns the bucket configs usable with a dataset.
func GetBucketConfigs(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["id"]

	configs, err := services.GetBucketConfigs(datasetID)
	if err != nil {
		http.Error(w, "Failed to get bucket configs: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if configs == nil {
		configs = []models.BucketConfig{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(configs)
}

// CreateBucketConfig stores a new bucket config for a dataset.
func CreateBucketConfig(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["id"]

	var config models.BucketConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	config.DatasetID = datasetID

	created, err := services.CreateBucketConfig(&config)
	if err != nil {
		http.Error(w, "Failed to create bucket config: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

// UpdateBucketConfig updates an existing bucket config.
func UpdateBucketConfig(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	var config models.BucketConfig
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := services.UpdateBucketConfig(id, &config)
	if err != nil {
		http.Error(w, "Failed to update bucket config: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(updated)
}

// DeleteBucketConfig removes a bucket config.
func DeleteBucketConfig(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if err := services.DeleteBucketConfig(id); err != nil {
		http.Error(w, "Failed to delete bucket config: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// GetBucketSummary runs the requested bucket configs over a dataset,
// optionally pre-filtered, and returns one summary table per config.
func GetBucketSummary(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	datasetID := vars["id"]

	var req models.BucketSummaryRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
			return
		}
	}

	if conflicts := engine.Validate(req.Filters); len(conflicts) > 0 {
		writeConflicts(w, conflicts)
		return
	}

	configs, err := services.SelectBucketConfigs(datasetID, req.ConfigIDs, req.ConfigTypes)
	if err != nil {
		http.Error(w, "Failed to resolve bucket configs: "+err.Error(), http.StatusBadRequest)
		return
	}

	records, err := services.GetLoanRecords(datasetID)
	if err != nil {
		http.Error(w, "Failed to load dataset records: "+err.Error(), http.StatusInternalServerError)
		return
	}

	pool := records
	if len(req.Filters) > 0 {
		pool = engine.Apply(records, req.Filters).Matched
	}

	showEmpty := true
	if req.ShowEmptyBuckets != nil {
		showEmpty = *req.ShowEmptyBuckets
	}

	summaries := make([]models.BucketSummaryResponse, 0, len(configs))
	for i := range configs {
		cfg := &configs[i]
		summaries = append(summaries, models.BucketSummaryResponse{
			ID:          cfg.ID,
			Name:        cfg.Name,
			SummaryType: cfg.SummaryType,
			Buckets:     engine.Aggregate(pool, cfg, showEmpty),
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}
