package handlers

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"loanpool/backend/engine"
	"loanpool/backend/models"
	"loanpool/backend/services"
)

// GetSavedFilters returns saved filters, scoped by dataset_id when given.
func GetSavedFilters(w http.ResponseWriter, r *http.Request) {
	datasetID := r.URL.Query().Get("dataset_id")

	filters, err := services.GetSavedFilters(datasetID)
	if err != nil {
		http.Error(w, "Failed to get saved filters: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if filters == nil {
		filters = []models.SavedFilter{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(filters)
}

// GetSavedFilter returns a specific saved filter
func GetSavedFilter(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	filterID := vars["id"]

	filter, err := services.GetSavedFilterByID(filterID)
	if err != nil {
		http.Error(w, "Failed to get saved filter: "+err.Error(), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(filter)
}

// CreateSavedFilter creates a new saved filter
func CreateSavedFilter(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Name       string                   `json:"name"`
		DatasetID  string                   `json:"dataset_id,omitempty"`
		Conditions []models.FilterCondition `json:"conditions"`
		IsDefault  bool                     `json:"is_default"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if len(request.Conditions) == 0 {
		http.Error(w, "conditions are required", http.StatusBadRequest)
		return
	}

	filter, err := services.CreateSavedFilter(request.Name, request.DatasetID, request.Conditions, request.IsDefault)
	if err != nil {
		http.Error(w, "Failed to create saved filter: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(filter)
}

// UpdateSavedFilter updates an existing saved filter
func UpdateSavedFilter(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	filterID := vars["id"]

	var request struct {
		Name       string                   `json:"name"`
		Conditions []models.FilterCondition `json:"conditions"`
		IsDefault  bool                     `json:"is_default"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if len(request.Conditions) == 0 {
		http.Error(w, "conditions are required", http.StatusBadRequest)
		return
	}

	filter, err := services.UpdateSavedFilter(filterID, request.Name, request.Conditions, request.IsDefault)
	if err != nil {
		http.Error(w, "Failed to update saved filter: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(filter)
}

// DeleteSavedFilter deletes a saved filter
func DeleteSavedFilter(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	filterID := vars["id"]

	if err := services.DeleteSavedFilter(filterID); err != nil {
		http.Error(w, "Failed to delete saved filter: "+err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ValidateFilters checks a condition set for contradictions without running
// it. An empty conflicts list means the set is satisfiable.
func ValidateFilters(w http.ResponseWriter, r *http.Request) {
	var request struct {
		Filters []models.FilterCondition `json:"filters"`
	}

	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	conflicts := engine.Validate(request.Filters)
	if conflicts == nil {
		conflicts = []string{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"valid":     len(conflicts) == 0,
		"conflicts": conflicts,
	})
}
