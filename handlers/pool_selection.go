package handlers

import (
	"net/http"

	json "github.com/goccy/go-json"
	"github.com/gorilla/mux"

	"loanpool/backend/engine"
	"loanpool/backend/models"
	"loanpool/backend/services"
)

// FilterPoolRequest is the body of a pool filter call.
type FilterPoolRequest struct {
	DatasetID  string                   `json:"dataset_id"`
	Filters    []models.FilterCondition `json:"filters"`
	ValueField string                   `json:"value_field,omitempty"`
}

// OptimizePoolRequest adds the selection target on top of the filter inputs.
type OptimizePoolRequest struct {
	DatasetID     string                   `json:"dataset_id"`
	Filters       []models.FilterCondition `json:"filters"`
	MaxPoolValue  float64                  `json:"max_pool_value"`
	SortField     string                   `json:"sort_field"`
	SortDirection string                   `json:"sort_direction"`
	SumValueField string                   `json:"sum_value_field,omitempty"`
}

// SavePoolRequest names a selection and carries the inputs to rebuild it.
type SavePoolRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	OptimizePoolRequest
}

// FilterPool applies a filter condition set to a dataset and returns the
// matched pool. Conflicting conditions are rejected up front so a
// contradictory filter reads as an error, not an empty pool.
func FilterPool(w http.ResponseWriter, r *http.Request) {
	var req FilterPoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.DatasetID == "" {
		http.Error(w, "dataset_id is required", http.StatusBadRequest)
		return
	}

	if conflicts := engine.Validate(req.Filters); len(conflicts) > 0 {
		writeConflicts(w, conflicts)
		return
	}

	records, err := services.GetLoanRecords(req.DatasetID)
	if err != nil {
		http.Error(w, "Failed to load dataset records: "+err.Error(), http.StatusInternalServerError)
		return
	}

	result := engine.ApplyWithValueField(records, req.Filters, req.ValueField)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":         true,
		"filtered_count":  result.TotalCount,
		"total_principal": result.TotalValue,
		"records":         result.Matched,
	})
}

// OptimizePool filters a dataset then greedily picks a sub-pool up to the
// requested value.
func OptimizePool(w http.ResponseWriter, r *http.Request) {
	var req OptimizePoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.DatasetID == "" {
		http.Error(w, "dataset_id is required", http.StatusBadRequest)
		return
	}
	if req.MaxPoolValue <= 0 {
		http.Error(w, "max_pool_value must be greater than zero", http.StatusBadRequest)
		return
	}

	if conflicts := engine.Validate(req.Filters); len(conflicts) > 0 {
		writeConflicts(w, conflicts)
		return
	}

	selection, err := runOptimization(req)
	if err != nil {
		http.Error(w, "Failed to load dataset records: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":            true,
		"target_amount":      req.MaxPoolValue,
		"selected_amount":    selection.SelectedAmount,
		"difference":         selection.Difference,
		"selected_count":     len(selection.Selected),
		"optimization_field": req.SortField,
		"selected_records":   selection.Selected,
	})
}

// SavePoolSelection re-runs the filter and optimization and persists the
// resulting sub-pool under a name.
func SavePoolSelection(w http.ResponseWriter, r *http.Request) {
	var req SavePoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}
	if req.Name == "" {
		http.Error(w, "name is required", http.StatusBadRequest)
		return
	}
	if req.DatasetID == "" {
		http.Error(w, "dataset_id is required", http.StatusBadRequest)
		return
	}

	if conflicts := engine.Validate(req.Filters); len(conflicts) > 0 {
		writeConflicts(w, conflicts)
		return
	}

	var selected []*models.LoanRecord
	var totalAmount float64
	if req.MaxPoolValue > 0 {
		selection, err := runOptimization(req.OptimizePoolRequest)
		if err != nil {
			http.Error(w, "Failed to load dataset records: "+err.Error(), http.StatusInternalServerError)
			return
		}
		selected = selection.Selected
		totalAmount = selection.SelectedAmount
	} else {
		records, err := services.GetLoanRecords(req.DatasetID)
		if err != nil {
			http.Error(w, "Failed to load dataset records: "+err.Error(), http.StatusInternalServerError)
			return
		}
		result := engine.ApplyWithValueField(records, req.Filters, req.SumValueField)
		selected = result.Matched
		totalAmount = result.TotalValue
	}

	saved, err := services.SavePoolSelection(req.Name, req.Description, req.DatasetID, selected, totalAmount)
	if err != nil {
		http.Error(w, "Failed to save pool selection: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(saved)
}

// ListPoolSelections returns the saved selections for a dataset.
func ListPoolSelections(w http.ResponseWriter, r *http.Request) {
	datasetID := r.URL.Query().Get("dataset_id")
	if datasetID == "" {
		http.Error(w, "dataset_id query parameter is required", http.StatusBadRequest)
		return
	}

	selections, err := services.GetPoolSelections(datasetID)
	if err != nil {
		http.Error(w, "Failed to list pool selections: "+err.Error(), http.StatusInternalServerError)
		return
	}
	if selections == nil {
		selections = []models.PoolSelection{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(selections)
}

// GetPoolSelection returns one saved selection and its member records.
func GetPoolSelection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	selection, records, err := services.GetPoolSelectionByID(id)
	if err != nil {
		http.Error(w, "Failed to get pool selection: "+err.Error(), http.StatusNotFound)
		return
	}
	if records == nil {
		records = []models.PoolSelectionRecord{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"selection": selection,
		"records":   records,
	})
}

// DeletePoolSelection removes a saved selection.
func DeletePoolSelection(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	if err := services.DeletePoolSelection(id); err != nil {
		http.Error(w, "Failed to delete pool selection: "+err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
}

func runOptimization(req OptimizePoolRequest) (engine.Selection, error) {
	records, err := services.GetLoanRecords(req.DatasetID)
	if err != nil {
		return engine.Selection{}, err
	}

	filtered := engine.ApplyWithValueField(records, req.Filters, req.SumValueField)
	return engine.Optimize(filtered.Matched, models.SelectionTarget{
		MaxPoolValue:  req.MaxPoolValue,
		SortField:     req.SortField,
		SortDirection: req.SortDirection,
		SumValueField: req.SumValueField,
	}), nil
}

func writeConflicts(w http.ResponseWriter, conflicts []string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success":   false,
		"conflicts": conflicts,
	})
}
