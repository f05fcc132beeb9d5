package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"

	"loanpool/backend/models"
)

func TestCreateAndGetSavedFilter(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	body := `{
		"name": "High DPD Maharashtra",
		"dataset_id": "ds-1",
		"conditions": [
			{"field": "state", "operator": "=", "value": "Maharashtra", "enabled": true},
			{"field": "dpd", "operator": ">=", "value": 90, "enabled": true}
		]
	}`
	req := httptest.NewRequest("POST", "/api/filters", bytes.NewBufferString(body))
	w := httptest.NewRecorder()

	CreateSavedFilter(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d: %s", http.StatusCreated, w.Code, w.Body.String())
	}

	var created models.SavedFilter
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}
	if created.Name != "High DPD Maharashtra" {
		t.Errorf("Expected filter name to round-trip, got %q", created.Name)
	}
	if len(created.Conditions) != 2 {
		t.Errorf("Expected 2 conditions, got %d", len(created.Conditions))
	}

	getReq := httptest.NewRequest("GET", "/api/filters/"+created.ID, nil)
	getReq = mux.SetURLVars(getReq, map[string]string{"id": created.ID})
	getW := httptest.NewRecorder()

	GetSavedFilter(getW, getReq)

	if getW.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, getW.Code)
	}

	var fetched models.SavedFilter
	if err := json.NewDecoder(getW.Body).Decode(&fetched); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}
	if fetched.ID != created.ID {
		t.Errorf("Expected filter %s, got %s", created.ID, fetched.ID)
	}
	if fetched.Conditions[1].Field != "dpd" {
		t.Errorf("Expected second condition on dpd, got %q", fetched.Conditions[1].Field)
	}
}

func TestCreateSavedFilterRequiresConditions(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	req := httptest.NewRequest("POST", "/api/filters", bytes.NewBufferString(`{"name": "Empty"}`))
	w := httptest.NewRecorder()

	CreateSavedFilter(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, w.Code)
	}
}

func TestDeleteSavedFilter(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	body := `{
		"name": "Temporary",
		"conditions": [{"field": "state", "operator": "=", "value": "Gujarat", "enabled": true}]
	}`
	req := httptest.NewRequest("POST", "/api/filters", bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	CreateSavedFilter(w, req)

	var created models.SavedFilter
	if err := json.NewDecoder(w.Body).Decode(&created); err != nil {
		t.Fatalf("Error decoding response: %v", err)
	}

	delReq := httptest.NewRequest("DELETE", "/api/filters/"+created.ID, nil)
	delReq = mux.SetURLVars(delReq, map[string]string{"id": created.ID})
	delW := httptest.NewRecorder()

	DeleteSavedFilter(delW, delReq)

	if delW.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, delW.Code)
	}

	delAgain := httptest.NewRecorder()
	DeleteSavedFilter(delAgain, delReq)
	if delAgain.Code != http.StatusNotFound {
		t.Errorf("Expected status code %d on second delete, got %d", http.StatusNotFound, delAgain.Code)
	}
}

func TestValidateFilters(t *testing.T) {
	SetupTestDB()
	defer CleanupTestDB()

	testCases := []struct {
		name          string
		body          string
		wantValid     bool
		wantConflicts int
	}{
		{
			name: "Satisfiable conditions",
			body: `{"filters": [
				{"field": "dpd", "operator": ">=", "value": 100, "enabled": true},
				{"field": "dpd", "operator": "<=", "value": 200, "enabled": true}
			]}`,
			wantValid: true,
		},
		{
			name: "Contradictory bounds",
			body: `{"filters": [
				{"field": "dpd", "operator": ">=", "value": 300, "enabled": true},
				{"field": "dpd", "operator": "<=", "value": 200, "enabled": true}
			]}`,
			wantValid:     false,
			wantConflicts: 1,
		},
		{
			name:      "Empty filter set",
			body:      `{"filters": []}`,
			wantValid: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/filters/validate", bytes.NewBufferString(tc.body))
			w := httptest.NewRecorder()

			ValidateFilters(w, req)

			if w.Code != http.StatusOK {
				t.Fatalf("Expected status code %d, got %d", http.StatusOK, w.Code)
			}

			var response struct {
				Valid     bool     `json:"valid"`
				Conflicts []string `json:"conflicts"`
			}
			if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
				t.Fatalf("Error decoding response: %v", err)
			}
			if response.Valid != tc.wantValid {
				t.Errorf("Expected valid=%v, got %v (conflicts: %v)", tc.wantValid, response.Valid, response.Conflicts)
			}
			if tc.wantConflicts > 0 && len(response.Conflicts) != tc.wantConflicts {
				t.Errorf("Expected %d conflicts, got %d: %v", tc.wantConflicts, len(response.Conflicts), response.Conflicts)
			}
		})
	}
}
