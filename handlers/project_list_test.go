package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"vesselcost/testhelpers"
)

func TestHandleProjectList_Empty(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectList(app)

	req := httptest.NewRequest(http.MethodGet, "/api/app/projects", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var body struct {
		Projects []map[string]any `json:"projects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(body.Projects) != 0 {
		t.Errorf("projects = %d, want 0", len(body.Projects))
	}
}

func TestHandleProjectList_WithProjects(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "乙烯装置", 8, 15)
	testhelpers.CreateTestEquipment(t, app, proj.Id, "E-1201", "换热器")

	handler := HandleProjectList(app)
	req := httptest.NewRequest(http.MethodGet, "/api/app/projects", nil)
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}

	var body struct {
		Projects []struct {
			Name           string  `json:"name"`
			EquipmentCount int     `json:"equipment_count"`
			LaborCost      float64 `json:"labor_cost_per_kg"`
		} `json:"projects"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if len(body.Projects) != 1 {
		t.Fatalf("projects = %d, want 1", len(body.Projects))
	}
	p := body.Projects[0]
	if p.Name != "乙烯装置" || p.EquipmentCount != 1 || p.LaborCost != 8 {
		t.Errorf("project = %+v", p)
	}
}

func TestHandleProjectCreate_ValidData(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectCreate(app)

	form := url.Values{}
	form.Set("name", "新建项目")
	form.Set("labor_cost_per_kg", "8.5")
	form.Set("overhead_percent", "12")

	req := httptest.NewRequest(http.MethodPost, "/api/app/projects",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	records, err := app.FindRecordsByFilter("projects", "name = {:name}", "", 1, 0,
		map[string]any{"name": "新建项目"})
	if err != nil || len(records) == 0 {
		t.Fatal("expected project to be created in database")
	}
	if records[0].GetFloat("labor_cost_per_kg") != 8.5 {
		t.Errorf("labor_cost_per_kg = %v", records[0].GetFloat("labor_cost_per_kg"))
	}
	if records[0].GetFloat("overhead_percent") != 12 {
		t.Errorf("overhead_percent = %v", records[0].GetFloat("overhead_percent"))
	}
}

func TestHandleProjectCreate_MissingName(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectCreate(app)

	form := url.Values{}
	form.Set("name", "   ")

	req := httptest.NewRequest(http.MethodPost, "/api/app/projects",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleProjectCreate_InvalidNumbersCoerced(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	handler := HandleProjectCreate(app)

	form := url.Values{}
	form.Set("name", "脏参数")
	form.Set("labor_cost_per_kg", "abc")
	form.Set("overhead_percent", "250")

	req := httptest.NewRequest(http.MethodPost, "/api/app/projects",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()

	if err := handler(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}

	records, _ := app.FindRecordsByFilter("projects", "name = {:name}", "", 1, 0,
		map[string]any{"name": "脏参数"})
	if records[0].GetFloat("labor_cost_per_kg") != 0 {
		t.Errorf("invalid labor cost should coerce to 0, got %v", records[0].GetFloat("labor_cost_per_kg"))
	}
	if records[0].GetFloat("overhead_percent") != 100 {
		t.Errorf("overhead should clamp to 100, got %v", records[0].GetFloat("overhead_percent"))
	}
}
