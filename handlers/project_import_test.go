package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"vesselcost/testhelpers"
)

func TestHandleProjectImport_RoundTrip(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	proj := testhelpers.CreateTestProject(t, app, "往返项目", 8, 15)
	eq := testhelpers.CreateTestEquipment(t, app, proj.Id, "E-1201", "换热器")
	eq.Set("drawings", []string{"file-ref-1"})
	if err := app.Save(eq); err != nil {
		t.Fatalf("save equipment: %v", err)
	}
	testhelpers.CreateTestMaterial(t, app, eq.Id, "筒体", "Q345R", 2000, 1, 5.2)

	// Export the snapshot through the handler
	exportReq := httptest.NewRequest(http.MethodGet, "/api/app/projects/"+proj.Id+"/export/json", nil)
	exportReq.SetPathValue("id", proj.Id)
	exportRec := httptest.NewRecorder()
	if err := HandleExportJSON(app)(newTestRequestEvent(app, exportReq, exportRec)); err != nil {
		t.Fatalf("export handler error: %v", err)
	}

	// Feed the exported bytes back through the import handler
	body, contentType := multipartBody(t, "snapshot", map[string][]byte{
		"backup.json": exportRec.Body.Bytes(),
	})
	importReq := httptest.NewRequest(http.MethodPost, "/api/app/projects/import", body)
	importReq.Header.Set("Content-Type", contentType)
	importRec := httptest.NewRecorder()

	if err := HandleProjectImport(app)(newTestRequestEvent(app, importReq, importRec)); err != nil {
		t.Fatalf("import handler error: %v", err)
	}
	if importRec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", importRec.Code, importRec.Body.String())
	}

	var resp struct {
		ID             string `json:"id"`
		Name           string `json:"name"`
		EquipmentCount int    `json:"equipment_count"`
	}
	if err := json.Unmarshal(importRec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if resp.ID == proj.Id {
		t.Error("import must create a new project, not overwrite the source")
	}
	if resp.EquipmentCount != 1 {
		t.Errorf("equipment_count = %d, want 1", resp.EquipmentCount)
	}

	restored, err := app.FindRecordById("projects", resp.ID)
	if err != nil {
		t.Fatalf("restored project not found: %v", err)
	}
	if restored.GetFloat("labor_cost_per_kg") != 8 {
		t.Errorf("labor_cost_per_kg = %v", restored.GetFloat("labor_cost_per_kg"))
	}

	equipments, _ := app.FindRecordsByFilter("equipments",
		"project = {:p}", "", 0, 0, map[string]any{"p": resp.ID})
	if len(equipments) != 1 {
		t.Fatalf("restored equipments = %d, want 1", len(equipments))
	}
	restoredEq := equipments[0]
	if restoredEq.GetString("tag") != "E-1201" {
		t.Errorf("tag = %q", restoredEq.GetString("tag"))
	}

	var drawings []string
	if err := restoredEq.UnmarshalJSONField("drawings", &drawings); err == nil && len(drawings) != 0 {
		t.Errorf("drawings = %v, must start empty after restore", drawings)
	}

	lines, _ := app.FindRecordsByFilter("materials",
		"equipment = {:e}", "", 0, 0, map[string]any{"e": restoredEq.Id})
	if len(lines) != 1 {
		t.Fatalf("restored materials = %d, want 1", len(lines))
	}
	if lines[0].GetFloat("unit_price") != 5.2 {
		t.Errorf("unit_price = %v", lines[0].GetFloat("unit_price"))
	}
}

func TestHandleProjectImport_MalformedJSON(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body, contentType := multipartBody(t, "snapshot", map[string][]byte{
		"backup.json": []byte("{not json"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/app/projects/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	if err := HandleProjectImport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleProjectImport_MissingFile(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body, contentType := multipartBody(t, "wrong_field", map[string][]byte{
		"backup.json": []byte("{}"),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/app/projects/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	if err := HandleProjectImport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestHandleProjectImport_MissingName(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	body, contentType := multipartBody(t, "snapshot", map[string][]byte{
		"backup.json": []byte(`{"schemaVersion":1,"name":"","equipments":[]}`),
	})
	req := httptest.NewRequest(http.MethodPost, "/api/app/projects/import", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()

	if err := HandleProjectImport(app)(newTestRequestEvent(app, req, rec)); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}
