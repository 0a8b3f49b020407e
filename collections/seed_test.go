package collections_test

import (
	"testing"

	"vesselcost/collections"
	"vesselcost/testhelpers"
)

func TestSeed_CreatesDemoProject(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	projects, err := app.FindAllRecords("projects")
	if err != nil {
		t.Fatalf("query projects: %v", err)
	}
	if len(projects) != 1 {
		t.Fatalf("projects = %d, want 1 demo project", len(projects))
	}

	proj := projects[0]
	if proj.GetFloat("labor_cost_per_kg") != 8.0 {
		t.Errorf("labor_cost_per_kg = %v, want 8.0", proj.GetFloat("labor_cost_per_kg"))
	}
	if proj.GetFloat("overhead_percent") != 15.0 {
		t.Errorf("overhead_percent = %v, want 15.0", proj.GetFloat("overhead_percent"))
	}

	equipments, err := app.FindRecordsByFilter("equipments",
		"project = {:p}", "sort_order", 0, 0, map[string]any{"p": proj.Id})
	if err != nil {
		t.Fatalf("query equipments: %v", err)
	}
	if len(equipments) != 2 {
		t.Fatalf("equipments = %d, want 2", len(equipments))
	}
	if equipments[0].GetString("tag") != "E-1201" {
		t.Errorf("first tag = %q, want E-1201", equipments[0].GetString("tag"))
	}
	if equipments[1].GetString("tag") != "V-1305" {
		t.Errorf("second tag = %q, want V-1305", equipments[1].GetString("tag"))
	}

	materials, err := app.FindRecordsByFilter("materials",
		"equipment = {:e}", "sort_order", 0, 0, map[string]any{"e": equipments[0].Id})
	if err != nil {
		t.Fatalf("query materials: %v", err)
	}
	if len(materials) != 4 {
		t.Errorf("E-1201 materials = %d, want 4", len(materials))
	}
}

func TestSeed_SkipsWhenProjectsExist(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	testhelpers.CreateTestProject(t, app, "已有项目", 0, 0)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}

	projects, _ := app.FindAllRecords("projects")
	if len(projects) != 1 {
		t.Errorf("projects = %d, seed must not run when data exists", len(projects))
	}
}

func TestSeed_Idempotent(t *testing.T) {
	app := testhelpers.NewTestApp(t)

	if err := collections.Seed(app); err != nil {
		t.Fatalf("first Seed() error: %v", err)
	}
	if err := collections.Seed(app); err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}

	projects, _ := app.FindAllRecords("projects")
	if len(projects) != 1 {
		t.Errorf("projects = %d after double seed, want 1", len(projects))
	}
}
