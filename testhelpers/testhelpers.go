// Package testhelpers provides utilities for testing PocketBase-based
// applications.
package testhelpers

import (
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/collections"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}

	collections.Setup(app)

	return app
}

// CreateTestProject creates a project record with the given name and pricing
// parameters and returns it.
func CreateTestProject(t *testing.T, app *pocketbase.PocketBase, name string, laborCostPerKg, overheadPercent float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		t.Fatalf("failed to find projects collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("labor_cost_per_kg", laborCostPerKg)
	record.Set("overhead_percent", overheadPercent)

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test project: %v", err)
	}

	return record
}

// CreateTestEquipment creates an equipment record linked to a project and
// returns it.
func CreateTestEquipment(t *testing.T, app *pocketbase.PocketBase, projectID, tag, name string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("equipments")
	if err != nil {
		t.Fatalf("failed to find equipments collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("tag", tag)
	record.Set("name", name)
	record.Set("status", "complete")
	record.Set("sort_order", 1)
	record.Set("drawings", []string{})

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test equipment: %v", err)
	}

	return record
}

// CreateTestMaterial creates a material line under an equipment.
func CreateTestMaterial(t *testing.T, app *pocketbase.PocketBase, equipmentID, name, material string, weight, quantity, unitPrice float64) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		t.Fatalf("failed to find materials collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("equipment", equipmentID)
	record.Set("sort_order", 1)
	record.Set("name", name)
	record.Set("material", material)
	record.Set("weight", weight)
	record.Set("quantity", quantity)
	record.Set("unit_price", unitPrice)
	record.Set("category", "other")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test material: %v", err)
	}

	return record
}
