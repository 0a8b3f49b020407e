package handlers

import (
	"fmt"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/services"
)

// loadEquipments fetches a project's equipment records in directory order.
func loadEquipments(app *pocketbase.PocketBase, projectID string) ([]*core.Record, error) {
	records, err := app.FindRecordsByFilter("equipments",
		"project = {:projectId}", "sort_order", 0, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		return nil, fmt.Errorf("query equipments: %w", err)
	}
	return records, nil
}

// loadMaterials fetches one equipment's BOM lines in sort order.
func loadMaterials(app *pocketbase.PocketBase, equipmentID string) ([]*core.Record, error) {
	records, err := app.FindRecordsByFilter("materials",
		"equipment = {:equipmentId}", "sort_order", 0, 0,
		map[string]any{"equipmentId": equipmentID},
	)
	if err != nil {
		return nil, fmt.Errorf("query materials: %w", err)
	}
	return records, nil
}

func materialFromRecord(r *core.Record) services.RawMaterial {
	return services.RawMaterial{
		Name:          r.GetString("name"),
		Material:      r.GetString("material"),
		Specification: r.GetString("specification"),
		Weight:        r.GetFloat("weight"),
		Quantity:      r.GetFloat("quantity"),
		UnitPrice:     r.GetFloat("unit_price"),
		Category:      services.ParseCategory(r.GetString("category")),
	}
}

func equipmentFromRecord(r *core.Record, materials []*core.Record) services.ConsolidatedEquipment {
	eq := services.ConsolidatedEquipment{
		Tag:           r.GetString("tag"),
		TagUnresolved: r.GetBool("tag_unresolved"),
		Name:          r.GetString("name"),
		Specification: r.GetString("specification"),
		MainMaterial:  r.GetString("main_material"),
		DesignWeight:  r.GetFloat("design_weight"),
		PageRange:     r.GetString("page_range"),
		SourceFileID:  r.GetString("source_file_id"),
		Status:        r.GetString("status"),
	}
	if err := r.UnmarshalJSONField("drawings", &eq.Drawings); err != nil {
		eq.Drawings = nil
	}
	for _, m := range materials {
		eq.Materials = append(eq.Materials, materialFromRecord(m))
	}
	return eq
}

// buildProjectExportData assembles everything the CSV/Excel/PDF exports need
// for one project. Totals are recomputed from the stored lines; no derived
// value is read back from storage.
func buildProjectExportData(app *pocketbase.PocketBase, project *core.Record) (services.ProjectExportData, error) {
	laborCost := project.GetFloat("labor_cost_per_kg")
	overhead := project.GetFloat("overhead_percent")

	data := services.ProjectExportData{
		ProjectName:     project.GetString("name"),
		LaborCostPerKg:  laborCost,
		OverheadPercent: overhead,
		GeneratedDate:   time.Now().Format("2006-01-02"),
	}

	equipments, err := loadEquipments(app, project.Id)
	if err != nil {
		return services.ProjectExportData{}, err
	}

	var rollups []services.EquipmentRollup
	for _, rec := range equipments {
		materials, err := loadMaterials(app, rec.Id)
		if err != nil {
			return services.ProjectExportData{}, err
		}
		eq := equipmentFromRecord(rec, materials)

		data.Rows = append(data.Rows, services.BuildDirectoryRow(eq, laborCost, overhead))
		data.Materials = append(data.Materials, services.BuildMaterialRows(eq)...)
		rollups = append(rollups, services.CalcEquipmentRollup(
			services.MaterialsForRollup(eq.Materials), laborCost, overhead))
	}
	data.ProjectTotal = services.CalcProjectTotal(rollups)

	return data, nil
}
