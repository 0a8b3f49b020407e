package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/services"
)

// HandleProjectView returns one project with its full equipment directory:
// per-equipment rollups, weight-discrepancy flags, the category cost
// breakdown and the project grand total. All figures are recomputed from the
// current lines on every request.
func HandleProjectView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		project, err := app.FindRecordById("projects", projectID)
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		laborCost := project.GetFloat("labor_cost_per_kg")
		overhead := project.GetFloat("overhead_percent")

		equipments, err := loadEquipments(app, projectID)
		if err != nil {
			log.Printf("project_view: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "无法加载设备列表")
		}

		var rollups []services.EquipmentRollup
		var allMaterials []services.MaterialForRollup
		out := make([]map[string]any, 0, len(equipments))

		for _, rec := range equipments {
			materials, err := loadMaterials(app, rec.Id)
			if err != nil {
				log.Printf("project_view: materials for %s: %v", rec.Id, err)
				materials = nil
			}
			eq := equipmentFromRecord(rec, materials)

			forRollup := services.MaterialsForRollup(eq.Materials)
			rollup := services.CalcEquipmentRollup(forRollup, laborCost, overhead)
			rollups = append(rollups, rollup)
			allMaterials = append(allMaterials, forRollup...)

			out = append(out, map[string]any{
				"id":             rec.Id,
				"tag":            eq.Tag,
				"tag_unresolved": eq.TagUnresolved,
				"name":           eq.Name,
				"specification":  eq.Specification,
				"main_material":  eq.MainMaterial,
				"design_weight":  eq.DesignWeight,
				"page_range":     eq.PageRange,
				"status":         eq.Status,
				"drawings":       eq.Drawings,
				"material_count": len(eq.Materials),
				"rollup":         rollup,
				"discrepancy":    services.HasWeightDiscrepancy(eq.DesignWeight, rollup.TotalWeight),
				"updated":        rec.GetString("updated"),
			})
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id":                 project.Id,
			"name":               project.GetString("name"),
			"labor_cost_per_kg":  laborCost,
			"overhead_percent":   overhead,
			"equipments":         out,
			"project_total":      services.CalcProjectTotal(rollups),
			"category_breakdown": services.CalcCategoryBreakdown(allMaterials),
		})
	}
}
