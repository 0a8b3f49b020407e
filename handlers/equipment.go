package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/services"
)

// HandleEquipmentView returns one equipment with its BOM lines and rollup.
func HandleEquipmentView(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("equipments", e.Request.PathValue("equipmentId"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "设备不存在")
		}

		project, err := app.FindRecordById("projects", rec.GetString("project"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		materials, err := loadMaterials(app, rec.Id)
		if err != nil {
			log.Printf("equipment_view: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "无法加载材料明细")
		}
		eq := equipmentFromRecord(rec, materials)

		lines := make([]map[string]any, 0, len(materials))
		for _, m := range materials {
			lines = append(lines, map[string]any{
				"id":            m.Id,
				"name":          m.GetString("name"),
				"material":      m.GetString("material"),
				"specification": m.GetString("specification"),
				"weight":        m.GetFloat("weight"),
				"quantity":      m.GetFloat("quantity"),
				"unit_price":    m.GetFloat("unit_price"),
				"category":      services.ParseCategory(m.GetString("category")),
				"total_price": services.CalcLineTotal(
					m.GetFloat("weight"), m.GetFloat("quantity"), m.GetFloat("unit_price")),
			})
		}

		rollup := services.CalcEquipmentRollup(
			services.MaterialsForRollup(eq.Materials),
			project.GetFloat("labor_cost_per_kg"),
			project.GetFloat("overhead_percent"),
		)

		return e.JSON(http.StatusOK, map[string]any{
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
			"materials":      lines,
			"rollup":         rollup,
			"discrepancy":    services.HasWeightDiscrepancy(eq.DesignWeight, rollup.TotalWeight),
		})
	}
}

// HandleEquipmentPatch updates individual metadata fields of an equipment.
// Only fields present in the form are touched.
func HandleEquipmentPatch(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("equipments", e.Request.PathValue("equipmentId"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "设备不存在")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "无效的表单数据")
		}

		for field := range e.Request.PostForm {
			value := strings.TrimSpace(e.Request.FormValue(field))
			switch field {
			case "tag":
				rec.Set("tag", value)
				rec.Set("tag_unresolved", services.IsUnresolvedTag(value))
			case "name":
				if value == "" {
					value = services.PlaceholderName
				}
				rec.Set("name", value)
			case "specification", "main_material", "page_range":
				rec.Set(field, value)
			case "design_weight":
				rec.Set("design_weight", parseNonNegative(value))
			}
		}

		if err := app.Save(rec); err != nil {
			log.Printf("equipment_patch: save failed for %s: %v", rec.Id, err)
			return ErrorJSON(e, http.StatusInternalServerError, "保存设备失败")
		}
		return e.JSON(http.StatusOK, map[string]any{"id": rec.Id})
	}
}

// HandleEquipmentDelete removes one equipment from the ledger. Material
// lines go with it by cascade; no other record is affected.
func HandleEquipmentDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		rec, err := app.FindRecordById("equipments", e.Request.PathValue("equipmentId"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "设备不存在")
		}

		if err := app.Delete(rec); err != nil {
			log.Printf("equipment_delete: delete failed for %s: %v", rec.Id, err)
			return ErrorJSON(e, http.StatusInternalServerError, "删除设备失败")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": rec.Id})
	}
}
