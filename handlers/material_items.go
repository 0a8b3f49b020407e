package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/services"
)

// HandleAddMaterial appends a BOM line to an equipment.
func HandleAddMaterial(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		equipment, err := app.FindRecordById("equipments", e.Request.PathValue("equipmentId"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "设备不存在")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "无效的表单数据")
		}

		col, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			log.Printf("material_add: collection error: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "服务器内部错误")
		}

		existing, err := loadMaterials(app, equipment.Id)
		if err != nil {
			log.Printf("material_add: %v", err)
			existing = nil
		}

		record := core.NewRecord(col)
		record.Set("equipment", equipment.Id)
		record.Set("sort_order", len(existing)+1)
		record.Set("name", strings.TrimSpace(e.Request.FormValue("name")))
		record.Set("material", strings.TrimSpace(e.Request.FormValue("material")))
		record.Set("specification", strings.TrimSpace(e.Request.FormValue("specification")))
		record.Set("weight", parseNonNegative(e.Request.FormValue("weight")))
		record.Set("quantity", parseNonNegative(e.Request.FormValue("quantity")))
		record.Set("unit_price", parseNonNegative(e.Request.FormValue("unit_price")))
		record.Set("category", services.ParseCategory(e.Request.FormValue("category")))

		if err := app.Save(record); err != nil {
			log.Printf("material_add: save failed: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "保存材料失败")
		}
		return e.JSON(http.StatusCreated, map[string]any{"id": record.Id})
	}
}

// HandlePatchMaterial updates individual fields of one BOM line. Numeric
// input that does not parse is coerced to 0 rather than rejected.
func HandlePatchMaterial(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("materials", e.Request.PathValue("itemId"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "材料不存在")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "无效的表单数据")
		}

		for field := range e.Request.PostForm {
			value := strings.TrimSpace(e.Request.FormValue(field))
			switch field {
			case "name", "material", "specification":
				record.Set(field, value)
			case "weight", "quantity", "unit_price":
				record.Set(field, parseNonNegative(value))
			case "category":
				record.Set("category", services.ParseCategory(value))
			}
		}

		if err := app.Save(record); err != nil {
			log.Printf("material_patch: save failed for %s: %v", record.Id, err)
			return ErrorJSON(e, http.StatusInternalServerError, "保存材料失败")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"id": record.Id,
			"total_price": services.CalcLineTotal(
				record.GetFloat("weight"),
				record.GetFloat("quantity"),
				record.GetFloat("unit_price")),
		})
	}
}

// HandleDeleteMaterial removes one BOM line.
func HandleDeleteMaterial(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		record, err := app.FindRecordById("materials", e.Request.PathValue("itemId"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "材料不存在")
		}

		if err := app.Delete(record); err != nil {
			log.Printf("material_delete: delete failed for %s: %v", record.Id, err)
			return ErrorJSON(e, http.StatusInternalServerError, "删除材料失败")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": record.Id})
	}
}
