package handlers

import (
	"io"
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/services"
)

// maxSnapshotSize bounds an uploaded project backup (16 MB).
const maxSnapshotSize = 16 << 20

// HandleProjectImport restores a project from an exported JSON snapshot,
// creating a new project with all equipment and material lines. Equipment
// drawings start empty: payloads are never part of the persisted form.
func HandleProjectImport(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseMultipartForm(maxSnapshotSize); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "无效的上传内容")
		}

		file, _, err := e.Request.FormFile("snapshot")
		if err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "请上传项目备份文件")
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxSnapshotSize))
		if err != nil {
			log.Printf("project_import: read upload: %v", err)
			return ErrorJSON(e, http.StatusBadRequest, "备份文件无法读取")
		}

		snap, err := services.UnmarshalProjectSnapshot(data)
		if err != nil {
			log.Printf("project_import: %v", err)
			return ErrorJSON(e, http.StatusBadRequest, "备份文件格式不正确")
		}
		if snap.Name == "" {
			return ErrorJSON(e, http.StatusBadRequest, "备份文件缺少项目名称")
		}

		projectsCol, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_import: collection error: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "服务器内部错误")
		}

		project := core.NewRecord(projectsCol)
		project.Set("name", snap.Name)
		project.Set("labor_cost_per_kg", snap.LaborCostPerKg)
		project.Set("overhead_percent", snap.OverheadPercent)
		if err := app.Save(project); err != nil {
			log.Printf("project_import: create project: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "创建项目失败")
		}

		equipmentsCol, err := app.FindCollectionByNameOrId("equipments")
		if err != nil {
			log.Printf("project_import: collection error: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "服务器内部错误")
		}
		materialsCol, err := app.FindCollectionByNameOrId("materials")
		if err != nil {
			log.Printf("project_import: collection error: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "服务器内部错误")
		}

		for i, eqSnap := range snap.Equipments {
			eq := core.NewRecord(equipmentsCol)
			eq.Set("project", project.Id)
			eq.Set("sort_order", i+1)
			eq.Set("tag", eqSnap.Tag)
			eq.Set("tag_unresolved", eqSnap.TagUnresolved)
			eq.Set("name", eqSnap.Name)
			eq.Set("specification", eqSnap.Specification)
			eq.Set("main_material", eqSnap.MainMaterial)
			eq.Set("design_weight", eqSnap.DesignWeight)
			eq.Set("page_range", eqSnap.PageRange)
			eq.Set("source_file_id", eqSnap.SourceFileID)
			eq.Set("status", eqSnap.Status)
			eq.Set("drawings", []string{})
			if err := app.Save(eq); err != nil {
				log.Printf("project_import: create equipment %q: %v", eqSnap.Tag, err)
				return ErrorJSON(e, http.StatusInternalServerError, "恢复设备记录失败")
			}

			for j, m := range eqSnap.Materials {
				rec := core.NewRecord(materialsCol)
				rec.Set("equipment", eq.Id)
				rec.Set("sort_order", j+1)
				rec.Set("name", m.Name)
				rec.Set("material", m.Material)
				rec.Set("specification", m.Specification)
				rec.Set("weight", m.Weight)
				rec.Set("quantity", m.Quantity)
				rec.Set("unit_price", m.UnitPrice)
				rec.Set("category", m.Category)
				if err := app.Save(rec); err != nil {
					log.Printf("project_import: create material: %v", err)
					return ErrorJSON(e, http.StatusInternalServerError, "恢复材料明细失败")
				}
			}
		}

		return e.JSON(http.StatusCreated, map[string]any{
			"id":              project.Id,
			"name":            snap.Name,
			"equipment_count": len(snap.Equipments),
		})
	}
}
