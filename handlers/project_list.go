package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectList returns all projects with their equipment counts.
func HandleProjectList(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projects, err := app.FindAllRecords("projects")
		if err != nil {
			log.Printf("project_list: query failed: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "无法加载项目列表")
		}

		out := make([]map[string]any, 0, len(projects))
		for _, p := range projects {
			equipments, err := loadEquipments(app, p.Id)
			if err != nil {
				log.Printf("project_list: count equipments for %s: %v", p.Id, err)
				equipments = nil
			}
			out = append(out, map[string]any{
				"id":                p.Id,
				"name":              p.GetString("name"),
				"labor_cost_per_kg": p.GetFloat("labor_cost_per_kg"),
				"overhead_percent":  p.GetFloat("overhead_percent"),
				"equipment_count":   len(equipments),
				"updated":           p.GetString("updated"),
			})
		}
		return e.JSON(http.StatusOK, map[string]any{"projects": out})
	}
}

// HandleProjectCreate creates a new project from form data.
func HandleProjectCreate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		if err := e.Request.ParseForm(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "无效的表单数据")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		if name == "" {
			return ErrorJSON(e, http.StatusBadRequest, "项目名称不能为空")
		}

		col, err := app.FindCollectionByNameOrId("projects")
		if err != nil {
			log.Printf("project_create: collection error: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "服务器内部错误")
		}

		record := core.NewRecord(col)
		record.Set("name", name)
		record.Set("labor_cost_per_kg", parseNonNegative(e.Request.FormValue("labor_cost_per_kg")))
		record.Set("overhead_percent", parsePercent(e.Request.FormValue("overhead_percent")))

		if err := app.Save(record); err != nil {
			log.Printf("project_create: save failed: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "保存项目失败")
		}

		return e.JSON(http.StatusCreated, map[string]any{"id": record.Id, "name": name})
	}
}
