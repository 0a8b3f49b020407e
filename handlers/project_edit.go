package handlers

import (
	"log"
	"net/http"
	"strings"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// HandleProjectUpdate renames a project.
func HandleProjectUpdate(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "无效的表单数据")
		}

		name := strings.TrimSpace(e.Request.FormValue("name"))
		if name == "" {
			return ErrorJSON(e, http.StatusBadRequest, "项目名称不能为空")
		}

		project.Set("name", name)
		if err := app.Save(project); err != nil {
			log.Printf("project_edit: save failed for %s: %v", project.Id, err)
			return ErrorJSON(e, http.StatusInternalServerError, "保存项目失败")
		}
		return e.JSON(http.StatusOK, map[string]any{"id": project.Id, "name": name})
	}
}

// HandleProjectSettingsSave updates the global pricing parameters. The
// project record is the single owner of the current labor cost and overhead
// values; every rollup reads them from here.
func HandleProjectSettingsSave(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		if err := e.Request.ParseForm(); err != nil {
			return ErrorJSON(e, http.StatusBadRequest, "无效的表单数据")
		}

		laborCost := parseNonNegative(e.Request.FormValue("labor_cost_per_kg"))
		overhead := parsePercent(e.Request.FormValue("overhead_percent"))

		project.Set("labor_cost_per_kg", laborCost)
		project.Set("overhead_percent", overhead)
		if err := app.Save(project); err != nil {
			log.Printf("project_settings: save failed for %s: %v", project.Id, err)
			return ErrorJSON(e, http.StatusInternalServerError, "保存定价参数失败")
		}

		return e.JSON(http.StatusOK, map[string]any{
			"labor_cost_per_kg": laborCost,
			"overhead_percent":  overhead,
		})
	}
}

// HandleProjectDelete removes a project. Equipment and material records are
// removed by relation cascade; nothing else is affected.
func HandleProjectDelete(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		if err := app.Delete(project); err != nil {
			log.Printf("project_delete: delete failed for %s: %v", project.Id, err)
			return ErrorJSON(e, http.StatusInternalServerError, "删除项目失败")
		}
		return e.JSON(http.StatusOK, map[string]any{"deleted": project.Id})
	}
}
