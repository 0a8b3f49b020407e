package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/services"
)

// HandleExportCSV streams the equipment directory as a CSV download.
func HandleExportCSV(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		data, err := buildProjectExportData(app, project)
		if err != nil {
			log.Printf("export_csv: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "导出失败")
		}

		csvBytes, err := services.GenerateDirectoryCSV(data)
		if err != nil {
			log.Printf("export_csv: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "导出失败")
		}

		filename := fmt.Sprintf("%s_设备目录_%s.csv",
			project.GetString("name"), time.Now().Format("20060102"))
		e.Response.Header().Set("Content-Type", "text/csv; charset=utf-8")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(csvBytes)
		return nil
	}
}

// HandleExportExcel streams the full BOM workbook as an xlsx download.
func HandleExportExcel(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		data, err := buildProjectExportData(app, project)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "导出失败")
		}

		xlsxBytes, err := services.GenerateExcel(data)
		if err != nil {
			log.Printf("export_excel: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "导出失败")
		}

		filename := fmt.Sprintf("%s_材料明细_%s.xlsx",
			project.GetString("name"), time.Now().Format("20060102"))
		e.Response.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(xlsxBytes)
		return nil
	}
}

// HandleExportPDF streams the cost summary as a PDF download.
func HandleExportPDF(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		data, err := buildProjectExportData(app, project)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "导出失败")
		}

		pdfBytes, err := services.GeneratePDF(data)
		if err != nil {
			log.Printf("export_pdf: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "导出失败")
		}

		filename := fmt.Sprintf("%s_造价汇总_%s.pdf",
			project.GetString("name"), time.Now().Format("20060102"))
		e.Response.Header().Set("Content-Type", "application/pdf")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(pdfBytes)
		return nil
	}
}

// HandleExportJSON streams the full project snapshot as a JSON download.
// This doubles as the backup format consumed by HandleProjectImport.
func HandleExportJSON(app *pocketbase.PocketBase) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		project, err := app.FindRecordById("projects", e.Request.PathValue("id"))
		if err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		snap, err := buildSnapshot(app, project)
		if err != nil {
			log.Printf("export_json: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "导出失败")
		}

		jsonBytes, err := services.MarshalProjectSnapshot(snap)
		if err != nil {
			log.Printf("export_json: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "导出失败")
		}

		filename := fmt.Sprintf("%s_备份_%s.json",
			project.GetString("name"), time.Now().Format("20060102"))
		e.Response.Header().Set("Content-Type", "application/json; charset=utf-8")
		e.Response.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
		e.Response.Write(jsonBytes)
		return nil
	}
}

// buildSnapshot assembles the persisted project form. Drawing payloads are
// never included; only source references survive into the snapshot.
func buildSnapshot(app *pocketbase.PocketBase, project *core.Record) (services.ProjectSnapshot, error) {
	snap := services.ProjectSnapshot{
		ID:              project.Id,
		Name:            project.GetString("name"),
		LaborCostPerKg:  project.GetFloat("labor_cost_per_kg"),
		OverheadPercent: project.GetFloat("overhead_percent"),
	}

	equipments, err := loadEquipments(app, project.Id)
	if err != nil {
		return services.ProjectSnapshot{}, err
	}

	for _, rec := range equipments {
		materials, err := loadMaterials(app, rec.Id)
		if err != nil {
			return services.ProjectSnapshot{}, err
		}

		eqSnap := services.EquipmentSnapshot{
			ID:            rec.Id,
			Tag:           rec.GetString("tag"),
			TagUnresolved: rec.GetBool("tag_unresolved"),
			Name:          rec.GetString("name"),
			Specification: rec.GetString("specification"),
			MainMaterial:  rec.GetString("main_material"),
			DesignWeight:  rec.GetFloat("design_weight"),
			PageRange:     rec.GetString("page_range"),
			SourceFileID:  rec.GetString("source_file_id"),
			Status:        rec.GetString("status"),
			LastModified:  rec.GetString("updated"),
			Materials:     []services.MaterialSnapshot{},
		}
		for _, m := range materials {
			eqSnap.Materials = append(eqSnap.Materials, services.MaterialSnapshot{
				ID:            m.Id,
				Name:          m.GetString("name"),
				Material:      m.GetString("material"),
				Specification: m.GetString("specification"),
				Weight:        m.GetFloat("weight"),
				Quantity:      m.GetFloat("quantity"),
				UnitPrice:     m.GetFloat("unit_price"),
				Category:      services.ParseCategory(m.GetString("category")),
			})
		}
		snap.Equipments = append(snap.Equipments, eqSnap)
	}

	return snap, nil
}
