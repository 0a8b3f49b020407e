package main

import (
	"log"
	"os"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/apis"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/collections"
	"vesselcost/handlers"
	"vesselcost/vision"
)

func main() {
	app := pocketbase.New()

	// Create collections and seed data on startup
	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		collections.Setup(app)
		if err := collections.Seed(app); err != nil {
			log.Printf("Warning: seed data failed: %v", err)
		}
		if err := collections.MigrateDefaultPricing(app); err != nil {
			log.Printf("Warning: pricing migration failed: %v", err)
		}
		return se.Next()
	})

	// External extraction/pricing service
	visionClient, err := vision.NewClient()
	if err != nil {
		log.Printf("Warning: %v -- drawing import and price lookup are disabled", err)
		visionClient = vision.NewDisabledClient()
	}

	app.OnServe().BindFunc(func(se *core.ServeEvent) error {
		se.Router.GET("/static/{path...}", apis.Static(os.DirFS("./static"), false))

		// ── Project CRUD ─────────────────────────────────────────
		se.Router.GET("/api/app/projects", handlers.HandleProjectList(app))
		se.Router.POST("/api/app/projects", handlers.HandleProjectCreate(app))
		se.Router.GET("/api/app/projects/{id}", handlers.HandleProjectView(app))
		se.Router.POST("/api/app/projects/{id}/save", handlers.HandleProjectUpdate(app))
		se.Router.POST("/api/app/projects/{id}/settings", handlers.HandleProjectSettingsSave(app))
		se.Router.DELETE("/api/app/projects/{id}", handlers.HandleProjectDelete(app))

		// ── Drawing import & pricing ─────────────────────────────
		se.Router.POST("/api/app/projects/{id}/drawings/import", handlers.HandleDrawingImport(app, visionClient))
		se.Router.POST("/api/app/projects/{id}/prices/lookup", handlers.HandlePriceLookup(app, visionClient))

		// ── Equipment ────────────────────────────────────────────
		se.Router.GET("/api/app/projects/{id}/equipments/{equipmentId}", handlers.HandleEquipmentView(app))
		se.Router.PATCH("/api/app/projects/{id}/equipments/{equipmentId}", handlers.HandleEquipmentPatch(app))
		se.Router.DELETE("/api/app/projects/{id}/equipments/{equipmentId}", handlers.HandleEquipmentDelete(app))

		// ── Material lines ───────────────────────────────────────
		se.Router.POST("/api/app/projects/{id}/equipments/{equipmentId}/materials", handlers.HandleAddMaterial(app))
		se.Router.PATCH("/api/app/materials/{itemId}", handlers.HandlePatchMaterial(app))
		se.Router.DELETE("/api/app/materials/{itemId}", handlers.HandleDeleteMaterial(app))

		// ── Export & backup ──────────────────────────────────────
		se.Router.GET("/api/app/projects/{id}/export/csv", handlers.HandleExportCSV(app))
		se.Router.GET("/api/app/projects/{id}/export/excel", handlers.HandleExportExcel(app))
		se.Router.GET("/api/app/projects/{id}/export/pdf", handlers.HandleExportPDF(app))
		se.Router.GET("/api/app/projects/{id}/export/json", handlers.HandleExportJSON(app))
		se.Router.POST("/api/app/projects/import", handlers.HandleProjectImport(app))

		return se.Next()
	})

	if err := app.Start(); err != nil {
		log.Fatal(err)
	}
}
