package handlers

import (
	"log"
	"net/http"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/services"
	"vesselcost/vision"
)

// HandlePriceLookup asks the pricing service for market prices of the
// project's distinct material grades and applies matches to the stored
// lines. Best effort: a failed lookup updates nothing and still returns 200.
func HandlePriceLookup(app *pocketbase.PocketBase, client vision.Client) func(*core.RequestEvent) error {
	return func(e *core.RequestEvent) error {
		projectID := e.Request.PathValue("id")
		if _, err := app.FindRecordById("projects", projectID); err != nil {
			return ErrorJSON(e, http.StatusNotFound, "项目不存在")
		}

		updated, err := services.ApplyProjectPricing(e.Request.Context(), app, client, projectID)
		if err != nil {
			log.Printf("price_lookup: %v", err)
			return ErrorJSON(e, http.StatusInternalServerError, "应用价格失败")
		}

		return e.JSON(http.StatusOK, map[string]any{"updated": updated})
	}
}
