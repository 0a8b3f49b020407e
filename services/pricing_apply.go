package services

import (
	"context"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"

	"vesselcost/vision"
)

// ApplyProjectPricing looks up market prices for every distinct material
// grade in the project and updates matching lines. The lookup is best
// effort: a failed call yields an empty mapping and the flow never fails;
// lines without a match keep their existing unit price. Returns the number
// of lines updated.
func ApplyProjectPricing(ctx context.Context, app *pocketbase.PocketBase, client vision.Client, projectID string) (int, error) {
	records, err := app.FindRecordsByFilter("materials",
		"equipment.project = {:projectId}", "sort_order", 0, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		return 0, fmt.Errorf("load material lines: %w", err)
	}
	if len(records) == 0 {
		return 0, nil
	}

	lines := make([]RawMaterial, len(records))
	for i, r := range records {
		lines[i] = RawMaterial{Material: r.GetString("material")}
	}

	prices, err := client.LookupPrices(ctx, DistinctMaterials(lines))
	if err != nil {
		log.Printf("pricing_apply: lookup failed for project %s: %v", projectID, err)
		prices = map[string]float64{}
	}
	if len(prices) == 0 {
		return 0, nil
	}

	updated := 0
	for _, r := range records {
		price, ok := MatchPrice(r.GetString("material"), prices)
		if !ok {
			continue
		}
		r.Set("unit_price", price)
		if err := app.Save(r); err != nil {
			return updated, fmt.Errorf("update line price: %w", err)
		}
		updated++
	}
	return updated, nil
}
