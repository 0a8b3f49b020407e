package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
)

// Default pricing parameters applied to projects created before the pricing
// fields existed.
const (
	defaultLaborCostPerKg  = 8.0
	defaultOverheadPercent = 15.0
)

// MigrateDefaultPricing backfills labor cost and overhead on projects where
// both are still zero. Safe to call on every startup -- returns early if
// nothing to migrate.
func MigrateDefaultPricing(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("migrate: could not find projects collection: %w", err)
	}

	records, err := app.FindRecordsByFilter(projectsCol,
		"labor_cost_per_kg = 0 && overhead_percent = 0", "", 0, 0, nil)
	if err != nil {
		return fmt.Errorf("migrate: could not query projects: %w", err)
	}
	if len(records) == 0 {
		return nil
	}

	log.Printf("migrate: backfilling pricing defaults on %d project(s)\n", len(records))

	for _, p := range records {
		p.Set("labor_cost_per_kg", defaultLaborCostPerKg)
		p.Set("overhead_percent", defaultOverheadPercent)
		if err := app.Save(p); err != nil {
			log.Printf("migrate: failed to update project %s: %v\n", p.Id, err)
		}
	}
	return nil
}
