package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// ── Definition structs ───────────────────────────────────────────────────

type materialDef struct {
	sortOrder int
	name      string
	material  string
	spec      string
	weight    float64
	quantity  float64
	unitPrice float64
	category  string
}

type equipmentDef struct {
	sortOrder    int
	tag          string
	name         string
	spec         string
	mainMaterial string
	designWeight float64
	materials    []materialDef
}

// Seed creates a demo project with sample equipment when the database holds
// no projects yet. Safe to call on every startup.
func Seed(app *pocketbase.PocketBase) error {
	projectsCol, err := app.FindCollectionByNameOrId("projects")
	if err != nil {
		return fmt.Errorf("seed: projects collection: %w", err)
	}

	existing, err := app.FindAllRecords(projectsCol)
	if err != nil {
		return fmt.Errorf("seed: query projects: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	log.Println("seed: creating demo project")

	project := core.NewRecord(projectsCol)
	project.Set("name", "示例项目：乙烯装置换热系统")
	project.Set("labor_cost_per_kg", 8.0)
	project.Set("overhead_percent", 15.0)
	if err := app.Save(project); err != nil {
		return fmt.Errorf("seed: create project: %w", err)
	}

	equipments := []equipmentDef{
		{
			sortOrder:    1,
			tag:          "E-1201",
			name:         "管壳式换热器",
			spec:         "BEM700-2.5-120-6/25-2",
			mainMaterial: "Q345R",
			designWeight: 4200,
			materials: []materialDef{
				{1, "筒体", "Q345R", "δ=14 DN700", 980, 1, 6.2, "plate"},
				{2, "管板", "16Mn锻件", "δ=90 DN700", 310, 2, 14.5, "forging"},
				{3, "换热管", "10#无缝钢管", "Φ25×2.5 L=6000", 8.9, 268, 7.8, "pipe"},
				{4, "焊材", "J507", "", 45, 1, 12.0, "consumable"},
			},
		},
		{
			sortOrder:    2,
			tag:          "V-1305",
			name:         "缓冲罐",
			spec:         "DN1200 H=3000 1.6MPa",
			mainMaterial: "S30408",
			designWeight: 1850,
			materials: []materialDef{
				{1, "筒体", "S30408", "δ=8 DN1200", 720, 1, 18.5, "plate"},
				{2, "椭圆封头", "S30408", "EHA1200×8", 95, 2, 21.0, "plate"},
				{3, "接管法兰", "S30408锻件", "WN50-16", 6.5, 6, 26.0, "forging"},
			},
		},
	}

	equipmentsCol, err := app.FindCollectionByNameOrId("equipments")
	if err != nil {
		return fmt.Errorf("seed: equipments collection: %w", err)
	}
	materialsCol, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("seed: materials collection: %w", err)
	}

	for _, def := range equipments {
		eq := core.NewRecord(equipmentsCol)
		eq.Set("project", project.Id)
		eq.Set("sort_order", def.sortOrder)
		eq.Set("tag", def.tag)
		eq.Set("name", def.name)
		eq.Set("specification", def.spec)
		eq.Set("main_material", def.mainMaterial)
		eq.Set("design_weight", def.designWeight)
		eq.Set("status", "complete")
		eq.Set("drawings", []string{})
		if err := app.Save(eq); err != nil {
			return fmt.Errorf("seed: create equipment %q: %w", def.tag, err)
		}

		for _, m := range def.materials {
			rec := core.NewRecord(materialsCol)
			rec.Set("equipment", eq.Id)
			rec.Set("sort_order", m.sortOrder)
			rec.Set("name", m.name)
			rec.Set("material", m.material)
			rec.Set("specification", m.spec)
			rec.Set("weight", m.weight)
			rec.Set("quantity", m.quantity)
			rec.Set("unit_price", m.unitPrice)
			rec.Set("category", m.category)
			if err := app.Save(rec); err != nil {
				return fmt.Errorf("seed: create material %q: %w", m.name, err)
			}
		}
	}

	return nil
}
