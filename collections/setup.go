// Package collections programmatically creates and seeds the application's
// PocketBase collections.
package collections

import (
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"
)

// Setup programmatically creates/ensures the projects, equipments and
// materials collections exist.
func Setup(app *pocketbase.PocketBase) {
	projects := ensureCollection(app, "projects", func(c *core.Collection) {
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.NumberField{Name: "labor_cost_per_kg", Min: float64Ptr(0)})
		c.Fields.Add(&core.NumberField{Name: "overhead_percent", Min: float64Ptr(0), Max: float64Ptr(100)})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	equipments := ensureCollection(app, "equipments", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "project",
			Required:      true,
			CollectionId:  projects.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "tag"})
		c.Fields.Add(&core.BoolField{Name: "tag_unresolved"})
		c.Fields.Add(&core.TextField{Name: "name", Required: true})
		c.Fields.Add(&core.TextField{Name: "specification"})
		c.Fields.Add(&core.TextField{Name: "main_material"})
		c.Fields.Add(&core.NumberField{Name: "design_weight", Min: float64Ptr(0)})
		c.Fields.Add(&core.TextField{Name: "page_range"})
		c.Fields.Add(&core.TextField{Name: "source_file_id"})
		c.Fields.Add(&core.SelectField{
			Name:      "status",
			Required:  true,
			Values:    []string{"identified", "extracting", "complete", "error"},
			MaxSelect: 1,
		})
		c.Fields.Add(&core.JSONField{Name: "drawings"})
		c.Fields.Add(&core.AutodateField{Name: "created", OnCreate: true})
		c.Fields.Add(&core.AutodateField{Name: "updated", OnCreate: true, OnUpdate: true})
	})

	ensureCollection(app, "materials", func(c *core.Collection) {
		c.Fields.Add(&core.RelationField{
			Name:          "equipment",
			Required:      true,
			CollectionId:  equipments.Id,
			CascadeDelete: true,
			MaxSelect:     1,
		})
		c.Fields.Add(&core.NumberField{Name: "sort_order", Required: true})
		c.Fields.Add(&core.TextField{Name: "name"})
		c.Fields.Add(&core.TextField{Name: "material"})
		c.Fields.Add(&core.TextField{Name: "specification"})
		c.Fields.Add(&core.NumberField{Name: "weight", Min: float64Ptr(0)})
		c.Fields.Add(&core.NumberField{Name: "quantity", Min: float64Ptr(0)})
		c.Fields.Add(&core.NumberField{Name: "unit_price", Min: float64Ptr(0)})
		c.Fields.Add(&core.SelectField{
			Name:      "category",
			Values:    []string{"plate", "forging", "pipe", "consumable", "other"},
			MaxSelect: 1,
		})
	})
}

// ensureCollection checks if a collection already exists by name. If it does,
// the existing collection is returned. Otherwise a new base collection is
// created, the addFields callback is invoked to populate its fields, and the
// collection is saved.
func ensureCollection(app *pocketbase.PocketBase, name string, addFields func(*core.Collection)) *core.Collection {
	existing, err := app.FindCollectionByNameOrId(name)
	if err == nil && existing != nil {
		log.Printf("Collection %q already exists, skipping creation.\n", name)
		return existing
	}

	collection := core.NewBaseCollection(name)
	addFields(collection)

	if err := app.Save(collection); err != nil {
		log.Fatalf("Failed to create collection %q: %v", name, err)
	}

	fmt.Printf("Created collection %q (id=%s)\n", name, collection.Id)
	return collection
}

func float64Ptr(v float64) *float64 {
	return &v
}
