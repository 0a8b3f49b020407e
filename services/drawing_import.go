package services

import (
	"context"
	"fmt"
	"log"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"vesselcost/vision"
)

// ImportResult summarizes one drawing import batch.
type ImportResult struct {
	FilesProcessed int      `json:"files_processed"`
	EquipmentCount int      `json:"equipment_count"`
	ErrorCount     int      `json:"error_count"`
	FileErrors     []string `json:"file_errors,omitempty"`
}

// ImportDrawings runs the two-phase extraction over a batch of uploaded
// drawings and merges the results into the project ledger.
//
// Processing is strictly sequential: one file at a time, one equipment
// detail extraction at a time. A failed scan skips that file only; a failed
// detail extraction keeps the identified record with empty materials and an
// error status. No failure aborts the batch, and partial results persist
// even when a later item fails.
func ImportDrawings(ctx context.Context, app *pocketbase.PocketBase, client vision.Client, projectID string, docs []vision.Document) (*ImportResult, error) {
	if _, err := app.FindRecordById("projects", projectID); err != nil {
		return nil, fmt.Errorf("project not found: %w", err)
	}

	result := &ImportResult{}
	var raws []RawEquipment

	for _, doc := range docs {
		items, err := client.ScanStructure(ctx, doc)
		if err != nil {
			log.Printf("drawing_import: scan failed for %s: %v", doc.FileName, err)
			result.FileErrors = append(result.FileErrors,
				fmt.Sprintf("%s: 结构识别失败", doc.FileName))
			continue
		}
		result.FilesProcessed++

		for _, item := range items {
			raw := EquipmentFromScan(item, doc.SourceFileID)

			detail, err := client.ExtractDetails(ctx, doc, raw.Tag, raw.PageRange)
			if err != nil {
				log.Printf("drawing_import: detail extraction failed for %q in %s: %v",
					raw.Tag, doc.FileName, err)
				raw.Failed = true
			} else {
				ApplyDetail(&raw, detail)
			}
			raws = append(raws, raw)
		}
	}

	consolidated := Consolidate(raws)
	for _, rec := range consolidated {
		if err := mergeIntoLedger(app, projectID, rec); err != nil {
			return result, fmt.Errorf("persist equipment %q: %w", rec.Tag, err)
		}
		result.EquipmentCount++
		if rec.Status == StatusError {
			result.ErrorCount++
		}
	}

	return result, nil
}

// mergeIntoLedger merges one consolidated record into the stored project
// ledger. Records with a resolved tag merge into an existing equipment with
// the same tag (exact, case-sensitive) using the same rules as in-batch
// consolidation; unresolved-tag records always create a new equipment.
func mergeIntoLedger(app *pocketbase.PocketBase, projectID string, rec *ConsolidatedEquipment) error {
	var existing *core.Record
	if !rec.TagUnresolved {
		records, err := app.FindRecordsByFilter("equipments",
			"project = {:projectId} && tag = {:tag}", "", 1, 0,
			map[string]any{"projectId": projectID, "tag": rec.Tag},
		)
		if err == nil && len(records) > 0 {
			existing = records[0]
		}
	}

	if existing == nil {
		return createEquipment(app, projectID, rec)
	}

	if existing.GetString("specification") == "" && rec.Specification != "" {
		existing.Set("specification", rec.Specification)
	}
	if existing.GetString("main_material") == "" && rec.MainMaterial != "" {
		existing.Set("main_material", rec.MainMaterial)
	}
	if existing.GetFloat("design_weight") == 0 && rec.DesignWeight > 0 {
		existing.Set("design_weight", rec.DesignWeight)
	}

	var drawings []string
	if err := existing.UnmarshalJSONField("drawings", &drawings); err != nil {
		drawings = nil
	}
	for _, ref := range rec.Drawings {
		drawings = appendUnique(drawings, ref)
	}
	existing.Set("drawings", drawings)

	if existing.GetString("status") == StatusError && rec.Status == StatusComplete {
		existing.Set("status", StatusComplete)
	}

	if err := app.Save(existing); err != nil {
		return fmt.Errorf("update equipment: %w", err)
	}
	return appendMaterials(app, existing.Id, rec.Materials)
}

func createEquipment(app *pocketbase.PocketBase, projectID string, rec *ConsolidatedEquipment) error {
	col, err := app.FindCollectionByNameOrId("equipments")
	if err != nil {
		return fmt.Errorf("equipments collection: %w", err)
	}

	count, err := countEquipments(app, projectID)
	if err != nil {
		count = 0
	}

	record := core.NewRecord(col)
	record.Set("project", projectID)
	record.Set("tag", rec.Tag)
	record.Set("tag_unresolved", rec.TagUnresolved)
	record.Set("name", rec.Name)
	record.Set("specification", rec.Specification)
	record.Set("main_material", rec.MainMaterial)
	record.Set("design_weight", rec.DesignWeight)
	record.Set("page_range", rec.PageRange)
	record.Set("source_file_id", rec.SourceFileID)
	record.Set("status", rec.Status)
	record.Set("drawings", rec.Drawings)
	record.Set("sort_order", count+1)

	if err := app.Save(record); err != nil {
		return fmt.Errorf("create equipment: %w", err)
	}
	return appendMaterials(app, record.Id, rec.Materials)
}

// appendMaterials persists BOM lines after the existing ones, preserving
// extraction order.
func appendMaterials(app *pocketbase.PocketBase, equipmentID string, materials []RawMaterial) error {
	if len(materials) == 0 {
		return nil
	}

	col, err := app.FindCollectionByNameOrId("materials")
	if err != nil {
		return fmt.Errorf("materials collection: %w", err)
	}

	existing, err := app.FindRecordsByFilter(col,
		"equipment = {:equipmentId}", "-sort_order", 1, 0,
		map[string]any{"equipmentId": equipmentID},
	)
	next := 1
	if err == nil && len(existing) > 0 {
		next = int(existing[0].GetFloat("sort_order")) + 1
	}

	for i, m := range materials {
		record := core.NewRecord(col)
		record.Set("equipment", equipmentID)
		record.Set("sort_order", next+i)
		record.Set("name", m.Name)
		record.Set("material", m.Material)
		record.Set("specification", m.Specification)
		record.Set("weight", m.Weight)
		record.Set("quantity", m.Quantity)
		record.Set("unit_price", m.UnitPrice)
		record.Set("category", m.Category)
		if err := app.Save(record); err != nil {
			return fmt.Errorf("create material line: %w", err)
		}
	}
	return nil
}

func countEquipments(app *pocketbase.PocketBase, projectID string) (int, error) {
	records, err := app.FindRecordsByFilter("equipments",
		"project = {:projectId}", "", 0, 0,
		map[string]any{"projectId": projectID},
	)
	if err != nil {
		return 0, err
	}
	return len(records), nil
}

func appendUnique(refs []string, ref string) []string {
	if ref == "" {
		return refs
	}
	for _, r := range refs {
		if r == ref {
			return refs
		}
	}
	return append(refs, ref)
}
