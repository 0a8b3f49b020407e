package services

import (
	"encoding/json"
	"fmt"
	"time"
)

// SnapshotSchemaVersion identifies the persisted project JSON layout.
const SnapshotSchemaVersion = 1

// MaterialSnapshot is one BOM line in the persisted project form.
type MaterialSnapshot struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Material      string  `json:"material"`
	Specification string  `json:"specification,omitempty"`
	Weight        float64 `json:"weight"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unitPrice"`
	Category      string  `json:"category"`
}

// EquipmentSnapshot is one equipment record in the persisted project form.
// Binary drawing payloads are excluded to bound storage size; only the
// source-reference names survive, and even those are dropped on reload.
type EquipmentSnapshot struct {
	ID            string             `json:"id"`
	Tag           string             `json:"tag"`
	TagUnresolved bool               `json:"tagUnresolved,omitempty"`
	Name          string             `json:"name"`
	Specification string             `json:"specification,omitempty"`
	MainMaterial  string             `json:"mainMaterial,omitempty"`
	DesignWeight  float64            `json:"designWeight,omitempty"`
	PageRange     string             `json:"pageRange,omitempty"`
	SourceFileID  string             `json:"sourceFileId,omitempty"`
	Status        string             `json:"status"`
	Materials     []MaterialSnapshot `json:"materials"`
	LastModified  string             `json:"lastModified,omitempty"`
}

// ProjectSnapshot is the full persisted/exported project state.
type ProjectSnapshot struct {
	SchemaVersion   int                 `json:"schemaVersion"`
	ID              string              `json:"id"`
	Name            string              `json:"name"`
	Equipments      []EquipmentSnapshot `json:"equipments"`
	LaborCostPerKg  float64             `json:"laborCostPerKg"`
	OverheadPercent float64             `json:"overheadPercent"`
	LastSaved       string              `json:"lastSaved"`
}

// MarshalProjectSnapshot serializes a snapshot as indented JSON and stamps
// LastSaved.
func MarshalProjectSnapshot(snap ProjectSnapshot) ([]byte, error) {
	snap.SchemaVersion = SnapshotSchemaVersion
	if snap.LastSaved == "" {
		snap.LastSaved = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal project snapshot: %w", err)
	}
	return data, nil
}

// UnmarshalProjectSnapshot parses a persisted project and normalizes it:
// numeric fields are clamped non-negative, categories fall back to
// CategoryOther, statuses fall back to complete, and equipment drawings
// start empty since payloads are never persisted.
func UnmarshalProjectSnapshot(data []byte) (ProjectSnapshot, error) {
	var snap ProjectSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return ProjectSnapshot{}, fmt.Errorf("parse project snapshot: %w", err)
	}

	snap.LaborCostPerKg = CoerceNonNegative(snap.LaborCostPerKg)
	snap.OverheadPercent = clampPercent(snap.OverheadPercent)

	for i := range snap.Equipments {
		eq := &snap.Equipments[i]
		if eq.Name == "" {
			eq.Name = PlaceholderName
		}
		eq.DesignWeight = CoerceNonNegative(eq.DesignWeight)
		switch eq.Status {
		case StatusIdentified, StatusExtracting, StatusComplete, StatusError:
		default:
			eq.Status = StatusComplete
		}
		for j := range eq.Materials {
			m := &eq.Materials[j]
			m.Weight = CoerceNonNegative(m.Weight)
			m.Quantity = CoerceNonNegative(m.Quantity)
			m.UnitPrice = CoerceNonNegative(m.UnitPrice)
			m.Category = ParseCategory(m.Category)
		}
	}
	return snap, nil
}

func clampPercent(v float64) float64 {
	v = CoerceNonNegative(v)
	if v > 100 {
		return 100
	}
	return v
}
