package services

import (
	"math"
	"strings"

	"github.com/spf13/cast"
)

// Material categories. Anything unrecognized maps to CategoryOther.
const (
	CategoryPlate      = "plate"
	CategoryForging    = "forging"
	CategoryPipe       = "pipe"
	CategoryConsumable = "consumable"
	CategoryOther      = "other"
)

// PlaceholderName is used when the extraction returns an equipment with no
// readable name.
const PlaceholderName = "未命名设备"

// EquipmentStatus values reflect extraction progress, not a domain fact.
// Transitions are strictly forward except "error", which is terminal for one
// extraction attempt but does not block a retry.
const (
	StatusIdentified = "identified"
	StatusExtracting = "extracting"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// RawMaterial is one BOM line as decoded from an extraction response.
type RawMaterial struct {
	Name          string
	Material      string
	Specification string
	Weight        float64
	Quantity      float64
	UnitPrice     float64
	Category      string
}

// RawEquipment is one equipment candidate as decoded from an extraction
// response, tagged with the uploaded file it came from.
type RawEquipment struct {
	Tag           string
	Name          string
	Specification string
	MainMaterial  string
	DesignWeight  float64
	PageRange     string
	SourceFileID  string
	Materials     []RawMaterial
	// Failed marks a candidate whose detail extraction call failed after a
	// successful structure scan. The record is kept so the user can fill the
	// gap manually.
	Failed bool
}

// ParseCategory normalizes a category string to one of the closed set,
// defaulting to CategoryOther.
func ParseCategory(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case CategoryPlate:
		return CategoryPlate
	case CategoryForging:
		return CategoryForging
	case CategoryPipe:
		return CategoryPipe
	case CategoryConsumable:
		return CategoryConsumable
	default:
		return CategoryOther
	}
}

// IsUnresolvedTag reports whether a tag value is absent or a placeholder
// sentinel. Unresolved tags never act as a shared identity across source
// files during consolidation.
func IsUnresolvedTag(tag string) bool {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "unknown", "n/a", "未知", "-":
		return true
	}
	return false
}

// CoerceNonNegative converts an arbitrary decoded JSON value to a
// non-negative finite float64. Unparseable, negative or non-finite input
// yields 0 so downstream arithmetic stays meaningful.
func CoerceNonNegative(v any) float64 {
	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

// MaterialFromMap decodes one material line from an extraction response
// object. Missing fields default rather than fail: numeric fields to 0,
// category to CategoryOther.
func MaterialFromMap(m map[string]any) RawMaterial {
	return RawMaterial{
		Name:          strings.TrimSpace(cast.ToString(m["name"])),
		Material:      strings.TrimSpace(cast.ToString(m["material"])),
		Specification: strings.TrimSpace(cast.ToString(m["specification"])),
		Weight:        CoerceNonNegative(m["weight"]),
		Quantity:      CoerceNonNegative(m["quantity"]),
		UnitPrice:     CoerceNonNegative(m["unitPrice"]),
		Category:      ParseCategory(cast.ToString(m["category"])),
	}
}

// EquipmentFromScan decodes one equipment candidate from a structure-scan
// response object. Construction is best-effort: the upstream model is asked
// for a schema but the output is not schema-guaranteed.
func EquipmentFromScan(m map[string]any, sourceFileID string) RawEquipment {
	name := strings.TrimSpace(cast.ToString(m["name"]))
	if name == "" {
		name = PlaceholderName
	}
	return RawEquipment{
		Tag:          strings.TrimSpace(cast.ToString(m["tag"])),
		Name:         name,
		PageRange:    strings.TrimSpace(cast.ToString(m["pageRange"])),
		SourceFileID: sourceFileID,
	}
}

// ApplyDetail merges a detail-extraction response object into an equipment
// candidate produced by EquipmentFromScan.
func ApplyDetail(eq *RawEquipment, m map[string]any) {
	eq.Specification = strings.TrimSpace(cast.ToString(m["specification"]))
	eq.MainMaterial = strings.TrimSpace(cast.ToString(m["mainMaterial"]))
	eq.DesignWeight = CoerceNonNegative(m["designWeight"])

	items, ok := m["materials"].([]any)
	if !ok {
		return
	}
	for _, it := range items {
		obj, ok := it.(map[string]any)
		if !ok {
			continue
		}
		eq.Materials = append(eq.Materials, MaterialFromMap(obj))
	}
}
