// Package services provides the cost calculation, consolidation and
// export functions for equipment bills of materials.
package services

import "math"

// WeightDiscrepancyThreshold is the relative deviation between the drawing's
// declared design weight and the BOM-derived weight above which an equipment
// is flagged for review.
const WeightDiscrepancyThreshold = 0.10

// MaterialForRollup carries the fields of one material line that enter the
// cost arithmetic.
type MaterialForRollup struct {
	Weight    float64
	Quantity  float64
	UnitPrice float64
	Category  string
}

// EquipmentRollup is the computed cost breakdown for one equipment.
type EquipmentRollup struct {
	TotalWeight  float64
	MaterialCost float64
	LaborCost    float64
	OverheadCost float64
	GrandTotal   float64
}

func CalcLineTotal(weight, quantity, unitPrice float64) float64 {
	return weight * quantity * unitPrice
}

// CalcEquipmentRollup computes the full cost breakdown for one equipment.
// laborCostPerKg is applied to the BOM weight; overheadPercent is applied to
// the material+labor subtotal.
func CalcEquipmentRollup(materials []MaterialForRollup, laborCostPerKg, overheadPercent float64) EquipmentRollup {
	var r EquipmentRollup
	for _, m := range materials {
		r.TotalWeight += m.Weight * m.Quantity
		r.MaterialCost += m.Weight * m.Quantity * m.UnitPrice
	}
	r.LaborCost = r.TotalWeight * laborCostPerKg
	r.OverheadCost = (r.MaterialCost + r.LaborCost) * (overheadPercent / 100)
	r.GrandTotal = r.MaterialCost + r.LaborCost + r.OverheadCost
	return r
}

// CalcProjectTotal sums per-equipment grand totals. Each equipment's rollup
// is independent and additive; the project total is never recomputed from a
// flattened material list.
func CalcProjectTotal(rollups []EquipmentRollup) float64 {
	var total float64
	for _, r := range rollups {
		total += r.GrandTotal
	}
	return total
}

// HasWeightDiscrepancy reports whether the BOM-derived weight deviates from
// the declared design weight by more than the review threshold. Advisory
// only; a zero on either side never triggers the flag.
func HasWeightDiscrepancy(designWeight, bomWeight float64) bool {
	if designWeight <= 0 || bomWeight <= 0 {
		return false
	}
	return math.Abs(designWeight-bomWeight)/designWeight > WeightDiscrepancyThreshold
}

// CalcCategoryBreakdown groups material cost by category label. Unknown or
// empty categories fall under CategoryOther.
func CalcCategoryBreakdown(materials []MaterialForRollup) map[string]float64 {
	breakdown := make(map[string]float64)
	for _, m := range materials {
		cat := ParseCategory(m.Category)
		breakdown[cat] += m.Weight * m.Quantity * m.UnitPrice
	}
	return breakdown
}
