package services

// DirectoryRow is one equipment line in the project directory export.
type DirectoryRow struct {
	Tag           string
	Name          string
	Specification string
	MainMaterial  string
	DesignWeight  float64
	BOMWeight     float64
	EstimatedCost float64
	Status        string
	Discrepancy   bool
}

// MaterialRow is one BOM line in the detailed material export.
type MaterialRow struct {
	EquipmentTag string
	Name         string
	Material     string
	Spec         string
	Weight       float64
	Quantity     float64
	UnitPrice    float64
	LineTotal    float64
	Category     string
}

// ProjectExportData holds all data needed for the CSV, Excel and PDF
// exports of one project.
type ProjectExportData struct {
	ProjectName     string
	LaborCostPerKg  float64
	OverheadPercent float64
	GeneratedDate   string
	Rows            []DirectoryRow
	Materials       []MaterialRow
	ProjectTotal    float64
}

// BuildDirectoryRow computes the directory line for one equipment from its
// materials and the project's pricing parameters.
func BuildDirectoryRow(eq ConsolidatedEquipment, laborCostPerKg, overheadPercent float64) DirectoryRow {
	rollup := CalcEquipmentRollup(MaterialsForRollup(eq.Materials), laborCostPerKg, overheadPercent)
	return DirectoryRow{
		Tag:           eq.Tag,
		Name:          eq.Name,
		Specification: eq.Specification,
		MainMaterial:  eq.MainMaterial,
		DesignWeight:  eq.DesignWeight,
		BOMWeight:     rollup.TotalWeight,
		EstimatedCost: rollup.GrandTotal,
		Status:        eq.Status,
		Discrepancy:   HasWeightDiscrepancy(eq.DesignWeight, rollup.TotalWeight),
	}
}

// MaterialsForRollup converts BOM lines into the shape the rollup engine
// consumes.
func MaterialsForRollup(lines []RawMaterial) []MaterialForRollup {
	out := make([]MaterialForRollup, len(lines))
	for i, m := range lines {
		out[i] = MaterialForRollup{
			Weight:    m.Weight,
			Quantity:  m.Quantity,
			UnitPrice: m.UnitPrice,
			Category:  m.Category,
		}
	}
	return out
}

// BuildMaterialRows flattens one equipment's BOM lines into export rows with
// recomputed line totals. Stored totals are never trusted.
func BuildMaterialRows(eq ConsolidatedEquipment) []MaterialRow {
	rows := make([]MaterialRow, 0, len(eq.Materials))
	for _, m := range eq.Materials {
		rows = append(rows, MaterialRow{
			EquipmentTag: eq.Tag,
			Name:         m.Name,
			Material:     m.Material,
			Spec:         m.Specification,
			Weight:       m.Weight,
			Quantity:     m.Quantity,
			UnitPrice:    m.UnitPrice,
			LineTotal:    CalcLineTotal(m.Weight, m.Quantity, m.UnitPrice),
			Category:     m.Category,
		})
	}
	return rows
}
