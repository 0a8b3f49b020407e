package services

import (
	"testing"
)

func TestGeneratePDF_BasicProject(t *testing.T) {
	data := ProjectExportData{
		ProjectName:     "Ethylene Exchanger Train",
		LaborCostPerKg:  8,
		OverheadPercent: 15,
		GeneratedDate:   "2026-01-15",
		Rows: []DirectoryRow{
			{Tag: "E-1201", Name: "Shell and tube exchanger", DesignWeight: 4200, BOMWeight: 4150, EstimatedCost: 98000},
			{Tag: "V-1305", Name: "Buffer drum", DesignWeight: 900, BOMWeight: 1100, EstimatedCost: 30000, Discrepancy: true},
		},
		ProjectTotal: 128000,
	}

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_EmptyProject(t *testing.T) {
	data := ProjectExportData{
		ProjectName:   "Empty Project",
		GeneratedDate: "2026-01-15",
	}

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
	if string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_ManyRows(t *testing.T) {
	data := ProjectExportData{
		ProjectName:   "Large Project",
		GeneratedDate: "2026-01-15",
	}
	for i := 0; i < 80; i++ {
		data.Rows = append(data.Rows, DirectoryRow{
			Tag:           "E-1000",
			Name:          "Exchanger",
			DesignWeight:  100,
			BOMWeight:     100,
			EstimatedCost: 5000,
		})
	}

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	// 80 rows do not fit one landscape A4 page
	if len(result) < 2000 {
		t.Errorf("suspiciously small PDF output: %d bytes", len(result))
	}
}
