package services

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
)

func TestGenerateDirectoryCSV_Basic(t *testing.T) {
	data := ProjectExportData{
		ProjectName: "测试项目",
		Rows: []DirectoryRow{
			{Tag: "E-1201", Name: "管壳式换热器", Specification: "DN800", MainMaterial: "Q345R", DesignWeight: 4200, BOMWeight: 4150.5, EstimatedCost: 226.6},
			{Tag: "V-1305", Name: "缓冲罐", DesignWeight: 0, BOMWeight: 890, EstimatedCost: 12345.678},
		},
	}

	result, err := GenerateDirectoryCSV(data)
	if err != nil {
		t.Fatalf("GenerateDirectoryCSV() error = %v", err)
	}

	if !bytes.HasPrefix(result, []byte("\xef\xbb\xbf")) {
		t.Error("output must start with a UTF-8 byte-order mark")
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(result, []byte("\xef\xbb\xbf"))))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d records", len(records))
	}

	header := records[0]
	wantHeader := []string{"位号", "名称", "规格", "主体材质", "图纸重量(kg)", "BOM重量(kg)", "预估造价(¥)"}
	if len(header) != len(wantHeader) {
		t.Fatalf("header has %d columns, want %d", len(header), len(wantHeader))
	}
	for i := range wantHeader {
		if header[i] != wantHeader[i] {
			t.Errorf("header[%d] = %q, want %q", i, header[i], wantHeader[i])
		}
	}

	first := records[1]
	if first[0] != "E-1201" || first[1] != "管壳式换热器" {
		t.Errorf("first row = %v", first)
	}
	if first[4] != "4200.00" {
		t.Errorf("design weight = %q, want 2 decimal places", first[4])
	}
	if first[5] != "4150.50" {
		t.Errorf("bom weight = %q, want 4150.50", first[5])
	}
	if first[6] != "226.60" {
		t.Errorf("cost = %q, want 226.60", first[6])
	}

	second := records[2]
	if second[4] != "0.00" {
		t.Errorf("zero weight = %q, want 0.00", second[4])
	}
	if second[6] != "12345.68" {
		t.Errorf("cost = %q, want rounded 12345.68", second[6])
	}
}

func TestGenerateDirectoryCSV_EmptyProject(t *testing.T) {
	result, err := GenerateDirectoryCSV(ProjectExportData{ProjectName: "空项目"})
	if err != nil {
		t.Fatalf("GenerateDirectoryCSV() error = %v", err)
	}

	body := strings.TrimPrefix(string(result), "\xef\xbb\xbf")
	lines := strings.Split(strings.TrimRight(body, "\n"), "\n")
	if len(lines) != 1 {
		t.Fatalf("empty project should export the header row only, got %d lines", len(lines))
	}
	if !strings.HasPrefix(lines[0], "位号,") {
		t.Errorf("header line = %q", lines[0])
	}
}

func TestGenerateDirectoryCSV_FieldWithComma(t *testing.T) {
	data := ProjectExportData{
		Rows: []DirectoryRow{
			{Tag: "E-1", Name: "换热器, 立式", Specification: "DN800"},
		},
	}

	result, err := GenerateDirectoryCSV(data)
	if err != nil {
		t.Fatalf("GenerateDirectoryCSV() error = %v", err)
	}

	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(result, []byte("\xef\xbb\xbf"))))
	records, err := r.ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if records[1][1] != "换热器, 立式" {
		t.Errorf("name = %q, comma must round-trip through quoting", records[1][1])
	}
}
