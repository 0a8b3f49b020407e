package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// GenerateExcel creates an Excel workbook for one project: an equipment
// directory sheet and a material detail sheet. Returns the file contents as
// a byte slice.
func GenerateExcel(data ProjectExportData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	dirSheet := "设备目录"
	defaultSheet := f.GetSheetName(0)
	if err := f.SetSheetName(defaultSheet, dirSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	matSheet := "材料明细"
	if _, err := f.NewSheet(matSheet); err != nil {
		return nil, fmt.Errorf("create material sheet: %w", err)
	}

	// ── Styles ──────────────────────────────────────────────────────────

	titleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}

	subtitleStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create subtitle style: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	bodyStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create body style: %w", err)
	}

	flaggedStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Size: 10, Color: "#DC2626"},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create flagged style: %w", err)
	}

	summaryLabelStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "right"},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary label style: %w", err)
	}

	summaryValueStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
	})
	if err != nil {
		return nil, fmt.Errorf("create summary value style: %w", err)
	}

	// ── Directory sheet ─────────────────────────────────────────────────

	dirCols := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	dirLast := dirCols[len(dirCols)-1]
	dirWidths := []float64{14, 28, 24, 16, 14, 14, 16, 12}
	for i, col := range dirCols {
		if err := f.SetColWidth(dirSheet, col, col, dirWidths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	if err := f.MergeCell(dirSheet, "A1", dirLast+"1"); err != nil {
		return nil, fmt.Errorf("merge title: %w", err)
	}
	f.SetCellValue(dirSheet, "A1", sanitizeExcelCell(data.ProjectName))
	f.SetCellStyle(dirSheet, "A1", dirLast+"1", titleStyle)

	if err := f.MergeCell(dirSheet, "A2", dirLast+"2"); err != nil {
		return nil, fmt.Errorf("merge date: %w", err)
	}
	f.SetCellValue(dirSheet, "A2", "导出日期: "+data.GeneratedDate)
	f.SetCellStyle(dirSheet, "A2", dirLast+"2", subtitleStyle)

	dirHeaders := []string{"位号", "名称", "规格", "主体材质", "图纸重量(kg)", "BOM重量(kg)", "预估造价", "重量校核"}
	for i, h := range dirHeaders {
		f.SetCellValue(dirSheet, fmt.Sprintf("%s4", dirCols[i]), h)
	}
	f.SetCellStyle(dirSheet, "A4", dirLast+"4", headerStyle)

	row := 5
	for _, r := range data.Rows {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(dirSheet, "A"+rowStr, sanitizeExcelCell(r.Tag))
		f.SetCellValue(dirSheet, "B"+rowStr, sanitizeExcelCell(r.Name))
		f.SetCellValue(dirSheet, "C"+rowStr, sanitizeExcelCell(r.Specification))
		f.SetCellValue(dirSheet, "D"+rowStr, sanitizeExcelCell(r.MainMaterial))
		f.SetCellValue(dirSheet, "E"+rowStr, r.DesignWeight)
		f.SetCellValue(dirSheet, "F"+rowStr, r.BOMWeight)
		f.SetCellValue(dirSheet, "G"+rowStr, FormatCNY(r.EstimatedCost))
		check := "通过"
		style := bodyStyle
		if r.Discrepancy {
			check = "偏差>10%"
			style = flaggedStyle
		}
		f.SetCellValue(dirSheet, "H"+rowStr, check)
		f.SetCellStyle(dirSheet, "A"+rowStr, dirLast+rowStr, style)
		row++
	}

	row++
	summaryRow := fmt.Sprintf("%d", row)
	f.SetCellValue(dirSheet, "F"+summaryRow, "项目总造价:")
	f.SetCellStyle(dirSheet, "F"+summaryRow, "F"+summaryRow, summaryLabelStyle)
	f.SetCellValue(dirSheet, "G"+summaryRow, FormatCNY(data.ProjectTotal))
	f.SetCellStyle(dirSheet, "G"+summaryRow, "G"+summaryRow, summaryValueStyle)

	// ── Material detail sheet ───────────────────────────────────────────

	matCols := []string{"A", "B", "C", "D", "E", "F", "G", "H", "I"}
	matLast := matCols[len(matCols)-1]
	matWidths := []float64{14, 28, 18, 20, 12, 10, 14, 16, 12}
	for i, col := range matCols {
		if err := f.SetColWidth(matSheet, col, col, matWidths[i]); err != nil {
			return nil, fmt.Errorf("set col width %s: %w", col, err)
		}
	}

	matHeaders := []string{"位号", "零件名称", "材质", "规格", "单重(kg)", "数量", "单价(¥/kg)", "小计", "类别"}
	for i, h := range matHeaders {
		f.SetCellValue(matSheet, fmt.Sprintf("%s1", matCols[i]), h)
	}
	f.SetCellStyle(matSheet, "A1", matLast+"1", headerStyle)

	row = 2
	for _, m := range data.Materials {
		rowStr := fmt.Sprintf("%d", row)
		f.SetCellValue(matSheet, "A"+rowStr, sanitizeExcelCell(m.EquipmentTag))
		f.SetCellValue(matSheet, "B"+rowStr, sanitizeExcelCell(m.Name))
		f.SetCellValue(matSheet, "C"+rowStr, sanitizeExcelCell(m.Material))
		f.SetCellValue(matSheet, "D"+rowStr, sanitizeExcelCell(m.Spec))
		f.SetCellValue(matSheet, "E"+rowStr, m.Weight)
		f.SetCellValue(matSheet, "F"+rowStr, m.Quantity)
		f.SetCellValue(matSheet, "G"+rowStr, m.UnitPrice)
		f.SetCellValue(matSheet, "H"+rowStr, FormatCNY(m.LineTotal))
		f.SetCellValue(matSheet, "I"+rowStr, CategoryLabel(m.Category))
		f.SetCellStyle(matSheet, "A"+rowStr, matLast+rowStr, bodyStyle)
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

// thinBorders returns a full thin border set for cell styles.
func thinBorders() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "#CCCCCC", Style: 1},
		{Type: "right", Color: "#CCCCCC", Style: 1},
		{Type: "top", Color: "#CCCCCC", Style: 1},
		{Type: "bottom", Color: "#CCCCCC", Style: 1},
	}
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote. Excel interprets cells starting with =, +,
// -, @, \t or \r as formulas.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// CategoryLabel returns the display label for a material category.
func CategoryLabel(category string) string {
	switch ParseCategory(category) {
	case CategoryPlate:
		return "板材"
	case CategoryForging:
		return "锻件"
	case CategoryPipe:
		return "管材"
	case CategoryConsumable:
		return "耗材"
	default:
		return "其他"
	}
}
