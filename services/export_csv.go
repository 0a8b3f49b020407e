package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// directoryHeaders are the equipment directory CSV columns, in order.
var directoryHeaders = []string{
	"位号", "名称", "规格", "主体材质", "图纸重量(kg)", "BOM重量(kg)", "预估造价(¥)",
}

// GenerateDirectoryCSV renders the equipment directory as CSV. The output
// starts with a UTF-8 byte-order mark so spreadsheet applications detect the
// encoding; weight and cost columns use 2 decimal places. An empty project
// exports the header row only.
func GenerateDirectoryCSV(data ProjectExportData) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("\uFEFF")

	w := csv.NewWriter(&buf)
	if err := w.Write(directoryHeaders); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range data.Rows {
		record := []string{
			r.Tag,
			r.Name,
			r.Specification,
			r.MainMaterial,
			fmt.Sprintf("%.2f", r.DesignWeight),
			fmt.Sprintf("%.2f", r.BOMWeight),
			fmt.Sprintf("%.2f", r.EstimatedCost),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write csv row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
