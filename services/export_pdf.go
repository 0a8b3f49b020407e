package services

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// GeneratePDF creates a cost summary PDF for one project using maroto/v2.
// The built-in PDF fonts carry no CJK glyphs, so the summary uses Latin
// labels and transliterates nothing from the record data beyond what the
// font can render.
func GeneratePDF(data ProjectExportData) ([]byte, error) {
	cfg := config.NewBuilder().
		WithOrientation(orientation.Horizontal).
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).
		WithTopMargin(10).
		WithRightMargin(10).
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, data)
	addTableHeader(m)
	for _, r := range data.Rows {
		addTableRow(m, r)
	}
	addSummary(m, data)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, data ProjectExportData) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New(data.ProjectName, props.Text{
					Size:  16,
					Style: fontstyle.Bold,
					Align: align.Center,
				}),
			),
		),
	)

	m.AddRows(
		row.New(8).Add(
			col.New(6).Add(
				text.New(fmt.Sprintf("Labor: %s/kg   Overhead: %.1f%%",
					FormatCNY(data.LaborCostPerKg), data.OverheadPercent), props.Text{
					Size:  9,
					Align: align.Left,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
			col.New(6).Add(
				text.New(fmt.Sprintf("Date: %s", data.GeneratedDate), props.Text{
					Size:  9,
					Align: align.Right,
					Color: &props.Color{Red: 80, Green: 80, Blue: 80},
				}),
			),
		),
	)

	m.AddRows(row.New(4))
}

func addTableHeader(m core.Maroto) {
	headerBg := &props.Color{Red: 33, Green: 37, Blue: 41}
	headerText := props.Text{
		Size:  8,
		Style: fontstyle.Bold,
		Align: align.Center,
		Color: &props.Color{Red: 255, Green: 255, Blue: 255},
	}
	headerTextLeft := headerText
	headerTextLeft.Align = align.Left

	headerCell := props.Cell{BackgroundColor: headerBg}

	m.AddRows(
		row.New(8).Add(
			col.New(2).Add(
				text.New("Tag", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(3).Add(
				text.New("Equipment", headerTextLeft),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Design Wt (kg)", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("BOM Wt (kg)", headerText),
			).WithStyle(&headerCell),
			col.New(2).Add(
				text.New("Estimated Cost", headerText),
			).WithStyle(&headerCell),
			col.New(1).Add(
				text.New("Check", headerText),
			).WithStyle(&headerCell),
		),
	)
}

func addTableRow(m core.Maroto, r DirectoryRow) {
	baseText := props.Text{
		Size:  8,
		Align: align.Center,
	}
	leftText := baseText
	leftText.Align = align.Left
	rightText := baseText
	rightText.Align = align.Right

	check := "OK"
	checkText := baseText
	if r.Discrepancy {
		check = ">10%"
		checkText.Color = &props.Color{Red: 220, Green: 38, Blue: 38}
		checkText.Style = fontstyle.Bold
	}

	m.AddRows(
		row.New(7).Add(
			col.New(2).Add(text.New(r.Tag, leftText)),
			col.New(3).Add(text.New(r.Name, leftText)),
			col.New(2).Add(text.New(FormatWeight(r.DesignWeight), rightText)),
			col.New(2).Add(text.New(FormatWeight(r.BOMWeight), rightText)),
			col.New(2).Add(text.New(FormatCNY(r.EstimatedCost), rightText)),
			col.New(1).Add(text.New(check, checkText)),
		),
	)
}

func addSummary(m core.Maroto, data ProjectExportData) {
	m.AddRows(row.New(6))

	summaryBg := &props.Color{Red: 240, Green: 240, Blue: 240}
	summaryCell := &props.Cell{BackgroundColor: summaryBg}

	labelStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}
	valueStyle := props.Text{
		Size:  9,
		Style: fontstyle.Bold,
		Align: align.Right,
	}

	m.AddRows(
		row.New(8).Add(
			col.New(9).Add(
				text.New("Project Total:", labelStyle),
			).WithStyle(summaryCell),
			col.New(3).Add(
				text.New(FormatCNY(data.ProjectTotal), valueStyle),
			).WithStyle(summaryCell),
		),
	)
}
