// Package report renders query results as PDF documents and keeps the
// most recent one around for Slack delivery.
package report

import (
	"fmt"
	"strings"

	"github.com/signintech/gopdf"

	"github.com/anandhaas/insight/engine"
)

// ============================================================================
// PDF BUILDER — chart data → one-page report
// ============================================================================
// The builder consumes the same chart-data contract the dashboard gets:
// a header band, the insights line, then a horizontal bar panel for the
// top groups. Missing font file means no PDF, which callers treat as a
// degraded query result, never a failed one.
// ============================================================================

const (
	pageWidth  = 595 // A4 portrait, points
	maxBars    = 10
	barLeft    = 60.0
	barWidth   = 420.0
	barHeight  = 18.0
	barSpacing = 34.0
)

// Bar palette, one color per rank, wrapping around.
var barColors = [][3]uint8{
	{79, 129, 189},
	{192, 80, 77},
	{155, 187, 89},
	{128, 100, 162},
	{75, 172, 198},
	{247, 150, 70},
}

// PDFBuilder renders chart data with a configured TTF font.
type PDFBuilder struct {
	fontPath string
}

// NewPDFBuilder creates a builder reading its font from fontPath.
func NewPDFBuilder(fontPath string) *PDFBuilder {
	return &PDFBuilder{fontPath: fontPath}
}

// Build renders one report page. Fails if the font cannot be loaded.
func (b *PDFBuilder) Build(chart *engine.ChartData, insights string) ([]byte, error) {
	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: *gopdf.PageSizeA4})
	if err := pdf.AddTTFFont("report", b.fontPath); err != nil {
		return nil, fmt.Errorf("load report font: %w", err)
	}
	pdf.AddPage()

	// Header band.
	pdf.SetFillColor(31, 73, 125)
	pdf.RectFromUpperLeftWithStyle(0, 0, pageWidth, 90, "F")
	pdf.SetTextColor(255, 255, 255)
	if err := pdf.SetFont("report", "", 22); err != nil {
		return nil, fmt.Errorf("set font: %w", err)
	}
	pdf.SetXY(40, 30)
	pdf.Cell(nil, chart.Title)
	pdf.SetFont("report", "", 11)
	pdf.SetXY(40, 62)
	pdf.Cell(nil, fmt.Sprintf("%s by %s", chart.YAxis, chart.XAxis))

	// Insights.
	pdf.SetTextColor(45, 52, 54)
	pdf.SetFont("report", "", 12)
	pdf.SetXY(40, 115)
	pdf.Cell(nil, insights)

	b.drawBars(&pdf, chart)

	return pdf.GetBytesPdf(), nil
}

// drawBars renders a horizontal bar panel for up to maxBars groups,
// scaled to the largest value.
func (b *PDFBuilder) drawBars(pdf *gopdf.GoPdf, chart *engine.ChartData) {
	data := chart.Data
	if len(data) > maxBars {
		data = data[:maxBars]
	}
	if len(data) == 0 {
		return
	}

	maxVal := 0.0
	for _, d := range data {
		if v := datumValue(d); v > maxVal {
			maxVal = v
		}
	}
	if maxVal <= 0 {
		maxVal = 1
	}

	y := 160.0
	pdf.SetFont("report", "", 10)
	for i, d := range data {
		c := barColors[i%len(barColors)]

		pdf.SetTextColor(45, 52, 54)
		pdf.SetXY(barLeft, y)
		pdf.Cell(nil, truncateLabel(d.Name, 48))

		w := barWidth * (datumValue(d) / maxVal)
		pdf.SetFillColor(c[0], c[1], c[2])
		pdf.RectFromUpperLeftWithStyle(barLeft, y+12, w, barHeight, "F")

		pdf.SetTextColor(90, 90, 90)
		pdf.SetXY(barLeft+w+6, y+14)
		pdf.Cell(nil, formatValue(datumValue(d)))

		y += barSpacing
	}
}

// datumValue picks the number a bar represents: the single value, or the
// primary metric for dual and monthly shapes.
func datumValue(d engine.Datum) float64 {
	switch d.Kind {
	case engine.Dual:
		return d.Metric1
	case engine.Monthly:
		var total float64
		for _, cell := range d.Months {
			total += cell.Value
		}
		return total
	default:
		return d.Value
	}
}

func formatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func truncateLabel(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return strings.TrimSpace(s[:maxLen]) + "..."
}
