// Package export writes zone layouts to PDF, label sheets, Excel and DXF.
package export

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/google/uuid"
	"github.com/piwi3910/ZonePlanner/internal/model"
)

// ErrNoZones is returned when there is nothing to export.
var ErrNoZones = errors.New("no zones to export")

// zoneColor represents an RGB color for a zone.
type zoneColor struct {
	R, G, B int
}

// zoneColors mirrors the color scheme used by the zone canvas widget.
var zoneColors = []zoneColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

func colorFor(index int) zoneColor {
	return zoneColors[index%len(zoneColors)]
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF generates a PDF with a scaled zone map on the first page and a
// per-zone summary table on the second.
func ExportPDF(path string, zones []model.ZoneSummary, cfg model.AppConfig) error {
	if len(zones) == 0 {
		return ErrNoZones
	}

	docID := uuid.New().String()[:8]

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle("Zone Layout "+docID, false)

	pdf.AddPage()
	renderMapPage(pdf, zones, cfg.GridSize)

	pdf.AddPage()
	renderSummaryPage(pdf, zones, cfg, docID)

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write PDF: %w", err)
	}
	return nil
}

// layoutBounds returns the bounding box of every rectangle in every zone.
func layoutBounds(zones []model.ZoneSummary) model.Rect {
	var all []model.Rect
	for _, z := range zones {
		all = append(all, z.Bounds)
	}
	return model.Bounds(all)
}

// renderMapPage draws every zone, scaled to fit the page.
func renderMapPage(pdf *fpdf.Fpdf, zones []model.ZoneSummary, gridSize float64) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, "Zone Map", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Distinct Areas: %d | Total Squares: %d | Grid: %g", len(zones), model.TotalSquares(zones), gridSize)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	bounds := layoutBounds(zones)
	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/bounds.Width, drawHeight/bounds.Height)

	canvasW := bounds.Width * scale
	canvasH := bounds.Height * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(245, 245, 245)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	// Grid lines, skipped when they would be too dense to read.
	if gridSize > 0 && gridSize*scale >= 2 {
		pdf.SetDrawColor(220, 220, 220)
		pdf.SetLineWidth(0.1)
		for x := 0.0; x <= bounds.Width+1e-9; x += gridSize {
			pdf.Line(offsetX+x*scale, offsetY, offsetX+x*scale, offsetY+canvasH)
		}
		for y := 0.0; y <= bounds.Height+1e-9; y += gridSize {
			pdf.Line(offsetX, offsetY+y*scale, offsetX+canvasW, offsetY+y*scale)
		}
	}

	for _, z := range zones {
		col := colorFor(z.Index)
		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.SetLineWidth(0.2)
		for _, r := range z.Rects {
			pdf.Rect(offsetX+(r.X-bounds.X)*scale, offsetY+(r.Y-bounds.Y)*scale, r.Width*scale, r.Height*scale, "FD")
		}

		// Zone number at the center of its bounding box.
		zw, zh := z.Bounds.Width*scale, z.Bounds.Height*scale
		if zw > 6 && zh > 5 {
			label := fmt.Sprintf("%d", z.Index+1)
			pdf.SetFont("Helvetica", "B", labelFontSize(zw, zh))
			pdf.SetTextColor(0, 0, 0)
			c := z.Bounds.Center()
			w := pdf.GetStringWidth(label)
			pdf.SetXY(offsetX+(c.X-bounds.X)*scale-w/2, offsetY+(c.Y-bounds.Y)*scale-2)
			pdf.CellFormat(w, 4, label, "", 0, "C", false, 0, "")
		}
	}

	drawLegend(pdf, zones, offsetY+canvasH+5)
}

// drawLegend renders a compact color legend below the map.
func drawLegend(pdf *fpdf.Fpdf, zones []model.ZoneSummary, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(20, 4, "Zones:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 22
	maxX := pageWidth - marginRight

	for _, z := range zones {
		col := colorFor(z.Index)
		label := fmt.Sprintf("Zone %d (%d sq)", z.Index+1, z.Squares)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the per-zone breakdown table.
func renderSummaryPage(pdf *fpdf.Fpdf, zones []model.ZoneSummary, cfg model.AppConfig, docID string) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Zone Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	rects := 0
	for _, z := range zones {
		rects += len(z.Rects)
	}
	items := []struct {
		label string
		value string
	}{
		{"Distinct Areas", fmt.Sprintf("%d", len(zones))},
		{"Total Squares", fmt.Sprintf("%d", model.TotalSquares(zones))},
		{"Rectangles", fmt.Sprintf("%d", rects)},
		{"Grid Size", fmt.Sprintf("%g", cfg.GridSize)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	y += 5

	colWidths := []float64{20, 25, 30, 80, 40}
	headers := []string{"Zone", "Rects", "Squares", "Bounds", "Area"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, z := range zones {
		// Continue the table on a new page when the current one is full.
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		row := []string{
			fmt.Sprintf("%d", z.Index+1),
			fmt.Sprintf("%d", len(z.Rects)),
			fmt.Sprintf("%d", z.Squares),
			z.Bounds.String(),
			fmt.Sprintf("%.2f", z.Area),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	footer := fmt.Sprintf("Generated by ZonePlanner on %s - document %s", time.Now().Format("2006-01-02 15:04"), docID)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, footer, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 12
	case minDim > 20:
		return 9
	default:
		return 7
	}
}
