package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/ZonePlanner/internal/model"
	qrcode "github.com/skip2/go-qrcode"
)

// LabelInfo holds the data encoded into each zone placard's QR code.
type LabelInfo struct {
	Zone    int        `json:"zone"`
	Rects   int        `json:"rects"`
	Squares int        `json:"squares"`
	Bounds  model.Rect `json:"bounds"`
}

// Label layout constants for Avery 5160-compatible labels (3 columns, 10 rows per page).
const (
	labelMarginTop  = 12.7 // mm
	labelMarginLeft = 4.8  // mm
	labelWidth      = 66.7 // mm per label
	labelHeight     = 25.4 // mm per label
	labelCols       = 3
	labelRows       = 10
	labelsPerPage   = labelCols * labelRows
	qrSize          = 20.0 // QR code size in mm
	labelPadding    = 2.0  // mm internal padding
)

// CollectLabelInfos builds one label per zone.
func CollectLabelInfos(zones []model.ZoneSummary) []LabelInfo {
	labels := make([]LabelInfo, 0, len(zones))
	for _, z := range zones {
		labels = append(labels, LabelInfo{
			Zone:    z.Index + 1,
			Rects:   len(z.Rects),
			Squares: z.Squares,
			Bounds:  z.Bounds,
		})
	}
	return labels
}

// ExportZoneLabels generates a PDF label sheet with one QR-coded placard per
// zone, laid out 3 x 10 on US Letter.
func ExportZoneLabels(path string, zones []model.ZoneSummary) error {
	if len(zones) == 0 {
		return ErrNoZones
	}

	pdf := fpdf.New("P", "mm", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)

	for i, label := range CollectLabelInfos(zones) {
		if i%labelsPerPage == 0 {
			pdf.AddPage()
		}

		pos := i % labelsPerPage
		x := labelMarginLeft + float64(pos%labelCols)*labelWidth
		y := labelMarginTop + float64(pos/labelCols)*labelHeight

		if err := renderLabel(pdf, x, y, label); err != nil {
			return fmt.Errorf("failed to render label for zone %d: %w", label.Zone, err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("failed to write labels: %w", err)
	}
	return nil
}

// renderLabel draws a single label at the given position.
func renderLabel(pdf *fpdf.Fpdf, x, y float64, info LabelInfo) error {
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, labelWidth, labelHeight, "D")

	payload, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal label info: %w", err)
	}
	png, err := qrcode.Encode(string(payload), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}

	imgName := fmt.Sprintf("qr_zone_%d", info.Zone)
	opts := fpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(imgName, opts, bytes.NewReader(png))
	pdf.ImageOptions(imgName, x+labelWidth-qrSize-labelPadding, y+(labelHeight-qrSize)/2, qrSize, qrSize, false, opts, 0, "")

	textX := x + labelPadding
	textW := labelWidth - qrSize - 3*labelPadding

	// Color swatch next to the zone number ties the label to the map.
	col := colorFor(info.Zone - 1)
	pdf.SetFillColor(col.R, col.G, col.B)
	pdf.Rect(textX, y+labelPadding+0.5, 3.5, 3.5, "F")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(textX+5, y+labelPadding)
	pdf.CellFormat(textW-5, 4.5, fmt.Sprintf("Zone %d", info.Zone), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	pdf.SetXY(textX, y+labelPadding+6)
	pdf.CellFormat(textW, 3.5, fmt.Sprintf("%d squares in %d rects", info.Squares, info.Rects), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(textX, y+labelPadding+10)
	b := info.Bounds
	pdf.CellFormat(textW, 3, fmt.Sprintf("(%g, %g) - (%g, %g)", b.XMin(), b.YMin(), b.XMax(), b.YMax()), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	return nil
}
