package export

import (
	"fmt"

	"github.com/piwi3910/ZonePlanner/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
)

// dxfColors cycles through the standard AutoCAD index colors.
var dxfColors = []color.ColorNumber{color.Green, color.Blue, color.Red, color.Cyan, color.Magenta, color.Yellow}

// ZoneLayerName returns the DXF layer used for a zone.
func ZoneLayerName(index int) string {
	return fmt.Sprintf("ZONE_%d", index+1)
}

// ExportDXF writes every zone to its own layer, each rectangle as four LINEs.
func ExportDXF(path string, zones []model.ZoneSummary) error {
	if len(zones) == 0 {
		return ErrNoZones
	}

	d := dxf.NewDrawing()
	for _, z := range zones {
		if _, err := d.AddLayer(ZoneLayerName(z.Index), dxfColors[z.Index%len(dxfColors)], dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer for zone %d: %w", z.Index+1, err)
		}
		for _, r := range z.Rects {
			corners := [][2]float64{
				{r.XMin(), r.YMin()},
				{r.XMax(), r.YMin()},
				{r.XMax(), r.YMax()},
				{r.XMin(), r.YMax()},
			}
			for i, a := range corners {
				b := corners[(i+1)%len(corners)]
				if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
					return fmt.Errorf("failed to draw %v: %w", r, err)
				}
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}
