// Package fillgen turns refined free regions into candidate fillers:
// it tiles each region into a grid of cells no larger than a layer's
// maxFillWidth on either axis, then insets each cell by the layer's
// spacing so the placed filler clears both conductors and its
// neighboring fillers.
package fillgen

import (
	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/process"
	"github.com/arl/metalfill/sweep"
)

// Generate produces one Filler per cell of region, subdivided so no
// cell exceeds layer.MaxFillWidth on either axis. inTile marks whether
// these fillers came from a tile-local query (true) or the
// chip-global fallback pass (false).
func Generate(region geometry.Rectangle, layer *process.Layer, p sweep.Params, inTile bool) []*process.Filler {
	w, h := region.Width(), region.Height()
	if w <= 0 || h <= 0 || layer.MaxFillWidth <= 0 {
		return nil
	}

	nCol := ceilDiv(w, layer.MaxFillWidth)
	nRow := ceilDiv(h, layer.MaxFillWidth)
	if nCol == 0 || nRow == 0 {
		return nil
	}

	cellW := w / nCol
	cellH := h / nRow

	// Every cell gets the same floor-division size; the division
	// remainder is left unused at the region's upper-right edge so no
	// cell ever exceeds maxFillWidth.
	fillers := make([]*process.Filler, 0, nRow*nCol)
	for row := int64(0); row < nRow; row++ {
		y1 := region.Y1 + row*cellH
		y2 := y1 + cellH
		for col := int64(0); col < nCol; col++ {
			x1 := region.X1 + col*cellW
			x2 := x1 + cellW

			cell := geometry.Rect(x1, y1, x2, y2)
			inset := cell.Inset(p.LowerLeftSpacing, p.UpperRightSpacing)
			if !inset.IsLegal() {
				continue
			}
			fillers = append(fillers, process.NewFiller(inset, inTile))
		}
	}
	return fillers
}

func ceilDiv(a, b int64) int64 {
	if b <= 0 {
		return 0
	}
	return (a + b - 1) / b
}
