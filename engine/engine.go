// Package engine implements the per-layer fill placement engine: the
// per-tile free-region discovery/generation loop, the chip-global
// fallback, and the three density-reconciliation phases that follow
// (critical-net pruning, upper-bound reconciliation, redundant-filler
// pruning).
package engine

import (
	"math"
	"sort"

	"github.com/arl/assertgo"

	"github.com/arl/metalfill/fillgen"
	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/grid"
	"github.com/arl/metalfill/internal/diag"
	"github.com/arl/metalfill/process"
	"github.com/arl/metalfill/sweep"
)

// FillGrid runs the per-tile discover/refine/generate/insert loop over
// every tile of g. If any window is still below minDensityArea
// afterwards, it resets the grid and reruns the same pipeline once
// against the whole chip boundary (the sentinel (NumTileRow,
// NumTileCol) query), tagging the resulting fillers InTile=false.
func FillGrid(g *grid.Grid, layer *process.Layer, p sweep.Params, minDensityArea int64, dctx *diag.Context) {
	fillOneQuery := func(rowIdx, colIdx int, inTile bool) {
		regions := sweep.DiscoverFreeRegions(g, layer, p, rowIdx, colIdx)
		regions = sweep.RefineFreeRegions(regions, layer, p)
		for i := range regions {
			r := regions[i]
			g.RecordFreeRegion(&r)
			for _, f := range fillgen.Generate(r, layer, p, inTile) {
				g.AddFiller(f)
				g.InsertFiller(f)
			}
		}
	}

	for row := 0; row < g.NumTileRow(); row++ {
		for col := 0; col < g.NumTileCol(); col++ {
			fillOneQuery(row, col, true)
		}
	}

	minArea, _ := g.MinMaxWindowArea()
	if minArea >= minDensityArea {
		return
	}

	dctx.Progressf("layer %d: per-tile fill left windows below minDensityArea, falling back to chip-global search", layer.ID)

	g.InitGrid()
	fillOneQuery(g.NumTileRow(), g.NumTileCol(), false)
}

// PhaseA removes the fillers most tightly coupled to critical
// conductors, provided doing so does not underflow any window below
// minDensityArea.
func PhaseA(g *grid.Grid, layer *process.Layer, minDensityArea int64, dctx *diag.Context) {
	type scored struct {
		filler *process.Filler
		cost   float64
	}

	costs := make(map[*process.Filler]float64)
	for _, c := range layer.Conductors {
		if !c.IsCritical {
			continue
		}
		keepAway := c.Rectangle.Expand(2*layer.MinSpacing, 2*layer.MinSpacing)
		for _, row := range tileRangeRows(g, keepAway) {
			for _, col := range tileRangeCols(g, keepAway) {
				for _, f := range g.Tile(row, col).Fillers() {
					if geometry.IntersectRegion(keepAway, f.Rectangle).Area() == 0 {
						continue
					}
					pl := geometry.ParallelLength(c.Rectangle, f.Rectangle)
					d := geometry.Distance(c.Rectangle, f.Rectangle)
					if d == 0 {
						d = 1
					}
					costs[f] += float64(pl) / float64(d)
				}
			}
		}
	}
	if len(costs) == 0 {
		return
	}

	candidates := make([]scored, 0, len(costs))
	for f, cost := range costs {
		f.Cost = cost
		candidates = append(candidates, scored{f, cost})
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].cost != candidates[j].cost {
			return candidates[i].cost > candidates[j].cost
		}
		return candidates[i].filler.Area() < candidates[j].filler.Area()
	})

	for _, c := range candidates {
		before, _ := g.MinMaxWindowArea()
		g.RemoveFiller(c.filler)
		if minArea, _ := g.MinMaxWindowArea(); minArea < minDensityArea {
			g.InsertFiller(c.filler)
			restored, _ := g.MinMaxWindowArea()
			assert.True(restored == before,
				"reinserting a filler did not restore the window sums")
		}
	}

	min, max := g.MinMaxWindowDensity()
	dctx.Progressf("layer %d: after critical-net pruning, window density [%.4f, %.4f]", layer.ID, min, max)
}

// PhaseB removes fillers from any tile whose windows exceed
// maxDensityArea, down to the point where none do (or no more can be
// removed without underflowing minDensityArea).
func PhaseB(g *grid.Grid, layer *process.Layer, minDensityArea, maxDensityArea int64, dctx *diag.Context) {
	reconcile(g, minDensityArea, maxDensityArea, true)
	min, max := g.MinMaxWindowDensity()
	dctx.Progressf("layer %d: after upper-bound reconciliation, window density [%.4f, %.4f]", layer.ID, min, max)
}

// PhaseC drops any filler that is redundant — its removal still
// leaves every window at or above minDensityArea — with no upper
// bound goal driving it.
func PhaseC(g *grid.Grid, layer *process.Layer, minDensityArea int64, dctx *diag.Context) {
	reconcile(g, minDensityArea, math.MaxInt64, false)
	min, max := g.MinMaxWindowDensity()
	dctx.Progressf("layer %d: after redundant-filler pruning, window density [%.4f, %.4f]", layer.ID, min, max)
}

// reconcile is the shared tile-by-tile removal loop behind phases B
// and C. When gated, a tile is skipped unless one of its windows
// exceeds maxDensityArea, and removal stops once minRemoveArea has
// been reached; without gating every tile is visited and every filler
// is tried, the only limit being the underflow check every removal is
// still subject to.
func reconcile(g *grid.Grid, minDensityArea, maxDensityArea int64, gated bool) {
	for row := 0; row < g.NumTileRow(); row++ {
		for col := 0; col < g.NumTileCol(); col++ {
			t := g.Tile(row, col)
			windows := t.Windows

			minOccupy := g.MinWindowArea(windows)
			maxOccupy := g.MaxWindowArea(windows)

			if gated && maxOccupy <= maxDensityArea {
				continue
			}

			maxRemoveArea := minOccupy - minDensityArea
			var minRemoveArea int64
			if gated {
				minRemoveArea = maxOccupy - maxDensityArea
			}

			fillers := t.Fillers()
			sort.Slice(fillers, func(i, j int) bool { return fillers[i].Area() < fillers[j].Area() })

			var removed int64
			for _, f := range fillers {
				if gated && removed >= minRemoveArea {
					break
				}

				area := geometry.IntersectRegion(t.Rectangle, f.Rectangle).Area()

				if f.InTile {
					if removed+area > maxRemoveArea {
						continue
					}
					g.RemoveFiller(f)
					removed += area
					continue
				}

				// Cross-tile fillers are rechecked against the live
				// grid-wide window sums, not the snapshot taken when
				// this tile's loop started.
				if gated {
					if _, maxArea := g.MinMaxWindowArea(); maxArea <= maxDensityArea {
						break
					}
				}
				g.RemoveFiller(f)
				if minArea, _ := g.MinMaxWindowArea(); minArea < minDensityArea {
					g.InsertFiller(f)
					continue
				}
				removed += area
			}
		}
	}
}

func tileRangeRows(g *grid.Grid, r geometry.Rectangle) []int {
	beginRow, _, endRow, _ := g.TileRange(r)
	if beginRow < 0 {
		beginRow = 0
	}
	if endRow > g.NumTileRow() {
		endRow = g.NumTileRow()
	}
	rows := make([]int, 0, endRow-beginRow)
	for row := beginRow; row < endRow; row++ {
		rows = append(rows, row)
	}
	return rows
}

func tileRangeCols(g *grid.Grid, r geometry.Rectangle) []int {
	_, beginCol, _, endCol := g.TileRange(r)
	if beginCol < 0 {
		beginCol = 0
	}
	if endCol > g.NumTileCol() {
		endCol = g.NumTileCol()
	}
	cols := make([]int, 0, endCol-beginCol)
	for col := beginCol; col < endCol; col++ {
		cols = append(cols, col)
	}
	return cols
}
