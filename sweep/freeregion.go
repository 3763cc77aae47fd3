// Package sweep discovers and refines the free (conductor-clear)
// regions inside a tile or across the whole chip, the two sweep-line
// passes that feed filler generation.
package sweep

import (
	"sort"

	"github.com/arl/assertgo"

	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/grid"
	"github.com/arl/metalfill/process"
)

// Params bundles the spacing-derived values the sweep needs: half of
// a layer's minimum spacing, rounded down for the lower-left edge and
// up for the upper-right edge.
type Params struct {
	LowerLeftSpacing  int64
	UpperRightSpacing int64
}

// DiscoverFreeRegions enumerates the maximal empty rectangles inside
// the queried boundary that stay clear of every conductor expanded by
// the layer's spacing. Pass rowIdx == g.NumTileRow() && colIdx ==
// g.NumTileCol() to run the query across the whole chip boundary
// instead of a single tile.
func DiscoverFreeRegions(g *grid.Grid, layer *process.Layer, p Params, rowIdx, colIdx int) []geometry.Rectangle {
	boundary, conductors := queryBoundaryAndConductors(g, layer, p, rowIdx, colIdx)

	vertical := layer.Direction == process.DirVertical
	if vertical {
		boundary = boundary.Transform()
		for i := range conductors {
			conductors[i] = conductors[i].Transform()
		}
	}

	regions := sweepFreeRegions(boundary, conductors)
	for _, r := range regions {
		assert.True(r.IsLegal(), "sweep produced a degenerate free region")
	}

	if vertical {
		for i := range regions {
			regions[i] = regions[i].Transform()
		}
	}
	return regions
}

// queryBoundaryAndConductors resolves the search boundary and the set
// of (already spacing-expanded) conductors relevant to it. A
// per-tile query looks one ring of neighbor tiles out, since a
// conductor that only partially overlaps the tile still blocks space
// inside it once expanded by spacing.
func queryBoundaryAndConductors(g *grid.Grid, layer *process.Layer, p Params, rowIdx, colIdx int) (geometry.Rectangle, []geometry.Rectangle) {
	if rowIdx == g.NumTileRow() && colIdx == g.NumTileCol() {
		boundary := g.ChipBoundary()
		conductors := make([]geometry.Rectangle, 0, len(layer.Conductors))
		for _, c := range layer.Conductors {
			conductors = append(conductors, c.Rectangle.Expand(p.LowerLeftSpacing, p.UpperRightSpacing))
		}
		return boundary, conductors
	}

	tile := g.Tile(rowIdx, colIdx)
	boundary := tile.Rectangle

	beginRow, endRow := neighborRange(rowIdx, g.NumTileRow())
	beginCol, endCol := neighborRange(colIdx, g.NumTileCol())

	// The halo widens towards lower-left by upperRightSpacing and
	// towards upper-right by lowerLeftSpacing: a conductor's reach
	// into the tile comes from its far-side expansion, so the two
	// amounts swap sides here.
	extend := boundary.Expand(p.UpperRightSpacing, p.LowerLeftSpacing)

	seen := make(map[*process.Conductor]struct{})
	var conductors []geometry.Rectangle
	for r := beginRow; r <= endRow; r++ {
		for c := beginCol; c <= endCol; c++ {
			for _, cond := range g.Tile(r, c).Conductors {
				if _, ok := seen[cond]; ok {
					continue
				}
				if geometry.IntersectRegion(extend, cond.Rectangle).Area() == 0 {
					continue
				}
				seen[cond] = struct{}{}
				conductors = append(conductors, cond.Rectangle.Expand(p.LowerLeftSpacing, p.UpperRightSpacing))
			}
		}
	}
	return boundary, conductors
}

func neighborRange(idx, n int) (begin, end int) {
	begin = idx
	if idx > 0 {
		begin = idx - 1
	}
	end = idx
	if idx+1 < n {
		end = idx + 1
	}
	return
}

// minFreeWidth is the smallest span a free region may have along the
// sweep axis before it is dropped; a sliver narrower than this can
// never host a filler once minFillWidth and spacing are subtracted
// back out, so discarding it here saves RefineFreeRegions the work.
const minFreeWidth = int64(1)

// sweepFreeRegions is the direction-normalized core of the sweep: it
// assumes the caller has already swapped X/Y for vertical layers and
// swaps back on return.
func sweepFreeRegions(boundary geometry.Rectangle, conductors []geometry.Rectangle) []geometry.Rectangle {
	type event struct {
		entering []*geometry.Rectangle
		exiting  []*geometry.Rectangle
	}

	events := make(map[int64]*event)
	at := func(x int64) *event {
		e, ok := events[x]
		if !ok {
			e = &event{}
			events[x] = e
		}
		return e
	}
	at(boundary.X1)
	at(boundary.X2)

	conds := make([]geometry.Rectangle, len(conductors))
	copy(conds, conductors)
	for i := range conds {
		c := &conds[i]
		at(c.X1).entering = append(at(c.X1).entering, c)
		at(c.X2).exiting = append(at(c.X2).exiting, c)
	}

	xs := make([]int64, 0, len(events))
	for x := range events {
		xs = append(xs, x)
	}
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })

	type yInterval struct{ y1, y2 int64 }
	type tempRegion struct {
		x1, y1, y2 int64
	}

	active := make(map[*geometry.Rectangle]struct{})
	open := make(map[*tempRegion]struct{})
	var freeRegions []geometry.Rectangle

	for _, x := range xs {
		e := events[x]
		// Ties resolve right-before-left: conductors ending here leave
		// the active set before conductors starting here join it.
		for _, c := range e.exiting {
			delete(active, c)
		}
		for _, c := range e.entering {
			active[c] = struct{}{}
		}

		if x == boundary.X2 {
			for tr := range open {
				r := geometry.Rect(tr.x1, tr.y1, x, tr.y2)
				if r.Width() >= minFreeWidth {
					freeRegions = append(freeRegions, r)
				}
			}
			break
		}
		if x < boundary.X1 {
			continue
		}

		sorted := make([]*geometry.Rectangle, 0, len(active))
		for c := range active {
			sorted = append(sorted, c)
		}
		sort.Slice(sorted, func(i, j int) bool {
			a, b := sorted[i], sorted[j]
			if a.Y1 != b.Y1 {
				return a.Y1 < b.Y1
			}
			if a.Y2 != b.Y2 {
				return a.Y2 < b.Y2
			}
			if a.X1 != b.X1 {
				return a.X1 < b.X1
			}
			return a.X2 < b.X2
		})

		var freeIntervals []yInterval
		maxY := boundary.Y1
		for _, c := range sorted {
			if c.Y1-maxY >= minFreeWidth {
				freeIntervals = append(freeIntervals, yInterval{maxY, c.Y1})
			}
			if c.Y2 > maxY {
				maxY = c.Y2
			}
		}
		if boundary.Y2-maxY >= minFreeWidth {
			freeIntervals = append(freeIntervals, yInterval{maxY, boundary.Y2})
		}

		matched := make(map[yInterval]bool, len(freeIntervals))
		for _, iv := range freeIntervals {
			matched[iv] = false
		}

		for tr := range open {
			iv := yInterval{tr.y1, tr.y2}
			if done, tracked := matched[iv]; tracked && !done {
				matched[iv] = true
				continue
			}
			r := geometry.Rect(tr.x1, tr.y1, x, tr.y2)
			if r.Width() >= minFreeWidth {
				freeRegions = append(freeRegions, r)
			}
			delete(open, tr)
		}
		for _, iv := range freeIntervals {
			if !matched[iv] {
				open[&tempRegion{x1: x, y1: iv.y1, y2: iv.y2}] = struct{}{}
			}
		}
	}

	return freeRegions
}
