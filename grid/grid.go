// Package grid builds the tile/window grid over a chip layer and
// maintains the per-tile and per-window occupied-area bookkeeping as
// fillers are inserted and removed.
package grid

import (
	"math"

	"github.com/arl/assertgo"
	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/process"
)

// Grid holds one layer's tile grid, window grid, and the conductors
// and fillers registered against them. It is rebuilt (InitGrid) once
// per layer, and a second time if the chip-global fallback pass
// triggers — see the per-layer driver in package solve.
type Grid struct {
	db    *process.Database
	layer *process.Layer

	numTileForWindow int

	tileSize   int64
	tileArea   int64
	windowArea int64

	numTileRow, numTileCol     int
	numWindowRow, numWindowCol int

	tiles      [][]*Tile
	windowGrid [][]int64 // windowGrid[row][col]: occupied area of window (row,col)

	candidateRegions []*geometry.Rectangle
	fillers          []*process.Filler
}

// New builds the fixed grid geometry (tile/window counts and sizes)
// for db and layer, using numTileForWindow tiles per window side. It
// does not yet populate tiles or windows; call InitGrid for that.
func New(db *process.Database, layer *process.Layer, numTileForWindow int) *Grid {
	tileSize := db.WindowSize / int64(numTileForWindow)
	g := &Grid{
		db:               db,
		layer:            layer,
		numTileForWindow: numTileForWindow,
		tileSize:         tileSize,
		tileArea:         tileSize * tileSize,
		windowArea:       db.WindowSize * db.WindowSize,
		numTileRow:       int(db.ChipBoundary.Height() / tileSize),
		numTileCol:       int(db.ChipBoundary.Width() / tileSize),
	}
	g.numWindowRow = g.numTileRow - numTileForWindow + 1
	g.numWindowCol = g.numTileCol - numTileForWindow + 1
	return g
}

// TileSize returns the side length of one tile.
func (g *Grid) TileSize() int64 { return g.tileSize }

// WindowArea returns the area of one full window (WindowSize^2).
func (g *Grid) WindowArea() int64 { return g.windowArea }

// NumTileRow, NumTileCol return the tile grid dimensions.
func (g *Grid) NumTileRow() int { return g.numTileRow }
func (g *Grid) NumTileCol() int { return g.numTileCol }

// NumWindowRow, NumWindowCol return the window grid dimensions.
func (g *Grid) NumWindowRow() int { return g.numWindowRow }
func (g *Grid) NumWindowCol() int { return g.numWindowCol }

// Tile returns the tile at (row, col).
func (g *Grid) Tile(row, col int) *Tile { return g.tiles[row][col] }

// TileIdx returns the tile index containing point (x, y), rounding
// with round (floor when nil).
func (g *Grid) TileIdx(x, y int64, round func(float64) float64) (row, col int) {
	if round == nil {
		round = math.Floor
	}
	row = int(round(float64(y-g.db.ChipBoundary.Y1) / float64(g.tileSize)))
	col = int(round(float64(x-g.db.ChipBoundary.X1) / float64(g.tileSize)))
	return row, col
}

// TileRange returns the half-open tile index range [beginRow,endRow)
// x [beginCol,endCol) covering boundary: the lower edges are floored,
// the upper edges ceiled, so the right/top tile edges are exclusive.
func (g *Grid) TileRange(boundary geometry.Rectangle) (beginRow, beginCol, endRow, endCol int) {
	beginRow = int(math.Floor(float64(boundary.Y1-g.db.ChipBoundary.Y1) / float64(g.tileSize)))
	beginCol = int(math.Floor(float64(boundary.X1-g.db.ChipBoundary.X1) / float64(g.tileSize)))
	endRow = int(math.Ceil(float64(boundary.Y2-g.db.ChipBoundary.Y1) / float64(g.tileSize)))
	endCol = int(math.Ceil(float64(boundary.X2-g.db.ChipBoundary.X1) / float64(g.tileSize)))
	return
}

// TilePos returns the lower-left corner of tile (row, col) in chip
// coordinates.
func (g *Grid) TilePos(row, col int) (x, y int64) {
	x = g.db.ChipBoundary.X1 + int64(col)*g.tileSize
	y = g.db.ChipBoundary.Y1 + int64(row)*g.tileSize
	return
}

// InitGrid (re)builds the tile grid and window grid from scratch:
// every tile is positioned, every conductor is registered against the
// tiles it intersects, per-tile conductor area is computed, and
// window sums are derived from it. Any fillers or candidate regions
// recorded before this call are discarded, so a second call starts
// the layer over from its conductors alone.
func (g *Grid) InitGrid() {
	g.candidateRegions = nil
	g.fillers = nil

	g.tiles = make([][]*Tile, g.numTileRow)
	for row := 0; row < g.numTileRow; row++ {
		g.tiles[row] = make([]*Tile, g.numTileCol)
		for col := 0; col < g.numTileCol; col++ {
			x, y := g.TilePos(row, col)
			g.tiles[row][col] = newTile(geometry.Rect(x, y, x+g.tileSize, y+g.tileSize))
		}
	}

	g.windowGrid = make([][]int64, g.numWindowRow)
	for row := 0; row < g.numWindowRow; row++ {
		g.windowGrid[row] = make([]int64, g.numWindowCol)
	}
	for row := 0; row < g.numWindowRow; row++ {
		for col := 0; col < g.numWindowCol; col++ {
			for r := 0; r < g.numTileForWindow; r++ {
				for c := 0; c < g.numTileForWindow; c++ {
					t := g.tiles[row+r][col+c]
					t.Windows = append(t.Windows, WindowRef{Row: row, Col: col})
				}
			}
		}
	}

	for _, cond := range g.layer.Conductors {
		beginRow, beginCol, endRow, endCol := g.TileRange(cond.Rectangle)
		for row := beginRow; row < endRow; row++ {
			for col := beginCol; col < endCol; col++ {
				g.tiles[row][col].Conductors = append(g.tiles[row][col].Conductors, cond)
			}
		}
	}

	for _, row := range g.tiles {
		for _, t := range row {
			t.ConductorArea = ConductorArea(t)
		}
	}

	g.updateAllWindowArea()
}

func (g *Grid) updateAllWindowArea() {
	for row := 0; row < g.numWindowRow; row++ {
		for col := 0; col < g.numWindowCol; col++ {
			var occ int64
			for r := 0; r < g.numTileForWindow; r++ {
				for c := 0; c < g.numTileForWindow; c++ {
					occ += g.tiles[row+r][col+c].OccupyArea()
				}
			}
			g.windowGrid[row][col] = occ
		}
	}
}

// WindowOccupiedArea returns the live occupied area of window (row,
// col).
func (g *Grid) WindowOccupiedArea(row, col int) int64 { return g.windowGrid[row][col] }

// MinMaxWindowArea returns the minimum and maximum occupied area over
// every window currently in the grid.
func (g *Grid) MinMaxWindowArea() (min, max int64) {
	min = g.windowArea
	max = 0
	for _, row := range g.windowGrid {
		for _, area := range row {
			if area < min {
				min = area
			}
			if area > max {
				max = area
			}
		}
	}
	return
}

// MinMaxWindowDensity is MinMaxWindowArea expressed as a fraction of
// WindowArea.
func (g *Grid) MinMaxWindowDensity() (min, max float64) {
	minArea, maxArea := g.MinMaxWindowArea()
	return float64(minArea) / float64(g.windowArea), float64(maxArea) / float64(g.windowArea)
}

// RecordFreeRegion registers region against every tile it overlaps,
// and keeps ownership of it in the grid's arena for the duration of
// the current layer.
func (g *Grid) RecordFreeRegion(region *geometry.Rectangle) {
	g.candidateRegions = append(g.candidateRegions, region)
	beginRow, beginCol, endRow, endCol := g.TileRange(*region)
	for row := beginRow; row < endRow; row++ {
		for col := beginCol; col < endCol; col++ {
			g.tiles[row][col].CandidateRegions = append(g.tiles[row][col].CandidateRegions, region)
		}
	}
}

// AddFiller adopts f into the grid's filler arena without placing it:
// f is in no tile's filler or candidate set until InsertFiller places
// it.
func (g *Grid) AddFiller(f *process.Filler) {
	g.fillers = append(g.fillers, f)
}

// InsertFiller places f: for every tile it intersects, f moves from
// the candidate set into the filler set, and the intersection area is
// added to the tile's FillerArea and to every window referencing that
// tile.
func (g *Grid) InsertFiller(f *process.Filler) {
	beginRow, beginCol, endRow, endCol := g.TileRange(f.Rectangle)
	for row := beginRow; row < endRow; row++ {
		for col := beginCol; col < endCol; col++ {
			t := g.tiles[row][col]
			delete(t.candidateFillerSet, f)
			t.fillerSet[f] = struct{}{}
			area := geometry.IntersectRegion(t.Rectangle, f.Rectangle).Area()
			t.FillerArea += area
			for _, w := range t.Windows {
				g.windowGrid[w.Row][w.Col] += area
			}
		}
	}
	assert.True(g.invariantHolds(f), "filler area invariant broken after insert")
}

// RemoveFiller is InsertFiller's inverse: f moves from the filler set
// back into the candidate set, and its area is subtracted from the
// tiles and windows it touches.
func (g *Grid) RemoveFiller(f *process.Filler) {
	beginRow, beginCol, endRow, endCol := g.TileRange(f.Rectangle)
	for row := beginRow; row < endRow; row++ {
		for col := beginCol; col < endCol; col++ {
			t := g.tiles[row][col]
			delete(t.fillerSet, f)
			t.candidateFillerSet[f] = struct{}{}
			area := geometry.IntersectRegion(t.Rectangle, f.Rectangle).Area()
			t.FillerArea -= area
			for _, w := range t.Windows {
				g.windowGrid[w.Row][w.Col] -= area
			}
		}
	}
}

// invariantHolds is a debug-only check (no-op outside the assertgo
// debug build tag) that every tile f now overlaps has it in fillerSet
// and not in candidateFillerSet.
func (g *Grid) invariantHolds(f *process.Filler) bool {
	beginRow, beginCol, endRow, endCol := g.TileRange(f.Rectangle)
	for row := beginRow; row < endRow; row++ {
		for col := beginCol; col < endCol; col++ {
			t := g.tiles[row][col]
			if !t.HasFiller(f) {
				return false
			}
			if _, stillCandidate := t.candidateFillerSet[f]; stillCandidate {
				return false
			}
		}
	}
	return true
}

// AllPlacedFillers returns the set of fillers currently placed
// anywhere in the grid, deduplicated across tiles.
func (g *Grid) AllPlacedFillers() []*process.Filler {
	seen := make(map[*process.Filler]struct{})
	var out []*process.Filler
	for _, row := range g.tiles {
		for _, t := range row {
			for f := range t.fillerSet {
				if _, ok := seen[f]; !ok {
					seen[f] = struct{}{}
					out = append(out, f)
				}
			}
		}
	}
	return out
}

// EachTile calls fn for every tile in row-major order.
func (g *Grid) EachTile(fn func(row, col int, t *Tile)) {
	for row, r := range g.tiles {
		for col, t := range r {
			fn(row, col, t)
		}
	}
}

// OccupyAreaBruteForce recomputes the occupied area of tile by
// rasterizing every conductor and placed filler into a pixel grid. It
// exists purely as a brute-force cross-check for tests, and is
// O(tileSize^2); the engine never calls it.
func (g *Grid) OccupyAreaBruteForce(t *Tile) int64 {
	size := int(t.Width())
	grid := make([][]bool, size)
	for i := range grid {
		grid[i] = make([]bool, size)
	}
	paint := func(r geometry.Rectangle) {
		r = geometry.IntersectRegion(t.Rectangle, r)
		if !r.IsLegal() {
			return
		}
		r = r.Shift(-t.X1, -t.Y1)
		for y := r.Y1; y < r.Y2; y++ {
			for x := r.X1; x < r.X2; x++ {
				grid[y][x] = true
			}
		}
	}
	for _, c := range g.layer.Conductors {
		paint(c.Rectangle)
	}
	for _, f := range g.AllPlacedFillers() {
		paint(f.Rectangle)
	}
	var area int64
	for _, row := range grid {
		for _, v := range row {
			if v {
				area++
			}
		}
	}
	return area
}

func (g *Grid) ChipBoundary() geometry.Rectangle { return g.db.ChipBoundary }

// MinWindowArea returns the minimum occupied area among windows, or
// WindowArea if windows is empty (a filler touching no window imposes
// no density constraint).
func (g *Grid) MinWindowArea(windows []WindowRef) int64 {
	min := g.windowArea
	for _, w := range windows {
		if a := g.windowGrid[w.Row][w.Col]; a < min {
			min = a
		}
	}
	return min
}

// MaxWindowArea returns the maximum occupied area among windows.
func (g *Grid) MaxWindowArea(windows []WindowRef) int64 {
	var max int64
	for _, w := range windows {
		if a := g.windowGrid[w.Row][w.Col]; a > max {
			max = a
		}
	}
	return max
}

