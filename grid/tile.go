package grid

import (
	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/process"
)

// WindowRef is a non-owning back-reference from a Tile to one of the
// windows it composes, stored as indices into the grid's window sums
// rather than a pointer, so rebuilding the window grid cannot leave
// tiles holding dangling references.
type WindowRef struct {
	Row, Col int
}

// Tile is one cell of the tile grid: a fixed-size square aligned to
// the grid, tracking how much of its area is covered by conductors
// and by currently placed fillers.
type Tile struct {
	geometry.Rectangle

	ConductorArea int64
	FillerArea    int64

	Windows          []WindowRef
	Conductors       []*process.Conductor
	CandidateRegions []*geometry.Rectangle

	fillerSet          map[*process.Filler]struct{}
	candidateFillerSet map[*process.Filler]struct{}
}

func newTile(r geometry.Rectangle) *Tile {
	return &Tile{
		Rectangle:          r,
		fillerSet:          make(map[*process.Filler]struct{}),
		candidateFillerSet: make(map[*process.Filler]struct{}),
	}
}

// OccupyArea is the total area of this tile covered by conductors and
// placed fillers.
func (t *Tile) OccupyArea() int64 { return t.ConductorArea + t.FillerArea }

// Density is OccupyArea divided by the tile's own area.
func (t *Tile) Density() float64 { return float64(t.OccupyArea()) / float64(t.Area()) }

// Fillers returns the fillers currently placed in this tile, in no
// particular order. Callers that need a stable iteration order (for
// sorting before removal) must sort the result explicitly.
func (t *Tile) Fillers() []*process.Filler {
	out := make([]*process.Filler, 0, len(t.fillerSet))
	for f := range t.fillerSet {
		out = append(out, f)
	}
	return out
}

// HasFiller reports whether f is currently placed in this tile.
func (t *Tile) HasFiller(f *process.Filler) bool {
	_, ok := t.fillerSet[f]
	return ok
}

// NumFillers returns the number of fillers currently placed in this
// tile.
func (t *Tile) NumFillers() int { return len(t.fillerSet) }

// NumCandidateRegions returns the number of free regions on record
// for this tile, for diagnostics.
func (t *Tile) NumCandidateRegions() int { return len(t.CandidateRegions) }
