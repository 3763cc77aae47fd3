// Package process holds the entity model built from parsed input: the
// chip Database, its Layers, and the Conductors each Layer owns. Each
// placed shape embeds a geometry.Rectangle rather than wrapping one
// behind an interface, so geometric helpers apply to all of them
// directly.
package process

import "github.com/arl/metalfill/geometry"

// Direction is a Layer's preferred fill orientation, derived from the
// mean aspect ratio of its conductors.
type Direction int

const (
	// DirNone is the zero value, used only before a Layer's direction
	// has been derived.
	DirNone Direction = iota
	DirHorizontal
	DirVertical
)

// String names a Direction for diagnostics.
func (d Direction) String() string {
	switch d {
	case DirHorizontal:
		return "Horizontal"
	case DirVertical:
		return "Vertical"
	default:
		return "N/A"
	}
}

// Conductor is a pre-placed piece of metal on a Layer.
type Conductor struct {
	geometry.Rectangle
	ID         int64
	NetID      int64
	IsCritical bool
}

// Layer holds one metal layer's build parameters and the conductors
// placed on it. A Layer owns its Conductors for the lifetime of the
// process.
type Layer struct {
	ID           int64
	MinFillWidth int64
	MaxFillWidth int64
	MinSpacing   int64
	MinDensity   float64
	MaxDensity   float64
	Weight       float64
	Direction    Direction
	Conductors   []*Conductor
}

// DeriveDirection sets l.Direction from the mean aspect ratio of its
// conductors: HORIZONTAL when the mean is >= 1, VERTICAL otherwise. A
// layer with no conductors has no basis for a direction and defaults
// to HORIZONTAL.
func (l *Layer) DeriveDirection() {
	if len(l.Conductors) == 0 {
		l.Direction = DirHorizontal
		return
	}
	var sum float64
	for _, c := range l.Conductors {
		sum += c.AspectRatio()
	}
	mean := sum / float64(len(l.Conductors))
	if mean >= 1 {
		l.Direction = DirHorizontal
	} else {
		l.Direction = DirVertical
	}
}

// Database is the whole parsed design: the chip outline, the window
// size used for density windows, the declared critical net ids, and
// the layers built on it. CriticalNets keeps the declared list in
// input order, including ids no conductor references.
type Database struct {
	ChipBoundary geometry.Rectangle
	WindowSize   int64
	CriticalNets []int64
	Layers       []*Layer
}

// Filler is a placed (or candidate) piece of dummy metal. Cost
// accumulates the critical-net coupling penalty during pruning;
// InTile records whether this filler came from a tile-local free
// region (true) or the chip-global fallback pass (false).
type Filler struct {
	geometry.Rectangle
	Cost   float64
	InTile bool
}

// NewFiller wraps a rectangle as a Filler.
func NewFiller(r geometry.Rectangle, inTile bool) *Filler {
	return &Filler{Rectangle: r, InTile: inTile}
}
