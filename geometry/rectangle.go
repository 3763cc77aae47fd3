// Package geometry defines the integer axis-aligned rectangle used
// throughout the fill-insertion pipeline, along with the handful of
// free functions (intersection, distance, parallel length) the sweep
// and density code builds on.
package geometry

import (
	"fmt"
	"math"
)

// Rectangle is an axis-aligned rectangle with integer edges. The
// lower-left corner is (X1, Y1), the upper-right corner is (X2, Y2).
//
// A Rectangle is well-formed when X1<=X2 and Y1<=Y2; IsLegal is the
// stricter "has positive area" check used to admit fillers and free
// regions.
type Rectangle struct {
	X1, Y1, X2, Y2 int64
}

// Rect builds a Rectangle from its four edges. It does not reorder or
// validate them; callers that may produce a degenerate rectangle (a
// failed intersection, for instance) should check IsLegal.
func Rect(x1, y1, x2, y2 int64) Rectangle {
	return Rectangle{X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// Width returns X2-X1.
func (r Rectangle) Width() int64 { return r.X2 - r.X1 }

// Height returns Y2-Y1.
func (r Rectangle) Height() int64 { return r.Y2 - r.Y1 }

// Area returns Width*Height. Degenerate rectangles yield a
// non-positive area.
func (r Rectangle) Area() int64 { return r.Width() * r.Height() }

// AspectRatio returns Width/Height, or +Inf if Height is zero.
func (r Rectangle) AspectRatio() float64 {
	if r.Height() == 0 {
		return math.Inf(1)
	}
	return float64(r.Width()) / float64(r.Height())
}

// IsLegal reports whether r has strictly positive width and height.
func (r Rectangle) IsLegal() bool {
	return r.Width() > 0 && r.Height() > 0
}

// Shift returns r translated by (dx, dy).
func (r Rectangle) Shift(dx, dy int64) Rectangle {
	return Rectangle{r.X1 + dx, r.Y1 + dy, r.X2 + dx, r.Y2 + dy}
}

// Scale returns r with every edge multiplied by s. Only debug dumps
// need it; the fill pipeline itself never rescales coordinates.
func (r Rectangle) Scale(s float64) Rectangle {
	return Rectangle{
		X1: int64(float64(r.X1) * s),
		Y1: int64(float64(r.Y1) * s),
		X2: int64(float64(r.X2) * s),
		Y2: int64(float64(r.Y2) * s),
	}
}

// Expand grows r by lowerLeft on the lower-left edges and upperRight
// on the upper-right edges.
func (r Rectangle) Expand(lowerLeft, upperRight int64) Rectangle {
	return Rectangle{
		X1: r.X1 - lowerLeft,
		Y1: r.Y1 - lowerLeft,
		X2: r.X2 + upperRight,
		Y2: r.Y2 + upperRight,
	}
}

// Expand4 grows r by a distinct amount on each of its four edges.
func (r Rectangle) Expand4(left, bottom, right, top int64) Rectangle {
	return Rectangle{
		X1: r.X1 - left,
		Y1: r.Y1 - bottom,
		X2: r.X2 + right,
		Y2: r.Y2 + top,
	}
}

// Inset shrinks r by lowerLeft on the lower-left edges and upperRight
// on the upper-right edges; it is Expand's dual, used when generating
// fillers that must keep clear of their cell's edges.
func (r Rectangle) Inset(lowerLeft, upperRight int64) Rectangle {
	return r.Expand(-lowerLeft, -upperRight)
}

// Transform swaps the X and Y coordinates of r. Applying Transform
// twice is the identity; it is used to normalize VERTICAL layers onto
// the same sweep direction as HORIZONTAL ones.
func (r Rectangle) Transform() Rectangle {
	return Rectangle{X1: r.Y1, Y1: r.X1, X2: r.Y2, Y2: r.X2}
}

// String formats r as "x1 y1 x2 y2", the wire format used by the
// result writer.
func (r Rectangle) String() string {
	return fmt.Sprintf("%d %d %d %d", r.X1, r.Y1, r.X2, r.Y2)
}

// Intersect reports whether a and b overlap with positive area on
// both axes. Edge-touching rectangles do not intersect.
func Intersect(a, b Rectangle) bool {
	return !(a.X2 <= b.X1 || b.X2 <= a.X1 || a.Y2 <= b.Y1 || b.Y2 <= a.Y1)
}

// IntersectRegion returns the overlap of a and b. If a and b do not
// intersect the result is degenerate (IsLegal is false); callers that
// only need an area can call Area on it directly since a degenerate
// rectangle built this way always has non-positive area.
func IntersectRegion(a, b Rectangle) Rectangle {
	x1 := max64(a.X1, b.X1)
	y1 := max64(a.Y1, b.Y1)
	x2 := min64(a.X2, b.X2)
	y2 := min64(a.Y2, b.Y2)
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return Rectangle{x1, y1, x2, y2}
}

// Distance returns the Manhattan gap between a and b: the sum of the
// per-axis separations, where an axis on which the projections overlap
// or touch contributes 0. It is 0 when a and b overlap or touch.
func Distance(a, b Rectangle) int64 {
	lenX := max64(a.X1, b.X1) - min64(a.X2, b.X2)
	lenY := max64(a.Y1, b.Y1) - min64(a.Y2, b.Y2)
	if lenX < 0 {
		lenX = 0
	}
	if lenY < 0 {
		lenY = 0
	}
	return lenX + lenY
}

// ParallelLength returns the length over which a and b's projections
// overlap on one axis while being separated (or touching) on the
// other; it is 0 when they're separated on both axes or overlapping
// on both.
func ParallelLength(a, b Rectangle) int64 {
	lenX := min64(a.X2, b.X2) - max64(a.X1, b.X1)
	lenY := min64(a.Y2, b.Y2) - max64(a.Y1, b.Y1)
	if lenX > 0 && lenY <= 0 {
		return lenX
	}
	if lenX <= 0 && lenY > 0 {
		return lenY
	}
	return 0
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
