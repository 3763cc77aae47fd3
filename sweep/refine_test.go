package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/process"
)

func testLayer(minFillWidth int64) *process.Layer {
	return &process.Layer{MinFillWidth: minFillWidth, Direction: process.DirHorizontal}
}

func TestRefineFreeRegionsDropsTooShort(t *testing.T) {
	layer := testLayer(5)
	p := Params{} // minRegionWidth == 5

	regions := []geometry.Rectangle{
		geometry.Rect(0, 0, 10, 3), // height 3 < 5: dropped outright
	}
	out := RefineFreeRegions(regions, layer, p)
	assert.Empty(t, out)
}

func TestRefineFreeRegionsKeepsLegalRegion(t *testing.T) {
	layer := testLayer(5)
	p := Params{}

	regions := []geometry.Rectangle{
		geometry.Rect(0, 0, 10, 10),
	}
	out := RefineFreeRegions(regions, layer, p)
	require.Len(t, out, 1)
	assert.Equal(t, geometry.Rect(0, 0, 10, 10), out[0])
}

func TestRefineFreeRegionsMergesAdjacentLegalRegions(t *testing.T) {
	layer := testLayer(5)
	p := Params{}

	// Two regions sharing the same Y-span, abutting at x=10: the sweep
	// should merge them into one region spanning x=[0,20).
	regions := []geometry.Rectangle{
		geometry.Rect(0, 0, 10, 10),
		geometry.Rect(10, 0, 20, 10),
	}
	out := RefineFreeRegions(regions, layer, p)
	require.Len(t, out, 1)
	assert.Equal(t, geometry.Rect(0, 0, 20, 10), out[0])
}

func TestRefineFreeRegionsLegalEatsNarrowIllegalNeighbor(t *testing.T) {
	layer := testLayer(5) // minRegionWidth = 5

	// Illegal sliver (width 3 < 5) directly right of a legal region,
	// same Y-span: the legal region should absorb it and extend to
	// x=13.
	regions := []geometry.Rectangle{
		geometry.Rect(0, 0, 10, 10),
		geometry.Rect(10, 0, 13, 10),
	}
	out := RefineFreeRegions(regions, layer, Params{})
	require.Len(t, out, 1)
	assert.Equal(t, geometry.Rect(0, 0, 13, 10), out[0])
}

func TestRefineFreeRegionsNeverMergesTwoIllegalRegions(t *testing.T) {
	layer := testLayer(5)

	// Two abutting illegal slivers, the former's Y-span containing the
	// latter's: they must not merge into a region wide enough to pass
	// the final check. Both stay narrow and are dropped.
	regions := []geometry.Rectangle{
		geometry.Rect(0, 0, 3, 10), // width 3 < 5
		geometry.Rect(3, 2, 6, 8),  // width 3 < 5
	}
	out := RefineFreeRegions(regions, layer, Params{})
	assert.Empty(t, out)
}

func TestRefineFreeRegionsLegalExtendsOverIllegalLeftNeighbor(t *testing.T) {
	layer := testLayer(5)

	// An illegal (too-narrow) region whose Y-span contains an adjacent
	// legal region's Y-span pulls the legal region's left boundary
	// back to its own, so the legal region extends over it.
	regions := []geometry.Rectangle{
		geometry.Rect(0, 0, 3, 10), // illegal: width 3 < 5, height 10
		geometry.Rect(3, 2, 20, 8), // legal: width 17 >= 5, height 6
	}
	out := RefineFreeRegions(regions, layer, Params{})

	// The illegal region's Y-span [0,10) fully contains the legal
	// one's [2,8), so the legal latter's x1 is pulled back to 0. The
	// illegal region itself is never removed, but it fails the final
	// width check (3 < 5) and is dropped from the result.
	require.Len(t, out, 1)
	assert.Equal(t, geometry.Rect(0, 2, 20, 8), out[0])
}
