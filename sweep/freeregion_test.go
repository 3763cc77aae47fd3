package sweep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/grid"
	"github.com/arl/metalfill/process"
)

func newTestGrid(t *testing.T, conductors []*process.Conductor, direction process.Direction) (*grid.Grid, *process.Layer) {
	t.Helper()
	layer := &process.Layer{
		ID:           1,
		MinFillWidth: 5,
		MaxFillWidth: 20,
		MinSpacing:   2,
		MinDensity:   0.1,
		MaxDensity:   0.9,
		Direction:    direction,
		Conductors:   conductors,
	}
	db := &process.Database{
		ChipBoundary: geometry.Rect(0, 0, 100, 100),
		WindowSize:   100,
		Layers:       []*process.Layer{layer},
	}
	g := grid.New(db, layer, 4)
	g.InitGrid()
	return g, layer
}

func TestDiscoverFreeRegionsChipGlobalSplit(t *testing.T) {
	cond := &process.Conductor{Rectangle: geometry.Rect(40, 0, 60, 100), NetID: 1}
	g, layer := newTestGrid(t, []*process.Conductor{cond}, process.DirHorizontal)

	regions := DiscoverFreeRegions(g, layer, Params{}, g.NumTileRow(), g.NumTileCol())
	require.Len(t, regions, 2)

	var areas []int64
	for _, r := range regions {
		areas = append(areas, r.Area())
	}
	assert.ElementsMatch(t, []int64{4000, 4000}, areas)
}

func TestDiscoverFreeRegionsRespectsSpacing(t *testing.T) {
	cond := &process.Conductor{Rectangle: geometry.Rect(40, 0, 60, 100), NetID: 1}
	g, layer := newTestGrid(t, []*process.Conductor{cond}, process.DirHorizontal)

	regions := DiscoverFreeRegions(g, layer, Params{LowerLeftSpacing: 1, UpperRightSpacing: 1},
		g.NumTileRow(), g.NumTileCol())
	require.Len(t, regions, 2)
	for _, r := range regions {
		assert.LessOrEqual(t, r.Width(), int64(39))
	}
}

func TestDiscoverFreeRegionsNarrowGapClosedByExpansion(t *testing.T) {
	// Two conductors on the same row with a 3-unit gap between them and
	// minSpacing=4: after expansion by floor(4/2)/ceil(4/2) the copies
	// overlap, so no free region may survive inside the gap.
	conds := []*process.Conductor{
		{Rectangle: geometry.Rect(0, 40, 40, 60), NetID: 1},
		{Rectangle: geometry.Rect(43, 40, 100, 60), NetID: 1},
	}
	g, layer := newTestGrid(t, conds, process.DirHorizontal)

	regions := DiscoverFreeRegions(g, layer, Params{LowerLeftSpacing: 2, UpperRightSpacing: 2},
		g.NumTileRow(), g.NumTileCol())
	gap := geometry.Rect(40, 40, 43, 60)
	for _, r := range regions {
		assert.Zero(t, geometry.IntersectRegion(gap, r).Area(),
			"no free region may appear in the too-narrow gap, got %v", r)
	}
}

func TestDiscoverFreeRegionsEmptyLayerIsWholeBoundary(t *testing.T) {
	g, layer := newTestGrid(t, nil, process.DirHorizontal)
	regions := DiscoverFreeRegions(g, layer, Params{}, g.NumTileRow(), g.NumTileCol())
	require.Len(t, regions, 1)
	assert.Equal(t, geometry.Rect(0, 0, 100, 100), regions[0])
}

func TestDiscoverFreeRegionsVerticalLayerSplit(t *testing.T) {
	// A conductor spanning the full X range but only a band of Y should
	// split the boundary top/bottom for a VERTICAL layer (sweep axis
	// swapped internally), not left/right.
	cond := &process.Conductor{Rectangle: geometry.Rect(0, 40, 100, 60), NetID: 1}
	g, layer := newTestGrid(t, []*process.Conductor{cond}, process.DirVertical)

	regions := DiscoverFreeRegions(g, layer, Params{}, g.NumTileRow(), g.NumTileCol())
	require.Len(t, regions, 2)
	for _, r := range regions {
		assert.Equal(t, int64(100), r.Width())
		assert.Equal(t, int64(40), r.Height())
	}
}
