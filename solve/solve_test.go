package solve

import (
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/internal/diag"
	"github.com/arl/metalfill/process"
)

func TestLayerEmptyLayerStillFillsToMinDensity(t *testing.T) {
	layer := &process.Layer{ID: 1, MinFillWidth: 5, MaxFillWidth: 20, MinSpacing: 2, MinDensity: 0.3, MaxDensity: 0.9}
	db := &process.Database{ChipBoundary: geometry.Rect(0, 0, 100, 100), WindowSize: 100, Layers: []*process.Layer{layer}}

	result := Layer(db, layer, NumTileForWindow, diag.NewContext(io.Discard))

	require.NotEmpty(t, result.Fillers)
	assert.Equal(t, process.DirHorizontal, layer.Direction)

	var occupied int64
	for _, f := range result.Fillers {
		occupied += f.Area()
	}
	assert.GreaterOrEqual(t, occupied, int64(3000)) // 30% of a 100x100 window
}

func TestLayerRespectsMaxDensity(t *testing.T) {
	layer := &process.Layer{ID: 1, MinFillWidth: 5, MaxFillWidth: 20, MinSpacing: 0, MinDensity: 0.1, MaxDensity: 0.5}
	db := &process.Database{ChipBoundary: geometry.Rect(0, 0, 100, 100), WindowSize: 100, Layers: []*process.Layer{layer}}

	result := Layer(db, layer, NumTileForWindow, diag.NewContext(io.Discard))

	var occupied int64
	for _, f := range result.Fillers {
		occupied += f.Area()
	}
	assert.LessOrEqual(t, occupied, int64(5000)) // 50% of a 100x100 window
}

func TestLayerNoOverlapWithExpandedConductors(t *testing.T) {
	cond := &process.Conductor{Rectangle: geometry.Rect(40, 0, 60, 100), NetID: 1}
	layer := &process.Layer{
		ID: 1, MinFillWidth: 5, MaxFillWidth: 20, MinSpacing: 4,
		MinDensity: 0.1, MaxDensity: 0.9, Conductors: []*process.Conductor{cond},
	}
	db := &process.Database{ChipBoundary: geometry.Rect(0, 0, 100, 100), WindowSize: 100, Layers: []*process.Layer{layer}}

	result := Layer(db, layer, NumTileForWindow, diag.NewContext(io.Discard))

	keepClear := cond.Rectangle.Expand(layer.MinSpacing/2, (layer.MinSpacing+1)/2)
	for _, f := range result.Fillers {
		assert.Zero(t, geometry.IntersectRegion(keepClear, f.Rectangle).Area(),
			"filler %v must not intersect the spacing-expanded conductor", f.Rectangle)
	}

	for i, a := range result.Fillers {
		for j, b := range result.Fillers {
			if i == j {
				continue
			}
			assert.Zero(t, geometry.IntersectRegion(a.Rectangle, b.Rectangle).Area(),
				"fillers must never overlap")
		}
	}
}

func TestAllRunsEveryLayer(t *testing.T) {
	layer1 := &process.Layer{ID: 1, MinFillWidth: 5, MaxFillWidth: 20, MinSpacing: 2, MinDensity: 0.1, MaxDensity: 0.9}
	layer2 := &process.Layer{ID: 2, MinFillWidth: 5, MaxFillWidth: 20, MinSpacing: 2, MinDensity: 0.1, MaxDensity: 0.9}
	db := &process.Database{ChipBoundary: geometry.Rect(0, 0, 100, 100), WindowSize: 100, Layers: []*process.Layer{layer1, layer2}}

	results := All(db, NumTileForWindow, diag.NewContext(io.Discard))
	require.Len(t, results, 2)
	assert.Equal(t, int64(1), results[0].LayerID)
	assert.Equal(t, int64(2), results[1].LayerID)
}
