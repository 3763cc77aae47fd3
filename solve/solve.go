// Package solve drives the per-layer fill placement pipeline: it
// derives a layer's spacing and density parameters, builds its grid,
// runs the discovery/generation/fallback sequence, and then the three
// reconciliation phases, handing the surviving fillers back to the
// caller for output.
package solve

import (
	"math"

	"github.com/arl/metalfill/engine"
	"github.com/arl/metalfill/grid"
	"github.com/arl/metalfill/internal/diag"
	"github.com/arl/metalfill/process"
	"github.com/arl/metalfill/sweep"
)

// NumTileForWindow is the default number of tiles per window side.
const NumTileForWindow = 4

// LayerResult is one layer's placed fillers, ready for the result
// writer.
type LayerResult struct {
	LayerID int64
	Fillers []*process.Filler
}

// Layer runs the full per-layer pipeline on layer, using
// numTileForWindow tiles per window side, and returns its surviving
// fillers.
func Layer(db *process.Database, layer *process.Layer, numTileForWindow int, dctx *diag.Context) LayerResult {
	if len(layer.Conductors) == 0 {
		dctx.Warningf("layer %d: no conductors, direction defaults to horizontal", layer.ID)
	}
	layer.DeriveDirection()

	p := sweep.Params{
		LowerLeftSpacing:  layer.MinSpacing / 2,
		UpperRightSpacing: (layer.MinSpacing + 1) / 2,
	}

	g := grid.New(db, layer, numTileForWindow)
	g.InitGrid()

	dctx.Progressf("layer %d: direction %s, density constraint [%.4f, %.4f]",
		layer.ID, layer.Direction, layer.MinDensity, layer.MaxDensity)
	dctx.Progressf("layer %d: window size %d, tile size %d, %dx%d tiles, %dx%d windows",
		layer.ID, db.WindowSize, g.TileSize(),
		g.NumTileRow(), g.NumTileCol(), g.NumWindowRow(), g.NumWindowCol())

	minDensityArea := int64(math.Ceil(float64(g.WindowArea()) * layer.MinDensity))
	maxDensityArea := int64(math.Floor(float64(g.WindowArea()) * layer.MaxDensity))

	dctx.StartTimer("layer")
	defer dctx.StopTimer("layer")

	min, max := g.MinMaxWindowDensity()
	dctx.Progressf("layer %d: after grid init, window density [%.4f, %.4f]", layer.ID, min, max)

	engine.FillGrid(g, layer, p, minDensityArea, dctx)
	min, max = g.MinMaxWindowDensity()
	dctx.Progressf("layer %d: after filling all tiles, window density [%.4f, %.4f]", layer.ID, min, max)

	engine.PhaseA(g, layer, minDensityArea, dctx)
	engine.PhaseB(g, layer, minDensityArea, maxDensityArea, dctx)
	engine.PhaseC(g, layer, minDensityArea, dctx)

	min, max = g.MinMaxWindowDensity()
	if min < layer.MinDensity || max > layer.MaxDensity {
		dctx.Warningf("layer %d: density [%.4f, %.4f] still outside [%.4f, %.4f], emitting best effort",
			layer.ID, min, max, layer.MinDensity, layer.MaxDensity)
	}

	return LayerResult{LayerID: layer.ID, Fillers: g.AllPlacedFillers()}
}

// All runs Layer over every layer of db, in declaration order.
func All(db *process.Database, numTileForWindow int, dctx *diag.Context) []LayerResult {
	results := make([]LayerResult, 0, len(db.Layers))
	for _, layer := range db.Layers {
		results = append(results, Layer(db, layer, numTileForWindow, dctx))
	}
	return results
}
