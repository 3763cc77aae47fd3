package ioformat

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/arl/metalfill/process"
)

// Write re-serializes db in the same grammar Parse reads, field order
// preserved, so that parsing the result of Write reproduces an
// equivalent Database.
func Write(w io.Writer, db *process.Database) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "%d %d %d %d %d\n",
		db.ChipBoundary.X1, db.ChipBoundary.Y1, db.ChipBoundary.X2, db.ChipBoundary.Y2, db.WindowSize)

	var numConductor int
	for _, l := range db.Layers {
		numConductor += len(l.Conductors)
	}

	fmt.Fprintf(bw, "%d %d %d\n", len(db.CriticalNets), len(db.Layers), numConductor)
	for _, id := range db.CriticalNets {
		fmt.Fprintf(bw, "%d\n", id)
	}
	for _, l := range db.Layers {
		fmt.Fprintf(bw, "%d %d %d %d %g %g %g\n",
			l.ID, l.MinFillWidth, l.MinSpacing, l.MaxFillWidth, l.MinDensity, l.MaxDensity, l.Weight)
	}
	for _, l := range db.Layers {
		for _, c := range l.Conductors {
			fmt.Fprintf(bw, "%d %d %d %d %d %d %d\n", c.ID, c.X1, c.Y1, c.X2, c.Y2, c.NetID, l.ID)
		}
	}

	return bw.Flush()
}

// WriteResults writes one line per placed filler across layerResults,
// `x1 y1 x2 y2 layerId`, grouped by layer ID ascending.
func WriteResults(w io.Writer, results []LayerResult) error {
	sorted := make([]LayerResult, len(results))
	copy(sorted, results)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].LayerID < sorted[j].LayerID })

	bw := bufio.NewWriter(w)
	for _, r := range sorted {
		for _, f := range r.Fillers {
			fmt.Fprintf(bw, "%d %d %d %d %d\n", f.X1, f.Y1, f.X2, f.Y2, r.LayerID)
		}
	}
	return bw.Flush()
}

// LayerResult is the subset of solve.LayerResult the writer needs,
// duplicated here to avoid ioformat depending on the solve package —
// cmd/dummyfill adapts solve.LayerResult values into this shape at the
// call site.
type LayerResult struct {
	LayerID int64
	Fillers []*process.Filler
}
