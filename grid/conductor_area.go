package grid

import "github.com/arl/metalfill/geometry"

// ConductorArea computes the metal area of t.Conductors inside t,
// counting same-net overlap only once via inclusion-exclusion.
// Conductors on different nets are never corrected for overlap: that
// would be a DRC violation upstream and is treated as nominally
// separate metal.
func ConductorArea(t *Tile) int64 {
	var area int64

	byNet := make(map[int64][]int)
	regions := make([]geometry.Rectangle, len(t.Conductors))
	for i, c := range t.Conductors {
		regions[i] = geometry.IntersectRegion(t.Rectangle, c.Rectangle)
		area += regions[i].Area()
		byNet[c.NetID] = append(byNet[c.NetID], i)
	}

	for _, idxs := range byNet {
		if len(idxs) <= 1 {
			continue
		}
		area += sameNetOverlapCorrection(regions, idxs)
	}
	return area
}

// frontierEntry pairs a k-way intersection region with the highest
// conductor index (within the net's index list) already folded into
// it, so the next round only extends with conductors that come after
// it — each k-subset of same-net conductors is then counted exactly
// once.
type frontierEntry struct {
	region geometry.Rectangle
	used   int // index into idxs
}

// sameNetOverlapCorrection returns the signed inclusion-exclusion
// correction to add for one net's conductors, given their
// per-tile intersection regions indexed by idxs.
func sameNetOverlapCorrection(regions []geometry.Rectangle, idxs []int) int64 {
	frontier := make([]frontierEntry, len(idxs))
	for i, idx := range idxs {
		frontier[i] = frontierEntry{region: regions[idx], used: i}
	}

	var correction int64
	sign := int64(-1)
	for len(frontier) > 0 {
		var next []frontierEntry
		for _, f := range frontier {
			for j := f.used + 1; j < len(idxs); j++ {
				cand := geometry.IntersectRegion(f.region, regions[idxs[j]])
				if cand.Area() == 0 {
					continue
				}
				next = append(next, frontierEntry{region: cand, used: j})
				correction += sign * cand.Area()
			}
		}
		sign = -sign
		frontier = next
	}
	return correction
}
