package sweep

import (
	"container/heap"

	"github.com/arl/assertgo"

	"github.com/arl/metalfill/geometry"
	"github.com/arl/metalfill/process"
)

// RefineFreeRegions runs the second, X-keyed sweep over the regions
// DiscoverFreeRegions returned: it merges adjacent legal regions that
// share a Y-span, lets a legal region eat into an adjacent narrow
// (illegal) one on its right, and extends a legal region leftward
// over an illegal one on its left whose Y-span contains it, so the
// filler generator only ever sees regions wide and tall enough to
// host a filler.
func RefineFreeRegions(freeRegions []geometry.Rectangle, layer *process.Layer, p Params) []geometry.Rectangle {
	minRegionWidth := layer.MinFillWidth + p.LowerLeftSpacing + p.UpperRightSpacing

	vertical := layer.Direction == process.DirVertical

	rs := newRefineState(minRegionWidth)
	for _, r := range freeRegions {
		if vertical {
			r = r.Transform()
		}
		rs.admit(r)
	}
	rs.run()

	out := rs.collect()
	for _, r := range out {
		assert.True(r.Width() >= minRegionWidth && r.Height() >= minRegionWidth,
			"refine emitted a region narrower than minRegionWidth")
	}
	if vertical {
		for i := range out {
			out[i] = out[i].Transform()
		}
	}
	return out
}

// region is a heap-allocated, mutable free region tracked through one
// refinement sweep. It never outlives RefineFreeRegions.
type region struct {
	x1, y1, x2, y2 int64
	legal          bool
}

func (r *region) width() int64  { return r.x2 - r.x1 }
func (r *region) height() int64 { return r.y2 - r.y1 }

type bucket struct {
	right map[*region]struct{} // regions closing here (formers)
	left  map[*region]struct{} // regions opening here (latters)
}

type int64Heap []int64

func (h int64Heap) Len() int            { return len(h) }
func (h int64Heap) Less(i, j int) bool  { return h[i] < h[j] }
func (h int64Heap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *int64Heap) Push(x interface{}) { *h = append(*h, x.(int64)) }
func (h *int64Heap) Pop() interface{} {
	old := *h
	n := len(old)
	v := old[n-1]
	*h = old[:n-1]
	return v
}

// refineState holds the bucket map and pending-key heap for one
// refinement sweep. Buckets may gain entries at already-visited keys
// (a region pulled leftward past the current sweep position); those
// wait for the final collection pass rather than being re-merged,
// since the sweep never revisits a processed key.
type refineState struct {
	minRegionWidth int64
	buckets        map[int64]*bucket
	pending        *int64Heap
	processed      map[int64]bool
}

func newRefineState(minRegionWidth int64) *refineState {
	h := &int64Heap{}
	heap.Init(h)
	return &refineState{
		minRegionWidth: minRegionWidth,
		buckets:        make(map[int64]*bucket),
		pending:        h,
		processed:      make(map[int64]bool),
	}
}

func (rs *refineState) bucketAt(x int64) *bucket {
	b, ok := rs.buckets[x]
	if !ok {
		b = &bucket{right: make(map[*region]struct{}), left: make(map[*region]struct{})}
		rs.buckets[x] = b
		heap.Push(rs.pending, x)
	}
	return b
}

// admit registers one discovered free region for refinement, dropping
// it outright if it is too short along the non-sweep axis to ever
// host a filler regardless of width.
func (rs *refineState) admit(r geometry.Rectangle) {
	if r.Height() < rs.minRegionWidth {
		return
	}
	reg := &region{x1: r.X1, y1: r.Y1, x2: r.X2, y2: r.Y2, legal: r.Width() >= rs.minRegionWidth}
	rs.bucketAt(reg.x1).left[reg] = struct{}{}
	rs.bucketAt(reg.x2).right[reg] = struct{}{}
}

func (rs *refineState) run() {
	for rs.pending.Len() > 0 {
		x := heap.Pop(rs.pending).(int64)
		if rs.processed[x] {
			continue
		}
		rs.processed[x] = true
		rs.mergeBucket(x, rs.buckets[x])
	}
}

func (rs *refineState) mergeBucket(x int64, b *bucket) {
	formers := make([]*region, 0, len(b.right))
	for r := range b.right {
		formers = append(formers, r)
	}
	latters := make([]*region, 0, len(b.left))
	for r := range b.left {
		latters = append(latters, r)
	}

	removed := make(map[*region]bool)

formerLoop:
	for _, former := range formers {
		for _, latter := range latters {
			if removed[latter] {
				continue
			}

			switch {
			case former.legal && latter.legal:
				if former.y1 == latter.y1 && former.y2 == latter.y2 {
					former.x2 = latter.x2
					rs.bucketAt(former.x2).right[former] = struct{}{}
					delete(b.left, latter)
					delete(rs.bucketAt(latter.x2).right, latter)
					removed[latter] = true
					continue formerLoop
				}

			case former.legal && !latter.legal:
				if latter.y1 <= former.y1 && former.y2 <= latter.y2 {
					former.x2 = latter.x2
					rs.bucketAt(former.x2).right[former] = struct{}{}

					if former.y1-latter.y1 >= rs.minRegionWidth {
						top := &region{x1: latter.x1, y1: latter.y1, x2: latter.x2, y2: former.y1}
						rs.bucketAt(top.x1).left[top] = struct{}{}
						rs.bucketAt(top.x2).right[top] = struct{}{}
					}
					if latter.y2-former.y2 >= rs.minRegionWidth {
						latter.y1 = former.y2
					} else {
						delete(b.left, latter)
						delete(rs.bucketAt(latter.x2).right, latter)
						removed[latter] = true
					}
					continue formerLoop
				}

			case !former.legal && latter.legal:
				if former.y1 <= latter.y1 && latter.y2 <= former.y2 {
					latter.x1 = former.x1
					rs.bucketAt(latter.x1).left[latter] = struct{}{}
					delete(b.left, latter)
					removed[latter] = true
					// Keep scanning: one illegal former may vertically
					// contain several legal latters.
					continue
				}
			}
		}
	}
}

// collect gathers every region still registered as a left-edge entry
// across all buckets — each surviving region appears in exactly one
// — keeping the ones that ended up wide and tall enough.
func (rs *refineState) collect() []geometry.Rectangle {
	var out []geometry.Rectangle
	for _, b := range rs.buckets {
		for r := range b.left {
			if r.width() >= rs.minRegionWidth && r.height() >= rs.minRegionWidth {
				out = append(out, geometry.Rect(r.x1, r.y1, r.x2, r.y2))
			}
		}
	}
	return out
}
