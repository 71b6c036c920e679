package refine

import (
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/patch"
)

// Priority selects which of a schedule's two transaction queues an item's
// transactions are placed in (spec.md §4.2 step 3).
type Priority int

const (
	// CoarsePriority is for data that does not live on patch borders, or
	// where coarser values must take precedence at coarse-fine boundaries
	// (cell-centered state, typically).
	CoarsePriority Priority = iota
	// FinePriority is for data where fine values on shared node/face/edge
	// points must win.
	FinePriority
)

// PriorityOf returns the default queue a variable of the given centering
// belongs in, per spec.md §4.2 step 3: node/face/side/edge data shares
// points across patch borders and fine values must win there; cell data
// does not share points and defaults to coarse priority.
func PriorityOf(c patch.Centering) Priority {
	if c.Kind == patch.Cell {
		return CoarsePriority
	}
	return FinePriority
}

// SpatialOperator interpolates src (on the coarser ratio) into dst (on the
// finer ratio) over region, the spatial refine operator of spec.md §4.2
// ("optional refine operator (spatial)").
type SpatialOperator func(dst *patch.Array, src *patch.Array, region geom.Box, ratio geom.Ratio)

// TimeOperator linearly interpolates old and new (both on the same ratio as
// dst) into dst over region at interpolation factor alpha in [0,1]
// (spec.md §4.2 "optional time-interpolation operator").
type TimeOperator func(dst, old, newer *patch.Array, region geom.Box, alpha float64)

// Item is one refine item: the (destination, source, scratch) descriptor
// triple plus optional operators, as enumerated in spec.md §4.2's
// "Inputs to construction".
type Item struct {
	Name string

	Dst, Src, Scratch patch.DescriptorId
	Centering         patch.Centering
	GhostWidth        int

	RefineOp SpatialOperator // nil => plain copy (same-ratio transfer)
	TimeOp   TimeOperator    // nil => no time interpolation

	// OldSrc/NewSrc/HasTimeInterp name the two source descriptors a
	// TimeOp interpolates between; only meaningful when HasTimeInterp.
	OldSrc, NewSrc patch.DescriptorId
	HasTimeInterp  bool

	Priority Priority
}
