package patch

import (
	"fmt"

	"github.com/sarchlab/amrmesh/geom"
)

// Side selects the lower (0) or upper (1) boundary of an axis, used by
// OuterFace/OuterSide data and by the upfluxsum kernels (spec.md §6).
type Side int

const (
	Lower Side = 0
	Upper Side = 1
)

// DataBox returns the index-space box patch-data of the given centering
// occupies, when the patch's cell-centered interior is cellBox grown by
// ghostWidth. This is the concrete form of spec.md §3's per-centering
// geometry paragraph.
func DataBox(c Centering, cellBox geom.Box, ghostWidth int) geom.Box {
	grown := cellBox.Grow(ghostWidth)
	switch c.Kind {
	case Cell:
		return grown
	case Node:
		return geom.NewBox(grown.Lower, grown.Upper.AddScalar(1)).OnBlock(grown.Block).WithShift(grown.Shift)
	case Face, Side:
		return faceLikeBox(grown, c.Axis)
	case Edge:
		return edgeBox(grown, c.Axis)
	case OuterFace, OuterSide:
		return outerBox(grown, c.Axis, lowerSideOf(c))
	default:
		panic(fmt.Sprintf("patch: unknown centering kind %v", c.Kind))
	}
}

// lowerSideOf exists because OuterFace/OuterSide need a Side selector that
// Centering itself doesn't carry (a single outer variable has values on
// both the lower and upper boundary; DataBox here returns the full
// patch-boundary box spanning both, and callers index into the lower or
// upper plane via OuterPlane below).
func lowerSideOf(c Centering) Side { return Lower }

// faceLikeBox grows the index range by one on axis only (N+1 faces along
// the normal axis, N cells on every other axis), matching spec.md §3's
// Face/Side description.
func faceLikeBox(cellBox geom.Box, axis int) geom.Box {
	out := cellBox
	out.Upper.Coords[axis] = cellBox.Upper.Coords[axis] + 1
	return out
}

// edgeBox keeps the cell range along axis (edges run parallel to it) and
// grows the other axes by one (edges sit at node positions in the
// perpendicular directions).
func edgeBox(cellBox geom.Box, axis int) geom.Box {
	out := cellBox
	for i := 0; i < cellBox.Dim(); i++ {
		if i == axis {
			continue
		}
		out.Upper.Coords[i] = cellBox.Upper.Coords[i] + 1
	}
	return out
}

// outerBox returns the full face-like box; OuterPlane further restricts it
// to one boundary plane.
func outerBox(cellBox geom.Box, axis int, _ Side) geom.Box {
	return faceLikeBox(cellBox, axis)
}

// OuterPlane restricts a Face/Side-shaped box to the single boundary plane
// on the given side of axis — the actual index range an OuterFace/OuterSide
// array occupies (spec.md §3 "outer variants that live only on patch
// boundary sides/faces").
func OuterPlane(cellBox geom.Box, axis int, side Side) geom.Box {
	out := faceLikeBox(cellBox, axis)
	if side == Lower {
		out.Upper.Coords[axis] = out.Lower.Coords[axis]
	} else {
		out.Lower.Coords[axis] = out.Upper.Coords[axis]
	}
	return out
}

// Array is a strongly-typed per-variable data array: a Centering, a box
// (already expanded per DataBox), a depth (components per index point),
// and a flat backing store (spec.md §3 "Patch data").
type Array struct {
	Centering Centering
	Box       geom.Box
	Depth     int
	GhostWidth int

	data []float64
}

// NewArray allocates a zeroed Array for the given centering over cellBox
// with ghostWidth ghost cells and depth components per index point.
func NewArray(c Centering, cellBox geom.Box, ghostWidth, depth int) *Array {
	box := DataBox(c, cellBox, ghostWidth)
	return &Array{
		Centering:  c,
		Box:        box,
		Depth:      depth,
		GhostWidth: ghostWidth,
		data:       make([]float64, box.NumCells()*depth),
	}
}

// strides returns the row-major stride for each axis of a.Box, so index
// (i0..iD-1, d) maps to a flat offset.
func (a *Array) strides() []int {
	dim := a.Box.Dim()
	extents := make([]int, dim)
	for i := 0; i < dim; i++ {
		extents[i] = a.Box.Upper.Coords[i] - a.Box.Lower.Coords[i] + 1
	}
	strides := make([]int, dim)
	stride := a.Depth
	for i := dim - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= extents[i]
	}
	return strides
}

func (a *Array) offset(idx geom.Index, component int) int {
	strides := a.strides()
	off := component
	for i := 0; i < idx.Dim; i++ {
		off += (idx.Coords[i] - a.Box.Lower.Coords[i]) * strides[i]
	}
	return off
}

// At returns the value at idx, component.
func (a *Array) At(idx geom.Index, component int) float64 {
	return a.data[a.offset(idx, component)]
}

// Set writes the value at idx, component.
func (a *Array) Set(idx geom.Index, component int, v float64) {
	a.data[a.offset(idx, component)] = v
}

// Fill sets every entry (every component of every index point) to v.
func (a *Array) Fill(v float64) {
	for i := range a.data {
		a.data[i] = v
	}
}

// Raw exposes the flat backing slice for bulk elementwise operations
// (hierarchyops) that don't need per-axis indexing.
func (a *Array) Raw() []float64 { return a.data }

// Len returns the number of scalar entries (index points * depth).
func (a *Array) Len() int { return len(a.data) }

// InteriorBox returns the array's box shrunk back to zero ghost width (the
// "true" interior region owned by this patch, independent of how many
// ghost cells were allocated).
func (a *Array) InteriorBox(cellBox geom.Box) geom.Box {
	return DataBox(a.Centering, cellBox, 0)
}

// ComplexArray is the complex128 counterpart of Array, used for variables
// registered with ScalarType ComplexScalar (spec.md §4.5's "scalar type
// (int, float, double, complex)" requirement). Kept as a parallel type
// rather than making Array generic, so the existing float64 call sites in
// refine/integrator/kernels/monitor are untouched.
type ComplexArray struct {
	Centering Centering
	Box       geom.Box
	Depth     int
	GhostWidth int

	data []complex128
}

// NewComplexArray allocates a zeroed ComplexArray for the given centering,
// mirroring NewArray.
func NewComplexArray(c Centering, cellBox geom.Box, ghostWidth, depth int) *ComplexArray {
	box := DataBox(c, cellBox, ghostWidth)
	return &ComplexArray{
		Centering:  c,
		Box:        box,
		Depth:      depth,
		GhostWidth: ghostWidth,
		data:       make([]complex128, box.NumCells()*depth),
	}
}

func (a *ComplexArray) strides() []int {
	dim := a.Box.Dim()
	extents := make([]int, dim)
	for i := 0; i < dim; i++ {
		extents[i] = a.Box.Upper.Coords[i] - a.Box.Lower.Coords[i] + 1
	}
	strides := make([]int, dim)
	stride := a.Depth
	for i := dim - 1; i >= 0; i-- {
		strides[i] = stride
		stride *= extents[i]
	}
	return strides
}

func (a *ComplexArray) offset(idx geom.Index, component int) int {
	strides := a.strides()
	off := component
	for i := 0; i < idx.Dim; i++ {
		off += (idx.Coords[i] - a.Box.Lower.Coords[i]) * strides[i]
	}
	return off
}

// At returns the value at idx, component.
func (a *ComplexArray) At(idx geom.Index, component int) complex128 {
	return a.data[a.offset(idx, component)]
}

// Set writes the value at idx, component.
func (a *ComplexArray) Set(idx geom.Index, component int, v complex128) {
	a.data[a.offset(idx, component)] = v
}

// Fill sets every entry to v.
func (a *ComplexArray) Fill(v complex128) {
	for i := range a.data {
		a.data[i] = v
	}
}

// Raw exposes the flat backing slice for bulk elementwise operations.
func (a *ComplexArray) Raw() []complex128 { return a.data }

// Len returns the number of scalar entries (index points * depth).
func (a *ComplexArray) Len() int { return len(a.data) }

// InteriorBox mirrors Array.InteriorBox.
func (a *ComplexArray) InteriorBox(cellBox geom.Box) geom.Box {
	return DataBox(a.Centering, cellBox, 0)
}
