package geom

import "fmt"

// BlockId identifies which mesh block a box lives on. Block 0 is the
// default single-block case.
type BlockId int

// PeriodicShift indexes a displacement in a geometry's periodic shift
// catalog. Zero means "not a periodic image".
type PeriodicShift int

// NoShift is the periodic shift number of a canonical (non-periodic-image)
// box.
const NoShift PeriodicShift = 0

// Box is the inclusive integer lattice between Lower and Upper,
// componentwise (Upper >= Lower on every axis), tagged with the block it
// lives on and an optional periodic shift number (spec.md §3 "index and
// box").
type Box struct {
	Lower, Upper Index
	Block        BlockId
	Shift        PeriodicShift
}

// NewBox builds a canonical (non-periodic, block 0) box from a lower and
// upper index. Panics if upper < lower on any axis, mirroring the fatal
// "inconsistent inputs" contract of spec.md §7.
func NewBox(lower, upper Index) Box {
	b := Box{Lower: lower, Upper: upper}
	b.mustBeWellFormed()
	return b
}

// OnBlock returns a copy of the box tagged with the given block id.
func (b Box) OnBlock(block BlockId) Box {
	b.Block = block
	return b
}

// WithShift returns a copy of the box tagged with the given periodic shift
// number. A periodic image shares owner-rank and local-id with its
// canonical source (enforced at the BoxId layer, not here).
func (b Box) WithShift(shift PeriodicShift) Box {
	b.Shift = shift
	return b
}

func (b Box) mustBeWellFormed() {
	if b.Lower.Dim != b.Upper.Dim {
		panic("geom: box lower/upper dimension mismatch")
	}
	for i := 0; i < b.Lower.Dim; i++ {
		if b.Upper.Coords[i] < b.Lower.Coords[i] {
			panic(fmt.Sprintf("geom: box upper < lower on axis %d (%v, %v)", i, b.Lower, b.Upper))
		}
	}
}

// Dim returns the box's dimensionality.
func (b Box) Dim() int { return b.Lower.Dim }

// Empty reports whether the box has zero volume. A well-formed Box built by
// NewBox is never empty; Empty is used on results of Intersect.
func (b Box) Empty() bool {
	return b.Lower.Dim == 0
}

// NumCells returns the number of cells contained in the box.
func (b Box) NumCells() int {
	if b.Empty() {
		return 0
	}
	n := 1
	for i := 0; i < b.Dim(); i++ {
		n *= b.Upper.Coords[i] - b.Lower.Coords[i] + 1
	}
	return n
}

// Grow returns the box grown by width cells on every side of every axis
// (spec.md §4.1 "grow(B, w)").
func (b Box) Grow(width int) Box {
	var w Index
	w.Dim = b.Dim()
	for i := 0; i < w.Dim; i++ {
		w.Coords[i] = width
	}
	return b.GrowByIndex(w)
}

// GrowByIndex grows the box by a per-axis width.
func (b Box) GrowByIndex(width Index) Box {
	out := b
	out.Lower = b.Lower.Sub(width)
	out.Upper = b.Upper.Add(width)
	return out
}

// Shrink is the inverse of Grow.
func (b Box) Shrink(width int) Box {
	return b.Grow(-width)
}

// Intersect returns the intersection of b and other. The two boxes must
// share a block and periodic shift to be meaningfully intersected in raw
// index space; callers that need to compare across blocks/shifts must first
// transform into a common index space (spec.md §3 "Connector" contract).
// Returns an empty Box (Dim()==0) when disjoint.
func (b Box) Intersect(other Box) Box {
	if b.Dim() != other.Dim() {
		panic("geom: intersect dimension mismatch")
	}
	lower := b.Lower.Max(other.Lower)
	upper := b.Upper.Min(other.Upper)
	for i := 0; i < b.Dim(); i++ {
		if upper.Coords[i] < lower.Coords[i] {
			return Box{}
		}
	}
	out := Box{Lower: lower, Upper: upper, Block: b.Block, Shift: b.Shift}
	return out
}

// Intersects reports whether b and other overlap.
func (b Box) Intersects(other Box) bool {
	return !b.Intersect(other).Empty()
}

// Contains reports whether other is entirely contained in b.
func (b Box) Contains(other Box) bool {
	return b.Intersect(other).Equal(other)
}

// Equal reports structural equality, including block and shift.
func (b Box) Equal(other Box) bool {
	return b.Lower.Equal(other.Lower) && b.Upper.Equal(other.Upper) &&
		b.Block == other.Block && b.Shift == other.Shift
}

// Refine multiplies Lower by r and (Upper+1) by r then subtracts 1 from the
// scaled upper, per spec.md §3 "Refinement ratio".
func (b Box) Refine(r Ratio) Box {
	out := b
	out.Lower = b.Lower.Mul(r)
	out.Upper = b.Upper.AddScalar(1).Mul(r).AddScalar(-1)
	return out
}

// Coarsen divides the box by r. Ceiling controls the rounding direction:
// when true, the result is grown enough to contain the original (used when
// building fill/unfilled BoxLevels that must not lose cells); when false,
// the result is shrunk to fit entirely inside the original (spec.md §3
// "coarsening is the inverse, rounded to contain ... or to fit inside").
func (b Box) Coarsen(r Ratio, ceiling bool) Box {
	out := b
	for i := 0; i < b.Dim(); i++ {
		if ceiling {
			out.Lower.Coords[i] = floorDiv(b.Lower.Coords[i], r.Coords[i])
			out.Upper.Coords[i] = floorDiv(b.Upper.Coords[i], r.Coords[i])
		} else {
			out.Lower.Coords[i] = ceilDiv(b.Lower.Coords[i], r.Coords[i])
			out.Upper.Coords[i] = floorDiv(b.Upper.Coords[i]+1, r.Coords[i]) - 1
		}
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func ceilDiv(a, b int) int {
	return -floorDiv(-a, b)
}

// Translate shifts the box by delta (used to apply a periodic-shift-catalog
// displacement, or a block-to-block offset).
func (b Box) Translate(delta Index) Box {
	out := b
	out.Lower = b.Lower.Add(delta)
	out.Upper = b.Upper.Add(delta)
	return out
}

func (b Box) String() string {
	return fmt.Sprintf("Box[%v:%v blk=%d shift=%d]", b.Lower, b.Upper, b.Block, b.Shift)
}
