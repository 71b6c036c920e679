// Package refine implements the refine schedule builder and executor of
// spec.md §4.2/§4.3 (C6): computing which regions of a destination
// PatchLevel need filling from a source level and/or a coarser hierarchy
// level, and then executing that plan at a given time.
package refine

import "github.com/sarchlab/amrmesh/geom"

// Subtract removes every box in cuts from every box in boxes, returning the
// remaining region as a (non-minimal, possibly overlapping) list of boxes.
// Grounded on
// original_source/.../SAMRAI/xfer/RefineSchedule.cpp's repeated
// `BoxContainer::removeIntersections` calls when computing the unfilled
// region (spec.md §4.2 step 4 "subtract the per-box union of source
// contributions from the fill boxes").
func Subtract(boxes []geom.Box, cuts ...geom.Box) []geom.Box {
	remaining := append([]geom.Box(nil), boxes...)
	for _, cut := range cuts {
		var next []geom.Box
		for _, b := range remaining {
			next = append(next, subtractOne(b, cut)...)
		}
		remaining = next
	}
	return remaining
}

// subtractOne removes cut from b, returning the leftover pieces as an
// axis-by-axis "onion peel" decomposition: up to 2*dim boxes, none
// overlapping, whose union equals b minus cut. This is the same strategy
// SAMRAI's BoxContainer::removeIntersections uses internally (peel off a
// slab below and above the cut region on each axis in turn, then recurse
// into what remains on the next axis).
func subtractOne(b, cut geom.Box) []geom.Box {
	if b.Block != cut.Block || b.Shift != cut.Shift || !b.Intersects(cut) {
		return []geom.Box{b}
	}

	var pieces []geom.Box
	remaining := b
	for axis := 0; axis < b.Dim(); axis++ {
		if remaining.Lower.Coords[axis] < cut.Lower.Coords[axis] {
			slab := remaining
			slab.Upper.Coords[axis] = cut.Lower.Coords[axis] - 1
			pieces = append(pieces, slab)
			remaining.Lower.Coords[axis] = cut.Lower.Coords[axis]
		}
		if remaining.Upper.Coords[axis] > cut.Upper.Coords[axis] {
			slab := remaining
			slab.Lower.Coords[axis] = cut.Upper.Coords[axis] + 1
			pieces = append(pieces, slab)
			remaining.Upper.Coords[axis] = cut.Upper.Coords[axis]
		}
	}
	// remaining is now entirely inside cut; discard it.
	return pieces
}
