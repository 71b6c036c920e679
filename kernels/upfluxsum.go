// Package kernels implements the integrator's flux-correction kernels
// (spec.md §6 "Flux kernels"). Expressed as ordinary Go loops rather than
// external-linkage per-dimension routines, per spec.md §9's "Fortran/native
// kernels" redesign note: the dimension/axis split these names encode is
// kept as a dispatch table, not as seven hand-duplicated loops.
package kernels

import (
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/patch"
)

// accumulate adds every value of flux on the axis/side boundary plane of
// cellBox into the matching slot of fluxSum (the outer-face/outer-side
// integral array). This is the one behavior all seven upfluxsum{...}
// routines implement, varying only in which axis and dimension they were
// compiled for.
func accumulate(cellBox geom.Box, axis int, side patch.Side, flux, fluxSum *patch.Array) {
	plane := patch.OuterPlane(cellBox, axis, side)
	depth := flux.Depth
	if fluxSum.Depth < depth {
		depth = fluxSum.Depth
	}

	zLo, zHi := 0, 0
	if plane.Dim() == 3 {
		zLo, zHi = plane.Lower.Coords[2], plane.Upper.Coords[2]
	}
	for z := zLo; z <= zHi; z++ {
		for y := plane.Lower.Coords[1]; y <= plane.Upper.Coords[1]; y++ {
			for x := plane.Lower.Coords[0]; x <= plane.Upper.Coords[0]; x++ {
				var idx geom.Index
				if plane.Dim() == 2 {
					idx = geom.NewIndex(x, y)
				} else {
					idx = geom.NewIndex(x, y, z)
				}
				for c := 0; c < depth; c++ {
					fluxSum.Set(idx, c, fluxSum.At(idx, c)+flux.At(idx, c))
				}
			}
		}
	}
}

// UpFluxSum1D accumulates the single boundary point of a 1D patch.
func UpFluxSum1D(cellBox geom.Box, side patch.Side, flux, fluxSum *patch.Array) {
	accumulate(cellBox, 0, side, flux, fluxSum)
}

// UpFluxSum2D0 accumulates the axis-0 boundary edge of a 2D patch.
func UpFluxSum2D0(cellBox geom.Box, side patch.Side, flux, fluxSum *patch.Array) {
	accumulate(cellBox, 0, side, flux, fluxSum)
}

// UpFluxSum2D1 accumulates the axis-1 boundary edge of a 2D patch.
func UpFluxSum2D1(cellBox geom.Box, side patch.Side, flux, fluxSum *patch.Array) {
	accumulate(cellBox, 1, side, flux, fluxSum)
}

// UpFluxSum3D0 accumulates the axis-0 boundary face of a 3D patch.
func UpFluxSum3D0(cellBox geom.Box, side patch.Side, flux, fluxSum *patch.Array) {
	accumulate(cellBox, 0, side, flux, fluxSum)
}

// UpFluxSum3D1 accumulates the axis-1 boundary face of a 3D patch.
func UpFluxSum3D1(cellBox geom.Box, side patch.Side, flux, fluxSum *patch.Array) {
	accumulate(cellBox, 1, side, flux, fluxSum)
}

// UpFluxSum3D2 accumulates the axis-2 boundary face of a 3D patch.
func UpFluxSum3D2(cellBox geom.Box, side patch.Side, flux, fluxSum *patch.Array) {
	accumulate(cellBox, 2, side, flux, fluxSum)
}

// UpFluxSum dispatches to the axis/dimension-specific routine matching
// cellBox's dimensionality and axis, mirroring the caller-side selection
// the original per-dimension kernel set required (spec.md §4.4 step 10).
func UpFluxSum(cellBox geom.Box, axis int, side patch.Side, flux, fluxSum *patch.Array) {
	switch cellBox.Dim() {
	case 1:
		UpFluxSum1D(cellBox, side, flux, fluxSum)
	case 2:
		if axis == 0 {
			UpFluxSum2D0(cellBox, side, flux, fluxSum)
		} else {
			UpFluxSum2D1(cellBox, side, flux, fluxSum)
		}
	default:
		switch axis {
		case 0:
			UpFluxSum3D0(cellBox, side, flux, fluxSum)
		case 1:
			UpFluxSum3D1(cellBox, side, flux, fluxSum)
		default:
			UpFluxSum3D2(cellBox, side, flux, fluxSum)
		}
	}
}
