package integrator

import (
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/patch"
)

// DefaultInjectionRefine is the integrator's built-in spatial refine
// operator: every fine cell takes its coarse parent's value directly
// (piecewise-constant injection). buildItems installs it as the RefineOp
// of every TIME_DEP and INPUT variable's refine.Item (spec.md §4.4
// "registers refine rules"); RegisterVariable takes no per-variable
// refine operator. A refine.Item built outside the integrator may carry
// any other operator.
func DefaultInjectionRefine(dst, src *patch.Array, region geom.Box, ratio geom.Ratio) {
	forEachIndexInBox(region, func(idx geom.Index) {
		coarseIdx := floorDivIndex(idx, ratio)
		for c := 0; c < dst.Depth; c++ {
			dst.Set(idx, c, src.At(coarseIdx, c))
		}
	})
}

// DefaultConservativeCoarsen averages every fine cell nested under one
// coarse cell into that coarse cell — the default coarsen rule spec.md
// §4.4 names for TIME_DEP's NEW→NEW synchronization transfer and for
// synchronizeNewLevels' CURRENT→CURRENT transfer.
func DefaultConservativeCoarsen(coarseArr *patch.Array, fineArr *patch.Array, fineBox geom.Box, ratio geom.Ratio) {
	cellsPerCoarse := 1
	for i := 0; i < ratio.Dim; i++ {
		cellsPerCoarse *= ratio.Get(i)
	}

	sums := make(map[geom.Index][]float64)
	forEachIndexInBox(fineBox, func(idx geom.Index) {
		coarseIdx := floorDivIndex(idx, ratio)
		acc, ok := sums[coarseIdx]
		if !ok {
			acc = make([]float64, fineArr.Depth)
			sums[coarseIdx] = acc
		}
		for c := 0; c < fineArr.Depth; c++ {
			acc[c] += fineArr.At(idx, c)
		}
	})

	for coarseIdx, acc := range sums {
		for c := range acc {
			coarseArr.Set(coarseIdx, c, acc[c]/float64(cellsPerCoarse))
		}
	}
}

// DefaultTimeInterpolate linearly blends old and newer into dst over
// region: dst = old + alpha*(newer-old), the default time-interpolation
// operator spec.md §4.4 requires TIME_DEP variables register between
// CURRENT and NEW on a coarser level that is mid-advance (§4.2 "optional
// time-interpolation operator", §4.3's per-transaction trigger rule).
func DefaultTimeInterpolate(dst, old, newer *patch.Array, region geom.Box, alpha float64) {
	clip := region.Intersect(dst.Box).Intersect(old.Box).Intersect(newer.Box)
	if clip.Empty() {
		return
	}
	depth := dst.Depth
	if old.Depth < depth {
		depth = old.Depth
	}
	if newer.Depth < depth {
		depth = newer.Depth
	}
	forEachIndexInBox(clip, func(idx geom.Index) {
		for c := 0; c < depth; c++ {
			o, n := old.At(idx, c), newer.At(idx, c)
			dst.Set(idx, c, o+alpha*(n-o))
		}
	})
}

func floorDivIndex(idx geom.Index, ratio geom.Ratio) geom.Index {
	coords := make([]int, idx.Dim)
	for i := 0; i < idx.Dim; i++ {
		v, r := idx.Coords[i], ratio.Get(i)
		q := v / r
		if v%r != 0 && v < 0 {
			q--
		}
		coords[i] = q
	}
	return geom.NewIndex(coords...)
}

func forEachIndexInBox(box geom.Box, fn func(geom.Index)) {
	zLo, zHi := 0, 0
	if box.Dim() == 3 {
		zLo, zHi = box.Lower.Coords[2], box.Upper.Coords[2]
	}
	for z := zLo; z <= zHi; z++ {
		for y := box.Lower.Coords[1]; y <= box.Upper.Coords[1]; y++ {
			for x := box.Lower.Coords[0]; x <= box.Upper.Coords[0]; x++ {
				if box.Dim() == 2 {
					fn(geom.NewIndex(x, y))
				} else {
					fn(geom.NewIndex(x, y, z))
				}
			}
		}
	}
}
