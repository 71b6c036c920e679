package hierarchyops

import (
	"math"
	"math/cmplx"

	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
	"github.com/sarchlab/amrmesh/patch"
)

// NumberOfEntriesComplex is NumberOfEntries for a complex-valued descriptor.
func (o *Ops) NumberOfEntriesComplex(dataId patch.DescriptorId, interiorOnly bool) int {
	var local int
	for ln := o.Coarsest; ln <= o.Finest; ln++ {
		level := o.Hierarchy.Level(ln)
		patches := level.Patches()
		if len(patches) == 0 {
			continue
		}
		var bbox geom.Box
		if interiorOnly {
			bbox = levelBoundingBox(patches)
		}
		for _, p := range patches {
			arr := p.DataComplex(dataId)
			if !interiorOnly {
				local += arr.Len()
				continue
			}
			local += interiorEntryCountComplex(arr, p.Box, bbox)
		}
	}
	return int(meshmpi.AllReduceSum([]float64{float64(local)}))
}

// interiorEntryCountComplex mirrors interiorEntryCount for ComplexArray.
func interiorEntryCountComplex(arr *patch.ComplexArray, cellBox, levelBBox geom.Box) int {
	dim := arr.Box.Dim()
	count := arr.Depth
	for i := 0; i < dim; i++ {
		hi := cellBox.Upper.Coords[i]
		if arr.Box.Upper.Coords[i] > cellBox.Upper.Coords[i] && cellBox.Upper.Coords[i] == levelBBox.Upper.Coords[i] {
			hi++
		}
		count *= hi - cellBox.Lower.Coords[i] + 1
	}
	return count
}

// L1NormComplex computes sum(|x_i| * w_i), optionally control-volume
// weighted, reduced with SUM. The control-volume array itself is always
// real-valued regardless of the data's scalar type.
func (o *Ops) L1NormComplex(dataId patch.DescriptorId, cv patch.DescriptorId) float64 {
	var local float64
	o.forEachPatch(func(p *patch.Patch) {
		raw := p.DataComplex(dataId).Raw()
		for i, v := range raw {
			local += cmplx.Abs(v) * cvWeight(p, cv, i)
		}
	})
	return meshmpi.AllReduceSum([]float64{local})
}

// ComplexDot computes sum(x_i * conj(y_i) * w_i), optionally control-volume
// weighted, with the real and imaginary parts reduced independently with
// SUM — spec.md §4.5 dot's complex form, where the source's
// HierarchyNodeDataOpsComplex separates the two reductions.
func (o *Ops) ComplexDot(data1, data2 patch.DescriptorId, cv patch.DescriptorId) complex128 {
	var localRe, localIm float64
	o.forEachPatch(func(p *patch.Patch) {
		a, b := p.DataComplex(data1).Raw(), p.DataComplex(data2).Raw()
		for i := range a {
			term := a[i] * cmplx.Conj(b[i])
			w := cvWeight(p, cv, i)
			localRe += real(term) * w
			localIm += imag(term) * w
		}
	})
	re := meshmpi.AllReduceSum([]float64{localRe})
	im := meshmpi.AllReduceSum([]float64{localIm})
	return complex(re, im)
}

// L2NormComplex computes sqrt(real(ComplexDot(x, x, cv))) — the norm of a
// complex field is real by construction since x*conj(x) is.
func (o *Ops) L2NormComplex(dataId patch.DescriptorId, cv patch.DescriptorId) float64 {
	d := o.ComplexDot(dataId, dataId, cv)
	return math.Sqrt(real(d))
}

// MaxNormComplex computes max(|x_i|) where the control volume is nonzero,
// reduced with MAX.
func (o *Ops) MaxNormComplex(dataId patch.DescriptorId, cv patch.DescriptorId) float64 {
	var local float64
	o.forEachPatch(func(p *patch.Patch) {
		raw := p.DataComplex(dataId).Raw()
		for i, v := range raw {
			if cvWeight(p, cv, i) == 0 {
				continue
			}
			if m := cmplx.Abs(v); m > local {
				local = m
			}
		}
	})
	return meshmpi.AllReduceMax([]float64{local})
}
