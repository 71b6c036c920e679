package hierarchyops

import (
	"math"

	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
	"github.com/sarchlab/amrmesh/patch"
)

// noVolume is the sentinel the public API uses in place of a control-volume
// DescriptorId to request the unweighted form of a norm, mirroring the
// source's "vol_id < 0 means unweighted" convention.
const noVolume patch.DescriptorId = -1

// cvWeight returns the per-entry control-volume weight at flat offset i: 1
// when unweighted (cv == noVolume), otherwise the corresponding entry of the
// control-volume array (spec.md §4.5 "Control-volume convention": finest
// covering, non-coarse-covered cells weight 1; coarse-covered cells weight
// 0; boundary points carry the fractional/1.5x weights the cv array was
// built to already encode).
func cvWeight(p *patch.Patch, cv patch.DescriptorId, i int) float64 {
	if cv == noVolume {
		return 1
	}
	return p.Data(cv).Raw()[i]
}

// NumberOfEntries counts scalar entries across every patch in range, reduced
// with a SUM collective (spec.md §4.5 numberOfEntries). When interiorOnly is
// false, every patch's full allocated array (ghost-grown boundary plane
// included) is counted, even though that plane may also be counted by a
// neighboring patch that shares it. When interiorOnly is true, a Node/Face/
// Side/Edge array's shared boundary plane is counted on exactly one side of
// a same-level patch-patch interface — the side away from the level's
// global extent — and kept on both axes that coincide with the level's own
// outer boundary (the true, non-duplicated domain edge).
func (o *Ops) NumberOfEntries(dataId patch.DescriptorId, interiorOnly bool) int {
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
			arr := p.Data(dataId)
			if !interiorOnly {
				local += arr.Len()
				continue
			}
			local += interiorEntryCount(arr, p.Box, bbox)
		}
	}
	return int(meshmpi.AllReduceSum([]float64{float64(local)}))
}

// levelBoundingBox returns the union extent of every locally-owned patch's
// interior cell box on a level — the single-process stand-in for the
// level's global index-space bounding box.
func levelBoundingBox(patches []*patch.Patch) geom.Box {
	bbox := patches[0].Box
	for _, p := range patches[1:] {
		bbox.Lower = bbox.Lower.Min(p.Box.Lower)
		bbox.Upper = bbox.Upper.Max(p.Box.Upper)
	}
	return bbox
}

// interiorEntryCount counts arr's entries, dropping the ghost-grown upper
// plane on any axis DataBox extended (Node/Face/Side/Edge's "+1") unless
// that plane sits on the level's own outer boundary (levelBBox), per
// NumberOfEntries' interiorOnly convention.
func interiorEntryCount(arr *patch.Array, cellBox, levelBBox geom.Box) int {
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

// SumControlVolumes sums the control-volume array itself (spec.md §4.5
// sumControlVolumes), reduced with SUM.
func (o *Ops) SumControlVolumes(cv patch.DescriptorId) float64 {
	var local float64
	o.forEachPatch(func(p *patch.Patch) {
		for _, v := range p.Data(cv).Raw() {
			local += v
		}
	})
	return meshmpi.AllReduceSum([]float64{local})
}

// L1Norm computes sum(|x_i| * w_i), optionally control-volume weighted,
// reduced with SUM.
func (o *Ops) L1Norm(dataId patch.DescriptorId, cv patch.DescriptorId) float64 {
	var local float64
	o.forEachPatch(func(p *patch.Patch) {
		raw := p.Data(dataId).Raw()
		for i, v := range raw {
			local += math.Abs(v) * cvWeight(p, cv, i)
		}
	})
	return meshmpi.AllReduceSum([]float64{local})
}

// Dot computes sum(x_i * y_i * w_i), optionally control-volume weighted,
// reduced with SUM (spec.md §4.5 dot; the real-valued specialization of the
// source's complex dot, which separates real/imaginary reductions — real
// data has no imaginary part so a single SUM suffices here. See
// Ops.ComplexDot for the complex128 form.)
func (o *Ops) Dot(data1, data2 patch.DescriptorId, cv patch.DescriptorId) float64 {
	var local float64
	o.forEachPatch(func(p *patch.Patch) {
		a, b := p.Data(data1).Raw(), p.Data(data2).Raw()
		for i := range a {
			local += a[i] * b[i] * cvWeight(p, cv, i)
		}
	})
	return meshmpi.AllReduceSum([]float64{local})
}

// L2Norm computes sqrt(dot(x, x, cv)) (spec.md §4.5 L2Norm).
func (o *Ops) L2Norm(dataId patch.DescriptorId, cv patch.DescriptorId) float64 {
	return math.Sqrt(o.Dot(dataId, dataId, cv))
}

// WeightedL2Norm computes sqrt(sum((x_i*w_i)^2 * cv_i)) — spec.md §4.5
// weightedL2Norm, where w is a second per-entry weight array distinct from
// the control-volume array (e.g. an error-tolerance weight).
func (o *Ops) WeightedL2Norm(dataId, weightId patch.DescriptorId, cv patch.DescriptorId) float64 {
	var local float64
	o.forEachPatch(func(p *patch.Patch) {
		x, w := p.Data(dataId).Raw(), p.Data(weightId).Raw()
		for i := range x {
			term := x[i] * w[i]
			local += term * term * cvWeight(p, cv, i)
		}
	})
	return math.Sqrt(meshmpi.AllReduceSum([]float64{local}))
}

// RMSNorm computes L2Norm / sqrt(volume), where volume is either the entry
// count (unweighted) or SumControlVolumes (weighted) — spec.md §4.5
// RMSNorm.
func (o *Ops) RMSNorm(dataId patch.DescriptorId, cv patch.DescriptorId) float64 {
	l2 := o.L2Norm(dataId, cv)
	volume := o.volumeFor(dataId, cv)
	return l2 / math.Sqrt(volume)
}

// WeightedRMSNorm is the weighted analog of RMSNorm.
func (o *Ops) WeightedRMSNorm(dataId, weightId patch.DescriptorId, cv patch.DescriptorId) float64 {
	l2 := o.WeightedL2Norm(dataId, weightId, cv)
	volume := o.volumeFor(dataId, cv)
	return l2 / math.Sqrt(volume)
}

func (o *Ops) volumeFor(dataId patch.DescriptorId, cv patch.DescriptorId) float64 {
	if cv == noVolume {
		return float64(o.NumberOfEntries(dataId, true))
	}
	return o.SumControlVolumes(cv)
}

// MaxNorm computes max(|x_i|) where w_i > 0 (entries with zero control
// volume, i.e. coarse-covered cells, are excluded — spec.md §4.5 maxNorm),
// reduced with MAX.
func (o *Ops) MaxNorm(dataId patch.DescriptorId, cv patch.DescriptorId) float64 {
	var local float64
	o.forEachPatch(func(p *patch.Patch) {
		raw := p.Data(dataId).Raw()
		for i, v := range raw {
			if cvWeight(p, cv, i) == 0 {
				continue
			}
			if abs := math.Abs(v); abs > local {
				local = abs
			}
		}
	})
	return meshmpi.AllReduceMax([]float64{local})
}

// Integral computes sum(x_i * cv_i), reduced with SUM — spec.md §4.5
// integral. Unlike L1Norm this does not take an absolute value. Passing
// Unweighted as cv makes every weight 1, so the result is the plain sum.
func (o *Ops) Integral(dataId patch.DescriptorId, cv patch.DescriptorId) float64 {
	var local float64
	o.forEachPatch(func(p *patch.Patch) {
		raw := p.Data(dataId).Raw()
		for i, v := range raw {
			local += v * cvWeight(p, cv, i)
		}
	})
	return meshmpi.AllReduceSum([]float64{local})
}

// Unweighted is the public sentinel callers pass instead of a control-volume
// DescriptorId when a norm should run unweighted.
const Unweighted = noVolume
