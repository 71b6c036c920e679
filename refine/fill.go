package refine

import (
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
	"github.com/sarchlab/amrmesh/patch"
)

// FillData executes a built Schedule's fill pipeline at time t, per
// spec.md §4.3's nine-step contract. doPhys selects whether the user's
// physical-boundary fill callback runs (step 6); it is skipped e.g. during
// a coarse-interpolation recursion where the caller fills boundaries once
// at the top level only.
func FillData(s *Schedule, t float64, doPhys bool, bf BoundaryFiller) {
	// Step 1: allocate scratch storage.
	s.allocateScratch()

	// Step 2: recursively fill CI at time t.
	if s.CoarseInterp != nil {
		FillData(s.CoarseInterp, t, false, bf)
	}

	// Step 3: refine CI into dst scratch at the cached overlaps.
	if s.CoarseInterpLevel != nil {
		s.applyRefineOperators()
	}

	// Steps 4-5: execute coarse then fine priority transaction queues.
	s.executeQueue(s.CoarsePriority, t)
	s.executeQueue(s.FinePriority, t)

	// Step 6: user physical-boundary fill.
	if doPhys && bf != nil {
		var scratchIds []patch.DescriptorId
		for _, it := range s.Items {
			scratchIds = append(scratchIds, it.Scratch)
		}
		for _, p := range s.Dst.Patches() {
			bf.SetPhysicalBoundaryConditions(p, t, scratchIds)
		}
	}

	// Step 7: user singularity-boundary fill, only when the geometry has
	// enhanced-connectivity singularities (spec.md §4.2 step 7). The
	// auxiliary level is built fresh each call from the current dst data —
	// see buildEnconLevel — so the collaborator sees the same data it would
	// reading across an ordinary same-block ghost cell, just transformed
	// into its own patch's coordinate system.
	if s.Geometry != nil && s.Geometry.HasSingularities() && bf != nil {
		aux := buildEnconLevel(s, s.FillWidth)
		for _, p := range s.Dst.Patches() {
			bf.SetSingularityBoundaryConditions(p, t, aux)
		}
	}

	// Step 8: copy scratch into destination.
	for _, it := range s.Items {
		if it.Scratch == it.Dst {
			continue
		}
		for _, p := range s.Dst.Patches() {
			if p.HasData(it.Scratch) && p.HasData(it.Dst) {
				p.CopyData(it.Dst, it.Scratch)
			}
		}
	}

	// Step 9: deallocate scratch that is not also the destination.
	s.deallocateScratch()
}

func (s *Schedule) allocateScratch() {
	for _, it := range s.Items {
		vd := &patch.VariableDescriptor{Centering: it.Centering, Depth: 1, GhostWidth: it.GhostWidth}
		s.Dst.AllocateOnLevel(it.Scratch, vd)
	}
	if s.CoarseInterpLevel != nil {
		for _, it := range s.Items {
			vd := &patch.VariableDescriptor{Centering: it.Centering, Depth: 1, GhostWidth: it.GhostWidth}
			s.CoarseInterpLevel.AllocateOnLevel(it.Src, vd)
		}
	}
}

func (s *Schedule) deallocateScratch() {
	for _, it := range s.Items {
		if it.Scratch == it.Dst {
			continue
		}
		s.Dst.DeallocateOnLevel(it.Scratch)
	}
}

func (s *Schedule) applyRefineOperators() {
	for _, dstPatch := range s.Dst.Patches() {
		region, ok := s.RefineOverlaps[dstPatch.Id]
		if !ok {
			continue
		}
		for _, it := range s.Items {
			if it.RefineOp == nil {
				continue
			}
			ratio := ratioBetween(s.Dst.Boxes.Ratio, s.CoarseInterpLevel.Boxes.Ratio)
			for _, ciPatch := range s.CoarseInterpLevel.Patches() {
				// CoarseInterpLevel was itself filled by the recursive
				// FillData call (step 2), which writes the (possibly
				// time-interpolated) coarser data into it.Scratch, the
				// same descriptor id as it.Dst — not it.Src, which
				// allocateScratch allocates on CoarseInterpLevel but
				// nothing writes.
				if !ciPatch.HasData(it.Scratch) || !dstPatch.HasData(it.Scratch) {
					continue
				}
				it.RefineOp(dstPatch.Data(it.Scratch), ciPatch.Data(it.Scratch), region, ratio)
			}
		}
	}
}

// executeQueue runs every transaction in queue: ship Item.Src/Scratch data
// for Region from the owning src patch to the owning dst patch. In this
// single-process model, same-patch and cross-patch transactions both
// resolve through the same communicator path (spec.md §5 names the
// send/receive transaction as the unit of work regardless of locality; the
// "local copy as an optimization" case collapses to a same-process
// SendAsync/Wait pair here since there is only one process).
func (s *Schedule) executeQueue(queue []Transaction, t float64) {
	var futures []*meshmpi.Future
	for _, tr := range queue {
		srcPatch, ok := s.Src.Patch(tr.SrcId)
		if !ok {
			continue
		}
		if !srcPatch.HasData(tr.Item.Src) {
			continue
		}
		futures = append(futures, s.Comm.SendAsync(meshmpi.TagRefineTransaction, tr.SrcId.Owner, tr.DstId.Owner, tr))
	}
	s.Comm.Drain()
	for _, f := range futures {
		f.Wait()
	}

	for _, tr := range queue {
		dstPatch, ok := s.Dst.Patch(tr.DstId)
		if !ok {
			continue
		}
		srcPatch, ok := s.Src.Patch(tr.SrcId)
		if !ok {
			continue
		}
		if !dstPatch.HasData(tr.Item.Scratch) || !srcPatch.HasData(tr.Item.Src) {
			continue
		}

		if alpha, ok := timeInterpAlpha(tr.Item, srcPatch, t); ok {
			tr.Item.TimeOp(dstPatch.Data(tr.Item.Scratch), srcPatch.Data(tr.Item.OldSrc), srcPatch.Data(tr.Item.NewSrc), tr.Region, alpha)
			continue
		}

		copyRegion(dstPatch.Data(tr.Item.Scratch), srcPatch.Data(tr.Item.Src), tr.Region)
	}
}

// timeInterpAlpha reports whether tr's transaction should time-interpolate
// rather than plain-copy (spec.md §4.3: "triggered per-transaction when
// the time stamp of the destination falls strictly between the old-source
// and new-source time stamps on a coarser level"). This only ever fires
// within a CoarseInterp recursion, where srcPatch lives on the real
// coarser hierarchy level: it must have both OldSrc (CURRENT) and NewSrc
// (NEW) allocated — i.e. the coarser level is mid-advance — with t
// strictly between their time stamps. Outside that window (no coarser
// level, coarser level not mid-advance, or t coinciding with one of the
// stamps) it reports false and the caller falls back to a plain copy.
func timeInterpAlpha(it Item, srcPatch *patch.Patch, t float64) (float64, bool) {
	if !it.HasTimeInterp || it.TimeOp == nil {
		return 0, false
	}
	if !srcPatch.HasData(it.OldSrc) || !srcPatch.HasData(it.NewSrc) {
		return 0, false
	}

	oldT, newT := srcPatch.Time(it.OldSrc), srcPatch.Time(it.NewSrc)
	lo, hi := oldT, newT
	if lo > hi {
		lo, hi = hi, lo
	}
	if t <= lo || t >= hi {
		return 0, false
	}

	return (t - oldT) / (newT - oldT), true
}

// copyRegion copies every index point and component inside region (clipped
// to both arrays' allocated boxes) from src into dst. Used to execute a
// same-level transaction's "ship the intersection of the fill boxes with
// src_box from S to D" (spec.md §4.2 step 3).
func copyRegion(dst, src *patch.Array, region geom.Box) {
	clip := region.Intersect(dst.Box).Intersect(src.Box)
	if clip.Empty() {
		return
	}
	depth := dst.Depth
	if src.Depth < depth {
		depth = src.Depth
	}

	switch clip.Dim() {
	case 2:
		for y := clip.Lower.Coords[1]; y <= clip.Upper.Coords[1]; y++ {
			for x := clip.Lower.Coords[0]; x <= clip.Upper.Coords[0]; x++ {
				idx := geom.NewIndex(x, y)
				for d := 0; d < depth; d++ {
					dst.Set(idx, d, src.At(idx, d))
				}
			}
		}
	default:
		for z := clip.Lower.Coords[2]; z <= clip.Upper.Coords[2]; z++ {
			for y := clip.Lower.Coords[1]; y <= clip.Upper.Coords[1]; y++ {
				for x := clip.Lower.Coords[0]; x <= clip.Upper.Coords[0]; x++ {
					idx := geom.NewIndex(x, y, z)
					for d := 0; d < depth; d++ {
						dst.Set(idx, d, src.At(idx, d))
					}
				}
			}
		}
	}
}
