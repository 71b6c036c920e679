package refine

import (
	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/patch"
)

// buildEnconLevel constructs the auxiliary ghost level spec.md §4.2/§4.3
// step 7 passes to BoundaryFiller.SetSingularityBoundaryConditions: for
// every destination patch, the ghost-width footprint of every other block's
// data visible across an enhanced-connectivity singularity the patch's own
// block participates in, transformed into the patch's block coordinate
// system via geom.BlockGeometry.Transform, so the collaborator reads across
// the singularity the same way PatchStrategy.SetPhysicalBoundaryConditions
// reads an ordinary same-block ghost cell.
//
// Grounded on original_source/.../RefineSchedule.cpp's d_encon_level: a
// second PatchLevel, same index space and level number as Dst, holding only
// the transformed encon ghost data, built once per FillData call and handed
// to the strategy callback instead of nil.
func buildEnconLevel(s *Schedule, width int) *patch.PatchLevel {
	if s.Geometry == nil || !s.Geometry.HasSingularities() || width <= 0 {
		return nil
	}

	boxes := boxlevel.NewBoxLevel(s.Comm, s.Dst.Boxes.Rank, s.Dst.Boxes.Ratio)
	transforms := make(map[boxlevel.BoxId]geom.BlockTransform)
	sources := make(map[boxlevel.BoxId]*patch.Patch)

	dstPatches := s.Dst.Patches()
	for _, dstMb := range s.Dst.Boxes.Local() {
		dstPatch, ok := s.Dst.Patch(dstMb.Id)
		if !ok {
			continue
		}
		grown := dstMb.Box.Grow(width).OnBlock(dstMb.Box.Block)

		for _, srcPatch := range dstPatches {
			if srcPatch.Box.Block == dstPatch.Box.Block {
				continue
			}
			if !s.Geometry.IsSingularity(srcPatch.Box.Block, dstPatch.Box.Block) {
				continue
			}
			t, ok := s.Geometry.Transform(srcPatch.Box.Block, dstPatch.Box.Block)
			if !ok {
				continue
			}

			transformed := transformBox(t, srcPatch.Box)
			overlap := grown.Intersect(transformed)
			if overlap.Empty() {
				continue
			}

			id := boxes.AddBox(overlap)
			transforms[id] = t
			sources[id] = srcPatch
		}
	}

	if boxes.NumLocal() == 0 {
		return nil
	}

	aux := patch.NewPatchLevel(s.Dst.Level, boxes)
	for _, it := range s.Items {
		vd := &patch.VariableDescriptor{Centering: it.Centering, Depth: 1, GhostWidth: 0}
		aux.AllocateOnLevel(it.Dst, vd)
	}

	for _, mb := range boxes.Local() {
		auxPatch, ok := aux.Patch(mb.Id)
		if !ok {
			continue
		}
		src := sources[mb.Id]
		t := transforms[mb.Id]
		for _, it := range s.Items {
			if !src.HasData(it.Dst) || !auxPatch.HasData(it.Dst) {
				continue
			}
			dstArr := auxPatch.Data(it.Dst)
			copyTransformed(dstArr, src.Data(it.Dst), t, dstArr.Box)
		}
	}

	return aux
}

// transformBox maps box (on t.From) into t.To's coordinate system. A
// rotation's sign flip can swap which transformed corner is componentwise
// smaller, so the two transformed corners are re-sorted into a canonical
// box rather than assumed to stay Lower/Upper.
func transformBox(t geom.BlockTransform, box geom.Box) geom.Box {
	c1 := t.Apply(box.Lower)
	c2 := t.Apply(box.Upper)
	return geom.NewBox(c1.Min(c2), c2.Max(c1)).OnBlock(t.To)
}

// inverseApply maps idx from t.To's coordinate system back into t.From's,
// undoing BlockTransform.Apply's permutation+sign+offset. Block transforms
// are symmetric per BlockTransform's doc comment, but the geometry only
// stores one direction per ordered pair, so copyTransformed inverts the
// direction it was given rather than requiring a second registered
// transform.
func inverseApply(t geom.BlockTransform, idx geom.Index) geom.Index {
	shifted := idx.Sub(t.Offset)
	out := shifted
	for i := 0; i < idx.Dim; i++ {
		k := t.Rotation[i]
		axis, sign := k, 1
		if k < 0 {
			axis, sign = -k, -1
		}
		out.Coords[i] = sign * shifted.Coords[axis-1]
	}
	return out
}

func enconIndex(dim, x, y, z int) geom.Index {
	if dim == 2 {
		return geom.NewIndex(x, y)
	}
	return geom.NewIndex(x, y, z)
}

// copyTransformed fills every point of dst (indexed in t.To's coordinate
// system) from src (indexed in t.From's) via inverseApply, for as much of
// dst's own allocated box as lands inside src's.
func copyTransformed(dst, src *patch.Array, t geom.BlockTransform, region geom.Box) {
	clip := region.Intersect(dst.Box)
	if clip.Empty() {
		return
	}
	depth := dst.Depth
	if src.Depth < depth {
		depth = src.Depth
	}

	zLo, zHi := 0, 0
	if clip.Dim() == 3 {
		zLo, zHi = clip.Lower.Coords[2], clip.Upper.Coords[2]
	}
	for z := zLo; z <= zHi; z++ {
		for y := clip.Lower.Coords[1]; y <= clip.Upper.Coords[1]; y++ {
			for x := clip.Lower.Coords[0]; x <= clip.Upper.Coords[0]; x++ {
				dstIdx := enconIndex(clip.Dim(), x, y, z)
				srcIdx := inverseApply(t, dstIdx)
				srcPoint := geom.NewBox(srcIdx, srcIdx).OnBlock(src.Box.Block)
				if !src.Box.Contains(srcPoint) {
					continue
				}
				for d := 0; d < depth; d++ {
					dst.Set(dstIdx, d, src.At(srcIdx, d))
				}
			}
		}
	}
}
