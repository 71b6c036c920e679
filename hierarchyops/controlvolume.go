package hierarchyops

import (
	"fmt"

	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/patch"
)

// BuildCellControlVolumes fills the cv array on every patch of level with
// cellVolume everywhere except cells coarse-covered by a finer patch, which
// get zero weight — the cell-centered case of spec.md §4.5's
// control-volume convention ("interior, non-coarse-covered cells ...
// contribute full weight; cells directly below a finer patch contribute
// zero weight").
//
// finerBoxes are the finer level's patch boxes, already coarsened into
// level's index space by the caller (geom.Box.Coarsen with ceiling=false,
// since a coarse cell only counts as covered when the whole finer region
// backing it is present).
//
func BuildCellControlVolumes(level *patch.PatchLevel, cv patch.DescriptorId, finerBoxes []geom.Box, cellVolume float64) {
	for _, p := range level.Patches() {
		arr := p.Data(cv)
		box := arr.Box

		zLo, zHi := 0, 0
		if box.Dim() == 3 {
			zLo, zHi = box.Lower.Coords[2], box.Upper.Coords[2]
		}

		for z := zLo; z <= zHi; z++ {
			for y := box.Lower.Coords[1]; y <= box.Upper.Coords[1]; y++ {
				for x := box.Lower.Coords[0]; x <= box.Upper.Coords[0]; x++ {
					idx := cellIndex(box.Dim(), x, y, z)
					if coveredByFiner(idx, box.Block, finerBoxes) {
						arr.Set(idx, 0, 0)
					} else {
						arr.Set(idx, 0, cellVolume)
					}
				}
			}
		}
	}
}

func cellIndex(dim, x, y, z int) geom.Index {
	if dim == 2 {
		return geom.NewIndex(x, y)
	}
	return geom.NewIndex(x, y, z)
}

func coveredByFiner(idx geom.Index, block geom.BlockId, finerBoxes []geom.Box) bool {
	point := geom.NewBox(idx, idx).OnBlock(block)
	for _, fb := range finerBoxes {
		if fb.Block != block {
			continue
		}
		if fb.Contains(point) {
			return true
		}
	}
	return false
}

// BuildBoundaryControlVolumes fills the cv array on every patch of level for
// a Node/Face/Side/Edge-centered variable, per spec.md §4.5's boundary
// convention: "node, face, side and edge points on a patch boundary
// contribute fractional weight proportional to the fraction of neighboring
// cells that are interior (½ on a regular face, ¼ on a corner in 2D, ⅛ at a
// 3D corner; at coarse-fine interfaces the weight is increased by 1.5 per
// involved direction so that the sum across levels equals the integral)."
//
// Every boundary point idx touches a fixed-size neighborhood of cells
// (neighborCellOffsets below): 2^D for Node, 2 for Face/Side, 2^(D-1) for
// Edge. The weight this patch assigns idx is cellVolume times the fraction
// of that neighborhood which falls inside this patch's own interior cells
// and is not coarse-covered by a finer patch — the same point computed on
// an adjoining patch (or, for a coarse-fine interface, scaled by
// coarseFineBump) contributes the complementary fraction, so summing
// across every owning patch (and every level) reproduces the cell volume
// exactly, matching BuildCellControlVolumes' cell-centered convention.
//
// finerBoxes, as in BuildCellControlVolumes, are the finer level's patch
// boxes already coarsened into level's index space.
func BuildBoundaryControlVolumes(level *patch.PatchLevel, cv patch.DescriptorId, centering patch.Centering, finerBoxes []geom.Box, cellVolume float64) {
	offsets := neighborCellOffsets(centering, level.Boxes.Ratio.Dim)
	total := len(offsets)

	for _, p := range level.Patches() {
		arr := p.Data(cv)
		box := arr.Box
		patchCells := p.Box.OnBlock(box.Block)

		zLo, zHi := 0, 0
		if box.Dim() == 3 {
			zLo, zHi = box.Lower.Coords[2], box.Upper.Coords[2]
		}

		for z := zLo; z <= zHi; z++ {
			for y := box.Lower.Coords[1]; y <= box.Upper.Coords[1]; y++ {
				for x := box.Lower.Coords[0]; x <= box.Upper.Coords[0]; x++ {
					idx := cellIndex(box.Dim(), x, y, z)

					present := 0
					coarseFineDirs := 0
					for _, off := range offsets {
						cellIdx := idx.Add(off)
						point := geom.NewBox(cellIdx, cellIdx).OnBlock(box.Block)
						if !patchCells.Contains(point) {
							continue
						}
						if coveredByFiner(cellIdx, box.Block, finerBoxes) {
							coarseFineDirs++
							continue
						}
						present++
					}

					weight := cellVolume * float64(present) / float64(total)
					if coarseFineDirs > 0 {
						weight *= 1 + 0.5*float64(coarseFineDirs)
					}
					arr.Set(idx, 0, weight)
				}
			}
		}
	}
}

// neighborCellOffsets returns the fixed cell-index offsets a boundary point
// of centering touches, relative to the point's own index.
//
//   - Node touches every diagonal neighbor: all combinations of {-1,0} over
//     every axis (2^dim offsets).
//   - Face/Side touches the two cells straddling the centering's axis only
//     (2 offsets): the rest of the index already coincides with a cell.
//   - Edge touches every diagonal neighbor in the plane perpendicular to its
//     axis, and coincides with a cell along its own axis (2^(dim-1)
//     offsets).
func neighborCellOffsets(c patch.Centering, dim int) []geom.Index {
	switch c.Kind {
	case patch.Node:
		return cartesianOffsets(dim, -1)
	case patch.Face, patch.Side:
		offsets := make([]geom.Index, 0, 2)
		for _, d := range []int{-1, 0} {
			coords := make([]int, dim)
			coords[c.Axis] = d
			offsets = append(offsets, geom.NewIndex(coords...))
		}
		return offsets
	case patch.Edge:
		return cartesianOffsetsExcept(dim, c.Axis)
	default:
		panic(fmt.Sprintf("hierarchyops: centering %v has no boundary control-volume convention", c))
	}
}

// cartesianOffsets returns every combination of {perAxis, 0} over dim axes.
func cartesianOffsets(dim, perAxis int) []geom.Index {
	n := 1 << uint(dim)
	out := make([]geom.Index, 0, n)
	for mask := 0; mask < n; mask++ {
		coords := make([]int, dim)
		for i := 0; i < dim; i++ {
			if mask&(1<<uint(i)) != 0 {
				coords[i] = perAxis
			}
		}
		out = append(out, geom.NewIndex(coords...))
	}
	return out
}

// cartesianOffsetsExcept is cartesianOffsets(dim, -1) with axis pinned to 0.
func cartesianOffsetsExcept(dim, axis int) []geom.Index {
	free := make([]int, 0, dim-1)
	for i := 0; i < dim; i++ {
		if i != axis {
			free = append(free, i)
		}
	}
	n := 1 << uint(len(free))
	out := make([]geom.Index, 0, n)
	for mask := 0; mask < n; mask++ {
		coords := make([]int, dim)
		for j, axisIdx := range free {
			if mask&(1<<uint(j)) != 0 {
				coords[axisIdx] = -1
			}
		}
		out = append(out, geom.NewIndex(coords...))
	}
	return out
}
