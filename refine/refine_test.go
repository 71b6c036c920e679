package refine_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
	"github.com/sarchlab/amrmesh/patch"
	"github.com/sarchlab/amrmesh/refine"
)

var _ = Describe("Schedule", func() {
	It("fills ghost cells from a same-level neighbor patch", func() {
		comm := meshmpi.NewCommunicator(1)
		boxes := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		boxA := boxes.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))
		boxB := boxes.AddBox(geom.NewBox(geom.NewIndex(10, 0), geom.NewIndex(19, 9)))

		level := patch.NewPatchLevel(0, boxes)
		db := patch.NewVariableDatabase()
		vd := db.RegisterVariable("density", patch.CellCentering(), 1, 0, patch.Temporary)
		currentId := vd.Contexts[patch.Scratch]
		level.AllocateOnLevel(currentId, vd)

		pa, _ := level.Patch(boxA)
		pa.Data(currentId).Fill(1)
		pb, _ := level.Patch(boxB)
		pb.Data(currentId).Fill(2)

		scratchVd := db.RegisterVariable("density.scratch", patch.CellCentering(), 1, 2, patch.Temporary)
		scratchId := scratchVd.Contexts[patch.Scratch]

		items := []refine.Item{{
			Name:       "density",
			Dst:        scratchId,
			Src:        currentId,
			Scratch:    scratchId,
			Centering:  patch.CellCentering(),
			GhostWidth: 2,
			Priority:   refine.CoarsePriority,
		}}

		sched := refine.Build(level, level, items, nil, -1, comm, nil)
		refine.FillData(sched, 0, false, nil)

		ghostIdx := geom.NewIndex(10, 5) // first ghost layer east of boxA, inside boxB
		got := pa.Data(scratchId).At(ghostIdx, 0)
		Expect(got).To(Equal(2.0))

		interiorIdx := geom.NewIndex(3, 3)
		Expect(pa.Data(scratchId).At(interiorIdx, 0)).To(Equal(1.0))
	})

	It("time-interpolates a TIME_DEP ghost fill from a mid-advance coarser level", func() {
		comm := meshmpi.NewCommunicator(1)

		coarseBoxes := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		coarseBoxes.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(7, 7)))
		coarseLevel := patch.NewPatchLevel(0, coarseBoxes)

		fineRatio := geom.NewRatio(2, 2)
		fineBoxes := boxlevel.NewBoxLevel(comm, 0, fineRatio)
		fineBoxId := fineBoxes.AddBox(geom.NewBox(geom.NewIndex(4, 4), geom.NewIndex(11, 11)))
		fineLevel := patch.NewPatchLevel(1, fineBoxes)

		hierarchy := patch.NewPatchHierarchy(nil)
		hierarchy.AddLevel(0, coarseLevel)
		hierarchy.AddLevel(1, fineLevel)

		db := patch.NewVariableDatabase()
		vd := db.RegisterVariable("u", patch.CellCentering(), 1, 2, patch.TimeDep)
		oldId := vd.Contexts[patch.Current]
		newId := vd.Contexts[patch.New]
		scratchId := vd.Contexts[patch.Scratch]

		coarseLevel.AllocateOnLevel(oldId, vd)
		coarseLevel.AllocateOnLevel(newId, vd)
		fineLevel.AllocateOnLevel(scratchId, vd)

		cp := coarseLevel.Patches()[0]
		cp.Data(oldId).Fill(10)
		cp.SetTime(oldId, 0.0)
		cp.Data(newId).Fill(20)
		cp.SetTime(newId, 1.0)

		items := []refine.Item{{
			Name:          "u",
			Dst:           scratchId,
			Src:           oldId,
			Scratch:       scratchId,
			Centering:     patch.CellCentering(),
			GhostWidth:    2,
			RefineOp:      injectRefine,
			OldSrc:        oldId,
			NewSrc:        newId,
			HasTimeInterp: true,
			TimeOp:        interpTime,
			Priority:      refine.CoarsePriority,
		}}

		sched := refine.Build(fineLevel, fineLevel, items, hierarchy, 0, comm, nil)
		refine.FillData(sched, 0.25, false, nil)

		fp, _ := fineLevel.Patch(fineBoxId)
		got := fp.Data(scratchId).At(geom.NewIndex(4, 4), 0)
		Expect(got).To(Equal(12.5)) // 10 + 0.25*(20-10)
	})

	It("builds an encon auxiliary level from a neighbor block across a singularity", func() {
		comm := meshmpi.NewCommunicator(1)
		boxes := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
		block0Id := boxes.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)))
		block1Id := boxes.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9)).OnBlock(1))

		level := patch.NewPatchLevel(0, boxes)
		db := patch.NewVariableDatabase()
		vd := db.RegisterVariable("u", patch.CellCentering(), 1, 1, patch.Temporary)
		currentId := vd.Contexts[patch.Scratch]
		level.AllocateOnLevel(currentId, vd)

		p0, _ := level.Patch(block0Id)
		p0.Data(currentId).Fill(0)
		p1, _ := level.Patch(block1Id)
		p1.Data(currentId).Fill(42)

		geometry := &geom.BlockGeometry{
			NumBlocks:     2,
			Transforms:    map[[2]geom.BlockId]geom.BlockTransform{},
			Singularities: map[geom.SingularityPair]bool{},
		}
		// Block 1 abuts block 0's east face: identity rotation, shifted ten
		// cells east so block1's own (0,0) lands on block0's (10,0).
		geometry.AddTransform(geom.BlockTransform{
			From: 1, To: 0,
			Rotation: [geom.MaxDim]int{1, 2, 0},
			Offset:   geom.NewIndex(10, 0),
		})
		geometry.MarkSingularity(0, 1)

		items := []refine.Item{{
			Name:       "u",
			Dst:        currentId,
			Src:        currentId,
			Scratch:    currentId,
			Centering:  patch.CellCentering(),
			GhostWidth: 1,
			Priority:   refine.CoarsePriority,
		}}

		sched := refine.Build(level, level, items, nil, -1, comm, geometry)
		filler := &singularityCapture{}
		refine.FillData(sched, 0, false, filler)

		Expect(filler.auxLevel).NotTo(BeNil())
		auxPatches := filler.auxLevel.Patches()
		Expect(auxPatches).To(HaveLen(1))

		auxArr := auxPatches[0].Data(currentId)
		// Block0's ghost footprint only reaches one cell past its own east
		// face (x=10); that column, transformed back from block1, reads
		// block1's fill value.
		got := auxArr.At(geom.NewIndex(10, 5), 0)
		Expect(got).To(Equal(42.0))
	})
})

// singularityCapture is a BoundaryFiller stub that records the non-nil
// auxiliary level refine.FillData's step 7 passes it, so tests can inspect
// what buildEnconLevel actually produced.
type singularityCapture struct {
	auxLevel *patch.PatchLevel
}

func (s *singularityCapture) SetPhysicalBoundaryConditions(*patch.Patch, float64, []patch.DescriptorId) {
}

func (s *singularityCapture) SetSingularityBoundaryConditions(_ *patch.Patch, _ float64, auxLevel *patch.PatchLevel) {
	if auxLevel != nil {
		s.auxLevel = auxLevel
	}
}

func injectRefine(dst, src *patch.Array, region geom.Box, ratio geom.Ratio) {
	for y := region.Lower.Coords[1]; y <= region.Upper.Coords[1]; y++ {
		for x := region.Lower.Coords[0]; x <= region.Upper.Coords[0]; x++ {
			idx := geom.NewIndex(x, y)
			coarseIdx := geom.NewIndex(x/ratio.Get(0), y/ratio.Get(1))
			for c := 0; c < dst.Depth; c++ {
				dst.Set(idx, c, src.At(coarseIdx, c))
			}
		}
	}
}

func interpTime(dst, old, newer *patch.Array, region geom.Box, alpha float64) {
	for y := region.Lower.Coords[1]; y <= region.Upper.Coords[1]; y++ {
		for x := region.Lower.Coords[0]; x <= region.Upper.Coords[0]; x++ {
			idx := geom.NewIndex(x, y)
			for c := 0; c < dst.Depth; c++ {
				o, n := old.At(idx, c), newer.At(idx, c)
				dst.Set(idx, c, o+alpha*(n-o))
			}
		}
	}
}
