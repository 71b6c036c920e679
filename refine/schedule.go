package refine

import (
	"fmt"

	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/connector"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/meshmpi"
	"github.com/sarchlab/amrmesh/patch"
)

// Transaction is one planned data transfer: ship the Region of Src's
// Scratch/Src descriptor into Dst's Scratch descriptor (spec.md §4.2 step
// 3 "ships the intersection of the fill boxes with src_box from S to D").
type Transaction struct {
	Item Item

	DstId, SrcId boxlevel.BoxId
	Region       geom.Box // expressed in the destination level's ratio space
	SamePatch    bool
}

// BoundaryFiller is the narrow slice of a user PatchStrategy the refine
// schedule executor needs (spec.md §4.2 "a patch strategy for ...
// physical-boundary fill, and singularity fill"). Kept separate from any
// larger integrator strategy interface per the cyclic-ownership Open
// Question decision in DESIGN.md: the schedule only ever calls these two
// methods, so it only ever depends on an interface that names them.
type BoundaryFiller interface {
	SetPhysicalBoundaryConditions(p *patch.Patch, t float64, scratchIds []patch.DescriptorId)
	SetSingularityBoundaryConditions(p *patch.Patch, t float64, auxLevel *patch.PatchLevel)
}

// Schedule is the built refine plan of spec.md §4.2: two priority
// transaction queues, an optional recursive coarse-interpolation schedule,
// cached refine overlaps, and the scratch ids fillData allocates and frees.
type Schedule struct {
	Items []Item

	Dst, Src *patch.PatchLevel
	Comm     *meshmpi.Communicator
	Geometry *geom.BlockGeometry

	CoarsePriority []Transaction
	FinePriority   []Transaction

	FillWidth int

	// CoarseInterp is the recursive schedule filling CI from the next
	// coarser hierarchy level, or nil if the fill boxes were fully
	// covered by Src (spec.md §4.2 step 5).
	CoarseInterp *Schedule
	// CoarseInterpLevel is "CI": the coarse-interpolation PatchLevel built
	// over the coarsened unfilled region.
	CoarseInterpLevel *patch.PatchLevel
	// RefineOverlaps caches, per destination BoxId, the region (in Dst's
	// ratio space) CoarseInterpLevel data should be refined into
	// (spec.md §4.2 step 6).
	RefineOverlaps map[boxlevel.BoxId]geom.Box

	NextCoarserLn int
}

// Build constructs a refine schedule filling dst from src (possibly nil)
// and, recursively, from coarser hierarchy levels, per spec.md §4.2's
// seven-step construction algorithm.
func Build(dst, src *patch.PatchLevel, items []Item, hierarchy *patch.PatchHierarchy,
	nextCoarserLn int, comm *meshmpi.Communicator, geometry *geom.BlockGeometry) *Schedule {

	s := &Schedule{
		Items:          items,
		Dst:            dst,
		Src:            src,
		Comm:           comm,
		Geometry:       geometry,
		NextCoarserLn:  nextCoarserLn,
		RefineOverlaps: make(map[boxlevel.BoxId]geom.Box),
	}

	// Step 1: boundary fill width = max ghost width across registered
	// scratch arrays.
	for _, it := range items {
		if it.GhostWidth > s.FillWidth {
			s.FillWidth = it.GhostWidth
		}
	}

	// Step 2: fill boxes = dst boxes grown by FillWidth (kept implicitly:
	// connector.New below grows the base level by its Width when finding
	// overlaps, which is exactly "grow to the selected ghost width").
	fillRatio := geom.UniformRatio(dst.Boxes.Ratio.Dim, max(s.FillWidth, 1))

	fillBoxes := make(map[boxlevel.BoxId]geom.Box, dst.Boxes.NumLocal())
	for _, mb := range dst.Boxes.Local() {
		fillBoxes[mb.Id] = mb.Box.Grow(s.FillWidth)
	}

	// Step 3: same-level transactions via the D->S connector.
	var contributed = map[boxlevel.BoxId][]geom.Box{}
	if src != nil {
		all := boxlevel.NewAllLevels()
		all.Register(src.Boxes)
		c := connector.New(dst.Boxes, src.Boxes, fillRatio)
		connector.FindOverlaps(c, geometry, all, false)

		for _, mb := range dst.Boxes.Local() {
			for _, e := range c.NeighborsOf(mb.Id) {
				for _, it := range items {
					t := Transaction{
						Item:      it,
						DstId:     e.Base,
						SrcId:     e.Head,
						Region:    e.Overlap,
						SamePatch: e.Base.Owner == e.Head.Owner && e.Base.Local == e.Head.Local,
					}
					s.addTransaction(t)
				}
				contributed[mb.Id] = append(contributed[mb.Id], e.Overlap)
			}
		}
	}

	// Step 4: unfilled regions = fill boxes minus contributed regions.
	unfilled := boxlevel.NewBoxLevel(comm, dst.Boxes.Rank, dst.Boxes.Ratio)
	for _, mb := range dst.Boxes.Local() {
		leftover := Subtract([]geom.Box{fillBoxes[mb.Id]}, contributed[mb.Id]...)
		for _, piece := range leftover {
			unfilled.AddBox(piece)
		}
	}

	if unfilled.NumLocal() == 0 || nextCoarserLn < 0 {
		return s
	}

	// Step 5: recursive coarse-interpolation plan.
	coarser := hierarchy.Level(nextCoarserLn)
	ratioToCoarser := ratioBetween(dst.Boxes.Ratio, coarser.Boxes.Ratio)
	ci := boxlevel.NewBoxLevel(comm, dst.Boxes.Rank, coarser.Boxes.Ratio)
	for _, mb := range unfilled.Local() {
		ci.AddBox(mb.Box.Coarsen(ratioToCoarser, true))
	}

	ciLevel := patch.NewPatchLevel(dst.Level, ci)
	s.CoarseInterpLevel = ciLevel

	s.CoarseInterp = Build(ciLevel, coarser, items, hierarchy, nextCoarserLn-1, comm, geometry)

	// Step 6: precompute refine overlaps — where CI data, refined back up
	// to dst's ratio, should be written into each dst patch's scratch.
	for i, mb := range ci.Local() {
		refined := mb.Box.Refine(ratioToCoarser)
		dstId := unfilled.Local()[i].Id // unfilled and ci were built in lockstep
		s.RefineOverlaps[dstId] = refined
	}

	return s
}

func (s *Schedule) addTransaction(t Transaction) {
	queue := &s.CoarsePriority
	if t.Item.Priority == FinePriority {
		queue = &s.FinePriority
	}
	if t.SamePatch {
		*queue = append([]Transaction{t}, *queue...)
	} else {
		*queue = append(*queue, t)
	}
}

func ratioBetween(fine, coarse geom.Ratio) geom.Ratio {
	if fine.Dim != coarse.Dim {
		panic(fmt.Sprintf("refine: ratio dimension mismatch %v vs %v", fine, coarse))
	}
	coords := make([]int, fine.Dim)
	for i := 0; i < fine.Dim; i++ {
		if fine.Coords[i]%coarse.Coords[i] != 0 {
			panic(fmt.Sprintf("refine: ratio %v not an integer multiple of %v", fine, coarse))
		}
		coords[i] = fine.Coords[i] / coarse.Coords[i]
	}
	return geom.NewRatio(coords...)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
