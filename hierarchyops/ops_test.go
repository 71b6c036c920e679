package hierarchyops_test

import (
	"math"
	"testing"

	"github.com/sarchlab/amrmesh/boxlevel"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/hierarchyops"
	"github.com/sarchlab/amrmesh/meshmpi"
	"github.com/sarchlab/amrmesh/patch"
)

func singleLevelHierarchy(t *testing.T, cellBox geom.Box) (*patch.PatchHierarchy, *patch.VariableDatabase, patch.DescriptorId, patch.DescriptorId) {
	t.Helper()
	comm := meshmpi.NewCommunicator(1)
	boxes := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
	boxes.AddBox(cellBox)

	pl := patch.NewPatchLevel(0, boxes)
	h := patch.NewPatchHierarchy(geom.NewSingleBlockGeometry(2))
	h.AddLevel(0, pl)

	db := patch.NewVariableDatabase()
	vd := db.RegisterVariable("v", patch.CellCentering(), 1, 0, patch.Temporary)
	id := vd.Contexts[patch.Scratch]
	pl.AllocateOnLevel(id, vd)

	cvVd := db.RegisterVariable("cv", patch.CellCentering(), 1, 0, patch.Temporary)
	cvId := cvVd.Contexts[patch.Scratch]
	pl.AllocateOnLevel(cvId, cvVd)
	for _, p := range pl.Patches() {
		p.Data(cvId).Fill(1)
	}

	return h, db, id, cvId
}

func TestOpsArithmetic(t *testing.T) {
	h, _, id, _ := singleLevelHierarchy(t, geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(1, 1)))
	comm := meshmpi.NewCommunicator(1)
	ops := hierarchyops.New(h, comm, 0, 0)

	ops.SetToScalar(id, 2)
	for _, p := range h.Level(0).Patches() {
		for _, v := range p.Data(id).Raw() {
			if v != 2 {
				t.Fatalf("SetToScalar left %v, want 2", v)
			}
		}
	}

	ops.AddScalar(id, id, 3)
	for _, p := range h.Level(0).Patches() {
		for _, v := range p.Data(id).Raw() {
			if v != 5 {
				t.Fatalf("AddScalar left %v, want 5", v)
			}
		}
	}
}

func TestOpsLinearSumAxpyAxmy(t *testing.T) {
	h, db, _, _ := singleLevelHierarchy(t, geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(0, 0)))
	comm := meshmpi.NewCommunicator(1)
	ops := hierarchyops.New(h, comm, 0, 0)
	pl := h.Level(0)

	v0 := db.RegisterVariable("v0", patch.CellCentering(), 1, 0, patch.Temporary)
	v1 := db.RegisterVariable("v1", patch.CellCentering(), 1, 0, patch.Temporary)
	v2 := db.RegisterVariable("v2", patch.CellCentering(), 1, 0, patch.Temporary)
	v3 := db.RegisterVariable("v3", patch.CellCentering(), 1, 0, patch.Temporary)
	id0, id1, id2, id3 := v0.Contexts[patch.Scratch], v1.Contexts[patch.Scratch], v2.Contexts[patch.Scratch], v3.Contexts[patch.Scratch]
	for _, id := range []patch.DescriptorId{id0, id1, id2, id3} {
		pl.AllocateOnLevel(id, &patch.VariableDescriptor{Centering: patch.CellCentering(), Depth: 1})
	}

	ops.SetToScalar(id0, 1)
	ops.SetToScalar(id1, 2.5)
	ops.SetToScalar(id2, 7)

	ops.LinearSum(id3, 2, id1, 0, id0)
	for _, p := range pl.Patches() {
		if got := p.Data(id3).Raw()[0]; got != 5 {
			t.Fatalf("linearSum = %v, want 5", got)
		}
	}

	ops.Axpy(id3, 2, id1, id2)
	for _, p := range pl.Patches() {
		if got := p.Data(id3).Raw()[0]; got != 12 {
			t.Fatalf("axpy = %v, want 12", got)
		}
	}

	ops.Axmy(id3, 3, id1, id0)
	for _, p := range pl.Patches() {
		if got := p.Data(id3).Raw()[0]; got != 6.5 {
			t.Fatalf("axmy = %v, want 6.5", got)
		}
	}
}

func TestSumControlVolumesAndCoveredCellsAreZeroed(t *testing.T) {
	h, _, _, cvId := singleLevelHierarchy(t, geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(3, 3)))
	comm := meshmpi.NewCommunicator(1)
	ops := hierarchyops.New(h, comm, 0, 0)

	finer := []geom.Box{geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(1, 1))}
	hierarchyops.BuildCellControlVolumes(h.Level(0), cvId, finer, 1)

	sum := ops.SumControlVolumes(cvId)
	// 16 cells total, 4 covered by the finer box -> 12 remain at weight 1.
	if sum != 12 {
		t.Fatalf("sumControlVolumes = %v, want 12", sum)
	}
}

func TestL2NormAndMaxNormWeighted(t *testing.T) {
	h, _, id, cvId := singleLevelHierarchy(t, geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(1, 1)))
	comm := meshmpi.NewCommunicator(1)
	ops := hierarchyops.New(h, comm, 0, 0)

	p := h.Level(0).Patches()[0]
	p.Data(id).Raw()[0] = 3
	p.Data(id).Raw()[1] = 4
	p.Data(cvId).Raw()[2] = 0 // mark one cell as coarse-covered

	maxNorm := ops.MaxNorm(id, cvId)
	if maxNorm != 4 {
		t.Fatalf("maxNorm = %v, want 4", maxNorm)
	}

	l2 := ops.L2Norm(id, hierarchyops.Unweighted)
	want := math.Sqrt(3*3 + 4*4)
	if math.Abs(l2-want) > 1e-9 {
		t.Fatalf("L2Norm = %v, want %v", l2, want)
	}
}
