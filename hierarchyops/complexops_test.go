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

func singleCellComplexHierarchy(t *testing.T) (*patch.PatchHierarchy, *patch.VariableDatabase, *patch.PatchLevel) {
	t.Helper()
	comm := meshmpi.NewCommunicator(1)
	boxes := boxlevel.NewBoxLevel(comm, 0, geom.NewRatio(1, 1))
	boxes.AddBox(geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(0, 0)))

	pl := patch.NewPatchLevel(0, boxes)
	h := patch.NewPatchHierarchy(geom.NewSingleBlockGeometry(2))
	h.AddLevel(0, pl)

	return h, patch.NewVariableDatabase(), pl
}

// TestComplexOpsArithmetic exercises add/swap/scale on ComplexScalar
// variables — part of spec.md §8 S3's "2D node complex hierarchy ops"
// algebraic sequence, on a single cell-centered cell with chosen values
// rather than S3's literal node-centered fixture, so no control-volume
// weights are involved.
func TestComplexOpsArithmetic(t *testing.T) {
	h, db, pl := singleCellComplexHierarchy(t)
	comm := meshmpi.NewCommunicator(1)
	ops := hierarchyops.New(h, comm, 0, 0)

	v0 := db.RegisterComplexVariable("v0", patch.CellCentering(), 1, 0, patch.Temporary)
	v1 := db.RegisterComplexVariable("v1", patch.CellCentering(), 1, 0, patch.Temporary)
	v2 := db.RegisterComplexVariable("v2", patch.CellCentering(), 1, 0, patch.Temporary)
	id0, id1, id2 := v0.Contexts[patch.Scratch], v1.Contexts[patch.Scratch], v2.Contexts[patch.Scratch]
	for _, id := range []patch.DescriptorId{id0, id1, id2} {
		pl.AllocateComplexOnLevel(id, &patch.VariableDescriptor{Centering: patch.CellCentering(), Depth: 1})
	}

	ops.SetToScalarComplex(id0, complex(3, 4))
	ops.SetToScalarComplex(id1, complex(1, 2))

	ops.AddComplex(id2, id0, id1)
	p := pl.Patches()[0]
	if got := p.DataComplex(id2).Raw()[0]; got != complex(4, 6) {
		t.Fatalf("AddComplex = %v, want (4+6i)", got)
	}

	ops.SwapDataComplex(id0, id1)
	if got := p.DataComplex(id0).Raw()[0]; got != complex(1, 2) {
		t.Fatalf("after swap v0 = %v, want (1+2i)", got)
	}
	if got := p.DataComplex(id1).Raw()[0]; got != complex(3, 4) {
		t.Fatalf("after swap v1 = %v, want (3+4i)", got)
	}

	ops.ScaleComplex(id0, 2, id1)
	if got := p.DataComplex(id0).Raw()[0]; got != complex(6, 8) {
		t.Fatalf("ScaleComplex = %v, want (6+8i)", got)
	}
}

// TestComplexNormsAndAbs checks ComplexDot/L2NormComplex/MaxNormComplex/
// AbsComplex against a 3-4-5 triangle, unweighted.
func TestComplexNormsAndAbs(t *testing.T) {
	h, db, pl := singleCellComplexHierarchy(t)
	comm := meshmpi.NewCommunicator(1)
	ops := hierarchyops.New(h, comm, 0, 0)

	v0 := db.RegisterComplexVariable("v0", patch.CellCentering(), 1, 0, patch.Temporary)
	v1 := db.RegisterComplexVariable("v1", patch.CellCentering(), 1, 0, patch.Temporary)
	id0, id1 := v0.Contexts[patch.Scratch], v1.Contexts[patch.Scratch]
	pl.AllocateComplexOnLevel(id0, &patch.VariableDescriptor{Centering: patch.CellCentering(), Depth: 1})
	pl.AllocateComplexOnLevel(id1, &patch.VariableDescriptor{Centering: patch.CellCentering(), Depth: 1})

	mag := db.RegisterVariable("mag", patch.CellCentering(), 1, 0, patch.Temporary)
	magId := mag.Contexts[patch.Scratch]
	pl.AllocateOnLevel(magId, mag)

	ops.SetToScalarComplex(id0, complex(3, 4))
	ops.SetToScalarComplex(id1, complex(1, 2))

	dot := ops.ComplexDot(id0, id1, hierarchyops.Unweighted)
	// (3+4i)*conj(1+2i) = (3+4i)*(1-2i) = 3 - 6i + 4i - 8i^2 = 11 - 2i.
	if dot != complex(11, -2) {
		t.Fatalf("ComplexDot(v0,v1) = %v, want (11-2i)", dot)
	}

	l2 := ops.L2NormComplex(id0, hierarchyops.Unweighted)
	if math.Abs(l2-5) > 1e-9 {
		t.Fatalf("L2NormComplex(v0) = %v, want 5", l2)
	}

	maxNorm := ops.MaxNormComplex(id0, hierarchyops.Unweighted)
	if maxNorm != 5 {
		t.Fatalf("MaxNormComplex(v0) = %v, want 5", maxNorm)
	}

	ops.AbsComplex(magId, id0)
	if got := pl.Patches()[0].Data(magId).Raw()[0]; got != 5 {
		t.Fatalf("AbsComplex = %v, want 5", got)
	}
}
