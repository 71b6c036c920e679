package patch_test

import (
	"testing"

	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/patch"
)

func TestDataBoxCell(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9))
	got := patch.DataBox(patch.CellCentering(), cellBox, 0)
	if !got.Equal(cellBox) {
		t.Fatalf("cell databox = %v, want %v", got, cellBox)
	}
}

func TestDataBoxNodeIsOneWiderEachAxis(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9))
	got := patch.DataBox(patch.NodeCentering(), cellBox, 0)
	want := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(10, 10))
	if !got.Equal(want) {
		t.Fatalf("node databox = %v, want %v", got, want)
	}
}

func TestDataBoxFaceWidensOnlyNormalAxis(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9))
	got := patch.DataBox(patch.FaceCentering(0), cellBox, 0)
	want := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(10, 9))
	if !got.Equal(want) {
		t.Fatalf("face(0) databox = %v, want %v", got, want)
	}
}

func TestDataBoxEdgeWidensOtherAxes(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9))
	got := patch.DataBox(patch.EdgeCentering(0), cellBox, 0)
	want := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 10))
	if !got.Equal(want) {
		t.Fatalf("edge(0) databox = %v, want %v", got, want)
	}
}

func TestDataBoxWithGhostWidth(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9))
	got := patch.DataBox(patch.CellCentering(), cellBox, 2)
	want := geom.NewBox(geom.NewIndex(-2, -2), geom.NewIndex(11, 11))
	if !got.Equal(want) {
		t.Fatalf("ghosted cell databox = %v, want %v", got, want)
	}
}

func TestOuterPlaneRestrictsToOneSide(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(9, 9))
	lower := patch.OuterPlane(cellBox, 0, patch.Lower)
	upper := patch.OuterPlane(cellBox, 0, patch.Upper)

	if lower.Lower.Coords[0] != 0 || lower.Upper.Coords[0] != 0 {
		t.Fatalf("lower plane axis-0 range = [%d,%d], want [0,0]",
			lower.Lower.Coords[0], lower.Upper.Coords[0])
	}
	if upper.Lower.Coords[0] != 10 || upper.Upper.Coords[0] != 10 {
		t.Fatalf("upper plane axis-0 range = [%d,%d], want [10,10]",
			upper.Lower.Coords[0], upper.Upper.Coords[0])
	}
}

func TestArrayAtSetRoundTrip(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(3, 3))
	a := patch.NewArray(patch.CellCentering(), cellBox, 1, 2)

	idx := geom.NewIndex(2, 1)
	a.Set(idx, 1, 3.5)
	if got := a.At(idx, 1); got != 3.5 {
		t.Fatalf("At(%v,1) = %v, want 3.5", idx, got)
	}
	if got := a.At(idx, 0); got != 0 {
		t.Fatalf("At(%v,0) = %v, want 0 (untouched)", idx, got)
	}
}

func TestArrayFill(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(1, 1))
	a := patch.NewArray(patch.CellCentering(), cellBox, 0, 1)
	a.Fill(7)
	for _, v := range a.Raw() {
		if v != 7 {
			t.Fatalf("Fill(7) left entry %v", v)
		}
	}
}
