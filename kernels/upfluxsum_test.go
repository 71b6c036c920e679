package kernels_test

import (
	"testing"

	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/kernels"
	"github.com/sarchlab/amrmesh/patch"
)

func TestUpFluxSum2D0AccumulatesLowerBoundary(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0), geom.NewIndex(3, 3))
	flux := patch.NewArray(patch.FaceCentering(0), cellBox, 0, 1)
	flux.Fill(2.5)
	fluxSum := patch.NewArray(patch.OuterFaceCentering(0), cellBox, 0, 1)
	fluxSum.Fill(1.0)

	kernels.UpFluxSum(cellBox, 0, patch.Lower, flux, fluxSum)

	plane := patch.OuterPlane(cellBox, 0, patch.Lower)
	got := fluxSum.At(plane.Lower, 0)
	if got != 3.5 {
		t.Fatalf("expected accumulated value 3.5, got %v", got)
	}
}

func TestUpFluxSum3D2AccumulatesUpperBoundary(t *testing.T) {
	cellBox := geom.NewBox(geom.NewIndex(0, 0, 0), geom.NewIndex(2, 2, 2))
	flux := patch.NewArray(patch.SideCentering(2), cellBox, 0, 1)
	flux.Fill(1.0)
	fluxSum := patch.NewArray(patch.OuterSideCentering(2), cellBox, 0, 1)
	fluxSum.Fill(0.0)

	kernels.UpFluxSum3D2(cellBox, patch.Upper, flux, fluxSum)

	plane := patch.OuterPlane(cellBox, 2, patch.Upper)
	got := fluxSum.At(plane.Upper, 0)
	if got != 1.0 {
		t.Fatalf("expected accumulated value 1.0, got %v", got)
	}
}
