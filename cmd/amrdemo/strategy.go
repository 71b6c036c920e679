package main

import (
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/integrator"
	"github.com/sarchlab/amrmesh/patch"
)

// advectionStrategy implements integrator.PatchStrategy for constant-velocity
// 2D linear advection, upwinded first order — the textbook model problem
// spec.md §8's end-to-end scenario is stated against, kept small enough to
// run as a demo without a real input-parser/equation-of-state layer.
type advectionStrategy struct {
	vx, vy float64
	dx, dy float64

	u      *patch.VariableDescriptor
	fluxX  *patch.VariableDescriptor
	fluxY  *patch.VariableDescriptor
}

func newAdvectionStrategy(vx, vy, dx, dy float64) *advectionStrategy {
	return &advectionStrategy{vx: vx, vy: vy, dx: dx, dy: dy}
}

func (a *advectionStrategy) RegisterModelVariables(i *integrator.HyperbolicLevelIntegrator) {
	a.u = i.RegisterVariable("u", patch.CellCentering(), 1, 1, patch.TimeDep)
	a.fluxX = i.RegisterVariable("flux_x", patch.FaceCentering(0), 1, 0, patch.Flux)
	a.fluxY = i.RegisterVariable("flux_y", patch.FaceCentering(1), 1, 0, patch.Flux)
}

// InitializeDataOnPatch seeds a square bump in the lower-left quadrant of
// the patch's box, in the Current context InitializeLevelData allocates
// before calling this hook.
func (a *advectionStrategy) InitializeDataOnPatch(p *patch.Patch, t float64, initial bool) {
	cur := p.Data(a.u.Contexts[patch.Current])
	box := p.Box
	midX := (box.Lower.Coords[0] + box.Upper.Coords[0]) / 2
	midY := (box.Lower.Coords[1] + box.Upper.Coords[1]) / 2

	for y := box.Lower.Coords[1]; y <= box.Upper.Coords[1]; y++ {
		for x := box.Lower.Coords[0]; x <= box.Upper.Coords[0]; x++ {
			v := 0.0
			if x <= midX && y <= midY {
				v = 1.0
			}
			cur.Set(geom.NewIndex(x, y), 0, v)
		}
	}
}

func (a *advectionStrategy) ComputeStableDtOnPatch(p *patch.Patch, initial bool, t float64) float64 {
	speed := abs(a.vx)/a.dx + abs(a.vy)/a.dy
	if speed == 0 {
		return 1.0
	}
	return 1.0 / speed
}

// ComputeFluxesOnPatch upwinds flux_x/flux_y from the Scratch copy of u,
// which FillData has already ghost-filled at tCur.
func (a *advectionStrategy) ComputeFluxesOnPatch(p *patch.Patch, t, dt float64) {
	u := p.Data(a.u.Contexts[patch.Scratch])
	fx := p.Data(a.fluxX.Contexts[patch.Scratch])
	fy := p.Data(a.fluxY.Contexts[patch.Scratch])

	box := p.Box
	for y := box.Lower.Coords[1]; y <= box.Upper.Coords[1]; y++ {
		for x := box.Lower.Coords[0]; x <= box.Upper.Coords[0]+1; x++ {
			left := u.At(geom.NewIndex(x-1, y), 0)
			right := u.At(geom.NewIndex(x, y), 0)
			fx.Set(geom.NewIndex(x, y), 0, upwind(a.vx, left, right))
		}
	}
	for y := box.Lower.Coords[1]; y <= box.Upper.Coords[1]+1; y++ {
		for x := box.Lower.Coords[0]; x <= box.Upper.Coords[0]; x++ {
			below := u.At(geom.NewIndex(x, y-1), 0)
			above := u.At(geom.NewIndex(x, y), 0)
			fy.Set(geom.NewIndex(x, y), 0, upwind(a.vy, below, above))
		}
	}
}

// ConservativeDifferenceOnPatch applies the standard finite-volume update
// u -= dt/dx*(flux_x[i+1]-flux_x[i]) + dt/dy*(flux_y[j+1]-flux_y[j]) in
// place on Scratch; the integrator copies the result into New afterward.
func (a *advectionStrategy) ConservativeDifferenceOnPatch(p *patch.Patch, t, dt float64, isSync bool) {
	u := p.Data(a.u.Contexts[patch.Scratch])
	fx := p.Data(a.fluxX.Contexts[patch.Scratch])
	fy := p.Data(a.fluxY.Contexts[patch.Scratch])

	box := p.Box
	for y := box.Lower.Coords[1]; y <= box.Upper.Coords[1]; y++ {
		for x := box.Lower.Coords[0]; x <= box.Upper.Coords[0]; x++ {
			idx := geom.NewIndex(x, y)
			dFx := fx.At(geom.NewIndex(x+1, y), 0) - fx.At(idx, 0)
			dFy := fy.At(geom.NewIndex(x, y+1), 0) - fy.At(idx, 0)
			u.Set(idx, 0, u.At(idx, 0)-dt/a.dx*dFx-dt/a.dy*dFy)
		}
	}
}

func (a *advectionStrategy) PreprocessAdvanceLevelState(level *patch.PatchLevel, t, dt float64, first, last, regrid bool) {
}

func (a *advectionStrategy) PostprocessAdvanceLevelState(level *patch.PatchLevel, t, dt float64, first, last, regrid bool) {
}

// SetPhysicalBoundaryConditions extends u into its ghost cells by
// zero-order extrapolation (outflow) — adequate for a bump that never
// reaches the domain edge during the demo's short run.
func (a *advectionStrategy) SetPhysicalBoundaryConditions(p *patch.Patch, t float64, ghostWidth int) {
	u := p.Data(a.u.Contexts[patch.Scratch])
	box := p.Box
	for g := 1; g <= ghostWidth; g++ {
		for y := box.Lower.Coords[1] - ghostWidth; y <= box.Upper.Coords[1]+ghostWidth; y++ {
			yy := clamp(y, box.Lower.Coords[1], box.Upper.Coords[1])
			u.Set(geom.NewIndex(box.Lower.Coords[0]-g, y), 0, u.At(geom.NewIndex(box.Lower.Coords[0], yy), 0))
			u.Set(geom.NewIndex(box.Upper.Coords[0]+g, y), 0, u.At(geom.NewIndex(box.Upper.Coords[0], yy), 0))
		}
		for x := box.Lower.Coords[0] - ghostWidth; x <= box.Upper.Coords[0]+ghostWidth; x++ {
			xx := clamp(x, box.Lower.Coords[0], box.Upper.Coords[0])
			u.Set(geom.NewIndex(x, box.Lower.Coords[1]-g), 0, u.At(geom.NewIndex(xx, box.Lower.Coords[1]), 0))
			u.Set(geom.NewIndex(x, box.Upper.Coords[1]+g), 0, u.At(geom.NewIndex(xx, box.Upper.Coords[1]), 0))
		}
	}
}

func (a *advectionStrategy) FillSingularityBoundaryConditions(p *patch.Patch, enconLevel *patch.PatchLevel, t float64) {
}

func (a *advectionStrategy) TagGradientDetectorCells(p *patch.Patch, t float64) {}

func (a *advectionStrategy) TagRichardsonExtrapolationCells(p *patch.Patch, t, deltaT float64) {}

func (a *advectionStrategy) GetRefineOpStencilWidth(dim int) int { return 1 }

func upwind(v, left, right float64) float64 {
	if v >= 0 {
		return v * left
	}
	return v * right
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// demoGridding is a fixed-ratio GriddingCollaborator, standing in for a
// real gridding algorithm the demo has no need to construct.
type demoGridding struct {
	ratio          int
	timeIntegrated bool
}

func (g demoGridding) GetErrorCoarsenRatio() int     { return g.ratio }
func (g demoGridding) EverUsesTimeIntegration() bool { return g.timeIntegrated }
