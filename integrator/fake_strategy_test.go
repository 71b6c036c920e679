package integrator_test

import (
	"github.com/sarchlab/amrmesh/integrator"
	"github.com/sarchlab/amrmesh/patch"
)

// fakeStrategy is a hand-written PatchStrategy double that registers one
// TIME_DEP variable and records how many times each hook fires.
type fakeStrategy struct {
	varName    string
	centering  patch.Centering
	dt         float64
	fluxValue  float64

	initCalls              int
	computeFluxesCalls     int
	conservativeDiffCalls  int
	preprocessCalls        int
	postprocessCalls       int
}

func newFakeStrategy() *fakeStrategy {
	return &fakeStrategy{varName: "u", centering: patch.CellCentering(), dt: 1.0}
}

func (f *fakeStrategy) RegisterModelVariables(i *integrator.HyperbolicLevelIntegrator) {
	i.RegisterVariable(f.varName, f.centering, 1, 1, patch.TimeDep)
}

func (f *fakeStrategy) InitializeDataOnPatch(p *patch.Patch, t float64, initial bool) {
	f.initCalls++
}

func (f *fakeStrategy) ComputeStableDtOnPatch(p *patch.Patch, initial bool, t float64) float64 {
	return f.dt
}

func (f *fakeStrategy) ComputeFluxesOnPatch(p *patch.Patch, t, dt float64) {
	f.computeFluxesCalls++
}

func (f *fakeStrategy) ConservativeDifferenceOnPatch(p *patch.Patch, t, dt float64, isSync bool) {
	f.conservativeDiffCalls++
}

func (f *fakeStrategy) PreprocessAdvanceLevelState(level *patch.PatchLevel, t, dt float64, first, last, regrid bool) {
	f.preprocessCalls++
}

func (f *fakeStrategy) PostprocessAdvanceLevelState(level *patch.PatchLevel, t, dt float64, first, last, regrid bool) {
	f.postprocessCalls++
}

func (f *fakeStrategy) SetPhysicalBoundaryConditions(p *patch.Patch, t float64, ghostWidth int) {}

func (f *fakeStrategy) FillSingularityBoundaryConditions(p *patch.Patch, enconLevel *patch.PatchLevel, t float64) {
}

func (f *fakeStrategy) TagGradientDetectorCells(p *patch.Patch, t float64) {}

func (f *fakeStrategy) TagRichardsonExtrapolationCells(p *patch.Patch, t, deltaT float64) {}

func (f *fakeStrategy) GetRefineOpStencilWidth(dim int) int { return 1 }

// fakeGridding is a fixed-ratio GriddingCollaborator double.
type fakeGridding struct {
	ratio          int
	timeIntegrated bool
}

func (g fakeGridding) GetErrorCoarsenRatio() int      { return g.ratio }
func (g fakeGridding) EverUsesTimeIntegration() bool  { return g.timeIntegrated }
