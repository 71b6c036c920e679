// Package integrator implements the hyperbolic level integrator (spec.md
// §4.4/C7): the component that drives one level's time advance, ghost
// fill, and flux-correction synchronization against a user-supplied
// PatchStrategy. Grounded directly on
// original_source/.../SAMRAI/algs/HyperbolicLevelIntegrator.cpp.
package integrator

import (
	"github.com/sarchlab/amrmesh/patch"
)

// PatchStrategy is the user-implemented contract spec.md §6's "Patch
// strategy interface" table names. Every method is called per-patch or
// per-level at the point named in that table.
type PatchStrategy interface {
	RegisterModelVariables(i *HyperbolicLevelIntegrator)
	InitializeDataOnPatch(p *patch.Patch, t float64, initial bool)
	ComputeStableDtOnPatch(p *patch.Patch, initial bool, t float64) float64
	ComputeFluxesOnPatch(p *patch.Patch, t, dt float64)
	ConservativeDifferenceOnPatch(p *patch.Patch, t, dt float64, isSync bool)
	PreprocessAdvanceLevelState(level *patch.PatchLevel, t, dt float64, first, last, regrid bool)
	PostprocessAdvanceLevelState(level *patch.PatchLevel, t, dt float64, first, last, regrid bool)
	SetPhysicalBoundaryConditions(p *patch.Patch, t float64, ghostWidth int)
	FillSingularityBoundaryConditions(p *patch.Patch, enconLevel *patch.PatchLevel, t float64)
	TagGradientDetectorCells(p *patch.Patch, t float64)
	TagRichardsonExtrapolationCells(p *patch.Patch, t, deltaT float64)
	GetRefineOpStencilWidth(dim int) int
}

// GriddingCollaborator is the narrow slice of the gridding algorithm
// interface the integrator itself needs (spec.md §6 "Gridding algorithm
// interface"); held as a plain non-owning field rather than the full
// gridding-algorithm type to avoid the cyclic-ownership hazard spec.md §9
// Q1 names.
type GriddingCollaborator interface {
	GetErrorCoarsenRatio() int
	EverUsesTimeIntegration() bool
}

// TagAndInitCollaborator is the other half of the same cyclic-ownership
// split: a gridding algorithm depends on the integrator only through this
// interface, never the other way around (§9 Q1).
type TagAndInitCollaborator interface {
	ApplyGradientDetector(hierarchy *patch.PatchHierarchy, ln int, t float64, initial, coarsest bool)
	ApplyRichardsonExtrapolation(level *patch.PatchLevel, t, deltaT float64, cycle int, coarsest, initial bool)
}
