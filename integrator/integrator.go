package integrator

import (
	"fmt"
	"time"

	"github.com/sarchlab/amrmesh/config"
	"github.com/sarchlab/amrmesh/fatal"
	"github.com/sarchlab/amrmesh/geom"
	"github.com/sarchlab/amrmesh/hierarchyops"
	"github.com/sarchlab/amrmesh/kernels"
	"github.com/sarchlab/amrmesh/meshmpi"
	"github.com/sarchlab/amrmesh/patch"
	"github.com/sarchlab/amrmesh/refine"
	"github.com/sarchlab/amrmesh/restart"
)

// HyperbolicLevelIntegrator is the C7 component of spec.md §4.4: it owns
// variable registration, cached advance refine schedules, and the
// advance/synchronize/reset operation sequence a driver calls once per
// level per timestep.
type HyperbolicLevelIntegrator struct {
	Strategy PatchStrategy
	Gridding GriddingCollaborator
	Config   config.IntegratorConfig
	VarDB    *patch.VariableDatabase
	Comm     *meshmpi.Communicator
	Geometry *geom.BlockGeometry

	numberTimeDataLevels int
	variables            []*patch.VariableDescriptor
	haveFlux             bool
	fluxKind             patch.Kind

	advanceSchedules    map[int]*refine.Schedule
	advanceNewSchedules map[int]*refine.Schedule

	fluxAllocated map[int]bool
	timers        *phaseTimer
}

// New builds an integrator and immediately calls the strategy's
// RegisterModelVariables, mirroring spec.md §4.4's "once, setup" call
// (original_source/.../HyperbolicLevelIntegrator.cpp's constructor calls
// registerModelVariables through the patch strategy before returning).
func New(strategy PatchStrategy, gridding GriddingCollaborator, cfg config.IntegratorConfig, comm *meshmpi.Communicator, geometry *geom.BlockGeometry) *HyperbolicLevelIntegrator {
	if strategy == nil {
		fatal.Abort("HyperbolicLevelIntegrator", "patch strategy must not be nil")
	}

	i := &HyperbolicLevelIntegrator{
		Strategy:            strategy,
		Gridding:            gridding,
		Config:              cfg,
		VarDB:               patch.NewVariableDatabase(),
		Comm:                comm,
		Geometry:            geometry,
		numberTimeDataLevels: 2,
		advanceSchedules:    make(map[int]*refine.Schedule),
		advanceNewSchedules: make(map[int]*refine.Schedule),
		fluxAllocated:       make(map[int]bool),
		timers:              newPhaseTimer(),
	}
	if gridding != nil && gridding.GetErrorCoarsenRatio() == 3 && gridding.EverUsesTimeIntegration() {
		i.numberTimeDataLevels = 3
	}

	strategy.RegisterModelVariables(i)
	return i
}

// RegisterVariable assigns descriptor ids for name per role (spec.md
// §4.4) and enforces FLUX centering homogeneity: mixing face- and
// side-centered
// FLUX variables within one integrator is fatal (spec.md §4.4
// "Invariants enforced").
func (i *HyperbolicLevelIntegrator) RegisterVariable(name string, c patch.Centering, depth, ghostWidth int, role patch.Role) *patch.VariableDescriptor {
	if role == patch.Flux {
		if i.haveFlux && c.Kind != i.fluxKind {
			fatal.Abort("HyperbolicLevelIntegrator.RegisterVariable",
				fmt.Sprintf("mixed FLUX centering: %q is %s, but an earlier FLUX variable is %s", name, c.Kind, i.fluxKind))
		}
		i.haveFlux = true
		i.fluxKind = c.Kind
	}

	vd := i.VarDB.RegisterVariable(name, c, depth, ghostWidth, role)
	if role == patch.TimeDep && i.numberTimeDataLevels == 3 {
		i.VarDB.AddThreeTimeLevel(vd)
	}
	i.variables = append(i.variables, vd)
	return vd
}

// maxGhostWidth returns the widest ghost width among every registered
// variable, used to tell the user's SetPhysicalBoundaryConditions how
// wide a ghost region it must fill (spec.md §6 table).
func (i *HyperbolicLevelIntegrator) maxGhostWidth() int {
	w := 0
	for _, vd := range i.variables {
		if vd.GhostWidth > w {
			w = vd.GhostWidth
		}
	}
	return w
}

// boundaryFiller adapts PatchStrategy's physical/singularity boundary
// methods to refine.BoundaryFiller, the interface FillData invokes.
func (i *HyperbolicLevelIntegrator) boundaryFiller() refine.BoundaryFiller {
	return strategyBoundaryFiller{strategy: i.Strategy, ghostWidth: i.maxGhostWidth()}
}

type strategyBoundaryFiller struct {
	strategy   PatchStrategy
	ghostWidth int
}

func (f strategyBoundaryFiller) SetPhysicalBoundaryConditions(p *patch.Patch, t float64, scratchIds []patch.DescriptorId) {
	f.strategy.SetPhysicalBoundaryConditions(p, t, f.ghostWidth)
}

func (f strategyBoundaryFiller) SetSingularityBoundaryConditions(p *patch.Patch, t float64, auxLevel *patch.PatchLevel) {
	f.strategy.FillSingularityBoundaryConditions(p, auxLevel, t)
}

// buildItems constructs one refine.Item per registered variable whose
// role participates in ghost filling (TIME_DEP, INPUT), sourcing from
// srcCtx — CURRENT for the "advance" schedule, NEW for "advance-new"
// (spec.md §4.4 registerVariable's TIME_DEP bullet). TIME_DEP variables
// additionally register CURRENT/NEW as OldSrc/NewSrc with a time
// interpolation operator, per registerVariable's requirement that TIME_DEP
// variables "register refine rules that time-interpolate between CURRENT
// and NEW on coarser levels" (spec.md §4.3/§4.4) — the transaction executor
// (refine.Schedule.executeQueue) only actually interpolates when a
// coarser source patch has both contexts allocated and time-stamped on
// either side of the fill time; otherwise it falls back to the plain
// Src copy, same as an INPUT variable.
func (i *HyperbolicLevelIntegrator) buildItems(srcCtx patch.VariableContext) []refine.Item {
	var items []refine.Item
	for _, vd := range i.variables {
		if vd.Role != patch.TimeDep && vd.Role != patch.Input {
			continue
		}
		src, ok := vd.Contexts[srcCtx]
		if !ok {
			src = vd.Contexts[patch.Current]
		}
		scratch := vd.Contexts[patch.Scratch]
		item := refine.Item{
			Name:       vd.Name,
			Dst:        scratch,
			Src:        src,
			Scratch:    scratch,
			Centering:  vd.Centering,
			GhostWidth: vd.GhostWidth,
			RefineOp:   DefaultInjectionRefine,
			Priority:   refine.PriorityOf(vd.Centering),
		}

		if vd.Role == patch.TimeDep {
			oldSrc, hasOld := vd.Contexts[patch.Current]
			newSrc, hasNew := vd.Contexts[patch.New]
			if hasOld && hasNew {
				item.OldSrc = oldSrc
				item.NewSrc = newSrc
				item.HasTimeInterp = true
				item.TimeOp = DefaultTimeInterpolate
			}
		}

		items = append(items, item)
	}
	return items
}

// InitializeLevelData (re)initializes a new or regridded level: allocate
// CURRENT/NEW storage, fill SCRATCH ghosts with time-interpolation from
// any coarser level, call the user's InitializeDataOnPatch, and alias OLD
// to CURRENT for 3-time-level levels that can still be refined (spec.md
// §4.4 initializeLevelData).
func (i *HyperbolicLevelIntegrator) InitializeLevelData(hierarchy *patch.PatchHierarchy, ln int, t float64, canBeRefined, initial bool) {
	if ln < 0 || ln >= hierarchy.NumLevels() {
		fatal.Abort("HyperbolicLevelIntegrator.InitializeLevelData", fmt.Sprintf("no level %d in hierarchy", ln))
	}
	level := hierarchy.Level(ln)

	for _, vd := range i.variables {
		if cur, ok := vd.Contexts[patch.Current]; ok {
			level.AllocateOnLevel(cur, vd)
		}
		if nw, ok := vd.Contexts[patch.New]; ok {
			level.AllocateOnLevel(nw, vd)
		}
	}

	coarserLn := ln - 1
	if coarserLn >= 0 && hierarchy.CoarserLevel(ln) != nil {
		items := i.buildItems(patch.Current)
		if len(items) > 0 {
			sched := refine.Build(level, level, items, hierarchy, coarserLn, i.Comm, i.Geometry)
			refine.FillData(sched, t, true, i.boundaryFiller())
		}
	}

	for _, p := range level.Patches() {
		i.Strategy.InitializeDataOnPatch(p, t, initial)
	}

	if i.numberTimeDataLevels == 3 && canBeRefined {
		for _, vd := range i.variables {
			if vd.Role != patch.TimeDep {
				continue
			}
			old, ok := vd.Contexts[patch.Old]
			if !ok {
				continue
			}
			cur := vd.Contexts[patch.Current]
			for _, p := range level.Patches() {
				if !p.HasData(cur) {
					continue
				}
				p.Allocate(old, vd)
				p.CopyData(old, cur)
			}
		}
	}
}

// ResetHierarchyConfiguration rebuilds the cached advance refine
// schedules for levels [coarsest, finest] (spec.md §4.4
// resetHierarchyConfiguration).
func (i *HyperbolicLevelIntegrator) ResetHierarchyConfiguration(hierarchy *patch.PatchHierarchy, coarsest, finest int) {
	for ln := coarsest; ln <= finest; ln++ {
		if ln < 0 || ln >= hierarchy.NumLevels() {
			continue
		}
		level := hierarchy.Level(ln)
		items := i.buildItems(patch.Current)
		if len(items) == 0 {
			continue
		}
		i.advanceSchedules[ln] = refine.Build(level, level, items, hierarchy, ln-1, i.Comm, i.Geometry)

		if i.Config.UseGhostsToComputeDt() && !i.Config.LagDtComputation() {
			newItems := i.buildItems(patch.New)
			i.advanceNewSchedules[ln] = refine.Build(level, level, newItems, hierarchy, ln-1, i.Comm, i.Geometry)
		}
	}
}

// GetLevelDt computes the CFL-limited timestep for level: per-patch calls
// the user's ComputeStableDtOnPatch, reduces the minimum across ranks,
// and multiplies by min(cfl, cfl_init) only on the very first dt
// (spec.md §4.4 getLevelDt).
func (i *HyperbolicLevelIntegrator) GetLevelDt(hierarchy *patch.PatchHierarchy, ln int, t float64, initial bool) float64 {
	level := hierarchy.Level(ln)

	filledGhosts := false
	if i.Config.UseGhostsToComputeDt() {
		if sched, ok := i.advanceSchedules[ln]; ok {
			refine.FillData(sched, t, true, i.boundaryFiller())
			filledGhosts = true
		}
	}

	local := -1.0
	for _, p := range level.Patches() {
		dt := i.Strategy.ComputeStableDtOnPatch(p, initial, t)
		if local < 0 || dt < local {
			local = dt
		}

		if filledGhosts {
			// Copy the ghost-filled SCRATCH interior back into CURRENT so
			// the dt-fill does not pollute the timestep's working state
			// (spec.md §4.4 getLevelDt: "the scratch data is copied back
			// to CURRENT before deallocation").
			for _, vd := range i.variables {
				if vd.Role != patch.TimeDep {
					continue
				}
				scratch, hasScratch := vd.Contexts[patch.Scratch]
				cur, hasCur := vd.Contexts[patch.Current]
				if hasScratch && hasCur && p.HasData(scratch) {
					p.CopyData(cur, scratch)
				}
			}
		}
	}
	if local < 0 {
		local = 0
	}

	global := meshmpi.AllReduceMin([]float64{local})

	if initial {
		scale := i.Config.CFL()
		if i.Config.CFLInit() < scale {
			scale = i.Config.CFLInit()
		}
		return global * scale
	}
	return global * i.Config.CFL()
}

// GetMaxFinerLevelDt returns dt_coarse / max(ratio), spec.md §4.4's
// literal formula.
func (i *HyperbolicLevelIntegrator) GetMaxFinerLevelDt(dtCoarse float64, ratio geom.Ratio) float64 {
	return dtCoarse / float64(ratio.Max())
}

// AdvanceLevel executes the full per-level advance sequence spec.md
// §4.4's eleven steps describe, returning the level's dt_next.
func (i *HyperbolicLevelIntegrator) AdvanceLevel(hierarchy *patch.PatchHierarchy, ln int, tCur, tNew float64, first, last, regrid bool) float64 {
	level := hierarchy.Level(ln)
	dt := tNew - tCur

	// Step 1: allocate NEW for TIME_DEP, SCRATCH for save-and-fill.
	for _, vd := range i.variables {
		if nw, ok := vd.Contexts[patch.New]; ok {
			level.AllocateOnLevel(nw, vd)
			for _, p := range level.Patches() {
				p.SetTime(nw, tNew)
			}
		}
		if scratch, ok := vd.Contexts[patch.Scratch]; ok {
			level.AllocateOnLevel(scratch, vd)
		}
	}

	// Step 2-3: obtain (cached or fresh) advance schedule, fill SCRATCH at t_cur.
	sched, ok := i.advanceSchedules[ln]
	if !ok {
		items := i.buildItems(patch.Current)
		sched = refine.Build(level, level, items, hierarchy, ln-1, i.Comm, i.Geometry)
	}
	ghostStart := time.Now()
	refine.FillData(sched, tCur, true, i.boundaryFiller())
	i.timers.record(PhaseGhostFill, time.Since(ghostStart))

	// Step 4: preprocess flux storage.
	i.preprocessFluxData(level, ln, first, regrid, tNew)

	// Step 5: user preprocess hook.
	i.Strategy.PreprocessAdvanceLevelState(level, tCur, dt, first, last, regrid)

	// Step 6: per-patch flux compute + conservative difference.
	fluxStart := time.Now()
	for _, p := range level.Patches() {
		i.Strategy.ComputeFluxesOnPatch(p, tCur, dt)
	}
	i.timers.record(PhaseFlux, time.Since(fluxStart))

	diffStart := time.Now()
	for _, p := range level.Patches() {
		i.Strategy.ConservativeDifferenceOnPatch(p, tCur, dt, false)
	}
	i.timers.record(PhaseConservativeDifference, time.Since(diffStart))

	// Step 7: copy SCRATCH -> NEW, stamped at t_new.
	for _, vd := range i.variables {
		if vd.Role != patch.TimeDep {
			continue
		}
		scratch, hasScratch := vd.Contexts[patch.Scratch]
		nw, hasNew := vd.Contexts[patch.New]
		if !hasScratch || !hasNew {
			continue
		}
		for _, p := range level.Patches() {
			if p.HasData(scratch) {
				p.CopyData(nw, scratch)
				p.SetTime(nw, tNew)
			}
		}
	}

	// Step 8: user postprocess hook.
	i.Strategy.PostprocessAdvanceLevelState(level, tCur, dt, first, last, regrid)

	// Step 9: compute dt_next, honoring lag_dt_computation/use_ghosts_for_dt.
	dtNext := 0.0
	if !regrid {
		dtNext = i.computeDtNext(level, ln, tCur, tNew)
	}

	// Step 10: postprocess flux storage (accumulate or discard).
	i.postprocessFluxData(level, ln, regrid)

	return dtNext
}

func (i *HyperbolicLevelIntegrator) computeDtNext(level *patch.PatchLevel, ln int, tCur, tNew float64) float64 {
	lag := i.Config.LagDtComputation()
	local := -1.0

	srcCtx := patch.New
	t := tNew
	if lag {
		srcCtx = patch.Current
		t = tCur
	}

	if i.Config.UseGhostsToComputeDt() {
		var sched *refine.Schedule
		if lag {
			sched = i.advanceSchedules[ln]
		} else {
			sched = i.advanceNewSchedules[ln]
		}
		if sched != nil {
			refine.FillData(sched, t, true, i.boundaryFiller())
		}
	}
	_ = srcCtx

	for _, p := range level.Patches() {
		dt := i.Strategy.ComputeStableDtOnPatch(p, false, t)
		if local < 0 || dt < local {
			local = dt
		}
	}
	if local < 0 {
		local = 0
	}

	return meshmpi.AllReduceMin([]float64{local}) * i.Config.CFL()
}

// preprocessFluxData allocates FLUX on the first substep and zeros the
// flux-integral (outer) arrays on the first substep of any level finer
// than 0; level 0's FLUX persists across substeps under driver
// sequencing (spec.md §4.4 step 4; §9 Q3 unifies the level-0 rule with
// every other level rather than special-casing it).
func (i *HyperbolicLevelIntegrator) preprocessFluxData(level *patch.PatchLevel, ln int, first, regrid bool, t float64) {
	if !i.haveFlux {
		return
	}
	if first {
		for _, vd := range i.variables {
			if vd.Role != patch.Flux {
				continue
			}
			scratch := vd.Contexts[patch.Scratch]
			level.AllocateOnLevel(scratch, vd)
			if vd.HasFluxSum {
				fs := &patch.VariableDescriptor{Centering: outerCenteringOf(vd.Centering), Depth: vd.Depth, GhostWidth: 0}
				level.AllocateOnLevel(vd.FluxSum, fs)
				if ln > 0 {
					for _, p := range level.Patches() {
						p.Data(vd.FluxSum).Fill(0)
						p.SetTime(vd.FluxSum, t)
					}
				}
			}
		}
		i.fluxAllocated[ln] = true
	} else if ln > 0 {
		for _, vd := range i.variables {
			if vd.Role == patch.Flux && vd.HasFluxSum {
				for _, p := range level.Patches() {
					if p.HasData(vd.FluxSum) {
						p.SetTime(vd.FluxSum, t)
					}
				}
			}
		}
	}
}

// postprocessFluxData accumulates patch-boundary FLUX values into the
// flux-integral arrays via the axis-specific upfluxsum kernels, for every
// patch on a level >= 1; on regrid substeps the flux arrays are discarded
// instead (spec.md §4.4 step 10).
func (i *HyperbolicLevelIntegrator) postprocessFluxData(level *patch.PatchLevel, ln int, regrid bool) {
	if !i.haveFlux || ln == 0 {
		return
	}
	if regrid {
		for _, vd := range i.variables {
			if vd.Role == patch.Flux {
				scratch := vd.Contexts[patch.Scratch]
				level.DeallocateOnLevel(scratch)
			}
		}
		return
	}

	for _, vd := range i.variables {
		if vd.Role != patch.Flux || !vd.HasFluxSum {
			continue
		}
		scratch := vd.Contexts[patch.Scratch]
		for _, p := range level.Patches() {
			if !p.HasData(scratch) || !p.HasData(vd.FluxSum) {
				continue
			}
			flux := p.Data(scratch)
			fluxSum := p.Data(vd.FluxSum)
			cellBox := p.Box
			axis := vd.Centering.Axis
			kernels.UpFluxSum(cellBox, axis, patch.Lower, flux, fluxSum)
			kernels.UpFluxSum(cellBox, axis, patch.Upper, flux, fluxSum)
		}
	}
}

// outerCenteringOf mirrors patch's unexported helper for the Face/Side ->
// OuterFace/OuterSide mapping the integrator needs when re-allocating a
// FLUX variable's fluxsum companion.
func outerCenteringOf(c patch.Centering) patch.Centering {
	switch c.Kind {
	case patch.Face:
		return patch.OuterFaceCentering(c.Axis)
	case patch.Side:
		return patch.OuterSideCentering(c.Axis)
	default:
		fatal.Abort("HyperbolicLevelIntegrator", fmt.Sprintf("outerCenteringOf called on non-flux centering %v", c))
		panic("unreachable")
	}
}

// StandardLevelSynchronization applies flux correction and conservative
// coarsening top-down across every fine/coarse pair in [coarsest, finest]
// (spec.md §4.4 standardLevelSynchronization).
func (i *HyperbolicLevelIntegrator) StandardLevelSynchronization(hierarchy *patch.PatchHierarchy, coarsest, finest int, syncT float64, oldTimes []float64) {
	syncStart := time.Now()
	defer func() { i.timers.record(PhaseSync, time.Since(syncStart)) }()

	for ln := finest; ln > coarsest; ln-- {
		fine := hierarchy.Level(ln)
		coarse := hierarchy.Level(ln - 1)
		if fine == nil || coarse == nil {
			continue
		}
		oldT := syncT
		if ln-1 < len(oldTimes) {
			oldT = oldTimes[ln-1]
		}

		if i.Config.UseFluxCorrection() {
			i.coarsenFluxIntegrals(fine, coarse)

			if sched, ok := i.advanceSchedules[ln-1]; ok {
				refine.FillData(sched, oldT, true, i.boundaryFiller())
			}

			for _, p := range coarse.Patches() {
				i.Strategy.ConservativeDifferenceOnPatch(p, oldT, syncT-oldT, true)
			}

			for _, vd := range i.variables {
				if vd.Role != patch.TimeDep {
					continue
				}
				scratch, hasScratch := vd.Contexts[patch.Scratch]
				nw, hasNew := vd.Contexts[patch.New]
				if !hasScratch || !hasNew {
					continue
				}
				for _, p := range coarse.Patches() {
					if p.HasData(scratch) {
						p.CopyData(nw, scratch)
					}
				}
			}
		}

		i.coarsenNewData(fine, coarse)

		for _, vd := range i.variables {
			if vd.Role == patch.Flux {
				if vd.HasFluxSum {
					fine.DeallocateOnLevel(vd.FluxSum)
				}
				fine.DeallocateOnLevel(vd.Contexts[patch.Scratch])
				if ln-1 != 0 {
					coarse.DeallocateOnLevel(vd.Contexts[patch.Scratch])
				}
			}
		}
	}
}

// coarsenFluxIntegrals replaces the coarse FLUX values along the
// coarse-fine boundary with the fine level's accumulated flux integrals.
func (i *HyperbolicLevelIntegrator) coarsenFluxIntegrals(fine, coarse *patch.PatchLevel) {
	ratio := ratioBetweenLevels(fine, coarse)
	for _, vd := range i.variables {
		if vd.Role != patch.Flux || !vd.HasFluxSum {
			continue
		}
		scratch := vd.Contexts[patch.Scratch]
		for _, cp := range coarse.Patches() {
			if !cp.HasData(scratch) {
				continue
			}
			coarseArr := cp.Data(scratch)
			for _, fp := range fine.Patches() {
				if !fp.HasData(vd.FluxSum) {
					continue
				}
				fsArr := fp.Data(vd.FluxSum)
				DefaultConservativeCoarsen(coarseArr, fsArr, fsArr.Box, ratio)
			}
		}
	}
}

// coarsenNewData performs the conservative NEW->NEW transfer for every
// TIME_DEP variable (spec.md §4.4 standardLevelSynchronization step 2).
func (i *HyperbolicLevelIntegrator) coarsenNewData(fine, coarse *patch.PatchLevel) {
	ratio := ratioBetweenLevels(fine, coarse)
	for _, vd := range i.variables {
		if vd.Role != patch.TimeDep {
			continue
		}
		nw, ok := vd.Contexts[patch.New]
		if !ok {
			continue
		}
		for _, cp := range coarse.Patches() {
			if !cp.HasData(nw) {
				continue
			}
			coarseArr := cp.Data(nw)
			for _, fp := range fine.Patches() {
				if !fp.HasData(nw) {
					continue
				}
				DefaultConservativeCoarsen(coarseArr, fp.Data(nw), fp.Box, ratio)
			}
		}
	}
}

func ratioBetweenLevels(fine, coarse *patch.PatchLevel) geom.Ratio {
	fr, cr := fine.Ratio, coarse.Ratio
	coords := make([]int, fr.Dim)
	for i := 0; i < fr.Dim; i++ {
		if cr.Get(i) <= 0 || fr.Get(i)%cr.Get(i) != 0 {
			fatal.Abort("HyperbolicLevelIntegrator", "fine/coarse level ratios are not an integer multiple")
		}
		coords[i] = fr.Get(i) / cr.Get(i)
	}
	return geom.NewRatio(coords...)
}

// SynchronizeNewLevels coarsens CURRENT down through the hierarchy at
// initial time only, calling InitializeDataOnPatch after each coarsening
// so the user may overwrite interpolated values (spec.md §4.4
// synchronizeNewLevels).
func (i *HyperbolicLevelIntegrator) SynchronizeNewLevels(hierarchy *patch.PatchHierarchy, coarsest, finest int, t float64, initial bool) {
	if !initial {
		return
	}
	for ln := finest; ln > coarsest; ln-- {
		fine := hierarchy.Level(ln)
		coarse := hierarchy.Level(ln - 1)
		if fine == nil || coarse == nil {
			continue
		}
		ratio := ratioBetweenLevels(fine, coarse)
		for _, vd := range i.variables {
			if vd.Role != patch.TimeDep {
				continue
			}
			cur, ok := vd.Contexts[patch.Current]
			if !ok {
				continue
			}
			for _, cp := range coarse.Patches() {
				if !cp.HasData(cur) {
					continue
				}
				coarseArr := cp.Data(cur)
				for _, fp := range fine.Patches() {
					if fp.HasData(cur) {
						DefaultConservativeCoarsen(coarseArr, fp.Data(cur), fp.Box, ratio)
					}
				}
			}
		}
		for _, p := range coarse.Patches() {
			i.Strategy.InitializeDataOnPatch(p, t, true)
		}
	}
}

// ResetTimeDependentData swaps CURRENT <- NEW (and OLD <- CURRENT for
// 3-time-level), then deallocates NEW (spec.md §4.4
// resetTimeDependentData).
func (i *HyperbolicLevelIntegrator) ResetTimeDependentData(hierarchy *patch.PatchHierarchy, ln int, tNew float64, canBeRefined bool) {
	level := hierarchy.Level(ln)
	ops := hierarchyops.New(hierarchy, i.Comm, ln, ln)

	for _, vd := range i.variables {
		if vd.Role != patch.TimeDep {
			continue
		}
		cur, hasCur := vd.Contexts[patch.Current]
		nw, hasNew := vd.Contexts[patch.New]
		if !hasCur || !hasNew {
			continue
		}

		if i.numberTimeDataLevels == 3 && canBeRefined {
			if old, ok := vd.Contexts[patch.Old]; ok {
				ops.SwapData(old, cur)
			}
		}

		ops.SwapData(cur, nw)
		for _, p := range level.Patches() {
			p.SetTime(cur, tNew)
		}
		level.DeallocateOnLevel(nw)
	}
}

// ApplyGradientDetector fills SCRATCH and delegates per-patch feature
// tagging to the user (spec.md §4.4).
func (i *HyperbolicLevelIntegrator) ApplyGradientDetector(hierarchy *patch.PatchHierarchy, ln int, t float64, initial, coarsest bool) {
	level := hierarchy.Level(ln)
	if sched, ok := i.advanceSchedules[ln]; ok {
		refine.FillData(sched, t, true, i.boundaryFiller())
	}
	for _, p := range level.Patches() {
		i.Strategy.TagGradientDetectorCells(p, t)
	}
}

// ApplyRichardsonExtrapolation fills SCRATCH and delegates per-patch
// feature tagging to the user's Richardson-extrapolation routine.
func (i *HyperbolicLevelIntegrator) ApplyRichardsonExtrapolation(level *patch.PatchLevel, t, deltaT float64, cycle int, coarsest, initial bool) {
	for _, p := range level.Patches() {
		i.Strategy.TagRichardsonExtrapolationCells(p, t, deltaT)
	}
}

// CoarsenDataForRichardsonExtrapolation coarsens CURRENT from level onto
// a synthetic coarsened working level at the given ratio, the input the
// Richardson-extrapolation comparison needs.
func (i *HyperbolicLevelIntegrator) CoarsenDataForRichardsonExtrapolation(level, coarsenedLevel *patch.PatchLevel, t float64) {
	ratio := ratioBetweenLevels(level, coarsenedLevel)
	for _, vd := range i.variables {
		if vd.Role != patch.TimeDep {
			continue
		}
		cur, ok := vd.Contexts[patch.Current]
		if !ok {
			continue
		}
		coarsenedLevel.AllocateOnLevel(cur, vd)
		for _, cp := range coarsenedLevel.Patches() {
			if !cp.HasData(cur) {
				continue
			}
			coarseArr := cp.Data(cur)
			for _, fp := range level.Patches() {
				if fp.HasData(cur) {
					DefaultConservativeCoarsen(coarseArr, fp.Data(cur), fp.Box, ratio)
				}
			}
		}
	}
}

// Checkpoint captures the integrator's persisted scalar state (spec.md §6
// "Restart database").
func (i *HyperbolicLevelIntegrator) Checkpoint() restart.Record {
	return restart.NewRecord(i.Config.CFL(), i.Config.CFLInit(),
		i.Config.LagDtComputation(), i.Config.UseGhostsToComputeDt(), i.Config.UseFluxCorrection())
}

// Restore installs a previously checkpointed Record, aborting on a
// version mismatch (spec.md §6 "Version mismatch ... is fatal"), unless
// ReadOnRestart lets the current input override it.
func (i *HyperbolicLevelIntegrator) Restore(r restart.Record, readOnRestart bool) {
	restart.CheckVersion(r)
	if readOnRestart {
		return
	}
	i.Config = config.NewBuilder().
		WithCFL(r.CFL).
		WithCFLInit(r.CFLInit).
		WithLagDtComputation(r.LagDtComputation).
		WithUseGhostsToComputeDt(r.UseGhostsToComputeDt).
		WithUseFluxCorrection(r.UseFluxCorrection).
		Build()
}
