// Package config builds the input-database options recognized by the
// hyperbolic level integrator (spec.md §6 "Input database").
package config

// IntegratorConfig holds the recognized input-database options for one
// HyperbolicLevelIntegrator instance.
type IntegratorConfig struct {
	cfl                   float64
	cflInit               float64
	lagDtComputation      bool
	useGhostsToComputeDt  bool
	useFluxCorrection     bool
	devDistinguishMPICost bool
	devBarrierAdvance     bool
	readOnRestart         bool

	cflSet, cflInitSet bool
}

// Builder constructs an IntegratorConfig with the teacher's fluent WithX
// idiom. lagDtComputation and useFluxCorrection default true, matching
// spec.md §6; the rest default false.
type Builder struct {
	cfg IntegratorConfig
}

// NewBuilder returns a Builder with the input database's documented
// defaults applied.
func NewBuilder() Builder {
	return Builder{cfg: IntegratorConfig{
		lagDtComputation:  true,
		useFluxCorrection: true,
	}}
}

// WithCFL sets the required CFL factor for subsequent timesteps.
func (b Builder) WithCFL(cfl float64) Builder {
	b.cfg.cfl = cfl
	b.cfg.cflSet = true
	return b
}

// WithCFLInit sets the required CFL factor for the first timestep.
func (b Builder) WithCFLInit(cflInit float64) Builder {
	b.cfg.cflInit = cflInit
	b.cfg.cflInitSet = true
	return b
}

// WithLagDtComputation selects whether dt is computed from pre-advance
// state (true, the default) rather than post-advance state.
func (b Builder) WithLagDtComputation(lag bool) Builder {
	b.cfg.lagDtComputation = lag
	return b
}

// WithUseGhostsToComputeDt requires a ghost fill before dt computation.
func (b Builder) WithUseGhostsToComputeDt(use bool) Builder {
	b.cfg.useGhostsToComputeDt = use
	return b
}

// WithUseFluxCorrection selects whether the flux-correction
// synchronization step runs (true by default).
func (b Builder) WithUseFluxCorrection(use bool) Builder {
	b.cfg.useFluxCorrection = use
	return b
}

// WithDevDistinguishMPIReductionCosts sets the DEV_distinguish_mpi_reduction_costs
// instrumentation knob.
func (b Builder) WithDevDistinguishMPIReductionCosts(on bool) Builder {
	b.cfg.devDistinguishMPICost = on
	return b
}

// WithDevBarrierAdvanceLevelSections sets the
// DEV_barrier_advance_level_sections instrumentation knob.
func (b Builder) WithDevBarrierAdvanceLevelSections(on bool) Builder {
	b.cfg.devBarrierAdvance = on
	return b
}

// WithReadOnRestart permits input values to override restart values on a
// restart run.
func (b Builder) WithReadOnRestart(on bool) Builder {
	b.cfg.readOnRestart = on
	return b
}

// Build validates the required options and returns the finished config.
// cfl and cfl_init are required per spec.md §6; a missing value is a
// configuration error (§7) and aborts the process.
func (b Builder) Build() IntegratorConfig {
	if !b.cfg.cflSet {
		panic("config: cfl is required")
	}
	if !b.cfg.cflInitSet {
		panic("config: cfl_init is required")
	}
	return b.cfg
}

// CFL returns the configured CFL factor for subsequent timesteps.
func (c IntegratorConfig) CFL() float64 { return c.cfl }

// CFLInit returns the configured CFL factor for the first timestep.
func (c IntegratorConfig) CFLInit() float64 { return c.cflInit }

// LagDtComputation reports whether dt is computed from pre-advance state.
func (c IntegratorConfig) LagDtComputation() bool { return c.lagDtComputation }

// UseGhostsToComputeDt reports whether a ghost fill is required before dt.
func (c IntegratorConfig) UseGhostsToComputeDt() bool { return c.useGhostsToComputeDt }

// UseFluxCorrection reports whether the flux-correction sync step runs.
func (c IntegratorConfig) UseFluxCorrection() bool { return c.useFluxCorrection }

// DevDistinguishMPIReductionCosts reports the instrumentation knob state.
func (c IntegratorConfig) DevDistinguishMPIReductionCosts() bool { return c.devDistinguishMPICost }

// DevBarrierAdvanceLevelSections reports the instrumentation knob state.
func (c IntegratorConfig) DevBarrierAdvanceLevelSections() bool { return c.devBarrierAdvance }

// ReadOnRestart reports whether input values may override restart values.
func (c IntegratorConfig) ReadOnRestart() bool { return c.readOnRestart }
