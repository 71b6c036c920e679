// Package restart implements the integrator's persisted scalar state
// (spec.md §6 "Restart database"): two records per integrator instance —
// the version tag and the five configuration scalars — checked for
// version compatibility on load.
package restart

import (
	"strconv"

	"github.com/sarchlab/amrmesh/fatal"
)

// Version is the current ALGS_HYPERBOLIC_LEVEL_INTEGRATOR_VERSION. Bump
// whenever the record's shape changes.
const Version = 3

// Record is the integrator's persisted state: the version tag plus the
// five scalar parameters named in spec.md §6.
type Record struct {
	Version              int
	CFL                  float64
	CFLInit              float64
	LagDtComputation     bool
	UseGhostsToComputeDt bool
	UseFluxCorrection    bool
}

// NewRecord captures the current configuration for checkpointing.
func NewRecord(cfl, cflInit float64, lag, useGhosts, useFluxCorrection bool) Record {
	return Record{
		Version:              Version,
		CFL:                  cfl,
		CFLInit:              cflInit,
		LagDtComputation:     lag,
		UseGhostsToComputeDt: useGhosts,
		UseFluxCorrection:    useFluxCorrection,
	}
}

// CheckVersion aborts the process if r was written by an incompatible
// integrator version (spec.md §6: "Version mismatch ... is fatal").
func CheckVersion(r Record) {
	if r.Version != Version {
		fatal.Abort("restart.Record", "version mismatch: stored "+strconv.Itoa(r.Version)+" != current "+strconv.Itoa(Version))
	}
}
