package integrator

import (
	"sync"

	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/amrmesh/patch"
)

// LevelDriver runs AdvanceLevel as one akita Tick per call, grounded on
// the teacher's Core.Tick per-instruction dispatch style (core/core.go)
// and on meshmpi's dispatcher (which plays the same "one queued unit of
// work per Tick" role for message delivery). Driving advanceLevel this
// way gives the integrator the same explicit, inspectable unit-of-work
// structure spec.md §5 asks of every collective step, even though this
// single-process model resolves each request on the very next Tick.
type LevelDriver struct {
	*sim.TickingComponent

	integrator *HyperbolicLevelIntegrator
	engine     sim.Engine
	now        sim.VTimeInSec

	mu    sync.Mutex
	queue []*advanceRequest
}

type advanceRequest struct {
	hierarchy           *patch.PatchHierarchy
	ln                  int
	tCur, tNew          float64
	first, last, regrid bool
	result              chan float64
}

// NewLevelDriver builds a driver bound to one HyperbolicLevelIntegrator.
func NewLevelDriver(name string, integrator *HyperbolicLevelIntegrator) *LevelDriver {
	engine := sim.NewSerialEngine()
	d := &LevelDriver{integrator: integrator, engine: engine}
	d.TickingComponent = sim.NewTickingComponent(name, engine, 1*sim.GHz, d)
	return d
}

// Tick pops the oldest queued advance request and runs it to completion.
func (d *LevelDriver) Tick(now sim.VTimeInSec) (madeProgress bool) {
	d.mu.Lock()
	if len(d.queue) == 0 {
		d.mu.Unlock()
		return false
	}
	req := d.queue[0]
	d.queue = d.queue[1:]
	d.mu.Unlock()

	dtNext := d.integrator.AdvanceLevel(req.hierarchy, req.ln, req.tCur, req.tNew, req.first, req.last, req.regrid)
	req.result <- dtNext
	close(req.result)

	return true
}

// PhaseDurations exposes the underlying integrator's accumulated
// per-phase timing, the hook surface monitor.Server's /timers route
// reads — see timing.go's package doc for the scope this does and does
// not cover.
func (d *LevelDriver) PhaseDurations() map[Phase]PhaseStats {
	return d.integrator.PhaseDurations()
}

// AdvanceLevel enqueues one AdvanceLevel call, runs the engine until that
// Tick resolves it, and returns the resulting dt_next — the synchronous
// entry point a simulation loop calls once per level per timestep.
func (d *LevelDriver) AdvanceLevel(hierarchy *patch.PatchHierarchy, ln int, tCur, tNew float64, first, last, regrid bool) float64 {
	result := make(chan float64, 1)

	d.mu.Lock()
	d.queue = append(d.queue, &advanceRequest{
		hierarchy: hierarchy, ln: ln, tCur: tCur, tNew: tNew,
		first: first, last: last, regrid: regrid, result: result,
	})
	d.mu.Unlock()

	d.now++
	d.engine.Schedule(sim.MakeTickEvent(d.TickingComponent, d.now))
	d.engine.Run()

	return <-result
}
