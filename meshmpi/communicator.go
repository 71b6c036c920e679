package meshmpi

import (
	"sort"
	"sync"

	"github.com/sarchlab/akita/v4/sim"
)

// dispatcher is the completion-queue stage: an akita ticking component that
// advances virtual time and resolves any delivery whose send time has
// elapsed. It plays the role the teacher's Core.Tick plays for instruction
// dispatch, but for message delivery.
type dispatcher struct {
	*sim.TickingComponent

	mu      sync.Mutex
	pending []*pendingDelivery
}

type pendingDelivery struct {
	env    *Envelope
	future *Future
}

// Tick resolves every pending delivery whose virtual send time has already
// elapsed. Because amrmesh's communicator is a single-process stand-in for
// a real fabric (there is no network latency to model), every pending
// delivery resolves on the first tick after it is scheduled — the ticking
// structure exists so that ordering and "collective suspension point"
// semantics (spec.md §5) are explicit and inspectable, not so that it
// models wire latency.
func (d *dispatcher) Tick(now sim.VTimeInSec) (madeProgress bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.pending) == 0 {
		return false
	}

	for _, p := range d.pending {
		p.future.resolve(p.env)
	}
	d.pending = d.pending[:0]

	return true
}

// Communicator is the communicator every collective and point-to-point
// operation in connector/refine is scoped to (spec.md §5 "All operations
// are collective over the MPI communicator of the participating
// BoxLevels").
type Communicator struct {
	Size int

	engine sim.Engine
	disp   *dispatcher
	now    sim.VTimeInSec
}

// NewCommunicator builds a communicator with the given number of ranks.
func NewCommunicator(size int) *Communicator {
	if size <= 0 {
		panic("meshmpi: communicator size must be positive")
	}

	engine := sim.NewSerialEngine()
	d := &dispatcher{}
	d.TickingComponent = sim.NewTickingComponent("amrmesh.dispatcher", engine, 1*sim.GHz, d)

	return &Communicator{
		Size:   size,
		engine: engine,
		disp:   d,
	}
}

// SendAsync ships payload from src to dst tagged with tag and returns a
// Future resolved once Drain has processed it. Non-blocking: the caller may
// issue many SendAsync calls before calling Drain, matching spec.md §4.1
// step 3's "ships discovered edges ... via asynchronous point-to-point
// messaging".
func (c *Communicator) SendAsync(tag int, src, dst Rank, payload interface{}) *Future {
	if int(src) < 0 || int(src) >= c.Size || int(dst) < 0 || int(dst) >= c.Size {
		panic("meshmpi: rank out of range")
	}

	env := EnvelopeBuilder{}.
		WithTag(tag).
		WithSrc(src).
		WithDst(dst).
		WithSendTime(c.now).
		WithPayload(payload).
		Build()

	f := newFuture()

	c.disp.mu.Lock()
	c.disp.pending = append(c.disp.pending, &pendingDelivery{env: env, future: f})
	c.disp.mu.Unlock()

	c.engine.Schedule(sim.MakeTickEvent(c.disp.TickingComponent, c.now))

	return f
}

// Drain advances virtual time until every outstanding SendAsync delivery
// has resolved. This is the one collective suspension point named in
// spec.md §5 shared by both the connector's bridge() and the refine
// schedule's fillData(): every network-visible step completes here.
func (c *Communicator) Drain() {
	c.now++
	c.engine.Schedule(sim.MakeTickEvent(c.disp.TickingComponent, c.now))
	c.engine.Run()
}

// Barrier is a no-op synchronization point in the single-process model:
// every rank's local state is already visible to every other rank (there is
// no real network to wait on), but the call is kept as an explicit
// suspension point so algorithms that must name a barrier (spec.md §5) have
// somewhere to name it, and so a future multi-process backend has a single
// seam to fill in.
func (c *Communicator) Barrier() {
	c.Drain()
}

// AllReduceSum performs a SUM reduction of one float64 per rank, as used by
// L1Norm/L2Norm/integral/dot in hierarchyops (spec.md §4.5 "Parallel
// semantics"). Implemented as a local fold because every rank's
// contribution is already resident in the same process; a real multi-
// process backend would replace this with a network reduction without
// changing any caller.
func AllReduceSum(perRank []float64) float64 {
	var sum float64
	for _, v := range perRank {
		sum += v
	}
	return sum
}

// AllReduceMax performs a MAX reduction, used by maxNorm (spec.md §4.5).
// dt_next's global minimum uses AllReduceMin instead.
func AllReduceMax(perRank []float64) float64 {
	if len(perRank) == 0 {
		return 0
	}
	m := perRank[0]
	for _, v := range perRank[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// AllReduceMin performs a MIN reduction, used by getLevelDt's
// global-min-across-ranks step (spec.md §4.4).
func AllReduceMin(perRank []float64) float64 {
	if len(perRank) == 0 {
		return 0
	}
	m := perRank[0]
	for _, v := range perRank[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// SortedRanks returns 0..size-1 in order; used wherever an algorithm must
// iterate ranks in a deterministic order (spec.md §5 ordering guarantees).
func (c *Communicator) SortedRanks() []Rank {
	out := make([]Rank, c.Size)
	for i := range out {
		out[i] = Rank(i)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
